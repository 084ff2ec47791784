package model

import (
	"fmt"

	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

// Badge colors
const (
	colorActive   = "#44cc11"
	colorInactive = "#e05d44"
	colorUnknown  = "#9f9f9f"
)

// Badge cache lifetimes in seconds, keyed by how fast the underlying
// activity can plausibly change
const (
	ttlActive   = 300
	ttlInactive = 3600
	ttlNotFound = 86400
)

// BadgeState is everything needed to render one badge: the classified
// activity, whether poking the user is allowed, and whether the caller
// asked for an interactive badge.
type BadgeState struct {
	Username     types.Username
	Activity     ActivityState
	PokeEligible bool
	Interactive  bool
	NotFound     bool
}

// NewBadgeState builds the badge state for a user. interactive is the
// caller's request; the rendered badge is interactive only when the user
// is inactive and accepts pokes.
func NewBadgeState(username types.Username, activity ActivityState, pokeEligible, interactive bool) BadgeState {
	return BadgeState{
		Username:     username,
		Activity:     activity,
		PokeEligible: pokeEligible,
		Interactive:  interactive && activity.ShouldPoke() && pokeEligible,
	}
}

// NotFoundBadgeState is rendered when the GitHub user does not exist
func NotFoundBadgeState(username types.Username) BadgeState {
	return BadgeState{Username: username, NotFound: true}
}

// Text returns the human readable badge message
func (b BadgeState) Text() string {
	if b.NotFound {
		return "User not found"
	}
	switch b.Activity.Kind {
	case ActivityActiveToday:
		return "Active today"
	case ActivityActiveThisWeek:
		return fmt.Sprintf("Active %d days ago", b.Activity.DaysAgo)
	default:
		return fmt.Sprintf("Inactive for %d days", b.Activity.DaysAgo)
	}
}

// Color returns the badge fill color for the activity state
func (b BadgeState) Color() string {
	if b.NotFound {
		return colorUnknown
	}
	if b.Activity.IsActive() {
		return colorActive
	}
	return colorInactive
}

// TTL returns the cache lifetime of the badge in seconds
func (b BadgeState) TTL() int {
	switch {
	case b.NotFound:
		return ttlNotFound
	case b.Activity.IsActive():
		return ttlActive
	default:
		return ttlInactive
	}
}

// CacheControl returns the Cache-Control header value for the badge
func (b BadgeState) CacheControl() string {
	return fmt.Sprintf("public, max-age=%d, stale-while-revalidate=86400", b.TTL())
}

// ContentType returns the MIME type of the rendered badge
func (b BadgeState) ContentType() string {
	return "image/svg+xml"
}

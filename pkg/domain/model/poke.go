package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

type PokeEventID string

func NewPokeEventID() PokeEventID {
	return PokeEventID(uuid.New().String())
}

func (x PokeEventID) String() string {
	return string(x)
}

// PokeEvent records one delivered poke. PokedAt is always UTC; the
// duplicate gate compares UTC calendar dates derived from it.
type PokeEvent struct {
	ID       PokeEventID    `json:"id"`
	From     types.Username `json:"from"`
	To       types.Username `json:"to"`
	PokedAt  time.Time      `json:"poked_at"`
	ClientIP string         `json:"client_ip,omitempty"`

	// Repository is the "owner/repo" page the poke was sent from, when
	// the interactive badge provided one
	Repository string `json:"repository,omitempty"`
}

// NewPokeEvent creates a poke event stamped at the given time in UTC
func NewPokeEvent(from, to types.Username, now time.Time) *PokeEvent {
	return &PokeEvent{
		ID:      NewPokeEventID(),
		From:    from,
		To:      to,
		PokedAt: now.UTC(),
	}
}

// DedupKey identifies the (sender, recipient, UTC date) triple. At most
// one event per key may exist.
func (x *PokeEvent) DedupKey() string {
	return fmt.Sprintf("poke:%s:%s:%s", x.From, x.To, x.PokedAt.UTC().Format("2006-01-02"))
}

// IsDuplicateOf reports whether the two events target the same recipient
// from the same sender on the same UTC calendar day.
func (x *PokeEvent) IsDuplicateOf(other *PokeEvent) bool {
	return x.DedupKey() == other.DedupKey()
}

// DenyReason explains why a poke was refused by policy
type DenyReason string

const (
	DenyRecipientDisabled DenyReason = "recipient_disabled"
	DenyNotFollower       DenyReason = "not_follower"
	DenyNotMutualFollower DenyReason = "not_mutual_follower"
	DenyAlreadyPokedToday DenyReason = "already_poked_today"
	DenyRateLimitExceeded DenyReason = "rate_limit_exceeded"
	DenySelfPoke          DenyReason = "self_poke"
	DenyRecipientNotFound DenyReason = "recipient_not_found"
)

// Verdict is the outcome of a policy decision
type Verdict struct {
	Allowed bool
	Reason  DenyReason
}

func Allow() Verdict {
	return Verdict{Allowed: true}
}

func Deny(reason DenyReason) Verdict {
	return Verdict{Allowed: false, Reason: reason}
}

// Authorize evaluates the recipient's poke setting against the follow
// relation between sender and recipient. Pure and total over both enums.
func Authorize(setting types.PokeSetting, relation types.FollowRelation) Verdict {
	switch setting {
	case types.PokeSettingDisabled:
		return Deny(DenyRecipientDisabled)

	case types.PokeSettingAnyone:
		return Allow()

	case types.PokeSettingFollowersOnly:
		if relation.IsFollower() {
			return Allow()
		}
		return Deny(DenyNotFollower)

	case types.PokeSettingMutualOnly:
		if relation.IsMutual() {
			return Allow()
		}
		return Deny(DenyNotMutualFollower)

	default:
		return Deny(DenyRecipientDisabled)
	}
}

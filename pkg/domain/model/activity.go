package model

import (
	"time"

	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

// Activity holds the contribution data fetched from GitHub for one user.
// It is an immutable snapshot; FetchedAt records when it was taken.
type Activity struct {
	Username           types.Username `json:"username"`
	LastActivityAt     *time.Time     `json:"last_activity_at,omitempty"`
	CurrentStreakDays  *int           `json:"current_streak_days,omitempty"`
	TotalContributions *int           `json:"total_contributions,omitempty"`
	FetchedAt          time.Time      `json:"fetched_at"`
}

// daysInactiveUnknown is assumed when no activity timestamp is available
const daysInactiveUnknown = 365

// DaysInactive returns the number of whole days since the last activity,
// never negative. Absent activity data is treated as a year of silence.
func (a *Activity) DaysInactive(now time.Time) int {
	if a.LastActivityAt == nil {
		return daysInactiveUnknown
	}
	days := int(now.Sub(*a.LastActivityAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ActivityKind classifies how recently a user has been active
type ActivityKind string

const (
	ActivityActiveToday       ActivityKind = "active_today"
	ActivityActiveThisWeek    ActivityKind = "active_this_week"
	ActivityInactiveThisMonth ActivityKind = "inactive_this_month"
	ActivityLongInactive      ActivityKind = "long_inactive"
)

// ActivityState is the classified activity of a user: a kind plus the
// number of days since the last activity. Derived, never persisted.
type ActivityState struct {
	Kind    ActivityKind
	DaysAgo int
}

// ClassifyActivity derives the activity state from an activity snapshot.
// Pure and total: every input maps to exactly one state.
func ClassifyActivity(activity *Activity, now time.Time) ActivityState {
	days := activity.DaysInactive(now)

	switch {
	case days == 0:
		return ActivityState{Kind: ActivityActiveToday}
	case days <= 7:
		return ActivityState{Kind: ActivityActiveThisWeek, DaysAgo: days}
	case days <= 30:
		return ActivityState{Kind: ActivityInactiveThisMonth, DaysAgo: days}
	default:
		return ActivityState{Kind: ActivityLongInactive, DaysAgo: days}
	}
}

// IsActive reports whether the user was active within the last 7 days
func (s ActivityState) IsActive() bool {
	return s.Kind == ActivityActiveToday || s.Kind == ActivityActiveThisWeek
}

// ShouldPoke reports whether the user is inactive enough to be poked
func (s ActivityState) ShouldPoke() bool {
	return !s.IsActive()
}

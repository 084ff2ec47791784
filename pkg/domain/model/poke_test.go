package model_test

import (
	"testing"
	"time"

	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setting    types.PokeSetting
		relation   types.FollowRelation
		wantAllow  bool
		wantReason model.DenyReason
	}{
		{
			name:       "disabled denies everyone",
			setting:    types.PokeSettingDisabled,
			relation:   types.FollowRelationNone,
			wantAllow:  false,
			wantReason: model.DenyRecipientDisabled,
		},
		{
			name:       "disabled denies even mutual followers",
			setting:    types.PokeSettingDisabled,
			relation:   types.FollowRelationMutual,
			wantAllow:  false,
			wantReason: model.DenyRecipientDisabled,
		},
		{
			name:      "anyone allows strangers",
			setting:   types.PokeSettingAnyone,
			relation:  types.FollowRelationNone,
			wantAllow: true,
		},
		{
			name:      "anyone allows followers",
			setting:   types.PokeSettingAnyone,
			relation:  types.FollowRelationFollower,
			wantAllow: true,
		},
		{
			name:       "followers only denies strangers",
			setting:    types.PokeSettingFollowersOnly,
			relation:   types.FollowRelationNone,
			wantAllow:  false,
			wantReason: model.DenyNotFollower,
		},
		{
			name:      "followers only allows followers",
			setting:   types.PokeSettingFollowersOnly,
			relation:  types.FollowRelationFollower,
			wantAllow: true,
		},
		{
			name:      "followers only allows mutual",
			setting:   types.PokeSettingFollowersOnly,
			relation:  types.FollowRelationMutual,
			wantAllow: true,
		},
		{
			name:       "mutual only denies one-way followers",
			setting:    types.PokeSettingMutualOnly,
			relation:   types.FollowRelationFollower,
			wantAllow:  false,
			wantReason: model.DenyNotMutualFollower,
		},
		{
			name:      "mutual only allows mutual",
			setting:   types.PokeSettingMutualOnly,
			relation:  types.FollowRelationMutual,
			wantAllow: true,
		},
		{
			name:       "mutual only denies strangers",
			setting:    types.PokeSettingMutualOnly,
			relation:   types.FollowRelationNone,
			wantAllow:  false,
			wantReason: model.DenyNotMutualFollower,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verdict := model.Authorize(tt.setting, tt.relation)
			if verdict.Allowed != tt.wantAllow {
				t.Errorf("Authorize(%v, %v) allowed = %v, want %v", tt.setting, tt.relation, verdict.Allowed, tt.wantAllow)
			}
			if !tt.wantAllow && verdict.Reason != tt.wantReason {
				t.Errorf("Authorize(%v, %v) reason = %v, want %v", tt.setting, tt.relation, verdict.Reason, tt.wantReason)
			}
		})
	}
}

func TestPokeEventDuplicate(t *testing.T) {
	t.Parallel()

	alice := types.Username("alice")
	bob := types.Username("bob")
	carol := types.Username("carol")
	at := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	t.Run("same pair on same UTC day is duplicate", func(t *testing.T) {
		a := model.NewPokeEvent(alice, bob, at)
		b := model.NewPokeEvent(alice, bob, at.Add(8*time.Hour))
		if !a.IsDuplicateOf(b) {
			t.Error("expected duplicate for same pair on same day")
		}
	})

	t.Run("24 hour shift crosses the day boundary", func(t *testing.T) {
		a := model.NewPokeEvent(alice, bob, at)
		b := model.NewPokeEvent(alice, bob, at.Add(24*time.Hour))
		if a.IsDuplicateOf(b) {
			t.Error("events a day apart must not be duplicate")
		}
	})

	t.Run("UTC date decides, not elapsed hours", func(t *testing.T) {
		late := time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC)
		a := model.NewPokeEvent(alice, bob, late)
		b := model.NewPokeEvent(alice, bob, late.Add(2*time.Hour))
		if a.IsDuplicateOf(b) {
			t.Error("events on different UTC dates must not be duplicate")
		}
	})

	t.Run("non UTC timestamps compare by UTC date", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*60*60)
		a := model.NewPokeEvent(alice, bob, time.Date(2026, 8, 2, 5, 0, 0, 0, jst))
		b := model.NewPokeEvent(alice, bob, time.Date(2026, 8, 1, 22, 0, 0, 0, time.UTC))
		if !a.IsDuplicateOf(b) {
			t.Error("expected duplicate: both events fall on 2026-08-01 UTC")
		}
	})

	t.Run("different sender is never duplicate", func(t *testing.T) {
		a := model.NewPokeEvent(alice, bob, at)
		b := model.NewPokeEvent(carol, bob, at)
		if a.IsDuplicateOf(b) {
			t.Error("different senders must not be duplicate")
		}
	})

	t.Run("different recipient is never duplicate", func(t *testing.T) {
		a := model.NewPokeEvent(alice, bob, at)
		b := model.NewPokeEvent(alice, carol, at)
		if a.IsDuplicateOf(b) {
			t.Error("different recipients must not be duplicate")
		}
	})
}

func TestPokeEventDedupKey(t *testing.T) {
	t.Parallel()

	event := model.NewPokeEvent(types.Username("alice"), types.Username("bob"), time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))
	want := "poke:alice:bob:2026-08-01"
	if got := event.DedupKey(); got != want {
		t.Errorf("DedupKey() = %q, want %q", got, want)
	}
}

package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

// PokeEventRepository defines the interface for poke event persistence
type PokeEventRepository interface {
	// Create persists a new poke event. At most one event may exist per
	// (sender, recipient, UTC date); a second insert for the same triple
	// returns ErrAlreadyExists even under concurrent callers.
	Create(ctx context.Context, event *model.PokeEvent) error

	// ListSentOn retrieves the events a sender created on the UTC
	// calendar day containing the given time.
	ListSentOn(ctx context.Context, from types.Username, day time.Time) ([]*model.PokeEvent, error)

	// ListReceived retrieves the most recent events delivered to a
	// recipient, newest first, up to limit.
	ListReceived(ctx context.Context, to types.Username, limit int) ([]*model.PokeEvent, error)

	// DeleteByUser removes all events sent or received by a username.
	// Used for account deletion.
	DeleteByUser(ctx context.Context, username types.Username) error
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
)

type pokeEventRepository struct {
	mu     sync.Mutex
	events map[string]*model.PokeEvent // keyed by dedup key
}

func newPokeEventRepository() *pokeEventRepository {
	return &pokeEventRepository{
		events: make(map[string]*model.PokeEvent),
	}
}

func copyPokeEvent(event *model.PokeEvent) *model.PokeEvent {
	copied := *event
	return &copied
}

func (r *pokeEventRepository) Create(ctx context.Context, event *model.PokeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := event.DedupKey()
	if _, exists := r.events[key]; exists {
		return goerr.Wrap(ErrAlreadyExists, "poke event already exists",
			goerr.V("from", event.From), goerr.V("to", event.To))
	}

	r.events[key] = copyPokeEvent(event)
	return nil
}

func (r *pokeEventRepository) ListSentOn(ctx context.Context, from types.Username, day time.Time) ([]*model.PokeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dayStart := day.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var events []*model.PokeEvent
	for _, event := range r.events {
		if event.From != from {
			continue
		}
		if event.PokedAt.Before(dayStart) || !event.PokedAt.Before(dayEnd) {
			continue
		}
		events = append(events, copyPokeEvent(event))
	}

	return events, nil
}

func (r *pokeEventRepository) ListReceived(ctx context.Context, to types.Username, limit int) ([]*model.PokeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []*model.PokeEvent
	for _, event := range r.events {
		if event.To == to {
			events = append(events, copyPokeEvent(event))
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].PokedAt.After(events[j].PokedAt)
	})

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}

	return events, nil
}

func (r *pokeEventRepository) DeleteByUser(ctx context.Context, username types.Username) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, event := range r.events {
		if event.From == username || event.To == username {
			delete(r.events, key)
		}
	}

	return nil
}

package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type pokeEventDocument struct {
	ID         string    `firestore:"id"`
	From       string    `firestore:"from"`
	To         string    `firestore:"to"`
	PokedAt    time.Time `firestore:"poked_at"`
	ClientIP   string    `firestore:"client_ip,omitempty"`
	Repository string    `firestore:"repository,omitempty"`
}

type pokeEventRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newPokeEventRepository(client *firestore.Client) *pokeEventRepository {
	return &pokeEventRepository{
		client: client,
	}
}

func (r *pokeEventRepository) eventsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_poke_events"
	}
	return "poke_events"
}

func pokeEventToDocument(event *model.PokeEvent) *pokeEventDocument {
	return &pokeEventDocument{
		ID:         string(event.ID),
		From:       string(event.From),
		To:         string(event.To),
		PokedAt:    event.PokedAt,
		ClientIP:   event.ClientIP,
		Repository: event.Repository,
	}
}

func pokeEventToModel(doc *pokeEventDocument) *model.PokeEvent {
	return &model.PokeEvent{
		ID:         model.PokeEventID(doc.ID),
		From:       types.Username(doc.From),
		To:         types.Username(doc.To),
		PokedAt:    doc.PokedAt,
		ClientIP:   doc.ClientIP,
		Repository: doc.Repository,
	}
}

// Create inserts the event under its dedup key. Two writers racing on
// the same (from, to, UTC date) hit the same document ID, so exactly one
// Create succeeds and the other gets ErrAlreadyExists.
func (r *pokeEventRepository) Create(ctx context.Context, event *model.PokeEvent) error {
	doc := pokeEventToDocument(event)

	docRef := r.client.Collection(r.eventsCollection()).Doc(event.DedupKey())
	if _, err := docRef.Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(ErrAlreadyExists, "poke event already exists",
				goerr.V("from", event.From), goerr.V("to", event.To))
		}
		return goerr.Wrap(err, "failed to create poke event", goerr.V("id", event.ID))
	}

	return nil
}

func (r *pokeEventRepository) ListSentOn(ctx context.Context, from types.Username, day time.Time) ([]*model.PokeEvent, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	iter := r.client.Collection(r.eventsCollection()).
		Where("from", "==", string(from)).
		Where("poked_at", ">=", dayStart).
		Where("poked_at", "<", dayEnd).
		Documents(ctx)
	defer iter.Stop()

	var events []*model.PokeEvent
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list sent poke events", goerr.V("from", from))
		}

		var eventDoc pokeEventDocument
		if err := doc.DataTo(&eventDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal poke event", goerr.V("from", from))
		}
		events = append(events, pokeEventToModel(&eventDoc))
	}

	return events, nil
}

func (r *pokeEventRepository) ListReceived(ctx context.Context, to types.Username, limit int) ([]*model.PokeEvent, error) {
	iter := r.client.Collection(r.eventsCollection()).
		Where("to", "==", string(to)).
		OrderBy("poked_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var events []*model.PokeEvent
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list received poke events", goerr.V("to", to))
		}

		var eventDoc pokeEventDocument
		if err := doc.DataTo(&eventDoc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal poke event", goerr.V("to", to))
		}
		events = append(events, pokeEventToModel(&eventDoc))
	}

	return events, nil
}

func (r *pokeEventRepository) DeleteByUser(ctx context.Context, username types.Username) error {
	for _, field := range []string{"from", "to"} {
		iter := r.client.Collection(r.eventsCollection()).
			Where(field, "==", string(username)).
			Documents(ctx)

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return goerr.Wrap(err, "failed to list poke events for deletion", goerr.V("username", username))
			}

			if _, err := doc.Ref.Delete(ctx); err != nil {
				iter.Stop()
				return goerr.Wrap(err, "failed to delete poke event", goerr.V("username", username))
			}
		}
		iter.Stop()
	}

	return nil
}

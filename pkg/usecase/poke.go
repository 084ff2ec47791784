package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/secmon-lab/gitpoke/pkg/domain/model/auth"
	"github.com/secmon-lab/gitpoke/pkg/domain/types"
	"github.com/secmon-lab/gitpoke/pkg/utils/async"
	"github.com/secmon-lab/gitpoke/pkg/utils/logging"
)

// PokeResult is the outcome of a poke attempt. A denied poke is a normal
// result, not an error; errors are reserved for dependency failures.
type PokeResult struct {
	Delivered bool
	EventID   model.PokeEventID
	Reason    model.DenyReason
}

func delivered(id model.PokeEventID) *PokeResult {
	return &PokeResult{Delivered: true, EventID: id}
}

func denied(reason model.DenyReason) *PokeResult {
	return &PokeResult{Reason: reason}
}

// Message returns the human readable outcome for the API envelope
func (r *PokeResult) Message() string {
	if r.Delivered {
		return "Poke delivered"
	}

	switch r.Reason {
	case model.DenySelfPoke:
		return "You cannot poke yourself"
	case model.DenyRateLimitExceeded:
		return "Too many pokes, try again later"
	case model.DenyRecipientNotFound:
		return "This user does not accept pokes"
	case model.DenyRecipientDisabled:
		return "This user has disabled pokes"
	case model.DenyNotFollower:
		return "This user only accepts pokes from followers"
	case model.DenyNotMutualFollower:
		return "This user only accepts pokes from mutual followers"
	case model.DenyAlreadyPokedToday:
		return "You already poked this user today"
	default:
		return fmt.Sprintf("Poke denied (%s)", r.Reason)
	}
}

// PokeOption attaches optional metadata to a poke attempt
type PokeOption func(*pokeMeta)

type pokeMeta struct {
	repository string
}

// WithRepoContext records the "owner/repo" page the poke was sent from.
// Interactive badges embedded in a repository README pass it along.
func WithRepoContext(repository string) PokeOption {
	return func(m *pokeMeta) {
		m.repository = repository
	}
}

// Poke delivers a poke from the token owner to a recipient. The gates
// run in order: self-poke check, IP rate limit, recipient policy, and
// the once-per-day duplicate gate. The persistence layer enforces the
// daily uniqueness again, so two racing pokes still yield one event.
func (uc *UseCases) Poke(ctx context.Context, token *auth.Token, recipient types.Username, clientIP string, opts ...PokeOption) (*PokeResult, error) {
	if token == nil {
		return nil, ErrLoginRequired
	}
	sender := token.Username

	if sender == recipient {
		return denied(model.DenySelfPoke), nil
	}

	// A rate limiter failure is fatal to the request; degrading here
	// would bypass the limit.
	allowed, err := uc.limiter.Allow(ctx, clientIP)
	if err != nil {
		return nil, goerr.Wrap(err, "rate limit check failed")
	}
	if !allowed {
		return denied(model.DenyRateLimitExceeded), nil
	}

	recipientAccount, err := uc.repo.User().GetByUsername(ctx, recipient)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return denied(model.DenyRecipientNotFound), nil
		}
		return nil, goerr.Wrap(err, "failed to look up recipient", goerr.V("recipient", recipient))
	}

	if !recipientAccount.AcceptsPoke() {
		return denied(model.DenyRecipientDisabled), nil
	}

	relation := types.FollowRelationNone
	if recipientAccount.PokeSetting != types.PokeSettingAnyone {
		relation, err = uc.github.FetchFollowRelation(ctx, token.AccessToken, recipient)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to resolve follow relation",
				goerr.V("sender", sender), goerr.V("recipient", recipient))
		}
	}

	if verdict := model.Authorize(recipientAccount.PokeSetting, relation); !verdict.Allowed {
		return denied(verdict.Reason), nil
	}

	now := time.Now().UTC()
	sentToday, err := uc.repo.PokeEvent().ListSentOn(ctx, sender, now)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query today's pokes", goerr.V("sender", sender))
	}
	for _, sent := range sentToday {
		if sent.To == recipient {
			return denied(model.DenyAlreadyPokedToday), nil
		}
	}

	var meta pokeMeta
	for _, opt := range opts {
		opt(&meta)
	}

	event := model.NewPokeEvent(sender, recipient, now)
	event.ClientIP = clientIP
	event.Repository = meta.repository

	if err := uc.repo.PokeEvent().Create(ctx, event); err != nil {
		if errors.Is(err, interfaces.ErrAlreadyExists) {
			// Lost the race against a concurrent poke from the same
			// sender to the same recipient
			return denied(model.DenyAlreadyPokedToday), nil
		}
		return nil, goerr.Wrap(err, "failed to record poke event", goerr.V("sender", sender))
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		if err := uc.notifier.NotifyPoke(ctx, event); err != nil {
			return goerr.Wrap(err, "failed to notify poke", goerr.V("event_id", event.ID))
		}
		return nil
	})

	logging.From(ctx).Info("poke delivered",
		"event_id", event.ID, "from", sender, "to", recipient)

	return delivered(event.ID), nil
}

// PokeHistory returns the most recent pokes a user received
func (uc *UseCases) PokeHistory(ctx context.Context, username types.Username, limit int) ([]*model.PokeEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	events, err := uc.repo.PokeEvent().ListReceived(ctx, username, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list received pokes", goerr.V("username", username))
	}

	return events, nil
}

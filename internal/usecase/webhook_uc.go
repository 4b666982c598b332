package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"line-relay/internal/domain/model"
	"line-relay/internal/domain/ports/adapter"
	"line-relay/internal/infra/i18n"
	"line-relay/internal/infra/logging"
	"line-relay/internal/infra/metrics"
)

var _ WebhookUseCase = (*webhookUC)(nil)

// Translator supplies reply texts.
type Translator interface {
	T(key string, args ...interface{}) string
}

// WebhookUseCase handles verified, decoded webhook events.
type WebhookUseCase interface {
	// Dispatch handles events in order. A failing event does not stop the
	// ones after it; all failures are joined into the returned error.
	Dispatch(ctx context.Context, events []model.Event) error
}

type webhookUC struct {
	users     UserUseCase
	messenger adapter.Messenger
	tr        Translator
	log       *zerolog.Logger
}

func NewWebhookUseCase(users UserUseCase, messenger adapter.Messenger, tr Translator, logger *zerolog.Logger) *webhookUC {
	return &webhookUC{
		users:     users,
		messenger: messenger,
		tr:        tr,
		log:       logger,
	}
}

func (w *webhookUC) Dispatch(ctx context.Context, events []model.Event) error {
	defer logging.TraceDuration(w.log, "WebhookUC.Dispatch")()

	var errs []error
	for i, ev := range events {
		metrics.IncWebhookEvent(ev.Kind())
		if err := w.handle(ctx, ev); err != nil {
			logging.With(ctx, w.log).Error().Err(err).
				Int("index", i).
				Str("event_type", ev.Kind()).
				Str("webhook_event_id", ev.Meta().WebhookEventID).
				Msg("event handling failed")
			errs = append(errs, fmt.Errorf("event %d (%s): %w", i, ev.Kind(), err))
		}
	}
	return errors.Join(errs...)
}

func (w *webhookUC) handle(ctx context.Context, ev model.Event) error {
	src := ev.EventSource()
	if !src.UserID.IsZero() {
		ctx = logging.WithUserID(ctx, src.UserID.String())
	}

	switch e := ev.(type) {
	case model.MessageEvent:
		if err := w.observe(ctx, src.UserID); err != nil {
			return err
		}
		if _, ok := e.Message.(model.TextContent); !ok {
			logging.With(ctx, w.log).Debug().Msg("non-text message, no reply")
			return nil
		}
		if src.UserID.IsZero() {
			logging.With(ctx, w.log).Debug().Str("source_type", src.Type).Msg("no user id to report, no reply")
			return nil
		}
		return w.messenger.Reply(ctx, e.ReplyToken, model.NewTextMessage(w.tr.T(i18n.KeyYourID, src.UserID)))
	case model.FollowEvent:
		if err := w.observe(ctx, src.UserID); err != nil {
			return err
		}
		return w.messenger.Reply(ctx, e.ReplyToken, model.NewTextMessage(w.tr.T(i18n.KeyFollowThanks)))
	case model.UnfollowEvent:
		logging.With(ctx, w.log).Info().Msg("user unfollowed")
		return nil
	case model.UnknownEvent:
		logging.With(ctx, w.log).Debug().Str("event_type", e.Type).Msg("ignoring unhandled event type")
		return nil
	default:
		return fmt.Errorf("unsupported event %T", ev)
	}
}

// observe records id; sources without a user id (group or room without
// consent) are skipped.
func (w *webhookUC) observe(ctx context.Context, id model.UserID) error {
	if id.IsZero() {
		return nil
	}
	_, err := w.users.Observe(ctx, id)
	return err
}

package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"line-relay/internal/domain"
	"line-relay/internal/domain/model"
	"line-relay/internal/domain/ports/adapter"
	"line-relay/internal/infra/logging"
	"line-relay/internal/infra/metrics"
)

var _ PushUseCase = (*pushUC)(nil)

// PushUseCase relays a caller-supplied text to a LINE user.
type PushUseCase interface {
	Push(ctx context.Context, to model.UserID, text string) error
}

type pushUC struct {
	messenger adapter.Messenger
	log       *zerolog.Logger
	dev       bool
}

func NewPushUseCase(messenger adapter.Messenger, logger *zerolog.Logger, dev bool) *pushUC {
	return &pushUC{messenger: messenger, log: logger, dev: dev}
}

// Push returns domain.ErrInvalidArgument when either field is blank. Delivery
// failures are returned as-is and never retried here.
func (p *pushUC) Push(ctx context.Context, to model.UserID, text string) error {
	defer logging.TraceDuration(p.log, "PushUC.Push")()

	msg := model.NewTextMessage(text)
	if to.IsZero() || msg.IsEmpty() {
		metrics.IncPush("invalid")
		return fmt.Errorf("%w: 'to' and 'message' are required", domain.ErrInvalidArgument)
	}

	ctx = logging.WithUserID(ctx, to.String())
	if err := p.messenger.Push(ctx, to, msg); err != nil {
		metrics.IncPush("error")
		logging.With(ctx, p.log).Error().Err(err).
			Str("to", logging.Redact(to.String(), p.dev)).
			Msg("Push failed")
		return err
	}
	metrics.IncPush("success")
	return nil
}

package line

import (
	"context"

	"github.com/rs/zerolog"

	"line-relay/internal/domain/model"
	"line-relay/internal/domain/ports/adapter"
	"line-relay/internal/infra/logging"
)

var _ adapter.Messenger = (*NoopClient)(nil)

// NoopClient implements adapter.Messenger for local/dev testing.
// It logs messages instead of calling the LINE API.
type NoopClient struct {
	log *zerolog.Logger
	dev bool
}

func NewNoopClient(logger *zerolog.Logger, dev bool) *NoopClient {
	return &NoopClient{log: logger, dev: dev}
}

func (n *NoopClient) Reply(ctx context.Context, replyToken string, msgs ...model.OutboundMessage) error {
	for _, m := range msgs {
		logging.With(ctx, n.log).Info().
			Str("reply_token", logging.Redact(replyToken, n.dev)).
			Str("text", logging.Redact(m.Text, n.dev)).
			Msg("[noop-line] reply")
	}
	return nil
}

func (n *NoopClient) Push(ctx context.Context, to model.UserID, msgs ...model.OutboundMessage) error {
	for _, m := range msgs {
		logging.With(ctx, n.log).Info().
			Str("to", logging.Redact(to.String(), n.dev)).
			Str("text", logging.Redact(m.Text, n.dev)).
			Msg("[noop-line] push")
	}
	return nil
}

package line

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/rs/zerolog"

	"line-relay/internal/config"
	"line-relay/internal/domain/model"
	"line-relay/internal/domain/ports/adapter"
	"line-relay/internal/infra/metrics"
)

var _ adapter.Messenger = (*Client)(nil)

// Client implements adapter.Messenger on top of the LINE Messaging API SDK.
// Every send acquires its own API handle bound to the call context and
// releases it when the send returns; the HTTP transport is shared.
type Client struct {
	token      string
	endpoint   string
	httpClient *http.Client
	log        *zerolog.Logger
}

// NewClient validates the channel access token and builds the shared
// transport. cfg.Timeout is the only deadline applied to outbound calls.
func NewClient(cfg config.LineConfig, logger *zerolog.Logger) (*Client, error) {
	if cfg.ChannelAccessToken == "" {
		return nil, errors.New("line: channel access token is empty")
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	c := &Client{
		token:      cfg.ChannelAccessToken,
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
	// Fail at startup rather than on the first webhook if options are bad.
	if _, err := c.newAPI(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) newAPI() (*messaging_api.MessagingApiAPI, error) {
	opts := []messaging_api.MessagingApiAPIOption{
		messaging_api.WithHTTPClient(c.httpClient),
	}
	if c.endpoint != "" {
		opts = append(opts, messaging_api.WithEndpoint(c.endpoint))
	}
	api, err := messaging_api.NewMessagingApiAPI(c.token, opts...)
	if err != nil {
		return nil, fmt.Errorf("line: build messaging api client: %w", err)
	}
	return api, nil
}

// acquire hands out a per-call API handle. The caller must invoke release.
// The handle ignores cancellation of ctx so an abandoned inbound request
// does not abort a send that is already in flight.
func (c *Client) acquire(ctx context.Context) (*messaging_api.MessagingApiAPI, func(), error) {
	api, err := c.newAPI()
	if err != nil {
		return nil, nil, err
	}
	metrics.IncLineInflight()
	return api.WithContext(context.WithoutCancel(ctx)), metrics.DecLineInflight, nil
}

func (c *Client) call(ctx context.Context, op string, fn func(api *messaging_api.MessagingApiAPI) error) error {
	api, release, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	start := time.Now()
	err = fn(api)
	elapsed := time.Since(start)
	metrics.ObserveLineCall(op, elapsed.Milliseconds(), err == nil)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Dur("duration", elapsed).Msg("line api call failed")
		return fmt.Errorf("line %s: %w", op, err)
	}
	c.log.Debug().Str("op", op).Dur("duration", elapsed).Msg("line api call")
	return nil
}

func (c *Client) Reply(ctx context.Context, replyToken string, msgs ...model.OutboundMessage) error {
	if replyToken == "" {
		return errors.New("line reply: empty reply token")
	}
	req := &messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   toSDKMessages(msgs),
	}
	return c.call(ctx, "reply", func(api *messaging_api.MessagingApiAPI) error {
		_, err := api.ReplyMessage(req)
		return err
	})
}

func (c *Client) Push(ctx context.Context, to model.UserID, msgs ...model.OutboundMessage) error {
	req := &messaging_api.PushMessageRequest{
		To:       to.String(),
		Messages: toSDKMessages(msgs),
	}
	// The retry key lets LINE de-duplicate a caller's resend of the same
	// request; we never resend on our own.
	retryKey := uuid.NewString()
	return c.call(ctx, "push", func(api *messaging_api.MessagingApiAPI) error {
		_, err := api.PushMessage(req, retryKey)
		return err
	})
}

func toSDKMessages(msgs []model.OutboundMessage) []messaging_api.MessageInterface {
	out := make([]messaging_api.MessageInterface, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messaging_api.TextMessage{Text: m.Text})
	}
	return out
}

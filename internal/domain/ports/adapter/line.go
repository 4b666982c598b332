// File: internal/domain/ports/adapter/line.go
package adapter

import (
	"context"

	"line-relay/internal/domain/model"
)

// Messenger sends messages through the LINE Messaging API.
type Messenger interface {
	// Reply answers an inbound event. The token is single use and expires
	// on the platform side; a consumed or expired token is an error.
	Reply(ctx context.Context, replyToken string, msgs ...model.OutboundMessage) error
	// Push sends to a user independently of any inbound event.
	Push(ctx context.Context, to model.UserID, msgs ...model.OutboundMessage) error
}

package line

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"line-relay/internal/domain"
	"line-relay/internal/domain/model"
)

// ParseEvents decodes a verified webhook body into domain events. Event
// types without a dedicated variant become model.UnknownEvent. Any JSON
// error, or a body without an events array, yields domain.ErrMalformedPayload.
func ParseEvents(body []byte) (string, []model.Event, error) {
	// The SDK leaves Events nil both for [] and for a missing key; only the
	// former is a valid delivery.
	var envelope struct {
		Events json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if len(envelope.Events) == 0 || string(envelope.Events) == "null" {
		return "", nil, fmt.Errorf("%w: missing events array", domain.ErrMalformedPayload)
	}

	var req webhook.CallbackRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	events := make([]model.Event, 0, len(req.Events))
	for i, raw := range req.Events {
		ev, err := toModel(raw)
		if err != nil {
			return "", nil, fmt.Errorf("%w: event %d: %v", domain.ErrMalformedPayload, i, err)
		}
		events = append(events, ev)
	}
	return req.Destination, events, nil
}

func toModel(raw webhook.EventInterface) (model.Event, error) {
	switch e := raw.(type) {
	case webhook.MessageEvent:
		if e.Message == nil {
			return nil, fmt.Errorf("message event without message object")
		}
		return model.MessageEvent{
			EventMeta:  meta(e.WebhookEventId, e.Timestamp, e.Mode, e.DeliveryContext),
			Source:     source(e.Source),
			ReplyToken: e.ReplyToken,
			Message:    content(e.Message),
		}, nil
	case webhook.FollowEvent:
		return model.FollowEvent{
			EventMeta:  meta(e.WebhookEventId, e.Timestamp, e.Mode, e.DeliveryContext),
			Source:     source(e.Source),
			ReplyToken: e.ReplyToken,
		}, nil
	case webhook.UnfollowEvent:
		return model.UnfollowEvent{
			EventMeta: meta(e.WebhookEventId, e.Timestamp, e.Mode, e.DeliveryContext),
			Source:    source(e.Source),
		}, nil
	default:
		// Postback, join, beacon and the SDK's own UnknownEvent all land here.
		return model.UnknownEvent{Type: raw.GetType()}, nil
	}
}

func meta(id string, ts int64, mode webhook.EventMode, dc *webhook.DeliveryContext) model.EventMeta {
	m := model.EventMeta{
		WebhookEventID: id,
		Mode:           string(mode),
	}
	if ts > 0 {
		m.Timestamp = time.UnixMilli(ts)
	}
	if dc != nil {
		m.Redelivery = dc.IsRedelivery
	}
	return m
}

func source(src webhook.SourceInterface) model.Source {
	switch s := src.(type) {
	case webhook.UserSource:
		return model.Source{Type: s.GetType(), UserID: model.UserID(s.UserId)}
	case webhook.GroupSource:
		return model.Source{Type: s.GetType(), UserID: model.UserID(s.UserId), GroupID: s.GroupId}
	case webhook.RoomSource:
		return model.Source{Type: s.GetType(), UserID: model.UserID(s.UserId), RoomID: s.RoomId}
	case nil:
		return model.Source{}
	default:
		return model.Source{Type: src.GetType()}
	}
}

func content(msg webhook.MessageContentInterface) model.MessageContent {
	switch m := msg.(type) {
	case webhook.TextMessageContent:
		return model.TextContent{ID: m.Id, Text: m.Text}
	case webhook.StickerMessageContent:
		return model.OtherContent{ID: m.Id, Type: m.GetType()}
	case webhook.ImageMessageContent:
		return model.OtherContent{ID: m.Id, Type: m.GetType()}
	case webhook.VideoMessageContent:
		return model.OtherContent{ID: m.Id, Type: m.GetType()}
	case webhook.AudioMessageContent:
		return model.OtherContent{ID: m.Id, Type: m.GetType()}
	case webhook.FileMessageContent:
		return model.OtherContent{ID: m.Id, Type: m.GetType()}
	case webhook.LocationMessageContent:
		return model.OtherContent{ID: m.Id, Type: m.GetType()}
	default:
		return model.OtherContent{Type: msg.GetType()}
	}
}

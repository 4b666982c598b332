package model

import "time"

// Event is one inbound webhook event. The set of implementations is closed:
// MessageEvent, FollowEvent, UnfollowEvent and UnknownEvent. Consumers switch
// on the concrete type; kinds we do not model arrive as UnknownEvent.
type Event interface {
	Kind() string
	EventSource() Source
	Meta() EventMeta
	sealedEvent()
}

// Source identifies who produced an event. UserID may be empty for group or
// room sources when the user has not consented to profile access.
type Source struct {
	Type    string
	UserID  UserID
	GroupID string
	RoomID  string
}

// EventMeta holds the fields every webhook event carries.
type EventMeta struct {
	WebhookEventID string
	Timestamp      time.Time
	Mode           string
	Redelivery     bool
}

type MessageEvent struct {
	EventMeta
	Source     Source
	ReplyToken string
	Message    MessageContent
}

type FollowEvent struct {
	EventMeta
	Source     Source
	ReplyToken string
}

type UnfollowEvent struct {
	EventMeta
	Source Source
}

// UnknownEvent stands in for any event type this service does not handle.
type UnknownEvent struct {
	EventMeta
	Source Source
	Type   string
}

func (e MessageEvent) Kind() string  { return "message" }
func (e FollowEvent) Kind() string   { return "follow" }
func (e UnfollowEvent) Kind() string { return "unfollow" }
func (e UnknownEvent) Kind() string  { return e.Type }

func (e MessageEvent) EventSource() Source  { return e.Source }
func (e FollowEvent) EventSource() Source   { return e.Source }
func (e UnfollowEvent) EventSource() Source { return e.Source }
func (e UnknownEvent) EventSource() Source  { return e.Source }

func (e MessageEvent) Meta() EventMeta  { return e.EventMeta }
func (e FollowEvent) Meta() EventMeta   { return e.EventMeta }
func (e UnfollowEvent) Meta() EventMeta { return e.EventMeta }
func (e UnknownEvent) Meta() EventMeta  { return e.EventMeta }

func (MessageEvent) sealedEvent()  {}
func (FollowEvent) sealedEvent()   {}
func (UnfollowEvent) sealedEvent() {}
func (UnknownEvent) sealedEvent()  {}

// MessageContent is the payload of a MessageEvent: TextContent or OtherContent.
type MessageContent interface {
	ContentType() string
	sealedContent()
}

type TextContent struct {
	ID   string
	Text string
}

// OtherContent covers image, sticker, location and every other non-text type.
type OtherContent struct {
	ID   string
	Type string
}

func (TextContent) ContentType() string    { return "text" }
func (c OtherContent) ContentType() string { return c.Type }

func (TextContent) sealedContent()  {}
func (OtherContent) sealedContent() {}

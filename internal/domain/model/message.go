package model

import "strings"

// OutboundMessage is a text payload sent once through either the reply or
// the push API; the target travels with the call, not the message.
type OutboundMessage struct {
	Text string
}

func NewTextMessage(text string) OutboundMessage {
	return OutboundMessage{Text: text}
}

func (m OutboundMessage) IsEmpty() bool { return strings.TrimSpace(m.Text) == "" }

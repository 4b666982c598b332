//go:build !integration

package model

import "testing"

func TestUserID_IsZero(t *testing.T) {
	cases := map[UserID]bool{
		"":      true,
		"   ":   true,
		"U1234": false,
	}
	for id, want := range cases {
		if got := id.IsZero(); got != want {
			t.Errorf("UserID(%q).IsZero() = %v, want %v", id, got, want)
		}
	}
}

func TestOutboundMessage_IsEmpty(t *testing.T) {
	if !NewTextMessage(" \n").IsEmpty() {
		t.Error("whitespace-only text should be empty")
	}
	if NewTextMessage("hi").IsEmpty() {
		t.Error("text should not be empty")
	}
}

func TestEvent_Kinds(t *testing.T) {
	src := Source{Type: "user", UserID: "U1"}
	events := []struct {
		ev   Event
		kind string
	}{
		{MessageEvent{Source: src, Message: TextContent{Text: "hi"}}, "message"},
		{FollowEvent{Source: src}, "follow"},
		{UnfollowEvent{Source: src}, "unfollow"},
		{UnknownEvent{Source: src, Type: "postback"}, "postback"},
	}
	for _, tc := range events {
		if got := tc.ev.Kind(); got != tc.kind {
			t.Errorf("%T.Kind() = %q, want %q", tc.ev, got, tc.kind)
		}
		if tc.ev.EventSource().UserID != "U1" {
			t.Errorf("%T lost its source", tc.ev)
		}
	}
}

func TestMessageContent_Types(t *testing.T) {
	if (TextContent{}).ContentType() != "text" {
		t.Error("TextContent should report text")
	}
	if (OtherContent{Type: "sticker"}).ContentType() != "sticker" {
		t.Error("OtherContent should report its own type")
	}
}

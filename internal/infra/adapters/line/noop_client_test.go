//go:build !integration

package line

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"line-relay/internal/domain/model"
)

func TestNoopClient_LogsInsteadOfSending(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	c := NewNoopClient(&logger, false)

	if err := c.Reply(context.Background(), "reply-token-123456", model.NewTextMessage("hi")); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if err := c.Push(context.Background(), "U1234567890", model.NewTextMessage("meet me at the station")); err != nil {
		t.Fatalf("Push: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "[noop-line] reply") || !strings.Contains(out, "[noop-line] push") {
		t.Fatalf("expected both sends to be logged, got %s", out)
	}
	if strings.Contains(out, "U1234567890") {
		t.Error("user ids must be redacted outside dev mode")
	}
	if strings.Contains(out, "meet me at the station") {
		t.Error("message text must be redacted outside dev mode")
	}
}

func TestNoopClient_DevModeLogsPlainText(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	c := NewNoopClient(&logger, true)

	if err := c.Push(context.Background(), "U1234567890", model.NewTextMessage("meet me at the station")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "meet me at the station") || !strings.Contains(out, "U1234567890") {
		t.Fatalf("dev mode should log plain values, got %s", out)
	}
}

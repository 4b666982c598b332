//go:build !integration

package i18n

import (
	"testing"
)

func TestTranslator(t *testing.T) {
	translator, err := newTranslatorFromBytes([]byte("greeting: こんにちは\nwelcome_user: こんにちは %s"))
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		if got, want := translator.T("greeting"), "こんにちは"; got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		if got, want := translator.T("nonexistent_key"), "nonexistent_key"; got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		if got, want := translator.T("welcome_user", "U1"), "こんにちは U1"; got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})
}

func TestEmbeddedLocales(t *testing.T) {
	ja, err := NewTranslator(LocalesFS, "ja")
	if err != nil {
		t.Fatalf("load ja: %v", err)
	}
	if got, want := ja.T(KeyYourID, "U123"), "あなたのIDは U123 です。"; got != want {
		t.Errorf("ja your_id: got %q, want %q", got, want)
	}
	if got, want := ja.T(KeyFollowThanks), "友達追加ありがとうございます！"; got != want {
		t.Errorf("ja follow_thanks: got %q, want %q", got, want)
	}

	en, err := NewTranslator(LocalesFS, "en")
	if err != nil {
		t.Fatalf("load en: %v", err)
	}
	if got := en.T(KeyYourID, "U123"); got != "Your ID is U123." {
		t.Errorf("en your_id: got %q", got)
	}

	if _, err := NewTranslator(LocalesFS, "xx"); err == nil {
		t.Error("expected error for missing locale")
	}
}

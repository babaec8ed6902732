package app

import (
	"log/slog"
	"testing"
)

func TestNewLoggerFormatSelection(t *testing.T) {
	if _, ok := NewLogger(&Config{LogFormat: "json"}).Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("LOG_FORMAT=json should select the JSON handler")
	}
	if _, ok := NewLogger(&Config{LogFormat: "pretty"}).Handler().(*slog.TextHandler); !ok {
		t.Fatalf("LOG_FORMAT=pretty should select the text handler")
	}
	if _, ok := NewLogger(nil).Handler().(*slog.TextHandler); !ok {
		t.Fatalf("nil config should fall back to the text handler")
	}
}

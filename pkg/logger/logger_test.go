package logger

import "testing"

func TestInitAcceptsKnownLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if err := Init(level); err != nil {
			t.Fatalf("Init(%q) returned error: %v", level, err)
		}
		if Logger() == nil {
			t.Fatalf("Logger() returned nil after Init(%q)", level)
		}
	}
}

func TestInitFallsBackOnUnknownLevel(t *testing.T) {
	if err := Init("not-a-level"); err != nil {
		t.Fatalf("unexpected error for unknown level: %v", err)
	}
}

func TestWithModuleReturnsChild(t *testing.T) {
	if WithModule("messaging") == nil {
		t.Fatal("expected module logger")
	}
}

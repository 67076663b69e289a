package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		l, err := NewLogger(env, "")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", env, err)
		}
		_ = l.Sync()
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging", ""); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	FromContext(ctx).Info("hello")
	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}

	if _, ok := Lookup(context.Background()); ok {
		t.Error("empty context must not carry a logger")
	}
	FromContext(context.Background()).Info("dropped")
}

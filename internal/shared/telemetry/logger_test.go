package telemetry

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogWritesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Use(zap.New(core))
	t.Cleanup(func() { Setup("dev") })

	Warn("asset.delete.failed", map[string]any{
		"handle": "backgrounds/abc",
		"err":    errors.New("boom"),
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Message != "asset.delete.failed" {
		t.Fatalf("unexpected message: %s", entry.Message)
	}
	ctx := entry.ContextMap()
	if ctx["handle"] != "backgrounds/abc" {
		t.Fatalf("unexpected handle field: %v", ctx["handle"])
	}
	if ctx["err"] != "boom" {
		t.Fatalf("expected error rendered as string, got %v", ctx["err"])
	}
}

func TestToZapEmpty(t *testing.T) {
	if got := toZap(nil); got != nil {
		t.Fatalf("expected nil fields, got %v", got)
	}
}

package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesStructuredField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core))

	log.InfoObj("source fetched", "source_result", map[string]any{"source_id": "s1", "restaurants": 2})
	log.ErrorObj("sink failed", "error", "boom")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	res, ok := fields["source_result"].(map[string]any)
	if !ok || res["source_id"] != "s1" {
		t.Fatalf("unexpected fields %#v", fields)
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("expected error level, got %s", entries[1].Level)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if parseLevel("verbose") != zapcore.InfoLevel {
		t.Fatalf("unknown level should default to info")
	}
	if parseLevel("warning") != zapcore.WarnLevel {
		t.Fatalf("warning should map to warn")
	}
}

func TestEnsureReturnsNop(t *testing.T) {
	if _, ok := Ensure(nil).(NopLogger); !ok {
		t.Fatalf("Ensure(nil) should return NopLogger")
	}
}

package log_test

import (
	"context"
	"testing"

	"mail-calendar-automation/pkg/log"
)

func TestTraceContext(t *testing.T) {
	ctx := log.NewTraceContext(context.Background())
	if log.TraceID(ctx) == "" {
		t.Fatalf("expected trace id in context")
	}

	ctx = log.WithTraceID(context.Background(), "abc")
	if got := log.TraceID(ctx); got != "abc" {
		t.Errorf("TraceID() = %q, want abc", got)
	}

	if got := log.TraceID(context.Background()); got != "" {
		t.Errorf("expected empty trace id, got %q", got)
	}
}

func TestInit(t *testing.T) {
	for _, cfg := range []log.ZapConfig{
		{Level: "debug", Mode: "development", Encoding: "console", ColorEnabled: true},
		{Level: "info", Mode: "production", Encoding: "json"},
		{Level: "bogus"},
	} {
		l := log.Init(cfg)
		if l == nil {
			t.Fatalf("Init(%+v) returned nil", cfg)
		}
		l.Debugf(log.WithTraceID(context.Background(), "t1"), "hello %s", "world")
	}

	log.NewNop().Info(context.Background(), "discarded")
}

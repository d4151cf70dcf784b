package job

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func TestPollerRunsImmediately(t *testing.T) {
	var calls atomic.Int32
	p := NewMarketPoller(
		trace.NewNoopTracerProvider().Tracer("test"),
		RefresherFunc(func(context.Context) { calls.Add(1) }),
		3600,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("poller never ran the initial refresh")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on cancel")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly the initial run, got %d", calls.Load())
	}
}

func TestPollerTicks(t *testing.T) {
	var calls atomic.Int32
	p := &MarketPoller{
		tracer:       trace.NewNoopTracerProvider().Tracer("test"),
		refresher:    RefresherFunc(func(context.Context) { calls.Add(1) }),
		pollInterval: 20 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Start(ctx)

	deadline := time.After(2 * time.Second)
	for calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected repeated refreshes, got %d", calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestPollerDefaultInterval(t *testing.T) {
	p := NewMarketPoller(trace.NewNoopTracerProvider().Tracer("test"), RefresherFunc(func(context.Context) {}), 0)
	if p.pollInterval != 60*time.Second {
		t.Fatalf("expected 60s default, got %v", p.pollInterval)
	}
}

package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Refresher is the dashboard operation the poller drives.
type Refresher interface {
	Refresh(ctx context.Context)
}

// RefresherFunc adapts a plain function to the Refresher interface.
type RefresherFunc func(ctx context.Context)

func (f RefresherFunc) Refresh(ctx context.Context) { f(ctx) }

// MarketPoller re-runs the dashboard refresh on a fixed interval so the
// displayed prices never go stale while a frontend is connected.
type MarketPoller struct {
	tracer       trace.Tracer
	refresher    Refresher
	pollInterval time.Duration
}

func NewMarketPoller(tracer trace.Tracer, refresher Refresher, pollIntervalSecs int) *MarketPoller {
	if pollIntervalSecs <= 0 {
		pollIntervalSecs = 60
	}
	return &MarketPoller{
		tracer:       tracer,
		refresher:    refresher,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start runs one refresh immediately, then one per interval. Blocks until
// ctx is cancelled.
func (p *MarketPoller) Start(ctx context.Context) {
	log.Println("Market poller starting...")

	p.refreshOnce(ctx)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Market poller stopped")
			return
		case <-ticker.C:
			p.refreshOnce(ctx)
		}
	}
}

func (p *MarketPoller) refreshOnce(ctx context.Context) {
	ctx, span := p.tracer.Start(ctx, "job.market-refresh")
	defer span.End()
	p.refresher.Refresh(ctx)
}

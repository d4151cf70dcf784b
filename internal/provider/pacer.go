package provider

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum gap between outgoing API calls. The CoinGecko
// free tier tolerates roughly 10 calls per minute before returning 429s.
type Pacer struct {
	mu   sync.Mutex
	gap  time.Duration
	next time.Time
}

func NewPacer(gap time.Duration) *Pacer {
	return &Pacer{gap: gap}
}

// Wait blocks until the caller may issue the next call or ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	wait := p.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	p.next = now.Add(wait + p.gap)
	p.mu.Unlock()

	if wait == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces the fixed delay between metered backend calls. One rate
// limiter exists per backend identifier so a premium and a free backend
// don't share a budget of calls.
type Pacer struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	interval time.Duration
}

// NewPacer creates a pacer with the given minimum interval between calls
// to the same backend
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Pacer{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until the next call to backend is allowed or ctx is done
func (p *Pacer) Wait(ctx context.Context, backend string) error {
	return p.limiter(backend).Wait(ctx)
}

func (p *Pacer) limiter(backend string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if lim, ok := p.limiters[backend]; ok {
		return lim
	}
	// Burst of 1: the first call goes through immediately, every later
	// call waits out the full interval
	lim := rate.NewLimiter(rate.Every(p.interval), 1)
	p.limiters[backend] = lim
	return lim
}

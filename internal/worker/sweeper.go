package worker

import (
	"context"
	"log"
	"time"
)

// StaleFailer is the one store operation the sweeper needs.
type StaleFailer interface {
	FailStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper un-sticks estimates left in "processing" by a crash or a hung
// engine call: anything older than staleAfter is failed so the document
// becomes retryable again.
type Sweeper struct {
	estimates  StaleFailer
	staleAfter time.Duration
	interval   time.Duration
}

func NewSweeper(estimates StaleFailer, staleAfter, interval time.Duration) *Sweeper {
	return &Sweeper{estimates: estimates, staleAfter: staleAfter, interval: interval}
}

// Start runs one sweep immediately (startup recovery), then keeps sweeping
// on the interval until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.sweep(ctx)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.staleAfter)
	n, err := s.estimates.FailStale(ctx, cutoff)
	if err != nil {
		log.Printf("sweeper: stale scan failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("sweeper: failed %d interrupted estimate(s)", n)
	}
}

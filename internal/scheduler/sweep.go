package scheduler

import (
	"context"
	"log"
	"time"
)

// Expirer drops sessions idle since before cutoff.
type Expirer interface {
	ExpireIdle(cutoff time.Time) int
}

// SessionSweep returns a job that removes sessions idle for longer than ttl.
func SessionSweep(store Expirer, ttl time.Duration, now func() time.Time) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if n := store.ExpireIdle(now().Add(-ttl)); n > 0 {
			log.Printf("🧹 Expired %d idle sessions", n)
		}
		return nil
	}
}

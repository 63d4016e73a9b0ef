// Package cache holds small in-process caches with periodic expiry.
package cache

import (
	"context"
	"time"
)

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	CleanExpired() int
}

// RunCleanup calls CleanExpired on every cache each interval until ctx is
// done. onClean, when non-nil, receives the number of dropped entries.
func RunCleanup(ctx context.Context, interval time.Duration, onClean func(int), caches ...Cleaner) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			total := 0
			for _, c := range caches {
				total += c.CleanExpired()
			}
			if onClean != nil && total > 0 {
				onClean(total)
			}
		}
	}
}

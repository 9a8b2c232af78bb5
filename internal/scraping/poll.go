package scraping

import (
	"context"
	"time"
)

// Clock abstracts waiting so polling policy is testable without wall-clock
// delays.
type Clock interface {
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock waits on the wall clock.
type RealClock struct{}

// Sleep implements Clock.
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PollUntil invokes probe up to maxAttempts times, sleeping interval between
// attempts. It returns true as soon as probe does, false when attempts are
// exhausted. A probe error stops polling immediately.
func PollUntil(ctx context.Context, clock Clock, interval time.Duration, maxAttempts int, probe func(context.Context) (bool, error)) (bool, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := clock.Sleep(ctx, interval); err != nil {
				return false, err
			}
		}

		done, err := probe(ctx)
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
	}
	return false, nil
}

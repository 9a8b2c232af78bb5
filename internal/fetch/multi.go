// Package fetch - multi.go provides bounded-concurrency multi-URL fetching.
package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel fetches in Multiple.
const DefaultConcurrency = 4

// Multiple fetches several URLs concurrently, preserving input order in the
// results. A failed fetch records its error at the same position (a non-2xx
// response still carries its partial Result); the other fetches run to
// completion regardless.
func Multiple(ctx context.Context, urls []string, opts *Options) ([]*Result, []error) {
	results := make([]*Result, len(urls))
	errs := make([]error, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	for i, u := range urls {
		g.Go(func() error {
			result, err := URL(ctx, u, opts)
			results[i] = result
			errs[i] = err
			// Individual failures are reported per-slot, not as a group error.
			return nil
		})
	}

	_ = g.Wait()
	return results, errs
}

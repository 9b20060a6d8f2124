package score

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ScoreAll scores the extractions concurrently, at most Engine workers at a
// time. Results keep the input order. A nil item or a cancelled context
// aborts the batch.
func (e *Engine) ScoreAll(ctx context.Context, items []*Extraction) ([]*ProductResult, error) {
	results := make([]*ProductResult, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, x := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if x == nil {
				return fmt.Errorf("%w: item %d is empty", ErrInvalidExtraction, i)
			}
			results[i] = e.ScoreExtraction(x)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error scoring batch: %w", err)
	}
	return results, nil
}

package solve

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RunBatch evaluates reqs on up to workers goroutines and returns one
// Response per request in input order. A request that fails carries its
// error text in Response.Error and does not stop the batch. Cancelling ctx
// stops scheduling; the returned error is then the context's.
func RunBatch(ctx context.Context, reqs []Request, defaults Defaults, workers int) ([]Response, error) {
	responses := make([]Response, len(reqs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, workers))

	for idx, req := range reqs {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			ctxErr := groupCtx.Err()
			if ctxErr != nil {
				return ctxErr
			}

			resp, runErr := Run(req, defaults)
			if runErr != nil {
				resp = Response{Request: req, Error: runErr.Error()}
			}

			responses[idx] = resp

			return nil
		})
	}

	waitErr := group.Wait()
	if waitErr == nil {
		waitErr = ctx.Err()
	}

	if waitErr != nil {
		return responses, fmt.Errorf("batch interrupted: %w", waitErr)
	}

	return responses, nil
}

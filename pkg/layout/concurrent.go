package layout

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/netblend/netblend/pkg/errors"
)

// PlaceConcurrent invokes place for every placement using up to workers
// goroutines and returns the handles in placement order. workers <= 0 uses
// GOMAXPROCS.
//
// place must be safe for concurrent use. On the first error the remaining
// work is cancelled and the error is returned; handles of objects that were
// already created are discarded.
func PlaceConcurrent(ctx context.Context, ps []Placement, radius float64, place PlaceFunc, workers int) ([]Handle, error) {
	if place == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "placement function is nil")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	handles := make([]Handle, len(ps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, p := range ps {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, err := place(radius, p.At)
			if err != nil {
				return errors.Wrap(errors.ErrCodePlacementFailed, err,
					"neuron %d (layer %d, column %d, row %d)", p.Index, p.Layer, p.Column, p.Row)
			}
			handles[i] = h
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return handles, nil
}

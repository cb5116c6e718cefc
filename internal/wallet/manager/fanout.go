package manager

import (
	"context"

	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/wallet/derivation"
	"github/chapool/web3-hd/internal/wallet/errs"
	"golang.org/x/sync/errgroup"
)

// MaxRangeSize bounds the number of indices of one range query.
const MaxRangeSize = 10_000

// ValidateRange checks an inclusive index range of at most MaxRangeSize indices.
func ValidateRange(from int, to int) error {
	if err := derivation.ValidateIndex(from); err != nil {
		return errors.Wrap(err, "range start")
	}
	if err := derivation.ValidateIndex(to); err != nil {
		return errors.Wrap(err, "range end")
	}
	if from > to {
		return errors.Wrapf(errs.ErrInvalidRange, "start %d is after end %d", from, to)
	}
	if size := to - from + 1; size > MaxRangeSize {
		return errors.Wrapf(errs.ErrInvalidRange, "range of %d indices exceeds %d", size, MaxRangeSize)
	}
	return nil
}

// forEachIndex runs fn for every index in [from, to] with at most limit calls in
// flight. Results are ordered by index whatever the completion order. The first
// error cancels the context passed to the remaining calls and is returned.
func forEachIndex[T any](ctx context.Context, from int, to int, limit int, fn func(ctx context.Context, index int) (T, error)) ([]T, error) {
	results := make([]T, to-from+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for index := from; index <= to; index++ {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := fn(gctx, index)
			if err != nil {
				return err
			}

			results[index-from] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// the parent context may have been canceled before any task ran
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "range query canceled")
	}

	return results, nil
}

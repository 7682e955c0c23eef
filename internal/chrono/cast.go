package chrono

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/holoplot/clockcast/internal/offset"
	"github.com/holoplot/clockcast/internal/scale"
)

// Cast converts tp to scale To at the same precision. Casting to the same
// scale is the identity and never consults the table.
func Cast[To Scale, From Scale, P Precision](r *offset.Resolver, tp TimePoint[From, P]) (TimePoint[To, P], error) {
	var (
		to   To
		from From
		p    P
	)

	count, err := scale.Convert(r, from.ID(), to.ID(), tp.count, p.Unit())
	if err != nil {
		return TimePoint[To, P]{}, err
	}

	return TimePoint[To, P]{count: count}, nil
}

// CastAll casts every point in tps in parallel.
func CastAll[To Scale, From Scale, P Precision](ctx context.Context, r *offset.Resolver, tps []TimePoint[From, P]) ([]TimePoint[To, P], error) {
	var (
		to   To
		from From
		p    P
	)

	counts := make([]int64, len(tps))
	for i, tp := range tps {
		counts[i] = tp.count
	}

	counts, err := ConvertAll(ctx, r, from.ID(), to.ID(), p.Unit(), counts)
	if err != nil {
		return nil, err
	}

	out := make([]TimePoint[To, P], len(counts))
	for i, c := range counts {
		out[i] = TimePoint[To, P]{count: c}
	}

	return out, nil
}

// ConvertAll converts counts of unit between scales chosen at run time,
// spreading the work over GOMAXPROCS goroutines. The first error cancels
// the remaining work.
func ConvertAll(ctx context.Context, r *offset.Resolver, from, to scale.ID, unit time.Duration, counts []int64) ([]int64, error) {
	out := make([]int64, len(counts))

	workers := runtime.GOMAXPROCS(0)
	chunk := max((len(counts)+workers-1)/workers, 1)

	g, ctx := errgroup.WithContext(ctx)

	for lo := 0; lo < len(counts); lo += chunk {
		hi := min(lo+chunk, len(counts))

		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}

				c, err := scale.Convert(r, from, to, counts[i], unit)
				if err != nil {
					return err
				}

				out[i] = c
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

package bridge

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// batchChunk is the number of conversions one goroutine performs. Slices no
// longer than this are converted on the calling goroutine.
const batchChunk = 256

var ErrLengthMismatch = errors.New("bridge: output shorter than input")

// SceneTransforms converts poses[i] into out[i] for every i.
func SceneTransforms[P any](ctx context.Context, b Bridge[P], poses []P, scale float64, frame P, out []SceneTransform) error {
	if len(out) < len(poses) {
		return ErrLengthMismatch
	}
	return forChunks(ctx, len(poses), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = b.ToSceneTransform(poses[i], scale, frame)
		}
	})
}

// SimulationPoses converts transforms[i] into out[i] for every i.
func SimulationPoses[P any](ctx context.Context, b Bridge[P], transforms []SceneTransform, scale float64, frame P, out []P) error {
	if len(out) < len(transforms) {
		return ErrLengthMismatch
	}
	return forChunks(ctx, len(transforms), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = b.ToSimulationPose(transforms[i], scale, frame)
		}
	})
}

func forChunks(ctx context.Context, n int, fn func(lo, hi int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n <= batchChunk {
		fn(0, n)
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for lo := 0; lo < n; lo += batchChunk {
		hi := min(lo+batchChunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}

package generator

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"terragen/internal/world"
)

// Area is an inclusive box of chunk indices.
type Area struct {
	Min world.ChunkCoord
	Max world.ChunkCoord
}

// AreaAround is the square of columns within radius chunks of the origin,
// layers segments tall starting at y = 0.
func AreaAround(radius, layers int) Area {
	return Area{
		Min: world.ChunkCoord{X: -radius, Y: 0, Z: -radius},
		Max: world.ChunkCoord{X: radius, Y: max(layers, 1) - 1, Z: radius},
	}
}

// Chunks is the number of segments in the area.
func (a Area) Chunks() int {
	dx := a.Max.X - a.Min.X + 1
	dy := a.Max.Y - a.Min.Y + 1
	dz := a.Max.Z - a.Min.Z + 1
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return 0
	}
	return dx * dy * dz
}

// Progress receives the running count after every stored segment.
type Progress func(done, total int)

// PregenOptions tunes Pregenerate.
type PregenOptions struct {
	Workers  int
	Progress Progress
}

type pregenResult struct {
	coord   world.ChunkCoord
	segment *world.ChunkSegment
}

// Pregenerate generates every segment in area with a bounded pool of workers
// and hands them to sink from a single goroutine. Cancelling ctx stops
// dispatch; segments already stored stay stored.
func (g *Generator) Pregenerate(ctx context.Context, area Area, sink world.SegmentStorage, opts PregenOptions) (int, error) {
	total := area.Chunks()
	if total == 0 {
		return 0, nil
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ctx, span := g.tracer.Start(ctx, "generator.pregenerate")
	defer span.End()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, gctx := errgroup.WithContext(ctx)
	tasks := make(chan world.ChunkCoord, workers)
	results := make(chan pregenResult, workers)

	group.Go(func() error {
		defer close(tasks)
		for x := area.Min.X; x <= area.Max.X; x++ {
			for z := area.Min.Z; z <= area.Max.Z; z++ {
				for y := area.Min.Y; y <= area.Max.Y; y++ {
					select {
					case <-gctx.Done():
						return gctx.Err()
					case tasks <- world.ChunkCoord{X: x, Y: y, Z: z}:
					}
				}
			}
		}
		return nil
	})

	workerGroup, wctx := errgroup.WithContext(gctx)
	for i := 0; i < workers; i++ {
		workerGroup.Go(func() error {
			for coord := range tasks {
				seg := g.GenerateChunk(wctx, coord)
				select {
				case results <- pregenResult{coord: coord, segment: seg}:
				case <-wctx.Done():
					return wctx.Err()
				}
			}
			return nil
		})
	}
	group.Go(func() error {
		defer close(results)
		return workerGroup.Wait()
	})

	started := time.Now()
	done := 0
	nextLogPercent := 10
	var storeErr error
	for res := range results {
		if storeErr != nil {
			continue
		}
		if err := sink.Save(res.coord, res.segment); err != nil {
			storeErr = fmt.Errorf("store segment %s: %w", res.coord, err)
			cancel()
			continue
		}
		done++
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
		if percent := done * 100 / total; percent >= nextLogPercent {
			g.logger.Info("pregeneration progress", "percent", percent, "done", done, "total", total)
			for nextLogPercent <= percent {
				nextLogPercent += 10
			}
		}
	}

	err := group.Wait()
	if storeErr != nil {
		return done, storeErr
	}
	if err != nil {
		span.RecordError(err)
		return done, err
	}
	g.logger.Info("pregeneration complete", "segments", done, "elapsed", time.Since(started).String())
	return done, nil
}

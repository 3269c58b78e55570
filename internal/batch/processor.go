// Package batch renders catalog vehicles to WebP files in parallel.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"vehicle-customizer/internal/asset"
	"vehicle-customizer/internal/catalog"
	"vehicle-customizer/internal/lifecycle"
	"vehicle-customizer/internal/raster"
	"vehicle-customizer/internal/texture"
)

// Config holds the resources shared by every worker of a run.
type Config struct {
	Catalog   catalog.Catalog
	Source    asset.Source
	Textures  texture.Resolver
	OutputDir string
	Colors    lifecycle.ColorState
	Render    raster.Options
	Workers   int
	// Progress is the interval between progress log lines; zero disables them.
	Progress time.Duration
	Log      zerolog.Logger
}

// Result is the outcome of one vehicle.
type Result struct {
	Vehicle    catalog.Descriptor
	Image      string
	PaintNodes int
	WheelNodes int
	Success    bool
	Error      string
}

// Run renders every vehicle using cfg.Workers managers, each driving its own
// renderer. Results are in the order of vehicles.
func Run(ctx context.Context, cfg Config, vehicles []catalog.Descriptor) ([]Result, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(vehicles) {
		workers = len(vehicles)
	}
	total := len(vehicles)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()
	done := make(chan struct{})
	if cfg.Progress > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Progress)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if p := processed.Load(); p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						cfg.Log.Info().Int64("done", p).Int("total", total).Float64("per_sec", rate).Msg("batch progress")
					}
				}
			}
		}()
	}
	defer close(done)

	work := make(chan int, workers*2)
	errs := make(chan error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			if err := runWorker(ctx, cfg, worker, vehicles, work, results, &processed); err != nil {
				errs <- err
			}
		}(w)
	}

feed:
	for i := range vehicles {
		select {
		case work <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()
	close(errs)

	var all []error
	for err := range errs {
		all = append(all, err)
	}
	if err := ctx.Err(); err != nil {
		all = append(all, err)
	}
	return results, errors.Join(all...)
}

func runWorker(ctx context.Context, cfg Config, worker int, vehicles []catalog.Descriptor, work <-chan int, results []Result, processed *atomic.Int64) error {
	renderer := raster.NewRenderer(cfg.Render)
	colors := cfg.Colors
	mgr, err := lifecycle.New(lifecycle.Deps{
		Catalog:  cfg.Catalog,
		Source:   cfg.Source,
		Textures: cfg.Textures,
		Surface:  renderer,
		Colors:   &colors,
		Log:      cfg.Log.With().Int("worker", worker).Logger(),
	})
	if err != nil {
		// Drain so the feeder never blocks.
		for range work {
		}
		return fmt.Errorf("batch: worker %d: %w", worker, err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = mgr.Run(loopCtx)
	}()
	defer func() {
		_ = mgr.Close()
		cancel()
		<-loopDone
	}()

	for idx := range work {
		results[idx] = renderOne(ctx, cfg, mgr, renderer, vehicles[idx])
		processed.Add(1)
	}
	return nil
}

func renderOne(ctx context.Context, cfg Config, mgr *lifecycle.Manager, r *raster.Renderer, d catalog.Descriptor) Result {
	res := Result{Vehicle: d}
	status, err := mgr.SelectAndWait(ctx, d.ID)
	if err != nil {
		res.Error = err.Error()
		cfg.Log.Warn().Err(err).Int("vehicle", d.ID).Msg("vehicle skipped")
		return res
	}
	res.PaintNodes = status.PaintNodes
	res.WheelNodes = status.WheelNodes

	img, ok := r.Frame()
	if !ok {
		res.Error = "no frame presented"
		return res
	}
	name := ImageName(d)
	if err := raster.WriteWebP(filepath.Join(cfg.OutputDir, name), img); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Image = name
	res.Success = true
	return res
}

// ImageName is the output file name of a vehicle.
func ImageName(d catalog.Descriptor) string {
	return fmt.Sprintf("%d.webp", d.ID)
}

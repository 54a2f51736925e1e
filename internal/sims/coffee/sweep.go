package coffee

import (
	"context"
	"math"
	"sync"
)

// SweepRecord is the outcome of one spacing in a sweep.
type SweepRecord struct {
	Spacing float64
	Steps   int
	Result  CoolingResult
	Err     error
}

// SpacingSweep simulates base.Duration seconds at every spacing using up to
// workers concurrent runs. Each run uses the base time step, reduced to 90%
// of its cloud's stability bound when necessary. Records come back in the
// order of spacings.
func SpacingSweep(ctx context.Context, base Config, spacings []float64, workers int) []SweepRecord {
	if workers < 1 {
		workers = 1
	}
	records := make([]SweepRecord, len(spacings))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for idx, spacing := range spacings {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, sp float64) {
			defer wg.Done()
			defer func() { <-sem }()
			records[i] = runSpacing(ctx, base, sp)
		}(idx, spacing)
	}
	wg.Wait()
	return records
}

func runSpacing(ctx context.Context, base Config, spacing float64) SweepRecord {
	rec := SweepRecord{Spacing: spacing}
	cfg := base
	cfg.Geometry.PointSpacing = spacing
	cfg.Workers = 1
	if err := cfg.Validate(); err != nil {
		rec.Err = err
		return rec
	}
	cfg, err := WithStableTimeStep(cfg, 0.9)
	if err != nil {
		rec.Err = err
		return rec
	}
	rec.Steps = int(math.Ceil(base.Duration/cfg.TimeStep - 1e-9))
	rec.Result, rec.Err = CoolingCurve(ctx, cfg, rec.Steps)
	return rec
}

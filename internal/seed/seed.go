// Package seed generates randomized task submissions against a running
// instance, for demos and load testing.
package seed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veganaut/veganaut-backend/pkg/logger"
)

// Config controls a seed run.
type Config struct {
	BaseURL     string
	Persons     int
	Locations   int
	Submissions int
	Workers     int
	Timeout     time.Duration
}

// Stats accumulates run counters.
type Stats struct {
	Accepted     atomic.Int64
	Rejected     atomic.Int64
	OwnerChanges atomic.Int64
}

// Run seeds persons and locations, then fires submissions concurrently.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("seed")
	client := newClient(cfg.BaseURL, cfg.Timeout)

	persons, err := client.createPersons(ctx, cfg.Persons)
	if err != nil {
		return fmt.Errorf("create persons: %w", err)
	}
	locations, err := client.createLocations(ctx, cfg.Locations)
	if err != nil {
		return fmt.Errorf("create locations: %w", err)
	}
	log.Info(ctx, "seeded base data",
		logger.Int("persons", len(persons)),
		logger.Int("locations", len(locations)),
	)

	gen := newGenerator(persons, locations)
	stats := &Stats{}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				req := gen.next()
				res, err := client.submitTask(ctx, req)
				if err != nil {
					stats.Rejected.Add(1)
					continue
				}
				stats.Accepted.Add(1)
				if res.CausedOwnerChange {
					stats.OwnerChanges.Add(1)
				}
				if req.Type == typeAddProduct && res.Task != nil {
					gen.recordProduct(res.Task.LocationID, res.Task.ProductID)
				}
			}
		}()
	}

	start := time.Now()
	for i := 0; i < cfg.Submissions; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return fmt.Errorf("seed run canceled: %w", ctx.Err())
		}
	}
	close(jobs)
	wg.Wait()

	log.Info(ctx, "seed run finished",
		logger.Int("accepted", int(stats.Accepted.Load())),
		logger.Int("rejected", int(stats.Rejected.Load())),
		logger.Int("ownerChanges", int(stats.OwnerChanges.Load())),
		logger.Float64("seconds", time.Since(start).Seconds()),
	)
	return nil
}

package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/veganaut/veganaut-backend/internal/seed"
	"github.com/veganaut/veganaut-backend/pkg/logger"
)

// Default configuration constants.
const (
	defaultPersons     = 20
	defaultLocations   = 10
	defaultSubmissions = 1000
	defaultTimeout     = 10 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		persons     = flag.Int("persons", defaultPersons, "Number of persons to create")
		locations   = flag.Int("locations", defaultLocations, "Number of locations to create")
		submissions = flag.Int("submissions", defaultSubmissions, "Number of task submissions to fire")
		workers     = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:     *baseURL,
		Persons:     *persons,
		Locations:   *locations,
		Submissions: *submissions,
		Workers:     *workers,
		Timeout:     *timeout,
	}
	if err := seed.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "seed run failed", logger.Error(err))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/aporte/internal/seed"
	"github.com/okian/aporte/pkg/logger"
)

// Default configuration constants.
const (
	defaultContributions = 200
	defaultUsers         = 20
	defaultTimeout       = 10 * time.Second
	defaultRunTimeout    = 5 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:9080", "Base URL of the service")
		contributions = flag.Int("contributions", defaultContributions, "Number of contributions to submit")
		users         = flag.Int("users", defaultUsers, "Number of distinct contributors")
		workers       = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose       = flag.Bool("verbose", false, "Log the resulting standings")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seed.Config{
		BaseURL:          *baseURL,
		NumContributions: *contributions,
		NumUsers:         *users,
		Workers:          *workers,
		Timeout:          *timeout,
		Verbose:          *verbose,
	}

	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("seed run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

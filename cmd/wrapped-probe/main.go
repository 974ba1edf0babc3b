package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/wrapped/internal/probe"
	"github.com/okian/wrapped/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers     = 4
	defaultTimeout     = 30 * time.Second
	defaultProbeBudget = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:3000", "Base URL of the service")
		ids     = flag.String("ids", "", "Comma separated identifiers to fetch")
		workers = flag.Int("workers", defaultWorkers, "Number of concurrent requests")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Log every response")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeBudget)
	defer cancel()

	cfg := &probe.Config{
		BaseURL:     *baseURL,
		Identifiers: probe.ParseIdentifiers(*ids),
		Workers:     *workers,
		Timeout:     *timeout,
		Verbose:     *verbose,
	}
	if _, _, err := probe.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("probe failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}

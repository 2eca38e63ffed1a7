package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lingua-hq/lingua-digest/internal/catalog"
	"github.com/lingua-hq/lingua-digest/internal/feed"
	"github.com/lingua-hq/lingua-digest/internal/logger"
)

// validate checks every catalog entry by fetching and parsing its feed.
// Exit code 0 means all feeds parsed, 1 means a setup problem, 2 means at
// least one feed failed.
func main() {
	catalogFile := flag.String("catalog", "./configs/feeds.yaml", "path to the feed catalog")
	timeout := flag.Duration("timeout", 20*time.Second, "per-feed fetch timeout")
	workers := flag.Int("workers", 5, "concurrent fetches")
	flag.Parse()

	if err := run(*catalogFile, *timeout, *workers); err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		os.Exit(1)
	}
}

func run(catalogFile string, timeout time.Duration, workers int) error {
	sources, err := catalog.Load(catalogFile, nil)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	fmt.Printf("validating %d feeds from %s\n\n", len(sources), catalogFile)

	fetcher := feed.NewFetcher(timeout, workers, &logger.NopLogger{})
	_, outcomes := fetcher.FetchAll(context.Background(), sources)

	var ok, empty, failed int
	for _, out := range outcomes {
		switch {
		case !out.OK:
			failed++
			fmt.Printf("FAIL  %-40s %s\n", out.Source.Locator, out.Reason)
		case out.Count == 0:
			empty++
			fmt.Printf("WARN  %-40s parsed but no entries\n", out.Source.Locator)
		default:
			ok++
			fmt.Printf("OK    %-40s %d entries\n", out.Source.Locator, out.Count)
		}
	}

	fmt.Printf("\n%d ok, %d empty, %d failed\n", ok, empty, failed)
	if failed > 0 {
		os.Exit(2)
	}
	return nil
}

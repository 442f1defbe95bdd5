// Command fetch downloads URLs into a directory. Each body is staged in a
// temporary file and moved into place atomically once it has been read in
// full, so a partially downloaded file never appears under its final name.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

type config struct {
	dir         string
	concurrency int
	timeout     time.Duration
	mimeType    string
	verbose     bool
	urls        []string
}

func main() {
	cfg := parseFlags()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), cfg, &nethttp.Client{}, logger); err != nil {
		logger.Error("fetch failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.dir, "dir", ".", "destination directory")
	flag.IntVar(&cfg.concurrency, "concurrency", 4, "number of concurrent downloads")
	flag.DurationVar(&cfg.timeout, "timeout", time.Minute, "per-download timeout (0 disables)")
	flag.StringVar(&cfg.mimeType, "mime", "", "required media type; responses of another type are rejected")
	flag.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] url...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	cfg.urls = flag.Args()
	if len(cfg.urls) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	return cfg
}

func run(ctx context.Context, cfg config, client *nethttp.Client, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.dir, 0o755); err != nil { //nolint:gosec // destination is user-chosen
		return err
	}

	f := &fetcher{
		client:   client,
		dir:      cfg.dir,
		timeout:  cfg.timeout,
		mimeType: cfg.mimeType,
		logger:   logger,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.concurrency, 1))
	for _, u := range cfg.urls {
		g.Go(func() error {
			_, err := f.fetch(ctx, u)
			return err
		})
	}
	return g.Wait()
}

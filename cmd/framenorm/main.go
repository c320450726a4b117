// Package main provides the entry point for the framenorm batch frame normalizer.
//
// Usage:
//
//	framenorm [--src <dir>] [--dest <dir>]
//
// Every frame_*.png in the source directory has its browser bar cropped and
// is centered on a 4:3 canvas written under the same name in the destination.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/maauso/framenorm/internal/bootstrap"
	"github.com/maauso/framenorm/internal/config"
)

const (
	defaultSrc  = "output/video_analysis_5sec"
	defaultDest = "output/video_analysis_5sec_processed"
)

// usageError marks command line misuse.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var uerr usageError
		if errors.As(err, &uerr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("framenorm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var src, dest string
	fs.StringVar(&src, "src", defaultSrc, "Directory holding the frame_*.png source frames")
	fs.StringVar(&dest, "dest", defaultDest, "Directory receiving the normalized frames")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageError{err: err}
	}
	if fs.NArg() > 0 {
		return usageError{err: fmt.Errorf("unexpected arguments: %v", fs.Args())}
	}

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger(stderr)
	slog.SetDefault(logger)

	logger.Debug("starting framenorm",
		slog.String("src", src),
		slog.String("dest", dest),
		slog.String("preset", cfg.Preset),
		slog.String("rules_file", cfg.RulesFile),
		slog.String("log_format", cfg.LogFormat),
		slog.String("log_level", cfg.LogLevel),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	deps, err := bootstrap.NewDependencies(cfg, dest, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	summary, err := deps.Service.Run(ctx, src)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Processed %d frames -> %s\n", summary.Frames, summary.Dest)
	return nil
}

// Command spmcleanup removes intermediate SPM preprocessing files from
// per-subject folders, or simulates the removal with links or copies.
//
// It parses flags, validates configuration and paths, and either runs
// diagnostics (-check) or one cleanup pass.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/spmcleanup/internal/check"
	"github.com/backmassage/spmcleanup/internal/config"
	"github.com/backmassage/spmcleanup/internal/confirm"
	"github.com/backmassage/spmcleanup/internal/display"
	"github.com/backmassage/spmcleanup/internal/logging"
	"github.com/backmassage/spmcleanup/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Bootstrap: no logger yet, errors go straight to stderr.
	config.Version = version
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, config.ErrVersion) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "spmcleanup: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "spmcleanup: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'spmcleanup -help' for usage.")
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spmcleanup: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(os.Stdout, version)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	paths, err := check.Preflight(&cfg)
	if err != nil {
		log.Error("%v", err)
		if errors.Is(err, config.ErrSimRootInsideSubject) {
			log.Error("Choose an -out_path outside the subject folders of %s", cfg.InputDir)
		}
		return 1
	}

	log.Info("=== SPMCleanup v%s (%s) run %s ===", version, commit, log.RunID())
	log.Debug(cfg.Verbose, "Resolved input: %s", paths.Input)
	if paths.SimRoot != "" {
		log.Debug(cfg.Verbose, "Resolved simulation root: %s", paths.SimRoot)
	}

	// Cancel on SIGINT/SIGTERM; the pass stops between files.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping after the current file...")
			cancel()
		case <-ctx.Done():
		}
	}()

	_, err = pipeline.Run(ctx, &cfg, paths, log, confirm.NewTerminal(os.Stdin, os.Stdout))
	switch {
	case err == nil:
		return 0
	case errors.Is(err, confirm.ErrUserAbort):
		return 1
	case errors.Is(err, context.Canceled):
		log.Warn("Interrupted.")
		return 1
	default:
		log.Error("%v", err)
		return 1
	}
}

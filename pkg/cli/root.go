/*
Copyright © 2025 the DeviceCode authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/hwcatalog/devicecode/pkg/logging"
	"github.com/hwcatalog/devicecode/pkg/serializer"
	"github.com/hwcatalog/devicecode/pkg/store"
)

const (
	name           = "devicecode"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Flags shared by every command that reads the results directory.
var (
	directoryFlag = &cli.StringFlag{
		Name:     "directory",
		Aliases:  []string{"d"},
		Usage:    "DeviceCode results directory",
		Sources:  cli.EnvVars("DEVICECODE_DIRECTORY"),
		Required: true,
	}

	wikiTypeFlag = &cli.StringFlag{
		Name:  "wiki-type",
		Usage: fmt.Sprintf("restrict to a single source (supported values: %v)", store.ValidSources),
	}

	noOverlaysFlag = &cli.BoolFlag{
		Name:  "no-overlays",
		Usage: "do not apply overlay data",
	}

	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "per-source dialect configuration file (YAML or JSON)",
		Sources: cli.EnvVars("DEVICECODE_CONFIG"),
	}

	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   serializer.FormatJSON.String(),
		Usage: fmt.Sprintf("output format (supported values: %s)",
			serializer.SupportedFormats()),
	}
)

// Execute runs the CLI. It is called by main.main() and handles
// SIGINT/SIGTERM for graceful shutdown.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := Root().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Root builds the root command with every subcommand attached.
func Root() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "query and reconcile the DeviceCode hardware catalog",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			searchCmd(),
			dumpCmd(),
			squashCmd(),
			findNearestCmd(),
		},
	}
}

// loadStore reads devices and overlays per the shared flags.
func loadStore(ctx context.Context, cmd *cli.Command) (*store.Store, error) {
	opts := store.Options{
		WikiType:   cmd.String("wiki-type"),
		NoOverlays: cmd.Bool("no-overlays"),
	}
	if path := cmd.String("config"); path != "" {
		cfg, err := store.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		opts.Config = cfg
	}
	return store.Load(ctx, cmd.String("directory"), opts)
}

// parseOutputFormat validates the shared format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

/*
Copyright © 2025 the DeviceCode authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/hwcatalog/devicecode/pkg/errors"
	"github.com/hwcatalog/devicecode/pkg/squash"
	"github.com/hwcatalog/devicecode/pkg/store"
)

func squashCmd() *cli.Command {
	return &cli.Command{
		Name:                  "squash",
		EnableShellCompletion: true,
		Usage:                 "Reconcile the two wiki sources into one canonical corpus",
		Description: `Reconcile the TechInfoDepot and WikiDevi records into one canonical
record per physical device, written under <directory>/squashed/devices.

Overlays are applied to each source's records before matching, so
corrections such as overlaid brands reach the canonical corpus. A
source directory that does not exist is treated as an empty record set.

Records are matched through their declared cross-source links.
TechInfoDepot leads: when both sources describe the same device the
TechInfoDepot record wins. WikiDevi records nobody claims are emitted
unchanged. Pairs whose links disagree are kept and flagged with a
tagline instead of being dropped.`,
		Flags: []cli.Flag{
			directoryFlag,
			noOverlaysFlag,
			configFlag,
			&cli.StringFlag{
				Name:  "output",
				Usage: "output directory (default: <directory>/squashed)",
			},
			&cli.BoolFlag{
				Name:  "debug-conflicts",
				Usage: "log per-field conflicts during same-title merges",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("directory")

			var cfg *store.Config
			if path := cmd.String("config"); path != "" {
				loaded, err := store.LoadConfig(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			opts := store.Options{
				NoOverlays: cmd.Bool("no-overlays"),
				Config:     cfg,
			}
			leading, leadFound, err := loadWikiSource(ctx, dir, store.SourceTechInfoDepot, opts)
			if err != nil {
				return err
			}
			other, otherFound, err := loadWikiSource(ctx, dir, store.SourceWikiDevi, opts)
			if err != nil {
				return err
			}
			if !leadFound && !otherFound {
				return errors.NewWithContext(errors.ErrCodeNotFound,
					"no wiki sources found", map[string]any{"path": dir})
			}

			rec := squash.New()
			rec.Debug = cmd.Bool("debug-conflicts")
			res := rec.Squash(leading.OverlaidDevices(), other.OverlaidDevices())

			slog.Info("reconciliation complete",
				"devices", len(res.Devices),
				"isolated", res.States[squash.StateIsolated],
				"forward_only", res.States[squash.StateForwardOnly],
				"mutual", res.States[squash.StateMutual],
				"non_matching_mutual", res.States[squash.StateNonMatchingMutual],
				"reverse_only", res.States[squash.StateReverseOnly],
				"orphans", res.Orphans)

			out := cmd.String("output")
			if out == "" {
				out = filepath.Join(dir, store.SourceSquashed)
			}
			return squash.WriteCorpus(out, res.Devices)
		},
	}
}

// loadWikiSource loads one wiki source's records and overlays. A source
// directory that does not exist yields an empty store, so squashing can
// proceed with whichever source is present.
func loadWikiSource(ctx context.Context, dir, wikiType string, opts store.Options) (*store.Store, bool, error) {
	opts.WikiType = wikiType
	st, err := store.Load(ctx, dir, opts)
	if err != nil {
		var serr *errors.StructuredError
		if stderrors.As(err, &serr) && serr.Code == errors.ErrCodeNotFound {
			return &store.Store{}, false, nil
		}
		return nil, false, err
	}
	return st, true, nil
}

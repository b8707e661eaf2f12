/*
Copyright © 2025 the DeviceCode authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/hwcatalog/devicecode/pkg/compose"
	"github.com/hwcatalog/devicecode/pkg/filter"
	"github.com/hwcatalog/devicecode/pkg/serializer"
)

// SearchResult is one matching device in search output.
type SearchResult struct {
	Brand  string   `json:"brand"`
	Model  string   `json:"model"`
	Title  string   `json:"title"`
	Labels []string `json:"labels,omitempty"`
}

func searchCmd() *cli.Command {
	return &cli.Command{
		Name:                  "search",
		EnableShellCompletion: true,
		Usage:                 "Search the device catalog using a filter string",
		Description: `Search the device catalog using the filter query language.

A filter is a sequence of name=value tokens, for example:

  devicecode search -d ~/devicecode-results --filter "brand=asus serial=yes year=2012:2014"

The filter is validated against the values present in the catalog
before any results are produced. An empty filter returns the full
catalog. Results can be output in JSON, YAML, or table format; the
compact flag prints one "brand model" line per device instead.`,
		Flags: []cli.Flag{
			directoryFlag,
			wikiTypeFlag,
			noOverlaysFlag,
			configFlag,
			&cli.StringFlag{
				Name:  "filter",
				Usage: "filter string (see the query language reference)",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "print one brand and model per line instead of full records",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			st, err := loadStore(ctx, cmd)
			if err != nil {
				return err
			}

			composer := compose.New(st.Devices, st.Overlays)

			// The unfiltered dataset primes validation with every
			// known facet value.
			dataset := composer.Compose(nil)

			if query := cmd.String("filter"); query != "" {
				validator := filter.NewValidator(dataset)
				if err := validator.Validate(query); err != nil {
					return fmt.Errorf("filter string validation failure: %w", err)
				}

				spec, err := filter.Parse(query)
				if err != nil {
					return err
				}
				if cmd.Bool("no-overlays") {
					spec.UseOverlays = false
				}
				dataset = composer.Compose(spec)
			}

			results := collectResults(dataset)
			slog.Info("search complete", "devices", len(results))

			if cmd.Bool("compact") {
				for _, r := range results {
					fmt.Fprintf(cmd.Writer, "%s %s\n", r.Brand, r.Model)
				}
				return nil
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(ctx, results)
		},
	}
}

// collectResults flattens the brand grouping into a sorted result list.
func collectResults(dataset *compose.Dataset) []SearchResult {
	var out []SearchResult
	for brand, entries := range dataset.BrandsToDevices {
		for _, e := range entries {
			out = append(out, SearchResult{
				Brand:  brand,
				Model:  e.Model,
				Title:  e.Device.Title,
				Labels: e.Labels,
			})
		}
	}
	slices.SortFunc(out, func(a, b SearchResult) int {
		if c := cmp.Compare(a.Brand, b.Brand); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Model, b.Model); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
	return out
}

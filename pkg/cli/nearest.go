/*
Copyright © 2025 the DeviceCode authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hwcatalog/devicecode/pkg/device"
	"github.com/hwcatalog/devicecode/pkg/errors"
)

func findNearestCmd() *cli.Command {
	return &cli.Command{
		Name:                  "find-nearest",
		EnableShellCompletion: true,
		Usage:                 "Find the nearest devices given a device title",
		Description: `Find devices that are likely rebrands of the same ODM hardware.

The lookup starts from a known device title and matches other records
through the ODM name and ODM model: devices the ODM sells under its
own brand, and devices other brands source from the same ODM with the
same ODM model number.`,
		Flags: []cli.Flag{
			directoryFlag,
			wikiTypeFlag,
			noOverlaysFlag,
			configFlag,
			&cli.StringFlag{
				Name:     "model",
				Aliases:  []string{"m"},
				Usage:    "device title to start from",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "report",
				Value: 1,
				Usage: "number of devices to report",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			report := cmd.Int("report")
			if report <= 0 {
				return fmt.Errorf("report needs to be larger than 0, got %d", report)
			}

			st, err := loadStore(ctx, cmd)
			if err != nil {
				return err
			}

			title := cmd.String("model")
			nearest, err := FindNearest(st.Devices, title, int(report))
			if err != nil {
				return err
			}

			for _, d := range nearest {
				fmt.Fprintln(cmd.Writer, d.Title)
			}
			return nil
		},
	}
}

// FindNearest returns up to limit devices that share ODM hardware with
// the named device: records branded by the ODM itself carrying the ODM
// model number, or records from other brands declaring the same ODM
// and ODM model.
func FindNearest(devices []*device.Device, title string, limit int) ([]*device.Device, error) {
	var target *device.Device
	for _, d := range devices {
		if d.Title == title {
			target = d
			break
		}
	}
	if target == nil {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound,
			"not a valid device", map[string]any{"title": title})
	}

	odmName := target.Manufacturer.Name
	odmModel := target.Manufacturer.Model
	if odmModel == "" {
		return nil, nil
	}

	var nearest []*device.Device
	for _, d := range devices {
		if d.Title == title {
			continue
		}
		if d.Brand == odmName && d.Model.Model == odmModel {
			nearest = append(nearest, d)
		} else if d.Manufacturer.Name == odmName && d.Manufacturer.Model == odmModel {
			nearest = append(nearest, d)
		}
		if len(nearest) >= limit {
			break
		}
	}
	return nearest, nil
}

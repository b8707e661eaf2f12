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
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/hwcatalog/devicecode/pkg/device"
	"github.com/hwcatalog/devicecode/pkg/serializer"
)

// Value selectors recognized by the dump command.
var dumpValues = []string{
	"baudrate_jtag", "baudrate_serial", "bootloader", "connector_jtag",
	"connector_serial", "cpeid", "cveid", "fccid", "ip", "jtag", "login",
	"odm", "odm_country", "password", "pcbid", "sdk", "serial",
}

// ValueCount is one known value with its occurrence count.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func dumpCmd() *cli.Command {
	return &cli.Command{
		Name:                  "dump",
		EnableShellCompletion: true,
		Usage:                 "Dump lists of known values from the catalog",
		Description: fmt.Sprintf(`Dump every known value for a selected field, with occurrence counts.

Supported value selectors: %v

The counted output is sorted by descending frequency. Use --format to
choose JSON, YAML or table output; the line flag prints the bare
values, one per line, instead.`, dumpValues),
		Flags: []cli.Flag{
			directoryFlag,
			wikiTypeFlag,
			noOverlaysFlag,
			configFlag,
			&cli.StringFlag{
				Name:     "value",
				Usage:    fmt.Sprintf("value to print (supported values: %v)", dumpValues),
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "line",
				Usage: "print bare values one per line",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			selector := cmd.String("value")
			if !slices.Contains(dumpValues, selector) {
				return fmt.Errorf("unknown value selector: %q, supported values: %v",
					selector, dumpValues)
			}

			st, err := loadStore(ctx, cmd)
			if err != nil {
				return err
			}

			counts := countValues(st.Devices, selector)
			slog.Info("dump complete", "selector", selector, "values", len(counts))

			if cmd.Bool("line") {
				values := make([]string, 0, len(counts))
				for _, vc := range counts {
					values = append(values, vc.Value)
				}
				slices.Sort(values)
				for _, v := range values {
					fmt.Fprintln(cmd.Writer, v)
				}
				return nil
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(ctx, counts)
		},
	}
}

// countValues tallies the selected field across all devices, most
// frequent first. Empty manufacturer and SDK names count under the
// unknown sentinel, matching the ODM grouping elsewhere.
func countValues(devices []*device.Device, selector string) []ValueCount {
	counter := make(map[string]int)
	add := func(v string) {
		if v != "" {
			counter[v]++
		}
	}

	for _, d := range devices {
		switch selector {
		case "baudrate_jtag":
			if d.JTAG.BaudRate != 0 {
				add(strconv.Itoa(d.JTAG.BaudRate))
			}
		case "baudrate_serial":
			if d.Serial.BaudRate != 0 {
				add(strconv.Itoa(d.Serial.BaudRate))
			}
		case "bootloader":
			add(d.Software.Bootloader.Manufacturer)
		case "connector_jtag":
			add(d.JTAG.Connector)
		case "connector_serial":
			add(d.Serial.Connector)
		case "cpeid":
			add(d.Regulatory.CPE.CPE23)
		case "cveid":
			for _, cve := range d.Regulatory.CVE {
				add(cve)
			}
		case "fccid":
			for _, f := range d.Regulatory.FCCIDs {
				add(f.ID)
			}
		case "ip":
			add(d.Defaults.IP)
		case "jtag":
			add(string(d.HasJTAG))
		case "login":
			for _, l := range d.Defaults.Logins {
				add(l)
			}
		case "odm":
			add(d.ManufacturerLabel())
		case "odm_country":
			if d.Manufacturer.Country != "" {
				add(d.Manufacturer.Country)
			} else {
				add(device.UnknownManufacturer)
			}
		case "password":
			add(d.Defaults.Password)
		case "pcbid":
			add(d.Model.PCBID)
		case "sdk":
			if d.Software.SDK.Name != "" {
				add(d.Software.SDK.Name)
			} else {
				add(device.UnknownManufacturer)
			}
		case "serial":
			add(string(d.HasSerialPort))
		}
	}

	out := make([]ValueCount, 0, len(counter))
	for v, n := range counter {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	slices.SortFunc(out, func(a, b ValueCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}

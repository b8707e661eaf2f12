// Copyright (c) 2025, the DeviceCode authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package filter

import (
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/hwcatalog/devicecode/pkg/compose"
	"github.com/hwcatalog/devicecode/pkg/errors"
)

// Parse turns a query string into a filter spec. The whole query is
// lowercased before tokenization, so matching is case-insensitive
// throughout. An empty query yields the unfiltered spec.
//
// Every token except overlays=off marks the spec as filtered;
// overlays=off only switches overlay application off.
func Parse(query string) (*compose.FilterSpec, error) {
	spec := compose.NewFilterSpec()

	tokens, err := shlex.Split(strings.ToLower(query))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFilter, "Incomplete", err)
	}

	for _, t := range tokens {
		name, value, found := strings.Cut(t, "=")
		if !found {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidFilter,
				"Invalid name", map[string]any{"token": t})
		}
		// Per-token arguments are declared but not consumed yet.
		name, _, _ = strings.Cut(name, "?")

		switch name {
		case "baud":
			rate, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.NewWithContext(errors.ErrCodeInvalidFilter,
					"Invalid baud rate", map[string]any{"token": t})
			}
			spec.BaudRates[rate] = true
		case "bootloader":
			spec.Bootloaders[value] = true
		case "brand":
			spec.Brands[value] = true
		case "chip":
			spec.Chips[value] = true
		case "chip_type":
			spec.ChipTypes[value] = true
		case "chip_vendor":
			spec.ChipVendors[value] = true
		case "connector":
			spec.Connectors[value] = true
		case "cpe":
			spec.CPEs[value] = true
		case "cve":
			spec.CVEs[value] = true
		case "cveid":
			spec.CVEIDs[value] = true
		case "fcc":
			spec.FCCs[value] = true
		case "fccid":
			spec.FCCIDs[value] = true
		case "file":
			spec.Files[value] = true
		case "flag":
			spec.Flags[value] = true
		case "ignore_brand":
			spec.IgnoreBrands[value] = true
		case "ignore_odm":
			spec.IgnoreODMs[value] = true
		case "ignore_origin":
			spec.IgnoreOrigins[value] = true
		case "ip":
			spec.IPs[value] = true
		case "jtag":
			spec.JTAGs[value] = true
		case "odm":
			spec.ODMs[value] = true
		case "origin":
			spec.Origins[value] = true
		case "os":
			spec.OperatingSystems[value] = true
		case "package":
			spec.Packages[value] = true
		case "partition":
			spec.Partitions[value] = true
		case "password":
			spec.Passwords[value] = true
		case "program":
			spec.Programs[value] = true
		case "rootfs":
			spec.Rootfs[value] = true
		case "sdk":
			spec.SDKs[value] = true
		case "serial":
			spec.Serials[value] = true
		case "type":
			spec.DeviceTypes[value] = true
		case "year":
			years, err := expandYears(value)
			if err != nil {
				return nil, err
			}
			for _, y := range years {
				spec.Years[y] = true
			}
		case "overlays":
			if value == "off" {
				spec.UseOverlays = false
			}
			// Not a real filter, skip the IsFiltered mark below.
			continue
		default:
			return nil, errors.NewWithContext(errors.ErrCodeInvalidFilter,
				"Invalid name", map[string]any{"token": t})
		}

		spec.IsFiltered = true
	}

	return spec, nil
}

// expandYears parses a single year or a colon-separated two-endpoint
// range, expanded eagerly into the full inclusive sequence.
func expandYears(value string) ([]int, error) {
	lo, hi, isRange := strings.Cut(value, ":")
	first, err := strconv.Atoi(lo)
	if err != nil {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidFilter,
			"Invalid year", map[string]any{"value": value})
	}
	if !isRange {
		return []int{first}, nil
	}

	last, err := strconv.Atoi(hi)
	if err != nil {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidFilter,
			"Invalid year", map[string]any{"value": value})
	}
	if last < first {
		first, last = last, first
	}
	years := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		years = append(years, y)
	}
	return years, nil
}

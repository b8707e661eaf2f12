/*
Copyright © 2025 the DeviceCode authors
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the command-line interface for the devicecode tool.
//
// # Overview
//
// The devicecode CLI queries and maintains a catalog of embedded and
// networking hardware records collected from the TechInfoDepot, WikiDevi
// and OpenWrt wikis. It is aimed at firmware analysts and security
// researchers who need to find devices by brand, ODM, chipset, regulatory
// identifiers or firmware contents.
//
// # Commands
//
// search - Query the catalog with a filter string:
//
//	devicecode search -d ~/devicecode-results --filter "brand=asus serial=yes" [--format json|yaml|table]
//
// Validates the filter against the values present in the catalog, applies
// overlays, and prints the matching devices. An empty filter returns the
// full catalog.
//
// dump - List known values for a field:
//
//	devicecode dump -d ~/devicecode-results --value odm [--line]
//
// Tallies every known value for the selected field with occurrence
// counts, most frequent first.
//
// squash - Reconcile the two wiki sources:
//
//	devicecode squash -d ~/devicecode-results [--output DIR]
//
// Merges the TechInfoDepot and WikiDevi records into one canonical record
// per physical device under <directory>/squashed/devices.
//
// find-nearest - Locate rebrands of the same ODM hardware:
//
//	devicecode find-nearest -d ~/devicecode-results -m "Linksys WRT54G v2" --report 5
//
// # Global Flags
//
//	--directory, -d  DeviceCode results directory (required)
//	--wiki-type      restrict to a single source (techinfodepot, wikidevi, openwrt)
//	--no-overlays    do not apply overlay data
//	--config         per-source dialect configuration file
//	--output, -o     output file path (default: stdout)
//	--format, -t     output format: json, yaml, table (default: json)
//
// # Environment Variables
//
//	LOG_LEVEL             logging verbosity (debug, info, warn, error)
//	DEVICECODE_DIRECTORY  default results directory
//	DEVICECODE_CONFIG     default configuration file
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/store - record and overlay loading
//   - pkg/compose - dataset composition and facet indexing
//   - pkg/filter - query parsing, validation and suggestion
//   - pkg/squash - cross-source reconciliation
//   - pkg/serializer - output formatting
//   - pkg/logging - structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/hwcatalog/devicecode/pkg/cli.version=1.0.0'"
package cli

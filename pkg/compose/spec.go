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

package compose

import (
	"golang.org/x/text/cases"
)

var caseFolder = cases.Fold()

// Normalize folds a facet value to its canonical lowercase form. The
// same normalization is applied when building facet sets and when
// comparing filter values, never on one side only.
func Normalize(s string) string {
	return caseFolder.String(s)
}

// FilterSpec enumerates every supported facet filter. An empty set
// means the facet is unfiltered. Filters combine with logical AND
// across facets; within a facet, any accepted value matches.
type FilterSpec struct {
	BaudRates        map[int]bool
	Bootloaders      map[string]bool
	Brands           map[string]bool
	Chips            map[string]bool
	ChipTypes        map[string]bool
	ChipVendors      map[string]bool
	Connectors       map[string]bool
	CPEs             map[string]bool
	CVEs             map[string]bool
	CVEIDs           map[string]bool
	DeviceTypes      map[string]bool
	FCCs             map[string]bool
	FCCIDs           map[string]bool
	Files            map[string]bool
	Flags            map[string]bool
	IgnoreBrands     map[string]bool
	IgnoreODMs       map[string]bool
	IgnoreOrigins    map[string]bool
	IPs              map[string]bool
	JTAGs            map[string]bool
	ODMs             map[string]bool
	OperatingSystems map[string]bool
	Origins          map[string]bool
	Packages         map[string]bool
	Partitions       map[string]bool
	Passwords        map[string]bool
	Programs         map[string]bool
	Rootfs           map[string]bool
	SDKs             map[string]bool
	Serials          map[string]bool
	Years            map[int]bool

	// UseOverlays controls whether overlays are applied before
	// filtering. The overlays=off token clears it without counting
	// toward IsFiltered.
	UseOverlays bool

	// IsFiltered reports whether any real filter token was present in
	// the query that produced this spec.
	IsFiltered bool
}

// NewFilterSpec returns an empty, unfiltered spec with overlays on.
func NewFilterSpec() *FilterSpec {
	return &FilterSpec{
		BaudRates:        make(map[int]bool),
		Bootloaders:      make(map[string]bool),
		Brands:           make(map[string]bool),
		Chips:            make(map[string]bool),
		ChipTypes:        make(map[string]bool),
		ChipVendors:      make(map[string]bool),
		Connectors:       make(map[string]bool),
		CPEs:             make(map[string]bool),
		CVEs:             make(map[string]bool),
		CVEIDs:           make(map[string]bool),
		DeviceTypes:      make(map[string]bool),
		FCCs:             make(map[string]bool),
		FCCIDs:           make(map[string]bool),
		Files:            make(map[string]bool),
		Flags:            make(map[string]bool),
		IgnoreBrands:     make(map[string]bool),
		IgnoreODMs:       make(map[string]bool),
		IgnoreOrigins:    make(map[string]bool),
		IPs:              make(map[string]bool),
		JTAGs:            make(map[string]bool),
		ODMs:             make(map[string]bool),
		OperatingSystems: make(map[string]bool),
		Origins:          make(map[string]bool),
		Packages:         make(map[string]bool),
		Partitions:       make(map[string]bool),
		Passwords:        make(map[string]bool),
		Programs:         make(map[string]bool),
		Rootfs:           make(map[string]bool),
		SDKs:             make(map[string]bool),
		Serials:          make(map[string]bool),
		Years:            make(map[int]bool),
		UseOverlays:      true,
	}
}

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
	"strings"

	"github.com/hwcatalog/devicecode/pkg/compose"
)

// Suggester completes partial filter queries. Only the rightmost
// whitespace-delimited token is completed: a token containing '='
// gets value completion from the dataset's facet values, anything
// else gets token name completion.
type Suggester struct {
	names []string
	table map[string][]string
}

// Facet value sources for value completion, by token name.
var suggestionFacets = map[string]string{
	"bootloader":   compose.FacetBootloader,
	"brand":        compose.FacetBrand,
	"ignore_brand": compose.FacetBrand,
	"chip":         compose.FacetChip,
	"chip_type":    compose.FacetChipType,
	"chip_vendor":  compose.FacetChipVendor,
	"connector":    compose.FacetConnector,
	"cveid":        compose.FacetCVEID,
	"fccid":        compose.FacetFCCID,
	"file":         compose.FacetFile,
	"flag":         compose.FacetFlag,
	"ip":           compose.FacetIP,
	"odm":          compose.FacetODM,
	"ignore_odm":   compose.FacetODM,
	"package":      compose.FacetPackage,
	"partition":    compose.FacetPartition,
	"password":     compose.FacetPassword,
	"program":      compose.FacetProgram,
	"rootfs":       compose.FacetRootfs,
	"sdk":          compose.FacetSDK,
	"type":         compose.FacetType,
}

// NewSuggester builds a Suggester over a composed dataset's facet
// values. Tokens with a fixed vocabulary always complete from it.
func NewSuggester(dataset *compose.Dataset) *Suggester {
	s := &Suggester{table: make(map[string][]string, len(suggestionFacets)+8)}
	for _, t := range TokenNames {
		s.names = append(s.names, t.Name)
	}

	for name, facet := range suggestionFacets {
		if dataset != nil {
			s.table[name] = dataset.FacetValues(facet)
		}
	}

	s.table["cpe"] = presenceValues
	s.table["cve"] = presenceValues
	s.table["fcc"] = fccValues
	s.table["jtag"] = triStateValues
	s.table["serial"] = triStateValues
	s.table["origin"] = originValues
	s.table["ignore_origin"] = originValues
	s.table["overlays"] = overlayValues

	return s
}

// Suggest returns the completed input and true when a completion for
// the rightmost token exists.
func (s *Suggester) Suggest(input string) (string, bool) {
	check := input
	if idx := strings.LastIndex(input, " "); idx >= 0 {
		check = input[idx+1:]
	}

	if name, value, found := strings.Cut(check, "="); found {
		name, _, _ = strings.Cut(name, "?")
		for _, candidate := range s.table[name] {
			if strings.HasPrefix(candidate, value) {
				return input + candidate[len(value):], true
			}
		}
		return "", false
	}

	low := strings.ToLower(check)
	for _, name := range s.names {
		if strings.HasPrefix(name, low) {
			return input + name[len(check):], true
		}
	}
	return "", false
}

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

// Package filter implements the query language used to narrow the
// composed dataset: shell-style tokens of the form name[?args]=value,
// parsed into an explicit filter spec, validated against the dataset's
// known facet values, and completed interactively.
package filter

// TokenName declares one recognized filter token. Some tokens accept
// per-token arguments after a question mark; the arguments are declared
// here but not consumed yet.
type TokenName struct {
	Name      string
	HasParams bool
	Params    []string
}

// TokenNames lists every recognized filter token.
var TokenNames = []TokenName{
	{Name: "baud"},
	{Name: "bootloader", HasParams: true, Params: []string{"version"}},
	{Name: "brand"},
	{Name: "chip"},
	{Name: "chip_type"},
	{Name: "chip_vendor"},
	{Name: "connector"},
	{Name: "cpe"},
	{Name: "cve"},
	{Name: "cveid"},
	{Name: "fcc"},
	{Name: "fccid"},
	{Name: "file"},
	{Name: "flag"},
	{Name: "ignore_brand"},
	{Name: "ignore_odm"},
	{Name: "ignore_origin"},
	{Name: "ip"},
	{Name: "jtag", HasParams: true, Params: []string{"populated"}},
	{Name: "odm"},
	{Name: "origin"},
	{Name: "os"},
	{Name: "overlays"},
	{Name: "package"},
	{Name: "partition"},
	{Name: "password"},
	{Name: "program"},
	{Name: "rootfs"},
	{Name: "sdk", HasParams: true, Params: []string{"version"}},
	{Name: "serial", HasParams: true, Params: []string{"populated"}},
	{Name: "type"},
	{Name: "year"},
}

// Fixed vocabularies for tokens with a closed value set.
var (
	presenceValues = []string{"no", "yes"}
	fccValues      = []string{"invalid", "no", "yes"}
	triStateValues = []string{"no", "unknown", "yes"}
	originValues   = []string{"openwrt", "techinfodepot", "wikidevi"}
	overlayValues  = []string{"off"}
)

// Year bounds accepted by the year token.
const (
	MinYear = 1990
	MaxYear = 2040
)

var tokenNameSet = func() map[string]bool {
	set := make(map[string]bool, len(TokenNames))
	for _, t := range TokenNames {
		set[t.Name] = true
	}
	return set
}()

// IsTokenName reports whether name is a recognized filter token.
func IsTokenName(name string) bool {
	return tokenNameSet[name]
}

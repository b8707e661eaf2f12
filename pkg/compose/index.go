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
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Facet names used as keys in the FacetIndex. They line up with the
// filter token names so validation and suggestion can read the index
// directly.
const (
	FacetBaud       = "baud"
	FacetBootloader = "bootloader"
	FacetBrand      = "brand"
	FacetChip       = "chip"
	FacetChipType   = "chip_type"
	FacetChipVendor = "chip_vendor"
	FacetConnector  = "connector"
	FacetCVEID      = "cveid"
	FacetFCCID      = "fccid"
	FacetFile       = "file"
	FacetFlag       = "flag"
	FacetIP         = "ip"
	FacetODM        = "odm"
	FacetPackage    = "package"
	FacetPartition  = "partition"
	FacetPassword   = "password"
	FacetPCBID      = "pcbid"
	FacetProgram    = "program"
	FacetRootfs     = "rootfs"
	FacetSDK        = "sdk"
	FacetType       = "type"
)

// FacetIndex is an inverted index from facet value to the set of
// retained record ids carrying that value. Record ids are positions in
// the composed dataset's Devices slice. The per-value id sets are
// compressed bitmaps, so membership, cardinality and intersections
// stay cheap even for the full corpus.
type FacetIndex struct {
	facets map[string]map[string]*roaring.Bitmap
}

// NewFacetIndex returns an empty index.
func NewFacetIndex() *FacetIndex {
	return &FacetIndex{facets: make(map[string]map[string]*roaring.Bitmap)}
}

// Add records that device id carries the given value for the facet.
// Empty values are ignored.
func (x *FacetIndex) Add(facet, value string, id uint32) {
	if value == "" {
		return
	}
	values, ok := x.facets[facet]
	if !ok {
		values = make(map[string]*roaring.Bitmap)
		x.facets[facet] = values
	}
	bm, ok := values[value]
	if !ok {
		bm = roaring.New()
		values[value] = bm
	}
	bm.Add(id)
}

// Has reports whether the facet has the exact value.
func (x *FacetIndex) Has(facet, value string) bool {
	values, ok := x.facets[facet]
	if !ok {
		return false
	}
	_, ok = values[value]
	return ok
}

// Values returns the facet's known values, sorted.
func (x *FacetIndex) Values(facet string) []string {
	values := x.facets[facet]
	out := make([]string, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Count returns how many retained records carry the value.
func (x *FacetIndex) Count(facet, value string) uint64 {
	values, ok := x.facets[facet]
	if !ok {
		return 0
	}
	bm, ok := values[value]
	if !ok {
		return 0
	}
	return bm.GetCardinality()
}

// DeviceIDs returns the ids of the retained records carrying the
// value, ascending.
func (x *FacetIndex) DeviceIDs(facet, value string) []uint32 {
	values, ok := x.facets[facet]
	if !ok {
		return nil
	}
	bm, ok := values[value]
	if !ok {
		return nil
	}
	return bm.ToArray()
}

// CommonDevices returns how many retained records carry both values,
// computed as a bitmap intersection.
func (x *FacetIndex) CommonDevices(facetA, valueA, facetB, valueB string) uint64 {
	a, ok := x.facets[facetA]
	if !ok {
		return 0
	}
	bmA, ok := a[valueA]
	if !ok {
		return 0
	}
	b, ok := x.facets[facetB]
	if !ok {
		return 0
	}
	bmB, ok := b[valueB]
	if !ok {
		return 0
	}
	return bmA.AndCardinality(bmB)
}

// Facets returns the facet names present in the index, sorted.
func (x *FacetIndex) Facets() []string {
	out := make([]string, 0, len(x.facets))
	for f := range x.facets {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

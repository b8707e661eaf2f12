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

// Package compose builds the queryable in-memory dataset from the
// record corpus. Composition applies overlays, evaluates the filter
// spec, groups retained records by brand and by ODM, and accumulates
// the facet value sets and co-occurrence pair lists that drive
// validation, suggestion and reporting.
//
// Compose is a pure function of its inputs. It never mutates the
// records or overlays it is given, so it is safe to call repeatedly,
// once per keystroke if need be.
package compose

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hwcatalog/devicecode/pkg/device"
	"github.com/hwcatalog/devicecode/pkg/overlay"
)

// Badges attached to retained records.
const (
	BadgePhone   = ":phone:"
	BadgePenguin = ":penguin:"
	BadgeRobot   = ":robot:"
	BadgeFCC     = "Ⓕ"
	BadgeCVE     = ":face_screaming_in_fear:"
)

// Entry is one retained record under a brand or ODM grouping.
type Entry struct {
	// Model is the display model string, space-joined from the model
	// parts that are present.
	Model string

	// Labels is the sorted badge set.
	Labels []string

	// Device is the record after overlay application.
	Device *device.Device
}

// Pair is one co-occurrence observation. Pairs keep the original
// casing; repeated observations are kept so callers can count.
type Pair struct {
	First  string
	Second string
}

// Dataset is the result of one composition pass.
type Dataset struct {
	// Devices holds the retained records in corpus order. Positions
	// are the record ids used by Facets.
	Devices []*device.Device

	// BrandsToDevices groups retained records by brand (original
	// casing).
	BrandsToDevices map[string][]Entry

	// ODMToDevices groups retained records by manufacturer, then
	// brand. Empty manufacturers appear under the unknown sentinel.
	ODMToDevices map[string]map[string][]Entry

	// BrandData lists the brand of every retained record, one entry
	// per record, for frequency counting.
	BrandData []string

	// Facets is the inverted index over all string-valued facet sets.
	Facets *FacetIndex

	// Years is the set of declared years across retained records;
	// YearData keeps one entry per declaration for counting.
	Years    map[int]bool
	YearData []int

	// Co-occurrence pair lists.
	BrandODM            []Pair
	BrandCPU            []Pair
	ODMCPU              []Pair
	ODMConnector        []Pair
	ChipVendorConnector []Pair
}

// FacetValues returns the sorted known values for a facet name.
func (d *Dataset) FacetValues(facet string) []string {
	return d.Facets.Values(facet)
}

// Composer holds the corpus a session composes against. Overlays are
// keyed by device title.
type Composer struct {
	Devices  []*device.Device
	Overlays map[string][]overlay.Overlay
}

// New returns a Composer over the given corpus.
func New(devices []*device.Device, overlays map[string][]overlay.Overlay) *Composer {
	return &Composer{Devices: devices, Overlays: overlays}
}

// Compose builds the dataset for the given filter spec. A nil spec
// composes the full, unfiltered dataset with overlays applied.
func (c *Composer) Compose(spec *FilterSpec) *Dataset {
	if spec == nil {
		spec = NewFilterSpec()
	}

	start := time.Now()
	ds := &Dataset{
		BrandsToDevices: make(map[string][]Entry),
		ODMToDevices:    make(map[string]map[string][]Entry),
		Facets:          NewFacetIndex(),
		Years:           make(map[int]bool),
	}

	for _, original := range c.Devices {
		if original.Title == "" {
			continue
		}

		d := original
		if spec.UseOverlays {
			if ovl, ok := c.Overlays[d.Title]; ok {
				d = overlay.Apply(d, ovl)
			}
		}

		if d.Brand == "" {
			continue
		}
		if !c.retain(d, spec) {
			continue
		}

		c.accumulate(ds, d)
	}

	composeTotal.Inc()
	composeDuration.Observe(time.Since(start).Seconds())
	composeRetained.Set(float64(len(ds.Devices)))
	return ds
}

// retain evaluates every active filter predicate. Filters AND across
// facets; a record missing a field an active filter needs is excluded.
func (c *Composer) retain(d *device.Device, spec *FilterSpec) bool {
	brand := Normalize(d.Brand)
	if len(spec.Brands) > 0 && !spec.Brands[brand] {
		return false
	}
	if len(spec.IgnoreBrands) > 0 && spec.IgnoreBrands[brand] {
		return false
	}

	odm := Normalize(d.ManufacturerLabel())
	if len(spec.ODMs) > 0 && !spec.ODMs[odm] {
		return false
	}
	if len(spec.IgnoreODMs) > 0 && spec.IgnoreODMs[odm] {
		return false
	}

	if len(spec.DeviceTypes) > 0 && !anyNormalized(d.DeviceTypes, spec.DeviceTypes) {
		return false
	}
	if len(spec.Flags) > 0 && !anyNormalized(d.Flags, spec.Flags) {
		return false
	}
	if len(spec.Passwords) > 0 && !spec.Passwords[Normalize(d.Defaults.Password)] {
		return false
	}
	if len(spec.Bootloaders) > 0 && !spec.Bootloaders[Normalize(d.Software.Bootloader.Manufacturer)] {
		return false
	}
	if len(spec.JTAGs) > 0 && !spec.JTAGs[string(d.HasJTAG)] {
		return false
	}
	if len(spec.OperatingSystems) > 0 && !spec.OperatingSystems[Normalize(d.Software.OS)] {
		return false
	}
	if len(spec.Serials) > 0 && !spec.Serials[string(d.HasSerialPort)] {
		return false
	}
	if len(spec.Connectors) > 0 && !spec.Connectors[Normalize(d.Serial.Connector)] {
		return false
	}
	if len(spec.BaudRates) > 0 && !spec.BaudRates[d.Serial.BaudRate] {
		return false
	}
	if len(spec.IPs) > 0 && !spec.IPs[Normalize(d.Defaults.IP)] {
		return false
	}
	if !passPresence(spec.CVEs, len(d.Regulatory.CVE) > 0) {
		return false
	}
	if !passCPE(spec.CPEs, d) {
		return false
	}
	if !passFCC(spec.FCCs, d) {
		return false
	}

	if len(spec.Years) > 0 && !anyYear(d.DeclaredYears(), spec.Years) {
		return false
	}
	if len(spec.CVEIDs) > 0 && !anyNormalized(d.Regulatory.CVE, spec.CVEIDs) {
		return false
	}

	if len(spec.Programs) > 0 && !anyNamed(d.Software.Programs, spec.Programs) {
		return false
	}
	if len(spec.Files) > 0 && !anyNamed(d.Software.Files, spec.Files) {
		return false
	}
	if len(spec.Packages) > 0 && !anyNamed(d.Software.Packages, spec.Packages) {
		return false
	}
	if len(spec.Partitions) > 0 && !anyNamed(d.Software.Partitions, spec.Partitions) {
		return false
	}
	if len(spec.Rootfs) > 0 && !anyNormalized(d.Software.Rootfs, spec.Rootfs) {
		return false
	}
	if len(spec.SDKs) > 0 && !spec.SDKs[Normalize(d.Software.SDK.Name)] {
		return false
	}

	if len(spec.Chips) > 0 {
		found := false
		for _, cpu := range d.CPUs {
			if spec.Chips[Normalize(cpu.Model)] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(spec.ChipTypes) > 0 {
		found := false
		for _, cpu := range d.CPUs {
			if spec.ChipTypes[Normalize(cpu.ChipType)] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(spec.ChipVendors) > 0 {
		found := false
		for _, cpu := range d.CPUs {
			if spec.ChipVendors[Normalize(cpu.Manufacturer)] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(spec.IgnoreOrigins) > 0 {
		for _, o := range d.Origins {
			if spec.IgnoreOrigins[Normalize(o.Origin)] {
				return false
			}
		}
	}
	if len(spec.Origins) > 0 {
		found := false
		for _, o := range d.Origins {
			if spec.Origins[Normalize(o.Origin)] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(spec.FCCIDs) > 0 {
		found := false
		for _, f := range d.Regulatory.FCCIDs {
			if spec.FCCIDs[Normalize(f.ID)] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// accumulate adds a retained record to every grouping, facet set and
// pair list.
func (c *Composer) accumulate(ds *Dataset, d *device.Device) {
	id := uint32(len(ds.Devices))
	ds.Devices = append(ds.Devices, d)

	model := d.ModelLabel()
	labels := badges(d)
	entry := Entry{Model: model, Labels: labels, Device: d}

	brand := d.Brand
	ds.BrandsToDevices[brand] = append(ds.BrandsToDevices[brand], entry)
	ds.BrandData = append(ds.BrandData, brand)
	ds.Facets.Add(FacetBrand, Normalize(brand), id)

	manufacturer := d.ManufacturerLabel()
	byBrand, ok := ds.ODMToDevices[manufacturer]
	if !ok {
		byBrand = make(map[string][]Entry)
		ds.ODMToDevices[manufacturer] = byBrand
	}
	byBrand[brand] = append(byBrand[brand], entry)
	ds.Facets.Add(FacetODM, Normalize(manufacturer), id)

	years := d.DeclaredYears()
	for _, y := range years {
		ds.Years[y] = true
	}
	ds.YearData = append(ds.YearData, years...)

	for _, t := range d.DeviceTypes {
		ds.Facets.Add(FacetType, Normalize(t), id)
	}
	for _, f := range d.Flags {
		ds.Facets.Add(FacetFlag, Normalize(f), id)
	}

	ds.Facets.Add(FacetIP, Normalize(d.Defaults.IP), id)
	ds.Facets.Add(FacetPassword, Normalize(d.Defaults.Password), id)
	ds.Facets.Add(FacetPCBID, Normalize(d.Model.PCBID), id)
	ds.Facets.Add(FacetBootloader, Normalize(d.Software.Bootloader.Manufacturer), id)

	if d.Serial.Connector != "" {
		ds.Facets.Add(FacetConnector, Normalize(d.Serial.Connector), id)
		ds.ODMConnector = append(ds.ODMConnector, Pair{manufacturer, d.Serial.Connector})
	}
	if d.Serial.BaudRate != 0 {
		ds.Facets.Add(FacetBaud, strconv.Itoa(d.Serial.BaudRate), id)
	}

	for _, cpu := range d.CPUs {
		ds.Facets.Add(FacetChipVendor, Normalize(cpu.Manufacturer), id)
		ds.Facets.Add(FacetChip, Normalize(cpu.Model), id)
		ds.Facets.Add(FacetChipType, Normalize(cpu.ChipType), id)
		ds.BrandCPU = append(ds.BrandCPU, Pair{brand, cpu.Manufacturer})
		ds.ODMCPU = append(ds.ODMCPU, Pair{manufacturer, cpu.Manufacturer})
		if d.Serial.Connector != "" {
			ds.ChipVendorConnector = append(ds.ChipVendorConnector,
				Pair{cpu.Manufacturer, d.Serial.Connector})
		}
	}
	for _, chip := range d.Network.Chips {
		ds.Facets.Add(FacetChipVendor, Normalize(chip.Manufacturer), id)
		ds.Facets.Add(FacetChip, Normalize(chip.Model), id)
	}
	for _, chip := range d.Flash {
		ds.Facets.Add(FacetChipVendor, Normalize(chip.Manufacturer), id)
		ds.Facets.Add(FacetChip, Normalize(chip.Model), id)
	}

	for _, f := range d.Regulatory.FCCIDs {
		ds.Facets.Add(FacetFCCID, Normalize(f.ID), id)
	}
	for _, cve := range d.Regulatory.CVE {
		ds.Facets.Add(FacetCVEID, Normalize(cve), id)
	}

	for _, p := range d.Software.Packages {
		ds.Facets.Add(FacetPackage, Normalize(p.Name), id)
	}
	for _, p := range d.Software.Partitions {
		ds.Facets.Add(FacetPartition, Normalize(p.Name), id)
	}
	for _, fs := range d.Software.Rootfs {
		ds.Facets.Add(FacetRootfs, Normalize(fs), id)
	}
	ds.Facets.Add(FacetSDK, Normalize(d.Software.SDK.Name), id)
	for _, p := range d.Software.Programs {
		ds.Facets.Add(FacetProgram, Normalize(p.Name), id)
	}
	for _, f := range d.Software.Files {
		ds.Facets.Add(FacetFile, Normalize(f.Name), id)
	}

	ds.BrandODM = append(ds.BrandODM, Pair{brand, manufacturer})
}

// badges computes the sorted label badge set for a record.
func badges(d *device.Device) []string {
	set := make(map[string]bool)
	for _, f := range d.Flags {
		if phoneRelated(f) {
			set[BadgePhone] = true
		}
	}
	for _, t := range d.DeviceTypes {
		if phoneRelated(t) {
			set[BadgePhone] = true
		}
	}
	os := Normalize(d.Software.OS)
	if strings.Contains(os, "linux") {
		set[BadgePenguin] = true
	}
	if strings.Contains(os, "android") {
		set[BadgeRobot] = true
	}
	if len(d.FCCData) > 0 {
		set[BadgeFCC] = true
	}
	if len(d.Regulatory.CVE) > 0 {
		set[BadgeCVE] = true
	}

	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

func phoneRelated(s string) bool {
	low := Normalize(s)
	return strings.Contains(low, "voip") ||
		strings.Contains(low, "telephone") ||
		strings.Contains(low, " phone")
}

// passPresence evaluates a yes/no presence filter. Accepting both
// values always passes.
func passPresence(accepted map[string]bool, present bool) bool {
	if len(accepted) == 0 {
		return true
	}
	if accepted["yes"] && accepted["no"] {
		return true
	}
	if accepted["yes"] {
		return present
	}
	return !present
}

// passCPE evaluates the CPE presence filter.
func passCPE(accepted map[string]bool, d *device.Device) bool {
	return passPresence(accepted, d.Regulatory.CPE.CPE != "")
}

// passFCC evaluates the FCC presence filter. The extra "invalid"
// vocabulary entry matches records whose only FCC entries are typed
// invalid.
func passFCC(accepted map[string]bool, d *device.Device) bool {
	if len(accepted) == 0 {
		return true
	}
	hasValid := false
	hasInvalid := false
	for _, f := range d.Regulatory.FCCIDs {
		if f.Type == "invalid" {
			hasInvalid = true
		} else {
			hasValid = true
		}
	}
	switch {
	case accepted["yes"] && hasValid:
		return true
	case accepted["invalid"] && hasInvalid && !hasValid:
		return true
	case accepted["no"] && !hasValid && !hasInvalid:
		return true
	}
	return false
}

func anyNormalized(values []string, accepted map[string]bool) bool {
	for _, v := range values {
		if accepted[Normalize(v)] {
			return true
		}
	}
	return false
}

func anyNamed(items []device.NamedItem, accepted map[string]bool) bool {
	for _, item := range items {
		if accepted[Normalize(item.Name)] {
			return true
		}
	}
	return false
}

func anyYear(years []int, accepted map[int]bool) bool {
	for _, y := range years {
		if accepted[y] {
			return true
		}
	}
	return false
}

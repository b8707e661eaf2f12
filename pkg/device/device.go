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

// Package device defines the device record data model shared by the store,
// the overlay resolver, the reconciler and the dataset composer.
//
// A Device is a tree-shaped document keyed by a stable title. Records are
// treated as immutable by the engine: every transformation (overlay
// application, squashing) operates on a Clone and returns a new value.
package device

import (
	"strconv"
	"strings"
)

// UnknownManufacturer is the sentinel assigned to devices whose
// manufacturer name is empty in the source data.
const UnknownManufacturer = "***UNKNOWN***"

// TriState captures yes/no/unknown answers found in the wiki data,
// such as the presence of a JTAG header or a serial port.
type TriState string

const (
	Yes     TriState = "yes"
	No      TriState = "no"
	Unknown TriState = "unknown"
)

// IsValid reports whether the value is one of the three known states.
func (t TriState) IsValid() bool {
	switch t {
	case Yes, No, Unknown:
		return true
	default:
		return false
	}
}

// Device is a single device record as produced by the wiki crawlers,
// the hardware table importer, or the reconciler.
type Device struct {
	Title           string       `json:"title"`
	Brand           string       `json:"brand,omitempty"`
	Manufacturer    Manufacturer `json:"manufacturer"`
	Model           Model        `json:"model"`
	DeviceTypes     []string     `json:"device_types"`
	Flags           []string     `json:"flags"`
	Taglines        []string     `json:"taglines"`
	CPUs            []Chip       `json:"cpus"`
	AdditionalChips []Chip       `json:"additional_chips"`
	Flash           []Chip       `json:"flash"`
	Network         Network      `json:"network"`
	Regulatory      Regulatory   `json:"regulatory"`
	Software        Software     `json:"software"`
	Serial          Port         `json:"serial"`
	JTAG            Port         `json:"jtag"`
	HasJTAG         TriState     `json:"has_jtag"`
	HasSerialPort   TriState     `json:"has_serial_port"`
	Defaults        Defaults     `json:"defaults"`
	Commercial      Commercial   `json:"commercial"`
	Expansions      []string     `json:"expansions"`
	Images          []string     `json:"images"`
	Origins         []Origin     `json:"origins"`
	Web             Web          `json:"web"`

	// FCCData holds extracted FCC document text added by the
	// fcc_extracted_text overlay. It is absent in base records.
	FCCData map[string]any `json:"fcc_data,omitempty"`
}

// Manufacturer describes the ODM behind a device.
type Manufacturer struct {
	Name    string `json:"name"`
	Model   string `json:"model"`
	Country string `json:"country"`
}

// Model holds the model designation split into its components.
type Model struct {
	Model       string `json:"model"`
	Revision    string `json:"revision"`
	Submodel    string `json:"submodel"`
	Subrevision string `json:"subrevision"`
	PCBID       string `json:"pcb_id"`
}

// Chip identifies a single chip: a CPU, a network chip or a flash chip.
type Chip struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	ChipType     string `json:"chip_type"`
}

// OUIEntry is one observed OUI with its registered vendor name.
type OUIEntry struct {
	OUI       string `json:"oui"`
	Name      string `json:"name"`
	NameShort string `json:"name_short"`
}

// Network groups network chips and observed OUI assignments.
type Network struct {
	Chips       []Chip     `json:"chips"`
	EthernetOUI []OUIEntry `json:"ethernet_oui"`
	WirelessOUI []OUIEntry `json:"wireless_oui"`
}

// FCCEntry is one FCC identifier attached to a device. The type
// distinguishes the device's own grant ("main") from auxiliary ids.
type FCCEntry struct {
	ID   string `json:"fcc_id"`
	Date string `json:"fcc_date"`
	Type string `json:"fcc_type"`
}

// CPE holds the CPE identifiers assigned to a device.
type CPE struct {
	CPE   string `json:"cpe"`
	CPE23 string `json:"cpe23"`
}

// Regulatory groups regulatory and security related identifiers.
type Regulatory struct {
	FCCIDs            []FCCEntry `json:"fcc_ids"`
	CPE               CPE        `json:"cpe"`
	CVE               []string   `json:"cve"`
	WifiCertified     string     `json:"wifi_certified"`
	WifiCertifiedDate string     `json:"wifi_certified_date"`
}

// Bootloader describes the boot firmware on a device.
type Bootloader struct {
	Manufacturer string   `json:"manufacturer"`
	Version      string   `json:"version"`
	Extras       []string `json:"extra_info"`
}

// SDK describes the vendor SDK the firmware was built with.
type SDK struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NamedItem is a named software artifact: a package, partition,
// program or file observed in the firmware.
type NamedItem struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Software groups everything known about the firmware.
type Software struct {
	OS         string      `json:"os"`
	Bootloader Bootloader  `json:"bootloader"`
	SDK        SDK         `json:"sdk"`
	Packages   []NamedItem `json:"packages"`
	Partitions []NamedItem `json:"partitions"`
	Programs   []NamedItem `json:"programs"`
	Files      []NamedItem `json:"files"`
	Rootfs     []string    `json:"rootfs"`
}

// Port describes a serial or JTAG port.
type Port struct {
	BaudRate     int      `json:"baud_rate"`
	Connector    string   `json:"connector"`
	NumberOfPins int      `json:"number_of_pins"`
	Populated    TriState `json:"populated"`
	Voltage      float64  `json:"voltage"`
}

// Defaults holds factory default credentials and addresses.
type Defaults struct {
	IP       string   `json:"ip"`
	Logins   []string `json:"logins"`
	Password string   `json:"password"`
}

// Commercial holds commercial life cycle data.
type Commercial struct {
	ReleaseDate string `json:"release_date"`
	EndOfSale   string `json:"end_of_sale"`
	Price       string `json:"price"`
}

// Origin records which source a record (or part of it) came from.
type Origin struct {
	Origin string `json:"origin"`
}

// Web groups the external links declared by a record, including the
// cross-source links the reconciler uses to match records.
type Web struct {
	ProductPage   []string `json:"product_page"`
	SupportPage   []string `json:"support_page"`
	DataURL       string   `json:"data_url"`
	Wikidevi      string   `json:"wikidevi"`
	Techinfodepot string   `json:"techinfodepot"`
}

// ModelLabel composes the display model string from the model components,
// space-joined, omitting empty parts.
func (d *Device) ModelLabel() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{d.Model.Model, d.Model.Revision, d.Model.Submodel, d.Model.Subrevision} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// ManufacturerLabel returns the manufacturer name, substituting the
// unknown sentinel when the source data left it empty.
func (d *Device) ManufacturerLabel() string {
	if d.Manufacturer.Name == "" {
		return UnknownManufacturer
	}
	return d.Manufacturer.Name
}

// DataURL returns the record's declared data URL, falling back to the
// title with spaces replaced by underscores when none was declared.
func (d *Device) DataURL() string {
	if d.Web.DataURL != "" {
		return d.Web.DataURL
	}
	return strings.ReplaceAll(d.Title, " ", "_")
}

// DeclaredYears collects every year the source data declares for a device:
// the commercial release date, the grant date of each main (or untyped)
// FCC id, and the wifi certification date. Dates are expected to start
// with a four digit year; anything else is skipped.
func (d *Device) DeclaredYears() []int {
	var years []int
	if y, ok := yearOf(d.Commercial.ReleaseDate); ok {
		years = append(years, y)
	}
	for _, f := range d.Regulatory.FCCIDs {
		if f.Date == "" {
			continue
		}
		if f.Type != "main" && f.Type != "unknown" {
			continue
		}
		if y, ok := yearOf(f.Date); ok {
			years = append(years, y)
		}
	}
	if y, ok := yearOf(d.Regulatory.WifiCertifiedDate); ok {
		years = append(years, y)
	}
	return years
}

func yearOf(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}

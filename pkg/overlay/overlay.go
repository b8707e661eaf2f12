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

// Package overlay implements the overlay resolver: small, independently
// produced JSON patches that each replace exactly one facet of a base
// device record.
//
// The set of supported facets is a closed enumeration. Each facet writes
// to a disjoint field path, so application order across facets does not
// matter; when two overlays target the same facet for the same device the
// later one observed wins.
package overlay

import (
	"encoding/json"

	"github.com/hwcatalog/devicecode/pkg/device"
)

// TypeOverlay is the required value of the document's "type" field.
// Documents with any other type are inert and ignored.
const TypeOverlay = "overlay"

// Kind identifies the facet an overlay replaces.
type Kind string

const (
	KindFCCID            Kind = "fcc_id"
	KindCPE              Kind = "cpe"
	KindCVE              Kind = "cve"
	KindOUI              Kind = "oui"
	KindFCCExtractedText Kind = "fcc_extracted_text"
	KindBrand            Kind = "brand"
)

// Kinds lists every supported overlay facet.
var Kinds = []Kind{
	KindFCCID,
	KindCPE,
	KindCVE,
	KindOUI,
	KindFCCExtractedText,
	KindBrand,
}

// IsValid reports whether the kind is one of the supported facets.
func (k Kind) IsValid() bool {
	_, ok := appliers[k]
	return ok
}

// Metadata records the provenance of an overlay.
type Metadata struct {
	ID      string `json:"id,omitempty"`
	Source  string `json:"source,omitempty"`
	License string `json:"license,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Overlay is one overlay document. Data is kept raw and decoded by the
// facet's applier, since every facet carries a different shape.
type Overlay struct {
	Type     string          `json:"type"`
	Name     Kind            `json:"name"`
	Metadata Metadata        `json:"metadata,omitempty"`
	Data     json.RawMessage `json:"data"`
}

// OUIData is the payload of an oui overlay. It carries both OUI
// sequences; the applier writes both paths.
type OUIData struct {
	EthernetOUI []device.OUIEntry `json:"ethernet_oui"`
	WirelessOUI []device.OUIEntry `json:"wireless_oui"`
}

// BrandData is the payload of a brand overlay.
type BrandData struct {
	Brand string `json:"brand"`
}

// applier decodes an overlay payload and writes it into its field path,
// replacing the prior value wholesale.
type applier func(d *device.Device, data json.RawMessage) error

// appliers maps every supported facet to its target field path. Adding a
// facet means adding exactly one entry here.
var appliers = map[Kind]applier{
	KindFCCID: func(d *device.Device, data json.RawMessage) error {
		var ids []device.FCCEntry
		if err := json.Unmarshal(data, &ids); err != nil {
			return err
		}
		d.Regulatory.FCCIDs = ids
		return nil
	},
	KindCPE: func(d *device.Device, data json.RawMessage) error {
		var cpe device.CPE
		if err := json.Unmarshal(data, &cpe); err != nil {
			return err
		}
		d.Regulatory.CPE = cpe
		return nil
	},
	KindCVE: func(d *device.Device, data json.RawMessage) error {
		var cves []string
		if err := json.Unmarshal(data, &cves); err != nil {
			return err
		}
		d.Regulatory.CVE = cves
		return nil
	},
	KindOUI: func(d *device.Device, data json.RawMessage) error {
		var oui OUIData
		if err := json.Unmarshal(data, &oui); err != nil {
			return err
		}
		d.Network.EthernetOUI = oui.EthernetOUI
		d.Network.WirelessOUI = oui.WirelessOUI
		return nil
	},
	KindFCCExtractedText: func(d *device.Device, data json.RawMessage) error {
		var text map[string]any
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		d.FCCData = text
		return nil
	},
	KindBrand: func(d *device.Device, data json.RawMessage) error {
		var b BrandData
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		d.Brand = b.Brand
		return nil
	},
}

// Apply produces a materialized record by applying every overlay to a
// clone of the base record. The original is never mutated. Documents that
// are not overlays, unknown facet names, and payloads that fail to decode
// are ignored: forward compatibility and source data quality are handled
// by skipping, never by failing the batch.
func Apply(d *device.Device, overlays []Overlay) *device.Device {
	out := d.Clone()
	for _, o := range overlays {
		if o.Type != TypeOverlay {
			continue
		}
		apply, ok := appliers[o.Name]
		if !ok {
			continue
		}
		// Decode errors leave the facet untouched.
		_ = apply(out, o.Data)
	}
	return out
}

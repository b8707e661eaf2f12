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

package overlay

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hwcatalog/devicecode/pkg/device"
)

// New builds an overlay of the given kind from an already encodable
// payload. The payload must match the facet's shape; see the typed
// constructors below for the common cases. Every produced overlay gets a
// unique id so repeated runs of a producer remain distinguishable in the
// provenance history.
func New(kind Kind, meta Metadata, payload any) (Overlay, error) {
	if !kind.IsValid() {
		return Overlay{}, fmt.Errorf("unsupported overlay kind: %q", kind)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Overlay{}, fmt.Errorf("failed to encode %s overlay data: %w", kind, err)
	}
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	return Overlay{
		Type:     TypeOverlay,
		Name:     kind,
		Metadata: meta,
		Data:     data,
	}, nil
}

// NewFCCID builds an fcc_id overlay replacing a device's FCC identifiers.
func NewFCCID(meta Metadata, ids []device.FCCEntry) (Overlay, error) {
	return New(KindFCCID, meta, ids)
}

// NewCPE builds a cpe overlay replacing a device's CPE identifiers.
func NewCPE(meta Metadata, cpe device.CPE) (Overlay, error) {
	return New(KindCPE, meta, cpe)
}

// NewCVE builds a cve overlay replacing a device's CVE identifiers.
func NewCVE(meta Metadata, cves []string) (Overlay, error) {
	return New(KindCVE, meta, cves)
}

// NewOUI builds an oui overlay replacing both OUI sequences.
func NewOUI(meta Metadata, data OUIData) (Overlay, error) {
	return New(KindOUI, meta, data)
}

// NewFCCExtractedText builds an fcc_extracted_text overlay adding
// extracted FCC document text to a device.
func NewFCCExtractedText(meta Metadata, text map[string]any) (Overlay, error) {
	return New(KindFCCExtractedText, meta, text)
}

// NewBrand builds a brand overlay correcting a device's brand.
func NewBrand(meta Metadata, brand string) (Overlay, error) {
	return New(KindBrand, meta, BrandData{Brand: brand})
}

// Marshal renders an overlay as indented JSON with stable field ordering,
// suitable for committing next to the records it patches.
func Marshal(o Overlay) ([]byte, error) {
	return json.MarshalIndent(o, "", "    ")
}

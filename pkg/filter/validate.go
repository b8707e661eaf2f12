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
	"slices"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/hwcatalog/devicecode/pkg/compose"
	"github.com/hwcatalog/devicecode/pkg/errors"
)

// Validator checks filter queries token by token against the facet
// values of a composed dataset. Tokens with a fixed vocabulary are
// checked against it instead; a few free-form tokens (os, flag,
// program, type) only have their name checked.
type Validator struct {
	dataset *compose.Dataset
}

// NewValidator returns a Validator primed with the dataset's facet
// sets.
func NewValidator(dataset *compose.Dataset) *Validator {
	return &Validator{dataset: dataset}
}

// Validate checks a query. It returns nil when every token is valid,
// otherwise a structured error whose message is the facet-specific
// rejection reason.
func (v *Validator) Validate(query string) error {
	tokens, err := shlex.Split(strings.ToLower(query))
	if err != nil {
		return failure("Incomplete", query)
	}
	if len(tokens) == 0 {
		return failure("Empty string", query)
	}

	for _, t := range tokens {
		name, value, found := strings.Cut(t, "=")
		if !found {
			return failure("Invalid name", t)
		}
		name, _, _ = strings.Cut(name, "?")
		if !IsTokenName(name) {
			return failure("Invalid name", t)
		}

		if err := v.validateToken(name, value, t); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateToken(name, value, token string) error {
	switch name {
	case "bootloader":
		if !v.known(compose.FacetBootloader, value) {
			return failure("Invalid bootloader", token)
		}
	case "brand", "ignore_brand":
		if !v.known(compose.FacetBrand, value) {
			return failure("Invalid brand", token)
		}
	case "chip":
		if !v.known(compose.FacetChip, value) {
			return failure("Invalid chip", token)
		}
	case "chip_type":
		if !v.known(compose.FacetChipType, value) {
			return failure("Invalid chip type", token)
		}
	case "chip_vendor":
		if !v.known(compose.FacetChipVendor, value) {
			return failure("Invalid chip vendor", token)
		}
	case "connector":
		if !v.known(compose.FacetConnector, value) {
			return failure("Invalid connector", token)
		}
	case "baud":
		if _, err := strconv.Atoi(value); err != nil {
			return failure("Invalid baud rate", token)
		}
		if !v.known(compose.FacetBaud, value) {
			return failure("Invalid baud rate", token)
		}
	case "cpe":
		if !slices.Contains(presenceValues, value) {
			return failure("Invalid CPE information", token)
		}
	case "cve":
		if !slices.Contains(presenceValues, value) {
			return failure("Invalid CVE information", token)
		}
	case "cveid":
		if !v.known(compose.FacetCVEID, value) {
			return failure("Invalid CVE id", token)
		}
	case "odm", "ignore_odm":
		if !v.known(compose.FacetODM, value) {
			return failure("Invalid ODM", token)
		}
	case "fcc":
		if !slices.Contains(fccValues, value) {
			return failure("Invalid FCC information", token)
		}
	case "fccid":
		if !v.known(compose.FacetFCCID, value) {
			return failure("Invalid FCC", token)
		}
	case "file":
		if !v.known(compose.FacetFile, value) {
			return failure("Invalid file", token)
		}
	case "ip":
		if !v.known(compose.FacetIP, value) {
			return failure("Invalid IP", token)
		}
	case "password":
		if !v.known(compose.FacetPassword, value) {
			return failure("Invalid password", token)
		}
	case "package":
		if !v.known(compose.FacetPackage, value) {
			return failure("Invalid package", token)
		}
	case "partition":
		if !v.known(compose.FacetPartition, value) {
			return failure("Invalid partition", token)
		}
	case "rootfs":
		if !v.known(compose.FacetRootfs, value) {
			return failure("Invalid rootfs", token)
		}
	case "sdk":
		if !v.known(compose.FacetSDK, value) {
			return failure("Invalid SDK", token)
		}
	case "jtag", "serial":
		if !slices.Contains(triStateValues, value) {
			return failure("Invalid JTAG/serial port information", token)
		}
	case "origin", "ignore_origin":
		if !slices.Contains(originValues, value) {
			return failure("Invalid origin", token)
		}
	case "year":
		for _, year := range strings.SplitN(value, ":", 2) {
			y, err := strconv.Atoi(year)
			if err != nil {
				return failure("Invalid year", token)
			}
			if y < MinYear || y > MaxYear {
				return failure("Invalid year", token)
			}
		}
	case "overlays":
		if !slices.Contains(overlayValues, value) {
			return failure("Invalid overlay flag", token)
		}
	}
	return nil
}

// known reports dataset membership for a facet value. With no dataset
// primed, every value is accepted.
func (v *Validator) known(facet, value string) bool {
	if v.dataset == nil {
		return true
	}
	return v.dataset.Facets.Has(facet, value)
}

func failure(reason, token string) error {
	return errors.NewWithContext(errors.ErrCodeInvalidFilter, reason,
		map[string]any{"token": token})
}

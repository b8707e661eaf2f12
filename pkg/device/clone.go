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

package device

import "slices"

// Clone returns a deep copy of the device. The engine never mutates a
// stored record; overlay application and squashing operate on clones so
// overlapping composition passes cannot observe partial writes.
func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}
	c := *d

	c.DeviceTypes = slices.Clone(d.DeviceTypes)
	c.Flags = slices.Clone(d.Flags)
	c.Taglines = slices.Clone(d.Taglines)
	c.CPUs = slices.Clone(d.CPUs)
	c.AdditionalChips = slices.Clone(d.AdditionalChips)
	c.Flash = slices.Clone(d.Flash)
	c.Expansions = slices.Clone(d.Expansions)
	c.Images = slices.Clone(d.Images)
	c.Origins = slices.Clone(d.Origins)

	c.Network.Chips = slices.Clone(d.Network.Chips)
	c.Network.EthernetOUI = slices.Clone(d.Network.EthernetOUI)
	c.Network.WirelessOUI = slices.Clone(d.Network.WirelessOUI)

	c.Regulatory.FCCIDs = slices.Clone(d.Regulatory.FCCIDs)
	c.Regulatory.CVE = slices.Clone(d.Regulatory.CVE)

	c.Software.Bootloader.Extras = slices.Clone(d.Software.Bootloader.Extras)
	c.Software.Packages = slices.Clone(d.Software.Packages)
	c.Software.Partitions = slices.Clone(d.Software.Partitions)
	c.Software.Programs = slices.Clone(d.Software.Programs)
	c.Software.Files = slices.Clone(d.Software.Files)
	c.Software.Rootfs = slices.Clone(d.Software.Rootfs)

	c.Defaults.Logins = slices.Clone(d.Defaults.Logins)

	c.Web.ProductPage = slices.Clone(d.Web.ProductPage)
	c.Web.SupportPage = slices.Clone(d.Web.SupportPage)

	c.FCCData = cloneAnyMap(d.FCCData)

	return &c
}

func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = cloneAny(v)
	}
	return c
}

func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneAnyMap(t)
	case []any:
		c := make([]any, len(t))
		for i, e := range t {
			c[i] = cloneAny(e)
		}
		return c
	default:
		// JSON scalars are immutable.
		return v
	}
}

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

package store

import (
	"fmt"
	"strings"

	"github.com/hwcatalog/devicecode/pkg/device"
	"github.com/hwcatalog/devicecode/pkg/serializer"
)

// Config carries per-source dialect defaults. Each wiki dialect marks
// unknown values differently ("unknown", "-", "?", ...); the ignore
// tables map a field identifier to the values that should be treated as
// absent for that source. The table is explicit configuration passed into
// loading, never a package-level constant, so it can be swapped per
// source dialect.
type Config struct {
	Sources []SourceConfig `json:"sources" yaml:"sources"`
}

// SourceConfig is the dialect configuration for one source.
type SourceConfig struct {
	Name string `json:"name" yaml:"name"`

	// IgnoreValues maps a field identifier to values meaning "unset".
	// Supported field identifiers: defaults.ip, defaults.password,
	// software.os, software.sdk.name, serial.connector,
	// software.bootloader.manufacturer.
	IgnoreValues map[string][]string `json:"ignore_values" yaml:"ignore_values"`
}

// LoadConfig reads a source dialect configuration file. The format is
// detected from the file extension.
func LoadConfig(path string) (*Config, error) {
	cfg, err := serializer.FromFile[Config](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load source config: %w", err)
	}
	return cfg, nil
}

// scrubber applies one source's ignore table to loaded records.
type scrubber struct {
	ignore map[string][]string
}

// scrubberFor returns the scrubber for the named source. A nil Config or
// an unconfigured source yields a no-op scrubber.
func (c *Config) scrubberFor(source string) scrubber {
	if c == nil {
		return scrubber{}
	}
	for _, sc := range c.Sources {
		if strings.EqualFold(sc.Name, source) {
			return scrubber{ignore: sc.IgnoreValues}
		}
	}
	return scrubber{}
}

func (s scrubber) scrub(d *device.Device) {
	if s.ignore == nil {
		return
	}
	s.clear("defaults.ip", &d.Defaults.IP)
	s.clear("defaults.password", &d.Defaults.Password)
	s.clear("software.os", &d.Software.OS)
	s.clear("software.sdk.name", &d.Software.SDK.Name)
	s.clear("serial.connector", &d.Serial.Connector)
	s.clear("software.bootloader.manufacturer", &d.Software.Bootloader.Manufacturer)
}

func (s scrubber) clear(field string, value *string) {
	for _, ignored := range s.ignore[field] {
		if strings.EqualFold(*value, ignored) {
			*value = ""
			return
		}
	}
}

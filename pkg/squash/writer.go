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

package squash

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hwcatalog/devicecode/pkg/device"
	"github.com/hwcatalog/devicecode/pkg/errors"
	"github.com/hwcatalog/devicecode/pkg/serializer"
)

// DevicesDirName is the directory under the squashed output root that
// holds the per-device JSON files.
const DevicesDirName = "devices"

// SafeTitle maps a device title to a filesystem-safe file stem. Titles
// may contain path separators (wiki subpages).
func SafeTitle(title string) string {
	return strings.ReplaceAll(title, "/", "_")
}

// WriteCorpus writes the canonical records to dir/devices, one JSON
// file per title. The directory is created if needed; existing files
// are overwritten.
func WriteCorpus(dir string, devices []*device.Device) error {
	target := filepath.Join(dir, DevicesDirName)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "creating output directory", err)
	}

	for _, d := range devices {
		if d.Title == "" {
			continue
		}
		data, err := json.MarshalIndent(d, "", "    ")
		if err != nil {
			return errors.WrapWithContext(errors.ErrCodeInternal,
				"encoding device record", err,
				map[string]any{"title": d.Title})
		}
		path := filepath.Join(target, fmt.Sprintf("%s.json", SafeTitle(d.Title)))
		if err := serializer.WriteToFile(path, data); err != nil {
			return errors.WrapWithContext(errors.ErrCodeInternal,
				"writing device record", err,
				map[string]any{"title": d.Title, "path": path})
		}
	}

	slog.Info("canonical corpus written", "dir", target, "devices", len(devices))
	return nil
}

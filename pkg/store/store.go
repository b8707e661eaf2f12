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

// Package store loads immutable base device records and overlay records
// from a DeviceCode results directory. The store owns no mutation: it
// hands out the loaded records and the overlays keyed by device title,
// and the rest of the engine works on clones.
//
// Directory layout, per source:
//
//	<results>/<Source>/devices/...           base records, one JSON file each
//	<results>/<Source>/overlays/<title>/...  overlays for one device
//
// A reconciled corpus lives in <results>/squashed/devices and, when
// present, is preferred over the per-source directories.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/hwcatalog/devicecode/pkg/device"
	deverrors "github.com/hwcatalog/devicecode/pkg/errors"
	"github.com/hwcatalog/devicecode/pkg/overlay"
)

// Source names recognized inside a results directory.
const (
	SourceTechInfoDepot = "TechInfoDepot"
	SourceWikiDevi      = "WikiDevi"
	SourceOpenWrt       = "OpenWrt"
	SourceSquashed      = "squashed"
)

// ValidSources lists the per-source directory names, in precedence order.
var ValidSources = []string{SourceTechInfoDepot, SourceWikiDevi, SourceOpenWrt}

// IsValidSource reports whether name is a recognized source directory,
// case-insensitively.
func IsValidSource(name string) bool {
	for _, s := range ValidSources {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// Store holds the loaded corpus: every base record plus the overlays
// keyed by the title of the device they target.
type Store struct {
	Devices  []*device.Device
	Overlays map[string][]overlay.Overlay
}

// OverlaysFor returns the overlays targeting the given device title.
func (s *Store) OverlaysFor(title string) []overlay.Overlay {
	if s.Overlays == nil {
		return nil
	}
	return s.Overlays[title]
}

// OverlaidDevices returns the loaded records with each device's overlays
// applied. Records without overlays are returned as loaded; the stored
// records are never mutated.
func (s *Store) OverlaidDevices() []*device.Device {
	if len(s.Overlays) == 0 {
		return s.Devices
	}
	out := make([]*device.Device, len(s.Devices))
	for i, d := range s.Devices {
		if ovl := s.OverlaysFor(d.Title); len(ovl) > 0 {
			out[i] = overlay.Apply(d, ovl)
		} else {
			out[i] = d
		}
	}
	return out
}

// Options controls loading behavior.
type Options struct {
	// WikiType restricts loading to a single source directory. Empty
	// means all sources (or the squashed corpus when present).
	WikiType string

	// NoOverlays skips overlay loading entirely.
	NoOverlays bool

	// Config carries per-source dialect defaults. Nil means no scrubbing.
	Config *Config
}

// Discover returns the device directories to load from a results
// directory: the squashed corpus when present (and no explicit wiki type
// was requested), otherwise each recognized source's devices directory.
func Discover(resultsDir, wikiType string) ([]string, error) {
	info, err := os.Stat(resultsDir)
	if err != nil || !info.IsDir() {
		return nil, deverrors.NewWithContext(deverrors.ErrCodeNotFound,
			"results directory not found", map[string]any{"path": resultsDir})
	}

	squashed := filepath.Join(resultsDir, SourceSquashed, "devices")
	if wikiType == "" {
		if info, err := os.Stat(squashed); err == nil && info.IsDir() {
			return []string{squashed}, nil
		}
	}

	var dirs []string
	entries, err := os.ReadDir(resultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() || !IsValidSource(e.Name()) {
			continue
		}
		if wikiType != "" && !strings.EqualFold(e.Name(), wikiType) {
			continue
		}
		devicesDir := filepath.Join(resultsDir, e.Name(), "devices")
		if info, err := os.Stat(devicesDir); err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, devicesDir)
	}

	if len(dirs) == 0 {
		return nil, deverrors.NewWithContext(deverrors.ErrCodeNotFound,
			"no valid device directories found",
			map[string]any{"path": resultsDir, "sources": ValidSources})
	}
	return dirs, nil
}

// Load reads every device and overlay under the given results directory.
// Sources are loaded in parallel; within a source, records are read
// sequentially. Malformed documents are skipped with a debug log entry,
// never failing the batch.
func Load(ctx context.Context, resultsDir string, opts Options) (*Store, error) {
	dirs, err := Discover(resultsDir, opts.WikiType)
	if err != nil {
		return nil, err
	}

	s := &Store{Overlays: make(map[string][]overlay.Overlay)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, dir := range dirs {
		dir := dir
		g.Go(func() error {
			devices, overlays, err := loadSource(gctx, dir, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			s.Devices = append(s.Devices, devices...)
			for title, ovs := range overlays {
				s.Overlays[title] = append(s.Overlays[title], ovs...)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("store loaded",
		"directories", len(dirs),
		"devices", len(s.Devices),
		"overlayed_titles", len(s.Overlays))
	return s, nil
}

// loadSource reads one source's devices directory and, unless disabled,
// its sibling overlays directory.
func loadSource(ctx context.Context, devicesDir string, opts Options) ([]*device.Device, map[string][]overlay.Overlay, error) {
	var devices []*device.Device

	sourceName := filepath.Base(filepath.Dir(devicesDir))
	scrubber := opts.Config.scrubberFor(sourceName)

	err := filepath.WalkDir(devicesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		var dev device.Device
		if err := decodeFile(path, &dev); err != nil {
			slog.Debug("skipping malformed device record", "path", path, "error", err)
			return nil
		}
		scrubber.scrub(&dev)
		devices = append(devices, &dev)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk %s: %w", devicesDir, err)
	}

	overlays := make(map[string][]overlay.Overlay)
	overlaysDir := filepath.Join(filepath.Dir(devicesDir), "overlays")
	if opts.NoOverlays {
		return devices, overlays, nil
	}
	if info, err := os.Stat(overlaysDir); err != nil || !info.IsDir() {
		return devices, overlays, nil
	}

	err = filepath.WalkDir(overlaysDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		// Overlays are partitioned by device title: overlays/<title>/<file>.
		title := filepath.Base(filepath.Dir(path))
		var ov overlay.Overlay
		if err := decodeFile(path, &ov); err != nil {
			slog.Debug("skipping malformed overlay", "path", path, "error", err)
			return nil
		}
		if ov.Type != overlay.TypeOverlay {
			return nil
		}
		overlays[title] = append(overlays[title], ov)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk %s: %w", overlaysDir, err)
	}

	return devices, overlays, nil
}

// decodeFile decodes one JSON document, transparently decompressing
// .gz files.
func decodeFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer zr.Close()
		r = zr
	}

	return json.NewDecoder(r).Decode(v)
}

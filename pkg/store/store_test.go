package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwcatalog/devicecode/pkg/device"
	deverrors "github.com/hwcatalog/devicecode/pkg/errors"
	"github.com/hwcatalog/devicecode/pkg/overlay"
)

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func writeGzipJSON(t *testing.T, path string, v any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func record(title string) map[string]any {
	return map[string]any{"title": title, "brand": "Acme"}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, SourceTechInfoDepot, "devices", "a.json"), record("A"))
	writeJSON(t, filepath.Join(dir, SourceWikiDevi, "devices", "b.json"), record("B"))
	// Not a recognized source name, must be skipped.
	writeJSON(t, filepath.Join(dir, "Scratch", "devices", "c.json"), record("C"))

	dirs, err := Discover(dir, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, SourceTechInfoDepot, "devices"),
		filepath.Join(dir, SourceWikiDevi, "devices"),
	}, dirs)
}

func TestDiscoverPrefersSquashed(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, SourceTechInfoDepot, "devices", "a.json"), record("A"))
	writeJSON(t, filepath.Join(dir, SourceSquashed, "devices", "a.json"), record("A"))

	dirs, err := Discover(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, SourceSquashed, "devices")}, dirs)

	// An explicit wiki type bypasses the squashed corpus.
	dirs, err = Discover(dir, "techinfodepot")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, SourceTechInfoDepot, "devices")}, dirs)
}

func TestDiscoverErrors(t *testing.T) {
	dirs, err := Discover(filepath.Join(t.TempDir(), "nope"), "")
	assert.Nil(t, dirs)
	var serr *deverrors.StructuredError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, deverrors.ErrCodeNotFound, serr.Code)

	// A results directory with no recognized sources.
	empty := t.TempDir()
	dirs, err = Discover(empty, "")
	assert.Nil(t, dirs)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, deverrors.ErrCodeNotFound, serr.Code)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, SourceTechInfoDepot, "devices", "a.json"), record("A"))
	writeGzipJSON(t, filepath.Join(dir, SourceWikiDevi, "devices", "b.json.gz"), record("B"))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, SourceTechInfoDepot, "devices", "broken.json"),
		[]byte("{not json"), 0o644))

	writeJSON(t, filepath.Join(dir, SourceTechInfoDepot, "overlays", "A", "brand.json"), map[string]any{
		"type": "overlay",
		"name": "brand",
		"data": map[string]any{"brand": "Rebranded"},
	})
	// Documents without the overlay type are inert.
	writeJSON(t, filepath.Join(dir, SourceTechInfoDepot, "overlays", "A", "notes.json"), map[string]any{
		"type": "notes",
	})

	s, err := Load(context.Background(), dir, Options{})
	require.NoError(t, err)

	titles := make([]string, 0, len(s.Devices))
	for _, d := range s.Devices {
		titles = append(titles, d.Title)
	}
	assert.ElementsMatch(t, []string{"A", "B"}, titles)

	require.Len(t, s.OverlaysFor("A"), 1)
	assert.Equal(t, "brand", string(s.OverlaysFor("A")[0].Name))
	assert.Nil(t, s.OverlaysFor("B"))
}

func TestLoadNoOverlays(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, SourceTechInfoDepot, "devices", "a.json"), record("A"))
	writeJSON(t, filepath.Join(dir, SourceTechInfoDepot, "overlays", "A", "brand.json"), map[string]any{
		"type": "overlay",
		"name": "brand",
		"data": map[string]any{"brand": "Rebranded"},
	})

	s, err := Load(context.Background(), dir, Options{NoOverlays: true})
	require.NoError(t, err)
	assert.Empty(t, s.Overlays)
}

func TestOverlaidDevices(t *testing.T) {
	base := &device.Device{Title: "A"}
	s := &Store{
		Devices: []*device.Device{base, {Title: "B", Brand: "Bravo"}},
		Overlays: map[string][]overlay.Overlay{
			"A": {{
				Type: overlay.TypeOverlay,
				Name: overlay.KindBrand,
				Data: json.RawMessage(`{"brand":"Acme"}`),
			}},
		},
	}

	out := s.OverlaidDevices()
	require.Len(t, out, 2)
	assert.Equal(t, "Acme", out[0].Brand)
	assert.Equal(t, "Bravo", out[1].Brand)

	// The stored record is untouched; only the returned copy is overlaid.
	assert.Empty(t, base.Brand)

	bare := &Store{Devices: []*device.Device{base}}
	assert.Equal(t, bare.Devices, bare.OverlaidDevices())
}

func TestLoadWikiType(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, SourceTechInfoDepot, "devices", "a.json"), record("A"))
	writeJSON(t, filepath.Join(dir, SourceWikiDevi, "devices", "b.json"), record("B"))

	s, err := Load(context.Background(), dir, Options{WikiType: "WikiDevi"})
	require.NoError(t, err)
	require.Len(t, s.Devices, 1)
	assert.Equal(t, "B", s.Devices[0].Title)
}

func TestLoadScrubsIgnoreValues(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, SourceTechInfoDepot, "devices", "a.json"), map[string]any{
		"title":    "A",
		"brand":    "Acme",
		"defaults": map[string]any{"ip": "unknown", "password": "admin"},
		"software": map[string]any{"os": "-"},
	})

	cfg := &Config{Sources: []SourceConfig{{
		Name: SourceTechInfoDepot,
		IgnoreValues: map[string][]string{
			"defaults.ip": {"unknown", "?"},
			"software.os": {"-"},
		},
	}}}

	s, err := Load(context.Background(), dir, Options{Config: cfg})
	require.NoError(t, err)
	require.Len(t, s.Devices, 1)

	d := s.Devices[0]
	assert.Empty(t, d.Defaults.IP)
	assert.Empty(t, d.Software.OS)
	assert.Equal(t, "admin", d.Defaults.Password)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - name: TechInfoDepot
    ignore_values:
      defaults.ip: ["unknown"]
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "TechInfoDepot", cfg.Sources[0].Name)
	assert.Equal(t, []string{"unknown"}, cfg.Sources[0].IgnoreValues["defaults.ip"])

	// The format follows the file extension.
	jsonPath := filepath.Join(t.TempDir(), "sources.json")
	writeJSON(t, jsonPath, map[string]any{
		"sources": []map[string]any{{
			"name":          "WikiDevi",
			"ignore_values": map[string][]string{"software.os": {"?"}},
		}},
	})
	cfg, err = LoadConfig(jsonPath)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, []string{"?"}, cfg.Sources[0].IgnoreValues["software.os"])

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestScrubberForUnknownSource(t *testing.T) {
	cfg := &Config{Sources: []SourceConfig{{Name: SourceWikiDevi}}}
	assert.Nil(t, cfg.scrubberFor("OpenWrt").ignore)

	var nilCfg *Config
	assert.Nil(t, nilCfg.scrubberFor(SourceWikiDevi).ignore)
}

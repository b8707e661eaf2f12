package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwcatalog/devicecode/pkg/compose"
	"github.com/hwcatalog/devicecode/pkg/device"
	"github.com/hwcatalog/devicecode/pkg/errors"
)

func testDevices() []*device.Device {
	return []*device.Device{
		{
			Title: "Acme Router X1",
			Brand: "Acme",
			Manufacturer: device.Manufacturer{
				Name:    "Gemtek",
				Model:   "WX-1500",
				Country: "Taiwan",
			},
			Model:    device.Model{Model: "X1"},
			Software: device.Software{Bootloader: device.Bootloader{Manufacturer: "CFE"}},
			Serial:   device.Port{BaudRate: 115200, Connector: "JST"},
			Defaults: device.Defaults{IP: "192.168.1.1", Logins: []string{"admin", "root"}},
			Regulatory: device.Regulatory{
				FCCIDs: []device.FCCEntry{{ID: "ACME-X1"}},
				CVE:    []string{"CVE-2014-1234"},
			},
			HasJTAG:       device.Yes,
			HasSerialPort: device.Yes,
		},
		{
			Title:        "Gemtek WX-1500",
			Brand:        "Gemtek",
			Manufacturer: device.Manufacturer{Name: "Gemtek", Country: "Taiwan"},
			Model:        device.Model{Model: "WX-1500"},
			Serial:       device.Port{BaudRate: 115200},
			HasJTAG:      device.No,
		},
		{
			Title:        "Bravo Net 5",
			Brand:        "Bravo",
			Manufacturer: device.Manufacturer{Name: "Gemtek", Model: "WX-1500"},
			Model:        device.Model{Model: "Net 5"},
			Serial:       device.Port{BaudRate: 57600},
			HasJTAG:      device.No,
		},
	}
}

func TestCountValues(t *testing.T) {
	devices := testDevices()

	tests := []struct {
		selector string
		want     []ValueCount
	}{
		{
			selector: "baudrate_serial",
			want:     []ValueCount{{Value: "115200", Count: 2}, {Value: "57600", Count: 1}},
		},
		{
			selector: "jtag",
			want:     []ValueCount{{Value: "no", Count: 2}, {Value: "yes", Count: 1}},
		},
		{
			selector: "odm",
			want:     []ValueCount{{Value: "Gemtek", Count: 3}},
		},
		{
			selector: "odm_country",
			want: []ValueCount{
				{Value: "Taiwan", Count: 2},
				{Value: device.UnknownManufacturer, Count: 1},
			},
		},
		{
			selector: "sdk",
			want:     []ValueCount{{Value: device.UnknownManufacturer, Count: 3}},
		},
		{
			selector: "login",
			want:     []ValueCount{{Value: "admin", Count: 1}, {Value: "root", Count: 1}},
		},
		{
			selector: "bootloader",
			want:     []ValueCount{{Value: "CFE", Count: 1}},
		},
		{
			selector: "fccid",
			want:     []ValueCount{{Value: "ACME-X1", Count: 1}},
		},
		{
			selector: "pcbid",
			want:     []ValueCount{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Equal(t, tt.want, countValues(devices, tt.selector))
		})
	}
}

func TestCollectResults(t *testing.T) {
	ds := compose.New(testDevices(), nil).Compose(nil)
	results := collectResults(ds)

	require.Len(t, results, 3)
	// Sorted by brand, then model, then title.
	assert.Equal(t, "Acme", results[0].Brand)
	assert.Equal(t, "X1", results[0].Model)
	assert.Equal(t, "Bravo", results[1].Brand)
	assert.Equal(t, "Gemtek", results[2].Brand)
}

func TestFindNearest(t *testing.T) {
	devices := testDevices()

	// From the branded device: the ODM's own record and the other
	// rebrand share the same ODM model.
	nearest, err := FindNearest(devices, "Acme Router X1", 10)
	require.NoError(t, err)
	titles := make([]string, 0, len(nearest))
	for _, d := range nearest {
		titles = append(titles, d.Title)
	}
	assert.Equal(t, []string{"Gemtek WX-1500", "Bravo Net 5"}, titles)

	// The limit caps the report.
	nearest, err = FindNearest(devices, "Acme Router X1", 1)
	require.NoError(t, err)
	require.Len(t, nearest, 1)
	assert.Equal(t, "Gemtek WX-1500", nearest[0].Title)
}

func TestFindNearestWithoutODMModel(t *testing.T) {
	nearest, err := FindNearest(testDevices(), "Gemtek WX-1500", 10)
	require.NoError(t, err)
	assert.Nil(t, nearest)
}

func TestFindNearestUnknownTitle(t *testing.T) {
	_, err := FindNearest(testDevices(), "No Such Device", 10)
	require.Error(t, err)
	var serr *errors.StructuredError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, errors.ErrCodeNotFound, serr.Code)
}

func TestRootCommand(t *testing.T) {
	root := Root()
	assert.Equal(t, "devicecode", root.Name)

	names := make([]string, 0, len(root.Commands))
	for _, c := range root.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"search", "dump", "squash", "find-nearest"}, names)
}

func writeRecord(t *testing.T, path string, doc any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestSquashCommandAppliesOverlays(t *testing.T) {
	dir := t.TempDir()

	// One source only, with a record missing its brand and an overlay
	// supplying it. The canonical corpus must carry the corrected brand.
	writeRecord(t, filepath.Join(dir, "TechInfoDepot", "devices", "Acme Router X1.json"),
		map[string]any{"title": "Acme Router X1"})
	writeRecord(t, filepath.Join(dir, "TechInfoDepot", "overlays", "Acme Router X1", "brand.json"),
		map[string]any{
			"type": "overlay",
			"name": "brand",
			"data": map[string]any{"brand": "Acme"},
		})

	err := Root().Run(context.Background(),
		[]string{"devicecode", "squash", "--directory", dir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "squashed", "devices", "Acme Router X1.json"))
	require.NoError(t, err)
	var got device.Device
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Acme", got.Brand)
}

func TestSquashCommandSkipsOverlaysWhenDisabled(t *testing.T) {
	dir := t.TempDir()

	writeRecord(t, filepath.Join(dir, "TechInfoDepot", "devices", "Acme Router X1.json"),
		map[string]any{"title": "Acme Router X1"})
	writeRecord(t, filepath.Join(dir, "TechInfoDepot", "overlays", "Acme Router X1", "brand.json"),
		map[string]any{
			"type": "overlay",
			"name": "brand",
			"data": map[string]any{"brand": "Acme"},
		})

	err := Root().Run(context.Background(),
		[]string{"devicecode", "squash", "--directory", dir, "--no-overlays"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "squashed", "devices", "Acme Router X1.json"))
	require.NoError(t, err)
	var got device.Device
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Empty(t, got.Brand)
}

func TestSquashCommandSingleSource(t *testing.T) {
	dir := t.TempDir()

	// Only WikiDevi is present. The missing TechInfoDepot directory is
	// treated as empty and the lone source still reaches the corpus.
	writeRecord(t, filepath.Join(dir, "WikiDevi", "devices", "Bravo Net 5.json"),
		map[string]any{"title": "Bravo Net 5", "brand": "Bravo"})

	err := Root().Run(context.Background(),
		[]string{"devicecode", "squash", "--directory", dir})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "squashed", "devices", "Bravo Net 5.json"))
	require.NoError(t, err)
	var got device.Device
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Bravo", got.Brand)
}

func TestSquashCommandNoSources(t *testing.T) {
	dir := t.TempDir()

	err := Root().Run(context.Background(),
		[]string{"devicecode", "squash", "--directory", dir})
	require.Error(t, err)
	var serr *errors.StructuredError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, errors.ErrCodeNotFound, serr.Code)
}

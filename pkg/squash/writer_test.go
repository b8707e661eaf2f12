package squash

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwcatalog/devicecode/pkg/device"
)

func TestWriteCorpus(t *testing.T) {
	dir := t.TempDir()
	devices := []*device.Device{
		{Title: "Acme Router X1", Brand: "Acme"},
		{Title: "Acme Router X1/v2", Brand: "Acme"},
		{Title: ""},
	}

	require.NoError(t, WriteCorpus(dir, devices))

	entries, err := os.ReadDir(filepath.Join(dir, DevicesDirName))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"Acme Router X1.json", "Acme Router X1_v2.json"}, names)

	data, err := os.ReadFile(filepath.Join(dir, DevicesDirName, "Acme Router X1.json"))
	require.NoError(t, err)
	var d device.Device
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Equal(t, "Acme", d.Brand)
}

package squash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwcatalog/devicecode/pkg/device"
)

func tidDevice(title string) *device.Device {
	return &device.Device{Title: title, Brand: "Acme"}
}

func TestSquashMutualPrecedence(t *testing.T) {
	lead := tidDevice("X")
	lead.Web.Wikidevi = "Y"
	other := tidDevice("Y")
	other.Web.Techinfodepot = "X"

	res := New().Squash([]*device.Device{lead}, []*device.Device{other})

	require.Len(t, res.Devices, 1)
	assert.Equal(t, "X", res.Devices[0].Title)
	assert.Equal(t, 1, res.States[StateMutual])
	assert.Equal(t, 0, res.Orphans)
}

func TestSquashIsolation(t *testing.T) {
	lead := tidDevice("Alone")

	res := New().Squash([]*device.Device{lead}, nil)

	require.Len(t, res.Devices, 1)
	assert.Same(t, lead, res.Devices[0])
	assert.Equal(t, 1, res.States[StateIsolated])
}

func TestSquashForwardOnly(t *testing.T) {
	lead := tidDevice("X")
	lead.Web.Wikidevi = "Y"
	target := tidDevice("Y") // no back link

	res := New().Squash([]*device.Device{lead}, []*device.Device{target})

	require.Len(t, res.Devices, 1)
	assert.Equal(t, "X", res.Devices[0].Title)
	assert.Equal(t, 1, res.States[StateForwardOnly])
}

func TestSquashDanglingLinkKeepsOthers(t *testing.T) {
	lead := tidDevice("X")
	lead.Web.Wikidevi = "Nowhere"
	unrelated := tidDevice("Z")

	res := New().Squash([]*device.Device{lead}, []*device.Device{unrelated})

	require.Len(t, res.Devices, 2)
	assert.Equal(t, 1, res.States[StateForwardOnly])
	assert.Equal(t, 1, res.Orphans)
}

func TestSquashNonMatchingMutualIsFlagged(t *testing.T) {
	lead := tidDevice("X")
	lead.Web.Wikidevi = "Y"
	target := tidDevice("Y")
	target.Web.Techinfodepot = "Somewhere Else"

	res := New().Squash([]*device.Device{lead}, []*device.Device{target})

	require.Len(t, res.Devices, 2)
	assert.Equal(t, 1, res.States[StateNonMatchingMutual])
	assert.Contains(t, res.Devices[0].Taglines, AmbiguousLinkTagline)
	// The flagged copy never leaks into the input.
	assert.Empty(t, lead.Taglines)
	// The disputed target stays in the corpus.
	assert.Equal(t, 1, res.Orphans)
}

func TestSquashReverseOnlySubsumes(t *testing.T) {
	lead := tidDevice("X")
	other := tidDevice("Y")
	other.Web.Techinfodepot = "X"

	res := New().Squash([]*device.Device{lead}, []*device.Device{other})

	require.Len(t, res.Devices, 1)
	assert.Equal(t, "X", res.Devices[0].Title)
	assert.Equal(t, 1, res.States[StateReverseOnly])
}

func TestSquashReverseOnlyByDataURL(t *testing.T) {
	lead := tidDevice("Acme Router X1")
	other := tidDevice("Acme Router X1 (WD)")
	other.Web.Techinfodepot = "Acme_Router_X1"

	res := New().Squash([]*device.Device{lead}, []*device.Device{other})

	require.Len(t, res.Devices, 1)
	assert.Equal(t, "Acme Router X1", res.Devices[0].Title)
	assert.Equal(t, 1, res.States[StateReverseOnly])
	assert.Equal(t, 0, res.Orphans)
}

func TestSquashReverseOnlyFirstDeclarationWins(t *testing.T) {
	lead := tidDevice("X")
	first := tidDevice("Y")
	first.Web.Techinfodepot = "X"
	second := tidDevice("Z")
	second.Web.Techinfodepot = "X"

	res := New().Squash([]*device.Device{lead}, []*device.Device{first, second})

	// Only the first declarer is subsumed; the second stays an orphan.
	require.Len(t, res.Devices, 2)
	assert.Equal(t, "X", res.Devices[0].Title)
	assert.Equal(t, "Z", res.Devices[1].Title)
	assert.Equal(t, 1, res.States[StateReverseOnly])
	assert.Equal(t, 1, res.Orphans)
}

func TestSquashMutualLinkByDataURL(t *testing.T) {
	lead := tidDevice("Acme Router X1")
	lead.Web.Wikidevi = "Acme_Router_X1_(WD)"
	other := tidDevice("Acme Router X1 (WD)")
	other.Web.DataURL = "Acme_Router_X1_(WD)"
	other.Web.Techinfodepot = "Acme_Router_X1"

	res := New().Squash([]*device.Device{lead}, []*device.Device{other})

	require.Len(t, res.Devices, 1)
	assert.Equal(t, "Acme Router X1", res.Devices[0].Title)
	assert.Equal(t, 1, res.States[StateMutual])
}

func TestSquashOrphanEmitted(t *testing.T) {
	other := tidDevice("Only In WikiDevi")

	res := New().Squash(nil, []*device.Device{other})

	require.Len(t, res.Devices, 1)
	assert.Same(t, other, res.Devices[0])
	assert.Equal(t, 1, res.Orphans)
}

func TestMergeSameTitle(t *testing.T) {
	lead := tidDevice("Shared")
	lead.DeviceTypes = []string{"router"}
	lead.Flags = []string{"voip"}
	lead.HasJTAG = device.Unknown
	lead.HasSerialPort = device.Yes
	lead.Serial = device.Port{Connector: "JST", Populated: device.Unknown}

	twin := tidDevice("Shared")
	twin.DeviceTypes = []string{"access point", "router"}
	twin.HasJTAG = device.Yes
	twin.HasSerialPort = device.No
	twin.Serial = device.Port{BaudRate: 115200, Connector: "JST", Populated: device.Yes}

	res := New().Squash([]*device.Device{lead}, []*device.Device{twin})

	require.Len(t, res.Devices, 1)
	merged := res.Devices[0]

	assert.Equal(t, 1, res.States[StateIsolated])
	assert.Equal(t, []string{"access point", "router"}, merged.DeviceTypes)
	assert.Equal(t, []string{"voip"}, merged.Flags)

	// Unknown filled from the other source, known value kept.
	assert.Equal(t, device.Yes, merged.HasJTAG)
	assert.Equal(t, device.Yes, merged.HasSerialPort)

	// Port fields zero-filled without conflict.
	assert.Equal(t, 115200, merged.Serial.BaudRate)
	assert.Equal(t, "JST", merged.Serial.Connector)
	assert.Equal(t, device.Yes, merged.Serial.Populated)
}

func TestMergePortConflictKeepsLeading(t *testing.T) {
	r := New()
	lead := device.Port{BaudRate: 115200, Connector: "JST"}
	twin := device.Port{BaudRate: 57600, Connector: "header"}

	merged := r.mergePort("t", "serial", lead, twin)
	assert.Equal(t, lead, merged)
}

func TestMergeVersion(t *testing.T) {
	r := New()

	tests := []struct {
		name string
		lead string
		twin string
		want string
	}{
		{"fill empty", "", "1.0.17", "1.0.17"},
		{"keep when twin empty", "2.6", "", "2.6"},
		{"identical", "1.0", "1.0", "1.0"},
		{"same version different notation", "1.0", "v1.0.0", "1.0"},
		{"conflict keeps leading", "1.0", "2.0", "1.0"},
		{"unparseable keeps leading", "CFE 1.0", "PMON", "CFE 1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.mergeVersion("t", "bootloader", tt.lead, tt.twin)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSafeTitle(t *testing.T) {
	assert.Equal(t, "Acme Router_X1", SafeTitle("Acme Router/X1"))
	assert.Equal(t, "plain", SafeTitle("plain"))
}

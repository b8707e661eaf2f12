package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwcatalog/devicecode/pkg/compose"
	"github.com/hwcatalog/devicecode/pkg/device"
)

func testDataset() *compose.Dataset {
	devices := []*device.Device{
		{
			Title:        "Acme Router X1",
			Brand:        "Acme",
			Manufacturer: device.Manufacturer{Name: "Gemtek"},
			DeviceTypes:  []string{"router"},
			CPUs: []device.Chip{
				{Manufacturer: "Broadcom", Model: "BCM6358", ChipType: "SoC"},
			},
			Software: device.Software{
				Bootloader: device.Bootloader{Manufacturer: "CFE"},
				SDK:        device.SDK{Name: "Broadcom SDK"},
			},
			Serial:   device.Port{BaudRate: 115200, Connector: "JST"},
			Defaults: device.Defaults{IP: "192.168.1.1", Password: "admin"},
			Regulatory: device.Regulatory{
				FCCIDs: []device.FCCEntry{{ID: "ACME-X1", Type: "main"}},
				CVE:    []string{"CVE-2014-1234"},
			},
		},
	}
	return compose.New(devices, nil).Compose(nil)
}

func TestValidateAcceptsKnownValues(t *testing.T) {
	v := NewValidator(testDataset())

	queries := []string{
		"brand=acme",
		"ignore_brand=acme",
		"odm=gemtek",
		"chip=bcm6358",
		"chip_type=soc",
		"chip_vendor=broadcom",
		"connector=jst",
		"baud=115200",
		"bootloader=cfe",
		"sdk=\"broadcom sdk\"",
		"ip=192.168.1.1",
		"password=admin",
		"fccid=acme-x1",
		"cveid=cve-2014-1234",
		"cve=yes",
		"cpe=no",
		"fcc=invalid",
		"jtag=unknown",
		"serial?populated=yes",
		"origin=wikidevi",
		"ignore_origin=openwrt",
		"year=2012",
		"year=2011:2013",
		"overlays=off",
		"type=anything",
		"os=anything",
		"flag=anything",
		"program=anything",
		"brand=acme odm=gemtek",
	}

	for _, q := range queries {
		assert.NoError(t, v.Validate(q), "query %q", q)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"empty", "", "Empty string"},
		{"blank", "   ", "Empty string"},
		{"unterminated quote", `brand="acme`, "Incomplete"},
		{"bare word", "router", "Invalid name"},
		{"unknown token", "color=red", "Invalid name"},
		{"unknown brand", "brand=nosuch", "Invalid brand"},
		{"unknown odm", "odm=nosuch", "Invalid ODM"},
		{"unknown chip", "chip=z80", "Invalid chip"},
		{"unknown chip type", "chip_type=nosuch", "Invalid chip type"},
		{"unknown chip vendor", "chip_vendor=nosuch", "Invalid chip vendor"},
		{"unknown connector", "connector=nosuch", "Invalid connector"},
		{"nonnumeric baud", "baud=fast", "Invalid baud rate"},
		{"unseen baud", "baud=300", "Invalid baud rate"},
		{"unknown bootloader", "bootloader=nosuch", "Invalid bootloader"},
		{"unknown sdk", "sdk=nosuch", "Invalid SDK"},
		{"unknown ip", "ip=10.0.0.1", "Invalid IP"},
		{"unknown password", "password=nosuch", "Invalid password"},
		{"unknown fccid", "fccid=nosuch", "Invalid FCC"},
		{"unknown cveid", "cveid=nosuch", "Invalid CVE id"},
		{"bad cve vocab", "cve=maybe", "Invalid CVE information"},
		{"bad cpe vocab", "cpe=maybe", "Invalid CPE information"},
		{"bad fcc vocab", "fcc=maybe", "Invalid FCC information"},
		{"bad jtag vocab", "jtag=probably", "Invalid JTAG/serial port information"},
		{"bad serial vocab", "serial=probably", "Invalid JTAG/serial port information"},
		{"bad origin", "origin=somewiki", "Invalid origin"},
		{"year too old", "year=1812", "Invalid year"},
		{"year too new", "year=2112", "Invalid year"},
		{"year not a number", "year=someday", "Invalid year"},
		{"range endpoint out of bounds", "year=2011:2112", "Invalid year"},
		{"bad overlay flag", "overlays=on", "Invalid overlay flag"},
		{"second token invalid", "brand=acme odm=nosuch", "Invalid ODM"},
	}

	v := NewValidator(testDataset())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.query)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidateWithoutDataset(t *testing.T) {
	v := NewValidator(nil)

	// Facet membership checks are skipped, vocabulary checks are not.
	assert.NoError(t, v.Validate("brand=anything"))
	assert.ErrorContains(t, v.Validate("jtag=probably"), "Invalid JTAG/serial port information")
}

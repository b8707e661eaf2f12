package serializer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"devices.json", FormatJSON},
		{"devices.JSON", FormatJSON},
		{"config.yaml", FormatYAML},
		{"config.yml", FormatYAML},
		{"report.table", FormatTable},
		{"report.txt", FormatTable},
		{"devices.bin", FormatJSON},
	}

	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestReader_DeserializeJSON(t *testing.T) {
	reader, err := NewReader(FormatJSON, strings.NewReader(`{"title":"Acme Router X1","count":3}`))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var result testRecord
	if err := reader.Deserialize(&result); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if result.Title != "Acme Router X1" || result.Count != 3 {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestReader_DeserializeYAML(t *testing.T) {
	reader, err := NewReader(FormatYAML, strings.NewReader("title: Acme Router X1\ncount: 3\n"))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	var result testRecord
	if err := reader.Deserialize(&result); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if result.Title != "Acme Router X1" {
		t.Errorf("Unexpected data: %+v", result)
	}
}

func TestReader_TableRejected(t *testing.T) {
	if _, err := NewReader(FormatTable, strings.NewReader("")); err == nil {
		t.Error("Expected error for table format")
	}
	if _, err := NewReader(Format("xml"), strings.NewReader("")); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	if err := os.WriteFile(path, []byte(`{"title":"t","count":1}`), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	result, err := FromFile[testRecord](path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if result.Title != "t" || result.Count != 1 {
		t.Errorf("Unexpected data: %+v", result)
	}

	if _, err := FromFile[testRecord](filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestTokenName(t *testing.T) {
	s := NewSuggester(testDataset())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"name completion", "boo", "bootloader"},
		{"first match wins", "chip", "chip"},
		{"prefix of ignore tokens", "ignore_or", "ignore_origin"},
		{"rightmost token only", "brand=acme ye", "brand=acme year"},
		{"case insensitive name", "BRA", "BRAnd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Suggest(tt.input)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestValue(t *testing.T) {
	s := NewSuggester(testDataset())

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"facet value", "brand=ac", "brand=acme"},
		{"fixed vocabulary", "jtag=unk", "jtag=unknown"},
		{"fcc vocabulary", "fcc=inv", "fcc=invalid"},
		{"overlay vocabulary", "overlays=", "overlays=off"},
		{"token arguments ignored", "serial?populated=y", "serial?populated=yes"},
		{"rightmost token only", "type=router odm=gem", "type=router odm=gemtek"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Suggest(tt.input)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestNoCompletion(t *testing.T) {
	s := NewSuggester(testDataset())

	for _, input := range []string{"zzz", "brand=zzz", "color=r"} {
		got, ok := s.Suggest(input)
		assert.False(t, ok, "input %q", input)
		assert.Empty(t, got)
	}
}

func TestSuggestWithoutDataset(t *testing.T) {
	s := NewSuggester(nil)

	// Names and fixed vocabularies still complete.
	got, ok := s.Suggest("bra")
	assert.True(t, ok)
	assert.Equal(t, "brand", got)

	got, ok = s.Suggest("cve=y")
	assert.True(t, ok)
	assert.Equal(t, "cve=yes", got)

	// Facet value completion needs a dataset.
	_, ok = s.Suggest("brand=a")
	assert.False(t, ok)
}

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

package version

import (
	"testing"
)

// FuzzParseVersion hammers ParseVersion with vendor-flavored version
// strings. The seeds mirror what actually shows up in firmware and
// bootloader fields scraped from the wikis.
func FuzzParseVersion(f *testing.F) {
	seeds := []string{
		// Firmware revisions as vendors publish them.
		"1.0.17",
		"v1.0.17",
		"1.0.17-beta.2",
		"3.0.0.4-RT-AC66U",
		"2.6.36",
		"1.0.4.0",
		"7.10+build1",
		// Bootloader strings; the leading word makes these unparseable.
		"CFE 1.0",
		"PMON 2000",
		"U-Boot 1.1.4",
		"RedBoot",
		// Sparse and degenerate inputs.
		"1",
		"v2",
		"18.06",
		"0.0.0",
		"",
		"v",
		".",
		"1..0",
		"1.0.",
		"-1.0",
		"1.-2",
		" 1.0.17",
		"1.0 .17",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	pivot := MustParseVersion("1.0.17")

	f.Fuzz(func(t *testing.T, input string) {
		v, err := ParseVersion(input)
		if err != nil {
			return
		}

		if !v.IsValid() {
			t.Fatalf("ParseVersion(%q) accepted an invalid version: %+v", input, v)
		}
		if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
			t.Fatalf("ParseVersion(%q) produced a negative component: %+v", input, v)
		}

		// String drops Extras, so the numeric components and precision
		// must survive a re-parse unchanged.
		rendered := v.String()
		again, err := ParseVersion(rendered)
		if err != nil {
			t.Fatalf("re-parsing %q (rendered from %q) failed: %v", rendered, input, err)
		}
		if again.Major != v.Major || again.Minor != v.Minor || again.Patch != v.Patch || again.Precision != v.Precision {
			t.Fatalf("round trip changed %q: %+v vs %+v", input, v, again)
		}

		// Comparisons against a fixed version must hold no matter what
		// the fuzzer parsed.
		cmp := v.Compare(pivot)
		if cmp > 0 && !v.EqualsOrNewer(pivot) {
			t.Fatalf("Compare and EqualsOrNewer disagree for %q vs %s", input, pivot)
		}
		if !v.Equals(v) {
			t.Fatalf("%q is not equal to itself", input)
		}
		if v.IsNewer(v) {
			t.Fatalf("%q reports newer than itself", input)
		}
	})
}

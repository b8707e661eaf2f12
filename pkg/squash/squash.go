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

// Package squash reconciles device records from two independently curated
// sources into one canonical record per physical device.
//
// Records declare cross-source links by title (web.techinfodepot /
// web.wikidevi). The reconciler builds a bidirectional link index and
// classifies every leading-source record into one of five relationship
// states relative to the other source. Source precedence is fixed: the
// leading source always wins on conflict, and there is no field-level
// merge between mutually linked records. The only field-level merge
// happens for same-title pairs with no links at all, where the sources
// clearly describe the same page.
package squash

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/hwcatalog/devicecode/pkg/device"
	"github.com/hwcatalog/devicecode/pkg/version"
)

// State classifies the relationship of a leading-source record to the
// other source.
type State string

const (
	// StateIsolated means no link in either direction.
	StateIsolated State = "isolated"
	// StateForwardOnly means the leading record links out but nothing
	// links back.
	StateForwardOnly State = "forward_only"
	// StateMutual means both records link to each other.
	StateMutual State = "mutual"
	// StateNonMatchingMutual means the linked record's reciprocal link
	// points at a third title.
	StateNonMatchingMutual State = "non_matching_mutual"
	// StateReverseOnly means only the other source links in.
	StateReverseOnly State = "reverse_only"
)

// AmbiguousLinkTagline marks canonical records whose cross-source link
// was reciprocated by a link to a different title. Such pairs are
// emitted, flagged, rather than silently dropped.
const AmbiguousLinkTagline = "devicecode:ambiguous-cross-source-link"

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Devices holds the canonical records, leading source first,
	// then the other source's orphans.
	Devices []*device.Device

	// States counts leading-source records per relationship state.
	States map[State]int

	// Orphans counts other-source records emitted without a match.
	Orphans int
}

// Reconciler merges two sources. Leading and Other name the sources for
// logging; the leading source always provides the canonical record when
// both describe the same device.
type Reconciler struct {
	Leading string
	Other   string

	// Debug enables per-conflict logging during same-title merges.
	Debug bool
}

// New returns a Reconciler with the conventional source precedence:
// TechInfoDepot leads, WikiDevi follows.
func New() *Reconciler {
	return &Reconciler{Leading: "TechInfoDepot", Other: "WikiDevi"}
}

// outLink returns a record's declared link into the other source,
// honoring which source is leading.
func (r *Reconciler) outLink(d *device.Device) string {
	if strings.EqualFold(r.Leading, "WikiDevi") {
		return d.Web.Techinfodepot
	}
	return d.Web.Wikidevi
}

// backLink returns an other-source record's declared link into the
// leading source.
func (r *Reconciler) backLink(d *device.Device) string {
	if strings.EqualFold(r.Leading, "WikiDevi") {
		return d.Web.Wikidevi
	}
	return d.Web.Techinfodepot
}

// Squash computes the canonical corpus from the two sources' overlaid
// records. Inputs are not mutated; merged records are built on clones.
func (r *Reconciler) Squash(leading, other []*device.Device) *Result {
	res := &Result{States: make(map[State]int)}

	// Link index for the non-leading source: title and data URL lookups
	// plus a reverse index from each declared back-link target to the
	// record declaring it. First declaration wins.
	otherByTitle := make(map[string]*device.Device, len(other))
	otherByDataURL := make(map[string]*device.Device, len(other))
	backTargets := make(map[string]*device.Device)
	for _, d := range other {
		if d.Title == "" {
			continue
		}
		otherByTitle[d.Title] = d
		otherByDataURL[d.DataURL()] = d
		if bl := r.backLink(d); bl != "" {
			if _, ok := backTargets[bl]; !ok {
				backTargets[bl] = d
			}
		}
	}

	processed := make(map[string]bool)

	for _, lead := range leading {
		if lead.Title == "" {
			continue
		}

		out := r.outLink(lead)
		if out == "" {
			target := backTargets[lead.Title]
			if target == nil {
				target = backTargets[lead.DataURL()]
			}
			if target != nil {
				// Reverse-only: the other record declared itself the
				// same device, so it is subsumed by the leading record.
				res.States[StateReverseOnly]++
				processed[target.Title] = true
				res.Devices = append(res.Devices, lead)
				continue
			}

			if twin, ok := otherByTitle[lead.Title]; ok {
				// Same title in both sources with no links: the pages
				// mirror each other, merge field by field.
				res.States[StateIsolated]++
				processed[twin.Title] = true
				res.Devices = append(res.Devices, r.mergeSame(lead, twin))
				continue
			}

			res.States[StateIsolated]++
			res.Devices = append(res.Devices, lead)
			continue
		}

		// Resolve the link target by title first, then by data URL.
		target := otherByTitle[out]
		if target == nil {
			target = otherByDataURL[out]
		}
		if target == nil {
			// Dangling link; nothing to subsume.
			res.States[StateForwardOnly]++
			res.Devices = append(res.Devices, lead)
			continue
		}

		back := r.backLink(target)
		switch {
		case back == "":
			res.States[StateForwardOnly]++
			processed[target.Title] = true
			res.Devices = append(res.Devices, lead)
		case back == lead.Title || back == lead.DataURL():
			res.States[StateMutual]++
			processed[target.Title] = true
			res.Devices = append(res.Devices, lead)
		default:
			// The reciprocal link points at a third title. Emit the
			// leading record flagged as ambiguous and leave the target
			// alone: it may legitimately belong to that third device.
			res.States[StateNonMatchingMutual]++
			flagged := lead.Clone()
			flagged.Taglines = append(flagged.Taglines, AmbiguousLinkTagline)
			res.Devices = append(res.Devices, flagged)
		}
	}

	// Other-source records nothing claimed are orphans, canonical as-is.
	for _, d := range other {
		if d.Title == "" || processed[d.Title] {
			continue
		}
		res.Orphans++
		res.Devices = append(res.Devices, d)
	}

	observeSquash(res)
	return res
}

// mergeSame merges two records with the same title, one from each
// source. The leading record wins every conflict; the other record only
// fills in unknowns and extends the set-valued fields.
func (r *Reconciler) mergeSame(lead, twin *device.Device) *device.Device {
	out := lead.Clone()

	out.DeviceTypes = unionSorted(lead.DeviceTypes, twin.DeviceTypes)
	out.Flags = unionSorted(lead.Flags, twin.Flags)
	out.Taglines = unionSorted(lead.Taglines, twin.Taglines)

	if out.HasJTAG == device.Unknown && twin.HasJTAG != "" {
		out.HasJTAG = twin.HasJTAG
	} else if r.conflicting(out.HasJTAG, twin.HasJTAG) {
		r.logConflict(lead.Title, "has_jtag", string(out.HasJTAG), string(twin.HasJTAG))
	}

	if out.HasSerialPort == device.Unknown && twin.HasSerialPort != "" {
		out.HasSerialPort = twin.HasSerialPort
	} else if r.conflicting(out.HasSerialPort, twin.HasSerialPort) {
		r.logConflict(lead.Title, "has_serial_port", string(out.HasSerialPort), string(twin.HasSerialPort))
	}

	out.JTAG = r.mergePort(lead.Title, "jtag", lead.JTAG, twin.JTAG)
	out.Serial = r.mergePort(lead.Title, "serial", lead.Serial, twin.Serial)

	if out.Software.Bootloader.Manufacturer == "" {
		out.Software.Bootloader.Manufacturer = twin.Software.Bootloader.Manufacturer
	}
	out.Software.Bootloader.Version = r.mergeVersion(lead.Title, "bootloader",
		lead.Software.Bootloader.Version, twin.Software.Bootloader.Version)
	if out.Software.SDK.Name == "" {
		out.Software.SDK.Name = twin.Software.SDK.Name
	}
	out.Software.SDK.Version = r.mergeVersion(lead.Title, "sdk",
		lead.Software.SDK.Version, twin.Software.SDK.Version)

	if lead.Brand != twin.Brand && r.Debug {
		r.logConflict(lead.Title, "brand", lead.Brand, twin.Brand)
	}

	return out
}

// mergePort fills each unknown port field from the other source. Any
// genuine conflict leaves the leading port unchanged.
func (r *Reconciler) mergePort(title, field string, lead, twin device.Port) device.Port {
	if lead == twin {
		return lead
	}

	merged := lead
	conflict := false

	if lead.BaudRate == 0 || twin.BaudRate == 0 {
		merged.BaudRate = max(lead.BaudRate, twin.BaudRate)
	} else if lead.BaudRate != twin.BaudRate {
		conflict = true
	}

	if lead.Connector == "" {
		merged.Connector = twin.Connector
	} else if twin.Connector != "" && lead.Connector != twin.Connector {
		conflict = true
	}

	if lead.NumberOfPins == 0 || twin.NumberOfPins == 0 {
		merged.NumberOfPins = max(lead.NumberOfPins, twin.NumberOfPins)
	} else if lead.NumberOfPins != twin.NumberOfPins {
		conflict = true
	}

	if lead.Populated != twin.Populated {
		if lead.Populated == device.Unknown {
			merged.Populated = twin.Populated
		} else if twin.Populated != device.Unknown && twin.Populated != "" {
			conflict = true
		}
	}

	if lead.Voltage != twin.Voltage {
		if lead.Voltage == 0 {
			merged.Voltage = twin.Voltage
		} else if twin.Voltage != 0 {
			conflict = true
		}
	}

	if conflict {
		mergeConflictsTotal.WithLabelValues(field).Inc()
		if r.Debug {
			slog.Warn("port merge conflict, keeping leading record",
				"title", title, "field", field)
		}
		return lead
	}
	return merged
}

// mergeVersion fills an empty version field from the other source.
// Version strings that parse to the same version (such as "1.0" and
// "v1.0.0") are not conflicts; anything else keeps the leading value.
func (r *Reconciler) mergeVersion(title, field, lead, twin string) string {
	if lead == "" {
		return twin
	}
	if twin == "" || lead == twin {
		return lead
	}

	lv, errLead := version.ParseVersion(lead)
	tv, errTwin := version.ParseVersion(twin)
	if errLead == nil && errTwin == nil && lv.Equals(tv) {
		return lead
	}

	mergeConflictsTotal.WithLabelValues(field).Inc()
	r.logConflict(title, field+"_version", lead, twin)
	return lead
}

func (r *Reconciler) conflicting(a, b device.TriState) bool {
	return a != b && a != device.Unknown && b != device.Unknown && a != "" && b != ""
}

func (r *Reconciler) logConflict(title, field, one, two string) {
	if !r.Debug {
		return
	}
	slog.Warn("source conflict, keeping leading record",
		"title", title, "field", field, "leading", one, "other", two)
}

// unionSorted returns the sorted union of two string sets.
func unionSorted(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}

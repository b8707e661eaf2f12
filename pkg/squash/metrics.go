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

package squash

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Reconciliation metrics
	squashStateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devicecode_squash_state_total",
			Help: "Leading-source records per relationship state",
		},
		[]string{"state"}, // isolated, forward_only, mutual, non_matching_mutual, reverse_only
	)

	squashOrphansTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "devicecode_squash_orphans_total",
			Help: "Other-source records emitted without a cross-source match",
		},
	)

	squashDevicesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "devicecode_squash_devices_total",
			Help: "Canonical records produced by reconciliation",
		},
	)

	mergeConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devicecode_squash_merge_conflicts_total",
			Help: "Field conflicts during same-title merges",
		},
		[]string{"field"}, // jtag, serial, bootloader, sdk
	)
)

func observeSquash(res *Result) {
	for state, n := range res.States {
		squashStateTotal.WithLabelValues(string(state)).Add(float64(n))
	}
	squashOrphansTotal.Add(float64(res.Orphans))
	squashDevicesTotal.Add(float64(len(res.Devices)))
}

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

package compose

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Composition metrics
	composeTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "devicecode_compose_total",
			Help: "Total number of dataset compositions",
		},
	)

	composeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "devicecode_compose_duration_seconds",
			Help:    "Time taken to compose a dataset",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	composeRetained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "devicecode_compose_retained_devices",
			Help: "Number of records retained by the last composition",
		},
	)
)

// Copyright 2022 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics defines the Prometheus collectors recorded by the sync
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsNamespace is the namespace all collectors are registered under.
const MetricsNamespace = "k8sync"

// Prometheus metrics
var (
	APICallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Help:      "Distribution of durations of API server calls",
			Namespace: MetricsNamespace,
			Subsystem: "syncer",
			Name:      "api_duration_seconds",
			Buckets:   []float64{.001, .01, .1, 1},
		},
		// operation: create, patch, delete, read
		// type: resource kind
		// status: success, error
		[]string{"operation", "type", "status"},
	)
	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Total operations that have been performed to sync resources to source of truth",
			Namespace: MetricsNamespace,
			Subsystem: "syncer",
			Name:      "operations_total",
		},
		// operation: create, patch, delete
		// type: resource kind
		// status: success, error
		[]string{"operation", "type", "status"},
	)
	SyncDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Help:      "Distribution of whole-batch sync durations",
			Namespace: MetricsNamespace,
			Subsystem: "syncer",
			Name:      "sync_duration_seconds",
			Buckets:   []float64{.01, .1, 1, 10, 100},
		},
		// status: success, error
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		APICallDuration,
		Operations,
		SyncDuration,
	)
}

// StatusLabel returns a string representation of the given error appropriate for the status label
// of a Prometheus metric.
func StatusLabel(err error) string {
	if err == nil {
		return "success"
	}
	return "error"
}

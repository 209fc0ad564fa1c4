/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelVersion  = "version"
	LabelPlatform = "platform"
	LabelEngine   = "engine"
	LabelStrategy = "strategy"
	LabelUnit     = "unit"
	LabelReason   = "reason"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A metric with a constant value '1', labeled by binary version and platform",
	}, []string{LabelVersion, LabelPlatform})
)

// Router metrics
var (
	// RoutedEventsCount is used to indicate the number of events handed to a processing unit
	RoutedEventsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "router",
		Name:      "routed_total",
		Help:      "Total number of events routed to a processing unit",
	}, []string{LabelUnit})

	// FilteredEventsCount is used to indicate the number of events dropped by the filter expression
	FilteredEventsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "router",
		Name:      "filtered_total",
		Help:      "Total number of events dropped by the filter",
	}, []string{LabelUnit})

	// UnitQueueSize is the number of events waiting in front of a processing unit
	UnitQueueSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Subsystem: "router",
		Name:      "queue_size",
		Help:      "Number of events waiting in front of a processing unit",
	}, []string{LabelUnit})
)

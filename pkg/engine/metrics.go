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

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GaaraJWH/jstorm/pkg/metrics"
)

const (
	reasonTrigger   = "trigger"
	reasonRetire    = "retire"
	reasonRetention = "retention"
	reasonClose     = "close"
)

// eventsCount is used to indicate the number of events submitted to the engine
var eventsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "window_engine",
	Name:      "events_total",
	Help:      "Total number of events submitted",
}, []string{metrics.LabelEngine})

// foldErrorsCount is used to indicate the number of failed folds
var foldErrorsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "window_engine",
	Name:      "fold_error_total",
	Help:      "Total number of fold errors",
}, []string{metrics.LabelEngine})

// firesCount is used to indicate the number of fired windows
var firesCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "window_engine",
	Name:      "fire_total",
	Help:      "Total number of window fires",
}, []string{metrics.LabelEngine, metrics.LabelReason})

// purgesCount is used to indicate the number of purged windows
var purgesCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "window_engine",
	Name:      "purge_total",
	Help:      "Total number of window purges",
}, []string{metrics.LabelEngine, metrics.LabelReason})

// emissionErrorsCount is used to indicate the number of failed emissions
var emissionErrorsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "window_engine",
	Name:      "emission_error_total",
	Help:      "Total number of emission errors",
}, []string{metrics.LabelEngine})

// activeWindows is the number of live windows
var activeWindows = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "window_engine",
	Name:      "active_windows",
	Help:      "Number of live windows",
}, []string{metrics.LabelEngine, metrics.LabelStrategy})

// accumulatorsCount is the number of accumulators across all live windows
var accumulatorsCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Subsystem: "window_engine",
	Name:      "accumulators",
	Help:      "Number of accumulators across all live windows",
}, []string{metrics.LabelEngine})

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

// Package clock supplies the notion of current time used by the window engine, either processing time (wall clock)
// or event time (the largest event timestamp observed so far), together with the timer service triggers use to
// schedule one-shot callbacks on a window.
package clock

import (
	"time"

	"k8s.io/utils/clock"
)

// Clock returns a monotonically non-decreasing current time.
type Clock interface {
	Now() time.Time
}

// Observer is implemented by clocks which advance with the events handed to the engine.
type Observer interface {
	Observe(eventTime time.Time)
}

// ProcessingTime is a Clock backed by a wall clock. The returned time never goes backwards even if the wall clock
// does.
type ProcessingTime struct {
	clock clock.PassiveClock
	last  time.Time
}

var _ Clock = (*ProcessingTime)(nil)

// NewProcessingTime returns a processing time clock. A nil clock uses the real wall clock.
func NewProcessingTime(c clock.PassiveClock) *ProcessingTime {
	if c == nil {
		c = clock.RealClock{}
	}
	return &ProcessingTime{clock: c}
}

func (p *ProcessingTime) Now() time.Time {
	now := p.clock.Now()
	if now.Before(p.last) {
		return p.last
	}
	p.last = now
	return now
}

// EventTime is a Clock driven by the event timestamps. Now returns the largest timestamp observed so far minus the
// allowed out-of-orderness, so the clock only advances when newer events arrive.
type EventTime struct {
	maxOutOfOrder time.Duration
	max           time.Time
}

var (
	_ Clock    = (*EventTime)(nil)
	_ Observer = (*EventTime)(nil)
)

// NewEventTime returns an event time clock starting at the given time.
func NewEventTime(start time.Time, maxOutOfOrder time.Duration) *EventTime {
	return &EventTime{
		maxOutOfOrder: maxOutOfOrder,
		max:           start,
	}
}

// Observe advances the clock if the event time is newer than anything observed so far.
func (e *EventTime) Observe(eventTime time.Time) {
	if eventTime.After(e.max) {
		e.max = eventTime
	}
}

func (e *EventTime) Now() time.Time {
	return e.max.Add(-e.maxOutOfOrder)
}

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

package window

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfiguration is returned when windowing or trigger parameters are rejected. It is only ever returned
// while constructing a component, never while processing events.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// MaxTime is the end time of windows which never close on their own.
var MaxTime = time.Unix(0, math.MaxInt64)

// Event is a single record handed to the engine.
type Event struct {
	// Key is the grouping key set by the upstream partitioner.
	Key string
	// Payload is opaque to the engine, only fold functions look at it.
	Payload any
	// EventTime is the timestamp used for window assignment.
	EventTime time.Time
}

// ID uniquely identifies a window instance. For Fixed and Sliding windows it is the [Start, End) interval, for
// Accumulate windows Slot is the logical identifier and Start the creation time of the window.
type ID struct {
	Start time.Time
	End   time.Time
	Slot  string
}

// String returns a representation which is stable for the lifetime of the window, it is used as the map key for
// window state.
func (id ID) String() string {
	return fmt.Sprintf("%d-%d-%s", id.Start.UnixNano(), id.End.UnixNano(), id.Slot)
}

// Bounded returns true if the window has a finite end time.
func (id ID) Bounded() bool {
	return id.End.Before(MaxTime)
}

// Assigner maps an event time to the set of windows it belongs to. Implementations are pure and deterministic.
type Assigner interface {
	// Strategy returns the window strategy
	Strategy() Strategy
	// AssignWindows assigns the event time to the windows based on the window configuration.
	AssignWindows(eventTime time.Time) []ID
}

// Retirer is implemented by assigners whose window boundaries are produced by the clock rather than by the event
// time (see Accumulate).
type Retirer interface {
	// Retire returns the windows which have been retired at the given time, the assigner has already replaced
	// them when Retire returns.
	Retire(now time.Time) []ID
}

// Strategy represents the windowing strategy
type Strategy int

const (
	Fixed Strategy = iota
	Sliding
	Accumulate
)

func (s Strategy) String() string {
	switch s {
	case Fixed:
		return "Fixed"
	case Sliding:
		return "Sliding"
	case Accumulate:
		return "Accumulate"
	default:
		return "Unknown"
	}
}

// AlignDown returns the largest multiple of d since the Unix epoch which is not after t.
func AlignDown(t time.Time, d time.Duration) time.Time {
	n := t.UnixNano()
	rem := n % int64(d)
	if rem < 0 {
		rem += int64(d)
	}
	return time.Unix(0, n-rem)
}

// FormatRange renders the window bounds in a human-readable form, e.g. [2022-01-01 00:00:00~2022-01-01 00:01:00].
func FormatRange(id ID) string {
	const layout = "2006-01-02 15:04:05"
	end := "∞"
	if id.Bounded() {
		end = id.End.Format(layout)
	}
	return fmt.Sprintf("[%s~%s]", id.Start.Format(layout), end)
}

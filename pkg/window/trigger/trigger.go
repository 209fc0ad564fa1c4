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

// Package trigger implements the policies which decide when the accumulated state of a window is emitted (fire)
// and when it is discarded (purge). Triggers hold no reference to the windows they evaluate, all the per-window
// bookkeeping they need is read from the Context handed to every call.
package trigger

import (
	"time"

	"github.com/GaaraJWH/jstorm/pkg/window"
)

// Context exposes the window metadata to a trigger and lets it schedule timers on the window.
type Context interface {
	// Window returns the window being evaluated.
	Window() window.ID
	// Now returns the current time of the engine clock.
	Now() time.Time
	// CreatedAt returns the time the window became active.
	CreatedAt() time.Time
	// LastActivity returns the time the window received its latest event.
	LastActivity() time.Time
	// ElementCount returns the number of elements received since the window last fired.
	ElementCount() int64
	// TotalCount returns the number of elements received since the window became active.
	TotalCount() int64
	// FireCount returns the number of times the window has fired.
	FireCount() int
	// LastFireTime returns the time of the latest fire, zero if the window has never fired.
	LastFireTime() time.Time
	// RegisterTimer schedules a call of OnTime at the given time, registering the same time twice is a no-op.
	RegisterTimer(t time.Time)
	// DeleteTimer removes a timer scheduled with RegisterTimer.
	DeleteTimer(t time.Time)
}

// Trigger decides what happens to a window on every element and on every due timer.
type Trigger interface {
	// OnElement is called for every element added to the window.
	OnElement(ev *window.Event, ctx Context) Result
	// OnTime is called when a timer registered on the window is due, firingTime is the time of the timer.
	OnTime(firingTime time.Time, ctx Context) Result
	// String returns a short description of the trigger
	String() string
}

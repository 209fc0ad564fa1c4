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

// Package accumulate implements the Accumulate window. Every event is folded into a single ever-growing window,
// irrespective of its event time. The window is reported on a fixed cadence by a periodic trigger and, when a
// retire period is configured, it is retired and replaced by a fresh window once the period has elapsed. The
// boundaries of an Accumulate window are therefore produced by the clock and not by the event time.
package accumulate

import (
	"fmt"
	"time"

	"github.com/GaaraJWH/jstorm/pkg/window"
)

// DefaultSlot is the logical identifier of the accumulate window when none is given.
const DefaultSlot = "slot-0"

// Accumulate implements window.Assigner and window.Retirer for the accumulate window.
type Accumulate struct {
	slot         string
	retirePeriod time.Duration
	current      window.ID
}

var (
	_ window.Assigner = (*Accumulate)(nil)
	_ window.Retirer  = (*Accumulate)(nil)
)

// New creates an accumulate assigner whose first window is created at the given time. A retirePeriod of zero means
// the window is never retired, a negative one is rejected.
func New(slot string, retirePeriod time.Duration, createdAt time.Time) (*Accumulate, error) {
	if retirePeriod < 0 {
		return nil, fmt.Errorf("%w: accumulate retire period must not be negative, got %s", window.ErrInvalidConfiguration, retirePeriod)
	}
	if slot == "" {
		slot = DefaultSlot
	}
	a := &Accumulate{
		slot:         slot,
		retirePeriod: retirePeriod,
	}
	a.current = a.newWindow(createdAt)
	return a, nil
}

func (a *Accumulate) newWindow(createdAt time.Time) window.ID {
	end := window.MaxTime
	if a.retirePeriod > 0 {
		end = createdAt.Add(a.retirePeriod)
	}
	return window.ID{
		Start: createdAt,
		End:   end,
		Slot:  a.slot,
	}
}

func (a *Accumulate) Strategy() window.Strategy {
	return window.Accumulate
}

// AssignWindows returns the current window, the event time is not taken into account.
func (a *Accumulate) AssignWindows(time.Time) []window.ID {
	return []window.ID{a.current}
}

// Current returns the window events are currently assigned to.
func (a *Accumulate) Current() window.ID {
	return a.current
}

// Retire retires the current window once now has reached its end and replaces it with a new one starting at now.
func (a *Accumulate) Retire(now time.Time) []window.ID {
	if a.retirePeriod == 0 || now.Before(a.current.End) {
		return nil
	}
	retired := a.current
	a.current = a.newWindow(now)
	return []window.ID{retired}
}

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

package clock

import (
	"sort"
	"time"
)

// Timers is an ordered set of one-shot timers. Registering the same instant twice keeps a single timer.
type Timers struct {
	times []time.Time
}

// Add registers a timer.
func (t *Timers) Add(at time.Time) {
	i := sort.Search(len(t.times), func(i int) bool {
		return !t.times[i].Before(at)
	})
	if i < len(t.times) && t.times[i].Equal(at) {
		return
	}
	t.times = append(t.times, time.Time{})
	copy(t.times[i+1:], t.times[i:])
	t.times[i] = at
}

// Delete removes a timer, deleting an unknown timer is a no-op.
func (t *Timers) Delete(at time.Time) {
	i := sort.Search(len(t.times), func(i int) bool {
		return !t.times[i].Before(at)
	})
	if i < len(t.times) && t.times[i].Equal(at) {
		t.times = append(t.times[:i], t.times[i+1:]...)
	}
}

// PopDue removes and returns the earliest timer if it is due at now.
func (t *Timers) PopDue(now time.Time) (time.Time, bool) {
	if len(t.times) == 0 || t.times[0].After(now) {
		return time.Time{}, false
	}
	due := t.times[0]
	t.times = t.times[1:]
	return due, true
}

// Next returns the earliest registered timer.
func (t *Timers) Next() (time.Time, bool) {
	if len(t.times) == 0 {
		return time.Time{}, false
	}
	return t.times[0], true
}

// Len returns the number of registered timers.
func (t *Timers) Len() int {
	return len(t.times)
}

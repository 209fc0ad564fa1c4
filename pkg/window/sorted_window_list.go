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
	"sort"
)

// SortedWindowList is a list of windows sorted by window start time from lowest to highest. Windows with the same
// start time are kept in insertion order.
// SortedWindowList is not thread safe, it is owned by a single processing unit.
type SortedWindowList struct {
	windows []ID
}

// NewSortedWindowList implements a window list ordered by the start time. The Front/Head of the list will always have
// the smallest element while the End/Tail will have the largest element (start time).
func NewSortedWindowList() *SortedWindowList {
	return &SortedWindowList{
		windows: make([]ID, 0),
	}
}

// InsertIfNotPresent inserts a window to the list if not present and returns true if the window was already present.
func (s *SortedWindowList) InsertIfNotPresent(id ID) bool {
	index := sort.Search(len(s.windows), func(i int) bool {
		return !s.windows[i].Start.Before(id.Start)
	})

	updatedIndex := len(s.windows)
	for i := index; i < len(s.windows); i++ {
		if s.windows[i].String() == id.String() {
			return true
		}
		if s.windows[i].Start.After(id.Start) {
			updatedIndex = i
			break
		}
	}

	s.windows = append(s.windows, ID{})
	copy(s.windows[updatedIndex+1:], s.windows[updatedIndex:])
	s.windows[updatedIndex] = id
	return false
}

// Delete deletes a window from the list.
func (s *SortedWindowList) Delete(id ID) (deleted bool) {
	index := sort.Search(len(s.windows), func(i int) bool {
		return !s.windows[i].Start.Before(id.Start)
	})

	for i := index; i < len(s.windows); i++ {
		if s.windows[i].String() == id.String() {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return true
		}
		if s.windows[i].Start.After(id.Start) {
			break
		}
	}
	return false
}

// Len returns the length of the list.
func (s *SortedWindowList) Len() int {
	return len(s.windows)
}

// Front returns the smallest element from the list.
func (s *SortedWindowList) Front() (ID, bool) {
	if len(s.windows) == 0 {
		return ID{}, false
	}
	return s.windows[0], true
}

// Items returns a copy of the entire window list.
func (s *SortedWindowList) Items() []ID {
	items := make([]ID, len(s.windows))
	copy(items, s.windows)
	return items
}

// Reset removes every window from the list.
func (s *SortedWindowList) Reset() {
	s.windows = s.windows[:0]
}

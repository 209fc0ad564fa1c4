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

// Package sliding implements Sliding windows. Sliding windows are defined by a static window size
// e.g. minutely windows or hourly windows and a fixed "slide". This is the duration by which the boundaries
// of the windows move once every <slide> duration.
package sliding

import (
	"fmt"
	"time"

	"github.com/GaaraJWH/jstorm/pkg/window"
)

// Sliding implements sliding windows
type Sliding struct {
	// Length is the duration of the window
	Length time.Duration
	// offset between successive windows.
	// successive windows are phased out by this duration.
	Slide time.Duration
}

var _ window.Assigner = (*Sliding)(nil)

// New returns a Sliding assigner. Both length and slide must be positive, and the slide must not exceed the
// length, otherwise events falling in the gap between two windows would be silently dropped.
func New(length time.Duration, slide time.Duration) (*Sliding, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: sliding window length must be positive, got %s", window.ErrInvalidConfiguration, length)
	}
	if slide <= 0 {
		return nil, fmt.Errorf("%w: sliding window slide must be positive, got %s", window.ErrInvalidConfiguration, slide)
	}
	if slide > length {
		return nil, fmt.Errorf("%w: sliding window slide %s is larger than the length %s", window.ErrInvalidConfiguration, slide, length)
	}
	return &Sliding{
		Length: length,
		Slide:  slide,
	}, nil
}

func (s *Sliding) Strategy() window.Strategy {
	return window.Sliding
}

// AssignWindows returns the set of windows that contain the element based on event time, ordered by start time.
func (s *Sliding) AssignWindows(eventTime time.Time) []window.ID {
	// use the highest integer multiple of slide length which is not after the eventTime
	// as the start time for the window. For example if the eventTime is 810 and slide
	// length is 70, use 770 as the startTime of the window. In that way we can be guarantee
	// consistency while assigning the messages to the windows.
	startTime := window.AlignDown(eventTime, s.Slide)
	endTime := startTime.Add(s.Length)

	// startTime and endTime will be the largest timestamp window for the given eventTime,
	// using that we can create other windows by subtracting the slide length.

	// since there is overlap at the boundaries
	// we attribute the element to the window to the right (higher)
	// of the boundary
	// so given windows 500-600 and 600-700 and the event time is 600
	// we will add the element to 600-700 window and not to the 500-600 window.
	var windows []window.ID
	for !startTime.After(eventTime) && endTime.After(eventTime) {
		windows = append(windows, window.ID{Start: startTime, End: endTime})
		startTime = startTime.Add(-s.Slide)
		endTime = endTime.Add(-s.Slide)
	}

	// reverse, so the earliest window comes first
	for i, j := 0, len(windows)-1; i < j; i, j = i+1, j-1 {
		windows[i], windows[j] = windows[j], windows[i]
	}
	return windows
}

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

// Package fixed implements Fixed windows. Fixed windows (sometimes called tumbling windows) are
// defined by a static window size, e.g. minutely windows or hourly windows. They are generally aligned, i.e. every
// window applies across all the data for the corresponding period of time.
package fixed

import (
	"fmt"
	"time"

	"github.com/GaaraJWH/jstorm/pkg/window"
)

// Fixed implements Fixed window.
type Fixed struct {
	// Length is the temporal length of the window.
	Length time.Duration
}

var _ window.Assigner = (*Fixed)(nil)

// New returns a Fixed assigner. A non-positive length is rejected.
func New(length time.Duration) (*Fixed, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: fixed window length must be positive, got %s", window.ErrInvalidConfiguration, length)
	}
	return &Fixed{
		Length: length,
	}, nil
}

func (f *Fixed) Strategy() window.Strategy {
	return window.Fixed
}

// AssignWindows assigns a window for the given eventTime.
func (f *Fixed) AssignWindows(eventTime time.Time) []window.ID {
	// Assignment of windows should follow a Left inclusive and right exclusive
	// principle. Since we align down here, it is guaranteed that any element
	// on the boundary will automatically fall in to the window to the right
	// of the boundary thereby satisfying the requirement.
	start := window.AlignDown(eventTime, f.Length)
	return []window.ID{
		{
			Start: start,
			End:   start.Add(f.Length),
		},
	}
}

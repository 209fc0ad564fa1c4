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

package sliding

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaaraJWH/jstorm/pkg/window"
)

func TestSliding_AssignWindows(t *testing.T) {
	baseTime := time.Unix(600, 0)

	tests := []struct {
		name      string
		length    time.Duration
		slide     time.Duration
		eventTime time.Time
		expected  []window.ID
	}{
		{
			name:      "length divisible by slide",
			length:    time.Minute,
			slide:     20 * time.Second,
			eventTime: baseTime.Add(10 * time.Second),
			expected: []window.ID{
				{Start: time.Unix(560, 0), End: time.Unix(620, 0)},
				{Start: time.Unix(580, 0), End: time.Unix(640, 0)},
				{Start: time.Unix(600, 0), End: time.Unix(660, 0)},
			},
		},
		{
			name:      "length not divisible by slide",
			length:    time.Minute,
			slide:     40 * time.Second,
			eventTime: baseTime.Add(10 * time.Second),
			expected: []window.ID{
				{Start: time.Unix(560, 0), End: time.Unix(620, 0)},
				{Start: time.Unix(600, 0), End: time.Unix(660, 0)},
			},
		},
		{
			name:      "prime slide",
			length:    time.Minute,
			slide:     41 * time.Second,
			eventTime: baseTime.Add(10 * time.Second),
			expected: []window.ID{
				{Start: time.Unix(574, 0), End: time.Unix(634, 0)},
			},
		},
		{
			name:      "element eq start time",
			length:    time.Minute,
			slide:     20 * time.Second,
			eventTime: baseTime,
			expected: []window.ID{
				{Start: time.Unix(560, 0), End: time.Unix(620, 0)},
				{Start: time.Unix(580, 0), End: time.Unix(640, 0)},
				{Start: time.Unix(600, 0), End: time.Unix(660, 0)},
			},
		},
		{
			name:      "element eq end time",
			length:    time.Minute,
			slide:     20 * time.Second,
			eventTime: baseTime.Add(time.Minute),
			expected: []window.ID{
				{Start: time.Unix(620, 0), End: time.Unix(680, 0)},
				{Start: time.Unix(640, 0), End: time.Unix(700, 0)},
				{Start: time.Unix(660, 0), End: time.Unix(720, 0)},
			},
		},
		{
			name:      "element on right",
			length:    time.Minute,
			slide:     20 * time.Second,
			eventTime: baseTime.Add(time.Nanosecond),
			expected: []window.ID{
				{Start: time.Unix(560, 0), End: time.Unix(620, 0)},
				{Start: time.Unix(580, 0), End: time.Unix(640, 0)},
				{Start: time.Unix(600, 0), End: time.Unix(660, 0)},
			},
		},
		{
			name:      "element on left",
			length:    time.Minute,
			slide:     20 * time.Second,
			eventTime: baseTime.Add(-time.Nanosecond),
			expected: []window.ID{
				{Start: time.Unix(540, 0), End: time.Unix(600, 0)},
				{Start: time.Unix(560, 0), End: time.Unix(620, 0)},
				{Start: time.Unix(580, 0), End: time.Unix(640, 0)},
			},
		},
		{
			name:      "slide equals length",
			length:    time.Minute,
			slide:     time.Minute,
			eventTime: baseTime.Add(21 * time.Second),
			expected: []window.ID{
				{Start: time.Unix(600, 0), End: time.Unix(660, 0)},
			},
		},
		{
			name:      "seven seconds after the epoch",
			length:    10 * time.Second,
			slide:     5 * time.Second,
			eventTime: time.Unix(7, 0),
			expected: []window.ID{
				{Start: time.Unix(0, 0), End: time.Unix(10, 0)},
				{Start: time.Unix(5, 0), End: time.Unix(15, 0)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.length, tt.slide)
			require.NoError(t, err)
			got := s.AssignWindows(tt.eventTime)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.expected[i].String(), got[i].String())
			}
		})
	}
}

func TestSliding_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		length time.Duration
		slide  time.Duration
	}{
		{name: "zero length", length: 0, slide: time.Second},
		{name: "negative length", length: -time.Second, slide: time.Second},
		{name: "zero slide", length: time.Minute, slide: 0},
		{name: "negative slide", length: time.Minute, slide: -time.Second},
		{name: "slide larger than length", length: time.Second, slide: time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.length, tt.slide)
			assert.True(t, errors.Is(err, window.ErrInvalidConfiguration))
		})
	}
}

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

package shard

import (
	"fmt"
	"time"

	"github.com/GaaraJWH/jstorm/pkg/window"
)

type options struct {
	bufferSize   int
	tickInterval time.Duration
	filter       func(ev *window.Event) (bool, error)
}

// DefaultOptions returns the default options
func DefaultOptions() *options {
	return &options{
		bufferSize:   1000,
		tickInterval: time.Second,
	}
}

type Option func(*options) error

// WithBufferSize sets the number of events which can wait in front of each unit
func WithBufferSize(size int) Option {
	return func(o *options) error {
		if size < 0 {
			return fmt.Errorf("%w: buffer size must not be negative, got %d", window.ErrInvalidConfiguration, size)
		}
		o.bufferSize = size
		return nil
	}
}

// WithTickInterval sets the interval at which the engine of each unit is ticked
func WithTickInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("%w: tick interval must be positive, got %s", window.ErrInvalidConfiguration, d)
		}
		o.tickInterval = d
		return nil
	}
}

// WithFilter drops the events for which the filter returns false
func WithFilter(f func(ev *window.Event) (bool, error)) Option {
	return func(o *options) error {
		o.filter = f
		return nil
	}
}

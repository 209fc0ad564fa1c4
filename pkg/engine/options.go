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

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	k8sclock "k8s.io/utils/clock"

	"github.com/GaaraJWH/jstorm/pkg/window"
	"github.com/GaaraJWH/jstorm/pkg/window/clock"
)

// DefaultRetentionHorizon is the inactivity after which a window is evicted when no horizon is configured.
const DefaultRetentionHorizon = time.Minute

// CloseMode decides what happens to the live windows when the engine is closed.
type CloseMode int

const (
	// CloseDiscard drops every live window without emitting it.
	CloseDiscard CloseMode = iota
	// CloseFlush fires every live window, without purge, before releasing it. It gives at-least-once visibility of
	// partial results.
	CloseFlush
)

func (m CloseMode) String() string {
	switch m {
	case CloseDiscard:
		return "discard"
	case CloseFlush:
		return "flush"
	default:
		return "unknown"
	}
}

// KeyFunc derives the grouping key of an event.
type KeyFunc func(ev *window.Event) (string, error)

// ErrorHandler receives the errors of Submit and Tick when the engine is driven by Run.
type ErrorHandler func(ctx context.Context, err error)

type options struct {
	name             string
	clock            clock.Clock
	tickerClock      k8sclock.WithTicker
	retentionHorizon time.Duration
	closeMode        CloseMode
	fireOnEvict      bool
	keyFunc          KeyFunc
	errorHandler     ErrorHandler
}

// DefaultOptions returns the default options
func DefaultOptions() *options {
	return &options{
		name:             uuid.NewString(),
		clock:            clock.NewProcessingTime(nil),
		tickerClock:      k8sclock.RealClock{},
		retentionHorizon: DefaultRetentionHorizon,
		closeMode:        CloseDiscard,
		keyFunc: func(ev *window.Event) (string, error) {
			return ev.Key, nil
		},
	}
}

type Option func(*options) error

// WithName sets the engine name used in logs and metrics
func WithName(name string) Option {
	return func(o *options) error {
		if name == "" {
			return fmt.Errorf("%w: engine name must not be empty", window.ErrInvalidConfiguration)
		}
		o.name = name
		return nil
	}
}

// WithClock sets the clock which supplies the current time
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		o.clock = c
		return nil
	}
}

// WithTickerClock sets the clock which drives the ticks of Run
func WithTickerClock(c k8sclock.WithTicker) Option {
	return func(o *options) error {
		o.tickerClock = c
		return nil
	}
}

// WithRetentionHorizon sets the maximum inactivity of a window before it is evicted
func WithRetentionHorizon(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("%w: retention horizon must be positive, got %s", window.ErrInvalidConfiguration, d)
		}
		o.retentionHorizon = d
		return nil
	}
}

// WithCloseMode sets what happens to the live windows on Close
func WithCloseMode(m CloseMode) Option {
	return func(o *options) error {
		o.closeMode = m
		return nil
	}
}

// WithFireOnEvict fires a window before it is evicted by the retention horizon
func WithFireOnEvict(f bool) Option {
	return func(o *options) error {
		o.fireOnEvict = f
		return nil
	}
}

// WithKeyFunc sets the function which derives the grouping key of an event
func WithKeyFunc(f KeyFunc) Option {
	return func(o *options) error {
		o.keyFunc = f
		return nil
	}
}

// WithErrorHandler sets the handler of the errors returned by Submit and Tick when the engine is driven by Run
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) error {
		o.errorHandler = h
		return nil
	}
}

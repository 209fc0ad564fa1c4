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

// Package shard runs a set of independent processing units, each owning its own window engine, and routes the
// events to them by grouping key. Units share no state: every engine is driven by its own goroutine.
package shard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GaaraJWH/jstorm/pkg/engine"
	"github.com/GaaraJWH/jstorm/pkg/metrics"
	"github.com/GaaraJWH/jstorm/pkg/shared/logging"
	"github.com/GaaraJWH/jstorm/pkg/window"
)

var (
	// ErrClosed is returned when events are submitted to a closed router.
	ErrClosed = errors.New("router is closed")
	// ErrUnitStopped is returned when the unit owning the key of an event is no longer running.
	ErrUnitStopped = errors.New("processing unit stopped")
)

// EngineFactory creates the engine of a unit.
type EngineFactory[A any] func(ctx context.Context, unit int) (*engine.Engine[A], error)

type unit[A any] struct {
	id     int
	label  string
	engine *engine.Engine[A]
	events chan *window.Event
	done   chan struct{}
}

// Router partitions the events among the processing units by the hash of their grouping key.
type Router[A any] struct {
	units   []*unit[A]
	shuffle *Shuffle
	keyFunc engine.KeyFunc
	opts    *options
	// guards closed and the event channels against a concurrent Close
	lock   sync.RWMutex
	closed bool
	// closing wakes up the senders blocked on a full buffer, so that Close does not wait for them
	closing   chan struct{}
	closeOnce sync.Once
	running   *atomic.Bool
	routed    *atomic.Int64
	dropped   *atomic.Int64
	log       *zap.SugaredLogger
}

// NewRouter creates the units and their engines. keyFunc must be the key function the engines use, so that all the
// events of a key land on the same unit.
func NewRouter[A any](ctx context.Context, units int, factory EngineFactory[A], keyFunc engine.KeyFunc, inputOpts ...Option) (*Router[A], error) {
	if units <= 0 {
		return nil, fmt.Errorf("%w: parallelism must be positive, got %d", window.ErrInvalidConfiguration, units)
	}
	if factory == nil || keyFunc == nil {
		return nil, fmt.Errorf("%w: engine factory and key function are required", window.ErrInvalidConfiguration)
	}
	opts := DefaultOptions()
	for _, o := range inputOpts {
		if err := o(opts); err != nil {
			return nil, err
		}
	}
	r := &Router[A]{
		shuffle: NewShuffle(units),
		keyFunc: keyFunc,
		opts:    opts,
		closing: make(chan struct{}),
		running: atomic.NewBool(false),
		routed:  atomic.NewInt64(0),
		dropped: atomic.NewInt64(0),
		log:     logging.FromContext(ctx).With("component", "router"),
	}
	for i := 0; i < units; i++ {
		e, err := factory(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("failed to create the engine of unit %d, %w", i, err)
		}
		r.units = append(r.units, &unit[A]{
			id:     i,
			label:  strconv.Itoa(i),
			engine: e,
			events: make(chan *window.Event, opts.bufferSize),
			done:   make(chan struct{}),
		})
	}
	return r, nil
}

// Run drives every unit in its own goroutine and blocks until all of them returned, that is until the context is
// done or the router is closed. The first unit failure is returned.
func (r *Router[A]) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return errors.New("router is already running")
	}
	defer r.running.Store(false)
	r.log.Infow("Starting processing units", zap.Int("units", len(r.units)), zap.Duration("tickInterval", r.opts.tickInterval))

	g, gCtx := errgroup.WithContext(ctx)
	for _, u := range r.units {
		u := u
		g.Go(func() error {
			defer close(u.done)
			if err := u.engine.Run(gCtx, u.events, r.opts.tickInterval); err != nil {
				return fmt.Errorf("processing unit %d failed, %w", u.id, err)
			}
			return nil
		})
	}
	err := g.Wait()
	r.log.Infow("Processing units stopped", zap.Int64("routed", r.routed.Load()), zap.Int64("dropped", r.dropped.Load()))
	return err
}

// Submit hands the event to the unit owning its key. It blocks while the buffer of that unit is full.
func (r *Router[A]) Submit(ctx context.Context, ev *window.Event) error {
	key, err := r.keyFunc(ev)
	if err != nil {
		return fmt.Errorf("failed to extract the grouping key, %w", err)
	}
	u := r.units[r.shuffle.Unit(key)]
	if r.opts.filter != nil {
		keep, err := r.opts.filter(ev)
		if err != nil {
			return fmt.Errorf("failed to evaluate the filter, %w", err)
		}
		if !keep {
			r.dropped.Inc()
			metrics.FilteredEventsCount.WithLabelValues(u.label).Inc()
			return nil
		}
	}

	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.closed {
		return ErrClosed
	}
	select {
	case u.events <- ev:
		r.routed.Inc()
		metrics.RoutedEventsCount.WithLabelValues(u.label).Inc()
		metrics.UnitQueueSize.WithLabelValues(u.label).Set(float64(len(u.events)))
		return nil
	case <-r.closing:
		return ErrClosed
	case <-u.done:
		return fmt.Errorf("%w: unit %d", ErrUnitStopped, u.id)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events. Every unit drains its buffer, closes its engine and returns. Submit calls blocked on
// a full buffer return ErrClosed.
func (r *Router[A]) Close() {
	r.closeOnce.Do(func() { close(r.closing) })
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, u := range r.units {
		close(u.events)
	}
}

// IsHealthy reports an error when the router is not running.
func (r *Router[A]) IsHealthy(_ context.Context) error {
	if !r.running.Load() {
		return errors.New("processing units are not running")
	}
	return nil
}

// Routed returns the number of events handed to the units.
func (r *Router[A]) Routed() int64 {
	return r.routed.Load()
}

// Dropped returns the number of events dropped by the filter.
func (r *Router[A]) Dropped() int64 {
	return r.dropped.Load()
}

// Units returns the number of processing units.
func (r *Router[A]) Units() int {
	return len(r.units)
}

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

// Package engine manages the lifecycle of windows: it assigns events to windows, folds them into per key
// accumulators, consults the trigger and emits or purges windows accordingly. An Engine is owned by a single
// goroutine, nothing in it is safe for concurrent use.
//
// A window goes ABSENT -> ACTIVE on the first successful fold and ACTIVE -> PURGED on purge. A purged window whose ID
// is assigned again is recreated from scratch and is indistinguishable from the original.
//
// Time based decisions are driven by the timers triggers register on a window. A tick calls the trigger only for the
// live windows which have a due timer, a window without one is not consulted. Timers registered while a tick is
// running are left for the next tick.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/GaaraJWH/jstorm/pkg/shared/logging"
	"github.com/GaaraJWH/jstorm/pkg/window"
	"github.com/GaaraJWH/jstorm/pkg/window/clock"
	"github.com/GaaraJWH/jstorm/pkg/window/state"
	"github.com/GaaraJWH/jstorm/pkg/window/trigger"
)

// Fired is the result handed to the emit callback when a window fires.
type Fired[A any] struct {
	Window window.ID
	Start  time.Time
	End    time.Time
	// TimeRange is the human readable [start~end] of the window.
	TimeRange string
	// Reason is why the window fired: trigger, retire, retention or close.
	Reason string
	// FireCount is the number of times the window has fired, this one included.
	FireCount int
	Snapshot  []state.Entry[A]
}

// EmitFunc receives the fired windows. It runs on the goroutine which owns the engine.
type EmitFunc[A any] func(ctx context.Context, fired *Fired[A]) error

// Engine is the window lifecycle manager of a single processing unit.
type Engine[A any] struct {
	name     string
	assigner window.Assigner
	trigger  trigger.Trigger
	store    *state.Store[A]
	emit     EmitFunc[A]
	opts     *options
	records  map[string]*record
	live     *window.SortedWindowList
	opened   bool
	closed   bool
	log      *zap.SugaredLogger
}

// New returns an engine which is not open yet.
func New[A any](ctx context.Context, assigner window.Assigner, trig trigger.Trigger, init state.InitFunc[A], fold state.FoldFunc[A], emit EmitFunc[A], inputOpts ...Option) (*Engine[A], error) {
	if assigner == nil || trig == nil || init == nil || fold == nil || emit == nil {
		return nil, fmt.Errorf("%w: assigner, trigger, init, fold and emit are required", window.ErrInvalidConfiguration)
	}
	opts := DefaultOptions()
	for _, o := range inputOpts {
		if err := o(opts); err != nil {
			return nil, err
		}
	}
	if opts.clock == nil || opts.tickerClock == nil || opts.keyFunc == nil {
		return nil, fmt.Errorf("%w: clock and key function must not be nil", window.ErrInvalidConfiguration)
	}
	e := &Engine[A]{
		name:     opts.name,
		assigner: assigner,
		trigger:  trig,
		store:    state.NewStore(init, fold),
		emit:     emit,
		opts:     opts,
		records:  make(map[string]*record),
		live:     window.NewSortedWindowList(),
	}
	e.log = logging.FromContext(ctx).With("engine", e.name, "strategy", assigner.Strategy().String())
	return e, nil
}

// Name returns the name of the engine.
func (e *Engine[A]) Name() string {
	return e.name
}

// Open makes the engine ready to accept events and ticks.
func (e *Engine[A]) Open(ctx context.Context) error {
	if e.closed {
		return ErrClosed
	}
	e.opened = true
	e.log.Infow("Opened window engine", zap.String("trigger", e.trigger.String()),
		zap.Duration("retentionHorizon", e.opts.retentionHorizon), zap.String("closeMode", e.opts.closeMode.String()))
	return nil
}

func (e *Engine[A]) ready() error {
	if e.closed {
		return ErrClosed
	}
	if !e.opened {
		return ErrNotOpen
	}
	return nil
}

// Submit assigns the event to its windows, folds it into the accumulator of its key in each of them and applies the
// trigger decision of every window. A failure in one window does not prevent the others from being processed, the
// failures are combined in the returned error.
func (e *Engine[A]) Submit(ctx context.Context, ev *window.Event) error {
	if err := e.ready(); err != nil {
		return err
	}
	eventsCount.WithLabelValues(e.name).Inc()
	if o, ok := e.opts.clock.(clock.Observer); ok {
		o.Observe(ev.EventTime)
	}
	key, err := e.opts.keyFunc(ev)
	if err != nil {
		foldErrorsCount.WithLabelValues(e.name).Inc()
		return fmt.Errorf("failed to extract the grouping key, %w", err)
	}

	now := e.opts.clock.Now()
	// an event never lands in an accumulate window which is due for retirement
	errs := e.retire(ctx, now)
	for _, id := range e.assigner.AssignWindows(ev.EventTime) {
		errs = multierr.Append(errs, e.process(ctx, id, key, ev, now))
	}
	e.updateGauges()
	return errs
}

func (e *Engine[A]) process(ctx context.Context, id window.ID, key string, ev *window.Event, now time.Time) error {
	if err := e.store.Update(id, key, ev); err != nil {
		foldErrorsCount.WithLabelValues(e.name).Inc()
		e.log.Debugw("Fold failed", zap.String("window", window.FormatRange(id)), zap.String("key", key), zap.Error(err))
		return &FoldError{Window: id, Key: key, Err: err}
	}

	rec, ok := e.records[id.String()]
	if !ok {
		rec = newRecord(id, now)
		e.records[id.String()] = rec
		e.live.InsertIfNotPresent(id)
		e.log.Debugw("Created window", zap.String("window", window.FormatRange(id)))
	}
	rec.lastActivity = now
	rec.elements++
	rec.total++

	result := e.trigger.OnElement(ev, &windowContext{rec: rec, now: now})
	return e.apply(ctx, rec, result, now, reasonTrigger)
}

// Tick retires accumulating windows, runs the timers which are due and evicts the windows which outlived the
// retention horizon. Timers registered while a tick is running are left for the next tick.
func (e *Engine[A]) Tick(ctx context.Context) error {
	if err := e.ready(); err != nil {
		return err
	}
	now := e.opts.clock.Now()
	errs := e.retire(ctx, now)

	for _, id := range e.live.Items() {
		rec, ok := e.records[id.String()]
		if !ok {
			continue
		}
		var due []time.Time
		for {
			t, ok := rec.timers.PopDue(now)
			if !ok {
				break
			}
			due = append(due, t)
		}
		for _, t := range due {
			result := e.trigger.OnTime(t, &windowContext{rec: rec, now: now})
			errs = multierr.Append(errs, e.apply(ctx, rec, result, t, reasonTrigger))
			if result.IsPurge() {
				break
			}
		}
	}

	for _, id := range e.live.Items() {
		rec, ok := e.records[id.String()]
		if !ok || now.Sub(rec.lastActivity) <= e.opts.retentionHorizon {
			continue
		}
		e.log.Debugw("Evicting inactive window", zap.String("window", window.FormatRange(id)),
			zap.Time("lastActivity", rec.lastActivity))
		result := trigger.Purge
		if e.opts.fireOnEvict {
			result = trigger.FireAndPurge
		}
		errs = multierr.Append(errs, e.apply(ctx, rec, result, now, reasonRetention))
	}

	e.updateGauges()
	return errs
}

// retire fires and purges the accumulate windows which reached their end.
func (e *Engine[A]) retire(ctx context.Context, now time.Time) error {
	r, ok := e.assigner.(window.Retirer)
	if !ok {
		return nil
	}
	var errs error
	for _, id := range r.Retire(now) {
		if rec, ok := e.records[id.String()]; ok {
			e.log.Infow("Retiring window", zap.String("window", window.FormatRange(id)))
			errs = multierr.Append(errs, e.apply(ctx, rec, trigger.FireAndPurge, now, reasonRetire))
		}
	}
	return errs
}

// apply carries out a trigger decision. at is recorded as the fire time.
func (e *Engine[A]) apply(ctx context.Context, rec *record, result trigger.Result, at time.Time, reason string) error {
	var err error
	if result.IsFire() {
		err = e.fire(ctx, rec, at, reason)
	}
	if result.IsPurge() {
		e.purge(rec, reason)
	}
	return err
}

// fire emits a snapshot of the window. The accumulators are left untouched.
func (e *Engine[A]) fire(ctx context.Context, rec *record, at time.Time, reason string) error {
	rec.fires++
	rec.lastFire = at
	rec.elements = 0
	firesCount.WithLabelValues(e.name, reason).Inc()

	fired := &Fired[A]{
		Window:    rec.id,
		Start:     rec.id.Start,
		End:       rec.id.End,
		TimeRange: window.FormatRange(rec.id),
		Reason:    reason,
		FireCount: rec.fires,
		Snapshot:  e.store.Snapshot(rec.id),
	}
	if err := e.emit(ctx, fired); err != nil {
		emissionErrorsCount.WithLabelValues(e.name).Inc()
		e.log.Errorw("Failed to emit window", zap.String("window", fired.TimeRange), zap.Error(err))
		return &EmissionError{Window: rec.id, Err: err}
	}
	return nil
}

func (e *Engine[A]) purge(rec *record, reason string) {
	e.store.Clear(rec.id)
	delete(e.records, rec.id.String())
	e.live.Delete(rec.id)
	purgesCount.WithLabelValues(e.name, reason).Inc()
	e.log.Debugw("Purged window", zap.String("window", window.FormatRange(rec.id)), zap.String("reason", reason))
}

// Close applies the close mode to every live window and releases all of them. It is safe to call Close more than
// once, only the first call has an effect.
func (e *Engine[A]) Close(ctx context.Context) error {
	if e.closed {
		return nil
	}
	e.closed = true

	var errs error
	if e.opts.closeMode == CloseFlush {
		now := e.opts.clock.Now()
		for _, id := range e.live.Items() {
			errs = multierr.Append(errs, e.fire(ctx, e.records[id.String()], now, reasonClose))
		}
	}
	released := e.live.Len()
	e.store.Reset()
	e.records = make(map[string]*record)
	e.live.Reset()
	e.updateGauges()
	e.log.Infow("Closed window engine", zap.Int("releasedWindows", released))
	return errs
}

// Run drives the engine from a single goroutine: it submits the events of the channel and ticks the engine every
// interval. Run returns, after closing the engine, when the context is done or the channel is closed. Errors of
// Submit and Tick go to the error handler, or to the log when none is set.
func (e *Engine[A]) Run(ctx context.Context, events <-chan *window.Event, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive, got %s", window.ErrInvalidConfiguration, interval)
	}
	if err := e.Open(ctx); err != nil {
		return err
	}
	ticker := e.opts.tickerClock.NewTicker(interval)
	defer ticker.Stop()

	// the fired windows of a flush must still be emitted after cancellation
	closeCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			return e.Close(closeCtx)
		case ev, ok := <-events:
			if !ok {
				return e.Close(closeCtx)
			}
			if err := e.Submit(ctx, ev); err != nil {
				e.handleError(ctx, err)
			}
		case <-ticker.C():
			if err := e.Tick(ctx); err != nil {
				e.handleError(ctx, err)
			}
		}
	}
}

func (e *Engine[A]) handleError(ctx context.Context, err error) {
	if e.opts.errorHandler != nil {
		e.opts.errorHandler(ctx, err)
		return
	}
	e.log.Warnw("Window engine error", zap.Error(err))
}

// Windows returns the live windows in start time order.
func (e *Engine[A]) Windows() []window.ID {
	return e.live.Items()
}

// Snapshot returns the accumulators of a live window, see state.Store.Snapshot.
func (e *Engine[A]) Snapshot(id window.ID) []state.Entry[A] {
	return e.store.Snapshot(id)
}

func (e *Engine[A]) updateGauges() {
	activeWindows.WithLabelValues(e.name, e.assigner.Strategy().String()).Set(float64(len(e.records)))
	accumulatorsCount.WithLabelValues(e.name).Set(float64(e.store.Len()))
}

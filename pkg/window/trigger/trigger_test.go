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

package trigger

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GaaraJWH/jstorm/pkg/window"
)

// fakeContext is a Context whose bookkeeping is set directly by the tests.
type fakeContext struct {
	id           window.ID
	now          time.Time
	createdAt    time.Time
	lastActivity time.Time
	elements     int64
	total        int64
	fires        int
	lastFire     time.Time
	timers       map[int64]time.Time
}

func newFakeContext(id window.ID) *fakeContext {
	return &fakeContext{
		id:           id,
		createdAt:    id.Start,
		lastActivity: id.Start,
		timers:       make(map[int64]time.Time),
	}
}

func (f *fakeContext) Window() window.ID         { return f.id }
func (f *fakeContext) Now() time.Time            { return f.now }
func (f *fakeContext) CreatedAt() time.Time      { return f.createdAt }
func (f *fakeContext) LastActivity() time.Time   { return f.lastActivity }
func (f *fakeContext) ElementCount() int64       { return f.elements }
func (f *fakeContext) TotalCount() int64         { return f.total }
func (f *fakeContext) FireCount() int            { return f.fires }
func (f *fakeContext) LastFireTime() time.Time   { return f.lastFire }
func (f *fakeContext) RegisterTimer(t time.Time) { f.timers[t.UnixNano()] = t }
func (f *fakeContext) DeleteTimer(t time.Time)   { delete(f.timers, t.UnixNano()) }

func (f *fakeContext) sortedTimers() []time.Time {
	var ts []time.Time
	for _, t := range f.timers {
		ts = append(ts, t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	return ts
}

// element simulates the engine bookkeeping of a new element at the given time.
func (f *fakeContext) element(at time.Time) {
	f.now = at
	f.lastActivity = at
	f.elements++
	f.total++
}

// fired simulates the engine bookkeeping of a fire.
func (f *fakeContext) fired(at time.Time) {
	f.fires++
	f.lastFire = at
	f.elements = 0
}

var allResults = []Result{Continue, Fire, Purge, FireAndPurge}

func TestResult_Facets(t *testing.T) {
	assert.False(t, Continue.IsFire())
	assert.False(t, Continue.IsPurge())
	assert.True(t, Fire.IsFire())
	assert.False(t, Fire.IsPurge())
	assert.False(t, Purge.IsFire())
	assert.True(t, Purge.IsPurge())
	assert.True(t, FireAndPurge.IsFire())
	assert.True(t, FireAndPurge.IsPurge())

	for _, fire := range []bool{false, true} {
		for _, purge := range []bool{false, true} {
			r := resultOf(fire, purge)
			assert.Equal(t, fire, r.IsFire())
			assert.Equal(t, purge, r.IsPurge())
		}
	}
}

func TestMerge(t *testing.T) {
	for _, a := range allResults {
		assert.Equal(t, a, Merge(a, a), "idempotence of %s", a)
		assert.Equal(t, a, Merge(Continue, a), "identity of %s", a)
		for _, b := range allResults {
			assert.Equal(t, Merge(a, b), Merge(b, a), "commutativity of %s and %s", a, b)
			for _, c := range allResults {
				assert.Equal(t, Merge(Merge(a, b), c), Merge(a, Merge(b, c)), "associativity of %s, %s and %s", a, b, c)
			}
		}
	}
	assert.Equal(t, FireAndPurge, Merge(Fire, Purge))
	assert.Equal(t, FireAndPurge, Merge(FireAndPurge, Continue))
	assert.Equal(t, Fire, Merge(Fire, Continue))
	assert.Equal(t, Purge, Merge(Continue, Purge))
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "Continue", Continue.String())
	assert.Equal(t, "Fire", Fire.String())
	assert.Equal(t, "Purge", Purge.String())
	assert.Equal(t, "FireAndPurge", FireAndPurge.String())
	assert.Equal(t, "Unknown", Result(7).String())
}

func TestCount(t *testing.T) {
	_, err := NewCount(0)
	assert.True(t, errors.Is(err, window.ErrInvalidConfiguration))

	c, err := NewCount(3)
	require.NoError(t, err)
	assert.Equal(t, "Count(3)", c.String())

	ctx := newFakeContext(window.ID{Start: time.Unix(0, 0), End: time.Unix(10, 0)})
	var results []Result
	for i := int64(1); i <= 7; i++ {
		ctx.element(time.Unix(i, 0))
		r := c.OnElement(&window.Event{EventTime: time.Unix(i, 0)}, ctx)
		if r.IsFire() {
			ctx.fired(time.Unix(i, 0))
		}
		results = append(results, r)
	}
	assert.Equal(t, []Result{Continue, Continue, Fire, Continue, Continue, Fire, Continue}, results)
	assert.Equal(t, Continue, c.OnTime(time.Unix(100, 0), ctx))
	assert.Empty(t, ctx.timers)
}

func TestPeriodic(t *testing.T) {
	_, err := NewPeriodic(time.Millisecond)
	assert.True(t, errors.Is(err, window.ErrInvalidConfiguration))

	p, err := NewPeriodic(time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "Periodic(1m0s)", p.String())

	ctx := newFakeContext(window.ID{Start: time.Unix(0, 0), End: window.MaxTime, Slot: "slot-0"})
	ctx.element(time.Unix(0, 0))
	assert.Equal(t, Continue, p.OnElement(&window.Event{}, ctx))
	assert.Equal(t, []time.Time{time.Unix(60, 0)}, ctx.sortedTimers())

	// registering again for the next element is a no-op
	ctx.element(time.Unix(1, 0))
	assert.Equal(t, Continue, p.OnElement(&window.Event{}, ctx))
	assert.Len(t, ctx.timers, 1)

	assert.Equal(t, Continue, p.OnTime(time.Unix(30, 0), ctx))

	ctx.DeleteTimer(time.Unix(60, 0))
	assert.Equal(t, Fire, p.OnTime(time.Unix(60, 0), ctx))
	ctx.fired(time.Unix(60, 0))
	assert.Equal(t, []time.Time{time.Unix(120, 0)}, ctx.sortedTimers())

	assert.Equal(t, Continue, p.OnTime(time.Unix(90, 0), ctx))
	ctx.DeleteTimer(time.Unix(120, 0))
	assert.Equal(t, Fire, p.OnTime(time.Unix(120, 0), ctx))
	assert.Equal(t, []time.Time{time.Unix(180, 0)}, ctx.sortedTimers())
}

func TestPeriodicFromSpec(t *testing.T) {
	p, err := NewPeriodicFromSpec("@every 1m")
	require.NoError(t, err)
	assert.Equal(t, "Periodic(@every 1m)", p.String())

	ctx := newFakeContext(window.ID{Start: time.Unix(0, 0), End: window.MaxTime})
	ctx.element(time.Unix(0, 0))
	p.OnElement(&window.Event{}, ctx)
	assert.Equal(t, []time.Time{time.Unix(60, 0)}, ctx.sortedTimers())

	_, err = NewPeriodicFromSpec("not a schedule")
	assert.True(t, errors.Is(err, window.ErrInvalidConfiguration))
}

func TestRetention_Inactivity(t *testing.T) {
	_, err := NewRetention(0)
	assert.True(t, errors.Is(err, window.ErrInvalidConfiguration))

	r, err := NewRetention(30 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "Retention(30s)", r.String())

	ctx := newFakeContext(window.ID{Start: time.Unix(0, 0), End: window.MaxTime})
	ctx.element(time.Unix(0, 0))
	assert.Equal(t, Continue, r.OnElement(&window.Event{}, ctx))
	require.Len(t, ctx.timers, 1)
	deadline := ctx.sortedTimers()[0]
	assert.True(t, deadline.After(time.Unix(30, 0)))

	// activity after the timer was armed moves the deadline
	ctx.element(time.Unix(20, 0))
	assert.Equal(t, Continue, r.OnElement(&window.Event{}, ctx))
	ctx.DeleteTimer(deadline)
	assert.Equal(t, Continue, r.OnTime(deadline, ctx))
	require.Len(t, ctx.timers, 1)
	moved := ctx.sortedTimers()[0]
	assert.True(t, moved.After(time.Unix(50, 0)))

	assert.Equal(t, Purge, r.OnTime(moved, ctx))
	assert.Equal(t, Continue, r.OnTime(time.Unix(50, 0), ctx))
}

func TestRetention_ClosedWindow(t *testing.T) {
	r, err := NewRetention(time.Minute)
	require.NoError(t, err)

	ctx := newFakeContext(window.ID{Start: time.Unix(0, 0), End: time.Unix(10, 0)})
	ctx.element(time.Unix(9, 0))
	r.OnElement(&window.Event{}, ctx)
	// last activity at 9 expires before end + horizon at 70
	assert.Equal(t, []time.Time{time.Unix(69, 1)}, ctx.sortedTimers())

	// late activity does not keep a closed window alive past end + horizon
	ctx.element(time.Unix(65, 0))
	assert.Equal(t, Continue, r.OnTime(time.Unix(70, 0), ctx))
	assert.Equal(t, Purge, r.OnTime(time.Unix(71, 0), ctx))
}

func TestComposite(t *testing.T) {
	_, err := Or()
	assert.True(t, errors.Is(err, window.ErrInvalidConfiguration))
	_, err = Or(nil)
	assert.True(t, errors.Is(err, window.ErrInvalidConfiguration))

	count, err := NewCount(2)
	require.NoError(t, err)
	retention, err := NewRetention(10 * time.Second)
	require.NoError(t, err)
	c, err := Or(count, retention)
	require.NoError(t, err)
	assert.Equal(t, "Or(Count(2), Retention(10s))", c.String())

	ctx := newFakeContext(window.ID{Start: time.Unix(0, 0), End: window.MaxTime})
	ctx.element(time.Unix(1, 0))
	assert.Equal(t, Continue, c.OnElement(&window.Event{}, ctx))
	// the retention child armed its timer even though count did not fire
	assert.Len(t, ctx.timers, 1)

	ctx.element(time.Unix(2, 0))
	assert.Equal(t, Fire, c.OnElement(&window.Event{}, ctx))
	ctx.fired(time.Unix(2, 0))

	assert.Equal(t, Purge, c.OnTime(time.Unix(13, 0), ctx))
}

type fixedResult struct {
	element Result
	time    Result
}

func (f fixedResult) OnElement(*window.Event, Context) Result { return f.element }
func (f fixedResult) OnTime(time.Time, Context) Result        { return f.time }
func (f fixedResult) String() string                          { return "fixed" }

func TestComposite_MergesChildren(t *testing.T) {
	c, err := Or(fixedResult{element: Fire, time: Continue}, fixedResult{element: Purge, time: Fire})
	require.NoError(t, err)
	ctx := newFakeContext(window.ID{})
	assert.Equal(t, FireAndPurge, c.OnElement(&window.Event{}, ctx))
	assert.Equal(t, Fire, c.OnTime(time.Unix(0, 0), ctx))
}

// pop simulates the engine running a due timer.
func (f *fakeContext) pop(tr Trigger, at time.Time) Result {
	f.DeleteTimer(at)
	f.now = at
	return tr.OnTime(at, f)
}

func TestComposite_PeriodicStaysArmedAfterSiblingFire(t *testing.T) {
	count, err := NewCount(3)
	require.NoError(t, err)
	periodic, err := NewPeriodic(time.Minute)
	require.NoError(t, err)
	c, err := Or(count, periodic)
	require.NoError(t, err)

	ctx := newFakeContext(window.ID{Start: time.Unix(0, 0), End: window.MaxTime})
	for sec := int64(0); sec < 3; sec++ {
		ctx.element(time.Unix(sec, 0))
		if c.OnElement(&window.Event{}, ctx).IsFire() {
			ctx.fired(time.Unix(sec, 0))
		}
	}
	require.Equal(t, 1, ctx.fires)
	assert.Equal(t, []time.Time{time.Unix(60, 0)}, ctx.sortedTimers())

	// the count fire at 2s moved the schedule, the stale timer re-arms it
	assert.Equal(t, Continue, ctx.pop(c, time.Unix(60, 0)))
	assert.Equal(t, []time.Time{time.Unix(62, 0)}, ctx.sortedTimers())

	assert.Equal(t, Fire, ctx.pop(c, time.Unix(62, 0)))
	ctx.fired(time.Unix(62, 0))
	assert.Equal(t, []time.Time{time.Unix(122, 0)}, ctx.sortedTimers())
}

func TestComposite_PeriodicAndRetentionTimers(t *testing.T) {
	periodic, err := NewPeriodic(time.Minute)
	require.NoError(t, err)
	retention, err := NewRetention(90 * time.Second)
	require.NoError(t, err)
	c, err := Or(periodic, retention)
	require.NoError(t, err)

	ctx := newFakeContext(window.ID{Start: time.Unix(0, 0), End: window.MaxTime})
	ctx.element(time.Unix(0, 0))
	assert.Equal(t, Continue, c.OnElement(&window.Event{}, ctx))
	retentionDeadline := time.Unix(90, 1)
	assert.Equal(t, []time.Time{time.Unix(60, 0), retentionDeadline}, ctx.sortedTimers())

	assert.Equal(t, Fire, ctx.pop(c, time.Unix(60, 0)))
	ctx.fired(time.Unix(60, 0))

	ctx.element(time.Unix(80, 0))
	assert.Equal(t, Continue, c.OnElement(&window.Event{}, ctx))

	// the retention timer neither fires the periodic child nor disarms it
	assert.Equal(t, Continue, ctx.pop(c, retentionDeadline))
	retentionDeadline = time.Unix(170, 1)
	assert.Equal(t, []time.Time{time.Unix(120, 0), retentionDeadline}, ctx.sortedTimers())

	assert.Equal(t, Fire, ctx.pop(c, time.Unix(120, 0)))
	ctx.fired(time.Unix(120, 0))
	assert.Equal(t, []time.Time{time.Unix(170, 1), time.Unix(180, 0)}, ctx.sortedTimers())

	assert.Equal(t, Purge, ctx.pop(c, retentionDeadline))
}

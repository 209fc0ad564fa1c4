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
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/GaaraJWH/jstorm/pkg/window"
)

// Periodic fires the window on a schedule and keeps its state, so the reported accumulators keep growing between
// fires. The first fire is scheduled relative to the window start, every following one relative to the previous fire.
type Periodic struct {
	schedule cron.Schedule
	desc     string
}

var _ Trigger = (*Periodic)(nil)

// NewPeriodic returns a trigger firing every period. Periods below one second are rejected since schedules have a
// second resolution.
func NewPeriodic(period time.Duration) (*Periodic, error) {
	if period < time.Second {
		return nil, fmt.Errorf("%w: periodic trigger requires a period of at least 1s, got %s", window.ErrInvalidConfiguration, period)
	}
	return &Periodic{
		schedule: cron.Every(period),
		desc:     fmt.Sprintf("Periodic(%s)", period),
	}, nil
}

// NewPeriodicFromSpec returns a trigger firing on a cron schedule, e.g. "@every 1m" or "*/5 * * * *".
func NewPeriodicFromSpec(spec string) (*Periodic, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid periodic trigger schedule %q, %s", window.ErrInvalidConfiguration, spec, err)
	}
	return &Periodic{
		schedule: schedule,
		desc:     fmt.Sprintf("Periodic(%s)", spec),
	}, nil
}

// next returns the next instant the window has to fire at.
func (p *Periodic) next(ctx Context) time.Time {
	anchor := ctx.LastFireTime()
	if anchor.IsZero() {
		anchor = ctx.Window().Start
	}
	return p.schedule.Next(anchor)
}

func (p *Periodic) OnElement(_ *window.Event, ctx Context) Result {
	ctx.RegisterTimer(p.next(ctx))
	return Continue
}

func (p *Periodic) OnTime(firingTime time.Time, ctx Context) Result {
	// the timer belongs to another trigger of a composite, or a sibling fired since the timer was armed and
	// moved the schedule. The schedule stays armed either way.
	if next := p.next(ctx); firingTime.Before(next) {
		ctx.RegisterTimer(next)
		return Continue
	}
	// the engine records the fire time before the next element, the timer is re-armed from the firing time.
	ctx.RegisterTimer(p.schedule.Next(firingTime))
	return Fire
}

func (p *Periodic) String() string {
	return p.desc
}

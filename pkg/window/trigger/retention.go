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

	"github.com/GaaraJWH/jstorm/pkg/window"
)

// Retention purges a window which has been inactive for longer than the horizon, or a closed window once the time
// has gone past its end by more than the horizon. It never fires, it is what reclaims memory.
type Retention struct {
	horizon time.Duration
}

var _ Trigger = (*Retention)(nil)

// NewRetention returns a retention trigger, the horizon has to be positive.
func NewRetention(horizon time.Duration) (*Retention, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: retention trigger requires a positive horizon, got %s", window.ErrInvalidConfiguration, horizon)
	}
	return &Retention{horizon: horizon}, nil
}

func (r *Retention) OnElement(_ *window.Event, ctx Context) Result {
	// a single timer per window, it is moved forward lazily in OnTime when the window saw activity since.
	if ctx.TotalCount() == 1 {
		ctx.RegisterTimer(r.deadline(ctx))
	}
	return Continue
}

func (r *Retention) OnTime(firingTime time.Time, ctx Context) Result {
	if r.expired(firingTime, ctx) {
		return Purge
	}
	ctx.RegisterTimer(r.deadline(ctx))
	return Continue
}

// deadline is the earliest instant at which the window could be expired.
func (r *Retention) deadline(ctx Context) time.Time {
	d := ctx.LastActivity().Add(r.horizon + time.Nanosecond)
	if id := ctx.Window(); id.Bounded() {
		if closed := id.End.Add(r.horizon + time.Nanosecond); closed.Before(d) {
			return closed
		}
	}
	return d
}

func (r *Retention) expired(now time.Time, ctx Context) bool {
	if now.Sub(ctx.LastActivity()) > r.horizon {
		return true
	}
	id := ctx.Window()
	return id.Bounded() && now.After(id.End.Add(r.horizon))
}

func (r *Retention) String() string {
	return fmt.Sprintf("Retention(%s)", r.horizon)
}

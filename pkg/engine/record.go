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
	"time"

	"github.com/GaaraJWH/jstorm/pkg/window"
	"github.com/GaaraJWH/jstorm/pkg/window/clock"
)

// record is the bookkeeping of a live window.
type record struct {
	id           window.ID
	createdAt    time.Time
	lastActivity time.Time
	lastFire     time.Time
	fires        int
	elements     int64
	total        int64
	timers       clock.Timers
}

func newRecord(id window.ID, now time.Time) *record {
	return &record{
		id:           id,
		createdAt:    now,
		lastActivity: now,
	}
}

// windowContext exposes a record to the trigger, it implements trigger.Context.
type windowContext struct {
	rec *record
	now time.Time
}

func (c *windowContext) Window() window.ID {
	return c.rec.id
}

func (c *windowContext) Now() time.Time {
	return c.now
}

func (c *windowContext) CreatedAt() time.Time {
	return c.rec.createdAt
}

func (c *windowContext) LastActivity() time.Time {
	return c.rec.lastActivity
}

func (c *windowContext) ElementCount() int64 {
	return c.rec.elements
}

func (c *windowContext) TotalCount() int64 {
	return c.rec.total
}

func (c *windowContext) FireCount() int {
	return c.rec.fires
}

func (c *windowContext) LastFireTime() time.Time {
	return c.rec.lastFire
}

func (c *windowContext) RegisterTimer(t time.Time) {
	c.rec.timers.Add(t)
}

func (c *windowContext) DeleteTimer(t time.Time) {
	c.rec.timers.Delete(t)
}

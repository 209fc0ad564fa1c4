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

// Count fires every N elements since the last fire. It never purges.
type Count struct {
	n int64
}

var _ Trigger = (*Count)(nil)

// NewCount returns a count trigger, n has to be positive.
func NewCount(n int64) (*Count, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: count trigger requires a positive count, got %d", window.ErrInvalidConfiguration, n)
	}
	return &Count{n: n}, nil
}

func (c *Count) OnElement(_ *window.Event, ctx Context) Result {
	if ctx.ElementCount() >= c.n {
		return Fire
	}
	return Continue
}

func (c *Count) OnTime(time.Time, Context) Result {
	return Continue
}

func (c *Count) String() string {
	return fmt.Sprintf("Count(%d)", c.n)
}

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
	"strings"
	"time"

	"github.com/GaaraJWH/jstorm/pkg/window"
)

// Composite evaluates every child trigger and merges their results. Every child is always evaluated, so the children
// can keep their timers armed even when another child already fired or purged.
type Composite struct {
	children []Trigger
}

var _ Trigger = (*Composite)(nil)

// Or returns a composite of the given triggers.
func Or(children ...Trigger) (*Composite, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: composite trigger requires at least one child", window.ErrInvalidConfiguration)
	}
	for i, c := range children {
		if c == nil {
			return nil, fmt.Errorf("%w: composite trigger child %d is nil", window.ErrInvalidConfiguration, i)
		}
	}
	return &Composite{children: children}, nil
}

func (c *Composite) OnElement(ev *window.Event, ctx Context) Result {
	result := Continue
	for _, child := range c.children {
		result = Merge(result, child.OnElement(ev, ctx))
	}
	return result
}

func (c *Composite) OnTime(firingTime time.Time, ctx Context) Result {
	result := Continue
	for _, child := range c.children {
		result = Merge(result, child.OnTime(firingTime, ctx))
	}
	return result
}

func (c *Composite) String() string {
	names := make([]string, 0, len(c.children))
	for _, child := range c.children {
		names = append(names, child.String())
	}
	return fmt.Sprintf("Or(%s)", strings.Join(names, ", "))
}

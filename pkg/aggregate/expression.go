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

package aggregate

import (
	"fmt"

	"github.com/GaaraJWH/jstorm/pkg/engine"
	"github.com/GaaraJWH/jstorm/pkg/shared/expr"
	"github.com/GaaraJWH/jstorm/pkg/window"
)

// Filter tells whether an event takes part in the aggregation.
type Filter func(ev *window.Event) (bool, error)

// KeyExpression returns a KeyFunc evaluating the expression against every event, e.g. `json(payload).user`.
func KeyExpression(expression string) (engine.KeyFunc, error) {
	p, err := compile(expression)
	if err != nil {
		return nil, err
	}
	return func(ev *window.Event) (string, error) {
		return p.EvalString(expr.NewEnv(ev.Key, ev.Payload, ev.EventTime))
	}, nil
}

// ValueExpression returns a ValueFunc evaluating the expression against every event, e.g. `json(payload).amount`.
func ValueExpression(expression string) (ValueFunc, error) {
	p, err := compile(expression)
	if err != nil {
		return nil, err
	}
	return func(ev *window.Event) (interface{}, error) {
		v, err := p.Eval(expr.NewEnv(ev.Key, ev.Payload, ev.EventTime))
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, ErrNoValue
		}
		return v, nil
	}, nil
}

// FilterExpression returns a Filter evaluating the boolean expression against every event.
func FilterExpression(expression string) (Filter, error) {
	p, err := compile(expression)
	if err != nil {
		return nil, err
	}
	return func(ev *window.Event) (bool, error) {
		return p.EvalBool(expr.NewEnv(ev.Key, ev.Payload, ev.EventTime))
	}, nil
}

func compile(expression string) (*expr.Program, error) {
	p, err := expr.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", window.ErrInvalidConfiguration, err)
	}
	return p, nil
}

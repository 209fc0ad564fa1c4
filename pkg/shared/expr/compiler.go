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

// Package expr evaluates user supplied expressions against events. An expression is compiled once and run for
// every event, it can refer to the event through the variables key, payload and eventTime, and use the helper
// functions json, int, string and sprig.
package expr

import (
	"fmt"
	"time"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/parser"
	"github.com/spf13/cast"
)

// Program is a parsed expression. It is type checked against the environment of every event it runs with, since the
// type of the payload is only known then.
type Program struct {
	expression string
}

// Compile parses the expression so that syntax errors surface before the first event.
func Compile(expression string) (*Program, error) {
	if _, err := parser.Parse(expression); err != nil {
		return nil, fmt.Errorf("unable to compile expression '%s': %s", expression, err)
	}
	return &Program{expression: expression}, nil
}

func (p *Program) String() string {
	return p.expression
}

// Eval runs the program against the environment.
func (p *Program) Eval(env map[string]interface{}) (interface{}, error) {
	result, err := expr.Eval(p.expression, env)
	if err != nil {
		return nil, fmt.Errorf("unable to evaluate expression '%s': %s", p.expression, err)
	}
	return result, nil
}

// EvalString runs the program and casts the result to a string.
func (p *Program) EvalString(env map[string]interface{}) (string, error) {
	result, err := p.Eval(env)
	if err != nil {
		return "", err
	}
	s, err := cast.ToStringE(result)
	if err != nil {
		return "", fmt.Errorf("unable to cast expression result '%v' to string", result)
	}
	return s, nil
}

// EvalBool runs the program and expects a boolean result.
func (p *Program) EvalBool(env map[string]interface{}) (bool, error) {
	result, err := p.Eval(env)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("unable to cast expression result '%v' to bool", result)
	}
	return b, nil
}

// NewEnv returns the environment of an event. A []byte payload is exposed as a string, the dotted keys of a map
// payload are expanded into nested maps.
func NewEnv(key string, payload interface{}, eventTime time.Time) map[string]interface{} {
	switch p := payload.(type) {
	case []byte:
		payload = string(p)
	case map[string]interface{}:
		payload = Expand(p)
	}
	return getFuncMap(map[string]interface{}{
		"key":       key,
		root:        payload,
		"eventTime": eventTime,
	})
}

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

// Package aggregate provides ready made accumulators and the expression based extraction of grouping keys and
// values from events.
package aggregate

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/GaaraJWH/jstorm/pkg/window"
	"github.com/GaaraJWH/jstorm/pkg/window/state"
)

// ErrNoValue is returned when an event carries no value to aggregate.
var ErrNoValue = errors.New("event carries no value")

// Aggregation pairs the constructor of an accumulator with the function folding events into it.
type Aggregation[A any] struct {
	Init state.InitFunc[A]
	Fold state.FoldFunc[A]
}

// ValueFunc extracts the value to aggregate from an event.
type ValueFunc func(ev *window.Event) (interface{}, error)

// Payload uses the payload of the event as the value.
func Payload(ev *window.Event) (interface{}, error) {
	if ev.Payload == nil {
		return nil, ErrNoValue
	}
	return ev.Payload, nil
}

// Count counts the events.
func Count() Aggregation[int64] {
	return Aggregation[int64]{
		Init: func() int64 { return 0 },
		Fold: func(acc int64, _ *window.Event) (int64, error) {
			return acc + 1, nil
		},
	}
}

// Sum adds up the values as float64. A value which can't be converted fails the fold.
func Sum(value ValueFunc) Aggregation[float64] {
	return Aggregation[float64]{
		Init: func() float64 { return 0 },
		Fold: func(acc float64, ev *window.Event) (float64, error) {
			v, err := toFloat64(value, ev)
			if err != nil {
				return acc, err
			}
			return acc + v, nil
		},
	}
}

// DecimalSum adds up the values without loss of precision, e.g. for monetary amounts.
func DecimalSum(value ValueFunc) Aggregation[decimal.Decimal] {
	return Aggregation[decimal.Decimal]{
		Init: func() decimal.Decimal { return decimal.Zero },
		Fold: func(acc decimal.Decimal, ev *window.Event) (decimal.Decimal, error) {
			v, err := value(ev)
			if err != nil {
				return acc, err
			}
			d, err := toDecimal(v)
			if err != nil {
				return acc, err
			}
			return acc.Add(d), nil
		},
	}
}

// Summary holds the count, sum and extremes of the values.
type Summary struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
}

// Mean returns the average of the values, zero when there is none.
func (s Summary) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

func (s Summary) String() string {
	return fmt.Sprintf("count=%d sum=%g min=%g max=%g mean=%g", s.Count, s.Sum, s.Min, s.Max, s.Mean())
}

// Stats keeps a Summary of the values.
func Stats(value ValueFunc) Aggregation[Summary] {
	return Aggregation[Summary]{
		Init: func() Summary {
			return Summary{Min: math.Inf(1), Max: math.Inf(-1)}
		},
		Fold: func(acc Summary, ev *window.Event) (Summary, error) {
			v, err := toFloat64(value, ev)
			if err != nil {
				return acc, err
			}
			acc.Count++
			acc.Sum += v
			acc.Min = math.Min(acc.Min, v)
			acc.Max = math.Max(acc.Max, v)
			return acc, nil
		},
	}
}

func toFloat64(value ValueFunc, ev *window.Event) (float64, error) {
	v, err := value(ev)
	if err != nil {
		return 0, err
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("value %v is not numeric, %w", v, err)
	}
	return f, nil
}

func toDecimal(v interface{}) (decimal.Decimal, error) {
	switch w := v.(type) {
	case decimal.Decimal:
		return w, nil
	case float64:
		return decimal.NewFromFloat(w), nil
	case float32:
		return decimal.NewFromFloat32(w), nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("value %v is not numeric, %w", v, err)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("value %v is not numeric, %w", v, err)
	}
	return d, nil
}

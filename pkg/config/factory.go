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

package config

import (
	"strings"
	"time"

	"github.com/GaaraJWH/jstorm/pkg/aggregate"
	"github.com/GaaraJWH/jstorm/pkg/engine"
	"github.com/GaaraJWH/jstorm/pkg/shard"
	"github.com/GaaraJWH/jstorm/pkg/window"
	"github.com/GaaraJWH/jstorm/pkg/window/strategy/accumulate"
	"github.com/GaaraJWH/jstorm/pkg/window/strategy/fixed"
	"github.com/GaaraJWH/jstorm/pkg/window/strategy/sliding"
	"github.com/GaaraJWH/jstorm/pkg/window/trigger"
)

// NewAssigner returns the assigner of the window configuration. now is the creation time of an accumulate window.
func NewAssigner(c WindowConfig, now time.Time) (window.Assigner, error) {
	var (
		a   window.Assigner
		err error
	)
	switch strings.ToLower(c.Strategy) {
	case StrategyFixed:
		a, err = fixed.New(c.Length)
	case StrategySliding:
		a, err = sliding.New(c.Length, c.Slide)
	case StrategyAccumulate, "accumulating":
		a, err = accumulate.New(c.Slot, c.RetirePeriod, now)
	default:
		err = invalid("unknown window strategy %q", c.Strategy)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// NewTrigger returns the trigger of the trigger configuration, composite triggers are built recursively.
func NewTrigger(c TriggerConfig) (trigger.Trigger, error) {
	var (
		t   trigger.Trigger
		err error
	)
	switch strings.ToLower(c.Strategy) {
	case TriggerCount:
		t, err = trigger.NewCount(c.Count)
	case TriggerPeriodic:
		if c.Schedule != "" {
			t, err = trigger.NewPeriodicFromSpec(c.Schedule)
		} else {
			t, err = trigger.NewPeriodic(c.Period)
		}
	case TriggerRetention:
		t, err = trigger.NewRetention(c.Horizon)
	case TriggerComposite:
		children := make([]trigger.Trigger, 0, len(c.Children))
		for _, child := range c.Children {
			ct, err := NewTrigger(child)
			if err != nil {
				return nil, err
			}
			children = append(children, ct)
		}
		t, err = trigger.Or(children...)
	default:
		err = invalid("unknown trigger strategy %q", c.Strategy)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func parseCloseMode(s string) (engine.CloseMode, error) {
	switch strings.ToLower(s) {
	case CloseModeFlush:
		return engine.CloseFlush, nil
	case CloseModeDiscard:
		return engine.CloseDiscard, nil
	default:
		return engine.CloseDiscard, invalid("unknown close mode %q", s)
	}
}

// KeyFunc returns the key function of the configuration, the event key unless a key expression is configured.
func (c *Config) KeyFunc() (engine.KeyFunc, error) {
	if c.KeyExpression == "" {
		return func(ev *window.Event) (string, error) {
			return ev.Key, nil
		}, nil
	}
	return aggregate.KeyExpression(c.KeyExpression)
}

// EngineOptions returns the engine options of the configuration.
func (c *Config) EngineOptions() ([]engine.Option, error) {
	mode, err := parseCloseMode(c.CloseMode)
	if err != nil {
		return nil, err
	}
	keyFunc, err := c.KeyFunc()
	if err != nil {
		return nil, err
	}
	return []engine.Option{
		engine.WithRetentionHorizon(c.RetentionHorizon),
		engine.WithFireOnEvict(c.FireOnEvict),
		engine.WithCloseMode(mode),
		engine.WithKeyFunc(keyFunc),
	}, nil
}

// RouterOptions returns the router options of the configuration.
func (c *Config) RouterOptions() ([]shard.Option, error) {
	opts := []shard.Option{
		shard.WithBufferSize(c.BufferSize),
		shard.WithTickInterval(c.TickInterval),
	}
	if c.FilterExpression != "" {
		f, err := aggregate.FilterExpression(c.FilterExpression)
		if err != nil {
			return nil, err
		}
		opts = append(opts, shard.WithFilter(f))
	}
	return opts, nil
}

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

// Package config loads the configuration of the window engine from a YAML file and WINDOWER_ prefixed environment
// variables, and builds the assigner, trigger and engine options it describes.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/GaaraJWH/jstorm/pkg/window"
)

// EnvPrefix is the prefix of the environment variables overriding the configuration, e.g. WINDOWER_WINDOW_LENGTH.
const EnvPrefix = "WINDOWER"

const (
	StrategyFixed      = "fixed"
	StrategySliding    = "sliding"
	StrategyAccumulate = "accumulate"

	TriggerCount     = "count"
	TriggerPeriodic  = "periodic"
	TriggerRetention = "retention"
	TriggerComposite = "composite"

	CloseModeFlush   = "flush"
	CloseModeDiscard = "discard"
)

type Config struct {
	Window           WindowConfig  `json:"window"`
	Trigger          TriggerConfig `json:"trigger"`
	RetentionHorizon time.Duration `json:"retentionHorizon"`
	FireOnEvict      bool          `json:"fireOnEvict"`
	CloseMode        string        `json:"closeMode"`
	TickInterval     time.Duration `json:"tickInterval"`
	Parallelism      int           `json:"parallelism"`
	BufferSize       int           `json:"bufferSize"`
	KeyExpression    string        `json:"keyExpression"`
	FilterExpression string        `json:"filterExpression"`
}

type WindowConfig struct {
	Strategy     string        `json:"strategy"`
	Length       time.Duration `json:"length"`
	Slide        time.Duration `json:"slide"`
	RetirePeriod time.Duration `json:"retirePeriod"`
	Slot         string        `json:"slot"`
}

type TriggerConfig struct {
	Strategy string        `json:"strategy"`
	Count    int64         `json:"count"`
	Period   time.Duration `json:"period"`
	// Schedule is a cron schedule, it takes precedence over Period.
	Schedule string          `json:"schedule"`
	Horizon  time.Duration   `json:"horizon"`
	Children []TriggerConfig `json:"children"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.strategy", StrategyFixed)
	v.SetDefault("window.length", 10*time.Second)
	v.SetDefault("window.slide", time.Duration(0))
	v.SetDefault("window.retirePeriod", time.Duration(0))
	v.SetDefault("window.slot", "")
	v.SetDefault("trigger.strategy", TriggerPeriodic)
	v.SetDefault("trigger.count", 0)
	v.SetDefault("trigger.period", 10*time.Second)
	v.SetDefault("trigger.schedule", "")
	v.SetDefault("trigger.horizon", time.Duration(0))
	v.SetDefault("retentionHorizon", time.Minute)
	v.SetDefault("fireOnEvict", false)
	v.SetDefault("closeMode", CloseModeFlush)
	v.SetDefault("tickInterval", time.Second)
	v.SetDefault("parallelism", 1)
	v.SetDefault("bufferSize", 1000)
	v.SetDefault("keyExpression", "")
	v.SetDefault("filterExpression", "")
}

// LoadConfig reads the configuration file, when a path is given, and applies the environment overrides on top of the
// defaults. The returned configuration is validated.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load configuration file. %w", err)
		}
	}
	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("failed unmarshal configuration file. %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks the configuration without creating anything.
func (c *Config) Validate() error {
	if _, err := NewAssigner(c.Window, time.Now()); err != nil {
		return err
	}
	if _, err := NewTrigger(c.Trigger); err != nil {
		return err
	}
	if c.RetentionHorizon <= 0 {
		return invalid("retentionHorizon must be positive, got %s", c.RetentionHorizon)
	}
	if c.TickInterval <= 0 {
		return invalid("tickInterval must be positive, got %s", c.TickInterval)
	}
	if c.Parallelism <= 0 {
		return invalid("parallelism must be positive, got %d", c.Parallelism)
	}
	if c.BufferSize < 0 {
		return invalid("bufferSize must not be negative, got %d", c.BufferSize)
	}
	if _, err := parseCloseMode(c.CloseMode); err != nil {
		return err
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", window.ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

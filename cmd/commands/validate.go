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

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GaaraJWH/jstorm/pkg/config"
)

func NewValidateCommand() *cobra.Command {
	var configPath string
	command := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			trig, err := config.NewTrigger(conf.Trigger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "window: %s, trigger: %s, retention horizon: %s, parallelism: %d\n",
				conf.Window.Strategy, trig, conf.RetentionHorizon, conf.Parallelism)
			return nil
		},
	}
	command.Flags().StringVar(&configPath, "config", "", "Path of the configuration file, defaults and WINDOWER_ environment variables apply when empty")
	return command
}

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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/GaaraJWH/jstorm"
	"github.com/GaaraJWH/jstorm/pkg/aggregate"
	"github.com/GaaraJWH/jstorm/pkg/config"
	"github.com/GaaraJWH/jstorm/pkg/engine"
	"github.com/GaaraJWH/jstorm/pkg/metrics"
	"github.com/GaaraJWH/jstorm/pkg/shard"
	"github.com/GaaraJWH/jstorm/pkg/shared/logging"
	"github.com/GaaraJWH/jstorm/pkg/window"
)

func NewWordCountCommand() *cobra.Command {
	var (
		configPath  string
		inputPath   string
		metricsAddr string
	)

	command := &cobra.Command{
		Use:   "wordcount",
		Short: "Count the words read from the input per window",
		Long: "Reads sentences line by line, splits them into words and counts every word per window. " +
			"The fired windows are written to the standard output as '[start~end] word: count'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := jstorm.GetVersion()
			log := logging.NewLogger().Named("wordcount")
			log.Infow("Starting word count", "version", v.Version)
			metrics.BuildInfo.WithLabelValues(v.Version, v.Platform).Set(1)

			conf, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if inputPath != "" {
				f, err := os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("failed to open the input, %w", err)
				}
				defer f.Close()
				in = f
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWordCount(logging.WithLogger(ctx, log), conf, in, cmd.OutOrStdout(), metricsAddr)
		},
	}
	command.Flags().StringVar(&configPath, "config", "", "Path of the configuration file")
	command.Flags().StringVar(&inputPath, "input", "", "Path of the input file, standard input when empty")
	command.Flags().StringVar(&metricsAddr, "metrics-addr", metrics.DefaultAddr, "Address of the metrics server, disabled when empty")
	return command
}

// printer writes the fired windows of all the units, one line per word.
type printer struct {
	sync.Mutex
	out io.Writer
	log *zap.SugaredLogger
}

func (p *printer) emit(_ context.Context, fired *engine.Fired[int64]) error {
	p.log.Infow("Window fired", zap.String("range", fired.TimeRange), zap.String("reason", fired.Reason),
		zap.Int("words", len(fired.Snapshot)), zap.Int("fireCount", fired.FireCount))
	p.Lock()
	defer p.Unlock()
	for _, e := range fired.Snapshot {
		if _, err := fmt.Fprintf(p.out, "%s %s: %d\n", fired.TimeRange, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func runWordCount(ctx context.Context, conf *config.Config, in io.Reader, out io.Writer, metricsAddr string) error {
	log := logging.FromContext(ctx)
	engineOpts, err := conf.EngineOptions()
	if err != nil {
		return err
	}
	routerOpts, err := conf.RouterOptions()
	if err != nil {
		return err
	}
	keyFunc, err := conf.KeyFunc()
	if err != nil {
		return err
	}

	p := &printer{out: out, log: log}
	count := aggregate.Count()
	factory := func(ctx context.Context, unit int) (*engine.Engine[int64], error) {
		assigner, err := config.NewAssigner(conf.Window, time.Now())
		if err != nil {
			return nil, err
		}
		trig, err := config.NewTrigger(conf.Trigger)
		if err != nil {
			return nil, err
		}
		opts := append([]engine.Option{engine.WithName(fmt.Sprintf("wordcount-%d", unit))}, engineOpts...)
		return engine.New[int64](ctx, assigner, trig, count.Init, count.Fold, p.emit, opts...)
	}
	router, err := shard.NewRouter[int64](ctx, conf.Parallelism, factory, keyFunc, routerOpts...)
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		ms := metrics.NewMetricsServer(metrics.NewMetricsOptions(ctx, metricsAddr, []metrics.HealthChecker{router})...)
		shutdown := ms.Start(ctx)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				log.Warnw("Failed to shutdown the metrics server", zap.Error(err))
			}
		}()
	}

	// the router is closed once the input is exhausted, the units then flush and stop
	readErr := make(chan error, 1)
	go func() {
		readErr <- readWords(ctx, in, router)
		router.Close()
	}()
	runErr := router.Run(ctx)
	select {
	case err := <-readErr:
		return multierr.Append(runErr, err)
	default:
		// interrupted while the input is still open
		return runErr
	}
}

func readWords(ctx context.Context, in io.Reader, router *shard.Router[int64]) error {
	log := logging.FromContext(ctx)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		for _, word := range strings.Fields(scanner.Text()) {
			err := router.Submit(ctx, &window.Event{Key: word, Payload: word, EventTime: time.Now()})
			switch {
			case err == nil:
			case errors.Is(err, shard.ErrClosed), errors.Is(err, shard.ErrUnitStopped), ctx.Err() != nil:
				return nil
			default:
				log.Warnw("Dropping word", zap.String("word", word), zap.Error(err))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read the input, %w", err)
	}
	return nil
}

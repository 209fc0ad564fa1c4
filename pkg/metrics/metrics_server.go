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

package metrics

import (
	"context"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GaaraJWH/jstorm/pkg/shared/logging"
	"github.com/GaaraJWH/jstorm/pkg/shared/util"
)

const (
	// DefaultAddr is the address the metrics server listens on when none is given
	DefaultAddr = ":2469"
	// EnvPPROF enables the pprof endpoints when set to true
	EnvPPROF = "WINDOWER_PPROF"
)

// metricsServer runs an HTTP server to:
// 1. Expose metrics;
// 2. Serve an endpoint to execute health checks
type metricsServer struct {
	addr string
	// Functions that health check executes
	healthCheckExecutors []func() error
}

type Option func(*metricsServer)

// WithAddr sets the listen address
func WithAddr(addr string) Option {
	return func(m *metricsServer) {
		m.addr = addr
	}
}

// WithHealthCheckExecutor appends a health check executor
func WithHealthCheckExecutor(f func() error) Option {
	return func(m *metricsServer) {
		m.healthCheckExecutors = append(m.healthCheckExecutors, f)
	}
}

// NewMetricsOptions returns the metrics server options checking the given health checkers
func NewMetricsOptions(ctx context.Context, addr string, healthCheckers []HealthChecker) []Option {
	metricsOpts := []Option{WithAddr(addr)}
	for _, hc := range healthCheckers {
		checker := hc
		metricsOpts = append(metricsOpts, WithHealthCheckExecutor(func() error {
			cctx, cancel := context.WithTimeout(ctx, 20*time.Second)
			defer cancel()
			return checker.IsHealthy(cctx)
		}))
	}
	return metricsOpts
}

// NewMetricsServer returns a Prometheus metrics server instance, which can be used to start an HTTP service to expose Prometheus metrics.
func NewMetricsServer(opts ...Option) *metricsServer {
	m := new(metricsServer)
	m.addr = DefaultAddr
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Handler returns the handler serving the metrics and health endpoints
func (ms *metricsServer) Handler(ctx context.Context) http.Handler {
	log := logging.FromContext(ctx)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		for _, ex := range ms.healthCheckExecutors {
			if err := ex(); err != nil {
				log.Errorw("Failed to execute health check", zap.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if util.LookupEnvBoolOr(logging.EnvDebug, false) || util.LookupEnvBoolOr(EnvPPROF, false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	} else {
		log.Info("Not enabling pprof debug endpoints")
	}
	return mux
}

// Start function starts the HTTP service to expose metrics, it returns a shutdown function
func (ms *metricsServer) Start(ctx context.Context) func(ctx context.Context) error {
	log := logging.FromContext(ctx)
	httpServer := &http.Server{
		Addr:              ms.addr,
		Handler:           ms.Handler(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infow("Starting metrics HTTP server", zap.String("addr", ms.addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("Failed to listen-and-serve on HTTP", zap.Error(err))
		}
		log.Info("Metrics server shutdown")
	}()
	return httpServer.Shutdown
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"supportdesk/internal/config"
	"supportdesk/internal/gateway"
	"supportdesk/internal/knowledge"
	"supportdesk/internal/logging"
	"supportdesk/internal/metrics"
	"supportdesk/internal/orchestrator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// app bundles everything a command needs, built once from cfg.
type app struct {
	cfg      *config.Config
	kb       *knowledge.Base
	gateway  *gateway.Gateway
	agent    *orchestrator.Agent
	registry *prometheus.Registry
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	kb, err := knowledge.Open(ctx, cfg.Knowledge)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewPrometheus(registry)

	gw := gateway.New(ctx, cfg.LLM, gateway.WithRecorder(recorder))
	if !gw.Configured() {
		logging.BootWarn("no Gemini API key configured, unmatched questions will be escalated")
	}

	agent := orchestrator.New(kb, gw, cfg, orchestrator.WithRecorder(recorder))
	logging.Boot("ready: %d FAQ entries, model %s, strategies %v", kb.Len(), gw.Model(), gw.Strategies())

	return &app{
		cfg:      cfg,
		kb:       kb,
		gateway:  gw,
		agent:    agent,
		registry: registry,
	}, nil
}

// serveMetrics exposes the registry on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Get(logging.CategoryMetrics).Sugar().Infof("serving metrics on %s/metrics", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

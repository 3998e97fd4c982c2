// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wagtail-net/wagtail/internal/helper"
	"github.com/wagtail-net/wagtail/internal/logger"
	"github.com/wagtail-net/wagtail/pkg/checks/runtime"
	"gopkg.in/yaml.v3"
)

var _ Loader = (*HttpLoader)(nil)

type HttpLoader struct {
	config   LoaderConfig
	cRuntime chan<- runtime.Config
	client   *http.Client
	done     chan struct{}
}

func NewHttpLoader(cfg *Config, cRuntime chan<- runtime.Config) *HttpLoader {
	return &HttpLoader{
		config:   cfg.Loader,
		cRuntime: cRuntime,
		client: &http.Client{
			Timeout: cfg.Loader.Http.Timeout,
		},
		done: make(chan struct{}, 1),
	}
}

// Run gets the runtime configuration from the remote endpoint.
// The config will be loaded periodically defined by the loader interval configuration.
// Failed loads are retried with the configured retry mechanism.
// If the interval is 0, the configuration is only fetched once and the loader is disabled.
func (h *HttpLoader) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	getConfigRetry := helper.Retry(func(ctx context.Context) (err error) {
		cfg, err := h.getRuntimeConfig(ctx)
		if err != nil {
			return err
		}
		h.cRuntime <- cfg
		return nil
	}, h.config.Http.RetryCfg)

	if err := getConfigRetry(ctx); err != nil {
		log.Warn("Could not get remote runtime configuration", "error", err)
	}

	if h.config.Interval == 0 {
		log.Info("HTTP Loader disabled")
		return nil
	}

	tick := time.NewTicker(h.config.Interval)
	defer tick.Stop()

	for {
		select {
		case <-h.done:
			log.Info("HTTP Loader terminated")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			if err := getConfigRetry(ctx); err != nil {
				log.Warn("Could not get remote runtime configuration", "error", err)
			}
			tick.Reset(h.config.Interval)
		}
	}
}

// getRuntimeConfig gets the remote runtime configuration from the configured endpoint.
func (h *HttpLoader) getRuntimeConfig(ctx context.Context) (cfg runtime.Config, err error) {
	log := logger.FromContext(ctx).With("url", h.config.Http.Url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.config.Http.Url, http.NoBody)
	if err != nil {
		log.Error("Could not create http request", "error", err)
		return cfg, fmt.Errorf("failed to create request: %w", err)
	}
	if h.config.Http.Token != "" {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", h.config.Http.Token))
	}

	res, err := h.client.Do(req)
	if err != nil {
		log.Error("Failed to fetch runtime configuration", "error", err)
		return cfg, fmt.Errorf("failed to fetch runtime configuration: %w", err)
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil {
			log.Error("Failed to close response body", "error", cerr)
		}
	}()

	if res.StatusCode != http.StatusOK {
		log.Error("Unexpected status code fetching runtime configuration", "status", res.Status)
		return cfg, fmt.Errorf("request failed, status is %s", res.Status)
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		log.Error("Failed to read response body", "error", err)
		return cfg, fmt.Errorf("failed to read response body: %w", err)
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		log.Error("Failed to parse runtime configuration", "error", err)
		return cfg, fmt.Errorf("failed to parse runtime configuration: %w", err)
	}

	return cfg, nil
}

func (h *HttpLoader) Shutdown(ctx context.Context) {
	log := logger.FromContext(ctx)
	select {
	case h.done <- struct{}{}:
		log.Debug("Sending signal to shut down http loader")
	default:
	}
}

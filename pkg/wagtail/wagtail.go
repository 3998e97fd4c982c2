// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package wagtail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wagtail-net/wagtail/internal/logger"
	"github.com/wagtail-net/wagtail/pkg/api"
	"github.com/wagtail-net/wagtail/pkg/checks/runtime"
	"github.com/wagtail-net/wagtail/pkg/config"
	"github.com/wagtail-net/wagtail/pkg/db"
	"github.com/wagtail-net/wagtail/pkg/wagtail/metrics"
)

const shutdownTimeout = time.Second * 90

// Wagtail is the main struct of the wagtail application
type Wagtail struct {
	// config is the startup configuration of the wagtail instance
	config *config.Config
	// db is the database used to store the check results
	db db.DB
	// api is the wagtail's API
	api api.API
	// loader is used to load the runtime configuration
	loader config.Loader
	// metrics is used to collect metrics
	metrics metrics.Provider
	// controller is used to manage the checks
	controller *ChecksController
	// cRuntime is used to signal that the runtime configuration has changed
	cRuntime chan runtime.Config
	// cErr is used to handle non-recoverable errors of the wagtail components
	cErr chan error
	// cDone is used to signal that the wagtail instance was shut down because of an error
	cDone chan struct{}
	// shutOnce is used to ensure that the shutdown function is only called once
	shutOnce sync.Once
}

// New creates a new wagtail instance from a given config
func New(ctx context.Context, cfg *config.Config) (*Wagtail, error) {
	m := metrics.New(cfg.Telemetry)
	if err := metrics.RegisterInstanceInfo(m.GetRegistry(), cfg.Name, cfg.Region); err != nil {
		return nil, fmt.Errorf("failed to register instance info: %w", err)
	}

	dbase, err := db.New(ctx, cfg.Database, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	w := &Wagtail{
		config:     cfg,
		db:         dbase,
		api:        api.New(cfg.Api),
		metrics:    m,
		controller: NewChecksController(dbase, m),
		cRuntime:   make(chan runtime.Config, 1),
		cErr:       make(chan error, 1),
		cDone:      make(chan struct{}, 1),
		shutOnce:   sync.Once{},
	}
	w.loader = config.NewLoader(cfg, w.cRuntime)

	return w, nil
}

// Run starts the wagtail instance
func (w *Wagtail) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	log := logger.FromContext(ctx)
	defer cancel()

	err := w.metrics.InitTracing(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	go func() {
		w.cErr <- w.loader.Run(ctx)
	}()

	go func() {
		w.cErr <- w.startupAPI(ctx)
	}()

	go func() {
		w.cErr <- w.controller.Run(ctx)
	}()

	for {
		select {
		case cfg := <-w.cRuntime:
			w.controller.Reconcile(ctx, cfg)
		case <-ctx.Done():
			w.shutdown(ctx)
		case err := <-w.cErr:
			if err != nil {
				log.Error("Non-recoverable error in wagtail component", "error", err)
				w.shutdown(ctx)
			}
		case <-w.cDone:
			log.InfoContext(ctx, "Wagtail was shut down")
			return ErrFinalShutdown
		}
	}
}

// shutdown shuts down the wagtail instance and all managed components gracefully.
func (w *Wagtail) shutdown(ctx context.Context) {
	errC := ctx.Err()
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	w.shutOnce.Do(func() {
		log.InfoContext(ctx, "Shutting down wagtail")
		var sErrs ErrShutdown
		sErrs.errAPI = w.api.Shutdown(ctx)
		sErrs.errMetrics = w.metrics.Shutdown(ctx)
		w.loader.Shutdown(ctx)
		w.controller.Shutdown(ctx)
		sErrs.errDB = w.db.Close(ctx)

		if sErrs.HasError() {
			log.ErrorContext(ctx, "Failed to shutdown gracefully", "contextError", errC, "errors", sErrs)
		}

		// Signal that shutdown is complete
		w.cDone <- struct{}{}
	})
}

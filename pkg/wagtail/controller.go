// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package wagtail

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/wagtail-net/wagtail/internal/logger"
	"github.com/wagtail-net/wagtail/pkg/checks"
	"github.com/wagtail-net/wagtail/pkg/checks/runtime"
	"github.com/wagtail-net/wagtail/pkg/db"
	"github.com/wagtail-net/wagtail/pkg/factory"
	"github.com/wagtail-net/wagtail/pkg/wagtail/metrics"
)

// ChecksController manages the lifecycle of the registered checks
// and stores their results.
type ChecksController struct {
	// db is the database the check results are stored in
	db db.DB
	// metrics is the metrics provider the check collectors are registered on
	metrics metrics.Provider
	// checks holds the currently registered checks
	checks runtime.Checks
	// cResult is the channel the checks send their results on
	cResult chan checks.ResultDTO
	// cErr is used to handle errors of running checks
	cErr chan error
	// done is used to signal the controller to stop
	done chan struct{}
}

// NewChecksController creates a new ChecksController
func NewChecksController(dbase db.DB, m metrics.Provider) *ChecksController {
	return &ChecksController{
		db:      dbase,
		metrics: m,
		checks:  runtime.Checks{},
		cResult: make(chan checks.ResultDTO, 8), //nolint:mnd // Buffered channel to avoid blocking the checks
		cErr:    make(chan error, 1),
		done:    make(chan struct{}, 1),
	}
}

// Run runs the controller loop until the context is canceled
// or the controller is shut down.
func (cc *ChecksController) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	for {
		select {
		case result := <-cc.cResult:
			if err := cc.db.Save(ctx, result); err != nil {
				log.ErrorContext(ctx, "Failed to save check result", "check", result.Name, "error", err)
			}
		case <-ctx.Done():
			return fmt.Errorf("context canceled: %w", ctx.Err())
		case err := <-cc.cErr:
			var runErr *ErrRunningCheck
			if errors.As(err, &runErr) {
				cc.UnregisterCheck(ctx, runErr.Check)
			}
			log.ErrorContext(ctx, "Check failed", "error", err)
		case <-cc.done:
			return nil
		}
	}
}

// Shutdown stops the controller and unregisters all checks
func (cc *ChecksController) Shutdown(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.InfoContext(ctx, "Shutting down checks controller")

	for c := range cc.checks.Iter() {
		cc.UnregisterCheck(ctx, c)
	}
	cc.done <- struct{}{}
	close(cc.done)
}

// Reconcile reconciles the registered checks with the runtime configuration:
// checks that are no longer configured are unregistered, existing checks are
// updated and newly configured checks are registered.
func (cc *ChecksController) Reconcile(ctx context.Context, cfg runtime.Config) {
	log := logger.FromContext(ctx)

	newChecks, err := factory.NewChecksFromConfig(cfg)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create checks from config", "error", err)
		return
	}

	// Update existing checks and unregister the removed ones
	for c := range cc.checks.Iter() {
		conf := cfg.For(c.Name())
		if conf == nil {
			cc.UnregisterCheck(ctx, c)
			continue
		}
		if err := c.UpdateConfig(conf); err != nil {
			log.ErrorContext(ctx, "Failed to update check config", "check", c.Name(), "error", err)
		}
		delete(newChecks, c.Name())
	}

	// Register the new checks
	for _, c := range newChecks {
		cc.RegisterCheck(ctx, c)
	}
}

// RegisterCheck registers a check and starts it
func (cc *ChecksController) RegisterCheck(ctx context.Context, check checks.Check) {
	log := logger.FromContext(ctx).With("check", check.Name())

	for _, collector := range check.GetMetricCollectors() {
		cc.metrics.GetRegistry().MustRegister(collector)
	}

	go func() {
		if err := check.Run(ctx, cc.cResult); err != nil {
			cc.cErr <- &ErrRunningCheck{Check: check, Err: err}
		}
	}()

	cc.checks.Add(check)
	log.InfoContext(ctx, "Check registered")
}

// UnregisterCheck stops a check and unregisters it
func (cc *ChecksController) UnregisterCheck(ctx context.Context, check checks.Check) {
	log := logger.FromContext(ctx).With("check", check.Name())

	for _, collector := range check.GetMetricCollectors() {
		cc.metrics.GetRegistry().Unregister(collector)
	}

	check.Shutdown()
	cc.checks.Delete(check)
	log.InfoContext(ctx, "Check unregistered")
}

// oapiBoilerplate is the static part of the aggregated openapi document
var oapiBoilerplate = openapi3.T{
	OpenAPI: "3.0.0",
	Info: &openapi3.Info{
		Title:       "wagtail metrics API",
		Description: "Serves the path measurements collected by the wagtail's checks",
		Contact:     &openapi3.Contact{},
	},
	Paths:      openapi3.NewPaths(),
	Components: &openapi3.Components{Schemas: make(openapi3.Schemas)},
}

// GenerateCheckSpecs generates the aggregated openapi document
// for all registered checks
func (cc *ChecksController) GenerateCheckSpecs(ctx context.Context) (openapi3.T, error) {
	log := logger.FromContext(ctx)
	doc := oapiBoilerplate

	for c := range cc.checks.Iter() {
		name := c.Name()
		ref, err := c.Schema()
		if err != nil {
			log.ErrorContext(ctx, "Failed to get schema of check", "check", name, "error", err)
			return openapi3.T{}, &ErrCreateOpenapiSchema{name: name, err: err}
		}

		routeDesc := fmt.Sprintf("Returns the performance data for check %s", name)
		bodyDesc := fmt.Sprintf("Metrics for check %s", name)
		doc.Paths.Set("/v1/metrics/"+name, &openapi3.PathItem{
			Description: routeDesc,
			Get: &openapi3.Operation{
				Description: routeDesc,
				Tags:        []string{"Metrics", name},
				Responses: openapi3.NewResponses(
					openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
						Value: openapi3.NewResponse().
							WithDescription(bodyDesc).
							WithJSONSchemaRef(ref),
					}),
				),
			},
		})
	}

	return doc, nil
}

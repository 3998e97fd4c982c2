// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package wagtail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wagtail-net/wagtail/internal/logger"
	"github.com/wagtail-net/wagtail/pkg/api"
	"gopkg.in/yaml.v3"
)

// startupAPI registers the wagtail routes and starts the API server
func (w *Wagtail) startupAPI(ctx context.Context) error {
	routes := []api.Route{
		{Path: "/openapi", Method: http.MethodGet, Handler: w.handleOpenAPI},
		{Path: "/v1/metrics/{checkName}", Method: http.MethodGet, Handler: w.handleCheckMetrics},
		{
			Path: "/metrics", Method: http.MethodGet,
			Handler: promhttp.HandlerFor(
				w.metrics.GetRegistry(),
				promhttp.HandlerOpts{Registry: w.metrics.GetRegistry()},
			).ServeHTTP,
		},
		{Path: "/healthz", Method: http.MethodGet, Handler: okHandler},
	}

	if err := w.api.RegisterRoutes(ctx, routes...); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}
	return w.api.Run(ctx)
}

// handleOpenAPI serves the aggregated openapi document of all registered checks
func (w *Wagtail) handleOpenAPI(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	oapi, err := w.controller.GenerateCheckSpecs(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create openapi document", "error", err)
		http.Error(rw, "failed to create openapi document", http.StatusInternalServerError)
		return
	}

	// The openapi document only marshals correctly through its json marshaler,
	// so the yaml representation is derived from the json one.
	data, err := json.Marshal(&oapi)
	if err != nil {
		log.ErrorContext(ctx, "Failed to marshal openapi document", "error", err)
		http.Error(rw, "failed to marshal openapi document", http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "application/json" {
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write(data)
		return
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		log.ErrorContext(ctx, "Failed to convert openapi document", "error", err)
		http.Error(rw, "failed to marshal openapi document", http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "text/yaml")
	if err := yaml.NewEncoder(rw).Encode(doc); err != nil {
		log.ErrorContext(ctx, "Failed to marshal openapi document", "error", err)
		http.Error(rw, "failed to marshal openapi document", http.StatusInternalServerError)
	}
}

// handleCheckMetrics serves the latest result of the requested check
func (w *Wagtail) handleCheckMetrics(rw http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	name := chi.URLParam(r, "checkName")
	res, ok := w.db.Get(name)
	if !ok {
		http.Error(rw, fmt.Sprintf("check %q not found", name), http.StatusNotFound)
		return
	}

	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(res); err != nil {
		log.ErrorContext(ctx, "Failed to marshal check result", "check", name, "error", err)
		http.Error(rw, "failed to marshal check result", http.StatusInternalServerError)
	}
}

// okHandler signals that the instance is up
func okHandler(rw http.ResponseWriter, _ *http.Request) {
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write([]byte("ok"))
}

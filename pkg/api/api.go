// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wagtail-net/wagtail/internal/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Config is the configuration for the api server
type Config struct {
	// ListeningAddress is the address the api server listens on
	ListeningAddress string `yaml:"address" mapstructure:"address"`
}

// Validate validates the api configuration
func (c *Config) Validate() error {
	if c.ListeningAddress == "" {
		return ErrInvalidListeningAddress
	}
	return nil
}

// API is the interface for the wagtail API server
//
//go:generate go tool moq -out api_moq.go . API
type API interface {
	// Run starts the API server. It blocks until the context
	// is canceled or the server stops with an error.
	Run(ctx context.Context) error
	// Shutdown gracefully stops the API server
	Shutdown(ctx context.Context) error
	// RegisterRoutes registers the given routes on the router
	RegisterRoutes(ctx context.Context, routes ...Route) error
}

// Route is a route of the API server
type Route struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

var _ API = (*api)(nil)

type api struct {
	server *http.Server
	router chi.Router
}

// New creates a new API server
func New(cfg Config) API {
	r := chi.NewRouter()
	return &api{
		server: &http.Server{
			Addr:              cfg.ListeningAddress,
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		router: r,
	}
}

// Run starts the API server
func (a *api) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	cErr := make(chan error, 1)
	go func() {
		cErr <- a.server.ListenAndServe()
	}()

	log.Info("Serving API", "address", a.server.Addr)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-cErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		log.Error("Failed to serve API", "error", err)
		return fmt.Errorf("failed to serve api: %w", err)
	}
}

// RegisterRoutes registers the given routes on the router.
// The logger middleware is attached so every handler finds
// a logger in its request context.
func (a *api) RegisterRoutes(ctx context.Context, routes ...Route) error {
	a.router.Use(logger.Middleware(ctx))

	for _, route := range routes {
		switch route.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			a.router.Method(route.Method, route.Path, route.Handler)
		default:
			return ErrUnsupportedMethod{Method: route.Method, Path: route.Path}
		}
	}

	return nil
}

// Shutdown gracefully stops the API server
func (a *api) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown api: %w", err)
	}
	return nil
}

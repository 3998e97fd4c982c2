// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package wagtail

import (
	"context"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagtail-net/wagtail/internal/traceroute"
	"github.com/wagtail-net/wagtail/pkg/checks"
	"github.com/wagtail-net/wagtail/pkg/checks/runtime"
	checktraceroute "github.com/wagtail-net/wagtail/pkg/checks/traceroute"
	"github.com/wagtail-net/wagtail/pkg/db"
	"github.com/wagtail-net/wagtail/pkg/wagtail/metrics"
)

// newCheckMock returns a CheckMock that blocks in Run until Shutdown is called.
func newCheckMock(name string) *checks.CheckMock {
	done := make(chan struct{}, 1)
	return &checks.CheckMock{
		NameFunc: func() string { return name },
		RunFunc: func(ctx context.Context, _ chan checks.ResultDTO) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-done:
				return nil
			}
		},
		ShutdownFunc:            func() { done <- struct{}{} },
		GetMetricCollectorsFunc: func() []prometheus.Collector { return nil },
		UpdateConfigFunc:        func(checks.Runtime) error { return nil },
		SchemaFunc: func() (*openapi3.SchemaRef, error) {
			return checks.OpenapiFromPerfData(map[string]string{})
		},
	}
}

func TestChecksController_Run_savesResults(t *testing.T) {
	dbase := &db.DBMock{
		SaveFunc: func(context.Context, checks.ResultDTO) error { return nil },
	}
	cc := NewChecksController(dbase, metrics.New(metrics.Config{}))

	go func() {
		if err := cc.Run(t.Context()); err != nil {
			t.Errorf("Run() error = %v", err)
		}
	}()
	defer cc.Shutdown(t.Context())

	cc.cResult <- checks.ResultDTO{Name: "traceroute", Result: &checks.Result{Data: "data"}}

	require.Eventually(t, func() bool {
		return len(dbase.SaveCalls()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "traceroute", dbase.SaveCalls()[0].Result.Name)
}

func TestChecksController_RegisterAndUnregister(t *testing.T) {
	cc := NewChecksController(db.NewInMemory(), metrics.New(metrics.Config{}))
	check := newCheckMock("mock")

	cc.RegisterCheck(t.Context(), check)
	var registered int
	for range cc.checks.Iter() {
		registered++
	}
	require.Equal(t, 1, registered)

	cc.UnregisterCheck(t.Context(), check)
	assert.Len(t, check.ShutdownCalls(), 1)
	registered = 0
	for range cc.checks.Iter() {
		registered++
	}
	assert.Equal(t, 0, registered)
}

func TestChecksController_Reconcile(t *testing.T) {
	cc := NewChecksController(db.NewInMemory(), metrics.New(metrics.Config{}))

	cfg := runtime.Config{
		Traceroute: &checktraceroute.Config{
			Targets:  []traceroute.Target{{Host: "example.com"}},
			Interval: time.Minute,
		},
	}

	cc.Reconcile(t.Context(), cfg)
	var names []string
	for c := range cc.checks.Iter() {
		names = append(names, c.Name())
	}
	require.Equal(t, []string{checktraceroute.CheckName}, names)

	// An empty runtime config unregisters the check again
	cc.Reconcile(t.Context(), runtime.Config{})
	names = nil
	for c := range cc.checks.Iter() {
		names = append(names, c.Name())
	}
	assert.Empty(t, names)
}

func TestChecksController_Reconcile_updatesExisting(t *testing.T) {
	cc := NewChecksController(db.NewInMemory(), metrics.New(metrics.Config{}))
	check := newCheckMock(checktraceroute.CheckName)
	cc.RegisterCheck(t.Context(), check)

	cc.Reconcile(t.Context(), runtime.Config{
		Traceroute: &checktraceroute.Config{
			Targets:  []traceroute.Target{{Host: "example.com"}},
			Interval: time.Minute,
		},
	})

	require.Len(t, check.UpdateConfigCalls(), 1)
	assert.Empty(t, check.ShutdownCalls())

	cc.Shutdown(t.Context())
}

func TestChecksController_GenerateCheckSpecs(t *testing.T) {
	cc := NewChecksController(db.NewInMemory(), metrics.New(metrics.Config{}))
	check := newCheckMock("mock")
	cc.RegisterCheck(t.Context(), check)
	defer cc.Shutdown(t.Context())

	doc, err := cc.GenerateCheckSpecs(t.Context())
	require.NoError(t, err)

	item := doc.Paths.Find("/v1/metrics/mock")
	require.NotNil(t, item)
	assert.NotNil(t, item.Get)
}

func TestChecksController_GenerateCheckSpecs_schemaError(t *testing.T) {
	cc := NewChecksController(db.NewInMemory(), metrics.New(metrics.Config{}))
	check := newCheckMock("mock")
	check.SchemaFunc = func() (*openapi3.SchemaRef, error) {
		return nil, assert.AnError
	}
	cc.RegisterCheck(t.Context(), check)
	defer cc.Shutdown(t.Context())

	_, err := cc.GenerateCheckSpecs(t.Context())
	var schemaErr *ErrCreateOpenapiSchema
	require.ErrorAs(t, err, &schemaErr)
}

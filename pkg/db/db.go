// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"sync"

	"github.com/wagtail-net/wagtail/pkg/checks"
)

// DB is the interface for the database where check results are stored.
//
//go:generate go tool moq -out db_moq.go . DB
type DB interface {
	// Save stores the result of a check run.
	Save(ctx context.Context, result checks.ResultDTO) error
	// Get returns the latest result of the check with the given name.
	Get(check string) (result checks.Result, ok bool)
	// List returns the latest results of all checks.
	List() map[string]checks.Result
	// Close releases any resources held by the database.
	Close(ctx context.Context) error
}

var _ DB = (*InMemory)(nil)

// InMemory keeps the latest result per check in memory.
type InMemory struct {
	// data is a map of check names to their latest result
	data sync.Map
}

// NewInMemory creates a new in-memory database
func NewInMemory() *InMemory {
	return &InMemory{
		data: sync.Map{},
	}
}

func (i *InMemory) Save(_ context.Context, result checks.ResultDTO) error {
	i.data.Store(result.Name, result.Result)
	return nil
}

func (i *InMemory) Get(check string) (checks.Result, bool) {
	tmp, ok := i.data.Load(check)
	if !ok {
		return checks.Result{}, false
	}
	// this should not fail, otherwise this will panic
	result := tmp.(*checks.Result)
	return *result, true
}

func (i *InMemory) List() map[string]checks.Result {
	results := make(map[string]checks.Result)
	i.data.Range(func(key, value any) bool {
		// this assertion should not fail, unless we store something else in the map
		result := value.(*checks.Result)
		results[key.(string)] = *result
		return true
	})
	return results
}

func (i *InMemory) Close(_ context.Context) error {
	return nil
}

// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"errors"
	"iter"

	"github.com/wagtail-net/wagtail/pkg/checks"
	"github.com/wagtail-net/wagtail/pkg/checks/traceroute"
)

// Config holds the runtime configuration
// for the various checks
// the wagtail supports
type Config struct {
	Traceroute *traceroute.Config `yaml:"traceroute" json:"traceroute"`
}

// Empty returns true if no checks are configured
func (c Config) Empty() bool {
	return c.size() == 0
}

func (c Config) Validate() (err error) {
	for cfg := range c.Iter() {
		if vErr := cfg.Validate(); vErr != nil {
			err = errors.Join(err, vErr)
		}
	}

	return err
}

// Iter returns configured checks as an iterator
func (c Config) Iter() iter.Seq[checks.Runtime] {
	return func(yield func(checks.Runtime) bool) {
		if c.Traceroute != nil {
			if !yield(c.Traceroute) {
				return
			}
		}
	}
}

// size returns the number of checks configured
func (c Config) size() int {
	size := 0
	if c.HasTracerouteCheck() {
		size++
	}
	return size
}

// HasTracerouteCheck returns true if the config has a traceroute check configured
func (c Config) HasTracerouteCheck() bool {
	return c.Traceroute != nil
}

// HasCheck returns true if the config has a check with the given name configured
func (c Config) HasCheck(name string) bool {
	switch name {
	case traceroute.CheckName:
		return c.HasTracerouteCheck()
	default:
		return false
	}
}

// For returns the runtime configuration for the check with the given name
func (c Config) For(name string) checks.Runtime {
	switch name {
	case traceroute.CheckName:
		if c.HasTracerouteCheck() {
			return c.Traceroute
		}
	}
	return nil
}

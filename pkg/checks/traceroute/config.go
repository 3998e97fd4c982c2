// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"fmt"
	"time"

	"github.com/wagtail-net/wagtail/internal/traceroute"
	"github.com/wagtail-net/wagtail/pkg/checks"
)

// Config is the configuration for the traceroute check
type Config struct {
	// Targets is a list of targets to traceroute to.
	Targets []traceroute.Target `json:"targets" yaml:"targets" mapstructure:"targets"`
	// Interval is the interval at which to run the traceroute check.
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`
	// Options are the options for the traceroute check.
	traceroute.Options `json:",inline" yaml:",inline" mapstructure:",squash"`
}

func (c *Config) For() string {
	return CheckName
}

func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return checks.ErrInvalidConfig{CheckName: CheckName, Field: "traceroute.interval", Reason: "must be greater than 0"}
	}

	if c.Timeout < 0 {
		return checks.ErrInvalidConfig{CheckName: CheckName, Field: "traceroute.timeout", Reason: "must not be negative"}
	}

	if c.Protocol != "" && !c.Protocol.IsValid() {
		return checks.ErrInvalidConfig{CheckName: CheckName, Field: "traceroute.protocol", Reason: "must be icmp or udp"}
	}

	if c.MaxHops < 0 {
		return checks.ErrInvalidConfig{CheckName: CheckName, Field: "traceroute.maxHops", Reason: "must not be negative"}
	}

	if c.ProbesPerHop < 0 {
		return checks.ErrInvalidConfig{CheckName: CheckName, Field: "traceroute.probesPerHop", Reason: "must not be negative"}
	}

	for i, t := range c.Targets {
		if err := t.Validate(); err != nil {
			return checks.ErrInvalidConfig{CheckName: CheckName, Field: fmt.Sprintf("traceroute.targets[%d].host", i), Reason: err.Error()}
		}
	}
	return nil
}

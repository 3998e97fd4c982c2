// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"fmt"

	"github.com/wagtail-net/wagtail/internal/logger"
)

const (
	// TypeInMemory keeps the latest results in memory only.
	TypeInMemory = "inmemory"
	// TypeClickHouse additionally persists every measurement to a ClickHouse table.
	TypeClickHouse = "clickhouse"
)

// Config holds the configuration for the result sink
type Config struct {
	// Type selects the sink implementation; defaults to the in-memory sink
	Type string `yaml:"type" mapstructure:"type"`
	// ClickHouse is the configuration of the ClickHouse sink
	ClickHouse ClickHouseConfig `yaml:"clickhouse" mapstructure:"clickhouse"`
}

// ClickHouseConfig is the connection configuration for the ClickHouse sink
type ClickHouseConfig struct {
	// Address is the host:port of the ClickHouse server
	Address string `yaml:"address" mapstructure:"address"`
	// Database is the database to write measurements to
	Database string `yaml:"database" mapstructure:"database"`
	// Username is the user to authenticate with
	Username string `yaml:"username" mapstructure:"username"`
	// Password is the password to authenticate with
	Password string `yaml:"password" mapstructure:"password"`
}

// Validate validates the database configuration
func (c *Config) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)
	switch c.Type {
	case "", TypeInMemory:
		return nil
	case TypeClickHouse:
		if c.ClickHouse.Address == "" {
			log.Error("The clickhouse address cannot be empty")
			return ErrMissingClickHouseAddress
		}
		return nil
	default:
		log.Error("Unsupported database type", "type", c.Type)
		return fmt.Errorf("unsupported database type %q", c.Type)
	}
}

// New creates the result sink selected by the configuration.
// The region is recorded alongside every persisted measurement.
func New(ctx context.Context, cfg Config, region string) (DB, error) {
	if cfg.Type == TypeClickHouse {
		return NewClickHouse(ctx, cfg.ClickHouse, region)
	}
	return NewInMemory(), nil
}

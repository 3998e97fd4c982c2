// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/wagtail-net/wagtail/internal/logger"
	"github.com/wagtail-net/wagtail/internal/traceroute"
	"github.com/wagtail-net/wagtail/pkg/checks"
)

// ErrMissingClickHouseAddress is returned when the clickhouse sink is enabled without an address
var ErrMissingClickHouseAddress = errors.New("missing clickhouse address")

const createMeasurementsStatement = `
CREATE TABLE IF NOT EXISTS measurements (
    Timestamp    DateTime,
    Region       String,
    Destination  String,
    Addr         String,
    ASPath       Array(String),
    AvgLatencyMs Nullable(Float64),
    Success      Bool,
    Reason       String,
    Hops         String
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Region, Destination, Timestamp);
`

var _ DB = (*ClickHouse)(nil)

// ClickHouse keeps the latest result per check in memory and additionally
// persists every traceroute measurement to the measurements table.
type ClickHouse struct {
	*InMemory
	conn   driver.Conn
	region string
}

// NewClickHouse connects to the configured ClickHouse server and ensures
// the measurements table exists.
func NewClickHouse(ctx context.Context, cfg ClickHouseConfig, region string) (*ClickHouse, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Address},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	if err := conn.Exec(ctx, createMeasurementsStatement); err != nil {
		return nil, fmt.Errorf("failed to create measurements table: %w", err)
	}

	return &ClickHouse{
		InMemory: NewInMemory(),
		conn:     conn,
		region:   region,
	}, nil
}

// Save stores the result in memory and persists traceroute measurements.
func (c *ClickHouse) Save(ctx context.Context, result checks.ResultDTO) error {
	if err := c.InMemory.Save(ctx, result); err != nil {
		return err
	}

	if result.Result == nil {
		return nil
	}
	paths, ok := result.Result.Data.(map[string]traceroute.PathResult)
	if !ok || len(paths) == 0 {
		return nil
	}

	return c.persist(ctx, result.Result.Timestamp, paths)
}

// persist appends one row per measured path to the measurements table.
func (c *ClickHouse) persist(ctx context.Context, ts time.Time, paths map[string]traceroute.PathResult) error {
	log := logger.FromContext(ctx)

	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO measurements")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, res := range paths {
		hops, err := json.Marshal(res.Hops)
		if err != nil {
			return fmt.Errorf("failed to marshal hops for %q: %w", res.Destination, err)
		}

		var avgLatencyMs *float64
		if res.HasLatency {
			ms := float64(res.AvgLatency) / float64(time.Millisecond)
			avgLatencyMs = &ms
		}

		err = batch.Append(
			ts,
			c.region,
			res.Destination,
			res.Addr,
			res.ASPath,
			avgLatencyMs,
			res.Success,
			string(res.Reason),
			string(hops),
		)
		if err != nil {
			return fmt.Errorf("failed to append measurement to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.DebugContext(ctx, "Persisted measurements", "count", len(paths))
	return nil
}

// Close closes the connection to the ClickHouse server.
func (c *ClickHouse) Close(_ context.Context) error {
	return c.conn.Close()
}

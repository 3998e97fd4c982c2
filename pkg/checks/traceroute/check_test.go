// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagtail-net/wagtail/internal/traceroute"
	"github.com/wagtail-net/wagtail/pkg/checks"
)

func TestCheck(t *testing.T) {
	cases := []struct {
		name string
		c    *Traceroute
		want result
	}{
		{
			name: "Success - destination reached",
			c: newTraceroute(t, Config{
				Targets: []traceroute.Target{{Host: "example.com"}},
				Options: traceroute.Options{MaxHops: 5, ProbesPerHop: 1, Timeout: time.Second},
			}),
			want: result{
				"example.com": {
					Destination: "example.com",
					Addr:        "93.184.216.34",
					Hops: []traceroute.Hop{
						{HopLimit: 1, Resolved: true, Addr: "10.0.0.1", Latency: time.Millisecond},
						{HopLimit: 2, Resolved: true, Addr: "93.184.216.34", Latency: 2 * time.Millisecond},
					},
					ASPath:     []string{"Private", "AS15133 Edgecast Inc."},
					Success:    true,
					Reason:     traceroute.ReasonDestinationReached,
					AvgLatency: 1500 * time.Microsecond,
					HasLatency: true,
				},
			},
		},
		{
			name: "No targets configured",
			c:    newTraceroute(t, Config{Options: traceroute.Options{MaxHops: 5, Timeout: time.Second}}),
			want: result{},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := c.c.check(t.Context())

			if !cmp.Equal(res, c.want) {
				diff := cmp.Diff(res, c.want)
				t.Errorf("unexpected result: +want -got\n%s", diff)
			}
		})
	}
}

func TestTraceroute_Run(t *testing.T) {
	c := newTraceroute(t, Config{
		Targets:  []traceroute.Target{{Host: "example.com"}},
		Interval: 10 * time.Millisecond,
		Options:  traceroute.Options{MaxHops: 5, ProbesPerHop: 1, Timeout: time.Second},
	})

	cResult := make(chan checks.ResultDTO, 1)
	go func() {
		_ = c.Run(t.Context(), cResult)
	}()
	defer c.Shutdown()

	select {
	case dto := <-cResult:
		assert.Equal(t, CheckName, dto.Name)
		require.NotNil(t, dto.Result)
		res, ok := dto.Result.Data.(map[string]traceroute.PathResult)
		require.True(t, ok, "result data should be a path result map")
		assert.Contains(t, res, "example.com")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a check result")
	}
}

func TestTraceroute_UpdateConfig(t *testing.T) {
	t.Run("Valid config is applied", func(t *testing.T) {
		c := newTraceroute(t, Config{})
		cfg := &Config{
			Targets:  []traceroute.Target{{Host: "example.com"}},
			Interval: time.Minute,
		}

		require.NoError(t, c.UpdateConfig(cfg))
		assert.Equal(t, cfg, c.GetConfig())
	})

	t.Run("Config of a different check is rejected", func(t *testing.T) {
		c := newTraceroute(t, Config{})

		err := c.UpdateConfig(&wrongConfig{})
		var mismatch checks.ErrConfigMismatch
		require.ErrorAs(t, err, &mismatch)
	})
}

type wrongConfig struct{}

func (c *wrongConfig) For() string     { return "wrong" }
func (c *wrongConfig) Validate() error { return nil }

func TestTraceroute_Schema(t *testing.T) {
	c := newTraceroute(t, Config{})
	schema, err := c.Schema()
	require.NoError(t, err)
	assert.NotNil(t, schema)
}

func newTraceroute(t testing.TB, cfg Config) *Traceroute {
	t.Helper()
	c, ok := NewCheck().(*Traceroute)
	require.True(t, ok, "NewCheck should return a Traceroute check")
	c.config = cfg
	c.client = &traceroute.ClientMock{
		RunFunc: func(_ context.Context, targets []traceroute.Target, _ *traceroute.Options) (traceroute.Result, error) {
			res := make(traceroute.Result, len(targets))
			for _, target := range targets {
				pr := traceroute.PathResult{
					Destination: target.Host,
					Addr:        "93.184.216.34",
					Hops: []traceroute.Hop{
						{HopLimit: 1, Resolved: true, Addr: "10.0.0.1", Latency: time.Millisecond},
						{HopLimit: 2, Resolved: true, Addr: "93.184.216.34", Latency: 2 * time.Millisecond},
					},
					ASPath:     []string{"Private", "AS15133 Edgecast Inc."},
					Success:    true,
					Reason:     traceroute.ReasonDestinationReached,
					AvgLatency: 1500 * time.Microsecond,
					HasLatency: true,
				}
				res[target.Host] = pr
			}
			return res, nil
		},
	}
	return c
}

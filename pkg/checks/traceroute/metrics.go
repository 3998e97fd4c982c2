// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wagtail-net/wagtail/pkg/checks"
)

// metrics defines the metric collectors of the traceroute check
type metrics struct {
	hops       *prometheus.GaugeVec
	avgLatency *prometheus.GaugeVec
	status     *prometheus.GaugeVec
	count      *prometheus.CounterVec
}

// newMetrics initializes metric collectors of the traceroute check
func newMetrics() metrics {
	return metrics{
		hops: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wagtail_traceroute_hops",
				Help: "Number of hops probed on the path to the target.",
			},
			[]string{"target"},
		),
		avgLatency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wagtail_traceroute_avg_latency_seconds",
				Help: "Mean round-trip time over the responding hops of the path.",
			},
			[]string{"target"},
		),
		status: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wagtail_traceroute_status",
				Help: "Specifies if the destination was reached.",
			},
			[]string{"target"},
		),
		count: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wagtail_traceroute_check_count",
				Help: "Total number of path traces performed per target.",
			},
			[]string{"target"},
		),
	}
}

// List returns all metric collectors
func (m *metrics) List() []prometheus.Collector {
	return []prometheus.Collector{
		m.hops,
		m.avgLatency,
		m.status,
		m.count,
	}
}

// Set sets the metrics of one check run.
// A path without any responding hop has no average latency; the stale gauge
// value is removed rather than set to zero.
func (m *metrics) Set(res result) {
	for target, pr := range res {
		m.hops.WithLabelValues(target).Set(float64(len(pr.Hops)))
		if pr.HasLatency {
			m.avgLatency.WithLabelValues(target).Set(pr.AvgLatency.Seconds())
		} else {
			m.avgLatency.DeleteLabelValues(target)
		}

		var status float64
		if pr.Success {
			status = 1
		}
		m.status.WithLabelValues(target).Set(status)
		m.count.WithLabelValues(target).Inc()
	}
}

// Remove removes the metrics of one target
func (m *metrics) Remove(target string) error {
	if !m.hops.DeleteLabelValues(target) {
		return checks.ErrMetricNotFound{Label: target}
	}

	if !m.status.DeleteLabelValues(target) {
		return checks.ErrMetricNotFound{Label: target}
	}

	if !m.count.DeleteLabelValues(target) {
		return checks.ErrMetricNotFound{Label: target}
	}

	// The latency gauge is absent when the path never produced a latency.
	m.avgLatency.DeleteLabelValues(target)
	return nil
}

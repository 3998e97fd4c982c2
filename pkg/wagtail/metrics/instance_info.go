// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	instanceInfoMetricName = "wagtail_instance_info"
	instanceInfoHelp       = "Vantage point metadata for this wagtail instance. Emitted once per instance for multi-region correlation."
)

// RegisterInstanceInfo registers the wagtail_instance_info info-style metric on the given registry.
// It sets the gauge to 1 with labels instance_name and region.
// The instanceName should be the wagtail DNS name.
func RegisterInstanceInfo(registry *prometheus.Registry, instanceName, region string) error {
	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: instanceInfoMetricName,
			Help: instanceInfoHelp,
		},
		[]string{"instance_name", "region"},
	)
	info.WithLabelValues(instanceName, region).Set(1)
	return registry.Register(info)
}

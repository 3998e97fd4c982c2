// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegisterInstanceInfo(t *testing.T) {
	registry := prometheus.NewRegistry()

	err := RegisterInstanceInfo(registry, "wagtail.example.com", "eu-central")
	if err != nil {
		t.Fatalf("RegisterInstanceInfo() error = %v", err)
	}

	metrics, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	var found bool
	for _, mf := range metrics {
		if mf.GetName() == instanceInfoMetricName {
			found = true
			if len(mf.GetMetric()) != 1 {
				t.Errorf("expected 1 metric, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				if m.GetGauge().GetValue() != 1 {
					t.Errorf("expected value 1, got %v", m.GetGauge().GetValue())
				}
				labels := make(map[string]string)
				for _, lp := range m.GetLabel() {
					labels[lp.GetName()] = lp.GetValue()
				}
				if labels["instance_name"] != "wagtail.example.com" || labels["region"] != "eu-central" {
					t.Errorf("unexpected labels: %v", labels)
				}
			}
			break
		}
	}
	if !found {
		t.Error("wagtail_instance_info metric not found in registry")
	}
}

func TestRegisterInstanceInfo_doubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	err := RegisterInstanceInfo(registry, "wagtail.example.com", "eu-central")
	if err != nil {
		t.Fatalf("first RegisterInstanceInfo() error = %v", err)
	}

	err2 := RegisterInstanceInfo(registry, "other.example.com", "us-east")
	if err2 == nil {
		t.Fatal("expected second RegisterInstanceInfo to return an error (duplicate collector)")
	}

	var alreadyErr prometheus.AlreadyRegisteredError
	if !errors.As(err2, &alreadyErr) {
		t.Errorf("expected AlreadyRegisteredError, got %T: %v", err2, err2)
	}
}

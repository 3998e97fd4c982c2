// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_Validate(t *testing.T) {
	tests := []struct {
		name     string
		exporter Exporter
		wantErr  bool
	}{
		{name: "stdout", exporter: STDOUT},
		{name: "grpc", exporter: GRPC},
		{name: "http", exporter: HTTP},
		{name: "noop", exporter: NOOP},
		{name: "unset", exporter: ""},
		{name: "unsupported", exporter: "jaeger", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.exporter.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Exporter.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExporter_IsExporting(t *testing.T) {
	assert.True(t, GRPC.IsExporting())
	assert.True(t, HTTP.IsExporting())
	assert.False(t, STDOUT.IsExporting())
	assert.False(t, NOOP.IsExporting())
}

func TestExporter_Create(t *testing.T) {
	tests := []struct {
		name     string
		exporter Exporter
		config   Config
		wantErr  bool
	}{
		{name: "stdout", exporter: STDOUT},
		{name: "noop", exporter: NOOP},
		{name: "grpc", exporter: GRPC, config: Config{Url: "localhost:4317"}},
		{name: "grpc with token", exporter: GRPC, config: Config{Url: "localhost:4317", Token: "token"}},
		{name: "http", exporter: HTTP, config: Config{Url: "localhost:4318"}},
		{name: "grpc with missing certificate", exporter: GRPC, config: Config{
			Url: "localhost:4317",
			TLS: TLSConfig{Enabled: true, CertPath: "testdata/nonexistent.pem"},
		}, wantErr: true},
		{name: "unsupported", exporter: "jaeger", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := tt.exporter.Create(t.Context(), &tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, exp)
			assert.NoError(t, exp.Shutdown(t.Context()))
		})
	}
}

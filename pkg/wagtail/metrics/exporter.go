// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

// Exporter is the trace exporter used to export the traces
type Exporter string

const (
	// STDOUT prints the traces to the console
	STDOUT Exporter = "stdout"
	// GRPC sends the traces to an otlp compatible backend via grpc
	GRPC Exporter = "grpc"
	// HTTP sends the traces to an otlp compatible backend via http
	HTTP Exporter = "http"
	// NOOP discards the traces
	NOOP Exporter = "noop"
)

type exporterFactory func(ctx context.Context, config *Config) (sdktrace.SpanExporter, error)

// registry contains the factories of the supported exporters
var registry = map[Exporter]exporterFactory{
	STDOUT: newStdoutExporter,
	GRPC:   newGRPCExporter,
	HTTP:   newHTTPExporter,
	NOOP:   newNoopExporter,
	// an unset exporter behaves like noop
	"": newNoopExporter,
}

// Create creates a new exporter based on the configuration
func (e Exporter) Create(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	factory, ok := registry[e]
	if !ok {
		return nil, fmt.Errorf("unsupported exporter %q", e)
	}
	return factory(ctx, config)
}

// Validate validates the exporter
func (e Exporter) Validate() error {
	if _, ok := registry[e]; !ok {
		return fmt.Errorf("unsupported exporter %q", e)
	}
	return nil
}

// IsExporting returns true if the exporter sends traces to a collector
func (e Exporter) IsExporting() bool {
	return e == GRPC || e == HTTP
}

// String returns the string representation of the exporter
func (e Exporter) String() string {
	return string(e)
}

func newStdoutExporter(_ context.Context, _ *Config) (sdktrace.SpanExporter, error) {
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

func newGRPCExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(config.Url),
		otlptracegrpc.WithHeaders(config.headers()),
	}

	if config.TLS.Enabled {
		creds, err := credentials.NewClientTLSFromFile(config.TLS.CertPath, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load tls credentials: %w", err)
		}
		opts = append(opts, otlptracegrpc.WithTLSCredentials(creds))
	} else {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	return otlptracegrpc.New(ctx, opts...)
}

func newHTTPExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.Url),
		otlptracehttp.WithHeaders(config.headers()),
	}

	if config.TLS.Enabled {
		tlsCfg, err := tlsConfigFromCert(config.TLS.CertPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsCfg))
	} else {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	return otlptracehttp.New(ctx, opts...)
}

var _ sdktrace.SpanExporter = (*noopExporter)(nil)

// noopExporter discards all spans
type noopExporter struct{}

func newNoopExporter(_ context.Context, _ *Config) (sdktrace.SpanExporter, error) {
	return &noopExporter{}, nil
}

func (e *noopExporter) ExportSpans(_ context.Context, _ []sdktrace.ReadOnlySpan) error {
	return nil
}

func (e *noopExporter) Shutdown(_ context.Context) error {
	return nil
}

// headers returns the headers sent to the collector
func (c *Config) headers() map[string]string {
	headers := map[string]string{}
	if c.Token != "" {
		headers["Authorization"] = fmt.Sprintf("Bearer %s", c.Token)
	}
	return headers
}

// tlsConfigFromCert builds a tls config trusting the certificate at the given path
func tlsConfigFromCert(path string) (*tls.Config, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tls certificate: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to parse tls certificate %q", path)
	}

	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

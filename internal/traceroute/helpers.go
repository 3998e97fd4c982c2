// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"fmt"
	"net"

	"github.com/wagtail-net/wagtail/internal/logger"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// mtuSize is the receive buffer size for ICMP messages.
const mtuSize = 1500

// ipFromAddr extracts the IP address from a [net.Addr].
func ipFromAddr(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return a.IP
	case *net.TCPAddr:
		return a.IP
	case *net.IPAddr:
		return a.IP
	}
	return nil
}

// logHops logs the hops in the conventional per-hop display format.
func logHops(ctx context.Context, hops []Hop) {
	log := logger.FromContext(ctx)
	for _, hop := range hops {
		log.DebugContext(ctx, hop.String())
	}
}

// wrapError wraps an error with a message and logs it.
// It also records the error in the current OpenTelemetry span.
func wrapError(ctx context.Context, err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	span := trace.SpanFromContext(ctx)
	caser := cases.Title(language.English)

	log.ErrorContext(ctx, caser.String(msg), append([]any{"error", err}, args...)...)
	span.SetStatus(codes.Error, fmt.Sprintf(msg+": %v", args...))
	span.RecordError(err)
	return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), err)
}

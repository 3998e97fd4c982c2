// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"fmt"
	"net"
	"time"
)

// prober owns the probing transport for one trace. It sends a single probe
// with a given hop limit and awaits the correlated reply.
//
// awaitReply is the sole suspension point of a trace; it must enforce the
// given hard per-probe timeout and classify the absence of a correlated
// reply as a Timeout outcome rather than an error.
//
//go:generate go tool moq -out prober_moq.go . prober
type prober interface {
	// send transmits one probe with the hop limit set in the network-layer
	// header. The sequence number must be unique within the enclosing trace.
	send(ctx context.Context, hopLimit, seq, attempt int) (Probe, error)
	// awaitReply blocks until a correlated reply arrives or the timeout
	// elapses, and categorizes the result.
	awaitReply(ctx context.Context, probe Probe, timeout time.Duration) ProbeOutcome
	// Close releases the transport. Called once per trace.
	Close() error
}

// newProber opens the transport for the given probe variant.
// Returns an error wrapping [ErrSendFailed] if the transport cannot be
// opened, e.g. due to insufficient privileges for raw probing.
func newProber(dest net.IP, opts Options) (prober, error) {
	switch opts.Protocol {
	case ProtocolICMP:
		return newICMPProber(dest)
	case ProtocolUDP:
		return newUDPProber(dest, opts.BasePort), nil
	default:
		return nil, fmt.Errorf("invalid probe protocol: %s", opts.Protocol)
	}
}

// timeoutOutcome builds the outcome of a probe for which no correlated
// reply was observed. Responder and RTT are deliberately left unset.
func timeoutOutcome(probe Probe) ProbeOutcome {
	return ProbeOutcome{Probe: probe, Kind: Timeout}
}

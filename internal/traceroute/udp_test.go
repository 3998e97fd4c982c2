// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/ipv4"
)

func Test_classifyICMPType(t *testing.T) {
	tests := []struct {
		name     string
		icmpType uint8
		want     OutcomeKind
	}{
		{"Time exceeded", uint8(ipv4.ICMPTypeTimeExceeded), TimeExceeded},
		{"Destination unreachable", uint8(ipv4.ICMPTypeDestinationUnreachable), DestUnreachable},
		{"Redirect is other ICMP", uint8(ipv4.ICMPTypeRedirect), OtherICMP},
		{"Unknown type is other ICMP", 99, OtherICMP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyICMPType(tt.icmpType))
		})
	}
}

func TestUDPProber_send_portPerAttempt(t *testing.T) {
	var dialed []string
	p := &udpProber{
		dest:     net.ParseIP("192.0.2.1"),
		basePort: DefaultBasePort,
		dialUDP: func(_ context.Context, addr net.Addr, _ int) (net.Conn, error) {
			dialed = append(dialed, addr.String())
			// fakeConn does not implement syscall.Conn, the send fails after
			// dialing. The dialed addresses are all this test is after.
			return &fakeConn{}, nil
		},
	}

	for attempt := range 3 {
		_, err := p.send(t.Context(), 1, attempt, attempt)
		require.ErrorIs(t, err, ErrSendFailed)
	}

	assert.Equal(t, []string{
		"192.0.2.1:33434",
		"192.0.2.1:33435",
		"192.0.2.1:33436",
	}, dialed, "the destination port varies per probe attempt")
}

func TestUDPProber_send_dialError(t *testing.T) {
	p := &udpProber{
		dest:     net.ParseIP("192.0.2.1"),
		basePort: DefaultBasePort,
		dialUDP: func(_ context.Context, _ net.Addr, _ int) (net.Conn, error) {
			return nil, assert.AnError
		},
	}

	_, err := p.send(t.Context(), 1, 0, 0)
	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestUDPProber_awaitReply_withoutListener(t *testing.T) {
	p := &udpProber{dest: net.ParseIP("192.0.2.1"), basePort: DefaultBasePort}
	probe := Probe{Dest: p.dest, HopLimit: 1, Protocol: ProtocolUDP, SentAt: time.Now()}

	outcome := p.awaitReply(t.Context(), probe, time.Second)
	assert.True(t, outcome.TimedOut())
}

// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/wagtail-net/wagtail/internal/logger"
	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

var _ prober = (*udpProber)(nil)

// udpProber sends UDP datagrams with the hop limit set and reads the ICMP
// errors they trigger from the kernel error queue of the sending socket.
// No raw socket and therefore no NET_RAW capabilities are required; the
// kernel correlates the ICMP errors to the socket for us.
//
// Each probe uses its own socket. The destination port is varied per probe
// attempt (base port + attempt index) so that distinct probes within the
// same hop are distinguishable by the routers generating the errors.
type udpProber struct {
	dest     net.IP
	basePort int

	// dialUDP abstracts the creation of a UDP socket with TTL configured
	dialUDP func(ctx context.Context, addr net.Addr, ttl int) (net.Conn, error)

	// conn and listener belong to the in-flight probe and are released by
	// awaitReply.
	conn     net.Conn
	listener *errQueueListener
}

// newUDPProber constructs a UDP-based prober using the run-as-non-root pattern.
func newUDPProber(dest net.IP, basePort int) *udpProber {
	return &udpProber{dest: dest, basePort: basePort, dialUDP: dialUDP}
}

func (p *udpProber) send(ctx context.Context, hopLimit, seq, attempt int) (Probe, error) {
	addr := &net.UDPAddr{IP: p.dest, Port: p.basePort + attempt}
	conn, err := p.dialUDP(ctx, addr, hopLimit)
	if err != nil {
		return Probe{}, fmt.Errorf("%w: failed to dial UDP connection: %v", ErrSendFailed, err)
	}

	listener, err := newErrQueueListener(conn)
	if err != nil {
		_ = conn.Close()
		return Probe{}, fmt.Errorf("%w: failed creating errQueueListener: %v", ErrSendFailed, err)
	}

	probe := Probe{
		Dest:     p.dest,
		HopLimit: hopLimit,
		Seq:      seq,
		Protocol: ProtocolUDP,
		SentAt:   time.Now(),
	}
	// We need to send a single byte to trigger the ICMP error response.
	if _, err := conn.Write([]byte{0}); err != nil {
		_ = conn.Close()
		return Probe{}, fmt.Errorf("%w: failed sending UDP probe: %v", ErrSendFailed, err)
	}

	p.conn = conn
	p.listener = listener
	logger.FromContext(ctx).DebugContext(ctx, "Sent UDP probe", "dest", addr, "hopLimit", hopLimit, "seq", seq)
	return probe, nil
}

func (p *udpProber) awaitReply(ctx context.Context, probe Probe, timeout time.Duration) ProbeOutcome {
	log := logger.FromContext(ctx)
	defer func() {
		if p.conn != nil {
			_ = p.conn.Close()
			p.conn, p.listener = nil, nil
		}
	}()
	if p.listener == nil {
		return timeoutOutcome(probe)
	}

	ctx, cancel := context.WithDeadline(ctx, probe.SentAt.Add(timeout))
	defer cancel()

	reply, err := p.listener.read(ctx)
	switch {
	// Timeout: the hop did not answer or the ICMP error never arrived.
	case isTracerouteError(err):
		log.DebugContext(ctx, "ICMP read timeout exceeded, no response received")
		return timeoutOutcome(probe)

	// Unexpected error: we failed to read an ICMP message and it's not
	// because of the reasons above. Reported as a timeout outcome since the
	// classification taxonomy has no error branch.
	case err != nil:
		log.ErrorContext(ctx, "Failed to read ICMP message", "error", err)
		return timeoutOutcome(probe)

	default:
		outcome := ProbeOutcome{
			Probe:     probe,
			Kind:      classifyICMPType(reply.icmpType),
			Responder: ipFromAddr(reply.from),
			RTT:       time.Since(probe.SentAt),
		}
		log.DebugContext(ctx, "Received ICMP message", "routerAddr", reply.from, "type", reply.icmpType, "code", reply.code)
		return outcome
	}
}

// Close releases the socket of an abandoned in-flight probe, if any.
func (p *udpProber) Close() error {
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// classifyICMPType maps the ICMP type from an extended error to the outcome
// taxonomy.
func classifyICMPType(icmpType uint8) OutcomeKind {
	switch icmpType {
	case uint8(ipv4.ICMPTypeTimeExceeded):
		return TimeExceeded
	case uint8(ipv4.ICMPTypeDestinationUnreachable):
		return DestUnreachable
	default:
		return OtherICMP
	}
}

// dialUDP sets up a UDP socket with the desired TTL and IP_RECVERR enabled,
// so the kernel queues the ICMP errors triggered by the probe on the socket
// error queue.
func dialUDP(ctx context.Context, addr net.Addr, ttl int) (net.Conn, error) {
	dialer := net.Dialer{
		ControlContext: func(_ context.Context, _, _ string, c syscall.RawConn) error {
			var opErr error
			if err := c.Control(func(fd uintptr) {
				opErr = errors.Join(
					unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_TTL, ttl), // #nosec G115
					unix.SetsockoptInt(int(fd), unix.SOL_IP, unix.IP_RECVERR, 1),   // #nosec G115
				)
			}); err != nil {
				return err
			}
			return opErr
		},
	}

	return dialer.DialContext(ctx, "udp", addr.String())
}

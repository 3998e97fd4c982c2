// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/wagtail-net/wagtail/internal/logger"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

var _ prober = (*icmpProber)(nil)

// icmpProber sends ICMP echo requests over a raw socket and reads replies
// from the same socket. It requires NET_RAW capabilities.
//
// Correlation: echo replies are matched by the echo identifier and sequence
// number; time-exceeded and destination-unreachable errors are matched
// against the echo header embedded in the returned payload.
type icmpProber struct {
	dest net.IP
	conn *icmp.PacketConn
	pc   *ipv4.PacketConn
	// id is the echo identifier shared by all probes of this trace.
	id int
}

// newICMPProber opens the raw ICMP socket for one trace.
func newICMPProber(dest net.IP) (*icmpProber, error) {
	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open ICMP socket: %v", ErrSendFailed, err)
	}

	return &icmpProber{
		dest: dest,
		conn: conn,
		pc:   conn.IPv4PacketConn(),
		id:   os.Getpid() & 0xffff, // #nosec G115 // echo identifiers are 16 bit
	}, nil
}

// probePayload is carried in every echo request. Routers echo it back inside
// ICMP errors, which keeps the embedded echo header parsable.
var probePayload = []byte("wagtail-probe")

func (p *icmpProber) send(ctx context.Context, hopLimit, seq, _ int) (Probe, error) {
	if err := p.pc.SetTTL(hopLimit); err != nil {
		return Probe{}, fmt.Errorf("%w: failed to set hop limit %d: %v", ErrSendFailed, hopLimit, err)
	}

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: p.id, Seq: seq, Data: probePayload},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return Probe{}, fmt.Errorf("%w: failed to marshal echo request: %v", ErrSendFailed, err)
	}

	probe := Probe{
		Dest:     p.dest,
		HopLimit: hopLimit,
		Seq:      seq,
		Protocol: ProtocolICMP,
		SentAt:   time.Now(),
	}
	if _, err := p.conn.WriteTo(wb, &net.IPAddr{IP: p.dest}); err != nil {
		return Probe{}, fmt.Errorf("%w: failed to write echo request: %v", ErrSendFailed, err)
	}

	logger.FromContext(ctx).DebugContext(ctx, "Sent ICMP probe", "dest", p.dest, "hopLimit", hopLimit, "seq", seq)
	return probe, nil
}

// awaitReply reads ICMP messages off the raw socket until one correlates to
// the probe or the per-probe timeout elapses. Uncorrelated messages, e.g.
// unrelated traffic or late replies to earlier probes, are skipped.
func (p *icmpProber) awaitReply(ctx context.Context, probe Probe, timeout time.Duration) ProbeOutcome {
	log := logger.FromContext(ctx)
	deadline := probe.SentAt.Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	buf := make([]byte, mtuSize)
	for {
		select {
		case <-ctx.Done():
			return timeoutOutcome(probe)
		default:
		}

		if time.Now().After(deadline) {
			return timeoutOutcome(probe)
		}
		if err := p.conn.SetReadDeadline(deadline); err != nil {
			log.ErrorContext(ctx, "Failed to set read deadline", "error", err)
			return timeoutOutcome(probe)
		}

		n, src, err := p.conn.ReadFrom(buf)
		if err != nil {
			// This is most probably a timeout or a closed connection
			log.DebugContext(ctx, "ICMP read ended without a correlated reply", "error", err)
			return timeoutOutcome(probe)
		}

		msg, err := icmp.ParseMessage(ipv4.ICMPTypeTimeExceeded.Protocol(), buf[:n])
		if err != nil {
			log.DebugContext(ctx, "Failed to parse ICMP message, ignoring", "error", err)
			continue
		}

		if outcome, ok := p.classify(probe, src, msg); ok {
			return outcome
		}
	}
}

// classify categorizes a received ICMP message against the probe.
// Returns false if the message does not correlate to the probe.
func (p *icmpProber) classify(probe Probe, src net.Addr, msg *icmp.Message) (ProbeOutcome, bool) {
	outcome := ProbeOutcome{
		Probe:     probe,
		Responder: ipFromAddr(src),
		RTT:       time.Since(probe.SentAt),
	}

	switch body := msg.Body.(type) {
	case *icmp.Echo:
		if msg.Type != ipv4.ICMPTypeEchoReply || body.ID != p.id || body.Seq != probe.Seq {
			return ProbeOutcome{}, false
		}
		outcome.Kind = EchoReply
	case *icmp.TimeExceeded:
		if !p.matchesProbe(probe, body.Data) {
			return ProbeOutcome{}, false
		}
		outcome.Kind = TimeExceeded
	case *icmp.DstUnreach:
		if !p.matchesProbe(probe, body.Data) {
			return ProbeOutcome{}, false
		}
		outcome.Kind = DestUnreachable
	case *icmp.ParamProb:
		if !p.matchesProbe(probe, body.Data) {
			return ProbeOutcome{}, false
		}
		outcome.Kind = OtherICMP
	default:
		return ProbeOutcome{}, false
	}

	return outcome, true
}

// echoHeaderLen is the length of the ICMP echo header embedded in the
// payload of ICMP error messages: type, code, checksum, id, seq.
const echoHeaderLen = 8

// matchesProbe reports whether the payload of an ICMP error message contains
// the echo request of the given probe. The payload starts with the original
// IP header, followed by at least the first 8 bytes of the echo request.
func (p *icmpProber) matchesProbe(probe Probe, data []byte) bool {
	if len(data) < ipv4.HeaderLen {
		return false
	}

	// The IP header length is encoded in 4-byte words in the low nibble of
	// the first byte.
	headerLen := int(data[0]&0x0f) * 4
	if headerLen < ipv4.HeaderLen || len(data) < headerLen+echoHeaderLen {
		return false
	}

	echo := data[headerLen:]
	if echo[0] != uint8(ipv4.ICMPTypeEcho) {
		return false
	}

	id := int(binary.BigEndian.Uint16(echo[4:6]))
	seq := int(binary.BigEndian.Uint16(echo[6:8]))
	return id == p.id && seq == probe.Seq
}

// Close closes the raw ICMP socket.
func (p *icmpProber) Close() error {
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/wagtail-net/wagtail/internal/logger"
	"golang.org/x/sys/unix"
)

// icmpReply is an ICMP error read from the socket error queue.
type icmpReply struct {
	// from is the address of the device (typically a router) that sent the
	// ICMP message in response to our probe.
	from net.Addr
	// icmpType and code identify the ICMP error, e.g. time exceeded or
	// destination unreachable.
	icmpType uint8
	code     uint8
}

// errQueueListener reads ICMP errors via the UDP socket error queue.
// It requires the UDP socket to have IP_RECVERR enabled.
type errQueueListener struct {
	conn    net.Conn
	rawConn syscall.RawConn
	oobBuf  []byte
}

const (
	// oobBufSize is the size of the out-of-band buffer used for receiving extended error messages.
	oobBufSize = 512
	// dataBufSize is the size of the data buffer used for receiving messages.
	dataBufSize = 64
)

// newErrQueueListener wraps a UDP connection in an errQueueListener that
// reads ICMP errors from the kernel error queue.
func newErrQueueListener(conn net.Conn) (*errQueueListener, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil, fmt.Errorf("the provided connection does not implement syscall.Conn: %T", conn)
	}

	rc, err := sc.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("failed to get RawConn: %w", err)
	}

	return &errQueueListener{
		conn:    conn,
		rawConn: rc,
		oobBuf:  make([]byte, oobBufSize),
	}, nil
}

// read waits until an ICMP error arrives on the error queue or the context
// deadline passes.
func (l *errQueueListener) read(ctx context.Context) (icmpReply, error) {
	log := logger.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return icmpReply{}, ctx.Err()
		default:
		}

		log.DebugContext(ctx, "Reading ICMP message")
		reply, err := l.recvReply(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return icmpReply{}, context.DeadlineExceeded
			}
			log.ErrorContext(ctx, "Failed to receive ICMP reply", "error", err)
			continue
		}

		return *reply, nil
	}
}

// recvReply performs a single Recvmsg(..., MSG_ERRQUEUE) and parses one ICMP error.
func (l *errQueueListener) recvReply(ctx context.Context) (*icmpReply, error) {
	log := logger.FromContext(ctx)
	deadline, ok := ctx.Deadline()
	if !ok || deadline.IsZero() {
		log.DebugContext(ctx, "No deadline set for ICMP read")
		return nil, context.Canceled
	}

	if err := l.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}

	var reply *icmpReply
	var opErr error
	err := l.rawConn.Read(func(fd uintptr) bool {
		msg, rerr := recvMsg(fd, l.oobBuf, unix.MSG_ERRQUEUE)
		if rerr != nil {
			opErr = rerr
			return true
		}

		reply, opErr = parseExtendedErr(ctx, msg)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read from raw connection: %w", err)
	}

	if opErr == nil {
		return reply, nil
	}

	if errors.Is(opErr, unix.EAGAIN) || errors.Is(opErr, unix.EWOULDBLOCK) {
		log.DebugContext(ctx, "No ICMP error received, socket error queue is empty")
		return nil, context.DeadlineExceeded
	}

	return nil, fmt.Errorf("failed to read ICMP error: %w", opErr)
}

// Close closes the underlying [net.Conn].
func (l *errQueueListener) Close() error {
	return l.conn.Close()
}

// socketMsg represents a message received from the socket.
type socketMsg struct {
	// from is the source address of the message.
	from net.Addr
	// oob is the out-of-band data received with the message.
	// This contains the extended error information from the kernel.
	oob []byte
}

// unixRecvMsg is a wrapper around the [unix.Recvmsg] function.
// It allows us to mock the function in tests.
var unixRecvMsg = unix.Recvmsg

// recvMsg receives a message from the socket error queue.
var recvMsg = func(fd uintptr, oob []byte, flags int) (*socketMsg, error) {
	dataBuf := make([]byte, dataBufSize)
	_, oobn, _, from, err := unixRecvMsg(int(fd), dataBuf, oob, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to receive message: %w", err)
	}

	return &socketMsg{
		from: addrFromSocket(from),
		oob:  oob[:oobn],
	}, nil
}

// addrFromSocket converts a socket address into a [net.Addr].
func addrFromSocket(sa unix.Sockaddr) net.Addr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.IPAddr{IP: net.IPv4(a.Addr[0], a.Addr[1], a.Addr[2], a.Addr[3])}
	case *unix.SockaddrInet6:
		return &net.IPAddr{IP: append(net.IP{}, a.Addr[:]...)}
	default:
		return nil
	}
}

// parseExtendedErr decodes SOL_IP / IP_RECVERR control messages into an ICMP reply.
var parseExtendedErr = func(ctx context.Context, msg *socketMsg) (*icmpReply, error) {
	log := logger.FromContext(ctx)
	cms, err := unix.ParseSocketControlMessage(msg.oob)
	if err != nil {
		return nil, fmt.Errorf("failed to parse control messages: %w", err)
	}

	for _, cm := range cms {
		if cm.Header.Level != unix.SOL_IP || cm.Header.Type != unix.IP_RECVERR {
			continue
		}

		ee, err := newSockExtendedErr(cm.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode extended error: %w", err)
		}

		if ee.Origin != unix.SO_EE_ORIGIN_ICMP {
			log.DebugContext(ctx, "Received extended error of unexpected origin", "extendedErr", fmt.Sprintf("%+v", ee))
			return nil, fmt.Errorf("unexpected extended error origin %d", ee.Origin)
		}

		// The router that generated the ICMP error follows the extended
		// error as a SO_EE_OFFENDER sockaddr. Fall back to the message
		// source if the kernel did not supply it.
		from := msg.from
		if offender := offenderAddr(cm.Data); offender != nil {
			from = offender
		}

		return &icmpReply{
			from:     from,
			icmpType: ee.Type,
			code:     ee.Code,
		}, nil
	}

	return nil, errors.New("no SOL_IP/IP_RECVERR message found")
}

// offenderAddr extracts the SO_EE_OFFENDER sockaddr_in trailing the extended
// error structure, if present.
func offenderAddr(data []byte) net.Addr {
	// sockaddr_in: family (2 bytes), port (2 bytes), address (4 bytes)
	const sockaddrInLen = 8
	if len(data) < minExtendedErrSize+sockaddrInLen {
		return nil
	}

	sa := data[minExtendedErrSize:]
	if binary.LittleEndian.Uint16(sa[0:2]) != unix.AF_INET {
		return nil
	}
	ip := make(net.IP, net.IPv4len)
	copy(ip, sa[4:8])
	return &net.IPAddr{IP: ip}
}

// minExtendedErrSize is the minimum size of the extended error structure
// as defined in the Linux kernel documentation:
// https://man7.org/linux/man-pages/man7/ip.7.html
const minExtendedErrSize = 16

// newSockExtendedErr converts the first 16 bytes of an OOB buffer into a [unix.SockExtendedErr].
func newSockExtendedErr(data []byte) (unix.SockExtendedErr, error) {
	if len(data) < minExtendedErrSize {
		return unix.SockExtendedErr{}, fmt.Errorf("extended error too short: %d bytes", len(data))
	}

	return unix.SockExtendedErr{
		Errno:  binary.LittleEndian.Uint32(data[0:4]),
		Origin: data[4],
		Type:   data[5],
		Code:   data[6],
		Info:   binary.LittleEndian.Uint32(data[8:12]),
		Data:   binary.LittleEndian.Uint32(data[12:16]),
	}, nil
}

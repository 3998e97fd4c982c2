package traceroute

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestHopper_probeHop(t *testing.T) {
	dest := net.ParseIP("93.184.216.34")
	tests := []struct {
		name         string
		probesPerHop int
		// replies maps the attempt index to the outcome kind; missing
		// attempts time out.
		replies      map[int]ProbeOutcome
		wantResolved bool
		wantAddr     string
	}{
		{
			name:         "All probes answered",
			probesPerHop: 3,
			replies: map[int]ProbeOutcome{
				0: {Kind: TimeExceeded, Responder: net.ParseIP("203.0.113.1"), RTT: 5 * time.Millisecond},
				1: {Kind: TimeExceeded, Responder: net.ParseIP("203.0.113.1"), RTT: 6 * time.Millisecond},
				2: {Kind: TimeExceeded, Responder: net.ParseIP("203.0.113.1"), RTT: 7 * time.Millisecond},
			},
			wantResolved: true,
			wantAddr:     "203.0.113.1",
		},
		{
			name:         "Early success does not stop the remaining probes",
			probesPerHop: 3,
			replies: map[int]ProbeOutcome{
				0: {Kind: EchoReply, Responder: dest, RTT: 3 * time.Millisecond},
			},
			wantResolved: true,
			wantAddr:     dest.String(),
		},
		{
			name:         "All probes timed out still seals a hop",
			probesPerHop: 3,
			replies:      map[int]ProbeOutcome{},
			wantResolved: false,
			wantAddr:     NoResponse,
		},
		{
			name:         "Single probe per hop",
			probesPerHop: 1,
			replies: map[int]ProbeOutcome{
				0: {Kind: DestUnreachable, Responder: dest, RTT: 9 * time.Millisecond},
			},
			wantResolved: true,
			wantAddr:     dest.String(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &proberMock{
				sendFunc: func(_ context.Context, hopLimit, seq, _ int) (Probe, error) {
					return Probe{Dest: dest, HopLimit: hopLimit, Seq: seq, Protocol: ProtocolICMP, SentAt: time.Now()}, nil
				},
				awaitReplyFunc: func(_ context.Context, probe Probe, _ time.Duration) ProbeOutcome {
					attempt := probe.Seq % tt.probesPerHop
					if o, ok := tt.replies[attempt]; ok {
						o.Probe = probe
						return o
					}
					return timeoutOutcome(probe)
				},
			}

			h := &hopper{
				prober:     mock,
				otelTracer: noop.NewTracerProvider().Tracer("test"),
				opts:       Options{ProbesPerHop: tt.probesPerHop, Timeout: time.Second},
			}

			hop, err := h.probeHop(t.Context(), 4)
			require.NoError(t, err)

			assert.Equal(t, 4, hop.HopLimit)
			assert.Equal(t, tt.wantResolved, hop.Resolved)
			assert.Equal(t, tt.wantAddr, hop.Addr)
			assert.Len(t, hop.Outcomes, tt.probesPerHop, "one outcome per probe, no early return")
			assert.Len(t, mock.sendCalls(), tt.probesPerHop)
		})
	}
}

func TestHopper_probeHop_sequenceNumbers(t *testing.T) {
	mock := &proberMock{
		sendFunc: func(_ context.Context, hopLimit, seq, _ int) (Probe, error) {
			return Probe{HopLimit: hopLimit, Seq: seq, SentAt: time.Now()}, nil
		},
		awaitReplyFunc: func(_ context.Context, probe Probe, _ time.Duration) ProbeOutcome {
			return timeoutOutcome(probe)
		},
	}

	h := &hopper{
		prober:     mock,
		otelTracer: noop.NewTracerProvider().Tracer("test"),
		opts:       Options{ProbesPerHop: 3, Timeout: time.Second},
	}

	_, err := h.probeHop(t.Context(), 2)
	require.NoError(t, err)
	_, err = h.probeHop(t.Context(), 3)
	require.NoError(t, err)

	var got []int
	for _, call := range mock.sendCalls() {
		got = append(got, call.Seq)
	}
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8}, got, "sequence numbers must be unique within the trace")
}

func TestHopper_probeHop_sendError(t *testing.T) {
	mock := &proberMock{
		sendFunc: func(_ context.Context, _, _, _ int) (Probe, error) {
			return Probe{}, ErrSendFailed
		},
	}

	h := &hopper{
		prober:     mock,
		otelTracer: noop.NewTracerProvider().Tracer("test"),
		opts:       Options{ProbesPerHop: 3, Timeout: time.Second},
	}

	hop, err := h.probeHop(t.Context(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Empty(t, hop.Outcomes)
	assert.Len(t, mock.sendCalls(), 1, "a send failure is fatal for the hop")
}

func TestHopper_probeHop_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	calls := 0
	mock := &proberMock{
		sendFunc: func(_ context.Context, hopLimit, seq, _ int) (Probe, error) {
			calls++
			if calls == 2 {
				cancel()
			}
			return Probe{HopLimit: hopLimit, Seq: seq, SentAt: time.Now()}, nil
		},
		awaitReplyFunc: func(_ context.Context, probe Probe, _ time.Duration) ProbeOutcome {
			return timeoutOutcome(probe)
		},
	}

	h := &hopper{
		prober:     mock,
		otelTracer: noop.NewTracerProvider().Tracer("test"),
		opts:       Options{ProbesPerHop: 5, Timeout: time.Second},
	}

	hop, err := h.probeHop(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, hop.Outcomes, 2, "outcomes collected before cancellation are kept")
}

// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"
	"time"
)

// Result represents the result of a traceroute run, mapping each target host
// to its sealed path result.
type Result map[string]PathResult

// Protocol represents the probe variant used for the traceroute.
type Protocol string

// Protocol constants for the traceroute.
const (
	ProtocolICMP Protocol = "icmp"
	ProtocolUDP  Protocol = "udp"
)

func (p Protocol) String() string {
	switch p {
	case ProtocolICMP, ProtocolUDP:
		return string(p)
	default:
		return "unknown"
	}
}

func (p Protocol) IsValid() bool {
	valid := []Protocol{ProtocolICMP, ProtocolUDP}
	return slices.Contains(valid, p)
}

// Default option values, matching the conventional traceroute parameters.
const (
	DefaultMaxHops      = 30
	DefaultProbesPerHop = 3
	DefaultTimeout      = 2 * time.Second
	// DefaultBasePort is the first destination port for UDP probes. The port
	// is incremented per probe attempt within a hop so that distinct probes
	// are distinguishable in the ICMP errors routers generate.
	DefaultBasePort = 33434
)

// Options contains the optional configuration for the traceroute.
type Options struct {
	// Protocol is the probe variant to use.
	Protocol Protocol `json:"protocol" yaml:"protocol" mapstructure:"protocol"`
	// MaxHops is the maximum hop limit to probe.
	MaxHops int `json:"maxHops" yaml:"maxHops" mapstructure:"maxHops"`
	// ProbesPerHop is the number of probes sent at each hop limit.
	ProbesPerHop int `json:"probesPerHop" yaml:"probesPerHop" mapstructure:"probesPerHop"`
	// Timeout is the hard per-probe reply timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// BasePort is the first destination port for UDP probes.
	BasePort int `json:"basePort,omitempty" yaml:"basePort,omitempty" mapstructure:"basePort"`
}

// withDefaults returns a copy of the options with unset fields filled in.
func (o Options) withDefaults() Options {
	if o.Protocol == "" {
		o.Protocol = ProtocolICMP
	}
	if o.MaxHops <= 0 {
		o.MaxHops = DefaultMaxHops
	}
	if o.ProbesPerHop <= 0 {
		o.ProbesPerHop = DefaultProbesPerHop
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.BasePort <= 0 {
		o.BasePort = DefaultBasePort
	}
	return o
}

// Target represents a destination for the traceroute.
type Target struct {
	// Host is the hostname or address to trace to.
	Host string `json:"host" yaml:"host" mapstructure:"host"`
}

func (t Target) String() string {
	return t.Host
}

func (t Target) Validate() error {
	if t.Host == "" {
		return errors.New("target host cannot be empty")
	}
	return nil
}

// Probe is one transmitted packet. It is immutable once sent and is
// superseded by a ProbeOutcome.
type Probe struct {
	// Dest is the resolved destination address.
	Dest net.IP
	// HopLimit is the TTL the probe was sent with.
	HopLimit int
	// Seq is the sequence number, unique per probe within a path trace.
	Seq int
	// Protocol is the probe variant.
	Protocol Protocol
	// SentAt is the send timestamp.
	SentAt time.Time
}

// OutcomeKind categorizes the reply (or its absence) to a single probe.
type OutcomeKind string

const (
	// EchoReply means the destination itself answered the probe.
	EchoReply OutcomeKind = "echo_reply"
	// TimeExceeded means an intermediate router discarded the probe.
	TimeExceeded OutcomeKind = "time_exceeded"
	// DestUnreachable is the usual terminal reply for UDP probes, since the
	// probed port is normally closed at the destination.
	DestUnreachable OutcomeKind = "dest_unreachable"
	// OtherICMP is any other ICMP message correlated to the probe.
	OtherICMP OutcomeKind = "other_icmp"
	// Timeout means no correlated reply arrived within the probe timeout.
	Timeout OutcomeKind = "timeout"
)

// ProbeOutcome is the result of one probe.
// Responder and RTT are set iff Kind is not Timeout; their absence is the
// signal, not a zero value.
type ProbeOutcome struct {
	Probe     Probe         `json:"-"`
	Kind      OutcomeKind   `json:"kind"`
	Responder net.IP        `json:"responder,omitempty"`
	RTT       time.Duration `json:"-"`
}

// TimedOut reports whether no correlated reply was observed for the probe.
func (o ProbeOutcome) TimedOut() bool {
	return o.Kind == Timeout
}

func (o ProbeOutcome) MarshalJSON() ([]byte, error) {
	type alias ProbeOutcome
	var rtt *float64
	if !o.TimedOut() {
		ms := durationMs(o.RTT)
		rtt = &ms
	}
	return json.Marshal(&struct {
		RTTMs *float64 `json:"rttMs"`
		alias
	}{
		RTTMs: rtt,
		alias: alias(o),
	})
}

// String renders the outcome in the conventional per-probe display format:
// "*" for a timeout, "<address> (<rtt> ms)" otherwise.
func (o ProbeOutcome) String() string {
	if o.TimedOut() {
		return NoResponse
	}
	return fmt.Sprintf("%s (%.3f ms)", o.Responder, durationMs(o.RTT))
}

// NoResponse is the sentinel representative address of a hop whose probes
// all timed out.
const NoResponse = "*"

// Hop is the resolved state of one hop limit value.
type Hop struct {
	// HopLimit is the TTL all probes of this hop were sent with.
	HopLimit int `json:"hopLimit"`
	// Outcomes holds one entry per probe, in issuance order.
	Outcomes []ProbeOutcome `json:"outcomes"`
	// Resolved is true iff at least one outcome is not a timeout.
	Resolved bool `json:"resolved"`
	// Addr is the first non-timeout responder's address, or NoResponse.
	Addr string `json:"addr"`
	// Latency is the round-trip time of the representative outcome.
	// Only meaningful when Resolved is true.
	Latency time.Duration `json:"-"`
}

// newHop seals the outcomes of one hop limit into a hop record. The hop is
// emitted even when every probe timed out, preserving hop-index alignment
// with the hop limit.
func newHop(hopLimit int, outcomes []ProbeOutcome) Hop {
	h := Hop{
		HopLimit: hopLimit,
		Outcomes: outcomes,
		Addr:     NoResponse,
	}
	for _, o := range outcomes {
		if !o.TimedOut() {
			h.Resolved = true
			h.Addr = o.Responder.String()
			h.Latency = o.RTT
			break
		}
	}
	return h
}

func (h Hop) MarshalJSON() ([]byte, error) {
	type alias Hop
	var latency *float64
	if h.Resolved {
		ms := durationMs(h.Latency)
		latency = &ms
	}
	return json.Marshal(&struct {
		LatencyMs *float64 `json:"latencyMs"`
		alias
	}{
		LatencyMs: latency,
		alias:     alias(h),
	})
}

// String renders one line per hop: the hop limit right-justified in a
// 2-character field, followed by one segment per probe outcome.
func (h Hop) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%2d", h.HopLimit)
	for _, o := range h.Outcomes {
		sb.WriteString(" ")
		sb.WriteString(o.String())
	}
	return sb.String()
}

// Reason is the terminal reason a trace ended with.
type Reason string

const (
	// ReasonDestinationReached means the destination answered a probe.
	ReasonDestinationReached Reason = "destination_reached"
	// ReasonMaxHopsExceeded means the hop limit ran out before the
	// destination was reached.
	ReasonMaxHopsExceeded Reason = "max_hops_exceeded"
	// ReasonResolutionFailed means the target hostname could not be resolved;
	// the trace never probed a single hop.
	ReasonResolutionFailed Reason = "resolution_failed"
	// ReasonSendFailed means the probing transport could not be opened or a
	// probe could not be transmitted.
	ReasonSendFailed Reason = "send_failed"
	// ReasonCanceled means the trace was canceled externally; the partially
	// completed path result is still reported.
	ReasonCanceled Reason = "canceled"
)

// PathResult is the complete traceroute output for one destination.
// It is sealed when the trace loop ends and immutable afterwards.
type PathResult struct {
	// Destination is the host the trace was requested for.
	Destination string `json:"destination"`
	// Addr is the resolved destination address. Empty if resolution failed.
	Addr string `json:"addr,omitempty"`
	// Hops are the hop records ordered by hop limit with no gaps
	// (index = hop limit - 1).
	Hops []Hop `json:"hops"`
	// ASPath lists the owning networks of the responding hops, with
	// adjacent duplicates suppressed.
	ASPath []string `json:"asPath,omitempty"`
	// Success is true iff the destination was reached.
	Success bool `json:"success"`
	// Reason is the terminal reason of the trace.
	Reason Reason `json:"reason"`
	// AvgLatency is the mean of the representative latencies of all resolved
	// hops. Only meaningful when HasLatency is true; a trace where no hop
	// produced a latency has no average, not a zero one.
	AvgLatency time.Duration `json:"-"`
	// HasLatency is true iff at least one hop produced a latency.
	HasLatency bool `json:"-"`
}

// seal sets the terminal reason and the derived success flag and average
// latency. No hop records may be appended afterwards.
func (r *PathResult) seal(reason Reason) {
	r.Reason = reason
	r.Success = reason == ReasonDestinationReached

	var sum time.Duration
	var n int
	for _, h := range r.Hops {
		if h.Resolved {
			sum += h.Latency
			n++
		}
	}
	if n > 0 {
		r.AvgLatency = sum / time.Duration(n)
		r.HasLatency = true
	}
}

func (r PathResult) MarshalJSON() ([]byte, error) {
	type alias PathResult
	var avg *float64
	if r.HasLatency {
		ms := durationMs(r.AvgLatency)
		avg = &ms
	}
	return json.Marshal(&struct {
		AvgLatencyMs *float64 `json:"avgLatencyMs"`
		alias
	}{
		AvgLatencyMs: avg,
		alias:        alias(r),
	})
}

// ASPathString renders the AS path for operator-facing output.
func (r PathResult) ASPathString() string {
	if len(r.ASPath) == 0 {
		return "Unknown"
	}
	return strings.Join(r.ASPath, " → ")
}

// durationMs converts a duration to milliseconds with sub-millisecond
// resolution preserved.
func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

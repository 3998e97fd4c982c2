// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/wagtail-net/wagtail/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ Client = (*tracer)(nil)

// Client is able to run a traceroute to one or more targets.
//
//go:generate go tool moq -out client_moq.go . Client
type Client interface {
	// Run executes the traceroute for the given targets with the specified
	// options. Each target is traced independently: a failing trace yields a
	// path result with its failure reason and never aborts the batch.
	Run(ctx context.Context, targets []Target, opts *Options) (Result, error)
}

// Resolver performs the single forward lookup mapping a target host to the
// address that is probed. No further name resolution happens during a trace.
//
//go:generate go tool moq -out resolver_moq.go . Resolver
type Resolver interface {
	Resolve(ctx context.Context, host string) (net.IP, error)
}

// Attributor resolves a responding address to the label of the owning
// network. Attribution is deferred until the hop loop has finished, so an
// arbitrarily slow attributor never blocks probing.
//
//go:generate go tool moq -out attributor_moq.go . Attributor
type Attributor interface {
	Attribute(ctx context.Context, addr string) string
}

// tracer drives the hop prober across increasing hop limits and assembles
// the ordered hop records into sealed path results.
type tracer struct {
	resolver   Resolver
	attributor Attributor
	// newProber abstracts transport creation for unit testing.
	newProber func(dest net.IP, opts Options) (prober, error)
}

// NewClient creates a traceroute client. A nil resolver falls back to the
// system resolver; a nil attributor disables AS path assembly.
func NewClient(resolver Resolver, attributor Attributor) Client {
	if resolver == nil {
		resolver = &ipResolver{}
	}
	return &tracer{
		resolver:   resolver,
		attributor: attributor,
		newProber:  newProber,
	}
}

// Run executes the traceroute for the given targets sequentially.
func (t *tracer) Run(ctx context.Context, targets []Target, opts *Options) (Result, error) {
	for _, target := range targets {
		if err := target.Validate(); err != nil {
			return nil, fmt.Errorf("invalid target %s: %w", target, err)
		}
	}

	if opts == nil {
		opts = &Options{}
	}
	o := opts.withDefaults()
	otelTracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("traceroute.client")
	ctx, sp := otelTracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.Int("traceroute.targets.count", len(targets)),
		attribute.String("traceroute.options.protocol", o.Protocol.String()),
		attribute.Int("traceroute.options.max_hops", o.MaxHops),
		attribute.Stringer("traceroute.options.timeout", o.Timeout),
	))
	defer sp.End()

	res := make(Result, len(targets))
	for _, target := range targets {
		result := t.trace(ctx, otelTracer, target, o)
		res[target.Host] = result
		logHops(ctx, result.Hops)
	}

	return res, nil
}

// trace runs the hop limit state machine for a single target: starting at
// hop limit 1, each sealed hop record either terminates the trace (the
// representative address equals the resolved destination, the hop limit
// budget is exhausted, the trace is canceled, or sending fails fatally) or
// advances to the next hop limit. Hop records are strictly ordered by hop
// limit with no gaps.
func (t *tracer) trace(ctx context.Context, otelTracer trace.Tracer, target Target, opts Options) PathResult {
	ctx, span := otelTracer.Start(ctx, target.String(), trace.WithAttributes(
		attribute.Stringer("traceroute.target", target),
	))
	defer span.End()
	log := logger.FromContext(ctx).With("target", target.Host)
	log.DebugContext(ctx, "Starting traceroute", "protocol", opts.Protocol)

	res := PathResult{Destination: target.Host, Hops: []Hop{}}

	dest, err := t.resolver.Resolve(ctx, target.Host)
	if err != nil {
		log.WarnContext(ctx, "Failed to resolve target", "error", err)
		span.SetStatus(codes.Error, "Failed to resolve target")
		span.RecordError(err)
		return t.finish(ctx, res, ReasonResolutionFailed)
	}
	res.Addr = dest.String()

	pr, err := t.newProber(dest, opts)
	if err != nil {
		log.ErrorContext(ctx, "Failed to open probing transport", "error", err)
		span.SetStatus(codes.Error, "Failed to open probing transport")
		span.RecordError(err)
		return t.finish(ctx, res, ReasonSendFailed)
	}
	defer func() { _ = pr.Close() }()

	h := &hopper{prober: pr, otelTracer: otelTracer, opts: opts}
	for hopLimit := 1; hopLimit <= opts.MaxHops; hopLimit++ {
		hop, err := h.probeHop(ctx, hopLimit)
		switch {
		// Cancellation at hop granularity: in-flight probes of the current
		// hop are abandoned, the partial result is still reportable.
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			span.AddEvent("Trace canceled", trace.WithAttributes(
				attribute.Int("traceroute.hop.limit", hopLimit),
			))
			return t.finish(ctx, res, ReasonCanceled)

		case err != nil:
			span.SetStatus(codes.Error, "Failed to probe hop")
			span.RecordError(err)
			return t.finish(ctx, res, ReasonSendFailed)
		}

		res.Hops = append(res.Hops, hop)
		log.DebugContext(ctx, "Hop sealed", "hop", hop.String())
		span.AddEvent("Hop sealed", trace.WithAttributes(
			attribute.Int("traceroute.hop.limit", hopLimit),
			attribute.Bool("traceroute.hop.resolved", hop.Resolved),
			attribute.Stringer("traceroute.hop", hop),
		))

		if hop.Resolved && hop.Addr == res.Addr {
			return t.finish(ctx, res, ReasonDestinationReached)
		}
	}

	return t.finish(ctx, res, ReasonMaxHopsExceeded)
}

// finish seals the path result and assembles its AS path. Each resolved
// hop's owner label is appended only if it differs from the last entry:
// adjacent duplicates are suppressed, non-adjacent repetitions are kept.
func (t *tracer) finish(ctx context.Context, res PathResult, reason Reason) PathResult {
	res.seal(reason)
	if t.attributor == nil {
		return res
	}

	for _, hop := range res.Hops {
		if !hop.Resolved {
			continue
		}
		label := t.attributor.Attribute(ctx, hop.Addr)
		if n := len(res.ASPath); n == 0 || res.ASPath[n-1] != label {
			res.ASPath = append(res.ASPath, label)
		}
	}
	return res
}

// ipResolver resolves hosts with the system resolver, preferring the first
// IPv4 address. Probing is IPv4 only.
type ipResolver struct{}

func (r *ipResolver) Resolve(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return nil, fmt.Errorf("target %s is not an IPv4 address", host)
		}
		return ip.To4(), nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", host, err)
	}
	for _, addr := range addrs {
		if v4 := addr.IP.To4(); v4 != nil {
			return v4, nil
		}
	}
	return nil, fmt.Errorf("no IPv4 address found for %s", host)
}

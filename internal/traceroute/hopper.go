// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// hopper is responsible for executing all probes of a single hop limit and
// sealing them into one hop record.
type hopper struct {
	prober     prober
	otelTracer trace.Tracer
	opts       Options
}

// probeHop issues opts.ProbesPerHop probes at the given hop limit and
// collects one outcome per probe, in issuance order. The hop is considered
// resolved as soon as the first non-timeout outcome is observed, but all
// probes are still attempted and recorded: the remaining samples feed
// latency-variance analysis downstream, so the loop never returns early on
// the first success.
//
// Sequence numbers are derived from the hop limit and attempt index, keeping
// them unique within the enclosing trace.
func (h *hopper) probeHop(ctx context.Context, hopLimit int) (Hop, error) {
	ctx, span := h.otelTracer.Start(ctx, "traceroute.hop", trace.WithAttributes(
		attribute.Int("traceroute.hop.limit", hopLimit),
		attribute.Int("traceroute.hop.probes", h.opts.ProbesPerHop),
	))
	defer span.End()

	outcomes := make([]ProbeOutcome, 0, h.opts.ProbesPerHop)
	for attempt := 0; attempt < h.opts.ProbesPerHop; attempt++ {
		// Cancellation is honored at probe granularity; the partially
		// probed hop is abandoned by the caller.
		if err := ctx.Err(); err != nil {
			return newHop(hopLimit, outcomes), err
		}

		seq := (hopLimit-1)*h.opts.ProbesPerHop + attempt
		probe, err := h.prober.send(ctx, hopLimit, seq, attempt)
		if err != nil {
			return newHop(hopLimit, outcomes), wrapError(ctx, err, "failed to send probe")
		}

		outcome := h.prober.awaitReply(ctx, probe, h.opts.Timeout)
		span.AddEvent("Probe outcome", trace.WithAttributes(
			attribute.Int("traceroute.probe.seq", seq),
			attribute.String("traceroute.probe.outcome", string(outcome.Kind)),
			attribute.Stringer("traceroute.probe", outcome),
		))
		outcomes = append(outcomes, outcome)
	}

	return newHop(hopLimit, outcomes), nil
}

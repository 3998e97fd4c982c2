// Package traceroute provides active network path discovery: for a
// destination host it determines the sequence of intermediate routers a
// packet traverses, the round-trip latency to each, and the autonomous
// system each responding hop belongs to.
//
// It exposes a [Client] for tracing the path to one or more targets with
// configurable [Options]. Under the hood it sends probes with incrementing
// hop limits (ICMP echo requests over a raw socket, or UDP datagrams whose
// ICMP errors are read from the kernel error queue), classifies each reply,
// aggregates the per-hop samples into hop records and seals them into an
// ordered, immutable [PathResult].
//
// Key features:
//   - Pure-Go probing with IP_TTL control via x/net/icmp and x/sys/unix
//     (no external traceroute binary required)
//   - ICMP echo and UDP probe variants with a shared classification taxonomy
//     (echo reply, time exceeded, destination unreachable, other, timeout)
//   - Multiple probes per hop, all collected for latency-variance analysis;
//     the hop prober never short-circuits on the first response
//   - Optional AS attribution of responding hops through an [Attributor],
//     with adjacent-duplicate suppression in the resulting AS path
//   - Built-in OpenTelemetry spans and events for tracing each hop and errors
//   - Per-target isolation: a failing trace never aborts the batch
//   - Fully mockable internals (prober, Client) for unit testing
//
// Typical usage:
//
//	client := traceroute.NewClient(nil, nil)
//	opts   := &traceroute.Options{Protocol: traceroute.ProtocolICMP, MaxHops: 30, Timeout: 2 * time.Second}
//	res, err := client.Run(ctx, []traceroute.Target{{Host: "example.com"}}, opts)
//	// res maps each target host to its sealed PathResult
//
// See each type for more detailed documentation.
package traceroute

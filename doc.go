// Package msgchain is a toolkit for composing in-process message handlers.
//
// Handlers are built as chains of decorators around a terminal function:
//
//   - core/chain: builder, build notification and decorators (worker pools,
//     throughput limits, semaphores, retry, deduplication, First/TakeWhile,
//     liveness, outcome observation)
//   - core/bus: in-process publish/subscribe bus that chains subscribe to
//   - core/wireup: table-driven installation of decorators from specs,
//     YAML or environment configuration
//   - core/config: cached environment loading
//   - core/logger: slog attribute helpers
//   - pkg/metrics: Prometheus instrumentation for chains
package msgchain

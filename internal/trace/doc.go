// Package trace records what the resolution core does: module loads,
// type and function resolutions, cache hits, and native calls.
//
// Tracing never changes behavior. Failures are still returned to the caller;
// the tracer only keeps a record of them.
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: failures only
//   - LevelPhase: host-level operations
//   - LevelDetail: module loads
//   - LevelDebug: every resolution and native call
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeModule, "load:System", 0)
//	defer span.End("")
package trace

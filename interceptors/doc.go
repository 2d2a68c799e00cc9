// Package interceptors wraps signal deliveries with cross-cutting behavior.
//
// A signals.Registry configured with interceptors runs every dispatch of every
// connection through an InterceptorChain before it reaches the receiver. For a
// direct connection the receiver is called inside the chain; for a delayed
// connection the chain wraps the enqueue, and the later Slot.DoWork drain runs
// outside it.
//
// Built-in interceptors:
//   - LoggingInterceptor: logs each delivery with timing information
//   - MetricsInterceptor: feeds a MetricsCollector per signal
//   - RecoveryInterceptor: turns a panicking receiver into a PanicError
//   - FilteringInterceptor: drops deliveries rejected by a DeliveryFilter
//   - ConditionalInterceptor: applies another interceptor only when a filter matches
//
// Example usage:
//
//	chain := interceptors.NewChainBuilder(logger).
//		WithRecovery().
//		WithLogging().
//		WithMetrics(interceptors.NewSimpleMetricsCollector()).
//		Build()
//
//	registry := signals.NewRegistry(signals.WithInterceptorChain(chain))
//
// An interceptor that returns without calling next skips that one delivery.
// A returned error is logged and counted by the registry; it never stops the
// remaining connections of the same emission.
package interceptors

/*
Package observability turns engine lifecycle events into Prometheus metrics
and structured log records.

Both are exposed as domain.LifecycleHooks, so they plug into any engine:

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	eng, _ := mealy.New(table, mealy.WithLifecycleHooks(
		metrics.Hooks().Merge(observability.LogHooks(logger)),
	))
*/
package observability

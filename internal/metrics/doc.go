// Package metrics provides build observability for scriptpack.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing, so callers never check for nil:
//
//	driver := build.NewDriver(store, minifier) // uses metrics.NoopRecorder{}
//
// When a metrics file is requested, the CLI swaps in a PrometheusRecorder
// bound to a private registry and dumps it after the run:
//
//	reg := prometheus.NewRegistry()
//	driver.WithRecorder(metrics.NewPrometheusRecorder(reg))
//	...
//	_ = metrics.WriteTextfile(reg, "scriptpack.prom")
package metrics

// Package metrics records compile and dispatch metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics never
// need nil checks at call sites. The dev server swaps in a PrometheusRecorder
// and exposes it through HTTPHandler when --metrics is set:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	orch := compile.New(cctx, site, compile.WithRecorder(rec))
//	router.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics

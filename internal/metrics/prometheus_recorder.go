package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	phaseDuration   *prom.HistogramVec
	compileDuration prom.Histogram
	phaseResults    *prom.CounterVec
	compileOutcome  *prom.CounterVec
	pagesRendered   prom.Counter
	dispatches      *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of individual compile phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"}),
		compileDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Total compile pass duration",
			Buckets:   prom.DefBuckets,
		}),
		phaseResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "phase_results_total",
			Help:      "Phase result counts by outcome",
		}, []string{"phase", "result"}),
		compileOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "compile_outcomes_total",
			Help:      "Compile passes by final status",
		}, []string{"outcome"}),
		pagesRendered: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Pages written by compile passes",
		}),
		dispatches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Dispatched requests by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.phaseDuration, pr.compileDuration, pr.phaseResults, pr.compileOutcome, pr.pagesRendered, pr.dispatches)
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	if p == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveCompileDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.compileDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPhaseResult(phase string, result ResultLabel) {
	if p == nil {
		return
	}
	p.phaseResults.WithLabelValues(phase, string(result)).Inc()
}

func (p *PrometheusRecorder) IncCompileOutcome(outcome string) {
	if p == nil {
		return
	}
	p.compileOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddPagesRendered(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pagesRendered.Add(float64(n))
}

func (p *PrometheusRecorder) IncDispatch(outcome DispatchLabel) {
	if p == nil {
		return
	}
	p.dispatches.WithLabelValues(string(outcome)).Inc()
}

package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.ObservePhaseDuration("cleanup", time.Millisecond)
		r.ObserveCompileDuration(time.Second)
		r.IncPhaseResult("cleanup", ResultSuccess)
		r.IncCompileOutcome("success")
		r.AddPagesRendered(3)
		r.IncDispatch(DispatchMatched)
	})
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var p *PrometheusRecorder
	assert.NotPanics(t, func() {
		p.ObservePhaseDuration("generate", time.Millisecond)
		p.IncDispatch(DispatchError)
		p.AddPagesRendered(1)
	})
}

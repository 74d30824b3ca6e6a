package metrics

import "time"

// ResultLabel enumerates phase result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// DispatchLabel enumerates terminal dispatch outcomes.
type DispatchLabel string

const (
	DispatchMatched  DispatchLabel = "matched"
	DispatchNotFound DispatchLabel = "not_found"
	DispatchError    DispatchLabel = "error"
)

// Recorder defines observability hooks for compile passes and dispatches.
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	ObserveCompileDuration(d time.Duration)
	IncPhaseResult(phase string, result ResultLabel)
	IncCompileOutcome(outcome string) // success|warning|failed|canceled
	AddPagesRendered(n int)
	IncDispatch(outcome DispatchLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration) {}
func (NoopRecorder) ObserveCompileDuration(time.Duration)       {}
func (NoopRecorder) IncPhaseResult(string, ResultLabel)         {}
func (NoopRecorder) IncCompileOutcome(string)                   {}
func (NoopRecorder) AddPagesRendered(int)                       {}
func (NoopRecorder) IncDispatch(DispatchLabel)                  {}

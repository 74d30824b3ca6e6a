package compile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phpnomad/documentation/internal/logfields"
	"github.com/phpnomad/documentation/internal/metrics"
	"github.com/phpnomad/documentation/internal/observability"
)

// Canonical phase names.
const (
	PhaseCleanup    = "cleanup"
	PhaseGenerate   = "generate"
	PhaseCopyAssets = "copy_assets"
)

// Signal names an ordered group of phases. The initiation signal runs cleanup
// and then any hooks; the request signal runs generation, asset copying and
// then any hooks.
type Signal string

const (
	SignalInitiation Signal = "initiation"
	SignalRequest    Signal = "request"
)

// PhaseFunc is the body of a phase.
type PhaseFunc func(ctx context.Context, st *State) error

// Phase is a named unit of work in a compile pass.
type Phase struct {
	Name string
	Run  PhaseFunc
}

// ErrorKind classifies a phase failure.
type ErrorKind string

const (
	ErrorFatal    ErrorKind = "fatal"    // Compile must abort.
	ErrorWarning  ErrorKind = "warning"  // Recorded; the pass continues.
	ErrorCanceled ErrorKind = "canceled" // Context canceled before the phase started.
)

// PhaseError is a classified phase failure.
type PhaseError struct {
	Kind  ErrorKind
	Phase string
	Err   error
}

func (e *PhaseError) Error() string { return fmt.Sprintf("%s phase %s: %v", e.Kind, e.Phase, e.Err) }
func (e *PhaseError) Unwrap() error { return e.Err }

// Fatal marks err as aborting the compile.
func Fatal(phase string, err error) *PhaseError {
	return &PhaseError{Kind: ErrorFatal, Phase: phase, Err: err}
}

// Warning marks err as non-fatal.
func Warning(phase string, err error) *PhaseError {
	return &PhaseError{Kind: ErrorWarning, Phase: phase, Err: err}
}

func canceled(phase string, err error) *PhaseError {
	return &PhaseError{Kind: ErrorCanceled, Phase: phase, Err: err}
}

// State carries the compile context and report across phases.
type State struct {
	Context Context
	Report  *Report
}

// runPhases executes phases in order, recording timing and stopping on the
// first fatal error. Cancellation is only observed between phases.
func runPhases(ctx context.Context, st *State, rec metrics.Recorder, phases []Phase) error {
	for _, ph := range phases {
		if err := ctx.Err(); err != nil {
			pe := canceled(ph.Name, err)
			st.Report.recordError(pe)
			rec.IncPhaseResult(ph.Name, metrics.ResultCanceled)
			return pe
		}

		pctx := observability.WithPhase(ctx, ph.Name)
		t0 := time.Now()
		err := ph.Run(pctx, st)
		dur := time.Since(t0)
		st.Report.PhaseDurations[ph.Name] += dur
		rec.ObservePhaseDuration(ph.Name, dur)

		if err == nil {
			observability.DebugContext(pctx, "Phase complete", logfields.DurationMS(float64(dur.Microseconds())/1000))
			rec.IncPhaseResult(ph.Name, metrics.ResultSuccess)
			continue
		}

		var pe *PhaseError
		if !errors.As(err, &pe) {
			pe = Fatal(ph.Name, err)
		}
		st.Report.recordError(pe)
		switch pe.Kind {
		case ErrorWarning:
			observability.WarnContext(pctx, "Phase finished with warnings", logfields.Error(pe.Err))
			rec.IncPhaseResult(ph.Name, metrics.ResultWarning)
			continue
		case ErrorCanceled:
			rec.IncPhaseResult(ph.Name, metrics.ResultCanceled)
		default:
			observability.ErrorContext(pctx, "Phase failed", logfields.Error(pe.Err))
			rec.IncPhaseResult(ph.Name, metrics.ResultFatal)
		}
		return pe
	}
	return nil
}

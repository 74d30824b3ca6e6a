package compile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phpnomad/documentation/internal/dispatch"
	derrors "github.com/phpnomad/documentation/internal/errors"
	"github.com/phpnomad/documentation/internal/fsutil"
	"github.com/phpnomad/documentation/internal/logfields"
	"github.com/phpnomad/documentation/internal/metrics"
	"github.com/phpnomad/documentation/internal/observability"
	"github.com/phpnomad/documentation/internal/routing"
)

// Source supplies what a compile pass renders.
type Source interface {
	// Check fails with a RootNotFound error when an input root is missing.
	Check() error
	// Build enumerates the documents once and returns the route table with a
	// dispatcher over it.
	Build(ctx context.Context) (*routing.Table, *dispatch.Dispatcher, error)
}

// Orchestrator sequences the phases of a compile pass.
type Orchestrator struct {
	cctx     Context
	source   Source
	recorder metrics.Recorder
	hooks    map[Signal][]Phase
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder records phase and compile metrics.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// New creates an Orchestrator for one compile context.
func New(cctx Context, source Source, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cctx:     cctx,
		source:   source,
		recorder: metrics.NoopRecorder{},
		hooks:    make(map[Signal][]Phase),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Hook appends a caller phase to signal. Initiation hooks run after cleanup
// and before generation; request hooks run after asset copying.
func (o *Orchestrator) Hook(signal Signal, phase Phase) {
	o.hooks[signal] = append(o.hooks[signal], phase)
}

// Phases returns the ordered phase list for a pass.
func (o *Orchestrator) Phases() []Phase {
	phases := []Phase{{Name: PhaseCleanup, Run: cleanupPhase}}
	phases = append(phases, o.hooks[SignalInitiation]...)
	phases = append(phases,
		Phase{Name: PhaseGenerate, Run: o.generatePhase},
		Phase{Name: PhaseCopyAssets, Run: copyAssetsPhase},
	)
	return append(phases, o.hooks[SignalRequest]...)
}

// Run executes one compile pass. The returned report is never nil. A missing
// input root fails before anything is written.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	report := newReport(o.cctx)
	ctx = observability.WithBuildID(ctx, o.cctx.BuildID)
	observability.InfoContext(ctx, "Starting compile", logfields.Path(o.cctx.OutputDir))

	err := o.source.Check()
	if err != nil {
		report.Errors = append(report.Errors, err)
	} else {
		err = runPhases(ctx, &State{Context: o.cctx, Report: report}, o.recorder, o.Phases())
	}
	report.finish()

	o.recorder.ObserveCompileDuration(report.Duration())
	o.recorder.IncCompileOutcome(string(report.Outcome))
	o.recorder.AddPagesRendered(report.PagesWritten())

	if err != nil {
		observability.ErrorContext(ctx, "Compile failed", logfields.Error(err))
		return report, err
	}
	observability.InfoContext(ctx, "Compile finished",
		logfields.Count(report.PagesWritten()),
		logfields.DurationMS(float64(report.Duration().Microseconds())/1000),
		slog.Int("warnings", len(report.Warnings)))
	return report, nil
}

func cleanupPhase(_ context.Context, st *State) error {
	return fsutil.CleanDir(st.Context.OutputDir)
}

// generatePhase renders every route in enumeration order. The first failure
// aborts the loop; files already written stay on disk.
func (o *Orchestrator) generatePhase(ctx context.Context, st *State) error {
	table, dispatcher, err := o.source.Build(ctx)
	if err != nil {
		return err
	}
	st.Report.Duplicates = len(table.Duplicates())

	for _, route := range table.Routes() {
		resp, err := dispatcher.DispatchEndpoint(ctx, route.Endpoint)
		if err != nil {
			return err
		}
		if !resp.OK() {
			observability.WarnContext(ctx, "Route rendered a non-success status",
				logfields.Endpoint(route.Endpoint), logfields.Status(resp.Status))
		}
		file := fsutil.OutputPath(st.Context.OutputDir, route.Endpoint)
		if err := fsutil.WriteFile(file, resp.Body); err != nil {
			return err
		}
		st.Report.Pages = append(st.Report.Pages, PageRecord{Endpoint: route.Endpoint, File: file})
		observability.DebugContext(ctx, "Wrote page", logfields.Endpoint(route.Endpoint), logfields.File(file))
	}

	if st.Report.Duplicates > 0 {
		return Warning(PhaseGenerate, derrors.New(derrors.CategoryValidation, derrors.SeverityWarning, "duplicate endpoints replaced").
			WithKind(derrors.ErrDuplicateRoute).
			WithContext("count", st.Report.Duplicates))
	}
	return nil
}

// copyAssetsPhase mirrors each asset subdirectory into <out>/public. Missing
// sources are skipped and reported as a warning.
func copyAssetsPhase(ctx context.Context, st *State) error {
	var missing []error
	for _, sub := range st.Context.AssetDirs {
		src := st.Context.AssetSource(sub)
		if !fsutil.IsDir(src) {
			observability.WarnContext(ctx, "Asset directory missing, skipped", logfields.Path(src))
			st.Report.AssetsSkipped = append(st.Report.AssetsSkipped, sub)
			missing = append(missing, derrors.AssetDirectoryMissing(src))
			continue
		}
		n, err := fsutil.CopyDir(src, st.Context.AssetTarget(sub))
		st.Report.AssetsCopied += n
		if err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		return Warning(PhaseCopyAssets, errors.Join(missing...))
	}
	return nil
}

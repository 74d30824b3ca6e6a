package compile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phpnomad/documentation/internal/config"
	derrors "github.com/phpnomad/documentation/internal/errors"
	"github.com/phpnomad/documentation/internal/metrics"
	"github.com/phpnomad/documentation/internal/site"
	sitetest "github.com/phpnomad/documentation/internal/testing"
)

func newOrchestrator(t *testing.T, cfg *config.Config, opts ...Option) *Orchestrator {
	t.Helper()
	s, err := site.New(cfg)
	require.NoError(t, err)
	return New(NewContext(cfg.OutputDir, cfg.TemplateRoot, cfg.AssetDirs), s, opts...)
}

func TestRun_ThreeDocumentsThreeFiles(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).Docs("index.md", "guide.md", "topics/index.md")

	report, err := newOrchestrator(t, fx.Config()).Run(context.Background())
	require.NoError(t, err)

	fx.OutputAssertions().
		AssertFiles("index.html", "guide/index.html", "topics/index.html").
		AssertFileContains("guide/index.html", "Content of guide")
	assert.Equal(t, 3, report.PagesWritten())
	assert.Equal(t, []string{"assets"}, report.AssetsSkipped)
	assert.Equal(t, OutcomeWarning, report.Outcome)
	assert.NotEmpty(t, report.BuildID)
	assert.Contains(t, report.PhaseDurations, PhaseCleanup)
	assert.Contains(t, report.PhaseDurations, PhaseGenerate)
	assert.Contains(t, report.PhaseDurations, PhaseCopyAssets)
}

func TestRun_PunctuatedNamesWriteTheirOwnBodies(t *testing.T) {
	names := []string{"faq#1", "what?", "a%41b", "with space"}
	fx := sitetest.NewSiteFixture(t).Docs("index.md", "faq#1.md", "what?.md", "a%41b.md", "with space.md")

	report, err := newOrchestrator(t, fx.Config()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, report.PagesWritten())

	out := fx.OutputAssertions().AssertFiles(
		"index.html", "faq#1/index.html", "what?/index.html", "a%41b/index.html", "with space/index.html")
	for _, name := range names {
		body := out.GetFileContent(name + "/index.html")
		assert.Contains(t, body, "Content of "+name, name)
		assert.NotContains(t, body, "Page not found", name)
	}
}

func TestRun_NoWrittenPageIsTheNotFoundPage(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).Docs(
		"index.md", "guide.md", "topics/index.md", "topics/deep.md", "topics/nested/leaf.md", "Über.md")

	report, err := newOrchestrator(t, fx.Config()).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 6, report.PagesWritten())

	for _, page := range report.Pages {
		body, err := os.ReadFile(page.File)
		require.NoError(t, err, page.Endpoint)
		assert.Contains(t, string(body), "Content of ", page.Endpoint)
		assert.NotContains(t, string(body), "Page not found", page.Endpoint)
	}
}

func TestRun_CleanupRemovesStaleOutputBeforeGeneration(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).
		Docs("guide.md").
		Output("old.html", "stale").
		Output("nested/old/index.html", "stale")

	o := newOrchestrator(t, fx.Config())
	var (
		inspected           bool
		entriesAfterCleanup []os.DirEntry
	)
	o.Hook(SignalInitiation, Phase{Name: "inspect", Run: func(_ context.Context, st *State) error {
		var err error
		inspected = true
		entriesAfterCleanup, err = os.ReadDir(st.Context.OutputDir)
		return err
	}})

	_, err := o.Run(context.Background())
	require.NoError(t, err)

	require.True(t, inspected)
	assert.Empty(t, entriesAfterCleanup)
	fx.OutputAssertions().
		AssertFileNotExists("old.html").
		AssertFiles("guide/index.html")
}

func TestRun_OutputPathIsAFile(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).Docs("guide.md")
	require.NoError(t, os.WriteFile(fx.Config().OutputDir, []byte("file"), 0o600))

	_, err := newOrchestrator(t, fx.Config()).Run(context.Background())
	require.NoError(t, err)
	fx.OutputAssertions().AssertFiles("guide/index.html")
}

func TestRun_RepeatedRunsAreIdentical(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).Docs("index.md", "a/b.md").Asset("assets", "x.css", "body{}")
	o := newOrchestrator(t, fx.Config())

	for range 2 {
		report, err := o.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, OutcomeSuccess, report.Outcome)
		fx.OutputAssertions().AssertFiles("index.html", "a/b/index.html", "public/assets/x.css")
	}
}

func TestRun_CopiesAssets(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).
		Docs("index.md").
		Asset("assets", "css/site.css", "body{}").
		Asset("img", "logo.svg", "<svg/>").
		Asset("private", "secret.txt", "nope")
	fx.Config().AssetDirs = []string{"assets", "img", "fonts"}

	report, err := newOrchestrator(t, fx.Config()).Run(context.Background())
	require.NoError(t, err)

	fx.OutputAssertions().AssertFiles(
		"index.html",
		"public/assets/css/site.css",
		"public/img/logo.svg",
	)
	assert.Equal(t, 2, report.AssetsCopied)
	assert.Equal(t, []string{"fonts"}, report.AssetsSkipped)
	assert.Equal(t, OutcomeWarning, report.Outcome)
	require.Len(t, report.Warnings, 1)
	assert.ErrorIs(t, report.Warnings[0], derrors.ErrAssetDirectoryMissing)
	assert.Equal(t, ErrorWarning, report.PhaseErrorKinds[PhaseCopyAssets])
}

func TestRun_WriteErrorAbortsGenerate(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).
		Docs("guide.md", "index.md", "topics/index.md").
		Asset("assets", "x.css", "body{}")

	o := newOrchestrator(t, fx.Config())
	// A file where the topics directory must go makes the third write fail.
	o.Hook(SignalInitiation, Phase{Name: "block", Run: func(_ context.Context, st *State) error {
		return os.WriteFile(filepath.Join(st.Context.OutputDir, "topics"), nil, 0o600)
	}})

	report, err := o.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, derrors.ErrFileSystem)

	var pe *PhaseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, PhaseGenerate, pe.Phase)
	assert.Equal(t, ErrorFatal, pe.Kind)

	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Equal(t, 2, report.PagesWritten())
	fx.OutputAssertions().
		AssertFileExists("guide/index.html").
		AssertFileExists("index.html").
		AssertFileNotExists("public/assets/x.css")
	assert.NotContains(t, report.PhaseDurations, PhaseCopyAssets)
}

func TestRun_RootNotFoundBeforeAnyWrite(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).Output("old.html", "stale")
	fx.Config().DocsRoot = filepath.Join(fx.Root, "missing")

	report, err := newOrchestrator(t, fx.Config()).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, derrors.ErrRootNotFound)
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Empty(t, report.PhaseDurations)
	fx.OutputAssertions().AssertFiles("old.html")
}

func TestRun_TemplateRootNotFound(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).Docs("index.md")
	s, err := site.New(fx.Config())
	require.NoError(t, err)

	cctx := NewContext(fx.Config().OutputDir, filepath.Join(fx.Root, "nope"), nil)
	fx.Config().TemplateRoot = cctx.TemplateRoot
	_, err = New(cctx, s).Run(context.Background())
	assert.ErrorIs(t, err, derrors.ErrRootNotFound)
}

func TestRun_PhaseOrderWithHooks(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).Docs("index.md")
	o := newOrchestrator(t, fx.Config())

	var order []string
	record := func(name string) Phase {
		return Phase{Name: name, Run: func(context.Context, *State) error {
			order = append(order, name)
			return nil
		}}
	}
	o.Hook(SignalRequest, record("after-request"))
	o.Hook(SignalInitiation, record("after-cleanup-1"))
	o.Hook(SignalInitiation, record("after-cleanup-2"))

	var names []string
	for _, ph := range o.Phases() {
		names = append(names, ph.Name)
	}
	assert.Equal(t, []string{
		PhaseCleanup, "after-cleanup-1", "after-cleanup-2",
		PhaseGenerate, PhaseCopyAssets, "after-request",
	}, names)

	_, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"after-cleanup-1", "after-cleanup-2", "after-request"}, order)
}

func TestRun_HookClassification(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).Docs("index.md").Asset("assets", "a.css", "")

	t.Run("warning continues", func(t *testing.T) {
		o := newOrchestrator(t, fx.Config())
		o.Hook(SignalInitiation, Phase{Name: "lint", Run: func(context.Context, *State) error {
			return Warning("lint", errors.New("style nit"))
		}})
		report, err := o.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, OutcomeWarning, report.Outcome)
		assert.Equal(t, 1, report.PagesWritten())
	})

	t.Run("plain error is fatal", func(t *testing.T) {
		o := newOrchestrator(t, fx.Config())
		o.Hook(SignalInitiation, Phase{Name: "gate", Run: func(context.Context, *State) error {
			return errors.New("stop")
		}})
		report, err := o.Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, OutcomeFailed, report.Outcome)
		assert.Equal(t, 0, report.PagesWritten())
		assert.Equal(t, ErrorFatal, report.PhaseErrorKinds["gate"])
	})
}

func TestRun_CanceledBeforeStart(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).Docs("index.md").Output("keep.html", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newOrchestrator(t, fx.Config()).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeCanceled, report.Outcome)
	fx.OutputAssertions().AssertFiles("keep.html")
}

func TestRun_DuplicateEndpoints(t *testing.T) {
	// Walk order visits a/index.md before a.md, so the file wins.
	fx := sitetest.NewSiteFixture(t).
		Doc("a.md", "# From file\n").
		Doc("a/index.md", "# From folder\n").
		Asset("assets", "a.css", "")

	report, err := newOrchestrator(t, fx.Config()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, OutcomeWarning, report.Outcome)
	fx.OutputAssertions().
		AssertFiles("a/index.html", "public/assets/a.css").
		AssertFileContains("a/index.html", "From file")

	fx.Config().StrictRoutes = true
	_, err = newOrchestrator(t, fx.Config()).Run(context.Background())
	assert.ErrorIs(t, err, derrors.ErrDuplicateRoute)
}

type recordingRecorder struct {
	metrics.NoopRecorder
	outcomes []string
	results  map[string]metrics.ResultLabel
	pages    int
}

func (r *recordingRecorder) IncCompileOutcome(o string) { r.outcomes = append(r.outcomes, o) }
func (r *recordingRecorder) AddPagesRendered(n int)     { r.pages += n }
func (r *recordingRecorder) IncPhaseResult(phase string, res metrics.ResultLabel) {
	r.results[phase] = res
}

func TestRun_RecordsMetrics(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).Docs("index.md", "guide.md")
	rec := &recordingRecorder{results: map[string]metrics.ResultLabel{}}

	_, err := newOrchestrator(t, fx.Config(), WithRecorder(rec)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"warning"}, rec.outcomes)
	assert.Equal(t, 2, rec.pages)
	assert.Equal(t, map[string]metrics.ResultLabel{
		PhaseCleanup:    metrics.ResultSuccess,
		PhaseGenerate:   metrics.ResultSuccess,
		PhaseCopyAssets: metrics.ResultWarning,
	}, rec.results)
}

func TestReport_Persist(t *testing.T) {
	fx := sitetest.NewSiteFixture(t).Docs("index.md")
	report, err := newOrchestrator(t, fx.Config()).Run(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reports", "compile.json")
	require.NoError(t, report.Persist(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got ReportJSON
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, report.BuildID, got.BuildID)
	assert.Equal(t, "warning", got.Outcome)
	assert.Equal(t, 1, got.PagesWritten)
	assert.Equal(t, []string{"assets"}, got.AssetsSkipped)
	assert.Len(t, got.Warnings, 1)
	assert.Contains(t, got.PhaseDurationsMS, PhaseGenerate)
	assert.Contains(t, report.Summary(), "outcome=warning")
}

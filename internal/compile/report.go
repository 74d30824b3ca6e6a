package compile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	derrors "github.com/phpnomad/documentation/internal/errors"
)

// Outcome is the final state of a compile pass.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// PageRecord is one generated file.
type PageRecord struct {
	Endpoint string `json:"endpoint"`
	File     string `json:"file"`
}

// Report captures what a compile pass did.
type Report struct {
	SchemaVersion   int
	BuildID         string
	OutputDir       string
	Start           time.Time
	End             time.Time
	Errors          []error // fatal or canceled, at most one
	Warnings        []error
	PhaseDurations  map[string]time.Duration
	PhaseErrorKinds map[string]ErrorKind
	Pages           []PageRecord
	AssetsCopied    int // files
	AssetsSkipped   []string
	Duplicates      int
	Outcome         Outcome
}

func newReport(cctx Context) *Report {
	return &Report{
		SchemaVersion:   1,
		BuildID:         cctx.BuildID,
		OutputDir:       cctx.OutputDir,
		Start:           time.Now(),
		PhaseDurations:  make(map[string]time.Duration),
		PhaseErrorKinds: make(map[string]ErrorKind),
	}
}

func (r *Report) recordError(pe *PhaseError) {
	r.PhaseErrorKinds[pe.Phase] = pe.Kind
	if pe.Kind == ErrorWarning {
		r.Warnings = append(r.Warnings, pe)
		return
	}
	r.Errors = append(r.Errors, pe)
}

// PagesWritten is the number of files written by the generate phase.
func (r *Report) PagesWritten() int { return len(r.Pages) }

// Duration is the wall time of the pass.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

func (r *Report) finish() {
	r.End = time.Now()
	r.deriveOutcome()
}

func (r *Report) deriveOutcome() {
	for _, e := range r.Errors {
		if pe, ok := e.(*PhaseError); ok && pe.Kind == ErrorCanceled {
			r.Outcome = OutcomeCanceled
			return
		}
	}
	switch {
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("build=%s pages=%d assets=%d skipped_assets=%d duplicates=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.BuildID, r.PagesWritten(), r.AssetsCopied, len(r.AssetsSkipped), r.Duplicates,
		r.Duration().Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), r.Outcome)
}

// Persist writes the report as JSON to path, atomically.
func (r *Report) Persist(path string) error {
	if r.End.IsZero() {
		r.finish()
	}
	data, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return derrors.InternalError("marshal compile report", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return derrors.FileSystem("mkdir", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return derrors.FileSystem("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return derrors.FileSystem("rename", path, err)
	}
	return nil
}

// ReportJSON is the persisted form of a Report.
type ReportJSON struct {
	SchemaVersion    int               `json:"schema_version"`
	BuildID          string            `json:"build_id"`
	OutputDir        string            `json:"output_dir"`
	Start            time.Time         `json:"start"`
	End              time.Time         `json:"end"`
	DurationMS       int64             `json:"duration_ms"`
	Errors           []string          `json:"errors"`
	Warnings         []string          `json:"warnings"`
	PhaseDurationsMS map[string]int64  `json:"phase_durations_ms"`
	PhaseErrorKinds  map[string]string `json:"phase_error_kinds"`
	PagesWritten     int               `json:"pages_written"`
	Pages            []PageRecord      `json:"pages"`
	AssetsCopied     int               `json:"assets_copied"`
	AssetsSkipped    []string          `json:"assets_skipped"`
	Duplicates       int               `json:"duplicates"`
	Outcome          string            `json:"outcome"`
}

func (r *Report) serializable() ReportJSON {
	s := ReportJSON{
		SchemaVersion:    r.SchemaVersion,
		BuildID:          r.BuildID,
		OutputDir:        r.OutputDir,
		Start:            r.Start,
		End:              r.End,
		DurationMS:       r.Duration().Milliseconds(),
		Errors:           make([]string, len(r.Errors)),
		Warnings:         make([]string, len(r.Warnings)),
		PhaseDurationsMS: make(map[string]int64, len(r.PhaseDurations)),
		PhaseErrorKinds:  make(map[string]string, len(r.PhaseErrorKinds)),
		PagesWritten:     r.PagesWritten(),
		Pages:            append([]PageRecord{}, r.Pages...),
		AssetsCopied:     r.AssetsCopied,
		AssetsSkipped:    append([]string{}, r.AssetsSkipped...),
		Duplicates:       r.Duplicates,
		Outcome:          string(r.Outcome),
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	for k, v := range r.PhaseDurations {
		s.PhaseDurationsMS[k] = v.Milliseconds()
	}
	for k, v := range r.PhaseErrorKinds {
		s.PhaseErrorKinds[k] = string(v)
	}
	return s
}

package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fsmtools/fsmstrip/internal/config"
	"github.com/fsmtools/fsmstrip/internal/database"
	"github.com/fsmtools/fsmstrip/internal/detect"
	"github.com/fsmtools/fsmstrip/internal/model"
	"github.com/fsmtools/fsmstrip/internal/plot"
	"github.com/fsmtools/fsmstrip/internal/report"
	"github.com/fsmtools/fsmstrip/internal/resolver"
)

// ModelSource is a closable source of modal composite data. *database.ModelDB
// satisfies it; tests substitute in-memory fakes.
type ModelSource interface {
	resolver.Loader
	Close() error
}

// SourceOpener opens the model source behind a model file path.
type SourceOpener func(path string) (ModelSource, error)

// defaultSourceOpener opens the model file as a read-only SQLite database.
func defaultSourceOpener(path string) (ModelSource, error) {
	return database.Open(path, database.Options{})
}

// ResolveStep loads the modal composites selected by the analysis filter,
// letting the resolver widen an exact thickness query once when it comes
// back empty.
type ResolveStep struct {
	logger *slog.Logger
	open   SourceOpener
}

// ResolveOption configures a ResolveStep.
type ResolveOption func(*ResolveStep)

// WithResolveLogger sets a custom logger for the resolve step.
func WithResolveLogger(logger *slog.Logger) ResolveOption {
	return func(s *ResolveStep) {
		s.logger = logger
	}
}

// WithSourceOpener overrides how the model file is opened.
func WithSourceOpener(open SourceOpener) ResolveOption {
	return func(s *ResolveStep) {
		s.open = open
	}
}

// NewResolveStep creates a ResolveStep.
func NewResolveStep(opts ...ResolveOption) *ResolveStep {
	s := &ResolveStep{
		open: defaultSourceOpener,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Name returns the step name.
func (s *ResolveStep) Name() string { return "resolve" }

// Do resolves the dataset and column metadata into the analysis.
// A dataset that stays empty after the widened retry is a hard failure;
// the error wraps ErrNoMatchingRows.
func (s *ResolveStep) Do(ctx context.Context, a *Analysis) error {
	src, err := s.open(a.ModelFile)
	if err != nil {
		return fmt.Errorf("failed to open model file: %w", err)
	}
	defer src.Close()

	res := resolver.New(src,
		resolver.WithSearchBuffer(a.SearchBuffer),
		resolver.WithLogger(s.logger),
	)
	dataset, meta, err := res.Resolve(ctx, a.Filter)
	if err != nil {
		return err
	}
	if dataset.IsEmpty() {
		return fmt.Errorf("%w: %s", ErrNoMatchingRows, a.ModelFile)
	}

	s.logger.Info("dataset resolved",
		"model_file", a.ModelFile,
		"rows", dataset.Len(),
		"t_b", dataset.Thickness(),
	)
	a.Dataset = dataset
	a.Meta = meta
	return nil
}

// DetectStep finds the strip lengths where the dominant mode of the
// resolved dataset changes, and optionally promotes them to markers.
type DetectStep struct {
	logger *slog.Logger
}

// DetectOption configures a DetectStep.
type DetectOption func(*DetectStep)

// WithDetectLogger sets a custom logger for the detect step.
func WithDetectLogger(logger *slog.Logger) DetectOption {
	return func(s *DetectStep) {
		s.logger = logger
	}
}

// NewDetectStep creates a DetectStep.
func NewDetectStep(opts ...DetectOption) *DetectStep {
	s := &DetectStep{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Name returns the step name.
func (s *DetectStep) Name() string { return "detect" }

// Do detects dominant mode transitions. The transitions always land in
// the analysis for the summary; they extend the marker set only when
// automatic markers were requested.
func (s *DetectStep) Do(_ context.Context, a *Analysis) error {
	a.Transitions = detect.ModeTransitions(a.Dataset)
	s.logger.Info("mode transitions detected",
		"model_file", a.ModelFile,
		"transitions", a.Transitions,
	)

	if a.Markers == nil {
		a.Markers = model.NewMarkerSet()
	}
	if a.AddAutomaticMarkers {
		a.Markers.Extend(a.Transitions)
	}
	return nil
}

// ComposeStep renders the resolved dataset into the four panel figure.
type ComposeStep struct {
	logger *slog.Logger
}

// ComposeOption configures a ComposeStep.
type ComposeOption func(*ComposeStep)

// WithComposeLogger sets a custom logger for the compose step.
func WithComposeLogger(logger *slog.Logger) ComposeOption {
	return func(s *ComposeStep) {
		s.logger = logger
	}
}

// NewComposeStep creates a ComposeStep.
func NewComposeStep(opts ...ComposeOption) *ComposeStep {
	s := &ComposeStep{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Name returns the step name.
func (s *ComposeStep) Name() string { return "compose" }

// Do composes the report page from the resolved dataset.
func (s *ComposeStep) Do(_ context.Context, a *Analysis) error {
	composer := plot.NewComposer(a.Style, plot.WithLogger(s.logger))
	page, err := composer.Compose(a.Dataset, a.Meta, a.Markers)
	if err != nil {
		return err
	}
	a.Page = page
	return nil
}

// EmitStep writes the composed page to the report file and, when
// requested, a Markdown summary next to it.
type EmitStep struct {
	logger     *slog.Logger
	newWriter  func(a *Analysis) report.PageWriter
	newSummary func(path string) (io.WriteCloser, error)
	now        func() time.Time
}

// EmitOption configures an EmitStep.
type EmitOption func(*EmitStep)

// WithEmitLogger sets a custom logger for the emit step.
func WithEmitLogger(logger *slog.Logger) EmitOption {
	return func(s *EmitStep) {
		s.logger = logger
	}
}

// WithPageWriter overrides how the page writer is constructed.
func WithPageWriter(newWriter func(a *Analysis) report.PageWriter) EmitOption {
	return func(s *EmitStep) {
		s.newWriter = newWriter
	}
}

// WithSummaryOutput overrides where the Markdown summary is written.
func WithSummaryOutput(newSummary func(path string) (io.WriteCloser, error)) EmitOption {
	return func(s *EmitStep) {
		s.newSummary = newSummary
	}
}

// NewEmitStep creates an EmitStep.
func NewEmitStep(opts ...EmitOption) *EmitStep {
	s := &EmitStep{
		newWriter: func(a *Analysis) report.PageWriter {
			return report.NewPDFWriter(a.ReportFile, a.Style.TitleFontSize)
		},
		newSummary: func(path string) (io.WriteCloser, error) {
			return os.Create(path)
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Name returns the step name.
func (s *EmitStep) Name() string { return "emit" }

// Do emits the output artifacts.
func (s *EmitStep) Do(_ context.Context, a *Analysis) error {
	if err := s.newWriter(a).WritePage(a.Page); err != nil {
		return err
	}
	s.logger.Info("report written", "report_file", a.ReportFile)

	if !a.WriteSummary {
		return nil
	}
	return s.writeSummary(a)
}

// writeSummary emits the Markdown digest next to the report file.
func (s *EmitStep) writeSummary(a *Analysis) error {
	path := config.SummaryFile(a.ReportFile)
	out, err := s.newSummary(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer out.Close()

	summary := report.NewSummary(a.ModelFile, a.ReportFile, a.Dataset, a.Meta, a.Transitions, a.Markers.Values())
	summary.GeneratedAt = s.now()
	if err := report.NewMarkdownWriter(out).WriteSummary(summary); err != nil {
		return err
	}
	s.logger.Info("summary written", "summary_file", path)
	return nil
}

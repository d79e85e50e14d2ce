package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fsmtools/fsmstrip/internal/config"
	"github.com/fsmtools/fsmstrip/internal/model"
	"github.com/fsmtools/fsmstrip/internal/plot"
)

// ErrNoMatchingRows is returned when no dataset rows match the filter,
// even after the resolver's widened retry. An empty dataset cannot be
// composed into a meaningful figure, so the invocation fails instead of
// producing a degenerate report.
var ErrNoMatchingRows = errors.New("no modal composites matched the filter")

// Analysis is the state of one report generation, threaded through the
// pipeline steps. The input half is filled by the caller; the resolved
// half is filled by the steps.
type Analysis struct {
	// ModelFile is the model file to analyze.
	ModelFile string

	// ReportFile is the output path of the PDF artifact.
	ReportFile string

	// Filter selects the dataset slice.
	Filter config.Filter

	// SearchBuffer is the resolver's thickness widening half-width.
	SearchBuffer float64

	// Markers holds the user-requested marker lengths; the detect step
	// unions automatic transitions into it when requested.
	Markers *model.MarkerSet

	// AddAutomaticMarkers enables annotation of detected transitions.
	AddAutomaticMarkers bool

	// WriteSummary additionally emits a Markdown summary next to the
	// report.
	WriteSummary bool

	// Style is the plot styling threaded into the composer.
	Style config.PlotStyle

	// Dataset and Meta are filled by the resolve step.
	Dataset model.ModalComposites
	Meta    model.ColumnMeta

	// Transitions are the detected dominant mode transitions, filled by
	// the detect step.
	Transitions []float64

	// Page is the composed figure, filled by the compose step and
	// released by the pipeline.
	Page *plot.Page
}

// Close releases the plotting state of the analysis. It is safe to call
// more than once.
func (a *Analysis) Close() {
	a.Page.Close()
	a.Page = nil
}

// Step is one stage of the report pipeline.
type Step interface {
	// Do executes the step, reading and extending the analysis.
	Do(ctx context.Context, a *Analysis) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order, stopping on the first error.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline. Steps are added with AddStep/AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// NewAnalysisPipeline creates the standard report pipeline:
// resolve, detect, compose, emit.
func NewAnalysisPipeline(opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewResolveStep(WithResolveLogger(p.logger)),
		NewDetectStep(WithDetectLogger(p.logger)),
		NewComposeStep(WithComposeLogger(p.logger)),
		NewEmitStep(WithEmitLogger(p.logger)),
	)
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Execute runs all pipeline steps in sequence, stopping on the first
// error. The analysis' plotting state is released before returning on
// every path.
//
// Cancellation is checked between steps; steps themselves pass the
// context on to their blocking operations.
func (p *Pipeline) Execute(ctx context.Context, a *Analysis) error {
	defer a.Close()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"model_file", a.ModelFile,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"model_file", a.ModelFile,
		)
		if err := step.Do(ctx, a); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"model_file", a.ModelFile,
				"error", err,
			)
			return err
		}
	}
	return nil
}

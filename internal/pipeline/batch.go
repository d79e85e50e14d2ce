package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one analysis in a batch run.
type Result struct {
	// ModelFile is the analyzed model file.
	ModelFile string

	// ReportFile is the report that was (or would have been) written.
	ReportFile string

	// Err records the failure of this analysis, nil on success.
	Err error
}

// BatchProcessor runs independent analyses of multiple model files
// concurrently.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because it keeps the Pipeline focused
// on a single analysis and gives batch runs their own policy: one model
// file failing must not abort its siblings.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each analysis so no
	// state leaks between model files.
	pipelineFactory func() *Pipeline

	// analysisFactory builds the analysis state for one model file.
	analysisFactory func(modelFile string) *Analysis

	// concurrency is the maximum number of concurrent analyses.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores per-file outcomes, indexed like the input slice.
	// Access is synchronized via mutex.
	results []Result
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor.
//
// pipelineFactory is called once per model file; analysisFactory builds
// the per-file analysis state, typically from a shared configuration.
func NewBatchProcessor(pipelineFactory func() *Pipeline, analysisFactory func(modelFile string) *Analysis, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		analysisFactory: analysisFactory,
		concurrency:     4,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch analyzes the model files concurrently, respecting the
// configured concurrency limit and context cancellation.
//
// A failing analysis is recorded in its Result and does not abort the
// other analyses. The error return is non-nil only when the batch itself
// was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, modelFiles []string) ([]Result, error) {
	bp.logger.Info("starting batch processing",
		"total_files", len(modelFiles),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	bp.results = make([]Result, len(modelFiles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, modelFile := range modelFiles {
		i, modelFile := i, modelFile
		g.Go(func() error {
			select {
			case <-ctx.Done():
				bp.setResult(i, Result{ModelFile: modelFile, Err: ctx.Err()})
				return ctx.Err()
			default:
			}

			bp.logger.Info("analyzing model file",
				"model_file", modelFile,
				"index", i+1,
				"total", len(modelFiles),
			)

			a := bp.analysisFactory(modelFile)
			err := bp.pipelineFactory().Execute(ctx, a)
			bp.setResult(i, Result{ModelFile: modelFile, ReportFile: a.ReportFile, Err: err})

			if err != nil {
				bp.logger.Warn("analysis failed",
					"model_file", modelFile,
					"error", err,
				)
				// Keep the siblings running; the failure lives in the result.
				return nil
			}

			bp.logger.Info("analysis completed",
				"model_file", modelFile,
				"report_file", a.ReportFile,
			)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch processing complete",
		"total_files", len(modelFiles),
		"elapsed", time.Since(startTime),
	)
	return bp.results, err
}

// setResult stores the outcome of one analysis at its input index.
func (bp *BatchProcessor) setResult(i int, r Result) {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	bp.results[i] = r
}

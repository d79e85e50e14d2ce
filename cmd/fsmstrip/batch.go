package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fsmtools/fsmstrip/internal/config"
	"github.com/fsmtools/fsmstrip/internal/pipeline"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [model-file]...",
		Short: "Render reports of several model files concurrently",
		Long: `Batch runs one analyze pipeline per model file, several in parallel.
Every report lands next to its model file with a .pdf extension. A model
file that fails to resolve does not abort the others; failures are
reported at the end.

Examples:
  # Report every study in a directory
  fsmstrip batch studies/*.sqlite

  # Two pipelines at a time, with Markdown summaries
  fsmstrip batch --concurrency 2 --summary studies/*.sqlite`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatchCmd,
	}

	addAnalysisFlags(cmd)
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Maximum number of model files processed in parallel")

	return cmd
}

// runBatchCmd executes the batch command.
func runBatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runBatch(ctx, cmd, cfg, logger)
}

// runBatch processes all model files and reports per-file outcomes.
func runBatch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	style, err := config.FindPlotStyle(cfg.StyleFile)
	if err != nil {
		return fmt.Errorf("failed to load plot style: %w", err)
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.NewAnalysisPipeline(pipeline.WithLogger(logger))
		},
		func(modelFile string) *pipeline.Analysis {
			return newAnalysis(cfg, style, modelFile)
		},
		pipeline.WithBatchLogger(logger),
		pipeline.WithConcurrency(cfg.Concurrency),
	)

	results, err := bp.ProcessBatch(ctx, cfg.ModelFiles)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s: %v\n", r.ModelFile, r.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "written: %s\n", r.ReportFile)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(results))
	}
	return nil
}

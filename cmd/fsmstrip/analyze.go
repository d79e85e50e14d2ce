package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fsmtools/fsmstrip/internal/config"
	"github.com/fsmtools/fsmstrip/internal/log"
	"github.com/fsmtools/fsmstrip/internal/model"
	"github.com/fsmtools/fsmstrip/internal/pipeline"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [model-file]",
		Short: "Render the modal composites report of one model file",
		Long: `Analyze resolves the modal composites of one model file at the
requested base thickness and renders them into a four panel PDF report
over the strip length.

When the exact thickness is not stored in the model file (floating point
noise between the requested and stored values), the query is retried once
over a hair-width thickness range before giving up.

Examples:
  # Report at the default base thickness (6.35 mm)
  fsmstrip analyze barbero.sqlite

  # Report at 8 mm, restricted to strip lengths 100..2000 mm
  fsmstrip analyze --t_b 8.0 --a-min 100 --a-max 2000 barbero.sqlite

  # Annotate dominant mode transitions and a hand-picked length
  fsmstrip analyze --add-automatic-markers --markers 450 barbero.sqlite

  # Also write a Markdown summary next to the report
  fsmstrip analyze --summary barbero.sqlite`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyzeCmd,
	}

	addAnalysisFlags(cmd)
	cmd.Flags().StringP("report-file", "r", "",
		"Report output path (default: model file with a .pdf extension)")

	return cmd
}

// addAnalysisFlags registers the flags shared by analyze and batch.
func addAnalysisFlags(cmd *cobra.Command) {
	// Dataset filter flags
	cmd.Flags().Float64("t_b", config.DefaultBaseThickness,
		"Base strip thickness [mm] to resolve")
	cmd.Flags().Float64("t_b-min", 0,
		"Lower thickness bound [mm] (range query, mutually exclusive with --t_b)")
	cmd.Flags().Float64("t_b-max", 0,
		"Upper thickness bound [mm] (range query, mutually exclusive with --t_b)")
	cmd.Flags().Float64("a-min", 0,
		"Lower strip length bound [mm]")
	cmd.Flags().Float64("a-max", 0,
		"Upper strip length bound [mm]")
	cmd.Flags().Float64("search-buffer", config.DefaultSearchBuffer,
		"Half-width [mm] of the widened thickness retry")

	// Marker flags
	cmd.Flags().Float64Slice("markers", nil,
		"Strip length [mm] to annotate on every panel (repeatable)")
	cmd.Flags().Bool("add-automatic-markers", false,
		"Annotate detected dominant mode transitions")

	// Output flags
	cmd.Flags().BoolP("summary", "s", false,
		"Also write a Markdown summary next to the report")
	cmd.Flags().String("style", "",
		"Plot style YAML path (default: style.yaml under the XDG config home)")
}

// runAnalyzeCmd executes the analyze command.
func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report-file"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runAnalyze(ctx, cfg, logger)
}

// runAnalyze resolves the plot style and executes one report pipeline.
func runAnalyze(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	style, err := config.FindPlotStyle(cfg.StyleFile)
	if err != nil {
		return fmt.Errorf("failed to load plot style: %w", err)
	}

	modelFile := cfg.ModelFiles[0]
	a := newAnalysis(cfg, style, modelFile)
	if cfg.ReportFile != "" {
		a.ReportFile = cfg.ReportFile
	}

	p := pipeline.NewAnalysisPipeline(pipeline.WithLogger(logger))
	if err := p.Execute(ctx, a); err != nil {
		return err
	}

	logger.Info("report generated", "report_file", a.ReportFile)
	return nil
}

// newAnalysis builds the pipeline state of one model file from the
// shared configuration.
func newAnalysis(cfg *config.Config, style config.PlotStyle, modelFile string) *pipeline.Analysis {
	return &pipeline.Analysis{
		ModelFile:           modelFile,
		ReportFile:          config.DefaultReportFile(modelFile),
		Filter:              cfg.Filter,
		SearchBuffer:        cfg.SearchBuffer,
		Markers:             model.NewMarkerSet(cfg.Markers...),
		AddAutomaticMarkers: cfg.AddAutomaticMarkers,
		WriteSummary:        cfg.WriteSummary,
		Style:               style,
	}
}

// buildConfig creates a Config from the flags shared by analyze and batch.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.ModelFiles = args

	var err error

	// The default filter is a point query at the default base thickness.
	// Explicit range bounds replace it; combining both is rejected by
	// Validate below.
	if cmd.Flags().Changed("t_b-min") || cmd.Flags().Changed("t_b-max") {
		if !cmd.Flags().Changed("t_b") {
			cfg.Filter.TBFix = nil
		}
		if cmd.Flags().Changed("t_b-min") {
			v, err := cmd.Flags().GetFloat64("t_b-min")
			if err != nil {
				return nil, err
			}
			cfg.Filter.TBMin = config.Float64Ptr(v)
		}
		if cmd.Flags().Changed("t_b-max") {
			v, err := cmd.Flags().GetFloat64("t_b-max")
			if err != nil {
				return nil, err
			}
			cfg.Filter.TBMax = config.Float64Ptr(v)
		}
	}
	if cfg.Filter.TBFix != nil {
		v, err := cmd.Flags().GetFloat64("t_b")
		if err != nil {
			return nil, err
		}
		cfg.Filter.TBFix = config.Float64Ptr(v)
	}

	if cmd.Flags().Changed("a-min") {
		v, err := cmd.Flags().GetFloat64("a-min")
		if err != nil {
			return nil, err
		}
		cfg.Filter.AMin = config.Float64Ptr(v)
	}
	if cmd.Flags().Changed("a-max") {
		v, err := cmd.Flags().GetFloat64("a-max")
		if err != nil {
			return nil, err
		}
		cfg.Filter.AMax = config.Float64Ptr(v)
	}

	cfg.SearchBuffer, err = cmd.Flags().GetFloat64("search-buffer")
	if err != nil {
		return nil, err
	}

	cfg.Markers, err = cmd.Flags().GetFloat64Slice("markers")
	if err != nil {
		return nil, err
	}

	cfg.AddAutomaticMarkers, err = cmd.Flags().GetBool("add-automatic-markers")
	if err != nil {
		return nil, err
	}

	cfg.WriteSummary, err = cmd.Flags().GetBool("summary")
	if err != nil {
		return nil, err
	}

	cfg.StyleFile, err = cmd.Flags().GetString("style")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on the verbosity flags.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	verbosity := log.VerbosityNormal
	if quiet, err := cmd.Root().PersistentFlags().GetBool("quiet"); err == nil && quiet {
		verbosity = log.VerbosityQuiet
	}
	if verbose, err := cmd.Root().PersistentFlags().GetBool("verbose"); err == nil && verbose {
		verbosity = log.VerbosityVerbose
	}
	return log.NewLogger(os.Stderr, verbosity)
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

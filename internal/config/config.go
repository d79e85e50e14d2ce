package config

import (
	"path/filepath"
	"strings"
)

// Default configuration values.
const (
	// DefaultBaseThickness is the base strip thickness [mm] used when the
	// --t_b flag is not given. 6.35 mm (a quarter inch) is the plate
	// thickness of the reference parametric studies this tool was built
	// to inspect, so it remains the out-of-the-box slice.
	DefaultBaseThickness = 6.35

	// DefaultSearchBuffer is the half-width of the widened thickness range
	// used when the exact-match query finds no rows. It only needs to
	// absorb floating point representation noise between the requested
	// value and the stored column, hence the tiny magnitude.
	DefaultSearchBuffer = 1e-10

	// DefaultConcurrency is the number of model files processed in
	// parallel by the batch command. Report generation is CPU and memory
	// bound (chart rasterization), so a small limit keeps peak memory
	// reasonable while still overlapping I/O.
	DefaultConcurrency = 4

	// ReportExtension is the file extension of the rendered report.
	ReportExtension = ".pdf"

	// SummaryExtension is the file extension of the optional Markdown
	// companion summary.
	SummaryExtension = ".md"

	// AppName is the application name used for XDG directory paths.
	AppName = "fsmstrip"
)

// Config holds all options for one fsmstrip invocation.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FilterConfig, OutputConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit.
type Config struct {
	// ModelFiles are the paths of the model files to analyze. The analyze
	// command accepts exactly one; the batch command accepts several.
	ModelFiles []string

	// ReportFile is the output path of the rendered report. When empty,
	// the model file path with its extension swapped to ".pdf" is used.
	// Ignored by the batch command, which always derives per-model paths.
	ReportFile string

	// Filter selects the dataset slice to visualize.
	Filter Filter

	// SearchBuffer is the half-width of the widened thickness range used
	// by the resolver's fallback retry.
	SearchBuffer float64

	// Markers are user-requested strip lengths [mm] to annotate on the
	// main series of every panel.
	Markers []float64

	// AddAutomaticMarkers enables annotation of dominant mode transitions
	// detected in the resolved dataset.
	AddAutomaticMarkers bool

	// WriteSummary additionally emits a Markdown summary next to the
	// report, with the extension swapped to ".md".
	WriteSummary bool

	// StyleFile is an optional path to a YAML plot style file. When empty,
	// the style is looked up under the XDG config home and falls back to
	// DefaultPlotStyle.
	StyleFile string

	// Concurrency is the parallelism limit of the batch command.
	Concurrency int
}

// NewConfig returns a Config with all defaults applied and the default
// point query on the base thickness.
func NewConfig() *Config {
	return &Config{
		Filter:       Filter{TBFix: Float64Ptr(DefaultBaseThickness)},
		SearchBuffer: DefaultSearchBuffer,
		Concurrency:  DefaultConcurrency,
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if len(c.ModelFiles) == 0 {
		return ErrNoModelFile
	}
	if err := c.Filter.Validate(); err != nil {
		return err
	}
	if c.SearchBuffer <= 0 {
		return ErrInvalidSearchBuffer
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	return nil
}

// DefaultReportFile derives the report path for a model file by swapping
// its extension for ReportExtension ("model.db" -> "model.pdf").
func DefaultReportFile(modelFile string) string {
	return swapExtension(modelFile, ReportExtension)
}

// SummaryFile derives the Markdown summary path for a report file.
func SummaryFile(reportFile string) string {
	return swapExtension(reportFile, SummaryExtension)
}

// swapExtension replaces the extension of path with ext (including dot).
// A path without an extension gets ext appended.
func swapExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

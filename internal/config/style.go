package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultStyleFile is the plot style file name searched for under the
// XDG config home ("~/.config/fsmstrip/style.yaml" on Linux).
const DefaultStyleFile = "style.yaml"

// ErrStyleNotFound is returned when the plot style file does not exist.
// Callers should fall back to DefaultPlotStyle unless the style path was
// explicitly specified by the user.
var ErrStyleNotFound = errors.New("plot style file not found")

// PlotStyle is the explicit styling value threaded into the plot composer.
//
// Design decision: the styling knobs are an explicit value rather than
// process-wide mutable state, so two reports built in the same process
// (fsmstrip batch) cannot observe each other's styling.
type PlotStyle struct {
	// PanelWidth and PanelHeight are the raster size of one panel in
	// pixels. The defaults give a 2x2 grid matching the aspect ratio of
	// an A4 landscape page.
	PanelWidth  int `yaml:"panel_width"`
	PanelHeight int `yaml:"panel_height"`

	// DPI is the rasterization density of each panel.
	DPI float64 `yaml:"dpi"`

	// FontSize is the axis label and legend font size in points.
	FontSize float64 `yaml:"font_size"`

	// TitleFontSize is the per-panel title font size in points.
	TitleFontSize float64 `yaml:"title_font_size"`

	// StrokeWidth is the line width of the plotted series.
	StrokeWidth float64 `yaml:"stroke_width"`

	// MarkerDotWidth is the radius of the highlighted marker points.
	MarkerDotWidth float64 `yaml:"marker_dot_width"`
}

// DefaultPlotStyle returns the built-in style. The page geometry mirrors
// the 11.7 x 8.3 inch figure of the reference reports.
func DefaultPlotStyle() PlotStyle {
	return PlotStyle{
		PanelWidth:     1053, // 5.85 in at 180 DPI
		PanelHeight:    747,  // 4.15 in at 180 DPI
		DPI:            180,
		FontSize:       9,
		TitleFontSize:  11,
		StrokeWidth:    1.5,
		MarkerDotWidth: 4,
	}
}

// normalize fills zero-valued fields with their defaults so a partial
// style file only overrides what it names.
func (s PlotStyle) normalize() PlotStyle {
	def := DefaultPlotStyle()
	if s.PanelWidth <= 0 {
		s.PanelWidth = def.PanelWidth
	}
	if s.PanelHeight <= 0 {
		s.PanelHeight = def.PanelHeight
	}
	if s.DPI <= 0 {
		s.DPI = def.DPI
	}
	if s.FontSize <= 0 {
		s.FontSize = def.FontSize
	}
	if s.TitleFontSize <= 0 {
		s.TitleFontSize = def.TitleFontSize
	}
	if s.StrokeWidth <= 0 {
		s.StrokeWidth = def.StrokeWidth
	}
	if s.MarkerDotWidth <= 0 {
		s.MarkerDotWidth = def.MarkerDotWidth
	}
	return s
}

// LoadPlotStyle loads a plot style from a YAML file.
// If the file does not exist, it returns ErrStyleNotFound; callers decide
// whether that is fatal based on whether the path was user-specified.
func LoadPlotStyle(path string) (PlotStyle, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided style path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return PlotStyle{}, ErrStyleNotFound
		}
		return PlotStyle{}, err
	}

	var s PlotStyle
	if err := yaml.Unmarshal(data, &s); err != nil {
		return PlotStyle{}, err
	}
	return s.normalize(), nil
}

// FindPlotStyle resolves the effective plot style:
//  1. If stylePath is specified, load it (any failure is an error)
//  2. Otherwise look for style.yaml under the XDG config home
//  3. Otherwise fall back to DefaultPlotStyle
func FindPlotStyle(stylePath string) (PlotStyle, error) {
	if stylePath != "" {
		return LoadPlotStyle(stylePath)
	}

	xdgPath := filepath.Join(xdg.ConfigHome, AppName, DefaultStyleFile)
	s, err := LoadPlotStyle(xdgPath)
	if err != nil {
		if errors.Is(err, ErrStyleNotFound) {
			return DefaultPlotStyle(), nil
		}
		return PlotStyle{}, err
	}
	return s, nil
}

package plot

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/fsmtools/fsmstrip/internal/config"
	"github.com/fsmtools/fsmstrip/internal/model"
)

// ErrEmptyDataset is returned when composition is attempted on a dataset
// with no rows. There is no meaningful x-domain to share across panels.
var ErrEmptyDataset = errors.New("cannot compose a figure from an empty dataset")

// seriesPalette assigns line colors by declaration order within a panel.
var seriesPalette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorCyan,
}

// markerColor highlights marker points above any series color.
var markerColor = chart.ColorRed

// Page is one composed report page: the page-level caption and the
// rendered panels in layout order, each a PNG raster.
//
// The page owns the panel buffers. Close releases them; the orchestrator
// calls it on every path so repeated invocations in a long-lived process
// do not accumulate rasters.
type Page struct {
	// Title is the page-level caption, naming the base thickness of the
	// resolved dataset.
	Title string

	// Panels holds one encoded PNG per panel, in reading order.
	Panels [][]byte
}

// Close releases the panel buffers. The page is unusable afterwards.
func (p *Page) Close() {
	if p == nil {
		return
	}
	p.Panels = nil
}

// Composer renders resolved datasets into report pages.
// It carries all styling by value; a Composer is safe to use from
// concurrent report builds as long as each build gets its own Page.
type Composer struct {
	style  config.PlotStyle
	panels []PanelSpec
	logger *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithPanels overrides the default panel layout.
func WithPanels(panels []PanelSpec) Option {
	return func(c *Composer) {
		c.panels = panels
	}
}

// WithLogger sets a custom logger for the composer.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) {
		c.logger = logger
	}
}

// NewComposer creates a Composer with the given style.
func NewComposer(style config.PlotStyle, opts ...Option) *Composer {
	c := &Composer{
		style:  style,
		panels: DefaultPanels(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Compose renders the panel layout for the dataset into a Page.
//
// Every panel shares the x-domain [min(a), max(a)] so the panels stay
// visually comparable. Markers are looked up against the sampled strip
// lengths of each panel's main series; values that match no sample are
// silently ignored.
func (c *Composer) Compose(dataset model.ModalComposites, meta model.ColumnMeta, markers *model.MarkerSet) (*Page, error) {
	if dataset.IsEmpty() {
		return nil, ErrEmptyDataset
	}

	c.logger.Info("plotting modal composites", "rows", dataset.Len(), "markers", markers.Len())
	start := time.Now()

	page := &Page{
		Title: fmt.Sprintf("modal composites, strip thickness %f [mm]", dataset.Thickness()),
	}
	for i, spec := range c.panels {
		ch, err := c.buildChart(spec, dataset, meta, markers)
		if err != nil {
			return nil, fmt.Errorf("panel %d: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := ch.Render(chart.PNG, &buf); err != nil {
			return nil, fmt.Errorf("panel %d: render failed: %w", i+1, err)
		}
		page.Panels = append(page.Panels, buf.Bytes())
	}

	c.logger.Info("plotting completed", "elapsed", time.Since(start))
	return page, nil
}

// buildChart assembles the chart of one panel.
func (c *Composer) buildChart(spec PanelSpec, dataset model.ModalComposites, meta model.ColumnMeta, markers *model.MarkerSet) (chart.Chart, error) {
	if err := spec.Validate(); err != nil {
		return chart.Chart{}, err
	}

	x := dataset.Lengths()
	minX, maxX := x[0], x[len(x)-1]
	if minX == maxX {
		// A one-row dataset has a degenerate x-domain; pad it so range
		// translation stays well defined.
		minX, maxX = minX-1, maxX+1
	}

	// Sort ascending by z-order; go-chart draws later slice entries above
	// earlier ones. Declaration order breaks ties.
	ordered := make([]SeriesSpec, len(spec.Series))
	copy(ordered, spec.Series)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ZOrder < ordered[j].ZOrder })

	colorOf := make(map[string]drawing.Color, len(spec.Series))
	for i, s := range spec.Series {
		colorOf[s.Key] = seriesPalette[i%len(seriesPalette)]
	}

	var series []chart.Series
	for _, s := range ordered {
		ys, err := dataset.Column(s.Key)
		if err != nil {
			return chart.Chart{}, err
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Description,
			XValues: x,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: c.style.StrokeWidth,
				StrokeColor: colorOf[s.Key],
			},
		})
	}

	// Marker overlays attach to the main series and stack above every
	// line regardless of panel z-orders.
	mainY, err := dataset.Column(spec.Main().Key)
	if err != nil {
		return chart.Chart{}, err
	}
	series = append(series, c.markerSeries(markers, x, mainY)...)

	ylabel := spec.YLabel
	if ylabel == "" {
		ylabel = meta.Title(spec.Main().Key)
	}

	ch := chart.Chart{
		Width:  c.style.PanelWidth,
		Height: c.style.PanelHeight,
		DPI:    c.style.DPI,
		XAxis: chart.XAxis{
			Name:      meta.Title(model.ColumnA),
			NameStyle: chart.Style{FontSize: c.style.FontSize},
			Style:     chart.Style{FontSize: c.style.FontSize},
			Range:     &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:      ylabel,
			NameStyle: chart.Style{FontSize: c.style.FontSize},
			Style:     chart.Style{FontSize: c.style.FontSize},
		},
		Background: chart.Style{Padding: chart.Box{Top: 12, Left: 12, Right: 12, Bottom: 12}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch, chart.Style{FontSize: c.style.FontSize})}
	return ch, nil
}

// markerSeries builds the overlay series of every marker that exactly
// matches a sampled strip length: a highlighted point, legend-labelled
// with the strip length, plus an annotation showing the y-value.
func (c *Composer) markerSeries(markers *model.MarkerSet, x, y []float64) []chart.Series {
	var out []chart.Series
	for _, i := range markers.IndicesIn(x) {
		out = append(out, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%g [mm]", x[i]),
			XValues: []float64{x[i]},
			YValues: []float64{y[i]},
			Style: chart.Style{
				StrokeWidth: 0,
				DotWidth:    c.style.MarkerDotWidth,
				DotColor:    markerColor,
			},
		}, chart.AnnotationSeries{
			Annotations: []chart.Value2{
				{XValue: x[i], YValue: y[i], Label: fmt.Sprintf("%g", y[i])},
			},
			Style: chart.Style{
				FontSize:    c.style.FontSize,
				StrokeColor: markerColor,
			},
		})
	}
	return out
}

package plot

import (
	"errors"
	"fmt"

	"github.com/fsmtools/fsmstrip/internal/model"
)

// Z-order bands of a panel. Ordinary series use small positive values;
// marker overlays use ZOrderMarkers so they always stack above any series
// a panel declares.
const (
	// ZOrderCompanion is the stacking priority of secondary series
	// (the "via physical dualism" curves).
	ZOrderCompanion = 1

	// ZOrderMain is the stacking priority of a panel's main series.
	ZOrderMain = 2

	// ZOrderMarkers is the stacking priority of marker overlays.
	ZOrderMarkers = 100
)

// ErrNoSeries is returned when a panel specification declares no series.
var ErrNoSeries = errors.New("panel specification declares no series")

// SeriesSpec names one curve of a panel.
type SeriesSpec struct {
	// Key is the modal composites column plotted on the y-axis.
	Key string

	// Description is the human-readable legend entry.
	Description string

	// ZOrder is the stacking priority; higher values draw above lower
	// ones. Markers always use ZOrderMarkers regardless of this field.
	ZOrder int
}

// PanelSpec describes one panel of the figure. The first series is the
// main series: it provides the derived y-label and is the series marker
// values are looked up against.
type PanelSpec struct {
	// Series lists the curves of the panel, main series first.
	Series []SeriesSpec

	// YLabel overrides the y-axis label. When empty, the label is derived
	// from the main series' column metadata.
	YLabel string
}

// Main returns the panel's main series specification.
func (p PanelSpec) Main() SeriesSpec { return p.Series[0] }

// Validate checks that the panel declares at least one series and only
// known columns.
func (p PanelSpec) Validate() error {
	if len(p.Series) == 0 {
		return ErrNoSeries
	}
	for _, s := range p.Series {
		if _, err := (model.ModalComposites{}).Column(s.Key); err != nil {
			return fmt.Errorf("panel series %q: %w", s.Description, err)
		}
	}
	return nil
}

// DefaultPanels returns the fixed panel layout of the report, in reading
// order of the 2x2 grid.
func DefaultPanels() []PanelSpec {
	return []PanelSpec{
		{
			Series: []SeriesSpec{
				{Key: model.ColumnOmega, Description: "via direct method", ZOrder: ZOrderMain},
				{Key: model.ColumnOmegaApprox, Description: "via physical dualism", ZOrder: ZOrderCompanion},
			},
		},
		{
			Series: []SeriesSpec{
				{Key: model.ColumnSigmaCr, Description: "via direct method", ZOrder: ZOrderMain},
				{Key: model.ColumnSigmaCrApprox, Description: "via physical dualism", ZOrder: ZOrderCompanion},
			},
		},
		{
			Series: []SeriesSpec{
				{Key: model.ColumnMDominant, Description: "", ZOrder: ZOrderMain},
			},
			YLabel: "dominant mode",
		},
		{
			Series: []SeriesSpec{
				{Key: model.ColumnOmegaRelErr, Description: "for natural frequency", ZOrder: ZOrderMain},
				{Key: model.ColumnSigmaCrRelErr, Description: "for critical buckling stress", ZOrder: ZOrderCompanion},
			},
			YLabel: "relative approximation errors",
		},
	}
}

package report

import (
	"time"

	"github.com/fsmtools/fsmstrip/internal/model"
	"github.com/fsmtools/fsmstrip/internal/plot"
)

// PageWriter finalizes one composed page into an output artifact.
//
// Design decision: We use an interface so the orchestrator's emit step can
// be tested without touching the filesystem, and so additional artifact
// formats can be added without changing the pipeline.
type PageWriter interface {
	// WritePage renders the page into the writer's destination.
	WritePage(page *plot.Page) error
}

// Summary is the text-form digest of one analysis, consumed by the
// Markdown writer.
type Summary struct {
	// ModelFile is the analyzed model file path.
	ModelFile string

	// ReportFile is the path of the rendered PDF artifact.
	ReportFile string

	// GeneratedAt is the report generation timestamp.
	GeneratedAt time.Time

	// Thickness is the base thickness [mm] of the resolved dataset.
	Thickness float64

	// Rows is the number of resolved rows.
	Rows int

	// LengthMin and LengthMax span the resolved strip lengths [mm].
	LengthMin float64
	LengthMax float64

	// Transitions are the detected dominant mode transition lengths [mm].
	Transitions []float64

	// Markers are all annotated strip lengths [mm], manual and automatic.
	Markers []float64

	// Meta is the column metadata of the model file.
	Meta model.ColumnMeta
}

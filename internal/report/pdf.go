package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/fsmtools/fsmstrip/internal/plot"
)

// Page geometry in millimeters on an A4 landscape page.
const (
	pdfMarginX   = 8.0
	pdfMarginTop = 6.0
	pdfMarginBot = 6.0
	pdfTitleH    = 10.0
	pdfGap       = 4.0
	pdfColumns   = 2
)

// ErrNoPanels is returned when a page without panels is written.
var ErrNoPanels = errors.New("page holds no panels")

// PDFWriter renders composed pages into a single-page PDF document.
type PDFWriter struct {
	// path is the output file path.
	path string

	// titleFontSize is the caption font size in points.
	titleFontSize float64
}

// NewPDFWriter creates a PDFWriter targeting the given path.
func NewPDFWriter(path string, titleFontSize float64) *PDFWriter {
	return &PDFWriter{path: path, titleFontSize: titleFontSize}
}

// WritePage lays the panels out in a two-column grid under the page
// caption and finalizes the document at the writer's path.
func (w *PDFWriter) WritePage(page *plot.Page) error {
	if page == nil || len(page.Panels) == 0 {
		return ErrNoPanels
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(page.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", w.titleFontSize)
	pdf.SetXY(pdfMarginX, pdfMarginTop)
	pdf.CellFormat(0, pdfTitleH, page.Title, "", 1, "C", false, 0, "")

	pageW, pageH := pdf.GetPageSize()
	rows := (len(page.Panels) + pdfColumns - 1) / pdfColumns
	cellW := (pageW - 2*pdfMarginX - pdfGap*(pdfColumns-1)) / pdfColumns
	gridTop := pdfMarginTop + pdfTitleH
	cellH := (pageH - gridTop - pdfMarginBot - pdfGap*float64(rows-1)) / float64(rows)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, png := range page.Panels {
		name := fmt.Sprintf("panel-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

		col := i % pdfColumns
		row := i / pdfColumns
		x := pdfMarginX + float64(col)*(cellW+pdfGap)
		y := gridTop + float64(row)*(cellH+pdfGap)
		pdf.ImageOptions(name, x, y, cellW, cellH, false, opts, 0, "")
	}

	if err := pdf.OutputFileAndClose(w.path); err != nil {
		return fmt.Errorf("failed to finalize report %s: %w", w.path, err)
	}
	return nil
}

package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fsmtools/fsmstrip/internal/model"
)

// MarkdownWriter outputs the analysis summary in Markdown format.
// This format is designed for documentation and sharing: the PDF carries
// the figure, the Markdown carries the numbers next to it.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// WriteSummary outputs the summary document.
func (w *MarkdownWriter) WriteSummary(s *Summary) error {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, s)
	w.writeTransitions(md, s)
	w.writeMarkers(md, s)
	w.writeColumns(md, s)

	return md.Build()
}

// writeHeader writes the title and the dataset overview table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *Summary) {
	md.H1("Modal Composites Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Model file", "`" + s.ModelFile + "`"},
			{"Report file", "`" + s.ReportFile + "`"},
			{"Generated", s.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Base thickness", fmt.Sprintf("%g mm", s.Thickness)},
			{"Strip lengths", fmt.Sprintf("%g – %g mm in %d samples", s.LengthMin, s.LengthMax, s.Rows)},
		},
	})
	md.PlainText("")
}

// writeTransitions lists the detected dominant mode transitions.
func (w *MarkdownWriter) writeTransitions(md *markdown.Markdown, s *Summary) {
	md.H2("Dominant Mode Transitions")
	md.PlainText("")
	if len(s.Transitions) == 0 {
		md.PlainText("No transitions detected: one mode governs the whole strip length range.")
		md.PlainText("")
		return
	}
	items := make([]string, len(s.Transitions))
	for i, a := range s.Transitions {
		items[i] = fmt.Sprintf("a = %g mm", a)
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeMarkers lists every annotated strip length.
func (w *MarkdownWriter) writeMarkers(md *markdown.Markdown, s *Summary) {
	md.H2("Markers")
	md.PlainText("")
	if len(s.Markers) == 0 {
		md.PlainText("No markers annotated.")
		md.PlainText("")
		return
	}
	items := make([]string, len(s.Markers))
	for i, a := range s.Markers {
		items[i] = fmt.Sprintf("%g mm", a)
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeColumns writes the column glossary from the model file metadata.
func (w *MarkdownWriter) writeColumns(md *markdown.Markdown, s *Summary) {
	if len(s.Meta) == 0 {
		return
	}
	md.H2("Column Glossary")
	md.PlainText("")

	names := make([]string, 0, len(s.Meta))
	for name := range s.Meta {
		names = append(names, name)
	}
	sort.Strings(names)

	caser := cases.Title(language.English)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		info := s.Meta[name]
		unit := info.Unit
		if unit == "" {
			unit = "–"
		}
		rows = append(rows, []string{"`" + name + "`", caser.String(info.Description), unit})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Column", "Description", "Unit"},
		Rows:   rows,
	})
}

// NewSummary assembles a Summary from the resolved dataset and the marker
// bookkeeping of one analysis.
func NewSummary(modelFile, reportFile string, dataset model.ModalComposites, meta model.ColumnMeta, transitions []float64, markers []float64) *Summary {
	s := &Summary{
		ModelFile:   modelFile,
		ReportFile:  reportFile,
		Thickness:   dataset.Thickness(),
		Rows:        dataset.Len(),
		Transitions: transitions,
		Markers:     markers,
		Meta:        meta,
	}
	lengths := dataset.Lengths()
	s.LengthMin = lengths[0]
	s.LengthMax = lengths[len(lengths)-1]
	return s
}

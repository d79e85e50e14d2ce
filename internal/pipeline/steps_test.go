package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fsmtools/fsmstrip/internal/config"
	"github.com/fsmtools/fsmstrip/internal/model"
	"github.com/fsmtools/fsmstrip/internal/plot"
	"github.com/fsmtools/fsmstrip/internal/report"
)

// fakeSource is an in-memory ModelSource for resolve step tests.
type fakeSource struct {
	dataset model.ModalComposites
	meta    model.ColumnMeta
	loadErr error
	filters []config.Filter
	closed  bool
}

// LoadModalComposites implements resolver.Loader.
func (f *fakeSource) LoadModalComposites(_ context.Context, filter config.Filter) (model.ModalComposites, model.ColumnMeta, error) {
	f.filters = append(f.filters, filter)
	if f.loadErr != nil {
		return model.ModalComposites{}, nil, f.loadErr
	}
	return f.dataset, f.meta, nil
}

// Close implements ModelSource.
func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

// testDataset builds a small resolvable dataset with a mode transition
// at a=500.
func testDataset() model.ModalComposites {
	rows := make([]model.Composite, 0, 5)
	for i := 0; i < 5; i++ {
		mode := 1
		if i >= 4 {
			mode = 2
		}
		rows = append(rows, model.Composite{
			A:             float64(100 + i*100),
			TB:            6.35,
			Omega:         50 - float64(i),
			OmegaApprox:   49.5 - float64(i),
			SigmaCr:       200 - float64(i),
			SigmaCrApprox: 199 - float64(i),
			MDominant:     mode,
			OmegaRelErr:   0.01,
			SigmaCrRelErr: 0.005,
		})
	}
	return model.ModalComposites{Rows: rows}
}

// TestResolveStep tests dataset resolution into the analysis.
func TestResolveStep(t *testing.T) {
	t.Parallel()

	t.Run("fills dataset and metadata", func(t *testing.T) {
		t.Parallel()

		src := &fakeSource{
			dataset: testDataset(),
			meta:    model.ColumnMeta{model.ColumnA: {Unit: "mm", Description: "strip length"}},
		}
		step := NewResolveStep(
			WithResolveLogger(discardLogger()),
			WithSourceOpener(func(string) (ModelSource, error) { return src, nil }),
		)

		a := &Analysis{
			ModelFile:    "model.sqlite",
			Filter:       config.Filter{TBFix: config.Float64Ptr(6.35)},
			SearchBuffer: config.DefaultSearchBuffer,
		}
		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Dataset.Len() != 5 {
			t.Errorf("expected 5 rows, got %d", a.Dataset.Len())
		}
		if a.Meta.Title(model.ColumnA) != "strip length [mm]" {
			t.Errorf("unexpected metadata: %q", a.Meta.Title(model.ColumnA))
		}
		if !src.closed {
			t.Error("expected model source to be closed")
		}
	})

	t.Run("empty dataset after retry is a hard failure", func(t *testing.T) {
		t.Parallel()

		src := &fakeSource{}
		step := NewResolveStep(
			WithResolveLogger(discardLogger()),
			WithSourceOpener(func(string) (ModelSource, error) { return src, nil }),
		)

		a := &Analysis{
			ModelFile:    "model.sqlite",
			Filter:       config.Filter{TBFix: config.Float64Ptr(6.35)},
			SearchBuffer: config.DefaultSearchBuffer,
		}
		err := step.Do(context.Background(), a)
		if !errors.Is(err, ErrNoMatchingRows) {
			t.Fatalf("expected ErrNoMatchingRows, got %v", err)
		}
		if len(src.filters) != 2 {
			t.Errorf("expected widened retry before failing, got %d queries", len(src.filters))
		}
		if !src.closed {
			t.Error("expected model source to be closed on failure")
		}
	})

	t.Run("open failure propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("no such file")
		step := NewResolveStep(
			WithResolveLogger(discardLogger()),
			WithSourceOpener(func(string) (ModelSource, error) { return nil, wantErr }),
		)

		err := step.Do(context.Background(), &Analysis{ModelFile: "missing.sqlite"})
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected %v, got %v", wantErr, err)
		}
	})

	t.Run("load failure propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("corrupt table")
		src := &fakeSource{loadErr: wantErr}
		step := NewResolveStep(
			WithResolveLogger(discardLogger()),
			WithSourceOpener(func(string) (ModelSource, error) { return src, nil }),
		)

		a := &Analysis{Filter: config.Filter{TBFix: config.Float64Ptr(6.35)}}
		if err := step.Do(context.Background(), a); !errors.Is(err, wantErr) {
			t.Fatalf("expected %v, got %v", wantErr, err)
		}
	})
}

// TestDetectStep tests transition detection and marker promotion.
func TestDetectStep(t *testing.T) {
	t.Parallel()

	t.Run("records transitions without automatic markers", func(t *testing.T) {
		t.Parallel()

		step := NewDetectStep(WithDetectLogger(discardLogger()))
		a := &Analysis{Dataset: testDataset(), Markers: model.NewMarkerSet(300)}

		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(a.Transitions) != 1 || a.Transitions[0] != 500 {
			t.Errorf("expected transitions [500], got %v", a.Transitions)
		}
		if got := a.Markers.Values(); len(got) != 1 || got[0] != 300 {
			t.Errorf("expected markers [300], got %v", got)
		}
	})

	t.Run("promotes transitions to markers when requested", func(t *testing.T) {
		t.Parallel()

		step := NewDetectStep(WithDetectLogger(discardLogger()))
		a := &Analysis{
			Dataset:             testDataset(),
			Markers:             model.NewMarkerSet(300),
			AddAutomaticMarkers: true,
		}

		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []float64{300, 500}
		got := a.Markers.Values()
		if len(got) != len(want) {
			t.Fatalf("expected markers %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("marker %d: expected %v, got %v", i, want[i], got[i])
			}
		}
	})

	t.Run("initializes a nil marker set", func(t *testing.T) {
		t.Parallel()

		step := NewDetectStep(WithDetectLogger(discardLogger()))
		a := &Analysis{Dataset: testDataset()}

		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Markers == nil {
			t.Fatal("expected marker set to be initialized")
		}
	})
}

// TestComposeStep tests figure composition within the pipeline.
func TestComposeStep(t *testing.T) {
	t.Parallel()

	t.Run("composes a four panel page", func(t *testing.T) {
		t.Parallel()

		step := NewComposeStep(WithComposeLogger(discardLogger()))
		a := &Analysis{
			Dataset: testDataset(),
			Meta:    model.ColumnMeta{},
			Markers: model.NewMarkerSet(),
			Style:   config.DefaultPlotStyle(),
		}

		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Page == nil {
			t.Fatal("expected a composed page")
		}
		if len(a.Page.Panels) != 4 {
			t.Errorf("expected 4 panels, got %d", len(a.Page.Panels))
		}
	})

	t.Run("empty dataset fails composition", func(t *testing.T) {
		t.Parallel()

		step := NewComposeStep(WithComposeLogger(discardLogger()))
		a := &Analysis{Markers: model.NewMarkerSet(), Style: config.DefaultPlotStyle()}

		if err := step.Do(context.Background(), a); !errors.Is(err, plot.ErrEmptyDataset) {
			t.Fatalf("expected ErrEmptyDataset, got %v", err)
		}
	})
}

// capturingPageWriter records the page it was asked to write.
type capturingPageWriter struct {
	page *plot.Page
	err  error
}

// WritePage implements report.PageWriter.
func (c *capturingPageWriter) WritePage(page *plot.Page) error {
	c.page = page
	return c.err
}

// nopWriteCloser wraps a buffer as an io.WriteCloser.
type nopWriteCloser struct {
	io.Writer
}

// Close implements io.Closer.
func (nopWriteCloser) Close() error { return nil }

// TestEmitStep tests artifact emission.
func TestEmitStep(t *testing.T) {
	t.Parallel()

	t.Run("writes the page", func(t *testing.T) {
		t.Parallel()

		writer := &capturingPageWriter{}
		step := NewEmitStep(
			WithEmitLogger(discardLogger()),
			WithPageWriter(func(*Analysis) report.PageWriter { return writer }),
		)

		page := &plot.Page{Title: "modal composites, strip thickness 6.350000 [mm]"}
		a := &Analysis{ReportFile: "out.pdf", Page: page}
		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if writer.page != page {
			t.Error("expected the composed page to reach the writer")
		}
	})

	t.Run("write failure propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("disk full")
		step := NewEmitStep(
			WithEmitLogger(discardLogger()),
			WithPageWriter(func(*Analysis) report.PageWriter {
				return &capturingPageWriter{err: wantErr}
			}),
		)

		a := &Analysis{Page: &plot.Page{}}
		if err := step.Do(context.Background(), a); !errors.Is(err, wantErr) {
			t.Fatalf("expected %v, got %v", wantErr, err)
		}
	})

	t.Run("writes the summary beside the report when requested", func(t *testing.T) {
		t.Parallel()

		var summaryPath string
		var buf bytes.Buffer
		step := NewEmitStep(
			WithEmitLogger(discardLogger()),
			WithPageWriter(func(*Analysis) report.PageWriter { return &capturingPageWriter{} }),
			WithSummaryOutput(func(path string) (io.WriteCloser, error) {
				summaryPath = path
				return nopWriteCloser{&buf}, nil
			}),
		)

		a := &Analysis{
			ModelFile:    "model.sqlite",
			ReportFile:   "out.pdf",
			Dataset:      testDataset(),
			Meta:         model.ColumnMeta{},
			Markers:      model.NewMarkerSet(300),
			Transitions:  []float64{500},
			WriteSummary: true,
			Page:         &plot.Page{},
		}
		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summaryPath != "out.md" {
			t.Errorf("expected summary at out.md, got %q", summaryPath)
		}
		if !strings.Contains(buf.String(), "Modal Composites Report") {
			t.Error("expected summary content to be written")
		}
	})

	t.Run("skips the summary by default", func(t *testing.T) {
		t.Parallel()

		step := NewEmitStep(
			WithEmitLogger(discardLogger()),
			WithPageWriter(func(*Analysis) report.PageWriter { return &capturingPageWriter{} }),
			WithSummaryOutput(func(string) (io.WriteCloser, error) {
				t.Fatal("summary output must not be opened")
				return nil, nil
			}),
		)

		a := &Analysis{Page: &plot.Page{}}
		if err := step.Do(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

package report

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsmtools/fsmstrip/internal/plot"
)

// testPNG encodes a small solid raster so the PDF writer has a real PNG
// to embed.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func testPage(t *testing.T) *plot.Page {
	t.Helper()
	panel := testPNG(t)
	return &plot.Page{
		Title:  "modal composites, strip thickness 6.350000 [mm]",
		Panels: [][]byte{panel, panel, panel, panel},
	}
}

func TestPDFWriterWritePage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	w := NewPDFWriter(path, 14)

	if err := w.WritePage(testPage(t)); err != nil {
		t.Fatalf("WritePage: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("report file is empty")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("report does not start with PDF header: %q", data[:8])
	}
}

func TestPDFWriterEmptyPage(t *testing.T) {
	w := NewPDFWriter(filepath.Join(t.TempDir(), "report.pdf"), 14)

	if err := w.WritePage(nil); !errors.Is(err, ErrNoPanels) {
		t.Errorf("nil page error = %v, want ErrNoPanels", err)
	}
	if err := w.WritePage(&plot.Page{Title: "empty"}); !errors.Is(err, ErrNoPanels) {
		t.Errorf("empty page error = %v, want ErrNoPanels", err)
	}
}

func TestPDFWriterUnwritableTarget(t *testing.T) {
	w := NewPDFWriter(filepath.Join(t.TempDir(), "no", "such", "dir", "report.pdf"), 14)
	if err := w.WritePage(testPage(t)); err == nil {
		t.Error("expected error for unwritable output path")
	}
}

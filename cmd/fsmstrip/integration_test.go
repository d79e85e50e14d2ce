package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsmtools/fsmstrip/internal/database"
	"github.com/fsmtools/fsmstrip/internal/model"
)

// writeModelFile builds a small model file with a mode transition, for
// end-to-end command tests.
func writeModelFile(t *testing.T, path string) {
	t.Helper()

	db, err := database.Open(path, database.Options{CreateIfNotExists: true})
	if err != nil {
		t.Fatalf("failed to create model file: %v", err)
	}
	defer db.Close()

	rows := make([]model.Composite, 0, 8)
	for i := 0; i < 8; i++ {
		mode := 1
		if i >= 5 {
			mode = 2
		}
		rows = append(rows, model.Composite{
			A:             float64(250 + i*250),
			TB:            6.35,
			Omega:         120 - float64(i)*3,
			OmegaApprox:   119 - float64(i)*3,
			SigmaCr:       300 - float64(i)*10,
			SigmaCrApprox: 298 - float64(i)*10,
			MDominant:     mode,
			OmegaRelErr:   0.008,
			SigmaCrRelErr: 0.006,
		})
	}
	if err := db.InsertComposites(context.Background(), rows); err != nil {
		t.Fatalf("failed to insert composites: %v", err)
	}

	meta := model.ColumnMeta{
		model.ColumnA:       {Unit: "mm", Description: "strip length"},
		model.ColumnTB:      {Unit: "mm", Description: "base strip thickness"},
		model.ColumnOmega:   {Unit: "rad/s", Description: "natural frequency"},
		model.ColumnSigmaCr: {Unit: "MPa", Description: "critical buckling stress"},
	}
	if err := db.SetColumnMeta(context.Background(), meta); err != nil {
		t.Fatalf("failed to set column metadata: %v", err)
	}
}

// TestAnalyzeIntegration runs the analyze command against a real model
// file and checks the artifacts it leaves behind.
func TestAnalyzeIntegration(t *testing.T) {
	t.Run("writes a PDF report", func(t *testing.T) {
		dir := t.TempDir()
		modelFile := filepath.Join(dir, "study.sqlite")
		writeModelFile(t, modelFile)

		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"analyze", "--quiet", modelFile})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		reportFile := filepath.Join(dir, "study.pdf")
		info, err := os.Stat(reportFile)
		if err != nil {
			t.Fatalf("expected report at %s: %v", reportFile, err)
		}
		if info.Size() == 0 {
			t.Error("expected non-empty report")
		}
	})

	t.Run("writes a Markdown summary when requested", func(t *testing.T) {
		dir := t.TempDir()
		modelFile := filepath.Join(dir, "study.sqlite")
		writeModelFile(t, modelFile)

		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"analyze", "--quiet", "--summary", "--add-automatic-markers", modelFile})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		summary, err := os.ReadFile(filepath.Join(dir, "study.md"))
		if err != nil {
			t.Fatalf("expected summary file: %v", err)
		}
		if !strings.Contains(string(summary), "Modal Composites Report") {
			t.Error("expected summary heading")
		}
		if !strings.Contains(string(summary), "1500") {
			t.Error("expected the detected transition length in the summary")
		}
	})

	t.Run("missing thickness fails after the widened retry", func(t *testing.T) {
		dir := t.TempDir()
		modelFile := filepath.Join(dir, "study.sqlite")
		writeModelFile(t, modelFile)

		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"analyze", "--quiet", "--t_b", "9.0", modelFile})

		if err := root.Execute(); err == nil {
			t.Fatal("expected an error for an unmatched thickness")
		}
	})

	t.Run("missing model file fails", func(t *testing.T) {
		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"analyze", "--quiet", filepath.Join(t.TempDir(), "missing.sqlite")})

		if err := root.Execute(); err == nil {
			t.Fatal("expected an error for a missing model file")
		}
	})
}

// TestBatchIntegration runs the batch command against real model files.
func TestBatchIntegration(t *testing.T) {
	t.Run("writes one report per model file", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "first.sqlite")
		second := filepath.Join(dir, "second.sqlite")
		writeModelFile(t, first)
		writeModelFile(t, second)

		var out bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&out)
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"batch", "--quiet", "--concurrency", "2", first, second})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, report := range []string{"first.pdf", "second.pdf"} {
			if _, err := os.Stat(filepath.Join(dir, report)); err != nil {
				t.Errorf("expected report %s: %v", report, err)
			}
		}
		if !strings.Contains(out.String(), "written:") {
			t.Error("expected per-file outcomes on stdout")
		}
	})

	t.Run("a failing file does not abort its siblings", func(t *testing.T) {
		dir := t.TempDir()
		good := filepath.Join(dir, "good.sqlite")
		writeModelFile(t, good)
		missing := filepath.Join(dir, "missing.sqlite")

		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"batch", "--quiet", good, missing})

		if err := root.Execute(); err == nil {
			t.Fatal("expected a batch error for the missing file")
		}
		if _, err := os.Stat(filepath.Join(dir, "good.pdf")); err != nil {
			t.Errorf("expected the healthy file's report: %v", err)
		}
	})
}

package graphicsstate

import (
	"errors"
	"math"
	"testing"

	"github.com/tsawler/pdfstruct/core"
	"github.com/tsawler/pdfstruct/model"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// TestNewState tests initial state
func TestNewState(t *testing.T) {
	gs := New(model.Identity())
	if gs.Text.HorizontalScaling != 100.0 {
		t.Errorf("expected horizontal scaling 100.0, got %f", gs.Text.HorizontalScaling)
	}
	if gs.CTM != model.Identity() {
		t.Errorf("expected identity CTM, got %v", gs.CTM)
	}
	if gs.Depth() != 0 {
		t.Errorf("expected empty stack, got depth %d", gs.Depth())
	}
}

// TestSaveRestore tests q/Q operators
func TestSaveRestore(t *testing.T) {
	gs := New(model.Identity())
	gs.SetFont("F1", nil, 14)
	gs.Text.CharSpacing = 1
	gs.Save()

	gs.SetFont("F2", nil, 18)
	gs.Transform(model.Scale(2, 2))
	gs.Text.CharSpacing = 3

	if err := gs.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if gs.Text.FontName != "F1" || gs.Text.FontSize != 14 || gs.Text.CharSpacing != 1 {
		t.Errorf("expected F1 14 with Tc 1, got %s %v with Tc %v", gs.Text.FontName, gs.Text.FontSize, gs.Text.CharSpacing)
	}
	if gs.CTM != model.Identity() {
		t.Errorf("expected CTM restored, got %v", gs.CTM)
	}
}

// TestRestoreUnderflow tests Q without a matching q
func TestRestoreUnderflow(t *testing.T) {
	gs := New(model.Identity())
	if err := gs.Restore(); !errors.Is(err, core.ErrCorruptDocument) {
		t.Errorf("expected ErrCorruptDocument, got %v", err)
	}
}

// TestTransformOrder tests that cm concatenates before the current CTM
func TestTransformOrder(t *testing.T) {
	gs := New(model.Translate(100, 0))
	gs.Transform(model.Scale(2, 2))
	p := gs.CTM.Transform(model.Point{X: 1, Y: 1})
	if !near(p.X, 102) || !near(p.Y, 2) {
		t.Errorf("expected (102, 2), got (%v, %v)", p.X, p.Y)
	}
}

// TestTextPositioning tests Td, TD, T* and Tm
func TestTextPositioning(t *testing.T) {
	gs := New(model.Identity())
	gs.BeginText()
	gs.TranslateText(72, 700)
	if o := gs.TextOrigin(); !near(o.X, 72) || !near(o.Y, 700) {
		t.Errorf("expected (72, 700), got %v", o)
	}

	gs.TranslateTextSetLeading(0, -14)
	if gs.Text.Leading != 14 {
		t.Errorf("expected leading 14, got %v", gs.Text.Leading)
	}
	gs.NextLine()
	if o := gs.TextOrigin(); !near(o.X, 72) || !near(o.Y, 672) {
		t.Errorf("expected (72, 672), got %v", o)
	}

	gs.SetTextMatrix(model.Matrix{2, 0, 0, 2, 10, 20})
	gs.TranslateText(5, 5)
	if o := gs.TextOrigin(); !near(o.X, 20) || !near(o.Y, 30) {
		t.Errorf("expected Td scaled by Tm to give (20, 30), got %v", o)
	}
}

// TestAdvanceAndRise tests glyph advance and text rise
func TestAdvanceAndRise(t *testing.T) {
	gs := New(model.Identity())
	gs.SetTextMatrix(model.Translate(10, 10))
	gs.Advance(25)
	gs.Text.Rise = 3
	o := gs.TextOrigin()
	if !near(o.X, 35) || !near(o.Y, 13) {
		t.Errorf("expected (35, 13), got %v", o)
	}
	if !near(gs.Text.TextLineMatrix[4], 10) {
		t.Errorf("expected line matrix unchanged, got %v", gs.Text.TextLineMatrix)
	}
}

// TestEffectiveFontSize tests font size scaling by Tm and CTM
func TestEffectiveFontSize(t *testing.T) {
	gs := New(model.Scale(1, 2))
	gs.SetFont("F1", nil, 1)
	gs.SetTextMatrix(model.Matrix{12, 0, 0, 12, 0, 0})
	if got := gs.EffectiveFontSize(); !near(got, 24) {
		t.Errorf("expected 24, got %v", got)
	}
}

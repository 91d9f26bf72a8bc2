package graphicsstate

import (
	"github.com/tsawler/pdfstruct/core"
	"github.com/tsawler/pdfstruct/font"
	"github.com/tsawler/pdfstruct/model"
)

// State represents the parts of the PDF graphics state that position text
type State struct {
	// Current Transformation Matrix
	CTM model.Matrix

	// Text state
	Text TextState

	// Graphics state stack (for q/Q operators)
	stack []savedState
}

// TextState represents text-specific state
type TextState struct {
	// Font and size
	Font     *font.Font
	FontName string
	FontSize float64

	// Character and word spacing
	CharSpacing float64
	WordSpacing float64

	// Horizontal scaling (percentage)
	HorizontalScaling float64

	// Leading (line spacing)
	Leading float64

	// Text rendering mode
	RenderingMode int

	// Text rise
	Rise float64

	// Text matrices
	TextMatrix     model.Matrix
	TextLineMatrix model.Matrix
}

type savedState struct {
	ctm  model.Matrix
	text TextState
}

// New creates a graphics state with the given initial CTM
func New(ctm model.Matrix) *State {
	return &State{
		CTM: ctm,
		Text: TextState{
			HorizontalScaling: 100.0,
			TextMatrix:        model.Identity(),
			TextLineMatrix:    model.Identity(),
		},
	}
}

// Depth returns the number of saved states
func (gs *State) Depth() int { return len(gs.stack) }

// Save pushes the current graphics state onto the stack (q operator)
func (gs *State) Save() {
	gs.stack = append(gs.stack, savedState{ctm: gs.CTM, text: gs.Text})
}

// Restore pops a graphics state from the stack (Q operator)
func (gs *State) Restore() error {
	if len(gs.stack) == 0 {
		return core.Corruptf("graphics state stack underflow")
	}
	saved := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]
	gs.CTM = saved.ctm
	gs.Text = saved.text
	return nil
}

// Transform concatenates m onto the CTM (cm operator)
func (gs *State) Transform(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetFont sets the current font (Tf operator). f may be nil when the
// resource is missing.
func (gs *State) SetFont(name string, f *font.Font, size float64) {
	gs.Text.FontName = name
	gs.Text.Font = f
	gs.Text.FontSize = size
}

// BeginText resets the text matrices (BT operator)
func (gs *State) BeginText() {
	gs.Text.TextMatrix = model.Identity()
	gs.Text.TextLineMatrix = model.Identity()
}

// SetTextMatrix sets the text matrix (Tm operator)
func (gs *State) SetTextMatrix(m model.Matrix) {
	gs.Text.TextMatrix = m
	gs.Text.TextLineMatrix = m
}

// TranslateText moves to the start of the next line offset by (tx, ty)
// (Td operator)
func (gs *State) TranslateText(tx, ty float64) {
	gs.Text.TextLineMatrix = model.Translate(tx, ty).Multiply(gs.Text.TextLineMatrix)
	gs.Text.TextMatrix = gs.Text.TextLineMatrix
}

// TranslateTextSetLeading translates text and sets leading (TD operator)
func (gs *State) TranslateTextSetLeading(tx, ty float64) {
	gs.Text.Leading = -ty
	gs.TranslateText(tx, ty)
}

// NextLine moves to next line (T* operator)
func (gs *State) NextLine() {
	gs.TranslateText(0, -gs.Text.Leading)
}

// Advance moves the text matrix by tx unscaled text space units along the
// baseline
func (gs *State) Advance(tx float64) {
	gs.Text.TextMatrix = model.Translate(tx, 0).Multiply(gs.Text.TextMatrix)
}

// HorizontalScale returns Tz as a factor
func (gs *State) HorizontalScale() float64 {
	return gs.Text.HorizontalScaling / 100
}

// RenderingMatrix returns Tm × CTM, mapping text space to user space
func (gs *State) RenderingMatrix() model.Matrix {
	return gs.Text.TextMatrix.Multiply(gs.CTM)
}

// TextOrigin returns the current glyph origin in user space, including rise
func (gs *State) TextOrigin() model.Point {
	return gs.RenderingMatrix().Transform(model.Point{Y: gs.Text.Rise})
}

// EffectiveFontSize returns the font size as rendered, scaled by the text
// matrix and the CTM
func (gs *State) EffectiveFontSize() float64 {
	return gs.Text.FontSize * gs.RenderingMatrix().VerticalScale()
}

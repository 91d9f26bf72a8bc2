package text

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"unicode"

	"github.com/tsawler/pdfstruct/contentstream"
	"github.com/tsawler/pdfstruct/core"
	"github.com/tsawler/pdfstruct/font"
	"github.com/tsawler/pdfstruct/graphicsstate"
	"github.com/tsawler/pdfstruct/model"
	"github.com/tsawler/pdfstruct/pages"
)

// Config holds the span accumulation thresholds, each a multiple of the
// effective font size
type Config struct {
	// JoinTolerance is the largest horizontal jump from the pen position at
	// which a glyph still joins the current span
	JoinTolerance float64 `yaml:"join_tolerance"`
	// SpaceTolerance is the jump at which a space is inserted within a span
	SpaceTolerance float64 `yaml:"space_tolerance"`
	// BaselineTolerance bounds baseline drift within a span
	BaselineTolerance float64 `yaml:"baseline_tolerance"`
}

// DefaultConfig returns the default span thresholds
func DefaultConfig() Config {
	return Config{
		JoinTolerance:     0.35,
		SpaceTolerance:    0.12,
		BaselineTolerance: 0.1,
	}
}

// withDefaults replaces zero fields with their defaults
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.JoinTolerance <= 0 {
		c.JoinTolerance = d.JoinTolerance
	}
	if c.SpaceTolerance <= 0 {
		c.SpaceTolerance = d.SpaceTolerance
	}
	if c.BaselineTolerance <= 0 {
		c.BaselineTolerance = d.BaselineTolerance
	}
	return c
}

// Resolver gives the extractor access to document objects and fonts
type Resolver interface {
	Resolve(obj core.Object) (core.Object, error)
	DecodeStream(s *core.Stream) ([]byte, error)
	// Font loads the font an entry of a /Font resource dictionary refers to
	Font(obj core.Object) (*font.Font, error)
}

// maxFormDepth bounds Form XObject nesting
const maxFormDepth = 8

// Extractor interprets content streams and accumulates positioned spans.
// An Extractor is not safe for concurrent use; create one per page.
type Extractor struct {
	resolver Resolver
	config   Config
	logger   *slog.Logger

	gs        *graphicsstate.State
	resources core.Dict
	fallback  *font.Font

	// activeForms holds the object numbers of forms being executed
	activeForms map[int]bool
	formDepth   int

	spans []model.Span
	cur   *spanBuilder
}

// Option configures an Extractor
type Option func(*Extractor)

// WithConfig sets the span thresholds
func WithConfig(c Config) Option {
	return func(e *Extractor) { e.config = c.withDefaults() }
}

// WithLogger sets the logger for debug records
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor creates a new text extractor
func NewExtractor(r Resolver, opts ...Option) *Extractor {
	e := &Extractor{
		resolver:    r,
		config:      DefaultConfig(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		activeForms: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractPage interprets a page's content streams in user space
func (e *Extractor) ExtractPage(page *pages.Page) ([]model.Span, error) {
	resources, err := page.Resources()
	if err != nil {
		return nil, err
	}
	data, err := page.Contents()
	if err != nil {
		return nil, err
	}
	return e.Extract(data, resources)
}

// Extract interprets decoded content stream data with the given resources
// and returns the spans in content order
func (e *Extractor) Extract(data []byte, resources core.Dict) ([]model.Span, error) {
	e.spans = nil
	e.cur = nil
	e.gs = graphicsstate.New(model.Identity())
	if err := e.run(data, resources); err != nil {
		return nil, err
	}
	e.flush()
	return e.spans, nil
}

func (e *Extractor) run(data []byte, resources core.Dict) error {
	ops, err := contentstream.Parse(data)
	if err != nil {
		return err
	}
	saved := e.resources
	e.resources = resources
	defer func() { e.resources = saved }()

	for i, op := range ops {
		if err := e.processOperation(op); err != nil {
			return fmt.Errorf("operation %d (%s): %w", i, op.Operator, err)
		}
	}
	return nil
}

// processOperation processes a single content stream operation. Operators
// with missing or mistyped operands are ignored.
func (e *Extractor) processOperation(op contentstream.Operation) error {
	args := op.Operands
	switch op.Operator {
	// Graphics state
	case "q":
		e.gs.Save()
	case "Q":
		return e.gs.Restore()
	case "cm":
		if m, ok := operandsToMatrix(args); ok {
			e.gs.Transform(m)
		}

	// Text state
	case "BT":
		e.flush()
		e.gs.BeginText()
	case "ET":
		e.flush()
	case "Tf":
		if len(args) == 2 {
			name, ok1 := args[0].(core.Name)
			size, ok2 := core.ToFloat(args[1])
			if ok1 && ok2 {
				f, err := e.loadFont(string(name))
				if err != nil {
					return err
				}
				e.gs.SetFont(string(name), f, size)
			}
		}
	case "Tc":
		if v, ok := number(args, 0, 1); ok {
			e.gs.Text.CharSpacing = v
		}
	case "Tw":
		if v, ok := number(args, 0, 1); ok {
			e.gs.Text.WordSpacing = v
		}
	case "Tz":
		if v, ok := number(args, 0, 1); ok {
			e.gs.Text.HorizontalScaling = v
		}
	case "TL":
		if v, ok := number(args, 0, 1); ok {
			e.gs.Text.Leading = v
		}
	case "Tr":
		if v, ok := number(args, 0, 1); ok {
			e.gs.Text.RenderingMode = int(v)
		}
	case "Ts":
		if v, ok := number(args, 0, 1); ok {
			e.gs.Text.Rise = v
		}

	// Text positioning
	case "Tm":
		if m, ok := operandsToMatrix(args); ok {
			e.flush()
			e.gs.SetTextMatrix(m)
		}
	case "Td", "TD":
		tx, ok1 := number(args, 0, 2)
		ty, ok2 := number(args, 1, 2)
		if !ok1 || !ok2 {
			return nil
		}
		if ty != 0 {
			e.flush()
		}
		if op.Operator == "TD" {
			e.gs.TranslateTextSetLeading(tx, ty)
		} else {
			e.gs.TranslateText(tx, ty)
		}
	case "T*":
		e.flush()
		e.gs.NextLine()

	// Text showing
	case "Tj":
		if len(args) == 1 {
			if s, ok := args[0].(core.String); ok {
				return e.showText([]byte(s))
			}
		}
	case "TJ":
		if len(args) == 1 {
			if arr, ok := args[0].(core.Array); ok {
				return e.showTextArray(arr)
			}
		}
	case "'":
		e.flush()
		e.gs.NextLine()
		if len(args) == 1 {
			if s, ok := args[0].(core.String); ok {
				return e.showText([]byte(s))
			}
		}
	case "\"":
		if len(args) == 3 {
			aw, ok1 := core.ToFloat(args[0])
			ac, ok2 := core.ToFloat(args[1])
			s, ok3 := args[2].(core.String)
			if ok1 && ok2 && ok3 {
				e.gs.Text.WordSpacing = aw
				e.gs.Text.CharSpacing = ac
				e.flush()
				e.gs.NextLine()
				return e.showText([]byte(s))
			}
		}

	// XObjects
	case "Do":
		if len(args) == 1 {
			if name, ok := args[0].(core.Name); ok {
				return e.doXObject(string(name))
			}
		}
	}
	return nil
}

func number(args []core.Object, i, n int) (float64, bool) {
	if len(args) != n {
		return 0, false
	}
	return core.ToFloat(args[i])
}

func operandsToMatrix(args []core.Object) (model.Matrix, bool) {
	if len(args) != 6 {
		return model.Matrix{}, false
	}
	vals, ok := core.Array(args).Floats()
	if !ok {
		return model.Matrix{}, false
	}
	return model.NewMatrix(vals)
}

// resource looks up an entry of a resource category such as /Font
func (e *Extractor) resource(category, name string) (core.Object, error) {
	catObj, err := e.resolver.Resolve(e.resources.Get(category))
	if err != nil {
		return nil, err
	}
	cat, ok := catObj.(core.Dict)
	if !ok {
		return nil, nil
	}
	return cat.Get(name), nil
}

// loadFont resolves a font resource. A missing resource falls back to
// Helvetica so the text is still read.
func (e *Extractor) loadFont(name string) (*font.Font, error) {
	obj, err := e.resource("Font", name)
	if err != nil {
		return nil, err
	}
	if obj != nil {
		return e.resolver.Font(obj)
	}
	e.logger.Debug("font resource missing, using Helvetica", "font", name)
	if e.fallback == nil {
		f, err := font.Load(core.Dict{
			"Type":     core.Name("Font"),
			"Subtype":  core.Name("Type1"),
			"BaseFont": core.Name("Helvetica"),
		}, e.resolver)
		if err != nil {
			return nil, err
		}
		e.fallback = f
	}
	return e.fallback, nil
}

// showText decodes a shown string and places each glyph
func (e *Extractor) showText(data []byte) error {
	ts := &e.gs.Text
	f := ts.Font
	if f == nil {
		var err error
		if f, err = e.loadFont(ts.FontName); err != nil {
			return err
		}
		ts.Font = f
	}
	glyphs, err := f.Decode(data)
	if err != nil {
		return err
	}

	th := e.gs.HorizontalScale()
	size := e.gs.EffectiveFontSize()
	for _, g := range glyphs {
		trm := e.gs.RenderingMatrix()
		w := g.Width * ts.FontSize * th
		origin := trm.Transform(model.Point{Y: ts.Rise})
		box := model.RectFromPoints(
			trm.Transform(model.Point{Y: ts.Rise + f.Descent*ts.FontSize}),
			trm.Transform(model.Point{X: w, Y: ts.Rise + f.Descent*ts.FontSize}),
			trm.Transform(model.Point{Y: ts.Rise + f.Ascent*ts.FontSize}),
			trm.Transform(model.Point{X: w, Y: ts.Rise + f.Ascent*ts.FontSize}),
		)

		tx := g.Width*ts.FontSize + ts.CharSpacing
		if g.IsSpace {
			tx += ts.WordSpacing
		}
		e.gs.Advance(tx * th)
		end := e.gs.TextOrigin()

		e.addGlyph(g.Text, box, origin, end, f, size)
	}
	return nil
}

// showTextArray processes a TJ array: strings are shown, numbers move the
// pen left by n/1000 of the font size
func (e *Extractor) showTextArray(arr core.Array) error {
	for _, item := range arr {
		switch v := item.(type) {
		case core.String:
			if err := e.showText([]byte(v)); err != nil {
				return err
			}
		case core.Int, core.Real:
			n, _ := core.ToFloat(v)
			e.gs.Advance(-n / 1000 * e.gs.Text.FontSize * e.gs.HorizontalScale())
		}
	}
	return nil
}

// doXObject runs a Form XObject with its matrix and resources. Images and
// other XObject types carry no text.
func (e *Extractor) doXObject(name string) error {
	obj, err := e.resource("XObject", name)
	if err != nil || obj == nil {
		return err
	}
	ref, isRef := obj.(core.IndirectRef)
	if isRef && e.activeForms[ref.Number] {
		return core.Corruptf("form XObject %d draws itself", ref.Number)
	}
	resolved, err := e.resolver.Resolve(obj)
	if err != nil {
		return err
	}
	stream, ok := resolved.(*core.Stream)
	if !ok {
		return nil
	}
	if st, _ := stream.Dict.GetName("Subtype"); st != "Form" {
		return nil
	}
	if e.formDepth >= maxFormDepth {
		e.logger.Debug("form XObject nesting too deep, skipped", "name", name, "depth", e.formDepth)
		return nil
	}

	data, err := e.resolver.DecodeStream(stream)
	if err != nil {
		return fmt.Errorf("form XObject %s: %w", name, err)
	}
	resources := e.resources
	if resObj, err := e.resolver.Resolve(stream.Dict.Get("Resources")); err != nil {
		return err
	} else if d, ok := resObj.(core.Dict); ok {
		resources = d
	}
	matrix := model.Identity()
	if mObj, err := e.resolver.Resolve(stream.Dict.Get("Matrix")); err == nil {
		if arr, ok := mObj.(core.Array); ok {
			if m, ok := operandsToMatrix(arr); ok {
				matrix = m
			}
		}
	}

	// the form runs on its own state stack, starting from a copy of ours
	parent := e.gs
	child := graphicsstate.New(matrix.Multiply(parent.CTM))
	child.Text = parent.Text
	e.gs = child
	if isRef {
		e.activeForms[ref.Number] = true
	}
	e.formDepth++
	defer func() {
		e.gs = parent
		e.formDepth--
		if isRef {
			delete(e.activeForms, ref.Number)
		}
	}()
	return e.run(data, resources)
}

// spanBuilder accumulates glyphs of the span being built
type spanBuilder struct {
	text     strings.Builder
	bbox     model.Rect
	font     *font.Font
	fontID   string
	size     float64
	baseline float64
	// penX is the user-space x where the next glyph is expected
	penX float64
}

// addGlyph appends a placed glyph to the current span or starts a new one.
// Glyphs without text still move the pen but never start a span.
func (e *Extractor) addGlyph(text string, box model.Rect, origin, end model.Point, f *font.Font, size float64) {
	blank := strings.TrimSpace(text) == ""
	cfg := e.config
	if cur := e.cur; cur != nil {
		jump := origin.X - cur.penX
		sameFont := cur.font == f && cur.fontID == e.gs.Text.FontName && math.Abs(cur.size-size) < 0.01
		onBaseline := math.Abs(origin.Y-cur.baseline) <= cfg.BaselineTolerance*size
		if sameFont && onBaseline && math.Abs(jump) <= cfg.JoinTolerance*size {
			if jump >= cfg.SpaceTolerance*size && !blank && !endsWithSpace(&cur.text) {
				cur.text.WriteByte(' ')
			}
			cur.text.WriteString(text)
			if !blank {
				cur.bbox = cur.bbox.Union(box)
			}
			cur.penX = end.X
			return
		}
		e.flush()
	}
	if blank {
		return
	}
	cur := &spanBuilder{
		bbox:     box,
		font:     f,
		fontID:   e.gs.Text.FontName,
		size:     size,
		baseline: origin.Y,
		penX:     end.X,
	}
	cur.text.WriteString(text)
	e.cur = cur
}

func endsWithSpace(sb *strings.Builder) bool {
	s := sb.String()
	return s == "" || strings.HasSuffix(s, " ")
}

// flush closes the current span
func (e *Extractor) flush() {
	cur := e.cur
	e.cur = nil
	if cur == nil {
		return
	}
	text := strings.TrimRightFunc(cur.text.String(), unicode.IsSpace)
	if text == "" {
		return
	}
	e.spans = append(e.spans, model.Span{
		Text:     text,
		BBox:     cur.bbox,
		FontID:   cur.fontID,
		FontSize: cur.size,
		Baseline: cur.baseline,
	})
}

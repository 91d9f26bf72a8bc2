package font

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdfstruct/core"
)

// Resolver gives the loader access to indirect objects and stream data
type Resolver interface {
	Resolve(obj core.Object) (core.Object, error)
	DecodeStream(s *core.Stream) ([]byte, error)
}

// Glyph is one decoded character code
type Glyph struct {
	Code    uint32
	Text    string  // empty when the code has no Unicode mapping
	Width   float64 // horizontal advance in text space units per unit font size
	IsSpace bool    // single-byte code 32, which receives word spacing
}

// Font is a loaded PDF font: how to turn shown strings into text and
// advances
type Font struct {
	BaseFont string
	Subtype  string
	Embedded bool

	// Ascent and Descent are in text space units per unit font size
	Ascent  float64
	Descent float64

	// codeBytes is the code length when no codespace is known
	codeBytes int
	toUnicode *CMap
	codeText  *[256]string // simple fonts
	glyphText map[int]rune // Identity fonts backed by an embedded program
	utf16     bool         // codes are UTF-16 units (UCS2 and UTF16 CMaps)
	// unsupported is set when codes cannot be mapped to text at all
	unsupported string

	widths       map[uint32]float64
	defaultWidth float64
	scale        float64
	program      *trueType
}

// Default ascent and descent, in thousandths of an em
const (
	defaultAscent  = 800
	defaultDescent = -200
	defaultWidth   = 500
)

// Load builds a Font from a font dictionary
func Load(dict core.Dict, r Resolver) (*Font, error) {
	subtype, _ := dict.GetName("Subtype")
	baseFont, _ := dict.GetName("BaseFont")
	f := &Font{
		BaseFont:     stripSubset(string(baseFont)),
		Subtype:      string(subtype),
		Ascent:       defaultAscent / 1000.0,
		Descent:      defaultDescent / 1000.0,
		codeBytes:    1,
		widths:       make(map[uint32]float64),
		defaultWidth: defaultWidth,
		scale:        0.001,
	}

	if obj := dict.Get("ToUnicode"); obj != nil {
		if err := f.loadToUnicode(obj, r); err != nil {
			return nil, fmt.Errorf("failed to load /ToUnicode: %w", err)
		}
	}

	var err error
	switch subtype {
	case "Type0":
		err = f.loadType0(dict, r)
	case "Type1", "MMType1", "TrueType", "Type3":
		err = f.loadSimple(dict, r)
	default:
		f.unsupported = fmt.Sprintf("font subtype %q", subtype)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", f.BaseFont, err)
	}
	return f, nil
}

// stripSubset removes the six-letter subset tag, as in ABCDEF+Helvetica
func stripSubset(name string) string {
	if len(name) > 7 && name[6] == '+' {
		for i := 0; i < 6; i++ {
			if name[i] < 'A' || name[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}

func (f *Font) loadToUnicode(obj core.Object, r Resolver) error {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return err
	}
	s, ok := resolved.(*core.Stream)
	if !ok {
		// /ToUnicode /Identity-H appears in the wild and carries nothing
		return nil
	}
	data, err := r.DecodeStream(s)
	if err != nil {
		return err
	}
	f.toUnicode = ParseCMap(data)
	return nil
}

func (f *Font) loadSimple(dict core.Dict, r Resolver) error {
	if f.Subtype == "Type3" {
		if m, err := resolveArray(dict.Get("FontMatrix"), r); err == nil {
			if v, ok := m.Floats(); ok && len(v) == 6 && v[0] != 0 {
				f.scale = v[0]
			}
		}
		f.defaultWidth = 0
	}

	enc, err := f.simpleEncoding(dict, r)
	if err != nil {
		return err
	}
	f.codeText = enc

	if err := f.loadDescriptor(dict.Get("FontDescriptor"), r); err != nil {
		return err
	}

	first := 0
	if v, ok := dict.GetNumber("FirstChar"); ok {
		first = int(v)
	}
	widths, err := resolveArray(dict.Get("Widths"), r)
	if err != nil {
		return err
	}
	for i, w := range widths {
		obj, err := r.Resolve(w)
		if err != nil {
			return err
		}
		if v, ok := core.ToFloat(obj); ok && first+i >= 0 {
			f.widths[uint32(first+i)] = v
		}
	}
	if len(widths) == 0 && f.Subtype != "Type3" {
		f.fillImplicitWidths()
	}
	return nil
}

// fillImplicitWidths covers fonts without /Widths from the embedded
// program or the standard 14 metrics
func (f *Font) fillImplicitWidths() {
	for code := 0; code < 256; code++ {
		runes := []rune(f.codeText[code])
		if len(runes) != 1 {
			continue
		}
		if f.program != nil {
			if w, ok := f.program.runeAdvance(runes[0]); ok {
				f.widths[uint32(code)] = w
				continue
			}
		}
		if w, ok := standardWidth(f.BaseFont, runes[0]); ok {
			f.widths[uint32(code)] = w
		}
	}
}

func (f *Font) simpleEncoding(dict core.Dict, r Resolver) (*[256]string, error) {
	base := standardEncoding
	if f.Subtype == "TrueType" {
		base = winAnsiEncoding
	}

	obj, err := r.Resolve(dict.Get("Encoding"))
	if err != nil {
		return nil, err
	}
	var diffs core.Array
	switch v := obj.(type) {
	case core.Name:
		base = baseEncoding(string(v))
	case core.Dict:
		if name, ok := v.GetName("BaseEncoding"); ok {
			base = baseEncoding(string(name))
		}
		if diffs, err = resolveArray(v.Get("Differences"), r); err != nil {
			return nil, err
		}
	}

	var out [256]string
	for i, c := range base {
		if c != 0 {
			out[i] = string(c)
		}
	}
	code := -1
	for _, item := range diffs {
		switch v := item.(type) {
		case core.Int:
			code = int(v)
		case core.Real:
			code = int(v)
		case core.Name:
			if code >= 0 && code < 256 {
				out[code] = glyphText(string(v))
				code++
			}
		}
	}
	return &out, nil
}

func (f *Font) loadType0(dict core.Dict, r Resolver) error {
	f.codeBytes = 2
	f.defaultWidth = 1000

	descendants, err := resolveArray(dict.Get("DescendantFonts"), r)
	if err != nil {
		return err
	}
	var cid core.Dict
	if len(descendants) > 0 {
		obj, err := r.Resolve(descendants[0])
		if err != nil {
			return err
		}
		cid, _ = obj.(core.Dict)
	}
	if cid == nil {
		return core.Corruptf("Type0 font without a descendant font")
	}

	if err := f.loadDescriptor(cid.Get("FontDescriptor"), r); err != nil {
		return err
	}
	if dw, ok := cid.GetNumber("DW"); ok {
		f.defaultWidth = dw
	}
	w, err := resolveArray(cid.Get("W"), r)
	if err != nil {
		return err
	}
	if err := f.parseW(w, r); err != nil {
		return err
	}

	encObj, err := r.Resolve(dict.Get("Encoding"))
	if err != nil {
		return err
	}
	switch enc := encObj.(type) {
	case core.Name:
		name := string(enc)
		switch {
		case name == "Identity-H" || name == "Identity-V":
			if f.toUnicode != nil {
				break
			}
			if f.program != nil {
				f.glyphText = f.program.glyphRunes()
			}
			if len(f.glyphText) == 0 {
				f.unsupported = fmt.Sprintf("%s font without /ToUnicode or a readable cmap", name)
			}
		case strings.Contains(name, "UCS2") || strings.Contains(name, "UTF16"):
			f.utf16 = true
		case f.toUnicode == nil:
			f.unsupported = fmt.Sprintf("predefined CMap %s without /ToUnicode", name)
		}
	case *core.Stream:
		// an embedded CMap supplies code lengths, not text
		data, err := r.DecodeStream(enc)
		if err != nil {
			return err
		}
		if f.toUnicode == nil {
			f.toUnicode = NewCMap()
			f.unsupported = "embedded CMap without /ToUnicode"
		}
		f.toUnicode.codespaces = append(f.toUnicode.codespaces, ParseCMap(data).codespaces...)
	default:
		if f.toUnicode == nil {
			f.unsupported = "Type0 font without encoding"
		}
	}
	return nil
}

// parseW reads a CID width array: c [w1 w2 ...] or cfirst clast w
func (f *Font) parseW(w core.Array, r Resolver) error {
	for i := 0; i < len(w); {
		first, ok := core.ToFloat(w[i])
		if !ok || i+1 >= len(w) {
			return nil
		}
		next, err := r.Resolve(w[i+1])
		if err != nil {
			return err
		}
		if list, ok := next.(core.Array); ok {
			for j, v := range list {
				if width, ok := core.ToFloat(v); ok {
					f.widths[uint32(int(first)+j)] = width
				}
			}
			i += 2
			continue
		}
		if i+2 >= len(w) {
			return nil
		}
		last, ok1 := core.ToFloat(next)
		width, ok2 := core.ToFloat(w[i+2])
		if ok1 && ok2 && last >= first && last-first <= 0xFFFF {
			for c := int(first); c <= int(last); c++ {
				f.widths[uint32(c)] = width
			}
		}
		i += 3
	}
	return nil
}

func (f *Font) loadDescriptor(obj core.Object, r Resolver) error {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return err
	}
	fd, ok := resolved.(core.Dict)
	if !ok {
		return nil
	}
	if v, ok := fd.GetNumber("Ascent"); ok && v > 0 {
		f.Ascent = v / 1000
	}
	if v, ok := fd.GetNumber("Descent"); ok && v < 0 {
		f.Descent = v / 1000
	}
	if v, ok := fd.GetNumber("MissingWidth"); ok && v > 0 {
		f.defaultWidth = v
	}
	for _, key := range []string{"FontFile", "FontFile2", "FontFile3"} {
		if fd.Has(key) {
			f.Embedded = true
		}
	}
	if !fd.Has("FontFile2") && !fd.Has("FontFile3") {
		return nil
	}
	streamObj := fd.Get("FontFile2")
	if streamObj == nil {
		streamObj = fd.Get("FontFile3")
	}
	sobj, err := r.Resolve(streamObj)
	if err != nil {
		return err
	}
	s, ok := sobj.(*core.Stream)
	if !ok {
		return nil
	}
	if st, _ := s.Dict.GetName("Subtype"); st != "" && st != "OpenType" {
		// bare CFF programs are not sfnt containers
		return nil
	}
	data, err := r.DecodeStream(s)
	if err != nil {
		return err
	}
	// an unreadable program only costs us metrics
	if tt, err := parseTrueType(data); err == nil {
		f.program = tt
		if !fd.Has("Ascent") {
			if a, d, ok := tt.metrics(); ok && a > 0 {
				f.Ascent, f.Descent = a/1000, d/1000
			}
		}
	}
	return nil
}

func resolveArray(obj core.Object, r Resolver) (core.Array, error) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	arr, _ := resolved.(core.Array)
	return arr, nil
}

// IsTwoByte reports whether the font reads multi-byte codes by default
func (f *Font) IsTwoByte() bool { return f.codeBytes > 1 }

// Decode splits a shown string into glyphs. Codes without a Unicode mapping
// keep their advance but carry no text. It fails with ErrUnsupportedFeature
// when the font's codes cannot be mapped to text at all.
func (f *Font) Decode(data []byte) ([]Glyph, error) {
	if f.unsupported != "" && len(data) > 0 {
		return nil, core.Unsupportedf("cannot decode text in font %s: %s", f.BaseFont, f.unsupported)
	}
	glyphs := make([]Glyph, 0, len(data)/f.codeBytes+1)
	for i := 0; i < len(data); {
		code, n := f.toUnicode.nextCode(data, i, f.codeBytes)
		i += n
		g := Glyph{
			Code:    code,
			Text:    f.text(code),
			Width:   f.width(code) * f.scale,
			IsSpace: n == 1 && code == 32,
		}
		glyphs = append(glyphs, g)
	}
	return glyphs, nil
}

func (f *Font) text(code uint32) string {
	s, ok := f.toUnicode.Lookup(code)
	if !ok {
		switch {
		case f.codeText != nil:
			if code < 256 {
				s = f.codeText[code]
			}
		case f.utf16:
			s = utf16Text([]byte{byte(code >> 8), byte(code)})
		case f.glyphText != nil:
			if r, ok := f.glyphText[int(code)]; ok {
				s = string(r)
			}
		}
	}
	return cleanText(s)
}

// cleanText drops control characters, turns no-break spaces into plain
// spaces and normalises to NFC
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case r == 0xA0:
			return ' '
		case unicode.IsControl(r), r == 0xFFFD, r == 0xFEFF:
			return -1
		}
		return r
	}, s)
	return norm.NFC.String(s)
}

func (f *Font) width(code uint32) float64 {
	if w, ok := f.widths[code]; ok {
		return w
	}
	return f.defaultWidth
}

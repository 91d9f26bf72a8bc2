package font

import (
	"fmt"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// trueType wraps an embedded TrueType or OpenType program (/FontFile2,
// /FontFile3 with an OpenType subtype) for metric lookups
type trueType struct {
	font       *sfnt.Font
	buf        sfnt.Buffer
	unitsPerEm sfnt.Units
	ppem       fixed.Int26_6
}

func parseTrueType(data []byte) (*trueType, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("truetype font data is empty")
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse truetype: %w", err)
	}
	upem := f.UnitsPerEm()
	if upem == 0 {
		return nil, fmt.Errorf("invalid unitsPerEm")
	}
	return &trueType{font: f, unitsPerEm: upem, ppem: fixed.Int26_6(upem << 6)}, nil
}

// glyphAdvance returns the advance of a glyph in thousandths of an em
func (tt *trueType) glyphAdvance(gid sfnt.GlyphIndex) (float64, bool) {
	adv, err := tt.font.GlyphAdvance(&tt.buf, gid, tt.ppem, xfont.HintingNone)
	if err != nil {
		return 0, false
	}
	return scaleFixed(adv, tt.unitsPerEm), true
}

// runeAdvance returns the advance of the glyph the font maps r to
func (tt *trueType) runeAdvance(r rune) (float64, bool) {
	gid, err := tt.font.GlyphIndex(&tt.buf, r)
	if err != nil || gid == 0 {
		return 0, false
	}
	return tt.glyphAdvance(gid)
}

// glyphRunes inverts the font's Unicode cmap over the basic multilingual
// plane. Identity-encoded fonts without ToUnicode show glyph ids, so this
// is the only route back to text. The first rune seen for a glyph wins.
func (tt *trueType) glyphRunes() map[int]rune {
	out := make(map[int]rune)
	for r := rune(0x20); r <= 0xFFFF; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		gid, err := tt.font.GlyphIndex(&tt.buf, r)
		if err != nil || gid == 0 {
			continue
		}
		if _, ok := out[int(gid)]; !ok {
			out[int(gid)] = r
		}
	}
	return out
}

// metrics returns the ascent and descent in thousandths of an em
func (tt *trueType) metrics() (ascent, descent float64, ok bool) {
	m, err := tt.font.Metrics(&tt.buf, tt.ppem, xfont.HintingNone)
	if err != nil {
		return 0, 0, false
	}
	// sfnt reports descent as a positive distance below the baseline
	return scaleFixed(m.Ascent, tt.unitsPerEm), -scaleFixed(m.Descent, tt.unitsPerEm), true
}

func scaleFixed(val fixed.Int26_6, unitsPerEm sfnt.Units) float64 {
	return float64(val) * 1000.0 / (64.0 * float64(unitsPerEm))
}

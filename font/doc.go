// Package font loads PDF font dictionaries and maps shown strings to text
// and glyph advances.
//
// A [Font] is built with [Load] from a font dictionary and a [Resolver]
// that reaches indirect objects and decodes streams:
//
//	f, err := font.Load(fontDict, doc)
//	glyphs, err := f.Decode(shownBytes)
//
// Each [Glyph] carries its Unicode text, or nothing when the code has no
// mapping, and its advance per unit font size.
//
// # Text mapping
//
// Codes go through the font's ToUnicode CMap first. Simple fonts then use
// their encoding: a base of StandardEncoding, WinAnsiEncoding or
// MacRomanEncoding patched by /Differences, whose glyph names follow the
// Adobe glyph naming rules. Composite fonts with an Identity encoding and an
// embedded TrueType program fall back to the program's own cmap; UCS2 and
// UTF16 CMaps decode codes as UTF-16. Any other predefined CMap without a
// ToUnicode map reports [core.ErrUnsupportedFeature] on first use.
//
// # Widths
//
// Advances come from /Widths (simple fonts), /W and /DW (composite fonts),
// the embedded TrueType program, or built-in metrics for the standard 14
// fonts, in that order. Type3 advances are scaled by /FontMatrix.
package font

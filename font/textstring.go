package font

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// pdfDocHigh holds the PDFDocEncoding code points that differ from Latin-1
var pdfDocHigh = map[byte]rune{
	0x18: '˘', 0x19: 'ˇ', 0x1A: 'ˆ', 0x1B: '˙', 0x1C: '˝', 0x1D: '˛', 0x1E: '˚', 0x1F: '˜',
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…', 0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
	0x88: '‹', 0x89: '›', 0x8A: '−', 0x8B: '‰', 0x8C: '„', 0x8D: '“', 0x8E: '”', 0x8F: '‘',
	0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ', 0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
	0x98: 'Ÿ', 0x99: 'Ž', 0x9A: 'ı', 0x9B: 'ł', 0x9C: 'œ', 0x9D: 'š', 0x9E: 'ž', 0xA0: '€',
}

// DecodeTextString decodes a PDF text string such as an /Info entry: UTF-16BE
// or UTF-8 when marked with a byte order mark, PDFDocEncoding otherwise
func DecodeTextString(b []byte) string {
	switch {
	case len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF:
		return utf16Text(b[2:])
	case len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF:
		return strings.ToValidUTF8(string(b[3:]), "")
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if r, ok := pdfDocHigh[c]; ok {
			sb.WriteRune(r)
			continue
		}
		if r := charmap.ISO8859_1.DecodeByte(c); r != utf8.RuneError {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

package font

import "testing"

// TestGlyphText tests glyph name mapping
func TestGlyphText(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"A", "A"},
		{"space", " "},
		{"seven", "7"},
		{"Aacute", "Á"},
		{"ccedilla", "ç"},
		{"Scaron", "Š"},
		{"germandbls", "ß"},
		{"quotedblleft", "“"},
		{"uni00E9", "é"},
		{"uni00660069", "fi"},
		{"u1F600", "😀"},
		{"a.sc", "a"},
		{"f_f_i", "ffi"},
		{"bullet", "•"},
		{"g42", ""},
		{".notdef", ""},
	}
	for _, tt := range tests {
		if got := glyphText(tt.name); got != tt.want {
			t.Errorf("glyphText(%q): expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

// TestBaseEncodings tests the predefined single-byte tables
func TestBaseEncodings(t *testing.T) {
	tests := []struct {
		encoding string
		code     byte
		want     rune
	}{
		{"WinAnsiEncoding", 0x80, '€'},
		{"WinAnsiEncoding", 0x41, 'A'},
		{"MacRomanEncoding", 0x8E, 'é'},
		{"MacRomanEncoding", 0xA5, '•'},
		{"StandardEncoding", 0xAE, 'ﬁ'},
		{"StandardEncoding", 0x80, 0},
		{"Bogus", 0x27, '’'},
	}
	for _, tt := range tests {
		enc := baseEncoding(tt.encoding)
		if got := enc[tt.code]; got != tt.want {
			t.Errorf("%s %#x: expected %q, got %q", tt.encoding, tt.code, tt.want, got)
		}
	}
}

// TestDecodeTextString tests PDF text string decoding
func TestDecodeTextString(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("Plain"), "Plain"},
		{[]byte{0xFE, 0xFF, 0x00, 0x48, 0x00, 0xE9}, "Hé"},
		{[]byte{0xEF, 0xBB, 0xBF, 'o', 'k'}, "ok"},
		{[]byte{0x80, 'a', 0xA0}, "•a€"},
		{[]byte{0xE9}, "é"},
	}
	for _, tt := range tests {
		if got := DecodeTextString(tt.in); got != tt.want {
			t.Errorf("DecodeTextString(%x): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

package font

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Single-byte encodings map a code to a rune; zero means no glyph.

var standardEncoding = [256]rune{
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0020, 0x0021, 0x0022, 0x0023, 0x0024, 0x0025, 0x0026, 0x2019,
	0x0028, 0x0029, 0x002A, 0x002B, 0x002C, 0x002D, 0x002E, 0x002F,
	0x0030, 0x0031, 0x0032, 0x0033, 0x0034, 0x0035, 0x0036, 0x0037,
	0x0038, 0x0039, 0x003A, 0x003B, 0x003C, 0x003D, 0x003E, 0x003F,
	0x0040, 0x0041, 0x0042, 0x0043, 0x0044, 0x0045, 0x0046, 0x0047,
	0x0048, 0x0049, 0x004A, 0x004B, 0x004C, 0x004D, 0x004E, 0x004F,
	0x0050, 0x0051, 0x0052, 0x0053, 0x0054, 0x0055, 0x0056, 0x0057,
	0x0058, 0x0059, 0x005A, 0x005B, 0x005C, 0x005D, 0x005E, 0x005F,
	0x2018, 0x0061, 0x0062, 0x0063, 0x0064, 0x0065, 0x0066, 0x0067,
	0x0068, 0x0069, 0x006A, 0x006B, 0x006C, 0x006D, 0x006E, 0x006F,
	0x0070, 0x0071, 0x0072, 0x0073, 0x0074, 0x0075, 0x0076, 0x0077,
	0x0078, 0x0079, 0x007A, 0x007B, 0x007C, 0x007D, 0x007E, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x00A1, 0x00A2, 0x00A3, 0x2044, 0x00A5, 0x0192, 0x00A7,
	0x00A4, 0x0027, 0x201C, 0x00AB, 0x2039, 0x203A, 0xFB01, 0xFB02,
	0x0000, 0x2013, 0x2020, 0x2021, 0x00B7, 0x0000, 0x00B6, 0x2022,
	0x201A, 0x201E, 0x201D, 0x00BB, 0x2026, 0x2030, 0x0000, 0x00BF,
	0x0000, 0x0060, 0x00B4, 0x02C6, 0x02DC, 0x00AF, 0x02D8, 0x02D9,
	0x00A8, 0x0000, 0x02DA, 0x00B8, 0x0000, 0x02DD, 0x02DB, 0x02C7,
	0x2014, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x00C6, 0x0000, 0x00AA, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0141, 0x00D8, 0x0152, 0x00BA, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x00E6, 0x0000, 0x0000, 0x0000, 0x0131, 0x0000, 0x0000,
	0x0142, 0x00F8, 0x0153, 0x00DF, 0x0000, 0x0000, 0x0000, 0x0000,
}

var (
	winAnsiEncoding  = charmapEncoding(charmap.Windows1252)
	macRomanEncoding = charmapEncoding(charmap.Macintosh)
)

func charmapEncoding(cm *charmap.Charmap) [256]rune {
	var enc [256]rune
	for i := 32; i < 256; i++ {
		r := cm.DecodeByte(byte(i))
		if r == utf8.RuneError {
			continue
		}
		enc[i] = r
	}
	return enc
}

// baseEncoding returns the table for a predefined encoding name. Unknown
// names give the standard encoding.
func baseEncoding(name string) [256]rune {
	switch name {
	case "WinAnsiEncoding":
		return winAnsiEncoding
	case "MacRomanEncoding", "MacExpertEncoding":
		return macRomanEncoding
	}
	return standardEncoding
}

// glyphRunes maps glyph names that cannot be derived from their spelling
var glyphRunes = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"quoteright": '’', "parenleft": '(', "parenright": ')', "asterisk": '*',
	"plus": '+', "comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=', "greater": '>',
	"question": '?', "at": '@', "bracketleft": '[', "backslash": '\\',
	"bracketright": ']', "asciicircum": '^', "underscore": '_', "grave": '`',
	"quoteleft": '‘', "braceleft": '{', "bar": '|', "braceright": '}',
	"asciitilde": '~',

	"exclamdown": '¡', "cent": '¢', "sterling": '£', "fraction": '⁄',
	"yen": '¥', "florin": 'ƒ', "section": '§', "currency": '¤',
	"quotedblleft": '“', "guillemotleft": '«', "guilsinglleft": '‹',
	"guilsinglright": '›', "endash": '–', "dagger": '†', "daggerdbl": '‡',
	"periodcentered": '·', "paragraph": '¶', "bullet": '•',
	"quotesinglbase": '‚', "quotedblbase": '„', "quotedblright": '”',
	"guillemotright": '»', "ellipsis": '…', "perthousand": '‰',
	"questiondown": '¿', "acute": '´', "circumflex": 'ˆ', "tilde": '˜',
	"macron": '¯', "breve": '˘', "dotaccent": '˙', "dieresis": '¨',
	"ring": '˚', "cedilla": '¸', "hungarumlaut": '˝', "ogonek": '˛',
	"caron": 'ˇ', "emdash": '—', "AE": 'Æ', "ordfeminine": 'ª',
	"Lslash": 'Ł', "Oslash": 'Ø', "OE": 'Œ', "ordmasculine": 'º', "ae": 'æ',
	"dotlessi": 'ı', "lslash": 'ł', "oslash": 'ø', "oe": 'œ',
	"germandbls": 'ß', "Eth": 'Ð', "eth": 'ð', "Thorn": 'Þ', "thorn": 'þ',
	"copyright": '©', "registered": '®', "trademark": '™', "degree": '°',
	"plusminus": '±', "multiply": '×', "divide": '÷', "minus": '−',
	"logicalnot": '¬', "brokenbar": '¦', "mu": 'µ', "onehalf": '½',
	"onequarter": '¼', "threequarters": '¾', "onesuperior": '¹',
	"twosuperior": '²', "threesuperior": '³', "Euro": '€',
	"nbspace": ' ', "nonbreakingspace": ' ', "sfthyphen": '-', "softhyphen": '-',
	"fi": 'ﬁ', "fl": 'ﬂ', "ff": 'ﬀ', "ffi": 'ﬃ', "ffl": 'ﬄ',
	"arrowleft": '←', "arrowup": '↑', "arrowright": '→', "arrowdown": '↓',
	"arrowboth": '↔', "circle": '○', "H18533": '●', "openbullet": '◦',
	"filledbox": '■', "H22073": '□', "triagrt": '►', "notequal": '≠',
	"lessequal": '≤', "greaterequal": '≥', "infinity": '∞', "summation": '∑',
	"product": '∏', "radical": '√', "approxequal": '≈', "partialdiff": '∂',
	"Delta": 'Δ', "Omega": 'Ω', "pi": 'π', "lozenge": '◊',
}

// accents maps accent suffixes of composed glyph names to combining marks
var accents = map[string]rune{
	"acute": 0x0301, "grave": 0x0300, "circumflex": 0x0302, "tilde": 0x0303,
	"dieresis": 0x0308, "ring": 0x030A, "cedilla": 0x0327, "caron": 0x030C,
	"macron": 0x0304, "breve": 0x0306, "ogonek": 0x0328, "dotaccent": 0x0307,
	"hungarumlaut": 0x030B, "commaaccent": 0x0326,
}

// glyphText maps a glyph name to text following the Adobe glyph naming
// rules: suffixes after a period are ignored, underscores join ligature
// components, and uniXXXX or uXXXX[XX] names carry their code points.
func glyphText(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if strings.Contains(name, "_") {
		var sb strings.Builder
		for _, part := range strings.Split(name, "_") {
			sb.WriteString(glyphText(part))
		}
		return sb.String()
	}
	if r, ok := glyphRune(name); ok {
		return string(r)
	}
	if strings.HasPrefix(name, "uni") && len(name) > 3 && (len(name)-3)%4 == 0 {
		var sb strings.Builder
		for i := 3; i < len(name); i += 4 {
			v, err := strconv.ParseUint(name[i:i+4], 16, 32)
			if err != nil || (v >= 0xD800 && v <= 0xDFFF) {
				return ""
			}
			sb.WriteRune(rune(v))
		}
		return sb.String()
	}
	return ""
}

func glyphRune(name string) (rune, bool) {
	if r, ok := glyphRunes[name]; ok {
		return r, true
	}
	if len(name) == 1 && isASCIILetter(name[0]) {
		return rune(name[0]), true
	}
	// Eacute, ccedilla, Scaron ...
	if len(name) > 1 && isASCIILetter(name[0]) {
		if mark, ok := accents[name[1:]]; ok {
			composed := norm.NFC.String(string([]rune{rune(name[0]), mark}))
			if r, size := utf8.DecodeRuneInString(composed); size == len(composed) {
				return r, true
			}
		}
	}
	if strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err == nil && v > 0 && v <= 0x10FFFF {
			return rune(v), true
		}
	}
	return 0, false
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

package font

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/pdfstruct/core"
)

// CMap maps character codes to Unicode text, as found in a ToUnicode stream
type CMap struct {
	// codespaces bound the byte length of codes; empty means unknown
	codespaces []codespaceRange

	// Single character mappings: charCode -> unicode string
	charMappings map[uint32]string

	// Range mappings, searched after charMappings
	rangeMappings []CMapRange
}

// CMapRange maps a contiguous run of codes. The last rune of Start is
// incremented by the offset of the code within the range.
type CMapRange struct {
	StartCode uint32
	EndCode   uint32
	Start     []rune
}

type codespaceRange struct {
	low, high uint32
	n         int
}

// NewCMap creates a new empty CMap
func NewCMap() *CMap {
	return &CMap{charMappings: make(map[uint32]string)}
}

// ParseCMap reads codespace, bfchar and bfrange sections from CMap program
// text. Syntax it cannot read is skipped; only mapping operands are
// interpreted, so PostScript procedure bodies are harmless.
func ParseCMap(data []byte) *CMap {
	cm := NewCMap()
	p := core.NewParser(data)
	var operands []core.Object
	for {
		obj, kw, err := p.ParseObjectOrKeyword()
		if err != nil {
			// resume after the offending byte
			if p.Pos() >= len(data) {
				break
			}
			p.Seek(p.Pos() + 1)
			operands = operands[:0]
			continue
		}
		if obj == nil && kw == "" {
			break
		}
		if obj != nil {
			operands = append(operands, obj)
			continue
		}
		switch kw {
		case "endcodespacerange":
			cm.addCodespaces(operands)
		case "endbfchar":
			cm.addBfChars(operands)
		case "endbfrange":
			cm.addBfRanges(operands)
		}
		operands = operands[:0]
	}
	return cm
}

func (cm *CMap) addCodespaces(ops []core.Object) {
	for i := 0; i+1 < len(ops); i += 2 {
		lo, ok1 := ops[i].(core.String)
		hi, ok2 := ops[i+1].(core.String)
		if !ok1 || !ok2 || len(lo) == 0 || len(lo) > 4 {
			continue
		}
		cm.codespaces = append(cm.codespaces, codespaceRange{
			low:  codeValue([]byte(lo)),
			high: codeValue([]byte(hi)),
			n:    len(lo),
		})
	}
}

func (cm *CMap) addBfChars(ops []core.Object) {
	for i := 0; i+1 < len(ops); i += 2 {
		src, ok := ops[i].(core.String)
		if !ok || len(src) == 0 {
			continue
		}
		code := codeValue([]byte(src))
		switch dst := ops[i+1].(type) {
		case core.String:
			cm.charMappings[code] = utf16Text([]byte(dst))
		case core.Name:
			cm.charMappings[code] = glyphText(string(dst))
		}
	}
}

func (cm *CMap) addBfRanges(ops []core.Object) {
	for i := 0; i+2 < len(ops); i += 3 {
		lo, ok1 := ops[i].(core.String)
		hi, ok2 := ops[i+1].(core.String)
		if !ok1 || !ok2 || len(lo) == 0 {
			continue
		}
		start, end := codeValue([]byte(lo)), codeValue([]byte(hi))
		if end < start || end-start > 0xFFFF {
			continue
		}
		switch dst := ops[i+2].(type) {
		case core.String:
			runes := []rune(utf16Text([]byte(dst)))
			if len(runes) == 0 {
				continue
			}
			cm.rangeMappings = append(cm.rangeMappings, CMapRange{StartCode: start, EndCode: end, Start: runes})
		case core.Array:
			for j, elem := range dst {
				s, ok := elem.(core.String)
				if !ok || start+uint32(j) > end {
					continue
				}
				cm.charMappings[start+uint32(j)] = utf16Text([]byte(s))
			}
		}
	}
}

// Lookup returns the text for a character code
func (cm *CMap) Lookup(code uint32) (string, bool) {
	if cm == nil {
		return "", false
	}
	if s, ok := cm.charMappings[code]; ok {
		return s, true
	}
	for _, r := range cm.rangeMappings {
		if code >= r.StartCode && code <= r.EndCode {
			runes := append([]rune(nil), r.Start...)
			runes[len(runes)-1] += rune(code - r.StartCode)
			return string(runes), true
		}
	}
	return "", false
}

// Len returns the number of explicit and range mappings
func (cm *CMap) Len() int {
	return len(cm.charMappings) + len(cm.rangeMappings)
}

// nextCode reads one character code at data[i:]. The codespace ranges pick
// the length; without them fallback bytes are consumed.
func (cm *CMap) nextCode(data []byte, i, fallback int) (uint32, int) {
	if cm != nil && len(cm.codespaces) > 0 {
		for n := 1; n <= 4 && i+n <= len(data); n++ {
			code := codeValue(data[i : i+n])
			for _, cs := range cm.codespaces {
				if cs.n == n && code >= cs.low && code <= cs.high {
					return code, n
				}
			}
		}
	}
	n := min(fallback, len(data)-i)
	return codeValue(data[i : i+n]), n
}

func codeValue(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// utf16Text decodes a CMap destination string. A single byte is taken as a
// Latin-1 code point.
func utf16Text(b []byte) string {
	switch len(b) {
	case 0:
		return ""
	case 1:
		return string(rune(b[0]))
	}
	if len(b)%2 != 0 {
		b = append([]byte{0}, b...)
	}
	out, err := utf16BE.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

// String summarises the map for debugging
func (cm *CMap) String() string {
	return fmt.Sprintf("CMap{codespaces: %d, chars: %d, ranges: %d}", len(cm.codespaces), len(cm.charMappings), len(cm.rangeMappings))
}

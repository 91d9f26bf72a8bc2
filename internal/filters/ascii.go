package filters

import (
	"bytes"
	"fmt"
)

// ASCIIHexDecode decodes pairs of hex digits into bytes. Whitespace is
// ignored, '>' ends the data and an odd final digit is padded with zero.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)/2)
	var hi byte
	half := false
	for _, c := range data {
		if c == '>' {
			break
		}
		if isWhitespace(c) {
			continue
		}
		v, ok := hexValue(c)
		if !ok {
			return nil, fmt.Errorf("invalid hex digit: %q", c)
		}
		if half {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		out = append(out, hi<<4)
	}
	return out, nil
}

// ASCII85Decode decodes base-85 groups of five characters into four bytes.
// 'z' stands for four zero bytes and "~>" ends the data. A final partial
// group of n characters yields n-1 bytes.
func ASCII85Decode(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(bytes.TrimLeft(data, " \t\r\n\f\x00"), []byte("<~"))
	var out bytes.Buffer
	var group [5]byte
	n := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		if isWhitespace(c) {
			continue
		}
		if c == '~' {
			break
		}
		if c == 'z' && n == 0 {
			out.Write([]byte{0, 0, 0, 0})
			continue
		}
		if c < '!' || c > 'u' {
			return nil, fmt.Errorf("invalid ASCII85 character: %q", c)
		}
		group[n] = c - '!'
		n++
		if n == 5 {
			writeA85Group(&out, group, 4)
			n = 0
		}
	}
	if n == 1 {
		return nil, fmt.Errorf("ASCII85 data ends with a single character group")
	}
	if n > 0 {
		for i := n; i < 5; i++ {
			group[i] = 84 // 'u'
		}
		writeA85Group(&out, group, n-1)
	}
	return out.Bytes(), nil
}

func writeA85Group(out *bytes.Buffer, group [5]byte, nbytes int) {
	var v uint32
	for _, d := range group {
		v = v*85 + uint32(d)
	}
	for j := 0; j < nbytes; j++ {
		out.WriteByte(byte(v >> (24 - 8*j)))
	}
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

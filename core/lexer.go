package core

import (
	"bytes"
	"strconv"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF        TokenType = iota
	TokenKeyword              // true, false, null, obj, R, stream, operators
	TokenInteger              // 123
	TokenReal                 // 3.14
	TokenString               // (hello) and <48656C6C6F>, decoded
	TokenName                 // /Type, without the slash
	TokenArrayStart           // [
	TokenArrayEnd             // ]
	TokenDictStart            // <<
	TokenDictEnd              // >>
)

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int // offset of the first byte in the input
}

// Lexer tokenizes PDF syntax held in memory. Comments are skipped.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer positioned at the start of data
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Pos returns the offset of the next unread byte
func (l *Lexer) Pos() int { return l.pos }

// Seek moves the lexer to an absolute offset
func (l *Lexer) Seek(pos int) {
	l.pos = min(max(pos, 0), len(l.data))
}

// Data returns the underlying input
func (l *Lexer) Data() []byte { return l.data }

// AtEOF reports whether only whitespace and comments remain
func (l *Lexer) AtEOF() bool {
	l.skipWhitespace()
	return l.pos >= len(l.data)
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.data) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	b := l.data[l.pos]
	switch b {
	case '[':
		l.pos++
		return Token{Type: TokenArrayStart, Value: l.data[start:l.pos], Pos: start}, nil
	case ']':
		l.pos++
		return Token{Type: TokenArrayEnd, Value: l.data[start:l.pos], Pos: start}, nil
	case '(':
		return l.readString()
	case '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return Token{Type: TokenDictStart, Value: l.data[start:l.pos], Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return Token{Type: TokenDictEnd, Value: l.data[start:l.pos], Pos: start}, nil
		}
		if l.pos+1 >= len(l.data) {
			return Token{}, Truncatedf("unterminated dictionary at offset %d", start)
		}
		return Token{}, Corruptf("unexpected '>' at offset %d", start)
	case '/':
		return l.readName()
	case ')', '{', '}':
		return Token{}, Corruptf("unexpected %q at offset %d", b, start)
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber()
	}
	return l.readKeyword(), nil
}

// SkipStreamEOL consumes the end-of-line marker that follows the stream
// keyword: CRLF or LF, and a lone CR as found in some writers.
func (l *Lexer) SkipStreamEOL() {
	for l.pos < len(l.data) && l.data[l.pos] == ' ' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\n' {
		l.pos++
	}
}

// skipWhitespace skips whitespace and comments
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if b == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		if !isWhitespace(b) {
			return
		}
		l.pos++
	}
}

// readString reads a literal string, resolving escapes
func (l *Lexer) readString() (Token, error) {
	start := l.pos
	l.pos++ // (
	var buf bytes.Buffer
	depth := 1
	for {
		if l.pos >= len(l.data) {
			return Token{}, Truncatedf("unterminated string at offset %d", start)
		}
		b := l.data[l.pos]
		l.pos++
		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				return Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
			}
			buf.WriteByte(b)
		case '\\':
			if l.pos >= len(l.data) {
				return Token{}, Truncatedf("unterminated string at offset %d", start)
			}
			next := l.data[l.pos]
			l.pos++
			switch next {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '\r':
				// line continuation
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				val := next - '0'
				for i := 0; i < 2 && l.pos < len(l.data) && isOctalDigit(l.data[l.pos]); i++ {
					val = val*8 + (l.data[l.pos] - '0')
					l.pos++
				}
				buf.WriteByte(val)
			default:
				buf.WriteByte(next)
			}
		case '\r':
			// an unescaped end-of-line in a string reads as a single LF
			if l.pos < len(l.data) && l.data[l.pos] == '\n' {
				l.pos++
			}
			buf.WriteByte('\n')
		default:
			buf.WriteByte(b)
		}
	}
}

// readHexString reads <...> and returns the decoded bytes
func (l *Lexer) readHexString() (Token, error) {
	start := l.pos
	l.pos++ // <
	var buf bytes.Buffer
	var hi byte
	half := false
	for {
		if l.pos >= len(l.data) {
			return Token{}, Truncatedf("unterminated hex string at offset %d", start)
		}
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			break
		}
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return Token{}, Corruptf("invalid hex digit %q at offset %d", b, l.pos-1)
		}
		if half {
			buf.WriteByte(hi<<4 | hexValue(b))
		} else {
			hi = hexValue(b)
		}
		half = !half
	}
	// an odd final digit is padded with zero
	if half {
		buf.WriteByte(hi << 4)
	}
	return Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
}

// readName reads a name, decoding #xx escapes
func (l *Lexer) readName() (Token, error) {
	start := l.pos
	l.pos++ // /
	var buf bytes.Buffer
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++
		if b == '#' && l.pos+1 < len(l.data) && isHexDigit(l.data[l.pos]) && isHexDigit(l.data[l.pos+1]) {
			buf.WriteByte(hexValue(l.data[l.pos])<<4 | hexValue(l.data[l.pos+1]))
			l.pos += 2
			continue
		}
		buf.WriteByte(b)
	}
	return Token{Type: TokenName, Value: buf.Bytes(), Pos: start}, nil
}

// readNumber reads an integer or real number
func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	l.pos++
	real := l.data[start] == '.'
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if b == '.' {
			real = true
		} else if !isDigit(b) {
			break
		}
		l.pos++
	}
	text := l.data[start:l.pos]
	if real {
		if _, err := strconv.ParseFloat(string(text), 64); err != nil && !isSignOnly(text) {
			return Token{}, Corruptf("invalid number %q at offset %d", text, start)
		}
		return Token{Type: TokenReal, Value: text, Pos: start}, nil
	}
	if isSignOnly(text) {
		// a lone sign reads as zero, as most readers accept it
		return Token{Type: TokenInteger, Value: []byte("0"), Pos: start}, nil
	}
	return Token{Type: TokenInteger, Value: text, Pos: start}, nil
}

// readKeyword reads a run of regular characters
func (l *Lexer) readKeyword() Token {
	start := l.pos
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++
	}
	return Token{Type: TokenKeyword, Value: l.data[start:l.pos], Pos: start}
}

func isSignOnly(b []byte) bool {
	s := string(b)
	return s == "-" || s == "+" || s == "." || s == "-." || s == "+."
}

// isWhitespace reports PDF whitespace: NUL, TAB, LF, FF, CR, SP
func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// ReferenceResolver resolves indirect references. The parser needs one to
// read streams whose /Length is an indirect object.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser parses PDF objects from in-memory data using a Lexer for tokenization
type Parser struct {
	lexer    *Lexer
	resolver ReferenceResolver
}

// NewParser creates a new parser over data, positioned at offset 0
func NewParser(data []byte) *Parser {
	return &Parser{lexer: NewLexer(data)}
}

// SetReferenceResolver sets the resolver used for indirect stream lengths
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// Seek moves the parser to an absolute offset
func (p *Parser) Seek(offset int) { p.lexer.Seek(offset) }

// Pos returns the offset of the next unread byte
func (p *Parser) Pos() int { return p.lexer.Pos() }

// Lexer returns the underlying lexer
func (p *Parser) Lexer() *Lexer { return p.lexer }

// ParseObject parses the next direct object. Keywords other than true,
// false and null are reported as errors.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	return p.parseFrom(tok)
}

// ParseObjectOrKeyword parses the next object, returning a bare keyword as
// a Name-free Keyword value. Content stream parsing relies on this to read
// operators interleaved with operands.
func (p *Parser) ParseObjectOrKeyword() (Object, Keyword, error) {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return nil, "", err
	}
	if tok.Type == TokenKeyword {
		switch string(tok.Value) {
		case "null", "true", "false":
		default:
			return nil, Keyword(tok.Value), nil
		}
	}
	if tok.Type == TokenEOF {
		return nil, "", nil
	}
	obj, err := p.parseFrom(tok)
	return obj, "", err
}

// Keyword is a bare PDF keyword such as an operator name
type Keyword string

func (p *Parser) parseFrom(tok Token) (Object, error) {
	switch tok.Type {
	case TokenEOF:
		return nil, Truncatedf("unexpected end of data at offset %d", tok.Pos)
	case TokenKeyword:
		switch string(tok.Value) {
		case "null":
			return Null{}, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, Corruptf("unexpected keyword %q at offset %d", tok.Value, tok.Pos)
	case TokenInteger:
		return p.parseNumber(tok)
	case TokenReal:
		f, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			// lone signs and dots read as zero
			return Real(0), nil
		}
		return Real(f), nil
	case TokenString:
		return String(tok.Value), nil
	case TokenName:
		return Name(tok.Value), nil
	case TokenArrayStart:
		return p.parseArray(tok.Pos)
	case TokenDictStart:
		return p.parseDict(tok.Pos)
	}
	return nil, Corruptf("unexpected %q at offset %d", tok.Value, tok.Pos)
}

// parseNumber parses an integer or an indirect reference "num gen R",
// looking ahead two tokens and rewinding when the pattern does not match.
func (p *Parser) parseNumber(tok Token) (Object, error) {
	first, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil {
		return nil, Corruptf("invalid integer %q at offset %d", tok.Value, tok.Pos)
	}

	mark := p.lexer.Pos()
	second, err := p.lexer.NextToken()
	if err == nil && second.Type == TokenInteger {
		third, err := p.lexer.NextToken()
		if err == nil && third.Type == TokenKeyword && string(third.Value) == "R" {
			gen, _ := strconv.Atoi(string(second.Value))
			return IndirectRef{Number: int(first), Generation: gen}, nil
		}
	}
	p.lexer.Seek(mark)
	return Int(first), nil
}

// parseArray parses a PDF array after its opening bracket
func (p *Parser) parseArray(start int) (Object, error) {
	arr := Array{}
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			return arr, nil
		case TokenEOF:
			return nil, Truncatedf("unterminated array at offset %d", start)
		}
		obj, err := p.parseFrom(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// parseDict parses a PDF dictionary after its opening delimiter
func (p *Parser) parseDict(start int) (Object, error) {
	dict := Dict{}
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			return dict, nil
		case TokenEOF:
			return nil, Truncatedf("unterminated dictionary at offset %d", start)
		case TokenName:
		default:
			return nil, Corruptf("expected name for dictionary key at offset %d, got %q", tok.Pos, tok.Value)
		}
		key := string(tok.Value)

		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("error parsing dictionary value for key '%s': %w", key, err)
		}
		// a null value is equivalent to an absent key
		if _, isNull := value.(Null); !isNull {
			dict[key] = value
		}
	}
}

// ParseIndirectObject parses "num gen obj <object> endobj", including a
// stream body when the object is a dictionary followed by "stream".
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	start := p.lexer.Pos()
	num, err := p.expectInt("object number")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectInt("generation number")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("obj"); err != nil {
		return nil, err
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("error parsing object %d at offset %d: %w", num, start, err)
	}

	mark := p.lexer.Pos()
	tok, err := p.lexer.NextToken()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenKeyword && string(tok.Value) == "stream" {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, Corruptf("object %d: stream must follow a dictionary", num)
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("error parsing stream of object %d: %w", num, err)
		}
		obj = stream
		mark = p.lexer.Pos()
		tok, err = p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
	}

	switch {
	case tok.Type == TokenKeyword && string(tok.Value) == "endobj":
	case tok.Type == TokenEOF:
		return nil, Truncatedf("object %d ends before endobj", num)
	case tok.Type == TokenInteger || (tok.Type == TokenKeyword && string(tok.Value) == "xref"):
		// missing endobj directly followed by the next object or section
		p.lexer.Seek(mark)
	default:
		return nil, Corruptf("object %d: expected endobj at offset %d, got %q", num, tok.Pos, tok.Value)
	}

	return &IndirectObject{
		Ref:    IndirectRef{Number: num, Generation: gen},
		Object: obj,
	}, nil
}

// parseStream reads the stream body after the "stream" keyword. /Length is
// trusted when "endstream" follows it; otherwise the body extends to the
// next "endstream".
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	p.lexer.SkipStreamEOL()
	data := p.lexer.Data()
	start := p.lexer.Pos()

	if length, ok := p.streamLength(dict); ok && length >= 0 && start+length <= len(data) {
		end := start + length
		if hasEndstream(data, end) {
			p.lexer.Seek(end)
			if err := p.expectKeyword("endstream"); err != nil {
				return nil, err
			}
			return &Stream{Dict: dict, Data: data[start:end]}, nil
		}
	}

	idx := bytes.Index(data[start:], []byte("endstream"))
	if idx < 0 {
		return nil, Truncatedf("stream at offset %d has no endstream", start)
	}
	end := start + idx
	p.lexer.Seek(end + len("endstream"))
	// the EOL before endstream is not part of the data
	if end > start && data[end-1] == '\n' {
		end--
	}
	if end > start && data[end-1] == '\r' {
		end--
	}
	return &Stream{Dict: dict, Data: data[start:end]}, nil
}

func (p *Parser) streamLength(dict Dict) (int, bool) {
	switch v := dict.Get("Length").(type) {
	case Int:
		return int(v), true
	case IndirectRef:
		if p.resolver == nil {
			return 0, false
		}
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, false
		}
		n, ok := resolved.(Int)
		return int(n), ok
	}
	return 0, false
}

func hasEndstream(data []byte, pos int) bool {
	for pos < len(data) && isWhitespace(data[pos]) {
		pos++
	}
	return bytes.HasPrefix(data[pos:], []byte("endstream"))
}

func (p *Parser) expectInt(what string) (int, error) {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return 0, err
	}
	if tok.Type == TokenEOF {
		return 0, Truncatedf("expected %s at offset %d", what, tok.Pos)
	}
	if tok.Type != TokenInteger {
		return 0, Corruptf("expected %s at offset %d, got %q", what, tok.Pos, tok.Value)
	}
	n, err := strconv.Atoi(string(tok.Value))
	if err != nil {
		return 0, Corruptf("invalid %s %q", what, tok.Value)
	}
	return n, nil
}

func (p *Parser) expectKeyword(kw string) error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	if tok.Type == TokenEOF {
		return Truncatedf("expected %q at offset %d", kw, tok.Pos)
	}
	if tok.Type != TokenKeyword || string(tok.Value) != kw {
		return Corruptf("expected %q at offset %d, got %q", kw, tok.Pos, tok.Value)
	}
	return nil
}

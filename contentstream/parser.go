package contentstream

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tsawler/pdfstruct/core"
)

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the operator.
type Operation struct {
	Operator string        // The operator (e.g., "Tj", "Tm", "q")
	Operands []core.Object // The operands
}

// Parser parses PDF content streams into a sequence of operations.
// Each Parser owns its operand stack, so parsers may run concurrently.
type Parser struct {
	data   []byte
	parser *core.Parser
	stack  []core.Object
	ops    []Operation
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data, parser: core.NewParser(data)}
}

// Parse parses the content stream and returns all operations in order.
// Inline images are skipped. Operands left without an operator at the end
// of the stream are discarded.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		obj, kw, err := p.parser.ParseObjectOrKeyword()
		if err != nil {
			return nil, contentError(err)
		}
		switch {
		case obj != nil:
			p.stack = append(p.stack, obj)
		case kw == "":
			return p.ops, nil
		case kw == "BI":
			if err := p.skipInlineImage(); err != nil {
				return nil, err
			}
			p.stack = p.stack[:0]
		default:
			p.ops = append(p.ops, Operation{Operator: string(kw), Operands: p.stack})
			p.stack = nil
		}
	}
}

// Parse is a convenience wrapper around NewParser(data).Parse()
func Parse(data []byte) ([]Operation, error) {
	return NewParser(data).Parse()
}

// contentError reclassifies running out of data: a decoded content stream is
// complete, so an unterminated token is malformed rather than truncated.
func contentError(err error) error {
	if errors.Is(err, core.ErrIOTruncated) {
		return fmt.Errorf("%w: content stream: %v", core.ErrCorruptDocument, err)
	}
	return fmt.Errorf("content stream: %w", err)
}

// skipInlineImage consumes the image dictionary up to ID and the binary
// data up to the EI that ends it
func (p *Parser) skipInlineImage() error {
	for {
		obj, kw, err := p.parser.ParseObjectOrKeyword()
		if err != nil {
			return contentError(err)
		}
		if obj == nil && kw == "" {
			return core.Corruptf("inline image without ID")
		}
		if kw == "ID" {
			break
		}
	}

	// a single whitespace byte separates ID from the data
	start := p.parser.Pos() + 1
	for i := start; i+1 < len(p.data); i++ {
		if p.data[i] != 'E' || p.data[i+1] != 'I' {
			continue
		}
		before := i == start || isWhitespace(p.data[i-1])
		after := i+2 >= len(p.data) || isWhitespace(p.data[i+2])
		if before && after {
			p.parser.Seek(i + 2)
			return nil
		}
	}
	return core.Corruptf("inline image data without EI")
}

func isWhitespace(b byte) bool {
	return bytes.IndexByte([]byte(" \t\r\n\f\x00"), b) >= 0
}

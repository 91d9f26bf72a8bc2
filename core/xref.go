package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// EntryType distinguishes free, uncompressed and compressed xref entries
type EntryType int

const (
	EntryFree EntryType = iota
	EntryInUse
	EntryCompressed
)

// XRefEntry represents a single cross-reference entry. For EntryInUse,
// Offset is the byte offset of "num gen obj". For EntryCompressed, StreamNum
// is the object stream holding the object and Index its position there.
type XRefEntry struct {
	Type       EntryType
	Offset     int64
	Generation int
	StreamNum  int
	Index      int
}

// XRefTable maps object numbers to entries, together with the trailer
type XRefTable struct {
	Entries map[int]XRefEntry
	Trailer Dict
}

// NewXRefTable creates a new empty table
func NewXRefTable() *XRefTable {
	return &XRefTable{Entries: map[int]XRefEntry{}, Trailer: Dict{}}
}

// Get retrieves an entry by object number
func (x *XRefTable) Get(objNum int) (XRefEntry, bool) {
	e, ok := x.Entries[objNum]
	return e, ok
}

// Size returns the number of entries
func (x *XRefTable) Size() int { return len(x.Entries) }

// XRefParser reads cross-reference sections from a complete document
type XRefParser struct {
	data []byte
}

// NewXRefParser creates a parser over the whole document
func NewXRefParser(data []byte) *XRefParser {
	return &XRefParser{data: data}
}

// FindXRef locates the offset named by the last startxref keyword. The
// keyword must appear within the final 1024 bytes and the offset must be
// followed by %%EOF.
func (x *XRefParser) FindXRef() (int64, error) {
	tail := x.data[max(len(x.data)-1024, 0):]
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		if !bytes.Contains(tail, []byte("%%EOF")) {
			return 0, Truncatedf("no startxref or %%%%EOF marker at end of file")
		}
		return 0, Corruptf("startxref keyword not found")
	}

	rest := tail[idx+len("startxref"):]
	lex := NewLexer(rest)
	tok, err := lex.NextToken()
	if err != nil {
		return 0, err
	}
	if tok.Type == TokenEOF {
		return 0, Truncatedf("startxref offset missing")
	}
	if tok.Type != TokenInteger {
		return 0, Corruptf("startxref offset %q is not an integer", tok.Value)
	}
	// the offset digits may themselves be cut short
	if !bytes.Contains(rest[lex.Pos():], []byte("%%EOF")) {
		return 0, Truncatedf("no %%%%EOF marker after startxref offset %s", tok.Value)
	}
	offset, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil || offset < 0 {
		return 0, Corruptf("invalid startxref offset %q", tok.Value)
	}
	if offset >= int64(len(x.data)) {
		return 0, Truncatedf("startxref offset %d beyond end of file (%d bytes)", offset, len(x.data))
	}
	return offset, nil
}

// ParseXRef parses the section at offset, either a classic table with its
// trailer or a cross-reference stream.
func (x *XRefParser) ParseXRef(offset int64) (*XRefTable, error) {
	if offset < 0 || offset >= int64(len(x.data)) {
		return nil, Truncatedf("xref offset %d beyond end of file", offset)
	}
	lex := NewLexer(x.data)
	lex.Seek(int(offset))
	tok, err := lex.NextToken()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.Type == TokenKeyword && string(tok.Value) == "xref":
		return x.parseTable(lex)
	case tok.Type == TokenInteger:
		return x.parseStream(int(offset))
	case tok.Type == TokenEOF:
		return nil, Truncatedf("xref section at offset %d is empty", offset)
	}
	return nil, Corruptf("no cross-reference section at offset %d (found %q)", offset, tok.Value)
}

// parseTable reads classic subsections up to and including the trailer
func (x *XRefParser) parseTable(lex *Lexer) (*XRefTable, error) {
	table := NewXRefTable()
	for {
		tok, err := lex.NextToken()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.Type == TokenEOF:
			return nil, Truncatedf("xref table ends before trailer")
		case tok.Type == TokenKeyword && string(tok.Value) == "trailer":
			parser := &Parser{lexer: lex}
			obj, err := parser.ParseObject()
			if err != nil {
				return nil, fmt.Errorf("failed to parse trailer: %w", err)
			}
			dict, ok := obj.(Dict)
			if !ok {
				return nil, Corruptf("trailer is %s, not a dictionary", obj.Type())
			}
			table.Trailer = dict
			return table, nil
		case tok.Type != TokenInteger:
			return nil, Corruptf("unexpected %q in xref table at offset %d", tok.Value, tok.Pos)
		}

		start, _ := strconv.Atoi(string(tok.Value))
		count, err := x.tableInt(lex, "subsection count")
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			entry, err := x.parseEntry(lex)
			if err != nil {
				return nil, fmt.Errorf("xref entry %d: %w", start+i, err)
			}
			if _, seen := table.Entries[start+i]; !seen {
				table.Entries[start+i] = entry
			}
		}
	}
}

// parseEntry reads "offset generation n|f"
func (x *XRefParser) parseEntry(lex *Lexer) (XRefEntry, error) {
	offset, err := x.tableInt(lex, "offset")
	if err != nil {
		return XRefEntry{}, err
	}
	gen, err := x.tableInt(lex, "generation")
	if err != nil {
		return XRefEntry{}, err
	}
	tok, err := lex.NextToken()
	if err != nil {
		return XRefEntry{}, err
	}
	if tok.Type == TokenEOF {
		return XRefEntry{}, Truncatedf("xref entry ends early")
	}
	switch string(tok.Value) {
	case "n":
		return XRefEntry{Type: EntryInUse, Offset: int64(offset), Generation: gen}, nil
	case "f":
		return XRefEntry{Type: EntryFree, Generation: gen}, nil
	}
	return XRefEntry{}, Corruptf("invalid xref entry type %q", tok.Value)
}

func (x *XRefParser) tableInt(lex *Lexer, what string) (int, error) {
	tok, err := lex.NextToken()
	if err != nil {
		return 0, err
	}
	if tok.Type == TokenEOF {
		return 0, Truncatedf("xref table ends before %s", what)
	}
	if tok.Type != TokenInteger {
		return 0, Corruptf("expected %s in xref table, got %q", what, tok.Value)
	}
	n, err := strconv.Atoi(string(tok.Value))
	if err != nil || n < 0 {
		return 0, Corruptf("invalid %s %q", what, tok.Value)
	}
	return n, nil
}

// parseStream reads a /Type /XRef stream object at offset
func (x *XRefParser) parseStream(offset int) (*XRefTable, error) {
	parser := NewParser(x.data)
	parser.Seek(offset)
	obj, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref stream: %w", err)
	}
	stream, ok := obj.Object.(*Stream)
	if !ok {
		return nil, Corruptf("object at xref offset %d is not a stream", offset)
	}
	if t, _ := stream.Dict.GetName("Type"); t != "XRef" {
		return nil, Corruptf("stream at xref offset %d has type %q, want XRef", offset, t)
	}
	return ParseXRefStream(stream)
}

// ParseXRefStream decodes a cross-reference stream. /W gives the byte width
// of the type, field 2 and field 3 columns; /Index lists (start, count)
// pairs and defaults to [0 Size].
func ParseXRefStream(stream *Stream) (*XRefTable, error) {
	wArr, ok := stream.Dict.GetArray("W")
	if !ok || len(wArr) != 3 {
		return nil, Corruptf("xref stream /W must have three entries")
	}
	var w [3]int
	for i := range w {
		v, ok := wArr.GetNumber(i)
		if !ok || v < 0 || v > 8 {
			return nil, Corruptf("invalid xref stream /W entry %d", i)
		}
		w[i] = int(v)
	}

	var index []int
	if idx, ok := stream.Dict.GetArray("Index"); ok {
		if len(idx)%2 != 0 {
			return nil, Corruptf("xref stream /Index has odd length")
		}
		for i := range idx {
			v, ok := idx.GetNumber(i)
			if !ok || v < 0 {
				return nil, Corruptf("invalid xref stream /Index entry %d", i)
			}
			index = append(index, int(v))
		}
	} else {
		size, ok := stream.Dict.GetInt("Size")
		if !ok {
			return nil, Corruptf("xref stream missing /Size")
		}
		index = []int{0, int(size)}
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode xref stream: %w", err)
	}

	rowLen := w[0] + w[1] + w[2]
	if rowLen == 0 {
		return nil, Corruptf("xref stream /W is all zero")
	}
	table := NewXRefTable()
	pos := 0
	for i := 0; i < len(index); i += 2 {
		start, count := index[i], index[i+1]
		for j := 0; j < count; j++ {
			if pos+rowLen > len(data) {
				return nil, Truncatedf("xref stream data ends at entry %d", start+j)
			}
			row := data[pos : pos+rowLen]
			pos += rowLen

			typ := int64(1)
			if w[0] > 0 {
				typ = readBigEndian(row[:w[0]])
			}
			f2 := readBigEndian(row[w[0] : w[0]+w[1]])
			f3 := readBigEndian(row[w[0]+w[1]:])

			var entry XRefEntry
			switch typ {
			case 0:
				entry = XRefEntry{Type: EntryFree, Generation: int(f3)}
			case 1:
				entry = XRefEntry{Type: EntryInUse, Offset: f2, Generation: int(f3)}
			case 2:
				entry = XRefEntry{Type: EntryCompressed, StreamNum: int(f2), Index: int(f3)}
			default:
				// unknown types are reserved and read as null references
				continue
			}
			table.Entries[start+j] = entry
		}
	}

	table.Trailer = Dict{}
	for k, v := range stream.Dict {
		switch k {
		case "Length", "Filter", "DecodeParms", "W", "Index", "Type":
			continue
		}
		table.Trailer[k] = v
	}
	return table, nil
}

func readBigEndian(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

// ParseAll reads the section named by startxref and every older section
// reachable through /Prev and /XRefStm, merging them so that newer entries
// win. A /Prev chain that loops is reported as corrupt.
func (x *XRefParser) ParseAll() (*XRefTable, error) {
	offset, err := x.FindXRef()
	if err != nil {
		return nil, err
	}

	merged := NewXRefTable()
	visited := map[int64]bool{}
	for {
		if visited[offset] {
			return nil, Corruptf("xref /Prev chain loops at offset %d", offset)
		}
		visited[offset] = true

		table, err := x.ParseXRef(offset)
		if err != nil {
			return nil, err
		}

		if stmOff, ok := table.Trailer.GetNumber("XRefStm"); ok && !visited[int64(stmOff)] {
			visited[int64(stmOff)] = true
			stm, err := x.ParseXRef(int64(stmOff))
			if err != nil {
				return nil, fmt.Errorf("hybrid xref stream: %w", err)
			}
			for num, e := range stm.Entries {
				if cur, ok := table.Entries[num]; !ok || cur.Type == EntryFree {
					table.Entries[num] = e
				}
			}
		}

		for num, e := range table.Entries {
			if _, ok := merged.Entries[num]; !ok {
				merged.Entries[num] = e
			}
		}
		for k, v := range table.Trailer {
			if k == "Prev" || k == "XRefStm" {
				continue
			}
			if !merged.Trailer.Has(k) {
				merged.Trailer[k] = v
			}
		}

		prev, ok := table.Trailer.GetNumber("Prev")
		if !ok {
			return merged, nil
		}
		offset = int64(prev)
	}
}

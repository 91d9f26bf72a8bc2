// Package pdftest builds small, valid PDF documents in memory. Tests use it
// so cross-reference offsets never have to be counted by hand.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
)

// Builder assembles numbered objects into a document. Object numbers start
// at 1 and follow the order of Add, AddStream and Reserve calls.
type Builder struct {
	objects [][]byte
	root    int
	trailer string
}

// New returns an empty builder
func New() *Builder {
	return &Builder{}
}

// Add appends an object whose body is the given PDF syntax
func (b *Builder) Add(body string) int {
	b.objects = append(b.objects, []byte(body))
	return len(b.objects)
}

// Reserve allocates an object number to be filled later with Set
func (b *Builder) Reserve() int {
	return b.Add("null")
}

// Set replaces the body of an object
func (b *Builder) Set(num int, body string) {
	b.objects[num-1] = []byte(body)
}

// AddStream appends a stream object. dict holds extra dictionary entries;
// /Length is added automatically.
func (b *Builder) AddStream(dict string, data []byte) int {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<< %s /Length %d >>\nstream\n", dict, len(data))
	buf.Write(data)
	buf.WriteString("\nendstream")
	b.objects = append(b.objects, buf.Bytes())
	return len(b.objects)
}

// AddFlateStream appends a FlateDecode-compressed stream
func (b *Builder) AddFlateStream(dict string, data []byte) int {
	return b.AddStream(strings.TrimSpace(dict+" /Filter /FlateDecode"), Deflate(data))
}

// SetRoot names the catalog object
func (b *Builder) SetRoot(num int) {
	b.root = num
}

// SetTrailer adds extra entries to the trailer dictionary
func (b *Builder) SetTrailer(entries string) {
	b.trailer = entries
}

// Bytes renders the document with a classic xref table
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	offsets := b.writeObjects(&buf)

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(b.objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R %s>>\nstartxref\n%d\n%%%%EOF\n",
		len(b.objects)+1, b.root, b.trailer, xref)
	return buf.Bytes()
}

// XRefStreamBytes renders the document with a cross-reference stream
// instead of a table.
func (b *Builder) XRefStreamBytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := b.writeObjects(&buf)

	xrefNum := len(b.objects) + 1
	xrefOff := buf.Len()
	var rows bytes.Buffer
	rows.Write([]byte{0, 0, 0, 0, 0, 0xff, 0xff})
	for _, off := range append(offsets, xrefOff) {
		rows.Write(row(1, off, 0))
	}
	writeXRefStream(&buf, xrefNum, b.root, rows.Bytes(), b.trailer)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOff)
	return buf.Bytes()
}

// CompressedBytes stores every non-stream object inside one object stream
// and indexes the document with a cross-reference stream.
func (b *Builder) CompressedBytes() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	objStmNum := len(b.objects) + 1
	xrefNum := len(b.objects) + 2

	var header, body bytes.Buffer
	type loc struct{ stream, index, offset int }
	locs := make([]loc, len(b.objects))
	packed := 0
	for i, obj := range b.objects {
		if bytes.Contains(obj, []byte("stream\n")) {
			continue
		}
		fmt.Fprintf(&header, "%d %d ", i+1, body.Len())
		body.Write(obj)
		body.WriteByte('\n')
		locs[i] = loc{stream: objStmNum, index: packed}
		packed++
	}

	for i, obj := range b.objects {
		if locs[i].stream != 0 {
			continue
		}
		locs[i].offset = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	objStmOff := buf.Len()
	content := append(header.Bytes(), body.Bytes()...)
	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /ObjStm /N %d /First %d /Length %d >>\nstream\n",
		objStmNum, packed, header.Len(), len(content))
	buf.Write(content)
	buf.WriteString("\nendstream\nendobj\n")

	xrefOff := buf.Len()
	var rows bytes.Buffer
	rows.Write([]byte{0, 0, 0, 0, 0, 0xff, 0xff})
	for _, l := range locs {
		if l.stream != 0 {
			rows.Write(row(2, l.stream, l.index))
		} else {
			rows.Write(row(1, l.offset, 0))
		}
	}
	rows.Write(row(1, objStmOff, 0))
	rows.Write(row(1, xrefOff, 0))
	writeXRefStream(&buf, xrefNum, b.root, rows.Bytes(), b.trailer)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOff)
	return buf.Bytes()
}

func (b *Builder) writeObjects(buf *bytes.Buffer) []int {
	offsets := make([]int, len(b.objects))
	for i, obj := range b.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(buf, "%d 0 obj\n", i+1)
		buf.Write(obj)
		buf.WriteString("\nendobj\n")
	}
	return offsets
}

func writeXRefStream(buf *bytes.Buffer, num, root int, rows []byte, extra string) {
	data := Deflate(rows)
	fmt.Fprintf(buf, "%d 0 obj\n<< /Type /XRef /Size %d /W [1 4 2] /Root %d 0 R /Filter /FlateDecode /Length %d %s>>\nstream\n",
		num, num+1, root, len(data), extra)
	buf.Write(data)
	buf.WriteString("\nendstream\nendobj\n")
}

// row encodes one /W [1 4 2] cross-reference stream row
func row(typ, f2, f3 int) []byte {
	return []byte{
		byte(typ),
		byte(f2 >> 24), byte(f2 >> 16), byte(f2 >> 8), byte(f2),
		byte(f3 >> 8), byte(f3),
	}
}

// Deflate compresses data with zlib
func Deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// Helvetica is a font dictionary for the standard Helvetica font with
// WinAnsiEncoding.
const Helvetica = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

// Document builds a document with one page per content stream. Every page
// is US Letter and maps /F1 to Helvetica.
func Document(contents ...string) *Builder {
	b := New()
	catalog := b.Reserve()
	pages := b.Reserve()
	font := b.Add(Helvetica)

	kids := make([]string, 0, len(contents))
	for _, content := range contents {
		stream := b.AddStream("", []byte(content))
		page := b.Add(fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			pages, font, stream))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}

	b.Set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pages))
	b.Set(pages, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(contents)))
	b.SetRoot(catalog)
	return b
}

// TextLine returns content stream operators showing s at (x, y) in /F1
func TextLine(x, y, size float64, s string) string {
	return fmt.Sprintf("BT /F1 %g Tf %g %g Td (%s) Tj ET\n", size, x, y, s)
}

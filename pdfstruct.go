// Package pdfstruct extracts structure from PDF documents: spans of
// positioned text, classified blocks (headings, paragraphs, list items and
// table regions) and tables, rendered as text, Markdown, CSV or HTML.
//
// Basic usage:
//
//	out, err := pdfstruct.PDFToMarkdown(data)
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	out, err := pdfstruct.FromBytes(data).
//	    Pages(0, 2).
//	    WithConfig(cfg).
//	    Markdown()
//
// Every call parses a fresh document; nothing is shared between calls. For
// lower-level access use the reader, layout, tables and render packages.
package pdfstruct

import (
	"github.com/tsawler/pdfstruct/core"
)

// Error classes returned by every operation. Use errors.Is to classify.
var (
	ErrCorruptDocument     = core.ErrCorruptDocument
	ErrUnsupportedFeature  = core.ErrUnsupportedFeature
	ErrIOTruncated         = core.ErrIOTruncated
	ErrPageIndexOutOfRange = core.ErrPageIndexOutOfRange
)

// PDFToText renders every page as plain text
func PDFToText(data []byte) (string, error) {
	return FromBytes(data).Text()
}

// PDFToMarkdown renders every page as Markdown
func PDFToMarkdown(data []byte) (string, error) {
	return FromBytes(data).Markdown()
}

// PDFToCSV builds one table per page from all of its spans and writes them
// as CSV blocks
func PDFToCSV(data []byte) (string, error) {
	return FromBytes(data).CSV()
}

// PDFToHTML renders every page as an HTML fragment
func PDFToHTML(data []byte) (string, error) {
	return FromBytes(data).HTML()
}

// PageCount returns the number of pages in the document
func PageCount(data []byte) (int, error) {
	return FromBytes(data).PageCount()
}

// ExtractPage renders a single 0-based page in the given format
func ExtractPage(data []byte, page int, f Format) (string, error) {
	return FromBytes(data).Pages(page).Render(f)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil.
//
// Example:
//
//	count := pdfstruct.Must(pdfstruct.PageCount(data))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

package pdfstruct

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/pdfstruct/internal/pdftest"
	"github.com/tsawler/pdfstruct/model"
)

func twoPages() []byte {
	return pdftest.Document(
		pdftest.TextLine(72, 700, 12, "one"),
		pdftest.TextLine(72, 700, 12, "two"),
	).Bytes()
}

// TestPDFToText tests a one-line page
func TestPDFToText(t *testing.T) {
	data := pdftest.Document(pdftest.TextLine(72, 700, 12, "Hello World")).Bytes()
	got, err := PDFToText(data)
	if err != nil {
		t.Fatalf("PDFToText failed: %v", err)
	}
	if got != "Hello World\n" {
		t.Errorf("expected %q, got %q", "Hello World\n", got)
	}
}

// TestPDFToMarkdown tests a title over a body line
func TestPDFToMarkdown(t *testing.T) {
	data := pdftest.Document(
		pdftest.TextLine(72, 700, 24, "Title") +
			pdftest.TextLine(72, 670, 12, "Body text."),
	).Bytes()
	got, err := PDFToMarkdown(data)
	if err != nil {
		t.Fatalf("PDFToMarkdown failed: %v", err)
	}
	if got != "# Title\n\nBody text.\n" {
		t.Errorf("expected %q, got %q", "# Title\n\nBody text.\n", got)
	}
}

// TestPDFToCSV tests tables built from page spans
func TestPDFToCSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"grid",
			pdftest.TextLine(72, 700, 10, "A") + pdftest.TextLine(172, 700, 10, "B") +
				pdftest.TextLine(72, 680, 10, "C") + pdftest.TextLine(172, 680, 10, "D"),
			"A,B\nC,D\n",
		},
		{
			"quoted",
			pdftest.TextLine(72, 700, 10, "Total") + pdftest.TextLine(172, 700, 10, "1,000"),
			"Total,\"1,000\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PDFToCSV(pdftest.Document(tt.content).Bytes())
			if err != nil {
				t.Fatalf("PDFToCSV failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestPDFToHTML tests the HTML fragment of a one-line page
func TestPDFToHTML(t *testing.T) {
	data := pdftest.Document(pdftest.TextLine(72, 700, 12, "a < b")).Bytes()
	got, err := PDFToHTML(data)
	if err != nil {
		t.Fatalf("PDFToHTML failed: %v", err)
	}
	if got != "<p>a &lt; b</p>\n" {
		t.Errorf("unexpected output %q", got)
	}
}

// TestTruncatedInput tests that no output is produced for a cut document
func TestTruncatedInput(t *testing.T) {
	data := twoPages()
	i := bytes.LastIndex(data, []byte("trailer"))
	if i < 0 {
		t.Fatal("no trailer in test document")
	}
	data = data[:i+len("trailer\n<<")]

	for name, fn := range map[string]func([]byte) (string, error){
		"text":     PDFToText,
		"markdown": PDFToMarkdown,
		"csv":      PDFToCSV,
		"html":     PDFToHTML,
	} {
		got, err := fn(data)
		if !errors.Is(err, ErrIOTruncated) {
			t.Errorf("%s: expected ErrIOTruncated, got %v", name, err)
		}
		if got != "" {
			t.Errorf("%s: expected no output, got %q", name, got)
		}
	}
}

// TestMultiplePages tests page separation and page selection
func TestMultiplePages(t *testing.T) {
	data := twoPages()

	tests := []struct {
		name string
		ext  *Extractor
		want string
	}{
		{"all", FromBytes(data), "one\n\ntwo\n"},
		{"second", FromBytes(data).Pages(1), "two\n"},
		{"reordered", FromBytes(data).Pages(1, 0, 1), "one\n\ntwo\n"},
		{"range", FromBytes(data).PageRange(0, 1), "one\n\ntwo\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ext.Text()
			if err != nil {
				t.Fatalf("Text failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	csv, err := PDFToCSV(data)
	if err != nil {
		t.Fatalf("PDFToCSV failed: %v", err)
	}
	if csv != "one\n\ntwo\n" {
		t.Errorf("expected CSV blocks separated by an empty line, got %q", csv)
	}
}

// TestEmptyPageSkipped tests that a page without text adds no separator
func TestEmptyPageSkipped(t *testing.T) {
	data := pdftest.Document("", pdftest.TextLine(72, 700, 12, "only")).Bytes()
	got, err := PDFToText(data)
	if err != nil {
		t.Fatalf("PDFToText failed: %v", err)
	}
	if got != "only\n" {
		t.Errorf("expected %q, got %q", "only\n", got)
	}
}

// TestExtractPage tests single page rendering and index validation
func TestExtractPage(t *testing.T) {
	data := twoPages()

	got, err := ExtractPage(data, 1, FormatMarkdown)
	if err != nil {
		t.Fatalf("ExtractPage failed: %v", err)
	}
	if got != "two\n" {
		t.Errorf("expected %q, got %q", "two\n", got)
	}

	for _, page := range []int{-1, 2, 10} {
		if _, err := ExtractPage(data, page, FormatText); !errors.Is(err, ErrPageIndexOutOfRange) {
			t.Errorf("page %d: expected ErrPageIndexOutOfRange, got %v", page, err)
		}
	}

	if _, err := ExtractPage(data, 0, Format("pdf")); err == nil {
		t.Error("expected error for unknown format")
	}
}

// TestPageCount tests page counting through the root helpers
func TestPageCount(t *testing.T) {
	if n := Must(PageCount(twoPages())); n != 2 {
		t.Errorf("expected 2 pages, got %d", n)
	}
	if _, err := PageCount([]byte("%PDF-1.7\n")); err == nil {
		t.Error("expected error for a document without xref")
	}
}

// TestPageRangeBounds tests ranges outside the document or reversed
func TestPageRangeBounds(t *testing.T) {
	data := twoPages()
	tests := []struct {
		name       string
		start, end int
	}{
		{"past end", 0, 2},
		{"huge end", 1, math.MaxInt},
		{"negative start", -1, 1},
		{"reversed", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromBytes(data).PageRange(tt.start, tt.end).Text()
			if !errors.Is(err, ErrPageIndexOutOfRange) {
				t.Errorf("expected ErrPageIndexOutOfRange, got %v", err)
			}
			if got != "" {
				t.Errorf("expected no output, got %q", got)
			}
		})
	}

	if got := Must(FromBytes(data).Pages(1).PageRange(0, 0).Text()); got != "one\n\ntwo\n" {
		t.Errorf("expected pages and ranges to combine, got %q", got)
	}
}

// TestExtractorImmutable tests that chain methods leave the receiver alone
func TestExtractorImmutable(t *testing.T) {
	base := FromBytes(twoPages())
	first := base.Pages(0)
	_ = first.Pages(1)

	_ = base.PageRange(0, 1)
	if len(base.pages) != 0 || len(base.ranges) != 0 {
		t.Errorf("expected base selection to stay empty, got %v", base.pages)
	}
	if len(first.pages) != 1 {
		t.Errorf("expected one selected page, got %v", first.pages)
	}

	cfg := DefaultConfig()
	cfg.Layout.HeadingSizeRatio = 3
	_ = base.WithConfig(cfg)
	if base.config.Layout.HeadingSizeRatio != DefaultConfig().Layout.HeadingSizeRatio {
		t.Error("expected WithConfig to leave the receiver unchanged")
	}
}

// TestWithConfig tests that thresholds reach the classifier
func TestWithConfig(t *testing.T) {
	data := pdftest.Document(
		pdftest.TextLine(72, 700, 24, "Title") +
			pdftest.TextLine(72, 670, 12, "Body text."),
	).Bytes()

	cfg := Config{}
	cfg.Layout.HeadingSizeRatio = 3
	got, err := FromBytes(data).WithConfig(cfg).Markdown()
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	if got != "Title\nBody text.\n" {
		t.Errorf("expected one paragraph, got %q", got)
	}
}

// TestElements tests the classified elements of each page
func TestElements(t *testing.T) {
	pagesOut, err := FromBytes(twoPages()).Elements()
	if err != nil {
		t.Fatalf("Elements failed: %v", err)
	}
	if len(pagesOut) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pagesOut))
	}
	for i, want := range []string{"one", "two"} {
		els := pagesOut[i]
		if len(els) != 1 || els[0].Kind != model.KindParagraph || els[0].Text() != want {
			t.Errorf("page %d: unexpected elements %+v", i, els)
		}
	}
}

// TestOpen tests reading a document from disk
func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, twoPages(), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Must(Open(path).Pages(0).Text()); got != "one\n" {
		t.Errorf("expected %q, got %q", "one\n", got)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")).Text(); err == nil {
		t.Error("expected error for missing file")
	}
}

package pdfstruct

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/tsawler/pdfstruct/layout"
	"github.com/tsawler/pdfstruct/model"
	"github.com/tsawler/pdfstruct/reader"
	"github.com/tsawler/pdfstruct/render"
	"github.com/tsawler/pdfstruct/tables"
)

// pageRange is an inclusive span of 0-based page indices
type pageRange struct {
	start, end int
}

// Extractor provides a fluent interface for extracting content from a PDF.
// Each configuration method returns a new Extractor, so a configured
// Extractor can be shared and reused. Every terminal operation parses the
// document afresh.
type Extractor struct {
	data   []byte
	pages  []int
	ranges []pageRange
	config Config
	logger *slog.Logger

	// Accumulated error (fail-fast)
	err error
}

// FromBytes returns an Extractor over an in-memory document
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:   data,
		config: DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Open reads a file and returns an Extractor over its contents. A read
// failure is reported by the first terminal operation.
//
// Example:
//
//	out, err := pdfstruct.Open("report.pdf").Pages(0).Text()
func Open(filename string) *Extractor {
	data, err := os.ReadFile(filename)
	e := FromBytes(data)
	if err != nil {
		e.err = fmt.Errorf("failed to open PDF: %w", err)
	}
	return e
}

// clone creates a copy with its own page selection
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		data:   e.data,
		pages:  append([]int(nil), e.pages...),
		ranges: append([]pageRange(nil), e.ranges...),
		config: e.config,
		logger: e.logger,
		err:    e.err,
	}
}

// Pages restricts extraction to the given 0-based page indices. Multiple
// calls are cumulative; pages are emitted in document order.
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.pages = append(newExt.pages, pages...)
	return newExt
}

// PageRange restricts extraction to pages start through end inclusive.
// The range is checked against the page count when the document is read.
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if end < start && newExt.err == nil {
		newExt.err = fmt.Errorf("page range %d-%d: %w", start, end, ErrPageIndexOutOfRange)
	}
	newExt.ranges = append(newExt.ranges, pageRange{start: start, end: end})
	return newExt
}

// WithConfig replaces the thresholds. Zero fields take their defaults.
func (e *Extractor) WithConfig(cfg Config) *Extractor {
	newExt := e.clone()
	newExt.config = cfg.withDefaults()
	return newExt
}

// WithLogger sets the logger for debug records. A nil logger is ignored.
func (e *Extractor) WithLogger(l *slog.Logger) *Extractor {
	newExt := e.clone()
	if l != nil {
		newExt.logger = l
	}
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Text renders the selected pages as plain text
func (e *Extractor) Text() (string, error) {
	return e.Render(FormatText)
}

// Markdown renders the selected pages as Markdown
func (e *Extractor) Markdown() (string, error) {
	return e.Render(FormatMarkdown)
}

// CSV writes one table per selected page, built from all of its spans
func (e *Extractor) CSV() (string, error) {
	return e.Render(FormatCSV)
}

// HTML renders the selected pages as an HTML fragment
func (e *Extractor) HTML() (string, error) {
	return e.Render(FormatHTML)
}

// PageCount returns the number of pages in the document
func (e *Extractor) PageCount() (int, error) {
	doc, err := e.parse()
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

// Elements returns the classified elements of each selected page
func (e *Extractor) Elements() ([][]model.Element, error) {
	var out [][]model.Element
	err := e.eachPage(func(index int, spans []model.Span) {
		out = append(out, e.classify(index, spans))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Render renders the selected pages in format f. Non-empty page outputs
// are separated by a blank line.
func (e *Extractor) Render(f Format) (string, error) {
	f, err := ParseFormat(string(f))
	if err != nil {
		return "", err
	}
	renderer := render.New(e.config.Tables)

	var outputs []string
	err = e.eachPage(func(index int, spans []model.Span) {
		var out string
		switch f {
		case FormatCSV:
			out = tables.FromSpans(spans, e.config.Tables).ToCSV()
		case FormatMarkdown:
			out = renderer.Markdown(e.classify(index, spans))
		case FormatHTML:
			out = renderer.HTML(e.classify(index, spans))
		default:
			out = renderer.Text(e.classify(index, spans))
		}
		if out != "" {
			outputs = append(outputs, out)
		}
	})
	if err != nil {
		return "", err
	}
	return strings.Join(outputs, "\n"), nil
}

// ============================================================================
// Internal
// ============================================================================

func (e *Extractor) parse() (*reader.Document, error) {
	if e.err != nil {
		return nil, e.err
	}
	return reader.Parse(e.data, reader.WithLogger(e.logger), reader.WithTextConfig(e.config.Text))
}

// eachPage interprets every selected page in order and hands its spans to
// fn. Nothing is passed to fn unless the document parses.
func (e *Extractor) eachPage(fn func(index int, spans []model.Span)) error {
	doc, err := e.parse()
	if err != nil {
		return err
	}
	indices, err := e.resolvePages(doc.PageCount())
	if err != nil {
		return err
	}

	pageSpans := make([][]model.Span, len(indices))
	for i, index := range indices {
		spans, err := doc.ExtractPageText(index)
		if err != nil {
			return err
		}
		pageSpans[i] = spans
	}
	for i, index := range indices {
		fn(index, pageSpans[i])
	}
	return nil
}

func (e *Extractor) classify(index int, spans []model.Span) []model.Element {
	elements := layout.Classify(spans, e.config.Layout)
	e.logger.Debug("page classified", "page", index, "spans", len(spans), "elements", len(elements))
	return elements
}

// resolvePages returns the selected indices, deduplicated and sorted, or
// every index when none were selected
func (e *Extractor) resolvePages(pageCount int) ([]int, error) {
	if len(e.pages) == 0 && len(e.ranges) == 0 {
		indices := make([]int, pageCount)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	seen := make(map[int]bool)
	var indices []int
	add := func(p int) {
		if !seen[p] {
			seen[p] = true
			indices = append(indices, p)
		}
	}
	for _, p := range e.pages {
		if p < 0 || p >= pageCount {
			return nil, fmt.Errorf("page %d of %d: %w", p, pageCount, ErrPageIndexOutOfRange)
		}
		add(p)
	}
	for _, r := range e.ranges {
		if r.start < 0 || r.end >= pageCount || r.end < r.start {
			return nil, fmt.Errorf("page range %d-%d of %d: %w", r.start, r.end, pageCount, ErrPageIndexOutOfRange)
		}
		for p := r.start; p <= r.end; p++ {
			add(p)
		}
	}
	sort.Ints(indices)
	return indices, nil
}

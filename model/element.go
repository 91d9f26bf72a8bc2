package model

import "strings"

// ElementKind tags a block of text with its structural role
type ElementKind int

const (
	KindParagraph ElementKind = iota
	KindHeading
	KindListItem
	KindTableRegion
)

// String returns the kind name
func (k ElementKind) String() string {
	switch k {
	case KindParagraph:
		return "Paragraph"
	case KindHeading:
		return "Heading"
	case KindListItem:
		return "ListItem"
	case KindTableRegion:
		return "TableRegion"
	}
	return "Unknown"
}

// Line is a group of spans sharing a baseline, ordered left to right
type Line struct {
	Spans    []Span
	Baseline float64
	// FontSize is the dominant size: the size covering the most characters.
	FontSize float64
	// WordGap is the gap ratio passed to JoinSpans; zero means DefaultWordGap
	WordGap float64
}

// Text joins the line's spans with its word gap
func (l Line) Text() string {
	gap := l.WordGap
	if gap <= 0 {
		gap = DefaultWordGap
	}
	return JoinSpans(l.Spans, gap)
}

// BBox returns the union of the span boxes
func (l Line) BBox() Rect {
	var r Rect
	for _, s := range l.Spans {
		r = r.Union(s.BBox)
	}
	return r
}

// Element is a classified block of lines in reading order. Level is set for
// headings only and runs from 1 (largest) to 6.
type Element struct {
	Kind  ElementKind
	Level int
	Lines []Line
}

// Spans returns every span of the element in reading order
func (e Element) Spans() []Span {
	var out []Span
	for _, l := range e.Lines {
		out = append(out, l.Spans...)
	}
	return out
}

// LineTexts returns the text of each line
func (e Element) LineTexts() []string {
	out := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if t := l.Text(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Text returns the element's lines joined by a single space
func (e Element) Text() string {
	return strings.Join(e.LineTexts(), " ")
}

// BBox returns the union of the line boxes
func (e Element) BBox() Rect {
	var r Rect
	for _, l := range e.Lines {
		r = r.Union(l.BBox())
	}
	return r
}

package model

import (
	"strings"
	"unicode/utf8"
)

// Span is a maximal run of text sharing one font, size and baseline as it
// was placed on the page.
type Span struct {
	Text     string
	BBox     Rect
	FontID   string
	FontSize float64
	Baseline float64
}

// RuneCount returns the number of characters in the span
func (s Span) RuneCount() int { return utf8.RuneCountInString(s.Text) }

// CharWidth returns the average advance per character, or 0 for an empty
// or zero-width span.
func (s Span) CharWidth() float64 {
	n := s.RuneCount()
	if n == 0 {
		return 0
	}
	return s.BBox.Width() / float64(n)
}

// DefaultWordGap is the horizontal gap, as a fraction of font size, above
// which two adjacent spans on a line read as separate words.
const DefaultWordGap = 0.15

// JoinSpans concatenates spans that are already in reading order. A space
// is inserted where the gap between neighbours exceeds gapRatio × font size
// and neither side already supplies whitespace.
func JoinSpans(spans []Span, gapRatio float64) string {
	var sb strings.Builder
	for i, s := range spans {
		if i > 0 {
			prev := spans[i-1]
			size := max(prev.FontSize, s.FontSize)
			gap := s.BBox.X0 - prev.BBox.X1
			if gap > gapRatio*size && !strings.HasSuffix(sb.String(), " ") && !strings.HasPrefix(s.Text, " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(s.Text)
	}
	return strings.TrimSpace(sb.String())
}

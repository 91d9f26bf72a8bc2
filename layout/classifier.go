package layout

import (
	"github.com/tsawler/pdfstruct/model"
)

// Classifier groups spans into lines and blocks and tags each block with
// its structural role. It holds no state between calls.
type Classifier struct {
	config Config
}

// NewClassifier creates a classifier with the default thresholds
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultConfig()}
}

// NewClassifierWithConfig creates a classifier with custom thresholds. Zero
// fields take their defaults.
func NewClassifierWithConfig(config Config) *Classifier {
	return &Classifier{config: config.WithDefaults()}
}

// Config returns the thresholds in use
func (c *Classifier) Config() Config {
	return c.config
}

// Classify is shorthand for NewClassifierWithConfig(cfg).Classify(spans)
func Classify(spans []model.Span, cfg Config) []model.Element {
	return NewClassifierWithConfig(cfg).Classify(spans)
}

// Classify returns the page's elements top to bottom. Tags are applied in
// precedence order: Heading, ListItem, TableRegion, Paragraph. The result
// depends only on the input spans and their order.
func (c *Classifier) Classify(spans []model.Span) []model.Element {
	if len(spans) == 0 {
		return nil
	}

	lines := GroupLines(spans, c.config.LineTolerance)
	for i := range lines {
		lines[i].WordGap = c.config.WordGapRatio
	}
	medianPitch := median(pitches(lines))
	blocks := c.groupBlocks(lines, medianPitch)
	pageMedian := medianSize(spans)

	headings := make([]bool, len(blocks))
	var headingSizes []float64
	for i, b := range blocks {
		if c.isHeadingCandidate(b, pageMedian, medianPitch) {
			headings[i] = true
			headingSizes = append(headingSizes, b.fontSize)
		}
	}
	levels := headingLevels(headingSizes)

	elements := make([]model.Element, 0, len(blocks))
	for i, b := range blocks {
		el := model.Element{Kind: model.KindParagraph, Lines: b.lines}
		switch {
		case headings[i]:
			el.Kind = model.KindHeading
			el.Level = levels[roundSize(b.fontSize)]
		case IsListMarker(b.lines[0].Text()):
			el.Kind = model.KindListItem
		case c.isTableRegion(b.lines):
			el.Kind = model.KindTableRegion
		}
		elements = append(elements, el)
	}
	return elements
}

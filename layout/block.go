package layout

import (
	"math"

	"github.com/tsawler/pdfstruct/model"
)

// block is a run of consecutive lines classified as one element
type block struct {
	lines []model.Line

	// fontSize is the dominant size over all spans of the block
	fontSize float64

	// gapBefore is the baseline pitch from the previous line (0 for the
	// first block)
	gapBefore float64

	// first is set for the topmost block of the page
	first bool
}

func (b *block) spans() []model.Span {
	var out []model.Span
	for _, l := range b.lines {
		out = append(out, l.Spans...)
	}
	return out
}

// pitches returns the baseline distance between each pair of consecutive
// lines
func pitches(lines []model.Line) []float64 {
	if len(lines) < 2 {
		return nil
	}
	out := make([]float64, 0, len(lines)-1)
	for i := 1; i < len(lines); i++ {
		out = append(out, lines[i-1].Baseline-lines[i].Baseline)
	}
	return out
}

// groupBlocks splits lines into blocks. A line starts a new block when its
// pitch exceeds BlockGapRatio × the median pitch, when its dominant size
// differs from the previous line's by HeadingSizeRatio or more, when it
// begins with a list marker, or when exactly one of it and the previous
// line is columnar.
func (c *Classifier) groupBlocks(lines []model.Line, medianPitch float64) []*block {
	if len(lines) == 0 {
		return nil
	}

	cur := &block{lines: []model.Line{lines[0]}, first: true}
	blocks := []*block{cur}
	for i := 1; i < len(lines); i++ {
		prev, line := lines[i-1], lines[i]
		pitch := prev.Baseline - line.Baseline
		if c.breaksBlock(prev, line, pitch, medianPitch) {
			cur = &block{gapBefore: pitch}
			blocks = append(blocks, cur)
		}
		cur.lines = append(cur.lines, line)
	}

	for _, b := range blocks {
		b.fontSize = dominantSize(b.spans())
	}
	return blocks
}

func (c *Classifier) breaksBlock(prev, line model.Line, pitch, medianPitch float64) bool {
	if medianPitch > 0 && pitch > c.config.BlockGapRatio*medianPitch {
		return true
	}
	if small := math.Min(prev.FontSize, line.FontSize); small > 0 &&
		math.Max(prev.FontSize, line.FontSize) >= c.config.HeadingSizeRatio*small {
		return true
	}
	if IsListMarker(line.Text()) {
		return true
	}
	return c.isColumnar(prev) != c.isColumnar(line)
}

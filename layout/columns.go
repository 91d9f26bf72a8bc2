package layout

import (
	"math"

	"github.com/tsawler/pdfstruct/model"
)

// cellStarts returns the x0 of each cell of a line. A new cell opens where
// the gap after the previous span exceeds CellGapRatio × the line size, so
// a font change inside a sentence does not make a new cell.
func (c *Classifier) cellStarts(l model.Line) []float64 {
	if len(l.Spans) == 0 {
		return nil
	}
	starts := []float64{l.Spans[0].BBox.X0}
	minGap := c.config.CellGapRatio * l.FontSize
	for i := 1; i < len(l.Spans); i++ {
		if l.Spans[i].BBox.X0-l.Spans[i-1].BBox.X1 > minGap {
			starts = append(starts, l.Spans[i].BBox.X0)
		}
	}
	return starts
}

// isColumnar reports whether a line has enough cells to take part in
// column alignment
func (c *Classifier) isColumnar(l model.Line) bool {
	return len(c.cellStarts(l)) >= c.config.MinTableColumns
}

// isTableRegion reports whether at least MinTableLines columnar lines have
// MinTableColumns cell starts that recur in another columnar line within
// ColumnTolerance
func (c *Classifier) isTableRegion(lines []model.Line) bool {
	var rows [][]float64
	for _, l := range lines {
		if starts := c.cellStarts(l); len(starts) >= c.config.MinTableColumns {
			rows = append(rows, starts)
		}
	}
	if len(rows) < c.config.MinTableLines {
		return false
	}

	aligned := 0
	for i, starts := range rows {
		matches := 0
		for _, x := range starts {
			if c.recurs(x, rows, i) {
				matches++
			}
		}
		if matches >= c.config.MinTableColumns {
			aligned++
		}
	}
	return aligned >= c.config.MinTableLines
}

// recurs reports whether a row other than skip has a cell starting within
// ColumnTolerance of x
func (c *Classifier) recurs(x float64, rows [][]float64, skip int) bool {
	for j, starts := range rows {
		if j == skip {
			continue
		}
		for _, other := range starts {
			if math.Abs(other-x) <= c.config.ColumnTolerance {
				return true
			}
		}
	}
	return false
}

package tables

import (
	"sort"
	"strings"

	"github.com/tsawler/pdfstruct/layout"
	"github.com/tsawler/pdfstruct/model"
)

// Table and Cell are the grid types produced by detection
type (
	Table = model.Table
	Cell  = model.Cell
)

// Config holds detector configuration
type Config struct {
	// LineTolerance is the baseline distance allowed within a row, as a
	// fraction of the smaller font size (default: 0.5)
	LineTolerance float64 `yaml:"line_tolerance"`

	// ColumnGapRatio opens a new column where consecutive sorted x0 values
	// are more than this multiple of the median character width apart
	// (default: 1.0)
	ColumnGapRatio float64 `yaml:"column_gap_ratio"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		LineTolerance:  0.5,
		ColumnGapRatio: 1.0,
	}
}

// WithDefaults replaces zero or negative fields with their defaults
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.LineTolerance <= 0 {
		c.LineTolerance = d.LineTolerance
	}
	if c.ColumnGapRatio <= 0 {
		c.ColumnGapRatio = d.ColumnGapRatio
	}
	return c
}

// Detector clusters spans into a table grid
type Detector struct {
	config Config
}

// NewDetector creates a detector with default configuration
func NewDetector() *Detector {
	return &Detector{config: DefaultConfig()}
}

// NewDetectorWithConfig creates a detector with custom configuration. Zero
// fields take their defaults.
func NewDetectorWithConfig(config Config) *Detector {
	return &Detector{config: config.WithDefaults()}
}

// Detect builds a table from spans with the default configuration
func Detect(spans []model.Span) *Table {
	return NewDetector().FromSpans(spans)
}

// FromSpans builds a table from spans with the given configuration
func FromSpans(spans []model.Span, cfg Config) *Table {
	return NewDetectorWithConfig(cfg).FromSpans(spans)
}

// FromSpans assigns every span to a cell. Row and column indices are dense;
// cells without spans are empty and span their row and column bands.
func (d *Detector) FromSpans(spans []model.Span) *Table {
	if len(spans) == 0 {
		return model.NewTable(0, 0)
	}

	rows := layout.GroupLines(spans, d.config.LineTolerance)
	starts := d.columnStarts(spans)
	table := model.NewTable(len(rows), len(starts))

	texts := make([][][]string, len(rows))
	rowBands := make([]model.Rect, len(rows))
	colBands := make([]model.Rect, len(starts))
	for i, row := range rows {
		texts[i] = make([][]string, len(starts))
		for _, s := range row.Spans {
			j := columnOf(starts, s.BBox.X0)
			if t := strings.TrimSpace(s.Text); t != "" {
				texts[i][j] = append(texts[i][j], t)
			}
			cell := &table.Rows[i][j]
			cell.BBox = cell.BBox.Union(s.BBox)
			rowBands[i] = rowBands[i].Union(s.BBox)
			colBands[j] = colBands[j].Union(s.BBox)
		}
	}

	for i := range table.Rows {
		for j := range table.Rows[i] {
			cell := &table.Rows[i][j]
			cell.Text = strings.Join(texts[i][j], " ")
			if cell.BBox == (model.Rect{}) {
				cell.BBox = model.Rect{
					X0: colBands[j].X0, Y0: rowBands[i].Y0,
					X1: colBands[j].X1, Y1: rowBands[i].Y1,
				}
			}
		}
	}
	return table
}

// columnStarts clusters the x0 of every span and returns the smallest x0 of
// each cluster, in increasing order
func (d *Detector) columnStarts(spans []model.Span) []float64 {
	xs := make([]float64, len(spans))
	for i, s := range spans {
		xs[i] = s.BBox.X0
	}
	sort.Float64s(xs)

	gap := d.config.ColumnGapRatio * medianCharWidth(spans)
	starts := []float64{xs[0]}
	for i := 1; i < len(xs); i++ {
		if xs[i]-xs[i-1] > gap {
			starts = append(starts, xs[i])
		}
	}
	return starts
}

// columnOf returns the index of the last column starting at or before x
func columnOf(starts []float64, x float64) int {
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > x })
	return max(i-1, 0)
}

// medianCharWidth returns the median per-character advance of the spans,
// falling back to half the median font size when no span has a width
func medianCharWidth(spans []model.Span) float64 {
	var widths, sizes []float64
	for _, s := range spans {
		if w := s.CharWidth(); w > 0 {
			widths = append(widths, w)
		}
		sizes = append(sizes, s.FontSize)
	}
	if len(widths) > 0 {
		return median(widths)
	}
	return 0.5 * median(sizes)
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

package layout

// Config holds the classification thresholds. Each is a ratio or a
// distance in points; zero fields take their defaults.
type Config struct {
	// LineTolerance is the baseline distance allowed within a line, as a
	// fraction of the smaller font size (default: 0.5)
	LineTolerance float64 `yaml:"line_tolerance"`

	// BlockGapRatio starts a new block when the line pitch exceeds this
	// multiple of the median pitch (default: 1.5)
	BlockGapRatio float64 `yaml:"block_gap_ratio"`

	// HeadingSizeRatio is the multiple of the page median font size a
	// block must reach to be a heading (default: 1.2)
	HeadingSizeRatio float64 `yaml:"heading_size_ratio"`

	// ColumnTolerance is the distance in points within which x0 values
	// count as the same column (default: 2)
	ColumnTolerance float64 `yaml:"column_tolerance"`

	// CellGapRatio is the horizontal gap, as a multiple of the line font
	// size, that separates two cells of a columnar line (default: 1.0)
	CellGapRatio float64 `yaml:"cell_gap_ratio"`

	// MinTableColumns is the number of cells a line needs to take part in
	// column alignment (default: 3)
	MinTableColumns int `yaml:"min_table_columns"`

	// MinTableLines is the number of aligned lines a table region needs
	// (default: 2)
	MinTableLines int `yaml:"min_table_lines"`

	// WordGapRatio is the gap, as a fraction of font size, above which
	// neighbouring spans are joined with a space (default: 0.15)
	WordGapRatio float64 `yaml:"word_gap_ratio"`
}

// DefaultConfig returns the default thresholds
func DefaultConfig() Config {
	return Config{
		LineTolerance:    0.5,
		BlockGapRatio:    1.5,
		HeadingSizeRatio: 1.2,
		ColumnTolerance:  2.0,
		CellGapRatio:     1.0,
		MinTableColumns:  3,
		MinTableLines:    2,
		WordGapRatio:     0.15,
	}
}

// WithDefaults replaces zero or negative fields with their defaults
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.LineTolerance <= 0 {
		c.LineTolerance = d.LineTolerance
	}
	if c.BlockGapRatio <= 0 {
		c.BlockGapRatio = d.BlockGapRatio
	}
	if c.HeadingSizeRatio <= 0 {
		c.HeadingSizeRatio = d.HeadingSizeRatio
	}
	if c.ColumnTolerance <= 0 {
		c.ColumnTolerance = d.ColumnTolerance
	}
	if c.CellGapRatio <= 0 {
		c.CellGapRatio = d.CellGapRatio
	}
	if c.MinTableColumns <= 0 {
		c.MinTableColumns = d.MinTableColumns
	}
	if c.MinTableLines <= 0 {
		c.MinTableLines = d.MinTableLines
	}
	if c.WordGapRatio <= 0 {
		c.WordGapRatio = d.WordGapRatio
	}
	return c
}

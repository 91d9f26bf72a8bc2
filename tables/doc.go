// Package tables builds a row and column grid from positioned spans.
//
// Rows follow the same baseline rule as layout line grouping. Columns are
// inferred from the x0 positions of all spans: sorted x0 values are cut
// into clusters wherever the gap between neighbours is wide compared with
// the median character width. Every span lands in the cell of its row and
// column; spans sharing a cell are joined with one space.
//
//	table := tables.Detect(spans)
//	fmt.Print(table.ToCSV())
//
// Detection never fails. Empty input gives an empty table.
package tables

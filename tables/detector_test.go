package tables

import (
	"encoding/csv"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tsawler/pdfstruct/model"
)

// makeSpan creates a span with a half-em advance per character
func makeSpan(text string, x, baseline, size float64) model.Span {
	n := float64(utf8.RuneCountInString(text))
	return model.Span{
		Text:     text,
		BBox:     model.Rect{X0: x, Y0: baseline - 0.2*size, X1: x + 0.5*size*n, Y1: baseline + 0.8*size},
		FontSize: size,
		Baseline: baseline,
	}
}

// TestFromSpansGrid tests a 2x2 grid given out of order
func TestFromSpansGrid(t *testing.T) {
	spans := []model.Span{
		makeSpan("D", 5, 0, 4),
		makeSpan("A", 0, 10, 4),
		makeSpan("C", 0, 0, 4),
		makeSpan("B", 5, 10, 4),
	}
	table := Detect(spans)
	if table.RowCount() != 2 || table.ColCount() != 2 {
		t.Fatalf("expected 2x2, got %dx%d", table.RowCount(), table.ColCount())
	}
	if got := table.ToCSV(); got != "A,B\nC,D\n" {
		t.Errorf("expected %q, got %q", "A,B\nC,D\n", got)
	}
	if c := table.GetCell(1, 0); c.Row != 1 || c.Col != 0 || c.BBox.X0 != 0 {
		t.Errorf("unexpected cell %+v", c)
	}
}

// TestFromSpansQuoting tests CSV quoting of cell text
func TestFromSpansQuoting(t *testing.T) {
	spans := []model.Span{
		makeSpan("Total", 0, 100, 10),
		makeSpan("1,000", 100, 100, 10),
	}
	if got := Detect(spans).ToCSV(); got != "Total,\"1,000\"\n" {
		t.Errorf("expected quoted amount, got %q", got)
	}
}

// TestFromSpansCSVRoundTrip tests that CSV output parses back to the cells
func TestFromSpansCSVRoundTrip(t *testing.T) {
	texts := [][]string{
		{`He said "hi"`, "a,b", "plain"},
		{"x", "", "last"},
	}
	var spans []model.Span
	for i, row := range texts {
		for j, text := range row {
			if text != "" {
				spans = append(spans, makeSpan(text, 200*float64(j), 700-20*float64(i), 10))
			}
		}
	}
	table := Detect(spans)

	records, err := csv.NewReader(strings.NewReader(table.ToCSV())).ReadAll()
	if err != nil {
		t.Fatalf("csv parse failed: %v", err)
	}
	if !reflect.DeepEqual(records, texts) {
		t.Errorf("expected %q, got %q", texts, records)
	}
}

// TestFromSpansDenseGrid tests empty cells and their bands
func TestFromSpansDenseGrid(t *testing.T) {
	spans := []model.Span{
		makeSpan("h1", 0, 50, 10), makeSpan("h2", 50, 50, 10), makeSpan("h3", 100, 50, 10),
		makeSpan("v1", 0, 30, 10), makeSpan("v3", 100, 30, 10),
	}
	table := Detect(spans)
	if table.RowCount() != 2 || table.ColCount() != 3 {
		t.Fatalf("expected 2x3, got %dx%d", table.RowCount(), table.ColCount())
	}
	empty := table.GetCell(1, 1)
	if empty.Text != "" {
		t.Errorf("expected empty cell, got %q", empty.Text)
	}
	want := model.Rect{X0: 50, Y0: 28, X1: 60, Y1: 38}
	if empty.BBox != want {
		t.Errorf("expected band %v, got %v", want, empty.BBox)
	}
	for _, row := range table.Rows {
		if len(row) != 3 {
			t.Errorf("expected 3 cells per row, got %d", len(row))
		}
	}
}

// TestFromSpansSharedCell tests spans whose x0 fall in one column
func TestFromSpansSharedCell(t *testing.T) {
	spans := []model.Span{
		makeSpan("b", 1.5, 10, 4),
		makeSpan("a", 0, 10, 4),
		makeSpan("c", 0, 0, 4),
	}
	table := Detect(spans)
	if table.ColCount() != 1 {
		t.Fatalf("expected 1 column, got %d", table.ColCount())
	}
	if got := table.GetCell(0, 0).Text; got != "a b" {
		t.Errorf("expected %q, got %q", "a b", got)
	}
}

// TestColumnGapFallback tests the font size fallback for zero-width spans
func TestColumnGapFallback(t *testing.T) {
	point := func(text string, x, y float64) model.Span {
		return model.Span{Text: text, BBox: model.Rect{X0: x, Y0: y, X1: x, Y1: y}, FontSize: 10, Baseline: y}
	}
	spans := []model.Span{point("a", 0, 10), point("b", 4, 10), point("c", 20, 10)}
	table := Detect(spans)
	if table.ColCount() != 2 {
		t.Fatalf("expected 2 columns, got %d", table.ColCount())
	}
	if got := table.ToCSV(); got != "a b,c\n" {
		t.Errorf("expected %q, got %q", "a b,c\n", got)
	}
}

// TestDetectEmpty tests empty input
func TestDetectEmpty(t *testing.T) {
	table := Detect(nil)
	if table.RowCount() != 0 || table.ColCount() != 0 || table.ToCSV() != "" {
		t.Errorf("expected an empty table, got %+v", table)
	}
}

// TestConfigWithDefaults tests that zero fields take defaults
func TestConfigWithDefaults(t *testing.T) {
	if got := (Config{ColumnGapRatio: 2}).WithDefaults(); got != (Config{LineTolerance: 0.5, ColumnGapRatio: 2}) {
		t.Errorf("unexpected config %+v", got)
	}
}

package layout

import (
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
		FontID:   "F1",
		FontSize: size,
		Baseline: baseline,
	}
}

func kinds(elements []model.Element) []model.ElementKind {
	out := make([]model.ElementKind, len(elements))
	for i, e := range elements {
		out[i] = e.Kind
	}
	return out
}

// TestGroupLines tests baseline clustering and left to right order
func TestGroupLines(t *testing.T) {
	spans := []model.Span{
		makeSpan("world", 130, 700.5, 12),
		makeSpan("Second", 72, 686, 12),
		makeSpan("Hello", 72, 700, 12),
		makeSpan("sup", 160, 704, 6),
	}
	lines := GroupLines(spans, 0.5)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	// the superscript sits 3.5pt above, beyond half of its 6pt size
	if got := lines[0].Spans[0].Text; got != "sup" {
		t.Errorf("expected the superscript on its own line, got %q", got)
	}
	if got := lines[1].Text(); got != "Hello world" {
		t.Errorf("expected %q, got %q", "Hello world", got)
	}
	if got := lines[2].Text(); got != "Second" {
		t.Errorf("expected %q, got %q", "Second", got)
	}
}

// TestDominantAndMedianSize tests character weighted size statistics
func TestDominantAndMedianSize(t *testing.T) {
	spans := []model.Span{
		makeSpan("Big", 0, 0, 24),
		makeSpan("a much longer run of body text", 0, 0, 10),
		makeSpan("note", 0, 0, 8),
	}
	if got := dominantSize(spans); got != 10 {
		t.Errorf("expected dominant size 10, got %v", got)
	}
	if got := medianSize(spans); got != 10 {
		t.Errorf("expected median size 10, got %v", got)
	}
	if got := median([]float64{3, 1, 4, 2}); got != 2.5 {
		t.Errorf("expected median 2.5, got %v", got)
	}
}

// TestIsListMarker tests bullet and numbering detection
func TestIsListMarker(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"• First", true},
		{"•First", true},
		{"- item", true},
		{"* item", true},
		{"1. Step", true},
		{"12) Step", true},
		{"(3) Step", true},
		{"a. Option", true},
		{"iv) Clause", true},
		{"3.5 million people", false},
		{"e.g. this", false},
		{"-5 degrees", false},
		{"Plain text", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsListMarker(tt.text); got != tt.want {
			t.Errorf("IsListMarker(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

// TestStripBullet tests removal of bullet glyphs only
func TestStripBullet(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"• First", "First"},
		{"▪  Second", "Second"},
		{"- Third", "Third"},
		{"1. Fourth", "1. Fourth"},
	}
	for _, tt := range tests {
		if got := StripBullet(tt.in); got != tt.want {
			t.Errorf("StripBullet(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestClassifyTitleAndBody tests a large title above a body line
func TestClassifyTitleAndBody(t *testing.T) {
	spans := []model.Span{
		makeSpan("Title", 72, 700, 24),
		makeSpan("Body text.", 72, 670, 12),
	}
	elements := Classify(spans, DefaultConfig())
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
	if elements[0].Kind != model.KindHeading || elements[0].Level != 1 || elements[0].Text() != "Title" {
		t.Errorf("expected level 1 heading Title, got %v %d %q", elements[0].Kind, elements[0].Level, elements[0].Text())
	}
	if elements[1].Kind != model.KindParagraph || elements[1].Text() != "Body text." {
		t.Errorf("expected paragraph, got %v %q", elements[1].Kind, elements[1].Text())
	}
}

// TestClassifyHeadingLevels tests levels ranked by distinct heading size
func TestClassifyHeadingLevels(t *testing.T) {
	body := "the quick brown fox jumps over the lazy dog"
	spans := []model.Span{
		makeSpan("Chapter", 72, 700, 24),
		makeSpan(body, 72, 670, 12),
		makeSpan(body, 72, 656, 12),
		makeSpan(body, 72, 642, 12),
		makeSpan("Section", 72, 610, 18),
		makeSpan(body, 72, 585, 12),
		makeSpan(body, 72, 571, 12),
	}
	elements := Classify(spans, DefaultConfig())
	want := []model.ElementKind{model.KindHeading, model.KindParagraph, model.KindHeading, model.KindParagraph}
	if !reflect.DeepEqual(kinds(elements), want) {
		t.Fatalf("expected %v, got %v", want, kinds(elements))
	}
	if elements[0].Level != 1 || elements[2].Level != 2 {
		t.Errorf("expected levels 1 and 2, got %d and %d", elements[0].Level, elements[2].Level)
	}
	if len(elements[1].Lines) != 3 {
		t.Errorf("expected a 3-line paragraph, got %d lines", len(elements[1].Lines))
	}
}

// TestHeadingLevelsCapped tests that levels stop at 6
func TestHeadingLevelsCapped(t *testing.T) {
	levels := headingLevels([]float64{30, 28, 26, 24, 22, 20, 18, 16, 24.1})
	if levels[30] != 1 || levels[24] != 4 || levels[16] != 6 || levels[18] != 6 {
		t.Errorf("unexpected levels %v", levels)
	}
	if len(levels) != 8 {
		t.Errorf("expected 24.1 to round into 24, got %d sizes", len(levels))
	}
}

// TestClassifyListItems tests that each marker starts its own item
func TestClassifyListItems(t *testing.T) {
	spans := []model.Span{
		makeSpan("• First item", 72, 700, 12),
		makeSpan("continues here", 84, 686, 12),
		makeSpan("• Second item", 72, 672, 12),
		makeSpan("Closing words.", 72, 632, 12),
	}
	elements := Classify(spans, DefaultConfig())
	want := []model.ElementKind{model.KindListItem, model.KindListItem, model.KindParagraph}
	if !reflect.DeepEqual(kinds(elements), want) {
		t.Fatalf("expected %v, got %v", want, kinds(elements))
	}
	if got := elements[0].Text(); got != "• First item continues here" {
		t.Errorf("unexpected first item %q", got)
	}
}

// TestClassifyNumberedHeading tests that heading wins over list marker
func TestClassifyNumberedHeading(t *testing.T) {
	spans := []model.Span{
		makeSpan("1. Introduction", 72, 700, 20),
		makeSpan("Some introductory body text here.", 72, 670, 11),
	}
	elements := Classify(spans, DefaultConfig())
	if len(elements) == 0 || elements[0].Kind != model.KindHeading {
		t.Fatalf("expected a heading first, got %v", kinds(elements))
	}
}

// TestClassifyTableRegion tests column aligned lines
func TestClassifyTableRegion(t *testing.T) {
	var spans []model.Span
	spans = append(spans, makeSpan("Results are below.", 72, 700, 10))
	rows := [][]string{{"Name", "Qty", "Price"}, {"Apple", "3", "1.20"}, {"Pear", "10", "0.90"}}
	for i, row := range rows {
		y := 676 - 12*float64(i)
		for j, cell := range row {
			spans = append(spans, makeSpan(cell, 72+128*float64(j), y, 10))
		}
	}
	elements := Classify(spans, DefaultConfig())
	want := []model.ElementKind{model.KindParagraph, model.KindTableRegion}
	if !reflect.DeepEqual(kinds(elements), want) {
		t.Fatalf("expected %v, got %v", want, kinds(elements))
	}
	if len(elements[1].Spans()) != 9 {
		t.Errorf("expected 9 table spans, got %d", len(elements[1].Spans()))
	}
}

// TestClassifyMisalignedColumns tests columnar lines that do not line up
func TestClassifyMisalignedColumns(t *testing.T) {
	spans := []model.Span{
		makeSpan("a", 72, 700, 10), makeSpan("b", 150, 700, 10), makeSpan("c", 250, 700, 10),
		makeSpan("d", 100, 688, 10), makeSpan("e", 200, 688, 10), makeSpan("f", 300, 688, 10),
	}
	elements := Classify(spans, DefaultConfig())
	for _, e := range elements {
		if e.Kind == model.KindTableRegion {
			t.Errorf("expected no table region, got %v", kinds(elements))
		}
	}
}

// TestClassifyInlineFontChange tests that styled words stay in a paragraph
func TestClassifyInlineFontChange(t *testing.T) {
	spans := []model.Span{
		makeSpan("Some", 72, 700, 10), makeSpan("bold", 97, 700, 10), makeSpan("and", 120, 700, 10), makeSpan("plain", 140, 700, 10),
		makeSpan("Next", 72, 688, 10), makeSpan("line", 97, 688, 10), makeSpan("with", 120, 688, 10), makeSpan("words", 145, 688, 10),
	}
	elements := Classify(spans, DefaultConfig())
	if len(elements) != 1 || elements[0].Kind != model.KindParagraph {
		t.Fatalf("expected one paragraph, got %v", kinds(elements))
	}
	if got := elements[0].Text(); got != "Some bold and plain Next line with words" {
		t.Errorf("unexpected text %q", got)
	}
}

// TestClassifyDeterministic tests that repeated runs agree
func TestClassifyDeterministic(t *testing.T) {
	var spans []model.Span
	for i := 0; i < 20; i++ {
		y := 700 - 14*float64(i)
		spans = append(spans, makeSpan(strings.Repeat("x", i+1), 72, y, 10+float64(i%3)*4))
	}
	first := Classify(spans, DefaultConfig())
	for i := 0; i < 5; i++ {
		if got := Classify(spans, DefaultConfig()); !reflect.DeepEqual(got, first) {
			t.Fatal("expected identical elements on every run")
		}
	}
}

// TestClassifyEmpty tests empty input
func TestClassifyEmpty(t *testing.T) {
	if got := Classify(nil, DefaultConfig()); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

// TestConfigWithDefaults tests that zero fields take defaults
func TestConfigWithDefaults(t *testing.T) {
	got := Config{HeadingSizeRatio: 1.5, MinTableLines: 4}.WithDefaults()
	want := DefaultConfig()
	want.HeadingSizeRatio = 1.5
	want.MinTableLines = 4
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if c := NewClassifierWithConfig(Config{}).Config(); c != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", c)
	}
}

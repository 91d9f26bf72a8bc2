package layout

import (
	"math"
	"sort"

	"github.com/tsawler/pdfstruct/model"
)

// GroupLines clusters spans into lines, top to bottom. A span joins a line
// when its baseline lies within tolerance × the smaller of its own font
// size and the size of the span that opened the line. Spans within a line
// are ordered left to right by x0; ties keep content order.
func GroupLines(spans []model.Span, tolerance float64) []model.Line {
	if len(spans) == 0 {
		return nil
	}

	// Sort by baseline only (higher Y is nearer the top of the page) so
	// that spans on one baseline stay in content order
	sorted := make([]model.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Baseline > sorted[j].Baseline
	})

	var groups [][]model.Span
	var current []model.Span
	for _, s := range sorted {
		if len(current) > 0 {
			anchor := current[0]
			tol := tolerance * math.Min(anchor.FontSize, s.FontSize)
			if math.Abs(anchor.Baseline-s.Baseline) <= tol {
				current = append(current, s)
				continue
			}
			groups = append(groups, current)
		}
		current = []model.Span{s}
	}
	groups = append(groups, current)

	lines := make([]model.Line, len(groups))
	for i, g := range groups {
		baseline := g[0].Baseline
		sort.SliceStable(g, func(a, b int) bool {
			return g[a].BBox.X0 < g[b].BBox.X0
		})
		lines[i] = model.Line{
			Spans:    g,
			Baseline: baseline,
			FontSize: dominantSize(g),
		}
	}
	return lines
}

// dominantSize returns the font size covering the most characters. Ties go
// to the size seen first.
func dominantSize(spans []model.Span) float64 {
	type tally struct {
		size  float64
		count int
	}
	var tallies []tally
	for _, s := range spans {
		n := max(s.RuneCount(), 1)
		found := false
		for i := range tallies {
			if tallies[i].size == s.FontSize {
				tallies[i].count += n
				found = true
				break
			}
		}
		if !found {
			tallies = append(tallies, tally{size: s.FontSize, count: n})
		}
	}
	best := tallies[0]
	for _, t := range tallies[1:] {
		if t.count > best.count {
			best = t
		}
	}
	return best.size
}

// medianSize returns the page font size weighted by character count
func medianSize(spans []model.Span) float64 {
	if len(spans) == 0 {
		return 0
	}
	type weighted struct {
		size   float64
		weight int
	}
	ws := make([]weighted, len(spans))
	total := 0
	for i, s := range spans {
		w := max(s.RuneCount(), 1)
		ws[i] = weighted{size: s.FontSize, weight: w}
		total += w
	}
	sort.SliceStable(ws, func(i, j int) bool { return ws[i].size < ws[j].size })

	half := float64(total) / 2
	acc := 0
	for _, w := range ws {
		acc += w.weight
		if float64(acc) >= half {
			return w.size
		}
	}
	return ws[len(ws)-1].size
}

// median returns the middle value of vals, averaging the two middle values
// for an even count. vals is not modified.
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

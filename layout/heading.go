package layout

import (
	"math"
	"sort"
)

// maxHeadingLevel caps heading levels
const maxHeadingLevel = 6

// isHeadingCandidate reports whether a block's dominant size reaches the
// heading ratio and the block follows a larger than median gap. The first
// block on the page counts as following a large gap.
func (c *Classifier) isHeadingCandidate(b *block, pageMedian, medianPitch float64) bool {
	if pageMedian <= 0 || b.fontSize < c.config.HeadingSizeRatio*pageMedian {
		return false
	}
	return b.first || b.gapBefore > medianPitch
}

// roundSize rounds a font size to the nearest half point
func roundSize(size float64) float64 {
	return math.Round(size*2) / 2
}

// headingLevels ranks the distinct heading sizes, largest first. The
// returned map gives the level for each rounded size.
func headingLevels(sizes []float64) map[float64]int {
	var distinct []float64
	seen := map[float64]bool{}
	for _, s := range sizes {
		r := roundSize(s)
		if !seen[r] {
			seen[r] = true
			distinct = append(distinct, r)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))

	levels := make(map[float64]int, len(distinct))
	for i, s := range distinct {
		levels[s] = min(i+1, maxHeadingLevel)
	}
	return levels
}

// Package layout classifies positioned spans into structural elements.
//
// [Classify] runs three steps over one page of spans:
//
//   - Line grouping: spans whose baselines lie within LineTolerance × the
//     smaller font size share a line, ordered left to right.
//   - Block grouping: consecutive lines form a block until the line pitch
//     exceeds BlockGapRatio × the median pitch, the font size jumps, a list
//     marker starts a line, or the line switches between columnar and plain.
//   - Tagging: each block becomes a Heading, ListItem, TableRegion or
//     Paragraph, in that order of precedence.
//
// All thresholds live in [Config]:
//
//	cfg := layout.DefaultConfig()
//	cfg.HeadingSizeRatio = 1.4
//	elements := layout.Classify(spans, cfg)
//
// Classification is heuristic. The same spans always produce the same
// elements, but no threshold set is right for every document.
package layout

// Package text interprets PDF content streams and produces positioned text
// spans.
//
// An [Extractor] walks the operators of a page, tracking the graphics
// state, and places every glyph the active font decodes:
//
//	e := text.NewExtractor(doc, text.WithConfig(cfg))
//	spans, err := e.ExtractPage(page)
//
// # Spans
//
// A glyph joins the current span when it uses the same font and effective
// size, its baseline stays within BaselineTolerance of the span's, and it
// starts within JoinTolerance of where the previous glyph ended. A jump of
// at least SpaceTolerance inserts a space. T*, ', ", Tm, BT, ET, and Td or
// TD with a vertical offset always close the span. All tolerances are
// multiples of the effective font size.
//
// Codes the font cannot map to Unicode are dropped but still advance the
// pen. Form XObjects are executed with their own matrix and resources.
package text

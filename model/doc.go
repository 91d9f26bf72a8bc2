// Package model defines the values the extraction pipeline passes between
// stages: geometry ([Rect], [Matrix], [Point]), positioned text ([Span]),
// classified blocks ([Element], [Line]) and tables ([Table], [Cell]).
//
// Coordinates are PDF user space: the origin is the lower-left corner of
// the page and y grows upward, so a larger baseline is higher on the page.
package model

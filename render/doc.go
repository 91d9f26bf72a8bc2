// Package render turns classified elements into plain text, Markdown or
// HTML.
//
// Renderers are pure: the same elements always give the same string and
// rendering never fails. TableRegion elements are rebuilt as a grid with
// the tables package and written as padded columns, a pipe table or an
// HTML table.
package render

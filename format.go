package pdfstruct

import (
	"fmt"
	"strings"
)

// Format selects an output rendering
type Format string

// Supported output formats
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
)

var formats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatHTML}

// ParseFormat returns the format named by s, ignoring case and surrounding
// space
func ParseFormat(s string) (Format, error) {
	name := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, f := range formats {
		if f == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q: want text, markdown, csv or html", s)
}

// String returns the format name
func (f Format) String() string {
	return string(f)
}

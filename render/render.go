package render

import (
	"strings"

	"github.com/tsawler/pdfstruct/layout"
	"github.com/tsawler/pdfstruct/model"
	"github.com/tsawler/pdfstruct/tables"
)

// Renderer renders elements, rebuilding table regions with its table
// configuration
type Renderer struct {
	tables tables.Config
}

// New creates a renderer. Zero table fields take their defaults.
func New(cfg tables.Config) *Renderer {
	return &Renderer{tables: cfg.WithDefaults()}
}

var defaultRenderer = New(tables.DefaultConfig())

// Text renders elements as plain text with the default table configuration
func Text(elements []model.Element) string {
	return defaultRenderer.Text(elements)
}

// Markdown renders elements as Markdown with the default table configuration
func Markdown(elements []model.Element) string {
	return defaultRenderer.Markdown(elements)
}

// HTML renders elements as an HTML fragment with the default table
// configuration
func HTML(elements []model.Element) string {
	return defaultRenderer.HTML(elements)
}

// Text writes each element's lines on their own lines with one blank line
// between elements. Table regions are laid out in padded columns.
func (r *Renderer) Text(elements []model.Element) string {
	blocks := make([]string, 0, len(elements))
	for _, el := range elements {
		var block string
		if el.Kind == model.KindTableRegion {
			block = r.table(el).ToText()
		} else {
			block = strings.Join(el.LineTexts(), "\n")
		}
		if block = strings.TrimRight(block, "\n"); block != "" {
			blocks = append(blocks, block)
		}
	}
	return joinBlocks(blocks)
}

// Markdown writes headings as '#' markers, list items with a "- " prefix,
// table regions as pipe tables and everything else as plain lines
func (r *Renderer) Markdown(elements []model.Element) string {
	blocks := make([]string, 0, len(elements))
	for _, el := range elements {
		var block string
		switch el.Kind {
		case model.KindHeading:
			if text := el.Text(); text != "" {
				block = strings.Repeat("#", headingLevel(el.Level)) + " " + text
			}
		case model.KindListItem:
			if text := layout.StripBullet(el.Text()); text != "" {
				block = "- " + text
			}
		case model.KindTableRegion:
			block = r.table(el).ToMarkdown()
		default:
			block = strings.Join(el.LineTexts(), "\n")
		}
		if block = strings.TrimRight(block, "\n"); block != "" {
			blocks = append(blocks, block)
		}
	}
	return joinBlocks(blocks)
}

func (r *Renderer) table(el model.Element) *tables.Table {
	return tables.FromSpans(el.Spans(), r.tables)
}

// headingLevel clamps a level into 1..6
func headingLevel(level int) int {
	return min(max(level, 1), 6)
}

// joinBlocks separates blocks with a blank line and ends non-empty output
// with a newline
func joinBlocks(blocks []string) string {
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

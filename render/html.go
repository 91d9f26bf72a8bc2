package render

import (
	"bytes"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/pdfstruct/layout"
	"github.com/tsawler/pdfstruct/model"
)

// HTML writes one top-level node per element: h1 to h6 for headings, p
// for paragraphs and table for table regions. Consecutive list items share
// one ul. Each top-level node is followed by a newline.
func (r *Renderer) HTML(elements []model.Element) string {
	var nodes []*html.Node
	var list *html.Node
	for _, el := range elements {
		if el.Kind != model.KindListItem {
			list = nil
		}
		switch el.Kind {
		case model.KindHeading:
			tag := "h" + strconv.Itoa(headingLevel(el.Level))
			nodes = appendText(nodes, tag, el.Text())
		case model.KindListItem:
			text := layout.StripBullet(el.Text())
			if text == "" {
				continue
			}
			if list == nil {
				list = element("ul")
				nodes = append(nodes, list)
			}
			list.AppendChild(textElement("li", text))
		case model.KindTableRegion:
			if t := r.tableNode(el); t != nil {
				nodes = append(nodes, t)
			}
		default:
			nodes = appendText(nodes, "p", el.Text())
		}
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		// rendering into a bytes.Buffer cannot fail
		_ = html.Render(&buf, n)
		buf.WriteByte('\n')
	}
	return buf.String()
}

func (r *Renderer) tableNode(el model.Element) *html.Node {
	t := r.table(el)
	if t.RowCount() == 0 || t.ColCount() == 0 {
		return nil
	}
	table := element("table")
	for i, row := range t.Rows {
		tr := element("tr")
		cellTag := "td"
		if i == 0 {
			cellTag = "th"
		}
		for _, cell := range row {
			tr.AppendChild(textElement(cellTag, cell.Text))
		}
		table.AppendChild(tr)
	}
	return table
}

func appendText(nodes []*html.Node, tag, text string) []*html.Node {
	if text == "" {
		return nodes
	}
	return append(nodes, textElement(tag, text))
}

func element(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

func textElement(tag, text string) *html.Node {
	n := element(tag)
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}

package pages

import (
	"bytes"
	"fmt"

	"github.com/tsawler/pdfstruct/core"
	"github.com/tsawler/pdfstruct/model"
)

// ObjectResolver resolves indirect references and decodes streams. Resolve
// returns non-reference objects unchanged.
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
	ResolveReference(ref core.IndirectRef) (core.Object, error)
	DecodeStream(s *core.Stream) ([]byte, error)
}

// inheritable lists the page attributes a leaf takes from its ancestors
var inheritable = []string{"Resources", "MediaBox", "CropBox", "Rotate"}

// defaultMediaBox is US Letter, used when no node defines a MediaBox
var defaultMediaBox = model.Rect{X1: 612, Y1: 792}

// PageTree is the flattened page tree of a document
type PageTree struct {
	pages []*Page
}

// NewPageTree walks the tree rooted at root depth-first, collecting leaves
// in document order. Revisiting a node object is reported as corrupt.
func NewPageTree(root core.Object, resolver ObjectResolver) (*PageTree, error) {
	t := &PageTree{}
	w := walker{resolver: resolver, visited: map[int]bool{}, tree: t}
	if err := w.visit(root, core.Dict{}, 0); err != nil {
		return nil, fmt.Errorf("failed to traverse page tree: %w", err)
	}
	return t, nil
}

// Count returns the number of leaf pages
func (t *PageTree) Count() int {
	return len(t.pages)
}

// GetPage returns the page at the given 0-based index
func (t *PageTree) GetPage(index int) (*Page, error) {
	if index < 0 || index >= len(t.pages) {
		return nil, fmt.Errorf("%w: page %d, document has %d pages", core.ErrPageIndexOutOfRange, index, len(t.pages))
	}
	return t.pages[index], nil
}

// Pages returns all pages in document order
func (t *PageTree) Pages() []*Page {
	return t.pages
}

// maxDepth bounds recursion for trees built without references, where the
// visited set cannot detect a loop.
const maxDepth = 256

type walker struct {
	resolver ObjectResolver
	visited  map[int]bool
	tree     *PageTree
}

func (w *walker) visit(nodeObj core.Object, inherited core.Dict, depth int) error {
	if depth > maxDepth {
		return core.Corruptf("page tree deeper than %d levels", maxDepth)
	}
	if ref, ok := nodeObj.(core.IndirectRef); ok {
		if w.visited[ref.Number] {
			return core.Corruptf("page tree cycle at object %d", ref.Number)
		}
		w.visited[ref.Number] = true
	}

	resolved, err := w.resolver.Resolve(nodeObj)
	if err != nil {
		return err
	}
	node, ok := resolved.(core.Dict)
	if !ok {
		return core.Corruptf("page tree node is %s, not a dictionary", typeOf(resolved))
	}

	attrs := core.Dict{}
	for _, key := range inheritable {
		if v := node.Get(key); v != nil {
			attrs[key] = v
		} else if v := inherited.Get(key); v != nil {
			attrs[key] = v
		}
	}

	typ, _ := node.GetName("Type")
	if typ == "" {
		// some writers omit /Type; a node with /Kids is an intermediate node
		if node.Has("Kids") {
			typ = "Pages"
		} else {
			typ = "Page"
		}
	}

	switch typ {
	case "Pages":
		kidsObj, err := w.resolver.Resolve(node.Get("Kids"))
		if err != nil {
			return err
		}
		kids, ok := kidsObj.(core.Array)
		if !ok {
			return core.Corruptf("/Kids is %s, not an array", typeOf(kidsObj))
		}
		for _, kid := range kids {
			if err := w.visit(kid, attrs, depth+1); err != nil {
				return err
			}
		}
	case "Page":
		w.tree.pages = append(w.tree.pages, &Page{dict: node, attrs: attrs, resolver: w.resolver})
	default:
		return core.Corruptf("unexpected page tree node type %q", typ)
	}
	return nil
}

func typeOf(obj core.Object) string {
	if obj == nil {
		return "missing"
	}
	return obj.Type().String()
}

// Page is a leaf of the page tree with its inherited attributes applied
type Page struct {
	dict     core.Dict
	attrs    core.Dict
	resolver ObjectResolver
}

// Dict returns the page dictionary
func (p *Page) Dict() core.Dict { return p.dict }

// MediaBox returns the page media box, defaulting to US Letter
func (p *Page) MediaBox() model.Rect {
	if r, ok := p.box("MediaBox"); ok {
		return r
	}
	return defaultMediaBox
}

// CropBox returns the crop box, defaulting to the media box
func (p *Page) CropBox() model.Rect {
	if r, ok := p.box("CropBox"); ok {
		return r
	}
	return p.MediaBox()
}

func (p *Page) box(name string) (model.Rect, bool) {
	obj, err := p.resolver.Resolve(p.attrs.Get(name))
	if err != nil {
		return model.Rect{}, false
	}
	arr, ok := obj.(core.Array)
	if !ok || len(arr) != 4 {
		return model.Rect{}, false
	}
	v, ok := arr.Floats()
	if !ok {
		return model.Rect{}, false
	}
	return model.RectFromPoints(model.Point{X: v[0], Y: v[1]}, model.Point{X: v[2], Y: v[3]}), true
}

// Resources returns the page resources dictionary, or an empty one
func (p *Page) Resources() (core.Dict, error) {
	obj, err := p.resolver.Resolve(p.attrs.Get("Resources"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Resources: %w", err)
	}
	if d, ok := obj.(core.Dict); ok {
		return d, nil
	}
	return core.Dict{}, nil
}

// Rotate returns the page rotation in degrees, normalised to 0, 90, 180 or 270
func (p *Page) Rotate() int {
	obj, _ := p.resolver.Resolve(p.attrs.Get("Rotate"))
	r, _ := core.ToFloat(obj)
	deg := (int(r)%360 + 360) % 360
	return deg - deg%90
}

// ContentStreams returns the page's content streams in order. A page
// without /Contents, or whose /Contents refers to a free object, has none.
func (p *Page) ContentStreams() ([]*core.Stream, error) {
	obj, err := p.resolver.Resolve(p.dict.Get("Contents"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Contents: %w", err)
	}
	switch v := obj.(type) {
	case nil, core.Null:
		return nil, nil
	case *core.Stream:
		return []*core.Stream{v}, nil
	case core.Array:
		streams := make([]*core.Stream, 0, len(v))
		for i, elem := range v {
			resolved, err := p.resolver.Resolve(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve /Contents[%d]: %w", i, err)
			}
			if _, ok := resolved.(core.Null); ok {
				continue
			}
			s, ok := resolved.(*core.Stream)
			if !ok {
				return nil, core.Corruptf("/Contents[%d] is %s, not a stream", i, typeOf(resolved))
			}
			streams = append(streams, s)
		}
		return streams, nil
	}
	return nil, core.Corruptf("/Contents is %s", typeOf(obj))
}

// Contents returns the page's content streams decoded and joined with a
// newline separator
func (p *Page) Contents() ([]byte, error) {
	streams, err := p.ContentStreams()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for i, s := range streams {
		data, err := p.resolver.DecodeStream(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode content stream %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

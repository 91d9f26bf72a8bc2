package pages

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tsawler/pdfstruct/core"
	"github.com/tsawler/pdfstruct/model"
)

// mockResolver is a mock ObjectResolver for testing
type mockResolver struct {
	objects map[int]core.Object
}

func newMockResolver() *mockResolver {
	return &mockResolver{
		objects: make(map[int]core.Object),
	}
}

func (m *mockResolver) AddObject(num int, obj core.Object) {
	m.objects[num] = obj
}

func (m *mockResolver) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return m.ResolveReference(ref)
	}
	return obj, nil
}

func (m *mockResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	obj, ok := m.objects[ref.Number]
	if !ok {
		return nil, fmt.Errorf("object %d not found", ref.Number)
	}
	return obj, nil
}

func (m *mockResolver) DecodeStream(s *core.Stream) ([]byte, error) {
	return s.Data, nil
}

func ref(n int) core.IndirectRef { return core.IndirectRef{Number: n} }

func rect(x0, y0, x1, y1 int) core.Array {
	return core.Array{core.Int(x0), core.Int(y0), core.Int(x1), core.Int(y1)}
}

// TestPageTreeFlatStructure tests a root with leaf kids only
func TestPageTreeFlatStructure(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		t.Run(fmt.Sprintf("%d pages", n), func(t *testing.T) {
			r := newMockResolver()
			kids := core.Array{}
			for i := 0; i < n; i++ {
				r.AddObject(10+i, core.Dict{"Type": core.Name("Page"), "Parent": ref(1)})
				kids = append(kids, ref(10+i))
			}
			r.AddObject(1, core.Dict{"Type": core.Name("Pages"), "Kids": kids, "Count": core.Int(n)})

			tree, err := NewPageTree(ref(1), r)
			if err != nil {
				t.Fatalf("NewPageTree failed: %v", err)
			}
			if tree.Count() != n {
				t.Errorf("expected %d pages, got %d", n, tree.Count())
			}
			if _, err := tree.GetPage(n); !errors.Is(err, core.ErrPageIndexOutOfRange) {
				t.Errorf("expected ErrPageIndexOutOfRange, got %v", err)
			}
		})
	}
}

// TestPageTreeInheritance tests nested nodes and inherited attributes
func TestPageTreeInheritance(t *testing.T) {
	r := newMockResolver()
	resources := core.Dict{"Font": core.Dict{"F1": ref(50)}}
	r.AddObject(1, core.Dict{
		"Type":      core.Name("Pages"),
		"Kids":      core.Array{ref(2), ref(5)},
		"MediaBox":  rect(0, 0, 595, 842),
		"Resources": resources,
		"Rotate":    core.Int(-90),
	})
	r.AddObject(2, core.Dict{
		"Type":     core.Name("Pages"),
		"Kids":     core.Array{ref(3), ref(4)},
		"MediaBox": rect(0, 0, 612, 792),
	})
	r.AddObject(3, core.Dict{"Type": core.Name("Page")})
	r.AddObject(4, core.Dict{"Type": core.Name("Page"), "Rotate": core.Int(180), "CropBox": rect(10, 10, 600, 780)})
	// no /Type: leaf inferred from the missing /Kids
	r.AddObject(5, core.Dict{"MediaBox": rect(200, 300, 0, 0)})

	tree, err := NewPageTree(ref(1), r)
	if err != nil {
		t.Fatalf("NewPageTree failed: %v", err)
	}
	if tree.Count() != 3 {
		t.Fatalf("expected 3 pages, got %d", tree.Count())
	}

	tests := []struct {
		index    int
		mediaBox model.Rect
		cropBox  model.Rect
		rotate   int
	}{
		{0, model.Rect{X1: 612, Y1: 792}, model.Rect{X1: 612, Y1: 792}, 270},
		{1, model.Rect{X1: 612, Y1: 792}, model.Rect{X0: 10, Y0: 10, X1: 600, Y1: 780}, 180},
		{2, model.Rect{X1: 200, Y1: 300}, model.Rect{X1: 200, Y1: 300}, 270},
	}
	for _, tt := range tests {
		page, err := tree.GetPage(tt.index)
		if err != nil {
			t.Fatalf("GetPage(%d) failed: %v", tt.index, err)
		}
		if page.MediaBox() != tt.mediaBox {
			t.Errorf("page %d: expected media box %v, got %v", tt.index, tt.mediaBox, page.MediaBox())
		}
		if page.CropBox() != tt.cropBox {
			t.Errorf("page %d: expected crop box %v, got %v", tt.index, tt.cropBox, page.CropBox())
		}
		if page.Rotate() != tt.rotate {
			t.Errorf("page %d: expected rotation %d, got %d", tt.index, tt.rotate, page.Rotate())
		}
		res, err := page.Resources()
		if err != nil {
			t.Fatalf("Resources failed: %v", err)
		}
		if !res.Has("Font") {
			t.Errorf("page %d: expected inherited font resources", tt.index)
		}
	}
}

// TestPageTreeCycle tests a node that lists an ancestor as a kid
func TestPageTreeCycle(t *testing.T) {
	r := newMockResolver()
	r.AddObject(1, core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(2)}})
	r.AddObject(2, core.Dict{"Type": core.Name("Pages"), "Kids": core.Array{ref(3), ref(1)}})
	r.AddObject(3, core.Dict{"Type": core.Name("Page")})

	_, err := NewPageTree(ref(1), r)
	if !errors.Is(err, core.ErrCorruptDocument) {
		t.Errorf("expected ErrCorruptDocument, got %v", err)
	}
}

// TestPageTreeMalformed tests nodes of the wrong shape
func TestPageTreeMalformed(t *testing.T) {
	tests := []struct {
		name string
		root core.Object
	}{
		{"root not a dictionary", core.Int(4)},
		{"kids not an array", core.Dict{"Type": core.Name("Pages"), "Kids": core.Name("x")}},
		{"unknown node type", core.Dict{"Type": core.Name("Catalog")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPageTree(tt.root, newMockResolver())
			if !errors.Is(err, core.ErrCorruptDocument) {
				t.Errorf("expected ErrCorruptDocument, got %v", err)
			}
		})
	}
}

// TestPageContents tests single and multiple content streams
func TestPageContents(t *testing.T) {
	r := newMockResolver()
	r.AddObject(7, &core.Stream{Dict: core.Dict{}, Data: []byte("BT")})
	r.AddObject(8, &core.Stream{Dict: core.Dict{}, Data: []byte("ET")})
	r.AddObject(9, core.Null{})

	tests := []struct {
		name     string
		contents core.Object
		want     string
	}{
		{"none", nil, ""},
		{"single", ref(7), "BT"},
		{"array", core.Array{ref(7), ref(8)}, "BT\nET"},
		{"free reference", ref(9), ""},
		{"free array element", core.Array{ref(7), ref(9), ref(8)}, "BT\nET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict := core.Dict{"Type": core.Name("Page")}
			if tt.contents != nil {
				dict["Contents"] = tt.contents
			}
			tree, err := NewPageTree(dict, r)
			if err != nil {
				t.Fatalf("NewPageTree failed: %v", err)
			}
			page, _ := tree.GetPage(0)
			got, err := page.Contents()
			if err != nil {
				t.Fatalf("Contents failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	page := &Page{dict: core.Dict{"Contents": core.Array{core.Int(1)}}, attrs: core.Dict{}, resolver: r}
	if _, err := page.Contents(); !errors.Is(err, core.ErrCorruptDocument) {
		t.Errorf("expected ErrCorruptDocument, got %v", err)
	}
}

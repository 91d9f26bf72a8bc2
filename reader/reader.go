package reader

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/tsawler/pdfstruct/core"
	"github.com/tsawler/pdfstruct/font"
	"github.com/tsawler/pdfstruct/model"
	"github.com/tsawler/pdfstruct/pages"
	"github.com/tsawler/pdfstruct/text"
)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Info holds the document information dictionary entries as text
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// headerWindow is how far into the input the %PDF- marker may start
const headerWindow = 1024

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)`)

// Document is a parsed PDF. Objects are read lazily into an arena keyed by
// object number; the cross-reference data, catalog and page tree are loaded
// by Parse. A Document is not safe for concurrent use.
type Document struct {
	data    []byte
	version PDFVersion
	xref    *core.XRefTable
	trailer core.Dict

	objects    map[int]core.Object
	objStreams map[int]*core.ObjectStream
	// resolving holds the object numbers on the current resolution chain
	resolving map[int]bool

	catalog  core.Dict
	pageTree *pages.PageTree
	fonts    map[int]*font.Font

	logger     *slog.Logger
	textConfig text.Config
}

var (
	_ pages.ObjectResolver   = (*Document)(nil)
	_ text.Resolver          = (*Document)(nil)
	_ core.ReferenceResolver = (*Document)(nil)
)

// Option configures a Document
type Option func(*Document)

// WithLogger sets the logger for debug records
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithTextConfig sets the span thresholds used by ExtractPageText
func WithTextConfig(c text.Config) Option {
	return func(d *Document) { d.textConfig = c }
}

// Parse reads the header, cross-reference data, catalog and page tree. On
// error no Document is returned.
func Parse(data []byte, opts ...Option) (*Document, error) {
	d := &Document{
		data:       data,
		objects:    make(map[int]core.Object),
		objStreams: make(map[int]*core.ObjectStream),
		resolving:  make(map[int]bool),
		fonts:      make(map[int]*font.Font),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		textConfig: text.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(d)
	}

	version, err := parseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	d.version = version

	table, err := core.NewXRefParser(data).ParseAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load xref: %w", err)
	}
	d.xref = table
	d.trailer = table.Trailer
	d.logger.Debug("cross-reference loaded", "version", version.String(), "entries", table.Size())

	if d.trailer.Has("Encrypt") {
		return nil, core.Unsupportedf("encrypted documents")
	}

	catalog, err := d.loadCatalog()
	if err != nil {
		return nil, err
	}
	d.catalog = catalog

	tree, err := pages.NewPageTree(catalog.Get("Pages"), d)
	if err != nil {
		return nil, err
	}
	d.pageTree = tree
	d.logger.Debug("page tree loaded", "pages", tree.Count())
	return d, nil
}

// parseHeader finds %PDF-x.y within the first bytes of the input
func parseHeader(data []byte) (PDFVersion, error) {
	if len(data) < len("%PDF-1.0") {
		return PDFVersion{}, core.Truncatedf("input is %d bytes, shorter than a header", len(data))
	}
	window := data[:min(len(data), headerWindow)]
	idx := bytes.Index(window, []byte("%PDF-"))
	if idx < 0 {
		return PDFVersion{}, core.Corruptf("no %%PDF- header in the first %d bytes", headerWindow)
	}
	rest := data[idx+len("%PDF-"):]
	m := versionPattern.FindSubmatch(rest[:min(len(rest), 16)])
	if m == nil {
		return PDFVersion{}, core.Corruptf("invalid version in header")
	}
	major, _ := strconv.Atoi(string(m[1]))
	minor, _ := strconv.Atoi(string(m[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

func (d *Document) loadCatalog() (core.Dict, error) {
	rootObj := d.trailer.Get("Root")
	if rootObj == nil {
		return nil, core.Corruptf("trailer missing /Root entry")
	}
	obj, err := d.Resolve(rootObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}
	catalog, ok := obj.(core.Dict)
	if !ok {
		return nil, core.Corruptf("catalog is not a dictionary")
	}
	return catalog, nil
}

// Version returns the PDF version from the header
func (d *Document) Version() PDFVersion {
	return d.version
}

// Trailer returns the merged trailer dictionary
func (d *Document) Trailer() core.Dict {
	return d.trailer
}

// Catalog returns the document catalog
func (d *Document) Catalog() core.Dict {
	return d.catalog
}

// Info returns the document information entries. A document without an
// info dictionary yields the zero value.
func (d *Document) Info() (Info, error) {
	obj, err := d.Resolve(d.trailer.Get("Info"))
	if err != nil {
		return Info{}, fmt.Errorf("failed to resolve info: %w", err)
	}
	dict, ok := obj.(core.Dict)
	if !ok {
		return Info{}, nil
	}
	field := func(key string) string {
		v, err := d.Resolve(dict.Get(key))
		if err != nil {
			return ""
		}
		s, ok := v.(core.String)
		if !ok {
			return ""
		}
		return font.DecodeTextString([]byte(s))
	}
	return Info{
		Title:    field("Title"),
		Author:   field("Author"),
		Subject:  field("Subject"),
		Keywords: field("Keywords"),
		Creator:  field("Creator"),
		Producer: field("Producer"),
	}, nil
}

// PageCount returns the number of leaf pages
func (d *Document) PageCount() int {
	return d.pageTree.Count()
}

// Page returns the page at the given 0-based index
func (d *Document) Page(index int) (*pages.Page, error) {
	return d.pageTree.GetPage(index)
}

// ExtractPageText interprets the content of one page and returns its spans
// in content order
func (d *Document) ExtractPageText(index int) ([]model.Span, error) {
	page, err := d.Page(index)
	if err != nil {
		return nil, err
	}
	e := text.NewExtractor(d, text.WithConfig(d.textConfig), text.WithLogger(d.logger))
	spans, err := e.ExtractPage(page)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", index, err)
	}
	d.logger.Debug("page interpreted", "page", index, "spans", len(spans))
	return spans, nil
}

// Resolve returns obj unless it is an indirect reference, in which case
// the referenced object is loaded. A nil object resolves to nil.
func (d *Document) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return d.ResolveReference(ref)
	}
	return obj, nil
}

// ResolveReference loads an object through the arena. References that
// lead back to an object already being resolved are a reference cycle.
// Free and unknown objects resolve to null.
func (d *Document) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	if obj, ok := d.objects[ref.Number]; ok {
		return obj, nil
	}
	if d.resolving[ref.Number] {
		return nil, core.Corruptf("reference cycle at object %d", ref.Number)
	}
	d.resolving[ref.Number] = true
	defer delete(d.resolving, ref.Number)

	obj, err := d.load(ref.Number)
	if err != nil {
		return nil, err
	}
	// a reference stored as an object is followed on the same chain
	if next, ok := obj.(core.IndirectRef); ok {
		obj, err = d.ResolveReference(next)
		if err != nil {
			return nil, err
		}
	}
	d.objects[ref.Number] = obj
	return obj, nil
}

// load reads an object from its cross-reference location
func (d *Document) load(num int) (core.Object, error) {
	entry, ok := d.xref.Get(num)
	if !ok {
		return core.Null{}, nil
	}
	switch entry.Type {
	case core.EntryFree:
		return core.Null{}, nil
	case core.EntryCompressed:
		return d.loadCompressed(num, entry)
	}

	if entry.Offset < 0 || entry.Offset >= int64(len(d.data)) {
		return nil, core.Truncatedf("object %d offset %d beyond end of file", num, entry.Offset)
	}
	p := core.NewParser(d.data)
	p.SetReferenceResolver(d)
	p.Seek(int(entry.Offset))
	ind, err := p.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d: %w", num, err)
	}
	if ind.Ref.Number != num {
		return nil, core.Corruptf("object number mismatch: expected %d, got %d", num, ind.Ref.Number)
	}
	return ind.Object, nil
}

func (d *Document) loadCompressed(num int, entry core.XRefEntry) (core.Object, error) {
	objStm, ok := d.objStreams[entry.StreamNum]
	if !ok {
		if d.resolving[entry.StreamNum] {
			return nil, core.Corruptf("reference cycle at object stream %d", entry.StreamNum)
		}
		container, err := d.ResolveReference(core.IndirectRef{Number: entry.StreamNum})
		if err != nil {
			return nil, fmt.Errorf("failed to load object stream %d: %w", entry.StreamNum, err)
		}
		stream, ok := container.(*core.Stream)
		if !ok {
			return nil, core.Corruptf("object stream %d is not a stream", entry.StreamNum)
		}
		direct, err := d.directFilters(stream)
		if err != nil {
			return nil, err
		}
		objStm, err = core.NewObjectStream(direct)
		if err != nil {
			return nil, fmt.Errorf("object stream %d: %w", entry.StreamNum, err)
		}
		d.objStreams[entry.StreamNum] = objStm
	}
	return objStm.GetObjectByNumber(num, entry.Index)
}

// DecodeStream applies the stream's filter chain, resolving indirect
// /Filter and /DecodeParms values first
func (d *Document) DecodeStream(s *core.Stream) ([]byte, error) {
	direct, err := d.directFilters(s)
	if err != nil {
		return nil, err
	}
	return direct.Decode()
}

// directFilters returns s with /Filter and /DecodeParms resolved into a
// copy of its dictionary
func (d *Document) directFilters(s *core.Stream) (*core.Stream, error) {
	_, fRef := s.Dict.Get("Filter").(core.IndirectRef)
	_, pRef := s.Dict.Get("DecodeParms").(core.IndirectRef)
	_, pArr := s.Dict.Get("DecodeParms").(core.Array)
	if !fRef && !pRef && !pArr {
		return s, nil
	}

	dict := make(core.Dict, len(s.Dict))
	for k, v := range s.Dict {
		dict[k] = v
	}
	for _, key := range []string{"Filter", "DecodeParms"} {
		v, err := d.Resolve(dict.Get(key))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve /%s: %w", key, err)
		}
		if v != nil {
			dict[key] = v
		}
	}
	if arr, ok := dict.Get("DecodeParms").(core.Array); ok {
		resolved := make(core.Array, len(arr))
		for i, item := range arr {
			v, err := d.Resolve(item)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve /DecodeParms[%d]: %w", i, err)
			}
			resolved[i] = v
		}
		dict["DecodeParms"] = resolved
	}
	return &core.Stream{Dict: dict, Data: s.Data}, nil
}

// Font loads the font a /Font resource entry refers to. Fonts reached
// through a reference are cached by object number.
func (d *Document) Font(obj core.Object) (*font.Font, error) {
	ref, isRef := obj.(core.IndirectRef)
	if isRef {
		if f, ok := d.fonts[ref.Number]; ok {
			return f, nil
		}
	}
	resolved, err := d.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve font: %w", err)
	}
	dict, ok := resolved.(core.Dict)
	if !ok {
		return nil, core.Corruptf("font resource is not a dictionary")
	}
	f, err := font.Load(dict, d)
	if err != nil {
		return nil, err
	}
	if isRef {
		d.fonts[ref.Number] = f
		d.logger.Debug("font loaded", "object", ref.Number, "base_font", f.BaseFont, "subtype", f.Subtype, "embedded", f.Embedded)
	}
	return f, nil
}

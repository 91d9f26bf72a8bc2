package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object represents a PDF object
type Object interface {
	Type() ObjectType
	String() string
}

// ObjectType represents the type of PDF object
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjString
	ObjName
	ObjArray
	ObjDict
	ObjStream
	ObjIndirect
)

var objectTypeNames = [...]string{
	ObjNull:     "Null",
	ObjBool:     "Bool",
	ObjInt:      "Int",
	ObjReal:     "Real",
	ObjString:   "String",
	ObjName:     "Name",
	ObjArray:    "Array",
	ObjDict:     "Dict",
	ObjStream:   "Stream",
	ObjIndirect: "IndirectRef",
}

// String returns the string representation of the object type
func (t ObjectType) String() string {
	if t < 0 || int(t) >= len(objectTypeNames) {
		return "Unknown"
	}
	return objectTypeNames[t]
}

// Null represents the PDF null object
type Null struct{}

func (Null) Type() ObjectType { return ObjNull }
func (Null) String() string   { return "null" }

// Bool represents a PDF boolean
type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }

// Int represents a PDF integer
type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }

// Real represents a PDF real number
type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// String represents a PDF string. Literal and hex strings both decode to
// the raw bytes they denote.
type String string

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string   { return string(s) }

// Name represents a PDF name without its leading slash
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }

// Array represents a PDF array
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string {
	parts := make([]string, 0, len(a))
	for _, obj := range a {
		parts = append(parts, obj.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Get retrieves an element, or nil when the index is out of bounds
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// GetNumber retrieves an Int or Real element as float64
func (a Array) GetNumber(index int) (float64, bool) {
	return ToFloat(a.Get(index))
}

// GetName retrieves a name at the given index
func (a Array) GetName(index int) (Name, bool) {
	n, ok := a.Get(index).(Name)
	return n, ok
}

// Floats converts every element to float64. It fails if any element is
// not numeric.
func (a Array) Floats() ([]float64, bool) {
	out := make([]float64, len(a))
	for i, obj := range a {
		f, ok := ToFloat(obj)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Dict represents a PDF dictionary keyed by name (without the slash)
type Dict map[string]Object

func (d Dict) Type() ObjectType { return ObjDict }
func (d Dict) String() string {
	keys := d.Keys()
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("/%s %s", key, d[key].String()))
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}

// Get retrieves a value from the dictionary
func (d Dict) Get(key string) Object {
	return d[key]
}

// GetName retrieves a name value
func (d Dict) GetName(key string) (Name, bool) {
	n, ok := d[key].(Name)
	return n, ok
}

// GetInt retrieves an integer value
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := d[key].(Int)
	return i, ok
}

// GetNumber retrieves an Int or Real value as float64
func (d Dict) GetNumber(key string) (float64, bool) {
	return ToFloat(d[key])
}

// GetDict retrieves a dictionary value
func (d Dict) GetDict(key string) (Dict, bool) {
	v, ok := d[key].(Dict)
	return v, ok
}

// GetArray retrieves an array value
func (d Dict) GetArray(key string) (Array, bool) {
	v, ok := d[key].(Array)
	return v, ok
}

// GetString retrieves a string value
func (d Dict) GetString(key string) (String, bool) {
	s, ok := d[key].(String)
	return s, ok
}

// GetStream retrieves a stream value
func (d Dict) GetStream(key string) (*Stream, bool) {
	s, ok := d[key].(*Stream)
	return s, ok
}

// GetIndirectRef retrieves an indirect reference
func (d Dict) GetIndirectRef(key string) (IndirectRef, bool) {
	ref, ok := d[key].(IndirectRef)
	return ref, ok
}

// Has checks if a key exists in the dictionary
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Keys returns all keys in sorted order
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stream represents a PDF stream object. Data holds the raw, still
// encoded bytes between the stream and endstream keywords.
type Stream struct {
	Dict Dict
	Data []byte
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.Data))
}

// IndirectRef represents an indirect object reference
type IndirectRef struct {
	Number     int
	Generation int
}

func (r IndirectRef) Type() ObjectType { return ObjIndirect }
func (r IndirectRef) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// IndirectObject is an object together with the reference it was defined under
type IndirectObject struct {
	Ref    IndirectRef
	Object Object
}

// ToFloat converts an Int or Real to float64
func ToFloat(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

package core

import "fmt"

// ObjectStream is a decoded /Type /ObjStm stream: N objects stored after a
// header of "objnum offset" pairs, offsets relative to /First.
type ObjectStream struct {
	decoded []byte
	first   int
	offsets []objectStreamOffset
}

type objectStreamOffset struct {
	ObjNum int
	Offset int
}

// NewObjectStream validates the stream dictionary, decodes the data and
// reads the header.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
		return nil, Corruptf("stream is not an object stream (type %q)", t)
	}
	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, Corruptf("object stream has invalid /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, Corruptf("object stream has invalid /First")
	}

	decoded, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode object stream: %w", err)
	}
	if int(first) > len(decoded) {
		return nil, Corruptf("object stream /First %d exceeds data length %d", first, len(decoded))
	}

	os := &ObjectStream{decoded: decoded, first: int(first)}
	parser := NewParser(decoded[:first])
	for i := 0; i < int(n); i++ {
		num, err := parser.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("object stream header entry %d: %w", i, err)
		}
		off, err := parser.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("object stream header entry %d: %w", i, err)
		}
		numInt, ok1 := num.(Int)
		offInt, ok2 := off.(Int)
		if !ok1 || !ok2 {
			return nil, Corruptf("object stream header entry %d is not an integer pair", i)
		}
		os.offsets = append(os.offsets, objectStreamOffset{ObjNum: int(numInt), Offset: int(offInt)})
	}
	return os, nil
}

// N returns the number of objects listed in the header
func (os *ObjectStream) N() int { return len(os.offsets) }

// GetObjectByIndex parses the object at the given header index and returns
// it with its object number.
func (os *ObjectStream) GetObjectByIndex(index int) (Object, int, error) {
	if index < 0 || index >= len(os.offsets) {
		return nil, 0, Corruptf("object stream index %d out of range [0, %d)", index, len(os.offsets))
	}
	entry := os.offsets[index]
	start := os.first + entry.Offset
	if start < os.first || start >= len(os.decoded) {
		return nil, 0, Corruptf("object %d offset %d outside object stream", entry.ObjNum, entry.Offset)
	}
	obj, err := NewParser(os.decoded[start:]).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("object %d in object stream: %w", entry.ObjNum, err)
	}
	return obj, entry.ObjNum, nil
}

// GetObjectByNumber finds an object by number. index is the hint from the
// cross-reference entry and is checked first.
func (os *ObjectStream) GetObjectByNumber(objNum, index int) (Object, error) {
	if index >= 0 && index < len(os.offsets) && os.offsets[index].ObjNum == objNum {
		obj, _, err := os.GetObjectByIndex(index)
		return obj, err
	}
	for i, entry := range os.offsets {
		if entry.ObjNum == objNum {
			obj, _, err := os.GetObjectByIndex(i)
			return obj, err
		}
	}
	return nil, Corruptf("object %d not found in object stream", objNum)
}

package core

import (
	"errors"
	"testing"

	"github.com/tsawler/pdfstruct/internal/pdftest"
)

// TestStreamDecode tests single filters and filter chains
func TestStreamDecode(t *testing.T) {
	tests := []struct {
		name string
		dict Dict
		data []byte
		want string
	}{
		{"no filter", Dict{}, []byte("raw"), "raw"},
		{"flate", Dict{"Filter": Name("FlateDecode")}, pdftest.Deflate([]byte("inflated")), "inflated"},
		{"hex", Dict{"Filter": Name("AHx")}, []byte("414243>"), "ABC"},
		{
			"chain",
			Dict{"Filter": Array{Name("ASCIIHexDecode"), Name("RunLengthDecode")}},
			[]byte("FE78 80>"),
			"xxx",
		},
		{"image filter passes through", Dict{"Filter": Name("DCTDecode")}, []byte{0xff, 0xd8}, "\xff\xd8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := (&Stream{Dict: tt.dict, Data: tt.data}).Decode()
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestStreamDecodeErrors tests error classes for bad filters and data
func TestStreamDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		dict Dict
		data []byte
		want error
	}{
		{"unknown filter", Dict{"Filter": Name("BogusDecode")}, []byte("x"), ErrUnsupportedFeature},
		{"crypt filter", Dict{"Filter": Name("Crypt")}, []byte("x"), ErrUnsupportedFeature},
		{"damaged flate", Dict{"Filter": Name("FlateDecode")}, []byte("not zlib"), ErrCorruptDocument},
		{"filter not a name", Dict{"Filter": Array{Int(1)}}, []byte("x"), ErrCorruptDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Stream{Dict: tt.dict, Data: tt.data}).Decode()
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

// TestObjectStream tests reading objects out of an /ObjStm
func TestObjectStream(t *testing.T) {
	body := "10 0 11 6 (ten) << /Eleven true >>"
	s := &Stream{
		Dict: Dict{"Type": Name("ObjStm"), "N": Int(2), "First": Int(10)},
		Data: []byte(body),
	}
	os, err := NewObjectStream(s)
	if err != nil {
		t.Fatalf("NewObjectStream failed: %v", err)
	}
	if os.N() != 2 {
		t.Errorf("N() = %d, want 2", os.N())
	}

	obj, err := os.GetObjectByNumber(11, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := obj.(Dict); !ok || !d.Has("Eleven") {
		t.Errorf("object 11 = %v", obj)
	}
	obj, err = os.GetObjectByNumber(10, 5)
	if err != nil || obj.String() != "ten" {
		t.Errorf("object 10 = %v, %v", obj, err)
	}
	if _, err := os.GetObjectByNumber(12, 0); !errors.Is(err, ErrCorruptDocument) {
		t.Errorf("missing object: got %v", err)
	}
}

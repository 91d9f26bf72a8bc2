package font

import "testing"

// TestParseCMap tests bfchar, bfrange and array destinations
func TestParseCMap(t *testing.T) {
	data := []byte(`/CIDInit /ProcSet findresource begin
begincmap
1 begincodespacerange <00> <FF> endcodespacerange
3 beginbfchar
<01> <0041>
<02> <00660069>
<03> /emdash
endbfchar
2 beginbfrange
<10> <12> <0030>
<20> <21> [<0058> <D83DDE00>]
endbfrange
endcmap`)
	cm := ParseCMap(data)

	tests := []struct {
		code uint32
		want string
		ok   bool
	}{
		{0x01, "A", true},
		{0x02, "fi", true},
		{0x03, "—", true},
		{0x10, "0", true},
		{0x12, "2", true},
		{0x13, "", false},
		{0x20, "X", true},
		{0x21, "😀", true},
		{0x99, "", false},
	}
	for _, tt := range tests {
		got, ok := cm.Lookup(tt.code)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(%#x): expected %q %v, got %q %v", tt.code, tt.want, tt.ok, got, ok)
		}
	}
	if cm.Len() != 6 {
		t.Errorf("expected 6 mappings, got %d", cm.Len())
	}
}

// TestCMapCodespaceLengths tests mixed one- and two-byte codespaces
func TestCMapCodespaceLengths(t *testing.T) {
	cm := ParseCMap([]byte(`2 begincodespacerange
<00> <80>
<8140> <9FFC>
endcodespacerange`))

	data := []byte{0x41, 0x81, 0x40, 0x42}
	var codes []uint32
	for i := 0; i < len(data); {
		code, n := cm.nextCode(data, i, 2)
		codes = append(codes, code)
		i += n
	}
	want := []uint32{0x41, 0x8140, 0x42}
	if len(codes) != len(want) {
		t.Fatalf("expected %d codes, got %v", len(want), codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("code %d: expected %#x, got %#x", i, want[i], codes[i])
		}
	}
}

// TestParseCMapSkipsProcedures tests that unreadable syntax is skipped
func TestParseCMapSkipsProcedures(t *testing.T) {
	cm := ParseCMap([]byte(`/Proc { dup pop } def
1 beginbfchar <41> <0042> endbfchar`))
	if got, _ := cm.Lookup(0x41); got != "B" {
		t.Errorf("expected B, got %q", got)
	}
}

// TestNilCMap tests lookups on a missing map
func TestNilCMap(t *testing.T) {
	var cm *CMap
	if _, ok := cm.Lookup(1); ok {
		t.Error("expected no mapping")
	}
	code, n := cm.nextCode([]byte{0x12, 0x34}, 0, 2)
	if code != 0x1234 || n != 2 {
		t.Errorf("expected 0x1234/2, got %#x/%d", code, n)
	}
}

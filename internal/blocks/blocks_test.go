package blocks

import "testing"

func TestLookup_CaseInsensitive(t *testing.T) {
	for _, name := range []string{"Mathematical Operators", "mathematical operators", "MATHEMATICAL OPERATORS"} {
		b, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) not found", name)
		}
		if b.Start != 0x2200 || b.End != 0x22FF {
			t.Fatalf("Lookup(%q) = %X..%X, want 2200..22FF", name, b.Start, b.End)
		}
	}
}

func TestLookup_NotFound(t *testing.T) {
	if _, ok := Lookup("Mathematical"); ok {
		t.Fatal("partial names must not match")
	}
}

func TestTable_Ordered(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("empty block table")
	}
	for i, b := range all {
		if b.Start > b.End {
			t.Fatalf("block %q has start > end", b.Name)
		}
		if i > 0 && all[i-1].End >= b.Start {
			t.Fatalf("blocks %q and %q overlap or are out of order", all[i-1].Name, b.Name)
		}
	}
}

func TestOf(t *testing.T) {
	b, ok := Of(0x203D)
	if !ok || b.Name != "General Punctuation" {
		t.Fatalf("Of(U+203D) = %+v, %v", b, ok)
	}
	if _, ok := Of(0x0870 - 1); !ok {
		t.Fatal("U+086F should be inside a block")
	}
	if _, ok := Of(MaxCodepoint + 1); ok {
		t.Fatal("codepoint beyond the Unicode range must not match")
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		spec       string
		start, end rune
		ok         bool
	}{
		{"0x2200-0x22ff", 0x2200, 0x22FF, true},
		{"x2200-x22FF", 0x2200, 0x22FF, true},
		{"65-90", 65, 90, true},
		{"0x41-90", 0x41, 90, true},
		{"90-65", 0, 0, false},
		{"65", 0, 0, false},
		{"a-b", 0, 0, false},
		{"0-0x110000", 0, 0, false},
	}
	for _, tt := range tests {
		start, end, ok := ParseRange(tt.spec)
		if ok != tt.ok || start != tt.start || end != tt.end {
			t.Errorf("ParseRange(%q) = %d, %d, %v; want %d, %d, %v", tt.spec, start, end, ok, tt.start, tt.end, tt.ok)
		}
	}
}

func TestResolve_RangeAndBlockAgree(t *testing.T) {
	byName, ok := Resolve("Mathematical Operators")
	if !ok {
		t.Fatal("block name not resolved")
	}
	byRange, ok := Resolve("0x2200-0x22ff")
	if !ok {
		t.Fatal("range not resolved")
	}
	if byName.Start != byRange.Start || byName.End != byRange.End {
		t.Fatalf("name %X..%X differs from range %X..%X", byName.Start, byName.End, byRange.Start, byRange.End)
	}
}

func TestResolve_HyphenatedBlockName(t *testing.T) {
	b, ok := Resolve("latin-1 supplement")
	if !ok || b.Start != 0x80 || b.End != 0xFF {
		t.Fatalf("Resolve(latin-1 supplement) = %+v, %v", b, ok)
	}
}

func TestTable_Unicode15Blocks(t *testing.T) {
	if n := len(All()); n != 327 {
		t.Fatalf("len(All()) = %d, want 327", n)
	}
	tests := []struct {
		name       string
		start, end rune
	}{
		{"Arabic Extended-C", 0x10EC0, 0x10EFF},
		{"Devanagari Extended-A", 0x11B00, 0x11B5F},
		{"Kawi", 0x11F00, 0x11F5F},
		{"Kaktovik Numerals", 0x1D2C0, 0x1D2DF},
		{"Cyrillic Extended-D", 0x1E030, 0x1E08F},
		{"Nag Mundari", 0x1E4D0, 0x1E4FF},
		{"CJK Unified Ideographs Extension H", 0x31350, 0x323AF},
	}
	for _, tt := range tests {
		b, ok := Lookup(tt.name)
		if !ok || b.Start != tt.start || b.End != tt.end {
			t.Errorf("Lookup(%q) = %X..%X, %v; want %X..%X", tt.name, b.Start, b.End, ok, tt.start, tt.end)
		}
	}
	if b, ok := Of(0x11F00); !ok || b.Name != "Kawi" {
		t.Errorf("Of(U+11F00) = %+v, %v", b, ok)
	}
}

package charset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCount_AscendingUnique(t *testing.T) {
	got := Count("banana‽!")
	want := CharSet{{Char: '!', Count: 1}, {Char: 'a', Count: 3}, {Char: 'b', Count: 1}, {Char: 'n', Count: 2}, {Char: 0x203D, Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Count() mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Char >= got[i].Char {
			t.Fatalf("entries not strictly ascending at %d", i)
		}
	}
}

func TestCount_Empty(t *testing.T) {
	if got := Count(""); len(got) != 0 {
		t.Fatalf("Count(\"\") = %v, want empty", got)
	}
}

func TestFromRunes_KeepsDuplicates(t *testing.T) {
	got := FromRunes([]rune{'b', 'a', 'b'})
	want := CharSet{{Char: 'b', Count: 1}, {Char: 'a', Count: 1}, {Char: 'b', Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FromRunes() mismatch (-want +got):\n%s", diff)
	}
}

func TestSorted_ByCountIsStableCopy(t *testing.T) {
	cs := CharSet{{Char: 'a', Count: 1}, {Char: 'b', Count: 5}, {Char: 'c', Count: 1}, {Char: 'd', Count: 5}}
	got := cs.Sorted(ByCount)
	want := CharSet{{Char: 'b', Count: 5}, {Char: 'd', Count: 5}, {Char: 'a', Count: 1}, {Char: 'c', Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Sorted(ByCount) mismatch (-want +got):\n%s", diff)
	}
	if cs[0].Char != 'a' {
		t.Fatal("Sorted must not modify the receiver")
	}
}

func TestSorted_ByCodepoint(t *testing.T) {
	cs := CharSet{{Char: 'c', Count: 1}, {Char: 'a', Count: 2}, {Char: 'b', Count: 3}}
	got := cs.Sorted(ByCodepoint)
	if diff := cmp.Diff([]rune{'a', 'b', 'c'}, got.Runes()); diff != "" {
		t.Fatalf("Sorted(ByCodepoint) mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalAndContains(t *testing.T) {
	cs := CharSet{{Char: 'a', Count: 2}, {Char: 'b', Count: 3}}
	if cs.Total() != 5 {
		t.Fatalf("Total() = %d, want 5", cs.Total())
	}
	if !cs.Contains('b') || cs.Contains('z') {
		t.Fatal("Contains() wrong")
	}
	if _, ok := cs.Set()['a']; !ok {
		t.Fatal("Set() missing 'a'")
	}
}

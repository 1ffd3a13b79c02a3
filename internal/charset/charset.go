// Package charset defines the ordered character sequences shared by every
// input source: a CharSet is a list of (character, count) pairs.
package charset

import (
	"sort"
)

// Entry is a single character together with its number of occurrences.
type Entry struct {
	Char  rune
	Count int
}

// CharSet is an ordered sequence of entries. Set-like sources use a count
// of one per entry; frequency tables carry the number of occurrences.
type CharSet []Entry

// FromRunes builds a set-like CharSet, one entry per rune, keeping order
// and duplicates.
func FromRunes(rs []rune) CharSet {
	cs := make(CharSet, len(rs))
	for i, r := range rs {
		cs[i] = Entry{Char: r, Count: 1}
	}
	return cs
}

// Count builds the frequency table of s, ordered by ascending codepoint.
// Invalid UTF-8 bytes count as U+FFFD.
func Count(s string) CharSet {
	freq := make(map[rune]int)
	for _, r := range s {
		freq[r]++
	}
	cs := make(CharSet, 0, len(freq))
	for r, n := range freq {
		cs = append(cs, Entry{Char: r, Count: n})
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].Char < cs[j].Char })
	return cs
}

// Runes returns the characters of cs in order.
func (cs CharSet) Runes() []rune {
	rs := make([]rune, len(cs))
	for i, e := range cs {
		rs[i] = e.Char
	}
	return rs
}

// Total returns the sum of all counts.
func (cs CharSet) Total() int {
	total := 0
	for _, e := range cs {
		total += e.Count
	}
	return total
}

// Contains reports whether r occurs in cs.
func (cs CharSet) Contains(r rune) bool {
	for _, e := range cs {
		if e.Char == r {
			return true
		}
	}
	return false
}

// Set returns the distinct characters of cs as a lookup set.
func (cs CharSet) Set() map[rune]struct{} {
	set := make(map[rune]struct{}, len(cs))
	for _, e := range cs {
		set[e.Char] = struct{}{}
	}
	return set
}

// Order selects how a CharSet is sorted for display.
type Order int

const (
	// ByCodepoint sorts by ascending codepoint.
	ByCodepoint Order = iota
	// ByCount sorts by descending count; ties keep their relative order.
	ByCount
)

// Sorted returns a sorted copy of cs. The receiver is not modified.
func (cs CharSet) Sorted(order Order) CharSet {
	res := make(CharSet, len(cs))
	copy(res, cs)
	switch order {
	case ByCount:
		sort.SliceStable(res, func(i, j int) bool { return res[i].Count > res[j].Count })
	default:
		sort.SliceStable(res, func(i, j int) bool { return res[i].Char < res[j].Char })
	}
	return res
}

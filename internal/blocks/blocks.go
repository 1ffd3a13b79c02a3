// Package blocks provides the static table of Unicode blocks and the
// parsing of codepoint range specifications.
package blocks

//go:generate go run gen.go -in Blocks.txt -out tables.go

import (
	"strconv"
	"strings"
)

// MaxCodepoint is the largest valid Unicode codepoint.
const MaxCodepoint = 0x10FFFF

// Block is a named, contiguous range of codepoints.
type Block struct {
	Start rune
	End   rune
	Name  string
}

// Contains reports whether r lies inside the block.
func (b Block) Contains(r rune) bool {
	return b.Start <= r && r <= b.End
}

// Size returns the number of codepoints covered by the block.
func (b Block) Size() int {
	return int(b.End-b.Start) + 1
}

// All returns a copy of the block table, in ascending codepoint order.
func All() []Block {
	res := make([]Block, len(table))
	copy(res, table[:])
	return res
}

// Lookup finds a block by its name. The match is exact but case-insensitive.
func Lookup(name string) (Block, bool) {
	for _, b := range table {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Block{}, false
}

// Of returns the block containing r.
func Of(r rune) (Block, bool) {
	lo, hi := 0, len(table)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch b := table[mid]; {
		case r < b.Start:
			hi = mid
		case r > b.End:
			lo = mid + 1
		default:
			return b, true
		}
	}
	return Block{}, false
}

// Resolve interprets spec either as an explicit "start-stop" range or as
// a block name. Numbers are decimal unless prefixed by "0x" or "x".
// The resulting block is unnamed for explicit ranges.
func Resolve(spec string) (Block, bool) {
	spec = strings.TrimSpace(spec)
	if start, end, ok := ParseRange(spec); ok {
		return Block{Start: start, End: end}, true
	}
	return Lookup(spec)
}

// ParseRange parses a "start-stop" specification. Both bounds are
// inclusive and must satisfy 0 <= start <= stop <= MaxCodepoint.
func ParseRange(spec string) (start, end rune, ok bool) {
	lo, hi, found := strings.Cut(spec, "-")
	if !found {
		return 0, 0, false
	}
	a, err := ParseCodepoint(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, false
	}
	b, err := ParseCodepoint(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, false
	}
	if a > b {
		return 0, 0, false
	}
	return a, b, true
}

// ParseCodepoint parses a single codepoint, hexadecimal with a "0x" or "x"
// prefix and decimal otherwise.
func ParseCodepoint(s string) (rune, error) {
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "x"):
		s, base = s[1:], 16
	}
	n, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, err
	}
	if n > MaxCodepoint {
		return 0, strconv.ErrRange
	}
	return rune(n), nil
}

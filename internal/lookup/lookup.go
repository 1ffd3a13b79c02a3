// Package lookup finds Unicode characters by character, codepoint or name
// and formats their metadata.
package lookup

import (
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/yuanying/glyphigo/internal/ucd"
)

var (
	hexQueryRe = regexp.MustCompile(`^(?:0x|x)([0-9a-fA-F]+)$`)
	decQueryRe = regexp.MustCompile(`^d?([0-9]+)$`)
)

// Finder runs lookups against a Unicode database.
type Finder struct {
	DB ucd.Database

	// Workers bounds the parallelism of Heuristic. Values below one mean
	// runtime.GOMAXPROCS(0).
	Workers int
}

// New returns a Finder over db.
func New(db ucd.Database) *Finder {
	return &Finder{DB: db}
}

// Exact interprets query as a single character, a codepoint ("0x203d",
// "x203d", "d8253" or "8253") or a character name, ignoring case. It
// returns nil when nothing matches.
func (f *Finder) Exact(query string) []rune {
	if query == "" {
		return nil
	}
	if utf8.RuneCountInString(query) == 1 {
		r, _ := utf8.DecodeRuneInString(query)
		return []rune{r}
	}
	if m := hexQueryRe.FindStringSubmatch(query); m != nil {
		return codepoint(m[1], 16)
	}
	if m := decQueryRe.FindStringSubmatch(query); m != nil {
		return codepoint(m[1], 10)
	}
	if r, ok := f.DB.LookupName(query); ok {
		return []rune{r}
	}
	return nil
}

func codepoint(digits string, base int) []rune {
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil || n > unicode.MaxRune {
		return nil
	}
	return []rune{rune(n)}
}

// Heuristic returns, in ascending order, every character whose name
// contains all whitespace-separated words of query as whole words. Words
// are compared in upper case. A query without words matches nothing.
//
// The whole codepoint space is scanned; the scan is split into contiguous
// ranges handled in parallel.
func (f *Finder) Heuristic(query string) []rune {
	words := strings.Fields(strings.ToUpper(query))
	if len(words) == 0 {
		return nil
	}

	workers := f.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	const total = unicode.MaxRune + 1
	chunk := (total + workers - 1) / workers

	parts := make([][]rune, workers)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		lo := rune(i * chunk)
		hi := min(lo+rune(chunk), total)
		g.Go(func() error {
			parts[i] = f.scan(lo, hi, words)
			return nil
		})
	}
	_ = g.Wait()

	var out []rune
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// scan matches the codepoints in [lo, hi).
func (f *Finder) scan(lo, hi rune, words []string) []rune {
	var out []rune
	for r := lo; r < hi; r++ {
		name, ok := f.DB.Name(r)
		if !ok {
			continue
		}
		if containsWords(strings.Split(name, " "), words) {
			out = append(out, r)
		}
	}
	return out
}

func containsWords(nameWords, words []string) bool {
	for _, w := range words {
		found := false
		for _, nw := range nameWords {
			if nw == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

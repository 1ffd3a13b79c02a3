// Package coverage compares the characters a document needs against the
// characters a font provides.
package coverage

import (
	"fmt"

	"github.com/yuanying/glyphigo/internal/charset"
	"github.com/yuanying/glyphigo/internal/fontdriver"
)

// lastControl is the largest codepoint excluded from coverage checks.
const lastControl = 31

// Compare returns the entries of target whose character is missing from
// font, in target order and with target counts. Control characters
// (U+0000 to U+001F) are never reported.
func Compare(font, target charset.CharSet) charset.CharSet {
	have := font.Set()
	missing := charset.CharSet{}
	for _, e := range target {
		if e.Char <= lastControl {
			continue
		}
		if _, ok := have[e.Char]; !ok {
			missing = append(missing, e)
		}
	}
	return missing
}

// Report is the outcome of a coverage check.
type Report struct {
	Font    charset.CharSet
	Target  charset.CharSet
	Missing charset.CharSet
}

// Check compares target against font.
func Check(font, target charset.CharSet) Report {
	return Report{
		Font:    font,
		Target:  target,
		Missing: Compare(font, target),
	}
}

// Complete reports whether the font covers every checked character.
func (r Report) Complete() bool {
	return len(r.Missing) == 0
}

// Minimize removes from f every glyph not needed by target and writes the
// result to output. It returns the characters of target that f provides,
// in target order.
func Minimize(f fontdriver.Font, target charset.CharSet, output string) ([]rune, error) {
	have := make(map[rune]bool)
	for _, r := range f.AssignedGlyphs() {
		have[r] = true
	}

	var found []rune
	for _, e := range target {
		if have[e.Char] && f.SelectByUnicode(e.Char) {
			found = append(found, e.Char)
		}
	}
	f.InvertSelection()
	f.ClearSelected()
	if err := f.Generate(output); err != nil {
		return found, fmt.Errorf("failed to write minimized font: %w", err)
	}
	return found, nil
}

// Convert writes f, with all its glyphs, to output.
func Convert(f fontdriver.Font, output string) error {
	if err := f.Generate(output); err != nil {
		return fmt.Errorf("failed to convert font: %w", err)
	}
	return nil
}

// Package fontdriver is the narrow font-editing capability used by the
// coverage commands: open a font, list its encoded characters, select
// glyphs by codepoint, invert the selection, clear what is selected and
// write the result.
package fontdriver

import "errors"

var (
	ErrOpenFont = errors.New("failed to open font")
	ErrNoCMap   = errors.New("font has no usable cmap subtable")
	ErrGenerate = errors.New("failed to generate font")
)

// Driver opens fonts.
type Driver interface {
	Open(path string) (Font, error)
}

// Font is an open font. Implementations are not safe for concurrent use.
type Font interface {
	// Name returns a human readable font name, or the file name.
	Name() string
	// AssignedGlyphs returns every codepoint that maps to a glyph, each
	// once, in cmap order.
	AssignedGlyphs() []rune
	// SelectByUnicode adds the glyph encoded at r to the selection and
	// reports whether such a glyph exists.
	SelectByUnicode(r rune) bool
	// InvertSelection selects exactly the glyphs which are not selected.
	InvertSelection()
	// ClearSelected removes the selected glyphs and empties the selection.
	ClearSelected()
	// Generate writes the font, without the cleared glyphs, to path.
	Generate(path string) error
	Close() error
}

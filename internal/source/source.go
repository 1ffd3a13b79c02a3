// Package source builds character sets from the supported inputs: fonts,
// glyph list files, codepoint ranges or block names, e-book archives and
// plain text files.
package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/yuanying/glyphigo/internal/blocks"
	"github.com/yuanying/glyphigo/internal/charset"
	"github.com/yuanying/glyphigo/internal/epub"
	"github.com/yuanying/glyphigo/internal/fontdriver"
	"github.com/yuanying/glyphigo/internal/textclean"
)

var (
	// ErrFileAccess wraps failures to open or read an input file.
	ErrFileAccess = errors.New("file access error")
	// ErrUnknownEncoding is returned for encoding labels that are not
	// recognized.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// Loader reads character sets. The zero value reads UTF-8 input, strips
// markup and logs to slog.Default().
type Loader struct {
	// Encoding is the label of the encoding of glyph lists and plain
	// files, e.g. "utf-8" or "iso-8859-1". Empty means UTF-8.
	Encoding string
	// PreserveMarkup disables tag stripping for e-books and plain files.
	PreserveMarkup bool
	// Driver opens fonts for FontFile.
	Driver fontdriver.Driver
	Logger *slog.Logger
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// ValidateEncoding checks that label names a known encoding.
func ValidateEncoding(label string) error {
	_, err := lookupEncoding(label)
	return err
}

func lookupEncoding(label string) (encoding.Encoding, error) {
	if label == "" || strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	return enc, nil
}

// readText reads a whole file and decodes it with the configured
// encoding. Invalid byte sequences are dropped.
func (l *Loader) readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	enc, err := lookupEncoding(l.Encoding)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return strings.ToValidUTF8(string(data), ""), nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		l.logger().Debug("decoding failed, dropping invalid bytes", "path", path, "error", err)
		return strings.ToValidUTF8(string(data), ""), nil
	}
	// decoders substitute U+FFFD for invalid input
	return strings.ReplaceAll(string(decoded), string(utf8.RuneError), ""), nil
}

// FontGlyphs returns the characters encoded in an open font, each once,
// in the driver's enumeration order.
func FontGlyphs(f fontdriver.Font) charset.CharSet {
	glyphs := f.AssignedGlyphs()
	seen := make(map[rune]bool, len(glyphs))
	out := make([]rune, 0, len(glyphs))
	for _, r := range glyphs {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return charset.FromRunes(out)
}

// FontFile opens the font at path with the loader's driver and returns
// its characters.
func (l *Loader) FontFile(path string) (charset.CharSet, error) {
	driver := l.Driver
	if driver == nil {
		driver = fontdriver.SFNT{Logger: l.Logger}
	}
	f, err := driver.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	defer f.Close()
	return FontGlyphs(f), nil
}

// GlyphList reads a glyph list file.
func (l *Loader) GlyphList(path string) (charset.CharSet, error) {
	text, err := l.readText(path)
	if err != nil {
		return nil, err
	}
	cs, skipped := ParseGlyphList(text)
	if skipped > 0 {
		l.logger().Debug("skipped malformed glyph list lines", "path", path, "count", skipped)
	}
	return cs, nil
}

// ParseGlyphList parses glyph list text: one codepoint per line, decimal
// or hexadecimal with a "0x" or "x" prefix, optionally signed with a
// single "+". Blank lines and lines starting with "#" are ignored. Lines that do not parse are skipped and counted.
// Duplicates are kept.
func ParseGlyphList(text string) (cs charset.CharSet, skipped int) {
	var out []rune
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		r, err := blocks.ParseCodepoint(strings.TrimPrefix(strings.TrimSpace(line), "+"))
		if err != nil {
			skipped++
			continue
		}
		out = append(out, r)
	}
	return charset.FromRunes(out), skipped
}

// Range returns every codepoint of a "start-stop" range or of the named
// block, in ascending order. An unmatched spec yields an empty set.
func Range(spec string) charset.CharSet {
	b, ok := blocks.Resolve(spec)
	if !ok {
		return charset.CharSet{}
	}
	cs := make(charset.CharSet, 0, b.Size())
	for r := b.Start; r <= b.End; r++ {
		cs = append(cs, charset.Entry{Char: r, Count: 1})
	}
	return cs
}

// Ebook concatenates the text entries of a zip archive, in listing order,
// and counts their characters. Entries that are not valid UTF-8 or cannot
// be read are skipped.
func (l *Loader) Ebook(path string) (charset.CharSet, error) {
	a, err := epub.OpenArchive(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	defer a.Close()

	var sb strings.Builder
	for _, f := range a.TextEntries() {
		data, err := epub.ReadEntry(f)
		if err != nil {
			l.logger().Warn("skipping unreadable entry", "entry", f.Name, "error", err)
			continue
		}
		if !utf8.Valid(data) {
			l.logger().Debug("skipping entry that is not UTF-8", "entry", f.Name)
			continue
		}
		sb.Write(data)
	}
	return textclean.Clean(sb.String(), l.PreserveMarkup), nil
}

// PlainFile reads a text file and counts its characters.
func (l *Loader) PlainFile(path string) (charset.CharSet, error) {
	text, err := l.readText(path)
	if err != nil {
		return nil, err
	}
	return textclean.Clean(text, l.PreserveMarkup), nil
}

package fontdriver

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	xsfnt "golang.org/x/image/font/sfnt"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// SFNT is a Driver for TrueType and OpenType fonts.
type SFNT struct {
	Logger *slog.Logger
}

// Open reads and parses the font file at path.
func (d SFNT) Open(path string) (Font, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpenFont, path, err)
	}
	info, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpenFont, path, err)
	}

	f := &sfntFont{
		path:     path,
		name:     fullName(data, path),
		info:     info,
		cmap:     make(map[rune]glyph.ID),
		selected: make(map[glyph.ID]bool),
		cleared:  make(map[glyph.ID]bool),
		logger:   logger,
	}
	if err := f.readCMap(); err != nil {
		logger.Warn("font has no usable cmap", "path", path, "error", err)
	}
	logger.Debug("opened font", "path", path, "name", f.name,
		"glyphs", info.NumGlyphs(), "encoded", len(f.order))
	return f, nil
}

// fullName returns the full font name from the name table, falling back
// to the base file name.
func fullName(data []byte, path string) string {
	if sf, err := xsfnt.Parse(data); err == nil {
		if name, err := sf.Name(nil, xsfnt.NameIDFull); err == nil && name != "" {
			return name
		}
	}
	return filepath.Base(path)
}

type sfntFont struct {
	path string
	name string
	info *sfnt.Font

	cmap  map[rune]glyph.ID
	order []rune

	selected map[glyph.ID]bool
	cleared  map[glyph.ID]bool

	logger *slog.Logger
}

func (f *sfntFont) readCMap() error {
	if f.info.CMapTable == nil {
		return ErrNoCMap
	}
	subtable, err := f.info.CMapTable.GetBest()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoCMap, err)
	}
	low, high := subtable.CodeRange()
	for r := low; r <= high; r++ {
		gid := subtable.Lookup(r)
		if gid == 0 {
			continue
		}
		f.cmap[r] = gid
		f.order = append(f.order, r)
	}
	return nil
}

func (f *sfntFont) Name() string {
	return f.name
}

func (f *sfntFont) AssignedGlyphs() []rune {
	out := make([]rune, 0, len(f.order))
	for _, r := range f.order {
		if !f.cleared[f.cmap[r]] {
			out = append(out, r)
		}
	}
	return out
}

func (f *sfntFont) SelectByUnicode(r rune) bool {
	gid, ok := f.cmap[r]
	if !ok || f.cleared[gid] {
		return false
	}
	f.selected[gid] = true
	return true
}

func (f *sfntFont) InvertSelection() {
	n := f.info.NumGlyphs()
	inverted := make(map[glyph.ID]bool, n-len(f.selected))
	for i := 0; i < n; i++ {
		gid := glyph.ID(i)
		if !f.selected[gid] && !f.cleared[gid] {
			inverted[gid] = true
		}
	}
	f.selected = inverted
}

func (f *sfntFont) ClearSelected() {
	for gid := range f.selected {
		f.cleared[gid] = true
	}
	f.logger.Debug("cleared glyphs", "count", len(f.selected))
	f.selected = make(map[glyph.ID]bool)
}

func (f *sfntFont) Generate(path string) error {
	out := f.info
	if len(f.cleared) > 0 {
		out = f.subset()
	}

	buf := &bytes.Buffer{}
	if _, err := out.Write(buf); err != nil {
		return fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	f.logger.Debug("generated font", "path", path, "bytes", buf.Len())
	return nil
}

// subset builds a copy of the font holding .notdef and every glyph which
// was not cleared, with a cmap rebuilt for the new glyph ids.
func (f *sfntFont) subset() *sfnt.Font {
	n := f.info.NumGlyphs()
	keep := []glyph.ID{0}
	newGID := map[glyph.ID]glyph.ID{0: 0}
	for i := 1; i < n; i++ {
		gid := glyph.ID(i)
		if f.cleared[gid] {
			continue
		}
		newGID[gid] = glyph.ID(len(keep))
		keep = append(keep, gid)
	}

	mapping := make(map[rune]glyph.ID)
	for _, r := range f.order {
		if gid, ok := newGID[f.cmap[r]]; ok && gid != 0 {
			mapping[r] = gid
		}
	}

	orig := f.info.Clone()
	orig.CMapTable = nil
	orig.Gdef = nil
	orig.Gsub = nil
	orig.Gpos = nil
	sub := orig.Subset(keep)
	sub.CMapTable = buildCMap(mapping)
	return sub
}

// buildCMap encodes mapping as a Windows Unicode cmap. A format 12
// subtable is added when characters outside the BMP are present.
func buildCMap(mapping map[rune]glyph.ID) cmap.Table {
	bmp := cmap.Format4{}
	full := false
	for r, gid := range mapping {
		if r > 0xFFFF {
			full = true
			continue
		}
		bmp[uint16(r)] = gid
	}

	table := cmap.Table{
		{PlatformID: 0, EncodingID: 3}: bmp.Encode(0),
		{PlatformID: 3, EncodingID: 1}: bmp.Encode(0),
	}
	if full {
		data := encodeFormat12(mapping)
		table[cmap.Key{PlatformID: 0, EncodingID: 4}] = data
		table[cmap.Key{PlatformID: 3, EncodingID: 10}] = data
	}
	return table
}

type segment12 struct {
	start, end rune
	startGID   glyph.ID
}

// encodeFormat12 encodes a segmented coverage subtable: runs of
// consecutive codepoints mapped to consecutive glyphs form one segment.
func encodeFormat12(mapping map[rune]glyph.ID) []byte {
	runes := make([]rune, 0, len(mapping))
	for r := range mapping {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	var segs []segment12
	for _, r := range runes {
		gid := mapping[r]
		if k := len(segs) - 1; k >= 0 {
			last := &segs[k]
			if r == last.end+1 && gid == last.startGID+glyph.ID(r-last.start) {
				last.end = r
				continue
			}
		}
		segs = append(segs, segment12{start: r, end: r, startGID: gid})
	}

	l := 16 + 12*len(segs)
	out := make([]byte, l)
	put32(out[0:], 12<<16)
	put32(out[4:], uint32(l))
	put32(out[8:], 0)
	put32(out[12:], uint32(len(segs)))
	for i, s := range segs {
		base := 16 + 12*i
		put32(out[base:], uint32(s.start))
		put32(out[base+4:], uint32(s.end))
		put32(out[base+8:], uint32(s.startGID))
	}
	return out
}

func put32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func (f *sfntFont) Close() error {
	f.info = nil
	f.cmap = nil
	f.order = nil
	return nil
}

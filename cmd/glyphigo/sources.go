package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuanying/glyphigo/internal/charset"
	"github.com/yuanying/glyphigo/internal/fontdriver"
	"github.com/yuanying/glyphigo/internal/source"
	"github.com/yuanying/glyphigo/internal/ucd"
)

type sourceKind int

const (
	kindFont sourceKind = iota
	kindGlyphs
	kindRange
	kindEbook
	kindPlain
)

// sourceFlag is the flag name of each kind.
var sourceFlag = map[sourceKind]string{
	kindFont:   "font",
	kindGlyphs: "glyphs",
	kindRange:  "range",
	kindEbook:  "ebook",
	kindPlain:  "plain",
}

var sourceLabel = map[sourceKind]string{
	kindFont:   "Font file",
	kindGlyphs: "Glyph list file",
	kindRange:  "Range",
	kindEbook:  "Ebook file",
	kindPlain:  "Plain text file",
}

var (
	fontSide = []sourceKind{kindFont, kindGlyphs, kindRange}
	textSide = []sourceKind{kindEbook, kindPlain}
)

// hasCounts reports whether the kind produces character frequencies.
func (k sourceKind) hasCounts() bool {
	return k == kindEbook || k == kindPlain
}

// sourceRef names one input.
type sourceRef struct {
	Kind sourceKind
	Path string
}

func (r sourceRef) label() string {
	return sourceLabel[r.Kind]
}

func addSourceFlags(cmd *cobra.Command, kinds ...sourceKind) {
	usage := map[sourceKind]string{
		kindFont:   "Font file (TTF/OTF)",
		kindGlyphs: "Glyph list file, one decimal or hexadecimal codepoint per line",
		kindRange:  "Codepoint range \"start-stop\" or Unicode block name",
		kindEbook:  "Ebook in EPUB format",
		kindPlain:  "Plain text file",
	}
	short := map[sourceKind]string{
		kindFont:   "f",
		kindGlyphs: "g",
		kindRange:  "r",
		kindEbook:  "e",
		kindPlain:  "p",
	}
	textInput := false
	for _, k := range kinds {
		cmd.Flags().StringP(sourceFlag[k], short[k], "", usage[k])
		if k.hasCounts() || k == kindGlyphs {
			textInput = true
		}
	}
	if textInput {
		cmd.Flags().String("encoding", "utf-8", "Encoding of glyph list and plain text files")
		cmd.Flags().Bool("preserve-markup", false, "Count X(HT)ML markup instead of stripping it")
	}
}

// markExclusive declares that exactly one of kinds is given.
func markExclusive(cmd *cobra.Command, kinds ...sourceKind) {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = sourceFlag[k]
	}
	if len(names) > 1 {
		cmd.MarkFlagsMutuallyExclusive(names...)
	}
	cmd.MarkFlagsOneRequired(names...)
}

// readSourceRef returns the first of kinds set on cmd.
func readSourceRef(cmd *cobra.Command, kinds ...sourceKind) (sourceRef, error) {
	for _, k := range kinds {
		v, _ := cmd.Flags().GetString(sourceFlag[k])
		if v != "" {
			return sourceRef{Kind: k, Path: v}, nil
		}
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = "--" + sourceFlag[k]
	}
	return sourceRef{}, fmt.Errorf("one of %s is required", strings.Join(names, ", "))
}

// readLoader builds the loader configured by the encoding flags.
func readLoader(cmd *cobra.Command, driver fontdriver.Driver, logger *slog.Logger) (*source.Loader, error) {
	l := &source.Loader{Driver: driver, Logger: logger}
	if f := cmd.Flags().Lookup("encoding"); f != nil {
		l.Encoding = f.Value.String()
		if err := source.ValidateEncoding(l.Encoding); err != nil {
			return nil, fmt.Errorf("invalid --encoding %q: %w", l.Encoding, err)
		}
	}
	l.PreserveMarkup, _ = cmd.Flags().GetBool("preserve-markup")
	return l, nil
}

// load reads ref, printing status messages around the work.
func load(l *source.Loader, con *console, ref sourceRef) (charset.CharSet, error) {
	var done func()
	if ref.Kind.hasCounts() {
		done = con.step("Reading characters appearing in '%s'", ref.Path)
	} else {
		done = con.step("Reading glyphs contained in '%s'", ref.Path)
	}

	var (
		cs  charset.CharSet
		err error
	)
	switch ref.Kind {
	case kindFont:
		cs, err = l.FontFile(ref.Path)
	case kindGlyphs:
		cs, err = l.GlyphList(ref.Path)
	case kindRange:
		if cs = source.Range(ref.Path); len(cs) == 0 {
			con.Warning("Range '%s' matches no Unicode character", ref.Path)
		}
	case kindEbook:
		cs, err = l.Ebook(ref.Path)
	case kindPlain:
		cs, err = l.PlainFile(ref.Path)
	}
	if err != nil {
		if errors.Is(err, source.ErrFileAccess) {
			return nil, withCode(exitInvalidArgument,
				fmt.Errorf("%s '%s' does not exist or it cannot be read: %w", strings.ToLower(ref.label()), ref.Path, err))
		}
		return nil, withCode(exitInvalidArgument, err)
	}
	done()
	return cs, nil
}

var controlEscaper = strings.NewReplacer(
	"\x00", `\0`,
	"\a", `\a`,
	"\b", `\b`,
	"\t", `\t`,
	"\n", `\n`,
	"\v", `\v`,
	"\f", `\f`,
	"\r", `\r`,
)

const unknownName = "UNKNOWN NAME"

// writeCharList prints one line per entry: the decimal codepoint, or with
// verbose the escaped character, decimal and hexadecimal codepoint, name
// and, when withCounts is set, the count.
func writeCharList(w io.Writer, db ucd.Database, cs charset.CharSet, verbose, withCounts bool) error {
	for _, e := range cs {
		var err error
		switch {
		case !verbose:
			_, err = fmt.Fprintf(w, "%d\n", e.Char)
		case withCounts:
			_, err = fmt.Fprintf(w, "'%s'\t%d\t%#x\t%s\t%d\n",
				controlEscaper.Replace(string(e.Char)), e.Char, e.Char, ucd.NameOr(db, e.Char, unknownName), e.Count)
		default:
			_, err = fmt.Fprintf(w, "'%s'\t%d\t%#x\t%s\n",
				controlEscaper.Replace(string(e.Char)), e.Char, e.Char, ucd.NameOr(db, e.Char, unknownName))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// readOrder returns the order selected by --sort.
func readOrder(cmd *cobra.Command) charset.Order {
	if byCount, _ := cmd.Flags().GetBool("sort"); byCount {
		return charset.ByCount
	}
	return charset.ByCodepoint
}

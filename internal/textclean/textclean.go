// Package textclean turns raw (possibly marked-up) text into a character
// frequency table.
//
// Markup handling is deliberately crude: tags are removed with a regular
// expression and there is no awareness of comments, CDATA sections or
// nesting.
package textclean

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/yuanying/glyphigo/internal/charset"
)

// lineBreaks replaces newline and carriage return characters by spaces.
var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

// spaceRunRe matches runs of space characters.
var spaceRunRe = regexp.MustCompile(` +`)

// tagRe matches a single tag, shortest match first.
var tagRe = regexp.MustCompile(`<[^>]+>`)

// entityRe matches entity references. Only lowercase names are recognized.
var entityRe = regexp.MustCompile(`&([#a-z0-9]+);`)

// Clean builds the frequency table of raw. Unless preserveMarkup is set,
// line breaks are flattened and tags are stripped first. Entity
// references are always decoded.
func Clean(raw string, preserveMarkup bool) charset.CharSet {
	if !preserveMarkup {
		raw = StripTags(raw)
	}
	return charset.Count(DecodeEntities(raw))
}

// StripTags replaces line breaks by spaces, collapses runs of spaces and
// removes everything that looks like a tag.
func StripTags(s string) string {
	s = lineBreaks.Replace(s)
	s = spaceRunRe.ReplaceAllString(s, " ")
	return tagRe.ReplaceAllString(s, "")
}

// DecodeEntities substitutes every entity reference in s by the character
// it denotes. References that cannot be resolved are removed.
func DecodeEntities(s string) string {
	return entityRe.ReplaceAllStringFunc(s, func(ref string) string {
		return ResolveEntity(ref[1 : len(ref)-1])
	})
}

// ResolveEntity resolves the inner token of an entity reference, e.g. "amp",
// "eacute", "#233" or "#xe9". It returns the empty string when the token
// does not denote a character.
func ResolveEntity(token string) string {
	switch token {
	case "amp":
		return "&"
	case "lt":
		return "<"
	case "gt":
		return ">"
	case "":
		return ""
	}
	if token[0] != '#' {
		return namedEntity(token)
	}
	if len(token) < 2 {
		return ""
	}
	digits, base := token[1:], 10
	if token[1] == 'x' && len(token) > 2 {
		digits, base = token[2:], 16
	}
	n, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return ""
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return ""
	}
	return string(r)
}

// namedEntity looks name up in the HTML named character reference table.
func namedEntity(name string) string {
	ref := "&" + name + ";"
	s := html.UnescapeString(ref)
	if s == ref {
		return ""
	}
	// A known prefix of an unknown name is expanded by the unescaper and
	// the rest is left in place, ";" included.
	if strings.HasSuffix(s, ";") && s != ";" {
		return ""
	}
	return s
}

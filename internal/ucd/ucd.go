// Package ucd exposes the Unicode character database queries the rest of
// glyphigo needs: names, general category, bidirectional class, case
// mapping and normalization forms.
package ucd

//go:generate go run gen.go -in UnicodeData.txt -out mirrored_table.go

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/runenames"
)

// Database answers metadata queries about single characters.
type Database interface {
	// Name returns the canonical Unicode name of r. Characters without a
	// name (controls, unassigned and private use codepoints) report false.
	Name(r rune) (string, bool)
	Category(r rune) string
	BidirectionalClass(r rune) string
	IsMirrored(r rune) bool
	ToLower(r rune) string
	ToUpper(r rune) string
	NFC(r rune) string
	NFD(r rune) string
	// LookupName finds the character with the given name, ignoring case.
	LookupName(name string) (rune, bool)
}

// Standard is the Database backed by the tables in golang.org/x/text and
// the standard library.
type Standard struct {
	once   sync.Once
	byName map[string]rune
}

// Default is a shared Standard database.
var Default = New()

// New returns a Standard database. The reverse name index is built lazily
// on the first LookupName call.
func New() *Standard {
	return &Standard{}
}

// Name implements Database.
func (db *Standard) Name(r rune) (string, bool) {
	if r < 0 || r > unicode.MaxRune {
		return "", false
	}
	name := runenames.Name(r)
	if name == "" {
		return "", false
	}
	if name[0] == '<' {
		return derivedName(r, name)
	}
	return name, true
}

// derivedName expands the range placeholders of the name table into the
// algorithmic names of UAX #44.
func derivedName(r rune, placeholder string) (string, bool) {
	switch {
	case strings.HasPrefix(placeholder, "<CJK Ideograph"):
		return fmt.Sprintf("CJK UNIFIED IDEOGRAPH-%04X", r), true
	case strings.HasPrefix(placeholder, "<Tangut Ideograph"):
		return fmt.Sprintf("TANGUT IDEOGRAPH-%04X", r), true
	case strings.HasPrefix(placeholder, "<Hangul Syllable"):
		return hangulName(r)
	}
	return "", false
}

const (
	hangulBase   = 0xAC00
	hangulVCount = 21
	hangulTCount = 28
	hangulNCount = hangulVCount * hangulTCount
	hangulSCount = 19 * hangulNCount
)

var (
	jamoL = [...]string{"G", "GG", "N", "D", "DD", "R", "M", "B", "BB", "S", "SS", "", "J", "JJ", "C", "K", "T", "P", "H"}
	jamoV = [...]string{"A", "AE", "YA", "YAE", "EO", "E", "YEO", "YE", "O", "WA", "WAE", "OE", "YO", "U", "WEO", "WE", "WI", "YU", "EU", "YI", "I"}
	jamoT = [...]string{"", "G", "GG", "GS", "N", "NJ", "NH", "D", "L", "LG", "LM", "LB", "LS", "LT", "LP", "LH", "M", "B", "BS", "S", "SS", "NG", "J", "C", "K", "T", "P", "H"}
)

func hangulName(r rune) (string, bool) {
	s := int(r - hangulBase)
	if s < 0 || s >= hangulSCount {
		return "", false
	}
	l := s / hangulNCount
	v := (s % hangulNCount) / hangulTCount
	t := s % hangulTCount
	return "HANGUL SYLLABLE " + jamoL[l] + jamoV[v] + jamoT[t], true
}

// categoryNames holds the two-letter general categories, sorted.
var categoryNames = func() []string {
	var names []string
	for name := range unicode.Categories {
		if len(name) == 2 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}()

// Category implements Database. Unassigned codepoints report "Cn".
func (db *Standard) Category(r rune) string {
	for _, name := range categoryNames {
		if unicode.Is(unicode.Categories[name], r) {
			return name
		}
	}
	return "Cn"
}

var bidiClassNames = map[bidi.Class]string{
	bidi.L:   "L",
	bidi.R:   "R",
	bidi.EN:  "EN",
	bidi.ES:  "ES",
	bidi.ET:  "ET",
	bidi.AN:  "AN",
	bidi.CS:  "CS",
	bidi.B:   "B",
	bidi.S:   "S",
	bidi.WS:  "WS",
	bidi.ON:  "ON",
	bidi.BN:  "BN",
	bidi.NSM: "NSM",
	bidi.AL:  "AL",
	bidi.LRO: "LRO",
	bidi.RLO: "RLO",
	bidi.LRE: "LRE",
	bidi.RLE: "RLE",
	bidi.PDF: "PDF",
	bidi.LRI: "LRI",
	bidi.RLI: "RLI",
	bidi.FSI: "FSI",
	bidi.PDI: "PDI",
}

// BidirectionalClass implements Database.
func (db *Standard) BidirectionalClass(r rune) string {
	p, _ := bidi.LookupRune(r)
	if name, ok := bidiClassNames[p.Class()]; ok {
		return name
	}
	return ""
}

// IsMirrored implements Database.
func (db *Standard) IsMirrored(r rune) bool {
	return unicode.Is(bidiMirrored, r)
}

// ToLower implements Database using the full (possibly multi-rune) mapping.
func (db *Standard) ToLower(r rune) string {
	return cases.Lower(language.Und).String(string(r))
}

// ToUpper implements Database using the full (possibly multi-rune) mapping.
func (db *Standard) ToUpper(r rune) string {
	return cases.Upper(language.Und).String(string(r))
}

// NFC implements Database.
func (db *Standard) NFC(r rune) string {
	return norm.NFC.String(string(r))
}

// NFD implements Database.
func (db *Standard) NFD(r rune) string {
	return norm.NFD.String(string(r))
}

// LookupName implements Database.
func (db *Standard) LookupName(name string) (rune, bool) {
	db.once.Do(db.buildIndex)
	r, ok := db.byName[strings.ToUpper(strings.TrimSpace(name))]
	return r, ok
}

func (db *Standard) buildIndex() {
	db.byName = make(map[string]rune, 1<<17)
	for r := rune(0); r <= unicode.MaxRune; r++ {
		if name, ok := db.Name(r); ok {
			if _, dup := db.byName[name]; !dup {
				db.byName[name] = r
			}
		}
	}
}

// NameOr returns the name of r, or fallback when r has none.
func NameOr(db Database, r rune, fallback string) string {
	if name, ok := db.Name(r); ok {
		return name
	}
	return fallback
}

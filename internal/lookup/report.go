package lookup

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuanying/glyphigo/internal/ucd"
)

// UnknownName is reported for characters without a Unicode name.
const UnknownName = "UNKNOWN"

// Info is the metadata of one character.
type Info struct {
	Char          rune
	Name          string
	Lower         string
	Upper         string
	Category      string
	Bidirectional string
	Mirrored      bool
	NFC           string
	NFD           string
}

// Describe collects the metadata of r from db.
func Describe(db ucd.Database, r rune) Info {
	return Info{
		Char:          r,
		Name:          ucd.NameOr(db, r, UnknownName),
		Lower:         db.ToLower(r),
		Upper:         db.ToUpper(r),
		Category:      db.Category(r),
		Bidirectional: db.BidirectionalClass(r),
		Mirrored:      db.IsMirrored(r),
		NFC:           db.NFC(r),
		NFD:           db.NFD(r),
	}
}

// Hex formats a codepoint the way every report does: lowercase with a
// 0x prefix.
func Hex(r rune) string {
	return fmt.Sprintf("%#x", r)
}

// WriteFull writes the multi-line report of info.
func WriteFull(w io.Writer, info Info) error {
	rows := [][2]string{
		{"Name", info.Name},
		{"Character", string(info.Char)},
		{"Dec Codepoint", fmt.Sprint(info.Char)},
		{"Hex Codepoint", Hex(info.Char)},
		{"Lowercase", info.Lower},
		{"Uppercase", info.Upper},
		{"Category", info.Category},
		{"Bidirectional", info.Bidirectional},
		{"Mirrored", fmt.Sprint(info.Mirrored)},
		{"NFC", info.NFC},
		{"NFD", info.NFD},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-13s %s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}

// WriteCompact writes the one-line report "<char>\t<NAME> (U+XXXX)".
func WriteCompact(w io.Writer, info Info) error {
	_, err := fmt.Fprintf(w, "%c\t%s (U+%s)\n", info.Char, info.Name,
		strings.ToUpper(fmt.Sprintf("%x", info.Char)))
	return err
}

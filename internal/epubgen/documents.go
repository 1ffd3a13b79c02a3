package epubgen

import (
	"fmt"
	"strings"

	"github.com/yuanying/glyphigo/internal/ucd"
)

// Fixed metadata of every generated book.
const (
	creator      = "glyphIgo"
	creationDate = "2014-03-08"
	language     = "en"
)

// unknownName is shown for characters without a Unicode name.
const unknownName = "UNKNOWN NAME"

// escaper escapes the characters that cannot appear literally in XML text.
var escaper = strings.NewReplacer("&", "&amp;", ">", "&gt;", "<", "&lt;")

func escape(s string) string {
	return escaper.Replace(s)
}

// controlNames are the mnemonics shown for U+0000 to U+001F.
var controlNames = [32]string{
	"NUL '\\0'",
	"SOH (start of heading)",
	"STX (start of text)",
	"ETX (end of text)",
	"EOT (end of transmission)",
	"ENQ (enquiry)",
	"ACK (acknowledge)",
	"BEL '\\a' (bell)",
	"BS  '\\b' (backspace)",
	"HT  '\\t' (horizontal tab)",
	"LF  '\\n' (new line)",
	"VT  '\\v' (vertical tab)",
	"FF  '\\f' (form feed)",
	"CR  '\\r' (carriage ret)",
	"SO  (shift out)",
	"SI  (shift in)",
	"DLE (data link escape)",
	"DC1 (device control 1)",
	"DC2 (device control 2)",
	"DC3 (device control 3)",
	"DC4 (device control 4)",
	"NAK (negative ack.)",
	"SYN (synchronous idle)",
	"ETB (end of trans. blk)",
	"CAN (cancel)",
	"EM  (end of medium)",
	"SUB (substitute)",
	"ESC (escape)",
	"FS  (file separator)",
	"GS  (group separator)",
	"RS  (record separator)",
	"US  (unit separator)",
}

// ControlName returns the mnemonic of a control character below U+0020.
func ControlName(r rune) (string, bool) {
	if r < 0 || int(r) >= len(controlNames) {
		return "", false
	}
	return controlNames[r], true
}

const styleCSS = `@charset "UTF-8";
body {
  margin: 10px 25px 10px 25px;
}
h1 {
  font-size: 200%;
  text-align: left;
}
table.character {
  width: 96%;
}
th {
  font-weight: bold;
  text-align: left;
}
td {
  text-align: left;
  font-family: monospace;
  font-size: 90%;
}
.character {
  width: 96%;
}
.sym {
  width: 10%;
}
.dec {
  width: 10%;
}
.hex {
  width: 10%;
}
.nam {
  width: 70%;
}
`

func containerXML() string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n")
	b.WriteString("<container version=\"1.0\" xmlns=\"urn:oasis:names:tc:opendocument:xmlns:container\">\n")
	b.WriteString(" <rootfiles>\n")
	fmt.Fprintf(&b, "  <rootfile full-path=\"%s\" media-type=\"application/oebps-package+xml\"/>\n", opfPath)
	b.WriteString(" </rootfiles>\n")
	b.WriteString("</container>")
	return b.String()
}

func packageXML(id, title string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\" ?>\n")
	b.WriteString("<package xmlns=\"http://www.idpf.org/2007/opf\" version=\"2.0\" unique-identifier=\"uuid_id\">\n")
	b.WriteString(" <metadata xmlns:opf=\"http://www.idpf.org/2007/opf\" xmlns:dc=\"http://purl.org/dc/elements/1.1/\">\n")
	fmt.Fprintf(&b, "  <dc:language>%s</dc:language>\n", language)
	fmt.Fprintf(&b, "  <dc:title>%s</dc:title>\n", escape(title))
	fmt.Fprintf(&b, "  <dc:creator opf:role=\"aut\">%s</dc:creator>\n", creator)
	fmt.Fprintf(&b, "  <dc:date opf:event=\"creation\">%s</dc:date>\n", creationDate)
	fmt.Fprintf(&b, "  <dc:identifier id=\"uuid_id\" opf:scheme=\"uuid\">%s</dc:identifier>\n", id)
	b.WriteString(" </metadata>\n")
	b.WriteString(" <manifest>\n")
	fmt.Fprintf(&b, "  <item href=\"%s\" id=\"css\" media-type=\"text/css\" />\n", stylePath)
	fmt.Fprintf(&b, "  <item href=\"%s\" id=\"ncx\" media-type=\"application/x-dtbncx+xml\" />\n", ncxPath)
	fmt.Fprintf(&b, "  <item href=\"%s\" id=\"%s\" media-type=\"application/xhtml+xml\" />\n", indexPath, indexPath)
	b.WriteString(" </manifest>\n")
	b.WriteString(" <spine toc=\"ncx\">\n")
	fmt.Fprintf(&b, "  <itemref idref=\"%s\" />\n", indexPath)
	b.WriteString(" </spine>\n")
	b.WriteString("</package>")
	return b.String()
}

func ncxXML(id, title string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\" ?>\n")
	b.WriteString("<!DOCTYPE ncx PUBLIC \"-//NISO//DTD ncx 2005-1//EN\" \"http://www.daisy.org/z3986/2005/ncx-2005-1.dtd\">\n")
	b.WriteString("<ncx xmlns=\"http://www.daisy.org/z3986/2005/ncx/\" version=\"2005-1\">\n")
	b.WriteString(" <head>\n")
	fmt.Fprintf(&b, "  <meta name=\"dtb:uid\" content=\"%s\" />\n", id)
	b.WriteString("  <meta name=\"dtb:depth\" content=\"1\" />\n")
	b.WriteString("  <meta name=\"dtb:totalPageCount\" content=\"0\" />\n")
	b.WriteString("  <meta name=\"dtb:maxPageNumber\" content=\"0\" />\n")
	b.WriteString(" </head>\n")
	b.WriteString(" <docTitle>\n")
	fmt.Fprintf(&b, "  <text>%s</text>\n", escape(title))
	b.WriteString(" </docTitle>\n")
	b.WriteString(" <navMap>\n")
	fmt.Fprintf(&b, " <navPoint id=\"%s\" playOrder=\"1\">\n", indexPath)
	b.WriteString("  <navLabel>\n")
	fmt.Fprintf(&b, "   <text>%s</text>\n", escape(title))
	b.WriteString("  </navLabel>\n")
	fmt.Fprintf(&b, "  <content src=\"%s\" />\n", indexPath)
	b.WriteString(" </navPoint>\n")
	b.WriteString(" </navMap>\n")
	b.WriteString("</ncx>")
	return b.String()
}

func indexXHTML(db ucd.Database, chars []rune, title string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\" standalone=\"no\"?>\n")
	b.WriteString("<!DOCTYPE html PUBLIC \"-//W3C//DTD XHTML 1.1//EN\" \"http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd\">\n")
	b.WriteString("<html xmlns=\"http://www.w3.org/1999/xhtml\">\n")
	b.WriteString(" <head>\n")
	fmt.Fprintf(&b, "  <title>%s</title>\n", escape(title))
	fmt.Fprintf(&b, "  <link rel=\"stylesheet\" type=\"text/css\" href=\"%s\" />\n", stylePath)
	b.WriteString(" </head>\n")
	b.WriteString(" <body class=\"index\">\n")
	fmt.Fprintf(&b, "  <h1>%s</h1>\n", escape(title))
	b.WriteString("   <table class=\"character\">\n")
	b.WriteString("    <tr class=\"character\">\n")
	b.WriteString("     <th class=\"sym\">Sym</th>\n")
	b.WriteString("     <th class=\"dec\">Dec</th>\n")
	b.WriteString("     <th class=\"hex\">Hex</th>\n")
	b.WriteString("     <th class=\"nam\">Unicode name</th>\n")
	b.WriteString("    </tr>\n")
	for _, r := range chars {
		sym, name := "", ""
		if control, ok := ControlName(r); ok {
			name = control
		} else {
			sym = escape(string(r))
			name = ucd.NameOr(db, r, unknownName)
		}
		b.WriteString("    <tr class=\"character\">\n")
		fmt.Fprintf(&b, "     <td class=\"sym\">%s</td>\n", sym)
		fmt.Fprintf(&b, "     <td class=\"dec\">%d</td>\n", r)
		fmt.Fprintf(&b, "     <td class=\"hex\">%#x</td>\n", r)
		fmt.Fprintf(&b, "     <td class=\"nam\">%s</td>\n", escape(name))
		b.WriteString("    </tr>\n")
	}
	b.WriteString("   </table>\n")
	b.WriteString(" </body>\n")
	b.WriteString("</html>")
	return b.String()
}

//go:build ignore

// Gen reads UnicodeData.txt and writes the Bidi_Mirrored range table.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"log"
	"os"
	"strconv"
	"strings"
)

type span struct{ lo, hi rune }

func main() {
	in := flag.String("in", "UnicodeData.txt", "path of the UCD UnicodeData.txt file")
	out := flag.String("out", "mirrored_table.go", "output file")
	version := flag.String("version", "15.0.0", "Unicode version of the input")
	flag.Parse()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var spans []span
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ";")
		if len(fields) < 10 || fields[9] != "Y" {
			continue
		}
		n, err := strconv.ParseUint(fields[0], 16, 32)
		if err != nil {
			log.Fatal(err)
		}
		r := rune(n)
		if k := len(spans); k > 0 && spans[k-1].hi == r-1 {
			spans[k-1].hi = r
			continue
		}
		spans = append(spans, span{r, r})
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}

	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "// Code generated by gen.go from UnicodeData.txt (Unicode %s). DO NOT EDIT.\n\n", *version)
	buf.WriteString("package ucd\n\nimport \"unicode\"\n\nvar bidiMirrored = &unicode.RangeTable{\n\tR16: []unicode.Range16{\n")
	latin := 0
	for _, s := range spans {
		if s.hi <= 0xFFFF {
			fmt.Fprintf(buf, "\t\t{Lo: 0x%04x, Hi: 0x%04x, Stride: 1},\n", s.lo, s.hi)
			if s.hi <= 0xFF {
				latin++
			}
		}
	}
	buf.WriteString("\t},\n\tR32: []unicode.Range32{\n")
	for _, s := range spans {
		if s.lo > 0xFFFF {
			fmt.Fprintf(buf, "\t\t{Lo: 0x%05x, Hi: 0x%05x, Stride: 1},\n", s.lo, s.hi)
		}
	}
	fmt.Fprintf(buf, "\t},\n\tLatinOffset: %d,\n}\n", latin)

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*out, formatted, 0o644); err != nil {
		log.Fatal(err)
	}
}

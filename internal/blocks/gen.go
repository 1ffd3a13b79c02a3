//go:build ignore

// Gen reads the UCD Blocks.txt file and writes the static block table.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"log"
	"os"
	"regexp"
	"strings"
)

var lineRe = regexp.MustCompile(`^([0-9A-F]+)\.\.([0-9A-F]+);\s*(.+)$`)

func main() {
	in := flag.String("in", "Blocks.txt", "path of the UCD Blocks.txt file")
	out := flag.String("out", "tables.go", "output file")
	flag.Parse()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	version := "unknown"
	buf := &bytes.Buffer{}
	buf.WriteString("var table = [...]Block{\n")
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "# Blocks-") {
			version = strings.TrimPrefix(line, "# ")
		}
		line, _, _ = strings.Cut(line, "#")
		line = strings.TrimSpace(line)
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		fmt.Fprintf(buf, "\t{0x%s, 0x%s, %q},\n", m[1], m[2], strings.TrimSpace(m[3]))
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
	buf.WriteString("}\n")

	src := fmt.Sprintf("// Code generated by gen.go from %s. DO NOT EDIT.\n\npackage blocks\n\n%s", version, buf.String())
	formatted, err := format.Source([]byte(src))
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*out, formatted, 0o644); err != nil {
		log.Fatal(err)
	}
}

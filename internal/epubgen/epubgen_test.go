package epubgen

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/yuanying/glyphigo/internal/epub"
)

func readIndex(t *testing.T, path string) *goquery.Document {
	t.Helper()
	a, err := epub.Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer a.Close()

	data, err := a.ReadFile(indexPath)
	if err != nil {
		t.Fatalf("ReadFile(%s) failed: %v", indexPath, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to parse index: %v", err)
	}
	return doc
}

func TestBuild(t *testing.T) {
	out := filepath.Join(t.TempDir(), "list.epub")
	if err := Build([]rune{'A', '\t'}, "Test", out); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	r, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("failed to open zip: %v", err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	want := []string{"mimetype", containerPath, opfPath, ncxPath, stylePath, indexPath}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("entry order mismatch (-want +got):\n%s", diff)
	}
	if r.File[0].Method != zip.Store {
		t.Errorf("mimetype method = %d, want Store", r.File[0].Method)
	}
	for _, f := range r.File[1:] {
		if f.Method != zip.Deflate {
			t.Errorf("%s method = %d, want Deflate", f.Name, f.Method)
		}
	}

	doc := readIndex(t, out)
	if got := doc.Find("h1").Text(); got != "Test" {
		t.Errorf("h1 = %q, want %q", got, "Test")
	}

	type row struct{ Sym, Dec, Hex, Name string }
	var rows []row
	doc.Find("tr.character").Each(func(_ int, s *goquery.Selection) {
		if s.Find("th").Length() > 0 {
			return
		}
		rows = append(rows, row{
			Sym:  s.Find("td.sym").Text(),
			Dec:  s.Find("td.dec").Text(),
			Hex:  s.Find("td.hex").Text(),
			Name: s.Find("td.nam").Text(),
		})
	})
	wantRows := []row{
		{Sym: "", Dec: "9", Hex: "0x9", Name: `HT  '\t' (horizontal tab)`},
		{Sym: "A", Dec: "65", Hex: "0x41", Name: "LATIN CAPITAL LETTER A"},
	}
	if diff := cmp.Diff(wantRows, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPackageDocuments(t *testing.T) {
	out := filepath.Join(t.TempDir(), "list.epub")
	b := &Builder{NewIdentifier: func() (string, error) { return "fixed-id", nil }}
	if err := b.Build([]rune{'x'}, "Fish & <Chips>", out); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	a, err := epub.Open(out)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer a.Close()

	if a.OPFPath() != opfPath {
		t.Errorf("OPFPath() = %q, want %q", a.OPFPath(), opfPath)
	}
	pkg, err := a.Package()
	if err != nil {
		t.Fatalf("Package() failed: %v", err)
	}
	wantMeta := epub.Metadata{
		Title:      "Fish & <Chips>",
		Language:   "en",
		Creators:   []string{"glyphIgo"},
		Date:       "2014-03-08",
		Identifier: "fixed-id",
	}
	if diff := cmp.Diff(wantMeta, pkg.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if pkg.Version != "2.0" {
		t.Errorf("Version = %q, want 2.0", pkg.Version)
	}
	if diff := cmp.Diff([]string{indexPath}, pkg.Spine); diff != "" {
		t.Errorf("spine mismatch (-want +got):\n%s", diff)
	}
	if pkg.NCXPath != ncxPath {
		t.Errorf("NCXPath = %q, want %q", pkg.NCXPath, ncxPath)
	}
	css, ok := pkg.Item("css")
	if !ok || css.MediaType != "text/css" || css.Href != stylePath {
		t.Errorf("css item = %+v, %v", css, ok)
	}

	data, err := a.ReadFile(ncxPath)
	if err != nil {
		t.Fatalf("ReadFile(%s) failed: %v", ncxPath, err)
	}
	ncx, err := epub.ParseNCX(data)
	if err != nil {
		t.Fatalf("ParseNCX() failed: %v", err)
	}
	if ncx.UID != "fixed-id" || ncx.DocTitle != "Fish & <Chips>" {
		t.Errorf("ncx head = (%q, %q)", ncx.UID, ncx.DocTitle)
	}
	if len(ncx.NavPoints) != 1 || ncx.NavPoints[0].Src != indexPath || ncx.NavPoints[0].PlayOrder != "1" {
		t.Errorf("NavPoints = %+v", ncx.NavPoints)
	}

	style, err := a.ReadFile(stylePath)
	if err != nil {
		t.Fatalf("ReadFile(%s) failed: %v", stylePath, err)
	}
	if !strings.HasPrefix(string(style), `@charset "UTF-8";`) {
		t.Errorf("style.css does not start with the charset rule")
	}
}

func TestBuildRandomIdentifier(t *testing.T) {
	out := filepath.Join(t.TempDir(), "list.epub")
	if err := Build(nil, "Empty", out); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	a, err := epub.Open(out)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer a.Close()
	pkg, err := a.Package()
	if err != nil {
		t.Fatalf("Package() failed: %v", err)
	}

	id, err := uuid.Parse(pkg.Metadata.Identifier)
	if err != nil {
		t.Fatalf("identifier %q is not a UUID: %v", pkg.Metadata.Identifier, err)
	}
	if id.Version() != 4 {
		t.Errorf("UUID version = %d, want 4", id.Version())
	}
	if pkg.Metadata.Identifier != strings.ToLower(pkg.Metadata.Identifier) {
		t.Errorf("identifier %q is not lowercase", pkg.Metadata.Identifier)
	}
	if n := readIndex(t, out).Find("td").Length(); n != 0 {
		t.Errorf("empty list has %d cells", n)
	}
}

func TestBuildSortsAndKeepsDuplicates(t *testing.T) {
	out := filepath.Join(t.TempDir(), "list.epub")
	if err := Build([]rune{'c', 'a', 'c'}, "Dup", out); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	var got []string
	readIndex(t, out).Find("td.dec").Each(func(_ int, s *goquery.Selection) {
		got = append(got, s.Text())
	})
	if diff := cmp.Diff([]string{"97", "99", "99"}, got); diff != "" {
		t.Errorf("codepoints mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEscapesSymbols(t *testing.T) {
	out := filepath.Join(t.TempDir(), "list.epub")
	if err := Build([]rune{'<', '&'}, "Esc", out); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	var got []string
	readIndex(t, out).Find("td.sym").Each(func(_ int, s *goquery.Selection) {
		got = append(got, s.Text())
	})
	if diff := cmp.Diff([]string{"&", "<"}, got); diff != "" {
		t.Errorf("symbols mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "list.epub")
	if err := os.WriteFile(out, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Build([]rune{'A'}, "New", out); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if got := readIndex(t, out).Find("h1").Text(); got != "New" {
		t.Errorf("h1 = %q, want New", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the book", len(entries))
	}
}

func TestBuildUnwritableDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "list.epub")
	err := Build([]rune{'A'}, "Fail", out)
	if !errors.Is(err, ErrFileAccess) {
		t.Fatalf("Build() error = %v, want ErrFileAccess", err)
	}
}

func TestControlName(t *testing.T) {
	tests := []struct {
		r    rune
		want string
		ok   bool
	}{
		{0, `NUL '\0'`, true},
		{10, `LF  '\n' (new line)`, true},
		{31, "US  (unit separator)", true},
		{32, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		got, ok := ControlName(tt.r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ControlName(%d) = (%q, %v), want (%q, %v)", tt.r, got, ok, tt.want, tt.ok)
		}
	}
}

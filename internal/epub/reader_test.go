package epub

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type zipEntry struct {
	name   string
	body   string
	method uint16
}

// writeZip writes entries, in order, to a new archive under dir.
func writeZip(t *testing.T, dir, name string, entries []zipEntry) string {
	t.Helper()
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, e := range entries {
		method := e.method
		if method == 0 && e.name != "mimetype" {
			method = zip.Deflate
		}
		ew, err := w.CreateHeader(&zip.FileHeader{Name: e.name, Method: method})
		if err != nil {
			t.Fatalf("failed to create %s: %v", e.name, err)
		}
		if _, err := ew.Write([]byte(e.body)); err != nil {
			t.Fatalf("failed to write %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return p
}

const testContainer = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="bookid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:language>en</dc:language>
    <dc:identifier id="isbn">urn:isbn:1234567890</dc:identifier>
    <dc:identifier id="bookid">urn:uuid:0b8d6b6e-2a4c-4f0e-9a7c-1f2e3d4c5b6a</dc:identifier>
  </metadata>
  <manifest>
    <item id="chapter1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
    <item id="font" href="fonts/body.ttf" media-type="application/vnd.ms-opentype"/>
  </manifest>
  <spine>
    <itemref idref="chapter1"/>
  </spine>
</package>`

// createTestEPUB creates a minimal valid EPUB file for testing
func createTestEPUB(t *testing.T, dir string) string {
	t.Helper()
	return writeZip(t, dir, "test.epub", []zipEntry{
		{name: "mimetype", body: MediaType, method: zip.Store},
		{name: "META-INF/container.xml", body: testContainer},
		{name: "OEBPS/content.opf", body: testOPF},
		{name: "OEBPS/chapter1.xhtml", body: `<html><body><p>Hello, World!</p></body></html>`},
		{name: "OEBPS/fonts/body.ttf", body: "not really a font"},
	})
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	reader, err := Open(createTestEPUB(t, dir))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer reader.Close()

	if got := reader.OPFPath(); got != "OEBPS/content.opf" {
		t.Errorf("OPFPath() = %q, want %q", got, "OEBPS/content.opf")
	}
}

func TestOpen_FileNotFound(t *testing.T) {
	if _, err := Open("/nonexistent/file.epub"); err == nil {
		t.Fatal("Open() should fail for nonexistent file")
	}
}

func TestOpen_InvalidStructure(t *testing.T) {
	tests := []struct {
		name    string
		entries []zipEntry
		wantErr error
	}{
		{
			name:    "missing mimetype",
			entries: []zipEntry{{name: "META-INF/container.xml", body: testContainer}},
			wantErr: ErrMimetypeNotFound,
		},
		{
			name:    "invalid mimetype",
			entries: []zipEntry{{name: "mimetype", body: "text/plain", method: zip.Store}},
			wantErr: ErrInvalidMimetype,
		},
		{
			name:    "compressed mimetype",
			entries: []zipEntry{{name: "mimetype", body: MediaType, method: zip.Deflate}},
			wantErr: ErrMimetypeCompressed,
		},
		{
			name:    "no container",
			entries: []zipEntry{{name: "mimetype", body: MediaType, method: zip.Store}},
			wantErr: ErrContainerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeZip(t, t.TempDir(), "bad.epub", tt.entries)
			_, err := Open(p)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Open() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenArchive_AnyZip(t *testing.T) {
	p := writeZip(t, t.TempDir(), "plain.zip", []zipEntry{
		{name: "b.html", body: "b"},
		{name: "META-INF/container.xml", body: testContainer},
		{name: "notes.txt", body: "ignored"},
		{name: "./a.XHTML", body: "a"},
		{name: "meta-inf/extra.html", body: "skipped"},
		{name: "data/c.xml", body: "c"},
	})

	a, err := OpenArchive(p)
	if err != nil {
		t.Fatalf("OpenArchive() failed: %v", err)
	}
	defer a.Close()

	var got []string
	for _, f := range a.TextEntries() {
		got = append(got, f.Name)
	}
	want := []string{"b.html", "./a.XHTML", "data/c.xml"}
	if len(got) != len(want) {
		t.Fatalf("TextEntries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TextEntries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if !a.Has("a.XHTML") {
		t.Error("Has() should ignore the ./ prefix")
	}
	if len(a.Entries()) != 6 {
		t.Errorf("Entries() = %d entries, want 6", len(a.Entries()))
	}
}

func TestArchive_ReadFile(t *testing.T) {
	a, err := Open(createTestEPUB(t, t.TempDir()))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer a.Close()

	content, err := a.ReadFile("OEBPS/chapter1.xhtml")
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if len(content) == 0 {
		t.Error("ReadFile() returned empty content")
	}

	if _, err := a.ReadFile("OEBPS/missing.xhtml"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v, want ErrFileNotFound", err)
	}
}

func TestArchive_Package(t *testing.T) {
	a, err := Open(createTestEPUB(t, t.TempDir()))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer a.Close()

	pkg, err := a.Package()
	if err != nil {
		t.Fatalf("Package() failed: %v", err)
	}
	if pkg.Metadata.Title != "Test Book" {
		t.Errorf("Title = %q, want %q", pkg.Metadata.Title, "Test Book")
	}
	if want := "urn:uuid:0b8d6b6e-2a4c-4f0e-9a7c-1f2e3d4c5b6a"; pkg.Metadata.Identifier != want {
		t.Errorf("Identifier = %q, want %q", pkg.Metadata.Identifier, want)
	}
	fonts := pkg.Fonts()
	if len(fonts) != 1 || fonts[0].Href != "OEBPS/fonts/body.ttf" {
		t.Errorf("Fonts() = %+v", fonts)
	}
}

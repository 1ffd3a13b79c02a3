package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// MediaType is the content of the mimetype entry of every EPUB container.
const MediaType = "application/epub+zip"

// metadataDir holds the OCF container metadata (container.xml,
// encryption.xml, ...).
const metadataDir = "meta-inf"

// textExtensions are the entry suffixes that carry document text.
var textExtensions = []string{".xhtml", ".html", ".xml"}

// Archive provides access to the entries of a zip container.
type Archive struct {
	zipReader *zip.ReadCloser
	files     map[string]*zip.File
	opfPath   string
}

// container.xml structure
type container struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

var (
	ErrInvalidMimetype    = errors.New("invalid mimetype: must be 'application/epub+zip'")
	ErrMimetypeCompressed = errors.New("mimetype must not be compressed")
	ErrMimetypeNotFound   = errors.New("mimetype file not found")
	ErrContainerNotFound  = errors.New("META-INF/container.xml not found")
	ErrOPFPathNotFound    = errors.New("OPF path not found in container.xml")
	ErrFileNotFound       = errors.New("file not found in archive")
)

// OpenArchive opens any zip archive without checking the EPUB structure.
// It is enough for collecting text entries.
func OpenArchive(name string) (*Archive, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	a := &Archive{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		a.files[normalizePath(f.Name)] = f
	}
	return a, nil
}

// Open opens an EPUB file and validates its mimetype and container.xml.
func Open(name string) (*Archive, error) {
	a, err := OpenArchive(name)
	if err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	return a.zipReader.Close()
}

// OPFPath returns the path of the package document. It is empty for
// archives opened with OpenArchive.
func (a *Archive) OPFPath() string {
	return a.opfPath
}

// Entries returns the archive entries in listing order.
func (a *Archive) Entries() []*zip.File {
	return a.zipReader.File
}

// TextEntries returns, in listing order, the entries whose name ends in
// .xhtml, .html or .xml (case-insensitive) outside the META-INF directory.
func (a *Archive) TextEntries() []*zip.File {
	var out []*zip.File
	for _, f := range a.zipReader.File {
		if isTextEntry(f.Name) {
			out = append(out, f)
		}
	}
	return out
}

func isTextEntry(name string) bool {
	lower := strings.ToLower(normalizePath(name))
	if strings.HasPrefix(lower, metadataDir) {
		return false
	}
	for _, ext := range textExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Has reports whether the archive contains an entry called name.
func (a *Archive) Has(name string) bool {
	_, ok := a.files[normalizePath(name)]
	return ok
}

// ReadFile reads the contents of an entry.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	name = normalizePath(name)
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	return ReadEntry(f)
}

// ReadEntry reads the whole content of a single zip entry.
func ReadEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", f.Name, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// Package reads and parses the package document named in container.xml.
func (a *Archive) Package() (*Package, error) {
	if a.opfPath == "" {
		if err := a.parseContainer(); err != nil {
			return nil, err
		}
	}
	content, err := a.ReadFile(a.opfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read OPF: %w", err)
	}
	dir := path.Dir(a.opfPath)
	if dir == "." {
		dir = ""
	}
	return ParseOPF(content, dir)
}

func (a *Archive) validate() error {
	if err := a.validateMimetype(); err != nil {
		return err
	}
	return a.parseContainer()
}

// validateMimetype checks that the mimetype file exists and is valid
func (a *Archive) validateMimetype() error {
	f, ok := a.files["mimetype"]
	if !ok {
		return ErrMimetypeNotFound
	}
	if f.Method != zip.Store {
		return ErrMimetypeCompressed
	}

	content, err := ReadEntry(f)
	if err != nil {
		return fmt.Errorf("failed to read mimetype: %w", err)
	}
	if string(content) != MediaType {
		return ErrInvalidMimetype
	}
	return nil
}

// parseContainer parses container.xml to extract OPF path
func (a *Archive) parseContainer() error {
	content, err := a.ReadFile("META-INF/container.xml")
	if err != nil {
		return ErrContainerNotFound
	}

	var c container
	if err := xml.Unmarshal(content, &c); err != nil {
		return fmt.Errorf("failed to parse container.xml: %w", err)
	}

	for _, rf := range c.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			a.opfPath = normalizePath(rf.FullPath)
			return nil
		}
	}
	if len(c.Rootfiles.Rootfile) > 0 {
		a.opfPath = normalizePath(c.Rootfiles.Rootfile[0].FullPath)
		return nil
	}
	return ErrOPFPathNotFound
}

// normalizePath removes the ./ prefix
func normalizePath(p string) string {
	return strings.TrimPrefix(p, "./")
}

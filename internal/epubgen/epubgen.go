// Package epubgen writes small EPUB 2 books listing a set of Unicode
// characters in a table: symbol, decimal and hexadecimal codepoint and
// name.
package epubgen

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/yuanying/glyphigo/internal/epub"
	"github.com/yuanying/glyphigo/internal/ucd"
)

// ErrFileAccess wraps failures to create or write the output file.
var ErrFileAccess = errors.New("file access error")

// Entry names inside the archive.
const (
	containerPath = "META-INF/container.xml"
	opfPath       = "content.opf"
	ncxPath       = "toc.ncx"
	stylePath     = "style.css"
	indexPath     = "index.xhtml"
)

// Builder generates character list books.
type Builder struct {
	// DB provides character names. Nil means ucd.Default.
	DB     ucd.Database
	Logger *slog.Logger

	// NewIdentifier returns the package identifier. Nil means a random
	// UUID.
	NewIdentifier func() (string, error)
}

// Build writes a book listing chars, titled title, to outputPath using the
// default Builder.
func Build(chars []rune, title, outputPath string) error {
	return (&Builder{}).Build(chars, title, outputPath)
}

func (b *Builder) db() ucd.Database {
	if b.DB != nil {
		return b.DB
	}
	return ucd.Default
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *Builder) identifier() (string, error) {
	if b.NewIdentifier != nil {
		return b.NewIdentifier()
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Build writes a book listing chars, sorted by codepoint, to outputPath.
// Any existing file at outputPath is replaced. The archive is assembled in
// a temporary file next to outputPath which is removed on failure.
func (b *Builder) Build(chars []rune, title, outputPath string) error {
	sorted := make([]rune, len(chars))
	copy(sorted, chars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	id, err := b.identifier()
	if err != nil {
		return fmt.Errorf("failed to generate identifier: %w", err)
	}

	entries := []struct {
		name string
		body string
	}{
		{containerPath, containerXML()},
		{opfPath, packageXML(id, title)},
		{ncxPath, ncxXML(id, title)},
		{stylePath, styleCSS},
		{indexPath, indexXHTML(b.db(), sorted, title)},
	}

	if err := os.Remove(outputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileAccess, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".glyphigo-*.epub")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := zip.NewWriter(tmp)
	if err := writeEntry(w, "mimetype", epub.MediaType, zip.Store); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeEntry(w, e.name, e.body, zip.Deflate); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		return fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	committed = true

	b.logger().Debug("wrote character list book", "path", outputPath,
		"identifier", id, "characters", len(sorted))
	return nil
}

func writeEntry(w *zip.Writer, name, body string, method uint16) error {
	ew, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileAccess, name, err)
	}
	if _, err := io.WriteString(ew, body); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileAccess, name, err)
	}
	return nil
}

package epub

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// Package is the parsed package document (OPF).
type Package struct {
	Version  string
	Metadata Metadata
	Manifest []ManifestItem // document order
	Spine    []string       // manifest ids
	NCXPath  string

	byID map[string]int
}

// Metadata holds the Dublin Core fields used by this tool.
type Metadata struct {
	Title    string
	Language string
	Creators []string
	Date     string
	// Identifier is the dc:identifier selected by the package
	// unique-identifier attribute, or the first one.
	Identifier string
}

// ManifestItem represents an item in the manifest. Href is resolved
// against the directory of the package document.
type ManifestItem struct {
	ID        string
	Href      string
	MediaType string
}

// opfPackage represents the OPF XML structure
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	UniqueID string      `xml:"unique-identifier,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest struct {
		Items []opfManifestItem `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		Toc      string `xml:"toc,attr"`
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

type opfMetadata struct {
	Title      []string        `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creator    []string        `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Language   []string        `xml:"http://purl.org/dc/elements/1.1/ language"`
	Identifier []opfIdentifier `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Date       []string        `xml:"http://purl.org/dc/elements/1.1/ date"`
}

type opfIdentifier struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr"`
}

type opfManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// fontMediaTypes are the manifest media types of embedded fonts seen in
// the wild, old and new.
var fontMediaTypes = map[string]bool{
	"application/vnd.ms-opentype": true,
	"application/font-sfnt":       true,
	"application/x-font-ttf":      true,
	"application/x-font-truetype": true,
	"application/x-font-otf":      true,
	"application/x-font-opentype": true,
	"application/font-woff":       true,
}

var fontExtensions = []string{".ttf", ".otf", ".woff", ".woff2"}

// ParseOPF parses the package document content. opfDir is the directory
// containing the OPF file (e.g. "OEBPS"), empty for the archive root.
func ParseOPF(content []byte, opfDir string) (*Package, error) {
	var doc opfPackage
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse OPF XML: %w", err)
	}

	pkg := &Package{
		Version:  doc.Version,
		Metadata: parseMetadata(&doc.Metadata, doc.UniqueID),
		byID:     make(map[string]int, len(doc.Manifest.Items)),
	}
	for _, item := range doc.Manifest.Items {
		pkg.byID[item.ID] = len(pkg.Manifest)
		pkg.Manifest = append(pkg.Manifest, ManifestItem{
			ID:        item.ID,
			Href:      joinPath(opfDir, item.Href),
			MediaType: item.MediaType,
		})
	}
	for _, ref := range doc.Spine.ItemRefs {
		pkg.Spine = append(pkg.Spine, ref.IDRef)
	}
	if item, ok := pkg.Item(doc.Spine.Toc); ok {
		pkg.NCXPath = item.Href
	}
	return pkg, nil
}

func parseMetadata(meta *opfMetadata, uniqueID string) Metadata {
	md := Metadata{
		Title:    first(meta.Title),
		Language: first(meta.Language),
		Date:     first(meta.Date),
		Creators: meta.Creator,
	}
	for _, id := range meta.Identifier {
		if uniqueID != "" && id.ID == uniqueID {
			md.Identifier = strings.TrimSpace(id.Value)
			break
		}
	}
	if md.Identifier == "" && len(meta.Identifier) > 0 {
		md.Identifier = strings.TrimSpace(meta.Identifier[0].Value)
	}
	return md
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// Item returns the manifest item with the given id.
func (p *Package) Item(id string) (ManifestItem, bool) {
	i, ok := p.byID[id]
	if !ok {
		return ManifestItem{}, false
	}
	return p.Manifest[i], true
}

// Fonts returns the manifest items that are font resources, in manifest
// order.
func (p *Package) Fonts() []ManifestItem {
	var fonts []ManifestItem
	for _, item := range p.Manifest {
		if IsFont(item.MediaType, item.Href) {
			fonts = append(fonts, item)
		}
	}
	return fonts
}

// IsFont reports whether a resource looks like a font, judging by its
// media type or, failing that, its extension.
func IsFont(mediaType, href string) bool {
	if strings.HasPrefix(mediaType, "font/") || fontMediaTypes[mediaType] {
		return true
	}
	lower := strings.ToLower(href)
	for _, ext := range fontExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// joinPath joins OPF directory with a relative path
func joinPath(base, rel string) string {
	if base == "" {
		return path.Clean(rel)
	}
	return path.Join(base, rel)
}

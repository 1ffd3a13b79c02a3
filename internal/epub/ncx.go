package epub

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// NCX is the parsed navigation control document.
type NCX struct {
	UID       string
	DocTitle  string
	NavPoints []NavPoint
}

// NavPoint represents a single navigation point in the table of contents.
type NavPoint struct {
	ID        string
	PlayOrder string
	Label     string
	Src       string
	Fragment  string // fragment identifier (without #)
}

type ncxDocument struct {
	XMLName xml.Name `xml:"ncx"`
	Head    struct {
		Meta []struct {
			Name    string `xml:"name,attr"`
			Content string `xml:"content,attr"`
		} `xml:"meta"`
	} `xml:"head"`
	DocTitle struct {
		Text string `xml:"text"`
	} `xml:"docTitle"`
	NavMap struct {
		NavPoints []struct {
			ID        string `xml:"id,attr"`
			PlayOrder string `xml:"playOrder,attr"`
			Label     struct {
				Text string `xml:"text"`
			} `xml:"navLabel"`
			Content struct {
				Src string `xml:"src,attr"`
			} `xml:"content"`
		} `xml:"navPoint"`
	} `xml:"navMap"`
}

// ParseNCX parses a toc.ncx document. Only the top level of the navigation
// map is read.
func ParseNCX(content []byte) (*NCX, error) {
	var doc ncxDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse NCX: %w", err)
	}

	ncx := &NCX{DocTitle: strings.TrimSpace(doc.DocTitle.Text)}
	for _, m := range doc.Head.Meta {
		if m.Name == "dtb:uid" {
			ncx.UID = m.Content
		}
	}
	for _, np := range doc.NavMap.NavPoints {
		src, fragment := splitFragment(np.Content.Src)
		ncx.NavPoints = append(ncx.NavPoints, NavPoint{
			ID:        np.ID,
			PlayOrder: np.PlayOrder,
			Label:     strings.TrimSpace(np.Label.Text),
			Src:       src,
			Fragment:  fragment,
		})
	}
	return ncx, nil
}

// splitFragment splits a source path into the path and fragment identifier.
func splitFragment(src string) (path, fragment string) {
	path, fragment, _ = strings.Cut(src, "#")
	return path, fragment
}

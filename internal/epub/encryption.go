package epub

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
)

// EncryptionPath is the location of the encryption document inside the
// container.
const EncryptionPath = "META-INF/encryption.xml"

// EncryptedResource is one EncryptedData element of encryption.xml.
type EncryptedResource struct {
	Algorithm string
	URI       string // archive path, URL-decoded
}

// Encryption lists the resources declared in META-INF/encryption.xml.
type Encryption struct {
	Resources []EncryptedResource
}

// encryptionXML represents the structure of META-INF/encryption.xml.
type encryptionXML struct {
	XMLName       xml.Name        `xml:"encryption"`
	EncryptedData []encryptedData `xml:"EncryptedData"`
}

type encryptedData struct {
	EncryptionMethod struct {
		Algorithm string `xml:"Algorithm,attr"`
	} `xml:"EncryptionMethod"`
	CipherData struct {
		CipherReference struct {
			URI string `xml:"URI,attr"`
		} `xml:"CipherReference"`
	} `xml:"CipherData"`
}

// ParseEncryption parses the content of an encryption.xml document.
func ParseEncryption(content []byte) (*Encryption, error) {
	var doc encryptionXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse encryption.xml: %w", err)
	}

	enc := &Encryption{}
	for _, ed := range doc.EncryptedData {
		uri := ed.CipherData.CipherReference.URI
		if unescaped, err := url.PathUnescape(uri); err == nil {
			uri = unescaped
		}
		enc.Resources = append(enc.Resources, EncryptedResource{
			Algorithm: strings.TrimSpace(ed.EncryptionMethod.Algorithm),
			URI:       normalizePath(strings.TrimPrefix(uri, "/")),
		})
	}
	return enc, nil
}

// Encryption reads META-INF/encryption.xml. An archive without one yields
// an empty Encryption.
func (a *Archive) Encryption() (*Encryption, error) {
	if !a.Has(EncryptionPath) {
		return &Encryption{}, nil
	}
	content, err := a.ReadFile(EncryptionPath)
	if err != nil {
		return nil, err
	}
	return ParseEncryption(content)
}

// Algorithm returns the algorithm URI declared for the resource at name.
func (e *Encryption) Algorithm(name string) (string, bool) {
	name = normalizePath(name)
	for _, r := range e.Resources {
		if r.URI == name {
			return r.Algorithm, true
		}
	}
	return "", false
}

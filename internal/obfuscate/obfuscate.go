// Package obfuscate implements the font obfuscation algorithms of the IDPF
// (OCF) and Adobe. Both XOR a fixed-size prefix of the font file with a key
// derived from the publication identifier, so the same transform both
// obfuscates and restores a font.
package obfuscate

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Algorithm selects the key derivation and the obfuscated prefix length.
type Algorithm int

const (
	IDPF Algorithm = iota
	Adobe
)

// Algorithm URIs used in META-INF/encryption.xml.
const (
	IDPFURI  = "http://www.idpf.org/2008/embedding"
	AdobeURI = "http://ns.adobe.com/pdf/enc#RC"
)

var (
	// ErrInvalidKey is returned when an identifier derives an empty key.
	ErrInvalidKey = errors.New("invalid obfuscation key")
	// ErrFileAccess wraps failures to read or write a font file.
	ErrFileAccess = errors.New("file access error")
)

var (
	ErrUnknownAlgorithm   = errors.New("unknown obfuscation algorithm")
	errUnsupportedAlgoURI = errors.New("unsupported encryption algorithm")
)

// ParseAlgorithm parses "idpf" or "adobe", ignoring case.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idpf":
		return IDPF, nil
	case "adobe":
		return Adobe, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// AlgorithmFromURI maps an encryption.xml algorithm URI to an Algorithm.
func AlgorithmFromURI(uri string) (Algorithm, error) {
	switch uri {
	case IDPFURI:
		return IDPF, nil
	case AdobeURI:
		return Adobe, nil
	}
	return 0, fmt.Errorf("%w: %s", errUnsupportedAlgoURI, uri)
}

func (a Algorithm) String() string {
	switch a {
	case IDPF:
		return "idpf"
	case Adobe:
		return "adobe"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// URI returns the encryption.xml algorithm URI of a.
func (a Algorithm) URI() string {
	if a == Adobe {
		return AdobeURI
	}
	return IDPFURI
}

// HeaderLen is the number of leading bytes the algorithm transforms.
func (a Algorithm) HeaderLen() int {
	if a == Adobe {
		return 1024
	}
	return 1040
}

var idpfStripper = strings.NewReplacer(" ", "", "\t", "", "\r", "", "\n", "")

var adobeStripper = strings.NewReplacer("urn:uuid:", "", "-", "", ":", "")

// DeriveKey computes the obfuscation key for identifier.
//
// IDPF keys are the SHA-1 digest of the identifier without whitespace.
// Adobe keys are the identifier without "urn:uuid:", dashes and colons;
// when what remains is hexadecimal, as for a UUID, it is decoded to its
// 16 raw bytes, otherwise its bytes are used as is.
func DeriveKey(identifier string, alg Algorithm) ([]byte, error) {
	switch alg {
	case IDPF:
		stripped := idpfStripper.Replace(identifier)
		if stripped == "" {
			return nil, fmt.Errorf("%w: empty identifier", ErrInvalidKey)
		}
		sum := sha1.Sum([]byte(stripped))
		return sum[:], nil
	case Adobe:
		stripped := adobeStripper.Replace(identifier)
		if stripped == "" {
			return nil, fmt.Errorf("%w: empty identifier", ErrInvalidKey)
		}
		if key, err := hex.DecodeString(stripped); err == nil {
			return key, nil
		}
		return []byte(stripped), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, alg)
}

// Transform returns a copy of data with its first alg.HeaderLen() bytes
// XORed with the repeating key. Applying it twice restores data.
func Transform(data, key []byte, alg Algorithm) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrInvalidKey
	}
	out := make([]byte, len(data))
	copy(out, data)
	n := min(alg.HeaderLen(), len(out))
	for i := 0; i < n; i++ {
		out[i] ^= key[i%len(key)]
	}
	return out, nil
}

// TransformFile derives the key from identifier, transforms the font at
// input and writes the result to output.
func TransformFile(input, output, identifier string, alg Algorithm) error {
	key, err := DeriveKey(identifier, alg)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	out, err := Transform(data, key, alg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	return nil
}

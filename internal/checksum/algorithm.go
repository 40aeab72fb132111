package checksum

import (
	"crypto/md5"  //nolint:gosec // Required by the repository layout, not used for security.
	"crypto/sha1" //nolint:gosec // Required by the repository layout, not used for security.
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Algorithm is a checksum algorithm identifier such as "sha-256".
type Algorithm string

// Supported algorithms.
const (
	MD5     Algorithm = "md5"
	SHA1    Algorithm = "sha-1"
	SHA256  Algorithm = "sha-256"
	SHA512  Algorithm = "sha-512"
	SHA3256 Algorithm = "sha3-256"
	SHA3512 Algorithm = "sha3-512"
	BLAKE3  Algorithm = "blake3"
)

// ErrUnknownAlgorithm is returned by ParseAlgorithm for unsupported identifiers.
var ErrUnknownAlgorithm = errors.New("unknown checksum algorithm")

// Algorithms returns every supported algorithm, required ones first.
func Algorithms() []Algorithm {
	return []Algorithm{MD5, SHA1, SHA256, SHA512, SHA3256, SHA3512, BLAKE3}
}

// Required returns the algorithms every artifact is hashed with.
func Required() []Algorithm {
	return []Algorithm{MD5, SHA1}
}

// ParseAlgorithm accepts an identifier with or without hyphens in any case,
// so "SHA-256", "sha256" and "sha-256" are the same algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	want := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))

	for _, algorithm := range Algorithms() {
		if algorithm.Extension() == want {
			return algorithm, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Extension returns the sibling file extension: the lowercase identifier without hyphens.
func (a Algorithm) Extension() string {
	return strings.ToLower(strings.ReplaceAll(string(a), "-", ""))
}

// New returns a fresh hash for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case MD5:
		return md5.New(), nil //nolint:gosec // See import.
	case SHA1:
		return sha1.New(), nil //nolint:gosec // See import.
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA3256:
		return sha3.New256(), nil
	case SHA3512:
		return sha3.New512(), nil
	case BLAKE3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
	}
}

// EncodeHex renders data as a hex string in lower or upper case.
func EncodeHex(data []byte, lower bool) string {
	encoded := hex.EncodeToString(data)
	if lower {
		return encoded
	}

	return strings.ToUpper(encoded)
}

// IsChecksumFile reports whether name carries the extension of any supported algorithm.
func IsChecksumFile(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return false
	}

	ext := strings.ToLower(name[dot+1:])

	for _, algorithm := range Algorithms() {
		if algorithm.Extension() == ext {
			return true
		}
	}

	return false
}

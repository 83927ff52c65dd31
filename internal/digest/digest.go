// Package digest hashes byte buffers and encodes the result as text.
//
// Algorithms and encodings are closed sets parsed once from configuration
// strings, so a digest call itself can never fail.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base32"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/md4"
)

// Unbounded disables truncation of the encoded digest.
const Unbounded = -1

var (
	// ErrUnsupportedAlgorithm is returned for an unknown algorithm name.
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")
	// ErrUnsupportedEncoding is returned for an unknown encoding name.
	ErrUnsupportedEncoding = errors.New("unsupported digest encoding")
)

// Algorithm identifies a hash function.
type Algorithm int

// Supported algorithms.
const (
	XXHash64 Algorithm = iota
	MD4
	MD5
	SHA1
	SHA224
	SHA256
	SHA384
	SHA512
)

var algorithmNames = map[Algorithm]string{
	XXHash64: "xxhash64",
	MD4:      "md4",
	MD5:      "md5",
	SHA1:     "sha1",
	SHA224:   "sha224",
	SHA256:   "sha256",
	SHA384:   "sha384",
	SHA512:   "sha512",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Encoding identifies a text encoding for digest bytes.
type Encoding int

// Supported encodings.
const (
	Hex Encoding = iota
	Base32
	Base64
	Base64URL
)

var encodingNames = map[Encoding]string{
	Hex:       "hex",
	Base32:    "base32",
	Base64:    "base64",
	Base64URL: "base64url",
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

// lowercase RFC 4648 alphabet, padded
var base32Lower = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567")

// ParseAlgorithm maps a case-sensitive algorithm name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	for alg, n := range algorithmNames {
		if n == name {
			return alg, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedAlgorithm, name, strings.Join(Algorithms(), ", "))
}

// ParseEncoding maps a case-sensitive encoding name to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	for enc, n := range encodingNames {
		if n == name {
			return enc, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedEncoding, name, strings.Join(Encodings(), ", "))
}

// Algorithms lists the supported algorithm names in declaration order.
func Algorithms() []string {
	names := make([]string, 0, len(algorithmNames))
	for alg := XXHash64; alg <= SHA512; alg++ {
		names = append(names, algorithmNames[alg])
	}
	return names
}

// Encodings lists the supported encoding names in declaration order.
func Encodings() []string {
	names := make([]string, 0, len(encodingNames))
	for enc := Hex; enc <= Base64URL; enc++ {
		names = append(names, encodingNames[enc])
	}
	return names
}

// Sum returns the raw digest of data.
func Sum(data []byte, alg Algorithm) []byte {
	switch alg {
	case MD4:
		h := md4.New()
		h.Write(data)
		return h.Sum(nil)
	case MD5:
		sum := md5.Sum(data)
		return sum[:]
	case SHA1:
		sum := sha1.Sum(data)
		return sum[:]
	case SHA224:
		sum := sha256.Sum224(data)
		return sum[:]
	case SHA256:
		sum := sha256.Sum256(data)
		return sum[:]
	case SHA384:
		sum := sha512.Sum384(data)
		return sum[:]
	case SHA512:
		sum := sha512.Sum512(data)
		return sum[:]
	default:
		return binary.BigEndian.AppendUint64(nil, xxhash.Sum64(data))
	}
}

// Encode renders raw digest bytes with enc.
func Encode(sum []byte, enc Encoding) string {
	switch enc {
	case Base32:
		return base32Lower.EncodeToString(sum)
	case Base64:
		return base64.StdEncoding.EncodeToString(sum)
	case Base64URL:
		return base64.URLEncoding.EncodeToString(sum)
	default:
		return hex.EncodeToString(sum)
	}
}

// Digest hashes data with alg, encodes it with enc and truncates the text to
// maxLength characters. A negative maxLength or one at or beyond the encoded
// length returns the whole string; the result is never padded.
func Digest(data []byte, alg Algorithm, enc Encoding, maxLength int) string {
	s := Encode(Sum(data, alg), enc)
	if maxLength >= 0 && maxLength < len(s) {
		return s[:maxLength]
	}
	return s
}

// HashDigest is Digest keyed by configuration names.
func HashDigest(data []byte, algorithm, encoding string, maxLength int) (string, error) {
	alg, err := ParseAlgorithm(algorithm)
	if err != nil {
		return "", err
	}
	enc, err := ParseEncoding(encoding)
	if err != nil {
		return "", err
	}
	return Digest(data, alg, enc, maxLength), nil
}

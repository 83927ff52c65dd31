// Package interpolate expands file-name patterns such as
// "[name]__[hash:base64:5]" the way webpack loaders do.
package interpolate

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/yacobolo/cssmodules/internal/digest"
)

// Metadata defaults for paths that lack the corresponding component.
const (
	DefaultExt    = "bin"
	DefaultName   = "file"
	DefaultFolder = ""
)

// [<algorithm>:](hash|contenthash)[:<encoding>][:<length>]
var hashTokenRe = regexp.MustCompile(`\[(?:([^\[:\]]+):)?(?:hash|contenthash)(?::([a-z][a-z0-9]*))?(?::(\d+))?\]`)

// FileMeta holds the path components exposed as [ext], [name] and [folder].
type FileMeta struct {
	Ext    string
	Name   string
	Folder string
}

// MetaFromPath derives FileMeta from a file path. A leading dot does not
// start an extension, so ".env" has name ".env" and the default extension.
func MetaFromPath(path string) FileMeta {
	meta := FileMeta{Ext: DefaultExt, Name: DefaultName, Folder: DefaultFolder}

	trimmed := trimSeparators(path)
	dir, base := filepath.Split(trimmed)
	if base != "" && base != "." && base != ".." {
		name, ext, ok := splitExt(base)
		meta.Name = name
		if ok {
			meta.Ext = ext
		}
	}

	if parent := trimSeparators(dir); parent != "" {
		folder := filepath.Base(parent)
		if folder != "." && folder != ".." && !isSeparators(folder) {
			meta.Folder = folder
		}
	}
	return meta
}

func splitExt(base string) (name, ext string, ok bool) {
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return base, "", false
	}
	return base[:i], base[i+1:], true
}

func trimSeparators(p string) string {
	return strings.TrimRight(p, "/"+string(filepath.Separator))
}

func isSeparators(s string) bool {
	return trimSeparators(s) == ""
}

// HashToken is a parsed [hash] placeholder.
type HashToken struct {
	Algorithm digest.Algorithm
	Encoding  digest.Encoding
	MaxLength int
}

func parseHashToken(pattern string, loc []int) (HashToken, error) {
	tok := HashToken{Algorithm: digest.XXHash64, Encoding: digest.Hex, MaxLength: digest.Unbounded}

	if loc[2] >= 0 {
		alg, err := digest.ParseAlgorithm(pattern[loc[2]:loc[3]])
		if err != nil {
			return tok, fmt.Errorf("token %s: %w", pattern[loc[0]:loc[1]], err)
		}
		tok.Algorithm = alg
	}
	if loc[4] >= 0 {
		enc, err := digest.ParseEncoding(pattern[loc[4]:loc[5]])
		if err != nil {
			return tok, fmt.Errorf("token %s: %w", pattern[loc[0]:loc[1]], err)
		}
		tok.Encoding = enc
	}
	if loc[6] >= 0 {
		// lengths that overflow int are longer than any digest
		if n, err := strconv.Atoi(pattern[loc[6]:loc[7]]); err == nil {
			tok.MaxLength = n
		}
	}
	return tok, nil
}

// HashTokens parses every hash placeholder in pattern, in order.
func HashTokens(pattern string) ([]HashToken, error) {
	var tokens []HashToken
	for _, loc := range hashTokenRe.FindAllStringSubmatchIndex(pattern, -1) {
		tok, err := parseHashToken(pattern, loc)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Validate reports the first hash placeholder naming an unsupported
// algorithm or encoding.
func Validate(pattern string) error {
	_, err := HashTokens(pattern)
	return err
}

// Interpolate expands pattern. Hash placeholders are replaced first, each
// with its own digest of content; a nil content leaves them untouched. The
// [ext], [name] and [folder] placeholders are then substituted literally.
func Interpolate(pattern string, meta FileMeta, content []byte) (string, error) {
	result := pattern
	if content != nil {
		var b strings.Builder
		last := 0
		for _, loc := range hashTokenRe.FindAllStringSubmatchIndex(pattern, -1) {
			tok, err := parseHashToken(pattern, loc)
			if err != nil {
				return "", err
			}
			b.WriteString(pattern[last:loc[0]])
			b.WriteString(digest.Digest(content, tok.Algorithm, tok.Encoding, tok.MaxLength))
			last = loc[1]
		}
		b.WriteString(pattern[last:])
		result = b.String()
	}

	result = strings.ReplaceAll(result, "[ext]", meta.Ext)
	result = strings.ReplaceAll(result, "[name]", meta.Name)
	result = strings.ReplaceAll(result, "[folder]", meta.Folder)
	return result, nil
}

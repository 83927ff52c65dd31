package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/cssmodules/internal/digest"
)

func TestMetaFromPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want FileMeta
	}{
		{"absolute file", "/absolute/path/to/app/js/javascript.js", FileMeta{Ext: "js", Name: "javascript", Folder: "js"}},
		{"double extension", "/src/components/Button.module.css", FileMeta{Ext: "css", Name: "Button.module", Folder: "components"}},
		{"relative file", "styles/app.css", FileMeta{Ext: "css", Name: "app", Folder: "styles"}},
		{"bare file", "app.css", FileMeta{Ext: "css", Name: "app", Folder: ""}},
		{"file at root", "/app.css", FileMeta{Ext: "css", Name: "app", Folder: ""}},
		{"dotfile", "/config/.env", FileMeta{Ext: "bin", Name: ".env", Folder: "config"}},
		{"no extension", "/bin/Makefile", FileMeta{Ext: "bin", Name: "Makefile", Folder: "bin"}},
		{"trailing dot", "/a/file.", FileMeta{Ext: "", Name: "file", Folder: "a"}},
		{"empty", "", FileMeta{Ext: "bin", Name: "file", Folder: ""}},
		{"parent traversal", "x/../app.css", FileMeta{Ext: "css", Name: "app", Folder: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MetaFromPath(tt.path))
		})
	}
}

func TestInterpolate(t *testing.T) {
	meta := MetaFromPath("/absolute/path/to/app/js/javascript.js")
	content := []byte("content")

	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"default hash", "js/[hash].script.[ext]", "js/6c5b191a31c5a9fc.script.js"},
		{"contenthash alias", "[contenthash].[ext]", "6c5b191a31c5a9fc.js"},
		{"encoding and length", "[name]-[hash:base64:5]", "javascript-bFsZG"},
		{"algorithm prefix", "[md5:hash:hex:8]", "9a0364b9"},
		{"each token independent", "[sha1:hash:hex:6]_[hash:hex:4]", "040f06_6c5b"},
		{"folder", "[folder]/[name].[ext]", "js/javascript.js"},
		{"no tokens", "static", "static"},
		{"repeated placeholders", "[name][name]", "javascriptjavascript"},
		{"oversized length", "[hash:hex:9999]", "6c5b191a31c5a9fc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpolate(tt.pattern, meta, content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpolateWithoutContent(t *testing.T) {
	meta := MetaFromPath("/src/app.css")

	got, err := Interpolate("[name]_[hash:base64:5].[ext]", meta, nil)
	require.NoError(t, err)
	assert.Equal(t, "app_[hash:base64:5].css", got)

	// invalid tokens are inert without content
	got, err = Interpolate("[crc32:hash]", meta, nil)
	require.NoError(t, err)
	assert.Equal(t, "[crc32:hash]", got)
}

func TestInterpolateErrors(t *testing.T) {
	meta := MetaFromPath("/src/app.css")

	_, err := Interpolate("[crc32:hash]", meta, []byte("x"))
	require.ErrorIs(t, err, digest.ErrUnsupportedAlgorithm)

	_, err = Interpolate("[hash:base36]", meta, []byte("x"))
	require.ErrorIs(t, err, digest.ErrUnsupportedEncoding)
}

func TestHashTokens(t *testing.T) {
	tokens, err := HashTokens("[local]_[md4:hash:base64url:7]_[contenthash]")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, HashToken{Algorithm: digest.MD4, Encoding: digest.Base64URL, MaxLength: 7}, tokens[0])
	assert.Equal(t, HashToken{Algorithm: digest.XXHash64, Encoding: digest.Hex, MaxLength: digest.Unbounded}, tokens[1])

	require.NoError(t, Validate("[name]__[local]"))
	require.Error(t, Validate("[sha3:hash]"))
}

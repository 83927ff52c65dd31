package cssmodules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	"github.com/yacobolo/cssmodules/internal/digest"
	"github.com/yacobolo/cssmodules/internal/naming"
)

const (
	testCwd  = "/project"
	testFile = "/project/src/App.js"
)

func readableConfig() Config {
	cfg := DefaultConfig()
	cfg.GenerateScopedName = "[name]__[local]"
	return cfg
}

func printJS(t *testing.T, src string) string {
	t.Helper()
	ast, err := js.Parse(parse.NewInputString(src), js.Options{})
	require.NoError(t, err)
	return ast.JSString()
}

func transform(t *testing.T, cfg Config, src string) *FileResult {
	t.Helper()
	m, err := ParseModule(testFile, []byte(src))
	require.NoError(t, err)
	result, err := TransformModule(testCwd, m, cfg)
	require.NoError(t, err)
	return result
}

func TestTransformModule(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "default import member access",
			input: "import styles from \"./Button.module.css\";\nconst a = styles.title;",
			want:  "import \"./Button.module.css\";\nconst a = \"Button-module__title\";",
		},
		{
			name:  "namespace import",
			input: "import * as s from \"./card.css\";\nel.className = s.root;",
			want:  "import \"./card.css\";\nel.className = \"card__root\";",
		},
		{
			name:  "named imports with alias",
			input: "import { title as t, body } from \"./card.css\";\nf(t, body);",
			want:  "import \"./card.css\";\nf(\"card__title\", \"card__body\");",
		},
		{
			name:  "string export name",
			input: "import { \"is-active\" as active } from \"./card.css\";\nf(active);",
			want:  "import \"./card.css\";\nf(\"card__is-active\");",
		},
		{
			name:  "computed string literal",
			input: "import styles from \"./card.css\";\nf(styles[\"my-title\"], styles['other']);",
			want:  "import \"./card.css\";\nf(\"card__my-title\", \"card__other\");",
		},
		{
			name:  "escaped computed key",
			input: "import styles from \"./card.css\";\nf(styles[\"a\\u002db\"], styles['it\\'s'], styles[\"\\x41\\u{42}\"]);",
			want:  "import \"./card.css\";\nf(\"card__a-b\", \"card__it-s\", \"card__AB\");",
		},
		{
			name:  "re-import last wins",
			input: "import s from \"./a.css\";\nimport s from \"./b.css\";\nf(s.x);",
			want:  "import \"./a.css\";\nimport \"./b.css\";\nf(\"b__x\");",
		},
		{
			name:  "optional chaining",
			input: "import styles from \"./card.css\";\nf(styles?.title);",
			want:  "import \"./card.css\";\nf(\"card__title\");",
		},
		{
			name:  "use before import",
			input: "const a = styles.title;\nimport styles from \"./card.css\";",
			want:  "const a = \"card__title\";\nimport \"./card.css\";",
		},
		{
			name:  "default and named in one declaration",
			input: "import s, { body } from \"./card.css\";\nf(s.head, body);",
			want:  "import \"./card.css\";\nf(\"card__head\", \"card__body\");",
		},
		{
			name: "nested expressions",
			input: "import s from \"./card.css\";\n" +
				"const render = (on) => `<div class=\"${on ? s.on : s.off}\">`;\n" +
				"class X { cls = s.root; m() { return [s.item]; } }\n" +
				"const o = { [s.key]: s.value, ...s.rest };\n" +
				"function g(a = s.fallback) { if (a) { return s.yes; } }",
			want: "import \"./card.css\";\n" +
				"const render = (on) => `<div class=\"${on ? \"card__on\" : \"card__off\"}\">`;\n" +
				"class X { cls = \"card__root\"; m() { return [\"card__item\"]; } }\n" +
				"const o = { [\"card__key\"]: \"card__value\", ...\"card__rest\" };\n" +
				"function g(a = \"card__fallback\") { if (a) { return \"card__yes\"; } }",
		},
		{
			name:  "shorthand property of named import",
			input: "import { title } from \"./card.css\";\nconst o = { title };",
			want:  "import \"./card.css\";\nconst o = { title: \"card__title\" };",
		},
		{
			name:  "other imports untouched",
			input: "import React from \"react\";\nimport s from \"./card.css\";\nReact.x(s.a);",
			want:  "import React from \"react\";\nimport \"./card.css\";\nReact.x(\"card__a\");",
		},
		{
			name:  "foreign members untouched",
			input: "import s from \"./card.css\";\nf(other.title, s.a.b);",
			want:  "import \"./card.css\";\nf(other.title, \"card__a\".b);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := transform(t, readableConfig(), tt.input)
			assert.True(t, result.Changed)
			assert.Empty(t, result.Issues)
			assert.Equal(t, printJS(t, tt.want), result.Code)
		})
	}
}

func TestTransformModuleUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		suffix string
		input  string
	}{
		{
			name:  "no stylesheet imports",
			input: "import React from \"react\";\n// comment kept\nconst a = styles.title;\n",
		},
		{
			name:   "suffix mismatch",
			suffix: ".module.css",
			input:  "import s from \"./plain.css\";\nf(s.a);\n",
		},
		{
			name:  "side-effect and empty imports",
			input: "import \"./a.css\";\nimport {} from \"./b.css\";\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := readableConfig()
			if tt.suffix != "" {
				cfg.CSSModulesSuffix = tt.suffix
			}
			result := transform(t, cfg, tt.input)
			assert.False(t, result.Changed)
			assert.Equal(t, tt.input, result.Code)
			assert.Zero(t, result.Stats.NamesInjected)
		})
	}
}

func TestComputedAccessDiagnostic(t *testing.T) {
	src := "import styles from \"./card.css\";\nconst k = \"x\";\nconst c = styles[k] + styles[\"ok\"];\n\tf(styles[prefix + \"title\"]);\n"
	result := transform(t, readableConfig(), src)

	want := printJS(t, "import \"./card.css\";\nconst k = \"x\";\nconst c = styles[k] + \"card__ok\";\n\tf(styles[prefix + \"title\"]);\n")
	assert.Equal(t, want, result.Code)

	require.Len(t, result.Issues, 2)
	first, second := result.Issues[0], result.Issues[1]

	assert.Equal(t, SeverityError, first.Severity)
	assert.Equal(t, LinterName, first.FromLinter)
	assert.Equal(t, `computed property access on "styles" cannot be injected`, first.Text)
	assert.Equal(t, IssuePos{Filename: testFile, Line: 3, Column: 11, Offset: 58}, first.Pos)
	assert.Equal(t, []string{"const c = styles[k] + styles[\"ok\"];"}, first.SourceLines)

	assert.Equal(t, 4, second.Pos.Line)
	assert.Equal(t, 4, second.Pos.Column)
	assert.Equal(t, []string{"\tf(styles[prefix + \"title\"]);"}, second.SourceLines)

	assert.Equal(t, 2, result.Stats.Diagnostics)
	assert.Equal(t, 1, result.Stats.NamesInjected)
}

func TestForbidNamedImports(t *testing.T) {
	cfg := readableConfig()
	cfg.ForbidNamedImports = true

	t.Run("named only", func(t *testing.T) {
		src := "import { title } from \"./card.css\";\nconst a = title;\n"
		result := transform(t, cfg, src)

		assert.False(t, result.Changed)
		assert.Equal(t, src, result.Code)
		require.Len(t, result.Issues, 1)
		assert.Equal(t, `named import "title" from stylesheet module is not allowed`, result.Issues[0].Text)
		assert.Equal(t, 1, result.Issues[0].Pos.Line)
		assert.Equal(t, 10, result.Issues[0].Pos.Column)
	})

	t.Run("named next to default", func(t *testing.T) {
		src := "import { x as y } from \"react\";\nimport s, { a as y } from \"./card.css\";\nf(s.root, y);\n"
		result := transform(t, cfg, src)

		assert.True(t, result.Changed)
		assert.Equal(t, printJS(t, "import { x as y } from \"react\";\nimport { a as y } from \"./card.css\";\nf(\"card__root\", y);"), result.Code)
		require.Len(t, result.Issues, 1)
		// second `y` binding in the file
		assert.Equal(t, 2, result.Issues[0].Pos.Line)
		assert.Equal(t, 18, result.Issues[0].Pos.Column)
	})
}

func TestHashedNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GenerateScopedName = "[local]_[hash:base64:5]"

	result := transform(t, cfg, "import s from \"./a.css\";\nf(s.title);")
	assert.Equal(t, printJS(t, "import \"./a.css\";\nf(\"title_fasik\");"), result.Code)

	t.Run("default and named agree", func(t *testing.T) {
		named := transform(t, cfg, "import { title } from \"./a.css\";\nf(title);")
		assert.Equal(t, result.Code, named.Code)
	})

	t.Run("hash prefix changes names", func(t *testing.T) {
		prefixed := cfg
		prefixed.HashPrefix = "v2"
		other := transform(t, prefixed, "import s from \"./a.css\";\nf(s.title);")
		assert.NotEqual(t, result.Code, other.Code)
	})
}

func TestModuleDirectory(t *testing.T) {
	cfg := readableConfig()
	cfg.GenerateScopedName = "[folder]_[local]"

	tests := []struct {
		name string
		cwd  string
		root string
		path string
		src  string
		want string
	}{
		{"absolute module path", "/elsewhere", "", "/project/src/App.js", "import s from \"../styles/a.css\";\nf(s.x);", "f(\"styles_x\");"},
		{"relative module path", "/project", "", "src/App.js", "import s from \"../styles/a.css\";\nf(s.x);", "f(\"styles_x\");"},
		{"root overrides cwd", "/project", "/other", "lib/App.js", "import s from \"./a.css\";\nf(s.x);", "f(\"lib_x\");"},
		{"absolute specifier", "/project", "", "src/App.js", "import s from \"/abs/theme/a.css\";\nf(s.x);", "f(\"theme_x\");"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			c.Root = tt.root
			m, err := ParseModule(tt.path, []byte(tt.src))
			require.NoError(t, err)
			result, err := TransformModule(tt.cwd, m, c)
			require.NoError(t, err)
			assert.Contains(t, result.Code, printJS(t, tt.want))
		})
	}
}

func TestRewriteErrors(t *testing.T) {
	t.Run("unresolvable source", func(t *testing.T) {
		m, err := ParseModule("src/App.js", []byte("import s from \"./a.css\";\nf(s.x);"))
		require.NoError(t, err)

		_, err = TransformModule("relative/dir", m, readableConfig())
		require.ErrorIs(t, err, ErrUnresolved)

		var resolveErr *ResolveError
		require.ErrorAs(t, err, &resolveErr)
		assert.Equal(t, "./a.css", resolveErr.Specifier)
		assert.Equal(t, "relative/dir/src", resolveErr.Dir)
	})

	t.Run("resolver returns a relative path", func(t *testing.T) {
		m, err := ParseModule(testFile, []byte("import s from \"./a.css\";"))
		require.NoError(t, err)

		_, err = TransformModule(testCwd, m, readableConfig(), WithResolver(fixedResolver{path: "styles/a.css"}))
		require.ErrorIs(t, err, ErrUnresolved)
		assert.Contains(t, err.Error(), testFile)

		var resolveErr *ResolveError
		require.ErrorAs(t, err, &resolveErr)
		assert.Equal(t, ResolveError{Dir: "/project/src", Specifier: "./a.css", Resolved: "styles/a.css"}, *resolveErr)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GenerateScopedName = "[crc32:hash]"
		_, err := NewInjector(testCwd, testFile, cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.ErrorIs(t, err, digest.ErrUnsupportedAlgorithm)
	})

	t.Run("unsupported encoding", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GenerateScopedName = "[hash:base36:5]"
		_, err := NewInjector(testCwd, testFile, cfg)
		require.ErrorIs(t, err, digest.ErrUnsupportedEncoding)
	})

	t.Run("empty suffix", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CSSModulesSuffix = ""
		_, err := NewInjector(testCwd, testFile, cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("hash placeholder smuggled in a property name", func(t *testing.T) {
		m, err := ParseModule(testFile, []byte("import s from \"./a.css\";\nf(s[\"[crc32:hash]\"]);"))
		require.NoError(t, err)
		_, err = TransformModule(testCwd, m, readableConfig())
		require.ErrorIs(t, err, digest.ErrUnsupportedAlgorithm)
	})
}

func TestInjectorImportTable(t *testing.T) {
	m, err := ParseModule(testFile, []byte("import a from \"./x.css\";\nimport * as b from \"../y.css\";\nimport { c as d } from \"./z.css\";"))
	require.NoError(t, err)

	injector, err := NewInjector(testCwd, testFile, readableConfig())
	require.NoError(t, err)
	require.NoError(t, injector.Rewrite(m.AST))

	assert.Equal(t, map[string]ResolvedImport{
		"a": {Local: "a", Kind: KindDefault, Source: "/project/src/x.css"},
		"b": {Local: "b", Kind: KindNamespace, Source: "/project/y.css"},
		"d": {Local: "d", Kind: KindNamed, Exported: "c", Source: "/project/src/z.css"},
	}, injector.Imports())

	stats := injector.Stats()
	assert.Equal(t, 3, stats.ImportsRewritten)
	assert.Equal(t, 3, stats.SpecifiersRemoved)
}

func TestReimportLastWins(t *testing.T) {
	m, err := ParseModule(testFile, []byte("import s from \"./a.css\";\nimport s from \"./b.css\";\nf(s.x);"))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.GenerateScopedName = "[hash:hex:8]"
	injector, err := NewInjector(testCwd, testFile, cfg)
	require.NoError(t, err)
	require.NoError(t, injector.Rewrite(m.AST))

	assert.Equal(t, "/project/src/b.css", injector.Imports()["s"].Source)

	generator, err := naming.New(cfg.GenerateScopedName, naming.Options{Context: testCwd})
	require.NoError(t, err)
	want, err := generator.Generate("x", "/project/src/b.css")
	require.NoError(t, err)
	assert.Contains(t, m.Code(), `"`+want+`"`)
}

func TestRelativeRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GenerateScopedName = "[hash:hex:8]"
	src := "import s from \"./a.css\";\nf(s.title);"

	render := func(cwd, root string) string {
		c := cfg
		c.Root = root
		m, err := ParseModule(cwd+"/web/src/App.js", []byte(src))
		require.NoError(t, err)
		result, err := TransformModule(cwd, m, c)
		require.NoError(t, err)
		return result.Code
	}

	alice := render("/home/alice/proj", "web")
	assert.Equal(t, alice, render("/ci/build", "web"))
	assert.Equal(t, alice, render("/home/alice/proj", "/home/alice/proj/web"))
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"plain"`, "plain"},
		{`'single'`, "single"},
		{`"a\u002db"`, "a-b"},
		{`"\u{1F600}"`, "\U0001F600"},
		{`"\uD83D\uDE00"`, "\U0001F600"},
		{`"\x41\n\t"`, "A\n\t"},
		{`"it\'s \"q\""`, `it's "q"`},
		{"\"line\\\ncontinued\"", "linecontinued"},
		{`"bad \xZZ"`, `bad \xZZ`},
		{`"bad \u{110000}"`, `bad \u{110000}`},
		{`unquoted`, "unquoted"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, unquote([]byte(tt.in)))
		})
	}
}

type fixedResolver struct{ path string }

func (r fixedResolver) Resolve(string, string) (string, error) { return r.path, nil }

func TestWithResolver(t *testing.T) {
	m, err := ParseModule(testFile, []byte("import s from \"pkg/theme.css\";\nf(s.x);"))
	require.NoError(t, err)

	result, err := TransformModule(testCwd, m, readableConfig(), WithResolver(fixedResolver{path: "/node_modules/pkg/dist/theme.css"}), WithCacheSize(1))
	require.NoError(t, err)
	assert.Contains(t, result.Code, `"theme__x"`)
}

func TestParseIssue(t *testing.T) {
	_, err := ParseModule("bad.js", []byte("const = 1;"))
	require.Error(t, err)

	issue, ok := ParseIssue("bad.js", err)
	require.True(t, ok)
	assert.Equal(t, SeverityError, issue.Severity)
	assert.Equal(t, "bad.js", issue.Pos.Filename)
	assert.Equal(t, 1, issue.Pos.Line)

	_, ok = ParseIssue("bad.js", assert.AnError)
	assert.False(t, ok)
}

package cssmodules

import (
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// siteScanner finds the source offsets of the constructs diagnostics point
// at. The AST carries no positions, so the source is lexed again and sites
// are matched to diagnostics by per-binding ordinal.
type siteScanner struct {
	sites map[siteKey][]int

	prevTT      js.TokenType
	ident       string // binding reference directly before the current token
	identOffset int

	parens     []bool // per open paren: heads an if, while, for or with
	headClosed bool   // the last `)` closed such a head

	inImport      bool
	inBraces      bool
	named         bool // a specifier name was read and may be followed by `as`
	afterAs       bool
	pending       string
	pendingOffset int
}

// scanSites returns, per (kind, binding), the byte offsets of `binding[`,
// `binding?.[` and of named import bindings, in source order.
func scanSites(source string) map[siteKey][]int {
	s := &siteScanner{sites: make(map[siteKey][]int), prevTT: js.ErrorToken}

	l := js.NewLexer(parse.NewInputString(source))
	offset := 0
	for {
		tt, data := l.Next()
		if tt == js.ErrorToken {
			// sites past a lexing error stay unlocated
			break
		}
		if (tt == js.DivToken || tt == js.DivEqToken) && s.regexpAllowed() {
			// RegExp rewinds to the slash, so the token still starts at offset
			if tt, data = l.RegExp(); tt == js.ErrorToken {
				break
			}
		}
		start := offset
		offset += len(data)

		switch tt {
		case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken, js.CommentLineTerminatorToken:
			continue
		}
		s.token(tt, data, start)
	}
	return s.sites
}

func (s *siteScanner) add(kind DiagnosticKind, binding string, offset int) {
	key := siteKey{kind: kind, binding: binding}
	s.sites[key] = append(s.sites[key], offset)
}

func (s *siteScanner) token(tt js.TokenType, data []byte, start int) {
	if tt == js.OpenBracketToken && s.ident != "" {
		s.add(DiagComputedAccess, s.ident, s.identOffset)
	}

	switch tt {
	case js.OpenParenToken:
		s.parens = append(s.parens, isStatementHead(s.prevTT))
	case js.CloseParenToken:
		s.headClosed = false
		if n := len(s.parens); n > 0 {
			s.headClosed = s.parens[n-1]
			s.parens = s.parens[:n-1]
		}
	}

	if s.inImport {
		s.importToken(tt, data, start)
	} else if tt == js.ImportToken && s.prevTT != js.DotToken {
		s.inImport = true
		s.inBraces, s.named, s.afterAs, s.pending = false, false, false, ""
	}

	switch {
	case js.IsIdentifier(tt) && s.prevTT != js.DotToken && s.prevTT != js.OptChainToken:
		s.ident, s.identOffset = string(data), start
	case tt == js.OptChainToken && s.ident != "":
		// `binding?.[` keeps the binding
	default:
		s.ident = ""
	}
	s.prevTT = tt
}

// importToken tracks the clause of an import declaration and records the
// local name of every `{ name }`, `{ name as local }` and
// `{ "name" as local }` specifier.
func (s *siteScanner) importToken(tt js.TokenType, data []byte, start int) {
	if !s.inBraces {
		switch tt {
		case js.OpenBraceToken:
			s.inBraces = true
		case js.StringToken, js.SemicolonToken, js.OpenParenToken, js.DotToken:
			// end of the declaration, or import() / import.meta
			s.inImport = false
		}
		return
	}

	switch {
	case tt == js.CommaToken || tt == js.CloseBraceToken:
		if s.pending != "" {
			s.add(DiagNamedImport, s.pending, s.pendingOffset)
		}
		s.pending, s.named, s.afterAs = "", false, false
		if tt == js.CloseBraceToken {
			s.inBraces = false
		}
	case tt == js.AsToken && s.named && !s.afterAs:
		s.pending, s.named, s.afterAs = "", false, true
	case tt == js.StringToken:
		s.pending, s.named = "", true
	case js.IsIdentifierName(tt):
		if s.afterAs {
			s.add(DiagNamedImport, string(data), start)
			s.afterAs = false
		} else {
			s.pending, s.pendingOffset, s.named = string(data), start, true
		}
	}
}

// regexpAllowed reports whether a `/` at the current position starts a
// regular expression. A `)` ends an expression unless it closes the head
// of an if, while, for or with statement.
func (s *siteScanner) regexpAllowed() bool {
	if s.prevTT == js.CloseParenToken && s.headClosed {
		return true
	}
	return regexpAllowed(s.prevTT)
}

func isStatementHead(tt js.TokenType) bool {
	switch tt {
	case js.IfToken, js.WhileToken, js.ForToken, js.WithToken:
		return true
	}
	return false
}

// regexpAllowed reports whether a `/` following prev starts a regular
// expression rather than a division.
func regexpAllowed(prev js.TokenType) bool {
	switch prev {
	case js.StringToken, js.RegExpToken, js.TemplateToken, js.TemplateEndToken, js.PrivateIdentifierToken,
		js.CloseParenToken, js.CloseBracketToken, js.CloseBraceToken,
		js.ThisToken, js.SuperToken, js.NullToken, js.TrueToken, js.FalseToken:
		return false
	}
	return !js.IsNumeric(prev) && !js.IsIdentifier(prev)
}

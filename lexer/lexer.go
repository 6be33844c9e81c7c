// Package lexer turns a DTS source byte slice into a flat token stream.
// The lexer is intentionally simple (spec.md §2 calls tokenization
// "straightforward and not the hard part"): a single left-to-right scan,
// longest-match on the fixed DTS directives, and tolerant handling of
// malformed string/bytestring/char literals (surfaced as LexErrors rather
// than aborting the scan).
package lexer

import (
	"strings"

	"github.com/wctrl/dtgo/token"
)

// Token is one lexical unit: its kind and its exact source text. Unlike
// cst.Token, a lexer Token always owns its text as a slice of the source
// (the parser decides whether to share a static spelling later).
type Token struct {
	Kind token.Kind
	Text string
}

// LexError is a malformed-token diagnostic, kept separate from parse
// errors (spec.md §6/§7: "lex errors ... surfaced separately and do not
// abort parsing").
type LexError struct {
	Offset  int
	Message string
}

var fixedDirectives = []struct {
	text string
	kind token.Kind
}{
	// Longest first so e.g. `/delete-property/` isn't shadowed by a
	// shorter prefix match.
	{"/delete-property/", token.DeletePropertyDirective},
	{"/delete-node/", token.DeleteNodeDirective},
	{"/memreserve/", token.MemreserveDirective},
	{"/include/", token.IncludeDirective},
	{"/dts-v1/", token.V1Directive},
	{"/plugin/", token.PluginDirective},
	{"/bits/", token.BitsDirective},
}

// Lex tokenizes src in full, returning every token (trivia included) plus
// a terminal Eof token, and any lex errors encountered along the way.
func Lex(src []byte) ([]Token, []LexError) {
	l := &lexer{src: src}
	var toks []Token
	var errs []LexError
	for l.pos < len(l.src) {
		tok, err := l.next()
		toks = append(toks, tok)
		if err != nil {
			errs = append(errs, *err)
		}
	}
	toks = append(toks, Token{Kind: token.Eof, Text: ""})
	return toks, errs
}

type lexer struct {
	src []byte
	pos int
}

func (l *lexer) next() (Token, *LexError) {
	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == ' ' || c == '\t' || c == '\r' || c == '\n':
		for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
			l.pos++
		}
		return l.tok(token.Whitespace, start), nil

	case strings.HasPrefix(string(l.src[l.pos:]), "//"):
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		return l.tok(token.LineComment, start), nil

	case strings.HasPrefix(string(l.src[l.pos:]), "/*"):
		l.pos += 2
		for l.pos < len(l.src) && !strings.HasPrefix(string(l.src[l.pos:]), "*/") {
			l.pos++
		}
		if l.pos < len(l.src) {
			l.pos += 2
			return l.tok(token.BlockComment, start), nil
		}
		return l.tok(token.BlockComment, start), &LexError{Offset: start, Message: "unterminated block comment"}

	case c == '/':
		if kind, ok := l.matchDirective(); ok {
			return l.tok(kind, start), nil
		}
		l.pos++
		return l.tok(token.Slash, start), nil

	case c == '"':
		return l.lexString()

	case c == '\'':
		return l.lexChar()

	case c == '[':
		return l.lexBytestring()

	case isIdentStart(c):
		l.pos++
		for l.pos < len(l.src) && isIdentContinue(l.src[l.pos]) {
			l.pos++
		}
		return l.tok(token.Ident, start), nil

	case isDigit(c):
		l.lexNumber()
		return l.tok(token.Number, start), nil

	case c == '#':
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		return l.tok(token.Preprocessor, start), nil

	default:
		if kind, width, ok := matchPunct(l.src[l.pos:]); ok {
			l.pos += width
			return l.tok(kind, start), nil
		}
		l.pos++
		return l.tok(token.Invalid, start), &LexError{Offset: start, Message: "unrecognized character"}
	}
}

func (l *lexer) matchDirective() (token.Kind, bool) {
	rest := l.src[l.pos:]
	for _, d := range fixedDirectives {
		if strings.HasPrefix(string(rest), d.text) {
			l.pos += len(d.text)
			return d.kind, true
		}
	}
	return 0, false
}

func (l *lexer) lexString() (Token, *LexError) {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		if l.src[l.pos] == '\\' && l.pos+1 < len(l.src) {
			l.pos += 2
			continue
		}
		if l.src[l.pos] == '"' {
			l.pos++
			return l.tok(token.String, start), nil
		}
		l.pos++
	}
	return l.tok(token.String, start), &LexError{Offset: start, Message: "unterminated string literal"}
}

func (l *lexer) lexChar() (Token, *LexError) {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		if l.src[l.pos] == '\\' && l.pos+1 < len(l.src) {
			l.pos += 2
			continue
		}
		if l.src[l.pos] == '\'' {
			l.pos++
			return l.tok(token.Char, start), nil
		}
		l.pos++
	}
	return l.tok(token.Char, start), &LexError{Offset: start, Message: "unterminated character literal"}
}

func (l *lexer) lexBytestring() (Token, *LexError) {
	start := l.pos
	l.pos++ // '['
	for l.pos < len(l.src) && l.src[l.pos] != ']' {
		l.pos++
	}
	if l.pos < len(l.src) {
		l.pos++ // ']'
		return l.tok(token.Bytestring, start), nil
	}
	return l.tok(token.Bytestring, start), &LexError{Offset: start, Message: "unterminated bytestring literal"}
}

func (l *lexer) lexNumber() {
	if l.src[l.pos] == '0' && l.pos+1 < len(l.src) && (l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X') {
		l.pos += 2
		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.pos++
		}
	} else {
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	// Trailing integer-suffix letters (U, L, UL, ULL, ...), as dtc accepts.
	for l.pos < len(l.src) && (l.src[l.pos] == 'U' || l.src[l.pos] == 'u' || l.src[l.pos] == 'L' || l.src[l.pos] == 'l') {
		l.pos++
	}
}

func (l *lexer) tok(kind token.Kind, start int) Token {
	return Token{Kind: kind, Text: string(l.src[start:l.pos])}
}

var punctTable = []struct {
	text string
	kind token.Kind
}{
	{"<", token.LAngle},
	{">", token.RAngle},
	{"{", token.LCurly},
	{"}", token.RCurly},
	{"(", token.LParen},
	{")", token.RParen},
	{"]", token.RBracket},
	{";", token.Semicolon},
	{",", token.Comma},
	{":", token.Colon},
	{"@", token.AtSign},
	{"&", token.Ampersand},
	{"=", token.Equals},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Asterisk},
	{"%", token.Modulo},
	{"|", token.BitwiseOr},
}

func matchPunct(rest []byte) (token.Kind, int, bool) {
	if len(rest) == 0 {
		return 0, 0, false
	}
	for _, p := range punctTable {
		if len(rest) >= len(p.text) && string(rest[:len(p.text)]) == p.text {
			return p.kind, len(p.text), true
		}
	}
	return 0, 0, false
}

func isSpace(c byte) bool        { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
func isDigit(c byte) bool        { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool     { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }
func isIdentStart(c byte) bool   { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentContinue(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// Package token defines the closed set of lexical token kinds that make up
// a Devicetree Source file, plus the Expected atoms the parser accumulates
// for error messages.
package token

// Kind is a lexical class. The set is closed; adding a kind means touching
// every switch that matches on it (C1).
type Kind uint8

const (
	Invalid Kind = iota
	Eof

	// Trivia. Attached to the tree on the next bump, skipped for lookahead.
	Whitespace
	LineComment
	BlockComment

	// A line beginning with `#` that isn't one of the fixed DTS directives
	// below, e.g. a C preprocessor `#define`/`#include` line left over from
	// running cpp. Consumed whole by the lexer.
	Preprocessor

	// Literals.
	Ident      // [a-zA-Z_][a-zA-Z0-9_]*
	Number     // decimal, 0x hex, octal, with optional size suffix (U, L, UL, ...)
	String     // "...", escapes decoded by stringutil
	Char       // '.'
	Bytestring // [ 0a 1b ... ], produced as a single token

	// Name is never produced directly by the lexer: the parser glues a
	// maximal run of immediately adjacent Ident/Number/Comma/Minus tokens
	// into one dynamic Name token (see grammar's bump_name). It exists here
	// because it is a first-class member of the green tree's token kinds.
	Name

	// Operators.
	Plus
	Minus
	Asterisk
	Slash // also doubles as the DTS path separator and root-node prefix
	Modulo
	BitwiseOr

	// Delimiters.
	LAngle
	RAngle
	LCurly
	RCurly
	LParen
	RParen
	LBracket
	RBracket
	Semicolon
	Comma
	Colon
	AtSign
	Ampersand
	Equals

	// DTS directives. Each is lexed as one fixed-text token.
	V1Directive              // /dts-v1/
	PluginDirective          // /plugin/
	IncludeDirective         // /include/
	MemreserveDirective      // /memreserve/
	DeleteNodeDirective      // /delete-node/
	DeletePropertyDirective  // /delete-property/
	BitsDirective            // /bits/
)

// staticText holds the fixed spelling of token kinds whose text never
// varies, so the green tree can point at a shared string instead of
// allocating an owned span for every occurrence.
var staticText = map[Kind]string{
	Plus:                    "+",
	Minus:                   "-",
	Asterisk:                "*",
	Slash:                   "/",
	Modulo:                  "%",
	BitwiseOr:               "|",
	LAngle:                  "<",
	RAngle:                  ">",
	LCurly:                  "{",
	RCurly:                  "}",
	LParen:                  "(",
	RParen:                  ")",
	LBracket:                "[",
	RBracket:                "]",
	Semicolon:               ";",
	Comma:                   ",",
	Colon:                   ":",
	AtSign:                  "@",
	Ampersand:               "&",
	Equals:                  "=",
	V1Directive:             "/dts-v1/",
	PluginDirective:         "/plugin/",
	IncludeDirective:        "/include/",
	MemreserveDirective:     "/memreserve/",
	DeleteNodeDirective:     "/delete-node/",
	DeletePropertyDirective: "/delete-property/",
	BitsDirective:           "/bits/",
}

// StaticText returns the fixed spelling for a kind with no varying text,
// and ok=false for kinds whose text depends on the source (Ident, Number,
// String, ...).
func StaticText(k Kind) (string, bool) {
	s, ok := staticText[k]
	return s, ok
}

// IsTrivia reports whether a token kind is skipped during lookahead but
// still attached to the tree on the next bump.
func IsTrivia(k Kind) bool {
	switch k {
	case Whitespace, LineComment, BlockComment:
		return true
	}
	return false
}

// IsDirective reports whether k is one of the fixed DTS directive kinds.
func IsDirective(k Kind) bool {
	switch k {
	case V1Directive, PluginDirective, IncludeDirective, MemreserveDirective,
		DeleteNodeDirective, DeletePropertyDirective, BitsDirective:
		return true
	}
	return false
}

// IsNameConstituent reports whether k may participate in a glued Name
// token (see bump_name in the parser driver).
func IsNameConstituent(k Kind) bool {
	switch k {
	case Ident, Number, Comma, Minus:
		return true
	}
	return false
}

// String renders a kind's bare display form (no quoting); the parser's
// error builder is responsible for wrapping it in the Unicode quotes used
// in "Expected X, but found Y" messages (spec.md §7).
func (k Kind) String() string {
	if s, ok := staticText[k]; ok {
		return s
	}
	switch k {
	case Invalid:
		return "invalid token"
	case Eof:
		return "end-of-file"
	case Whitespace:
		return "whitespace"
	case LineComment:
		return "line comment"
	case BlockComment:
		return "block comment"
	case Preprocessor:
		return "preprocessor directive"
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case String:
		return "string"
	case Char:
		return "character literal"
	case Bytestring:
		return "bytestring"
	case Name:
		return "name"
	default:
		return "token"
	}
}

// Expected is an atom the parser may record as an acceptable continuation
// at the current position. Most variants wrap a concrete token Kind; Value,
// Cell and Eof name a production rather than a single token.
type Expected struct {
	Kind Kind
	// Atom, when Kind == 0, names a non-token alternative.
	Atom ExpectedAtom
}

// ExpectedAtom enumerates the non-token alternatives the parser can add to
// its expected set.
type ExpectedAtom uint8

const (
	AtomNone ExpectedAtom = iota
	AtomValue
	AtomCell
	AtomEof
)

// ExpectedToken builds an Expected naming a single token kind.
func ExpectedToken(k Kind) Expected { return Expected{Kind: k} }

// ExpectedValue, ExpectedCell and ExpectedEof build the non-token
// alternatives used by propvalues, cells and the end-of-file checks.
func ExpectedValue() Expected { return Expected{Atom: AtomValue} }
func ExpectedCell() Expected  { return Expected{Atom: AtomCell} }
func ExpectedEof() Expected   { return Expected{Atom: AtomEof} }

// String renders the human-facing name of an expected atom.
func (e Expected) String() string {
	switch e.Atom {
	case AtomValue:
		return "value"
	case AtomCell:
		return "cell"
	case AtomEof:
		return "end-of-file"
	default:
		return e.Kind.String()
	}
}

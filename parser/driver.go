// Package parser implements the event-buffered, error-recovering DTS
// parser: the marker/complete driver (C3) and the grammar productions
// built on top of it (C4).
package parser

import (
	"github.com/wctrl/dtgo/cst"
	"github.com/wctrl/dtgo/diagnostic"
	"github.com/wctrl/dtgo/lexer"
	"github.com/wctrl/dtgo/token"
)

// Parser drives a single parse. It owns every raw token produced by the
// lexer (trivia included), a cursor over the non-trivia subsequence for
// lookahead, and an append-only event buffer the tree is built from in a
// second pass once parsing finishes.
type Parser struct {
	toks []lexer.Token
	sig  []int // indices into toks of every non-trivia token, Eof included
	off  []int // byte offset of toks[i], length len(toks)+1 (last = total width)

	cursor   int // index into sig: the next significant token to look at
	consumed int // index into toks: the next raw token not yet turned into an event

	events   []event
	expected []token.Expected

	diags []diagnostic.Diagnostic
}

type eventKind uint8

const (
	evStart eventKind = iota
	evFinish
	evToken
)

type event struct {
	kind          eventKind
	nodeKind      cst.NodeKind
	forwardParent int // relative offset to a later Start event this one should nest under; 0 = none
	tokKind       token.Kind
	tokText       string
}

func newParser(toks []lexer.Token) *Parser {
	p := &Parser{toks: toks}
	off := make([]int, len(toks)+1)
	for i, t := range toks {
		off[i+1] = off[i] + len(t.Text)
	}
	p.off = off
	for i, t := range toks {
		if !token.IsTrivia(t.Kind) {
			p.sig = append(p.sig, i)
		}
	}
	if len(p.sig) == 0 || toks[p.sig[len(p.sig)-1]].Kind != token.Eof {
		p.sig = append(p.sig, len(toks)-1)
	}
	return p
}

// Marker marks a not-yet-typed position in the event stream where a node
// will start once its extent is known (the classic start/complete
// parser-combinator pattern).
type Marker struct{ pos int }

// CompletedMarker is a Marker whose node kind has been fixed by Complete.
// It supports Precede, which left-extends the completed node by wrapping
// it (and whatever comes after, up to the matching Finish) inside a new
// outer node — used for labels and macro invocations that precede the
// construct they decorate (spec.md §4.1/§4.2, "Left-extending via
// precede").
type CompletedMarker struct{ pos int }

// Start opens a new marker at the current event position.
func (p *Parser) Start() Marker {
	pos := len(p.events)
	p.events = append(p.events, event{kind: evStart, forwardParent: 0})
	return Marker{pos: pos}
}

// Complete closes m as a node of the given kind, covering every event
// emitted since m was opened.
func (m Marker) Complete(p *Parser, kind cst.NodeKind) CompletedMarker {
	p.events[m.pos].kind = evStart
	p.events[m.pos].nodeKind = kind
	p.events = append(p.events, event{kind: evFinish})
	return CompletedMarker{pos: m.pos}
}

// Precede opens a new marker that will enclose cm (and the node cm
// completed) once the new marker itself completes. No existing events are
// mutated beyond a forward-parent offset; the already-built node stays
// immutable.
func (cm CompletedMarker) Precede(p *Parser) Marker {
	newPos := len(p.events)
	p.events = append(p.events, event{kind: evStart, forwardParent: 0})
	p.events[cm.pos].forwardParent = newPos - cm.pos
	return Marker{pos: newPos}
}

// sigKind returns the kind of the token at the cursor.
func (p *Parser) sigKind() token.Kind {
	return p.toks[p.sig[p.cursor]].Kind
}

func (p *Parser) sigTok() lexer.Token {
	return p.toks[p.sig[p.cursor]]
}

// Range returns the byte range of the current (lookahead) token.
func (p *Parser) Range() cst.TextRange {
	i := p.sig[p.cursor]
	return cst.TextRange{Start: p.off[i], End: p.off[i+1]}
}

// AtEnd reports whether the parser has reached the end-of-file token.
func (p *Parser) AtEnd() bool {
	return p.sigKind() == token.Eof
}

// Peek returns the kind of the next significant token without recording
// it in the expected set, and false once at end-of-file.
func (p *Parser) Peek() (token.Kind, bool) {
	if p.AtEnd() {
		return token.Eof, false
	}
	return p.sigKind(), true
}

func (p *Parser) addExpected(e token.Expected) {
	for _, x := range p.expected {
		if x == e {
			return
		}
	}
	p.expected = append(p.expected, e)
}

// At reports whether the current token has kind, recording kind into the
// expected set regardless of the result.
func (p *Parser) At(kind token.Kind) bool {
	p.addExpected(token.ExpectedToken(kind))
	return p.sigKind() == kind
}

// AtSet reports whether the current token's kind is in kinds, recording
// every kind into the expected set.
func (p *Parser) AtSet(kinds []token.Kind) bool {
	for _, k := range kinds {
		p.addExpected(token.ExpectedToken(k))
	}
	return p.silentAtSet(kinds)
}

// SilentAt is At without recording into the expected set.
func (p *Parser) SilentAt(kind token.Kind) bool {
	return p.sigKind() == kind
}

// SilentAtSet is AtSet without recording into the expected set.
func (p *Parser) SilentAtSet(kinds []token.Kind) bool {
	return p.silentAtSet(kinds)
}

func (p *Parser) silentAtSet(kinds []token.Kind) bool {
	cur := p.sigKind()
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// AddExpected records a non-token Expected atom (Value, Cell, Eof) without
// consulting the current token.
func (p *Parser) AddExpected(e token.Expected) { p.addExpected(e) }

// AtPreprocessorDirective reports whether the current token is a raw `#`
// preprocessor line, left over from running the C preprocessor ahead of
// the DTS parser.
func (p *Parser) AtPreprocessorDirective() bool {
	return p.sigKind() == token.Preprocessor
}

// flushTrivia pushes a Token event for every raw trivia token preceding
// the current significant token, without moving the significant cursor.
func (p *Parser) flushTrivia() {
	target := p.sig[p.cursor]
	for p.consumed < target {
		t := p.toks[p.consumed]
		p.events = append(p.events, event{kind: evToken, tokKind: t.Kind, tokText: t.Text})
		p.consumed++
	}
}

// Bump consumes the current token (plus any preceding trivia) into the
// event stream, advances the cursor, and clears the expected set.
func (p *Parser) Bump() {
	p.flushTrivia()
	t := p.sigTok()
	p.events = append(p.events, event{kind: evToken, tokKind: t.Kind, tokText: t.Text})
	p.consumed = p.sig[p.cursor] + 1
	p.cursor++
	p.expected = nil
}

// Eat bumps iff At(kind) holds.
func (p *Parser) Eat(kind token.Kind) bool {
	if p.At(kind) {
		p.Bump()
		return true
	}
	return false
}

// AtName reports whether the current token may begin a glued Name (see
// BumpName).
func (p *Parser) AtName() bool {
	return token.IsNameConstituent(p.sigKind())
}

// BumpName glues a maximal run of immediately adjacent (no intervening
// trivia) Ident/Number/Comma/Minus tokens into one dynamic Name token,
// e.g. `123,` or `node-name` (spec.md §4.2 item production; grammar.rs
// ITEM_RECOVERY_SET comment). The caller must have verified AtName first.
func (p *Parser) BumpName() {
	p.flushTrivia()
	first := p.sig[p.cursor]
	text := p.toks[first].Text
	p.consumed = first + 1
	p.cursor++
	for p.cursor < len(p.sig) {
		idx := p.sig[p.cursor]
		if idx != p.consumed || !token.IsNameConstituent(p.toks[idx].Kind) {
			break
		}
		text += p.toks[idx].Text
		p.consumed = idx + 1
		p.cursor++
	}
	p.events = append(p.events, event{kind: evToken, tokKind: token.Name, tokText: text})
	p.expected = nil
}

// EatName is AtName+BumpName, reporting whether it fired.
func (p *Parser) EatName() bool {
	if p.AtName() {
		p.BumpName()
		return true
	}
	return false
}

// AtLabelName reports whether the current token is an identifier usable as
// a label name. It does not look for a following `(`; callers that must
// tell a label from a macro call check SilentAtMacroInvocationWithArgs
// first.
func (p *Parser) AtLabelName() bool {
	return p.SilentAt(token.Ident)
}

// BumpLabelName consumes a bare identifier as a Name token (labels follow
// the stricter `[0-9a-zA-Z_]` charset per the DTS spec, so unlike BumpName
// it never glues neighbouring tokens).
func (p *Parser) BumpLabelName() {
	p.flushTrivia()
	t := p.sigTok()
	p.events = append(p.events, event{kind: evToken, tokKind: token.Name, tokText: t.Text})
	p.consumed = p.sig[p.cursor] + 1
	p.cursor++
	p.expected = nil
}

// AtImmediate reports whether the current token has kind and immediately
// follows the previously consumed token with no intervening trivia — used
// to disambiguate `FOO(` (a macro call) from `FOO (` (just a name followed
// by an unrelated paren).
func (p *Parser) AtImmediate(kind token.Kind) bool {
	if p.sigKind() != kind {
		return false
	}
	return p.sig[p.cursor] == p.consumed
}

// SilentAtMacroInvocationWithArgs reports whether the parser sits at an
// identifier immediately followed by `(`, i.e. the unambiguous start of a
// macro call with arguments.
func (p *Parser) SilentAtMacroInvocationWithArgs() bool {
	if !p.SilentAt(token.Ident) {
		return false
	}
	if p.cursor+1 >= len(p.sig) {
		return false
	}
	nextIdx := p.sig[p.cursor+1]
	curIdx := p.sig[p.cursor]
	return p.toks[nextIdx].Kind == token.LParen && nextIdx == curIdx+1
}

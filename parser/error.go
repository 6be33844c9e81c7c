package parser

import (
	"strings"

	"github.com/wctrl/dtgo/cst"
	"github.com/wctrl/dtgo/diagnostic"
	"github.com/wctrl/dtgo/token"
)

// ParseError is the structured record of one syntax-level diagnostic,
// kept alongside (but distinct from) lex errors (spec.md §6/§7).
type ParseError struct {
	Message      string
	PrimarySpan  cst.TextRange
	SpanLabels   []diagnostic.SpanLabel
}

// Expect bumps if the current token has kind, otherwise emits "Expected
// ⟨expected set⟩, but found ⟨kind⟩" without consuming anything.
func (p *Parser) Expect(kind token.Kind) bool {
	if p.Eat(kind) {
		return true
	}
	p.Error().MsgExpected().Emit()
	return false
}

// ExpectRecoverable is Expect, except it never consumes a token that
// matches recoverySet: when the found token is itself a plausible
// continuation (a member of recoverySet), the caller is left to handle it
// and nothing is bumped. Otherwise, to guarantee forward progress, the
// stray token is bumped inside a synthetic ParseError node.
func (p *Parser) ExpectRecoverable(kind token.Kind, recoverySet []token.Kind) bool {
	if p.Eat(kind) {
		return true
	}
	if p.SilentAtSet(recoverySet) || p.AtEnd() {
		p.Error().MsgExpected().Emit()
		return false
	}
	p.Error().MsgExpected().BumpWrapErr().Emit()
	return false
}

// quote wraps s in the Unicode quotes used for concrete token spellings.
func quote(s string) string { return "‘" + s + "’" }

// displayExpected renders one Expected atom: concrete static-text token
// kinds are quoted (`,` → ‘,’), everything else (Value, Cell, Eof, and
// token kinds with no fixed spelling) is rendered as a bare category name.
func displayExpected(e token.Expected) string {
	if e.Atom == token.AtomNone {
		if s, ok := token.StaticText(e.Kind); ok {
			return quote(s)
		}
	}
	return e.String()
}

// joinHuman joins items with commas and a final "or", e.g. "a, b or c".
func joinHuman(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
	}
}

// ErrorBuilder is the fluent diagnostic builder used throughout the
// grammar (spec.md §4.1 "error() builder").
type ErrorBuilder struct {
	p    *Parser
	found token.Kind
	foundText string
	primary   cst.TextRange
	expected  []token.Expected

	msg      string
	hasMsg   bool
	hints    []string
	labels   []diagnostic.SpanLabel
}

// Error starts a new diagnostic, snapshotting the current ("found") token
// and the accumulated expected set before any further mutation by the
// chain — Bump() clears the parser's live expected set, so MsgExpected
// must render from this snapshot rather than from p.expected.
func (p *Parser) Error() *ErrorBuilder {
	r := p.Range()
	expected := make([]token.Expected, len(p.expected))
	copy(expected, p.expected)
	return &ErrorBuilder{
		p:         p,
		found:     p.sigKind(),
		foundText: p.sigTok().Text,
		primary:   r,
		expected:  expected,
	}
}

// MsgExpected renders "Expected ⟨expected set⟩, but found ⟨found⟩" from
// the snapshot of the expected set taken when Error() was called.
func (b *ErrorBuilder) MsgExpected() *ErrorBuilder {
	var parts []string
	for _, e := range b.expected {
		parts = append(parts, displayExpected(e))
	}
	foundDisplay := b.found.String()
	if s, ok := token.StaticText(b.found); ok {
		foundDisplay = quote(s)
	} else if b.found == token.Eof {
		foundDisplay = "end-of-file"
	} else if b.foundText != "" {
		foundDisplay = quote(b.foundText)
	}
	b.msg = "Expected " + joinHuman(parts) + ", but found " + foundDisplay
	b.hasMsg = true
	return b
}

// MsgCustom sets the message verbatim.
func (b *ErrorBuilder) MsgCustom(s string) *ErrorBuilder {
	b.msg = s
	b.hasMsg = true
	return b
}

// AddHint appends an informational hint, folded into the rendered message
// since the Diagnostic data model (spec.md §3) carries only span/msg/severity.
func (b *ErrorBuilder) AddHint(s string) *ErrorBuilder {
	b.hints = append(b.hints, s)
	return b
}

// AddSpanLabel attaches a secondary labelled span, e.g. pointing at an
// unclosed delimiter's opening brace.
func (b *ErrorBuilder) AddSpanLabel(r cst.TextRange, msg string) *ErrorBuilder {
	b.labels = append(b.labels, diagnostic.SpanLabel{Span: r, Msg: msg})
	return b
}

// Bump consumes the current token as a plain child of whatever marker is
// currently open (no ParseError wrapper of its own).
func (b *ErrorBuilder) Bump() *ErrorBuilder {
	b.p.Bump()
	return b
}

// BumpWrapErr consumes the offending token inside a synthetic ParseError
// node, preserving losslessness while marking the token as unexpected.
func (b *ErrorBuilder) BumpWrapErr() *ErrorBuilder {
	m := b.p.Start()
	b.p.Bump()
	m.Complete(b.p, cst.ParseError)
	return b
}

// Complete finishes marker as a ParseError node, wrapping everything
// emitted since it was opened.
func (b *ErrorBuilder) Complete(m Marker) *ErrorBuilder {
	m.Complete(b.p, cst.ParseError)
	return b
}

// Emit finalizes and records the diagnostic, then clears the parser's
// expected set (spec.md §4.1: cleared "on every error emission").
func (b *ErrorBuilder) Emit() {
	msg := b.msg
	if !b.hasMsg {
		msg = "Unexpected " + quote(b.foundText)
	}
	for _, h := range b.hints {
		msg += " (" + h + ")"
	}
	d := diagnostic.Diagnostic{
		Span: diagnostic.MultiSpan{
			PrimarySpans: []cst.TextRange{b.primary},
			SpanLabels:   b.labels,
		},
		Msg:      msg,
		Severity: diagnostic.Error,
	}
	b.p.diags = append(b.p.diags, d)
	b.p.expected = nil
}

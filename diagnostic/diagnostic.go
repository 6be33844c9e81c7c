// Package diagnostic defines the structured diagnostic collector shared by
// the parser (C3/C4) and stage-2 (C8): a primary span, optional secondary
// labels, a message and a severity (C9).
package diagnostic

import "github.com/wctrl/dtgo/cst"

// Severity is a closed sum of diagnostic levels.
type Severity uint8

const (
	Error Severity = iota
	Warning
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// SpanLabel attaches a short message to a secondary span, e.g. "previous
// definition of `foo` here".
type SpanLabel struct {
	Span cst.TextRange
	Msg  string
}

// MultiSpan is a diagnostic's location: one or more primary spans plus any
// number of secondary labelled spans.
type MultiSpan struct {
	PrimarySpans []cst.TextRange
	SpanLabels   []SpanLabel
}

// NewSpan builds a MultiSpan with a single primary span and no labels.
func NewSpan(r cst.TextRange) MultiSpan {
	return MultiSpan{PrimarySpans: []cst.TextRange{r}}
}

// Diagnostic is one structured, user-facing finding.
type Diagnostic struct {
	Span     MultiSpan
	Msg      string
	Severity Severity
}

// New builds an Error-severity diagnostic with a single primary span, the
// common case for both the parser and stage-2.
func New(r cst.TextRange, msg string) Diagnostic {
	return Diagnostic{Span: NewSpan(r), Msg: msg, Severity: Error}
}

// WithLabel returns a copy of d with an additional secondary span label,
// e.g. "previous definition of `foo` here" pointing at an earlier
// occurrence (spec.md §4.4).
func (d Diagnostic) WithLabel(r cst.TextRange, msg string) Diagnostic {
	d.Span.SpanLabels = append(append([]SpanLabel{}, d.Span.SpanLabels...), SpanLabel{Span: r, Msg: msg})
	return d
}

// Collector is the abstract, write-only sink diagnostics are emitted
// through. A conforming implementation need only be safe to call from the
// single thread driving the parse/stage-2 pass (spec.md §5).
type Collector interface {
	Emit(Diagnostic)
}

// Collect is the reference Collector: an in-memory, append-only list,
// preserving emission (== source) order as required by spec.md §5.
type Collect struct {
	Diagnostics []Diagnostic
}

func (c *Collect) Emit(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

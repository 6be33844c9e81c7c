package parser

import (
	"github.com/wctrl/dtgo/cst"
	"github.com/wctrl/dtgo/diagnostic"
	"github.com/wctrl/dtgo/lexer"
)

// Entrypoint names one of the grammar's parse start points. Distinct
// entrypoints let editor tooling and macro-expansion reparse a fragment
// (a name, a reference body, a value list, a cell list) in isolation from
// a full source file (spec.md §4.2).
type Entrypoint uint8

const (
	SourceFile Entrypoint = iota
	Name
	ReferenceNoamp
	PropValues
	Cells
)

// ParseOutput is the result of running an Entrypoint over a source byte
// slice: the root green node, structured parse errors in source order,
// and — for SourceFile only — the lexer's own error list.
type ParseOutput struct {
	Root      *cst.Node
	Errors    []ParseError
	LexErrors []lexer.LexError
}

// Parse runs ep over src.
func (ep Entrypoint) Parse(src []byte) ParseOutput {
	toks, lexErrs := lexer.Lex(src)
	p := newParser(toks)

	root := p.Start()
	switch ep {
	case SourceFile:
		entrySourceFile(p)
	case Name:
		entryName(p)
	case ReferenceNoamp:
		entryReferenceNoamp(p)
	case PropValues:
		entryPropValues(p)
	case Cells:
		entryCells(p)
	}
	// Any trailing raw tokens (trivia after the last significant token)
	// still need to land in the tree to preserve losslessness.
	p.flushTrivia()
	root.Complete(p, cst.Root)

	out := ParseOutput{
		Root:   buildTree(p.events),
		Errors: toParseErrors(p.diags),
	}
	if ep == SourceFile {
		out.LexErrors = lexErrs
	}
	return out
}

// Parse is a convenience wrapper running the SourceFile entrypoint, the
// common case.
func Parse(src []byte) ParseOutput {
	return SourceFile.Parse(src)
}

func toParseErrors(diags []diagnostic.Diagnostic) []ParseError {
	if len(diags) == 0 {
		return nil
	}
	out := make([]ParseError, len(diags))
	for i, d := range diags {
		pe := ParseError{Message: d.Msg, SpanLabels: d.Span.SpanLabels}
		if len(d.Span.PrimarySpans) > 0 {
			pe.PrimarySpan = d.Span.PrimarySpans[0]
		}
		out[i] = pe
	}
	return out
}

// buildTree folds the event stream into the final green tree. This is the
// classic event-buffered combinator algorithm (spec.md §4.1/§9,
// "Left-extending via precede"): each Start event either opens a frame
// directly, or — when it carries a forwardParent offset — is the
// innermost link of a chain of Starts that must all open together, in
// outermost-to-innermost order, before any of the chain's children are
// processed. Because Precede always places the new outer Start *after*
// the already-completed inner node's Finish, a chain's events are visited
// left-to-right starting from the innermost (earliest) link.
func buildTree(events []event) *cst.Node {
	type frame struct {
		kind     cst.NodeKind
		children []cst.Item
	}
	var stack []frame
	tombstoned := make([]bool, len(events))

	for i := 0; i < len(events); i++ {
		if tombstoned[i] {
			continue
		}
		switch events[i].kind {
		case evStart:
			var kinds []cst.NodeKind
			idx := i
			for {
				kinds = append(kinds, events[idx].nodeKind)
				tombstoned[idx] = true
				d := events[idx].forwardParent
				if d == 0 {
					break
				}
				idx += d
			}
			for j := len(kinds) - 1; j >= 0; j-- {
				stack = append(stack, frame{kind: kinds[j]})
			}
		case evFinish:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node := cst.NewNode(top.kind, top.children)
			if len(stack) == 0 {
				return node
			}
			stack[len(stack)-1].children = append(stack[len(stack)-1].children, node)
		case evToken:
			stack[len(stack)-1].children = append(stack[len(stack)-1].children,
				cst.NewToken(events[i].tokKind, events[i].tokText))
		}
	}
	panic("buildTree: unbalanced event stream")
}

// Package outline implements the stage-1 outline producer: a flat,
// source-ordered list of top-level items (macro definitions and nodes with
// an is_extension flag) that feeds stage-2 (C8's external contract, made
// exercisable — see DESIGN.md).
package outline

import (
	"sort"

	"github.com/wctrl/dtgo/ast"
	"github.com/wctrl/dtgo/cst"
	"github.com/wctrl/dtgo/macros"
)

// Kind is the closed sum of top-level item kinds.
type Kind uint8

const (
	MacroDefinitionKind Kind = iota
	NodeKind
)

// MacroDef pairs a macro definition with the source range it was defined
// at. This parser's grammar has no `#define` production of its own (a `#`
// line is lexed whole as token.Preprocessor, left for an external
// preprocessor integration to resolve — see DESIGN.md); callers that have
// such an integration supply MacroDefs directly to Build.
type MacroDef struct {
	Range cst.TextRange
	Def   *macros.MacroDefinition
}

// Toplevel is one stage-1 item: either a MacroDef or a DtNode.
type Toplevel struct {
	kind     Kind
	macroDef MacroDef
	node     ast.DtNode
}

// AsMacroDefinition returns the item's macro definition, ok=false if it
// isn't one.
func (t Toplevel) AsMacroDefinition() (MacroDef, bool) {
	if t.kind != MacroDefinitionKind {
		return MacroDef{}, false
	}
	return t.macroDef, true
}

// AsNode returns the item's node, ok=false if it isn't one.
func (t Toplevel) AsNode() (ast.DtNode, bool) {
	if t.kind != NodeKind {
		return ast.DtNode{}, false
	}
	return t.node, true
}

// Build walks root's direct DtNode children into stage-1 node items and
// merges in externally supplied macro definitions, returning every item in
// overall source order.
func Build(root *cst.Red, macroDefs []MacroDef) []Toplevel {
	out := make([]Toplevel, 0, len(macroDefs))
	for _, md := range macroDefs {
		out = append(out, Toplevel{kind: MacroDefinitionKind, macroDef: md})
	}
	for _, c := range root.ChildNodes() {
		if n, ok := ast.AsDtNode(c); ok {
			out = append(out, Toplevel{kind: NodeKind, node: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rangeOf(out[i]).Start < rangeOf(out[j]).Start
	})
	return out
}

func rangeOf(t Toplevel) cst.TextRange {
	if t.kind == MacroDefinitionKind {
		return t.macroDef.Range
	}
	return t.node.Syntax().Range()
}

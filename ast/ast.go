// Package ast implements the typed AST view (C5): thin, kind-checked
// wrappers over *cst.Red exposing the domain accessors stage-2 and the
// value evaluator need (name, values, macro_invocation, is_extension, ...)
// instead of making every caller walk raw green/red children by hand.
package ast

import (
	"github.com/wctrl/dtgo/cst"
	"github.com/wctrl/dtgo/token"
)

// Node is implemented by every typed wrapper in this package: it is the
// one thing they all share, a back-reference to the red-tree position they
// were cast from.
type Node interface {
	Syntax() *cst.Red
}

// HasName is implemented by constructs that carry a plain (non-macro) name:
// DtNode and DtProperty.
type HasName interface {
	Name() (string, bool)
}

// HasMacroInvocation is implemented by constructs whose name may instead
// come from a macro call: DtNode and DtProperty.
type HasMacroInvocation interface {
	MacroInvocation() (MacroInvocation, bool)
}

func kindOf(r *cst.Red) (cst.NodeKind, bool) {
	n := r.Node()
	if n == nil {
		return 0, false
	}
	return n.Kind, true
}

// nameChild returns the direct child that carries a construct's own name —
// the first child that isn't a DtLabel wrapper, skipping the (at most one,
// possibly internally nested) label chain produced by repeated
// `label:` prefixes.
func nameChild(r *cst.Red) *cst.Red {
	for _, c := range r.Children() {
		if k, ok := kindOf(c); ok && k == cst.DtLabel {
			continue
		}
		if c.Token() != nil && token.IsTrivia(c.Token().Kind) {
			continue
		}
		return c
	}
	return nil
}

// DtNode is a node declaration: `name@unit { ...properties and children... };`,
// `&label { ... };` (an extension), or a label-prefixed/macro-named variant
// of either.
type DtNode struct{ Red *cst.Red }

// AsDtNode casts r to a DtNode view, failing if r isn't one.
func AsDtNode(r *cst.Red) (DtNode, bool) {
	if k, ok := kindOf(r); !ok || k != cst.DtNode {
		return DtNode{}, false
	}
	return DtNode{Red: r}, true
}

func (n DtNode) Syntax() *cst.Red { return n.Red }

// Name returns the node's own plain name, false if it was named via a
// macro invocation or a reference (extension node).
func (n DtNode) Name() (string, bool) {
	c := nameChild(n.Red)
	if c == nil || c.Token() == nil || c.Token().Kind != token.Name {
		return "", false
	}
	return c.Token().Text, true
}

// NameRange returns the text range of the node's plain name token, false
// if it has none (named via macro invocation or reference instead).
func (n DtNode) NameRange() (cst.TextRange, bool) {
	c := nameChild(n.Red)
	if c == nil || c.Token() == nil || c.Token().Kind != token.Name {
		return cst.TextRange{}, false
	}
	return c.Range(), true
}

// MacroInvocation returns the macro call that produced this node's name,
// if it was named that way.
func (n DtNode) MacroInvocation() (MacroInvocation, bool) {
	c := nameChild(n.Red)
	if c == nil {
		return MacroInvocation{}, false
	}
	return AsMacroInvocation(c)
}

// IsExtension reports whether this node was opened via a reference
// (`&foo { ... };` / `&{/path} { ... };`) rather than given its own name.
// Extension nodes are only legal at the top level (spec.md §4.4).
func (n DtNode) IsExtension() bool {
	c := nameChild(n.Red)
	if c == nil {
		return false
	}
	k, ok := kindOf(c)
	return ok && k == cst.DtPhandle
}

// Reference returns the `&...` this node was opened against, when
// IsExtension is true.
func (n DtNode) Reference() (DtPhandle, bool) {
	c := nameChild(n.Red)
	if c == nil {
		return DtPhandle{}, false
	}
	return AsDtPhandle(c)
}

// Label returns the node's label chain (the nested DtLabel produced by one
// or more `label:` prefixes), if any.
func (n DtNode) Label() (DtLabel, bool) {
	children := n.Red.Children()
	if len(children) == 0 {
		return DtLabel{}, false
	}
	return AsDtLabel(children[0])
}

// UnitAddress returns the node's `@...` suffix, if present.
func (n DtNode) UnitAddress() (UnitAddress, bool) {
	for _, c := range n.Red.ChildNodes() {
		if k, _ := kindOf(c); k == cst.UnitAddress {
			return UnitAddress{Red: c}, true
		}
	}
	return UnitAddress{}, false
}

// Children returns the node's direct DtNode children, in source order.
func (n DtNode) Children() []DtNode {
	var out []DtNode
	for _, c := range n.Red.ChildNodes() {
		if dn, ok := AsDtNode(c); ok {
			out = append(out, dn)
		}
	}
	return out
}

// Properties returns the node's direct DtProperty children, in source order.
func (n DtNode) Properties() []DtProperty {
	var out []DtProperty
	for _, c := range n.Red.ChildNodes() {
		if dp, ok := AsDtProperty(c); ok {
			out = append(out, dp)
		}
	}
	return out
}

// DtProperty is a property declaration: `name = value, value;` or a
// valueless `name;`.
type DtProperty struct{ Red *cst.Red }

func AsDtProperty(r *cst.Red) (DtProperty, bool) {
	if k, ok := kindOf(r); !ok || k != cst.DtProperty {
		return DtProperty{}, false
	}
	return DtProperty{Red: r}, true
}

func (p DtProperty) Syntax() *cst.Red { return p.Red }

func (p DtProperty) Name() (string, bool) {
	c := nameChild(p.Red)
	if c == nil || c.Token() == nil || c.Token().Kind != token.Name {
		return "", false
	}
	return c.Token().Text, true
}

// NameRange returns the text range of the property's plain name token,
// false if it has none.
func (p DtProperty) NameRange() (cst.TextRange, bool) {
	c := nameChild(p.Red)
	if c == nil || c.Token() == nil || c.Token().Kind != token.Name {
		return cst.TextRange{}, false
	}
	return c.Range(), true
}

func (p DtProperty) MacroInvocation() (MacroInvocation, bool) {
	c := nameChild(p.Red)
	if c == nil {
		return MacroInvocation{}, false
	}
	return AsMacroInvocation(c)
}

// Values returns the property's value list, in source order, as the union
// of its possible item kinds (a token of String/Bytestring, or a
// DtCellList/DtPhandle/MacroInvocation node). A valueless property returns
// an empty slice.
func (p DtProperty) Values() []*cst.Red {
	for _, c := range p.Red.ChildNodes() {
		if k, _ := kindOf(c); k == cst.PropValueList {
			return valueListItems(c)
		}
	}
	return nil
}

func valueListItems(list *cst.Red) []*cst.Red {
	var out []*cst.Red
	for _, c := range list.Children() {
		if c.Node() != nil {
			out = append(out, c)
			continue
		}
		t := c.Token()
		if t == nil || token.IsTrivia(t.Kind) {
			continue
		}
		if t.Kind == token.String || t.Kind == token.Bytestring {
			out = append(out, c)
		}
	}
	return out
}

// DtLabel is one (possibly nested) `name:` prefix chain.
type DtLabel struct{ Red *cst.Red }

func AsDtLabel(r *cst.Red) (DtLabel, bool) {
	if k, ok := kindOf(r); !ok || k != cst.DtLabel {
		return DtLabel{}, false
	}
	return DtLabel{Red: r}, true
}

func (l DtLabel) Syntax() *cst.Red { return l.Red }

// Name returns this label's own name (the outermost link of the chain).
func (l DtLabel) Name() (string, bool) {
	c := nameChild(l.Red)
	if c == nil || c.Token() == nil || c.Token().Kind != token.Name {
		return "", false
	}
	return c.Token().Text, true
}

// Inner returns the next label inward in the chain, if this one wraps an
// earlier `label:` prefix rather than being the innermost.
func (l DtLabel) Inner() (DtLabel, bool) {
	children := l.Red.Children()
	if len(children) == 0 {
		return DtLabel{}, false
	}
	return AsDtLabel(children[0])
}

// UnitAddress is a node's `@...` suffix.
type UnitAddress struct{ Red *cst.Red }

func (u UnitAddress) Syntax() *cst.Red { return u.Red }

// Name returns the address's own name token text (after the `@`).
func (u UnitAddress) Name() (string, bool) {
	for _, c := range u.Red.ChildTokens() {
		if c.Token() != nil && c.Token().Kind == token.Name {
			return c.Token().Text, true
		}
	}
	return "", false
}

// DtPhandle is a `&foo` / `&{/path}` / `&FOO(args)` reference.
type DtPhandle struct{ Red *cst.Red }

func AsDtPhandle(r *cst.Red) (DtPhandle, bool) {
	if k, ok := kindOf(r); !ok || k != cst.DtPhandle {
		return DtPhandle{}, false
	}
	return DtPhandle{Red: r}, true
}

func (r DtPhandle) Syntax() *cst.Red { return r.Red }

// LabelName returns the bare label name referenced (`&foo`), false for the
// bracketed-path and macro-invocation forms.
func (r DtPhandle) LabelName() (string, bool) {
	for _, c := range r.Red.ChildTokens() {
		if c.Token() != nil && c.Token().Kind == token.LCurly {
			return "", false
		}
		if c.Token() != nil && c.Token().Kind == token.Name {
			return c.Token().Text, true
		}
	}
	return "", false
}

// MacroInvocation returns the macro call forming this reference's body
// (`&FOO(args)`), if any.
func (r DtPhandle) MacroInvocation() (MacroInvocation, bool) {
	for _, c := range r.Red.ChildNodes() {
		if mi, ok := AsMacroInvocation(c); ok {
			return mi, true
		}
	}
	return MacroInvocation{}, false
}

// PathSegments returns the `/`-separated name segments of a bracketed
// reference (`&{/soc/uart@0}`), in order.
func (r DtPhandle) PathSegments() []string {
	var out []string
	for _, c := range r.Red.ChildTokens() {
		if c.Token() != nil && c.Token().Kind == token.Name {
			out = append(out, c.Token().Text)
		}
	}
	return out
}

// DtCellList is a `<...>` value: a space-separated list of numbers, macro
// invocations, references and parenthesized expressions.
type DtCellList struct{ Red *cst.Red }

func AsDtCellList(r *cst.Red) (DtCellList, bool) {
	if k, ok := kindOf(r); !ok || k != cst.DtCellList {
		return DtCellList{}, false
	}
	return DtCellList{Red: r}, true
}

func (c DtCellList) Syntax() *cst.Red { return c.Red }

// Elements returns the cell list's items in order: each is a Number/Char
// token, or a MacroInvocation/DtPhandle/DtExpr node.
func (c DtCellList) Elements() []*cst.Red {
	var out []*cst.Red
	for _, item := range c.Red.Children() {
		if item.Node() != nil {
			out = append(out, item)
			continue
		}
		t := item.Token()
		if t == nil || token.IsTrivia(t.Kind) {
			continue
		}
		switch t.Kind {
		case token.Number, token.Char:
			out = append(out, item)
		}
	}
	return out
}

// DtExpr is a flat, parenthesized arithmetic expression: `(1 + FOO * 2)`.
type DtExpr struct{ Red *cst.Red }

func AsDtExpr(r *cst.Red) (DtExpr, bool) {
	if k, ok := kindOf(r); !ok || k != cst.DtExpr {
		return DtExpr{}, false
	}
	return DtExpr{Red: r}, true
}

func (e DtExpr) Syntax() *cst.Red { return e.Red }

// Items returns the expression's operand and operator tokens/nodes in
// source order (parentheses omitted), exactly as written — spec.md §4.2
// deliberately does not build an operator-precedence tree.
func (e DtExpr) Items() []*cst.Red {
	var out []*cst.Red
	for _, item := range e.Red.Children() {
		if item.Node() != nil {
			out = append(out, item)
			continue
		}
		t := item.Token()
		if t == nil || token.IsTrivia(t.Kind) {
			continue
		}
		switch t.Kind {
		case token.LParen, token.RParen:
		default:
			out = append(out, item)
		}
	}
	return out
}

// MacroInvocation is `FOO` or `FOO(arg, arg, ...)`.
type MacroInvocation struct{ Red *cst.Red }

func AsMacroInvocation(r *cst.Red) (MacroInvocation, bool) {
	if k, ok := kindOf(r); !ok || k != cst.MacroInvocation {
		return MacroInvocation{}, false
	}
	return MacroInvocation{Red: r}, true
}

func (m MacroInvocation) Syntax() *cst.Red { return m.Red }

// Ident returns the invoked macro's name.
func (m MacroInvocation) Ident() (string, bool) {
	for _, c := range m.Red.ChildTokens() {
		if c.Token() != nil && c.Token().Kind == token.Ident {
			return c.Token().Text, true
		}
	}
	return "", false
}

// Arguments returns the invocation's argument list, empty for a bare
// `FOO` with no parentheses.
func (m MacroInvocation) Arguments() []MacroArgument {
	var out []MacroArgument
	for _, c := range m.Red.ChildNodes() {
		if k, _ := kindOf(c); k == cst.MacroArgument {
			out = append(out, MacroArgument{Red: c})
		}
	}
	return out
}

// MacroArgument is one comma-separated, balanced-parenthesis argument of a
// macro invocation.
type MacroArgument struct{ Red *cst.Red }

func (a MacroArgument) Syntax() *cst.Red { return a.Red }

// Text reconstructs the argument's exact source text.
func (a MacroArgument) Text() string { return a.Red.Text() }

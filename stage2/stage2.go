// Package stage2 implements the per-file merge/resolve pass (C8): it folds
// a stage-1 outline into one normalized node/property tree, resolving
// macro-derived names and evaluating property values along the way.
package stage2

import (
	"fmt"

	"github.com/wctrl/dtgo/ast"
	"github.com/wctrl/dtgo/cst"
	"github.com/wctrl/dtgo/diagnostic"
	"github.com/wctrl/dtgo/macros"
	"github.com/wctrl/dtgo/outline"
	"github.com/wctrl/dtgo/parser"
	"github.com/wctrl/dtgo/token"
	"github.com/wctrl/dtgo/value"
)

// TreeKind is the closed sum a Tree variant belongs to.
type TreeKind uint8

const (
	PropKind TreeKind = iota
	NodeKind
)

// Tree is one child of a Node: either a Property or a nested Node.
type Tree struct {
	Kind TreeKind
	Prop Property
	Node *Node
}

// Node is the merged result of every same-name DtNode occurrence under one
// parent: the ASTs that contributed to it, in source order, and its
// resolved children.
type Node struct {
	Asts     []ast.DtNode
	Children map[string]Tree
}

// Property is one resolved property: its AST (the last occurrence to win)
// and its evaluated values.
type Property struct {
	Ast    ast.DtProperty
	Values []value.Value
}

// File is the normalized result of one file's stage-2 pass: a single
// virtual root node with no AST and no name of its own.
type File struct {
	Root Node
}

// Compute runs the merge/resolve algorithm over a stage-1 outline,
// emitting diagnostics to diag. Extension nodes are skipped — they are
// resolved in the cross-file linking stage, out of scope here.
func Compute(items []outline.Toplevel, diag diagnostic.Collector) File {
	root := Node{Children: map[string]Tree{}}
	macroDB := buildMacroDB(items)

	for _, it := range items {
		n, ok := it.AsNode()
		if !ok {
			continue
		}
		if n.IsExtension() {
			continue
		}
		mergeRootNode(n, diag, &root, macroDB)
	}
	return File{Root: root}
}

// buildMacroDB folds every stage-1 macro definition into name → definition,
// a later definition overwriting an earlier one (definition order is
// stage-1's, which Build already preserves).
func buildMacroDB(items []outline.Toplevel) map[string]*macros.MacroDefinition {
	db := map[string]*macros.MacroDefinition{}
	for _, it := range items {
		md, ok := it.AsMacroDefinition()
		if !ok {
			continue
		}
		db[md.Def.Name] = md.Def
	}
	return db
}

// mergeRootNode appends n to target.asts and merges each of n's syntactic
// children (nodes and properties) into target.
func mergeRootNode(n ast.DtNode, diag diagnostic.Collector, target *Node, macroDB map[string]*macros.MacroDefinition) {
	target.Asts = append(target.Asts, n)

	for _, child := range n.Syntax().ChildNodes() {
		switch child.Node().Kind {
		case cst.DtNode:
			childNode, _ := ast.AsDtNode(child)
			mergeChildNode(childNode, diag, target, macroDB)
		case cst.DtProperty:
			childProp, _ := ast.AsDtProperty(child)
			mergeChildProperty(childProp, diag, target, macroDB)
		}
	}
}

func mergeChildNode(child ast.DtNode, diag diagnostic.Collector, target *Node, macroDB map[string]*macros.MacroDefinition) {
	if child.IsExtension() {
		diag.Emit(diagnostic.New(child.Syntax().Range(), "Extension nodes may not be defined in other nodes"))
		return
	}

	name, ok := resolveName(child, diag, macroDB)
	if !ok {
		return
	}

	existing, present := target.Children[name]
	switch {
	case present && existing.Kind == PropKind:
		diag.Emit(conflictDiagnostic(child.Syntax().Range(), name, existing))
	case present && existing.Kind == NodeKind:
		mergeRootNode(child, diag, existing.Node, macroDB)
	default:
		childNode := &Node{Children: map[string]Tree{}}
		mergeRootNode(child, diag, childNode, macroDB)
		target.Children[name] = Tree{Kind: NodeKind, Node: childNode}
	}
}

func mergeChildProperty(child ast.DtProperty, diag diagnostic.Collector, target *Node, macroDB map[string]*macros.MacroDefinition) {
	name, ok := child.Name()
	if !ok {
		// No name AST: a parse-recovery artifact. Skip silently.
		return
	}

	if existing, present := target.Children[name]; present && existing.Kind == NodeKind {
		diag.Emit(conflictDiagnostic(child.Syntax().Range(), name, existing))
		return
	}

	var values []value.Value
	succeeded := true
	for _, item := range child.Values() {
		v, err := value.FromAST(item, value.Never, macroDB)
		if err != nil {
			diag.Emit(diagnostic.New(item.Range(), err.Error()))
			succeeded = false
			continue
		}
		values = append(values, v)
	}
	if !succeeded {
		return
	}
	target.Children[name] = Tree{Kind: PropKind, Prop: Property{Ast: child, Values: values}}
}

func conflictDiagnostic(primary cst.TextRange, name string, existing Tree) diagnostic.Diagnostic {
	d := diagnostic.New(primary, fmt.Sprintf("`%s` is defined multiple times", name))
	return d.WithLabel(nameRange(existing), fmt.Sprintf("previous definition of `%s` here", name))
}

// nameRange locates the span to blame for "previous definition ... here",
// per spec.md §4.4's name_text_range: the name token of the last
// contributing AST that has a plain name, falling back to the last AST's
// full range when none of them does (all were macro-named).
func nameRange(existing Tree) cst.TextRange {
	switch existing.Kind {
	case NodeKind:
		for i := len(existing.Node.Asts) - 1; i >= 0; i-- {
			if r, ok := existing.Node.Asts[i].NameRange(); ok {
				return r
			}
		}
		if len(existing.Node.Asts) > 0 {
			return existing.Node.Asts[len(existing.Node.Asts)-1].Syntax().Range()
		}
	case PropKind:
		if r, ok := existing.Prop.Ast.NameRange(); ok {
			return r
		}
		return existing.Prop.Ast.Syntax().Range()
	}
	return cst.TextRange{}
}

// resolveName computes a child node's effective name: its plain name
// verbatim, unless that name (or, absent one, its macro_invocation
// identifier) matches a macro in macroDB, in which case the macro is
// evaluated and its expansion reparsed with the Name entrypoint.
func resolveName(child ast.DtNode, diag diagnostic.Collector, macroDB map[string]*macros.MacroDefinition) (string, bool) {
	plainName, hasPlain := child.Name()
	errRange := child.Syntax().Range()

	var invocation *ast.MacroInvocation
	var def *macros.MacroDefinition

	if hasPlain {
		d, ok := macroDB[plainName]
		if !ok {
			return plainName, true
		}
		def = d
	} else {
		mi, ok := child.MacroInvocation()
		if !ok {
			return "", false
		}
		errRange = mi.Syntax().Range()
		ident, _ := mi.Ident()
		d, ok := macroDB[ident]
		if !ok {
			diag.Emit(diagnostic.New(errRange, fmt.Sprintf("Unrecognized macro name %s", ident)))
			return "", false
		}
		def = d
		invocation = &mi
	}

	expanded, err := macros.Evaluate(invocation, def)
	if err != nil {
		diag.Emit(diagnostic.New(errRange, err.Error()))
		return "", false
	}

	reparsed := parser.Name.Parse([]byte(expanded))
	for _, t := range cst.Tokens(reparsed.Root) {
		if !token.IsTrivia(t.Kind) {
			return t.Text, true
		}
	}
	return "", false
}

package ast

import (
	"testing"

	"github.com/wctrl/dtgo/cst"
	"github.com/wctrl/dtgo/parser"
)

// topNode parses src as a source file and returns its first top-level
// DtNode.
func topNode(t *testing.T, src string) DtNode {
	t.Helper()
	out := parser.Parse([]byte(src))
	if len(out.Errors) != 0 {
		t.Fatalf("parse(%q) errors = %v", src, out.Errors)
	}
	root := cst.NewRoot(out.Root)
	for _, c := range root.ChildNodes() {
		if n, ok := AsDtNode(c); ok {
			return n
		}
	}
	t.Fatalf("parse(%q): no top-level DtNode", src)
	return DtNode{}
}

func TestDtNode_rootHasNoPlainName(t *testing.T) {
	n := topNode(t, `/ { foo; };`)
	if _, ok := n.Name(); ok {
		t.Fatal("root `/` node: Name() ok=true, want false")
	}
	if n.IsExtension() {
		t.Fatal("root `/` node: IsExtension() = true, want false")
	}
}

func TestDtNode_childrenAndProperties(t *testing.T) {
	n := topNode(t, `/ { foo { a; }; bar = <1>; };`)

	children := n.Children()
	if len(children) != 1 {
		t.Fatalf("got %d children, want 1", len(children))
	}
	name, ok := children[0].Name()
	if !ok || name != "foo" {
		t.Fatalf("children[0].Name() = %q, %v, want foo, true", name, ok)
	}
	if len(children[0].Properties()) != 1 {
		t.Fatalf("got %d properties under foo, want 1", len(children[0].Properties()))
	}

	props := n.Properties()
	if len(props) != 1 {
		t.Fatalf("got %d properties under /, want 1", len(props))
	}
	name, ok = props[0].Name()
	if !ok || name != "bar" {
		t.Fatalf("props[0].Name() = %q, %v, want bar, true", name, ok)
	}
	if len(props[0].Values()) != 1 {
		t.Fatalf("got %d values for bar, want 1", len(props[0].Values()))
	}
}

func TestDtNode_labelAndUnitAddress(t *testing.T) {
	n := topNode(t, `/ { lbl: foo@1 { x; }; };`)
	child := n.Children()[0]

	name, ok := child.Name()
	if !ok || name != "foo" {
		t.Fatalf("Name() = %q, %v, want foo, true", name, ok)
	}

	lbl, ok := child.Label()
	if !ok {
		t.Fatal("Label() ok = false, want true")
	}
	lblName, ok := lbl.Name()
	if !ok || lblName != "lbl" {
		t.Fatalf("Label().Name() = %q, %v, want lbl, true", lblName, ok)
	}
	if _, ok := lbl.Inner(); ok {
		t.Fatal("single label: Inner() ok = true, want false")
	}

	addr, ok := child.UnitAddress()
	if !ok {
		t.Fatal("UnitAddress() ok = false, want true")
	}
	addrName, ok := addr.Name()
	if !ok || addrName != "1" {
		t.Fatalf("UnitAddress().Name() = %q, %v, want 1, true", addrName, ok)
	}
}

func TestDtNode_nestedLabelChain(t *testing.T) {
	// The lexically first label ("l1") is nested deepest; the node's own
	// Label() surfaces the lexically last one ("l2") at the outside.
	n := topNode(t, `/ { l1: l2: foo {}; };`)
	child := n.Children()[0]

	outer, ok := child.Label()
	if !ok {
		t.Fatal("Label() ok = false, want true")
	}
	outerName, ok := outer.Name()
	if !ok || outerName != "l2" {
		t.Fatalf("outer label name = %q, %v, want l2, true", outerName, ok)
	}

	inner, ok := outer.Inner()
	if !ok {
		t.Fatal("outer.Inner() ok = false, want true")
	}
	innerName, ok := inner.Name()
	if !ok || innerName != "l1" {
		t.Fatalf("inner label name = %q, %v, want l1, true", innerName, ok)
	}
}

func TestDtNode_extensionByLabel(t *testing.T) {
	n := topNode(t, `&foo {};`)
	if !n.IsExtension() {
		t.Fatal("IsExtension() = false, want true")
	}
	ref, ok := n.Reference()
	if !ok {
		t.Fatal("Reference() ok = false, want true")
	}
	label, ok := ref.LabelName()
	if !ok || label != "foo" {
		t.Fatalf("Reference().LabelName() = %q, %v, want foo, true", label, ok)
	}
}

func TestDtNode_extensionByPath(t *testing.T) {
	n := topNode(t, `&{/soc/uart} {};`)
	ref, ok := n.Reference()
	if !ok {
		t.Fatal("Reference() ok = false, want true")
	}
	segs := ref.PathSegments()
	if len(segs) != 2 || segs[0] != "soc" || segs[1] != "uart" {
		t.Fatalf("PathSegments() = %v, want [soc uart]", segs)
	}
}

func TestDtNode_extensionByMacro(t *testing.T) {
	n := topNode(t, `&FOO(1, 2) {};`)
	ref, ok := n.Reference()
	if !ok {
		t.Fatal("Reference() ok = false, want true")
	}
	mi, ok := ref.MacroInvocation()
	if !ok {
		t.Fatal("Reference().MacroInvocation() ok = false, want true")
	}
	ident, ok := mi.Ident()
	if !ok || ident != "FOO" {
		t.Fatalf("Ident() = %q, %v, want FOO, true", ident, ok)
	}
	if len(mi.Arguments()) != 2 {
		t.Fatalf("got %d arguments, want 2", len(mi.Arguments()))
	}
}

func TestDtNode_macroInvocationName(t *testing.T) {
	n := topNode(t, `/ { FOO(1) { a; }; };`)
	child := n.Children()[0]
	if _, ok := child.Name(); ok {
		t.Fatal("macro-named child: Name() ok = true, want false")
	}
	mi, ok := child.MacroInvocation()
	if !ok {
		t.Fatal("MacroInvocation() ok = false, want true")
	}
	ident, _ := mi.Ident()
	if ident != "FOO" {
		t.Fatalf("Ident() = %q, want FOO", ident)
	}
}

func TestDtCellList_elements(t *testing.T) {
	out := parser.PropValues.Parse([]byte(`<1 0x2 FOO &bar (1 + 2)>`))
	if len(out.Errors) != 0 {
		t.Fatalf("parse errors = %v", out.Errors)
	}
	root := cst.NewRoot(out.Root)
	var list DtCellList
	for _, c := range root.ChildNodes() {
		if l, ok := AsDtCellList(c); ok {
			list = l
			break
		}
	}
	if list.Red == nil {
		t.Fatal("no DtCellList found")
	}
	elems := list.Elements()
	if len(elems) != 5 {
		t.Fatalf("got %d elements, want 5: %+v", len(elems), elems)
	}
	if _, ok := AsMacroInvocation(elems[2]); !ok {
		t.Fatalf("elements[2] is not a MacroInvocation")
	}
	if _, ok := AsDtPhandle(elems[3]); !ok {
		t.Fatalf("elements[3] is not a DtPhandle")
	}
	expr, ok := AsDtExpr(elems[4])
	if !ok {
		t.Fatalf("elements[4] is not a DtExpr")
	}
	if items := expr.Items(); len(items) != 3 {
		t.Fatalf("got %d expr items, want 3 (1, +, 2): %+v", len(items), items)
	}
}

func TestDtProperty_valuelessHasNoValues(t *testing.T) {
	n := topNode(t, `/ { a; };`)
	prop := n.Properties()[0]
	if len(prop.Values()) != 0 {
		t.Fatalf("got %d values for a valueless property, want 0", len(prop.Values()))
	}
}

func TestMacroArgument_text(t *testing.T) {
	n := topNode(t, `/ { FOO(bar, 1 + 2) { a; }; };`)
	mi, ok := n.Children()[0].MacroInvocation()
	if !ok {
		t.Fatal("MacroInvocation() ok = false, want true")
	}
	args := mi.Arguments()
	if len(args) != 2 {
		t.Fatalf("got %d arguments, want 2", len(args))
	}
	if args[0].Text() != "bar" {
		t.Fatalf("args[0].Text() = %q, want %q", args[0].Text(), "bar")
	}
	// The space after the separating comma is leading trivia of the second
	// argument, not part of the first: it is flushed into the event stream
	// only once the argument's own first significant token is bumped.
	if args[1].Text() != " 1 + 2" {
		t.Fatalf("args[1].Text() = %q, want %q", args[1].Text(), " 1 + 2")
	}
}

package parser

import (
	"testing"

	"github.com/wctrl/dtgo/cst"
	"github.com/wctrl/dtgo/token"
)

func TestParse_emptyRootNode(t *testing.T) {
	out := Parse([]byte(`/ {};`))
	if len(out.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	nodes := cst.ChildNodes(out.Root)
	if len(nodes) != 1 || nodes[0].Kind != cst.DtNode {
		t.Fatalf("got %+v, want one DtNode child", nodes)
	}
	if len(cst.ChildNodes(nodes[0])) != 0 {
		t.Fatalf("got %d node children under /, want 0", len(cst.ChildNodes(nodes[0])))
	}
}

func TestParse_directiveList(t *testing.T) {
	out := Parse([]byte(`/dts-v1/; /plugin/; /memreserve/ 0x10000000 0x4000;`))
	if len(out.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	directives := cst.ChildNodes(out.Root)
	if len(directives) != 3 {
		t.Fatalf("got %d directives, want 3", len(directives))
	}
	for _, d := range directives {
		if d.Kind != cst.Directive {
			t.Fatalf("directive kind = %v, want Directive", d.Kind)
		}
	}
	args := cst.ChildNodes(directives[2])
	if len(args) != 1 || args[0].Kind != cst.DirectiveArguments {
		t.Fatalf("memreserve children = %+v, want one DirectiveArguments", args)
	}
	nums := cst.ChildTokens(args[0])
	count := 0
	for _, n := range nums {
		if n.Kind == token.Number {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("got %d numbers in memreserve args, want 2", count)
	}
}

func TestParse_cellExpression(t *testing.T) {
	out := Parse([]byte(`a = <FOO(bar, 1234) 1 (1 + 2)>;`))
	if len(out.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	props := cst.ChildNodes(out.Root)
	if len(props) != 1 || props[0].Kind != cst.DtProperty {
		t.Fatalf("got %+v, want one DtProperty", props)
	}
	valueLists := cst.ChildNodes(props[0])
	if len(valueLists) != 1 || valueLists[0].Kind != cst.PropValueList {
		t.Fatalf("got %+v, want one PropValueList", valueLists)
	}
	cellLists := cst.ChildNodes(valueLists[0])
	if len(cellLists) != 1 || cellLists[0].Kind != cst.DtCellList {
		t.Fatalf("got %+v, want one DtCellList", cellLists)
	}
	elems := cst.ChildNodes(cellLists[0])
	if len(elems) != 2 || elems[0].Kind != cst.MacroInvocation || elems[1].Kind != cst.DtExpr {
		t.Fatalf("cell list node children = %+v, want [MacroInvocation, DtExpr]", elems)
	}
	args := cst.ChildNodes(elems[0])
	if len(args) != 2 {
		t.Fatalf("got %d macro arguments, want 2", len(args))
	}
}

func TestParse_unclosedBraceReportsEofDiagnosticWithBraceLabel(t *testing.T) {
	out := Parse([]byte(`/ { a = <1>;`))
	if len(out.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(out.Errors), out.Errors)
	}
	err := out.Errors[0]
	srcLen := len(`/ { a = <1>;`)
	if err.PrimarySpan.Start != srcLen || err.PrimarySpan.End != srcLen {
		t.Fatalf("PrimarySpan = %+v, want an empty span at end-of-file (%d)", err.PrimarySpan, srcLen)
	}
	if len(err.SpanLabels) != 1 || err.SpanLabels[0].Msg != "Unclosed delimiter" {
		t.Fatalf("SpanLabels = %+v, want one \"Unclosed delimiter\" label", err.SpanLabels)
	}
	if err.SpanLabels[0].Span.Start != 2 || err.SpanLabels[0].Span.End != 3 {
		t.Fatalf("label span = %+v, want the `{` at [2, 3)", err.SpanLabels[0].Span)
	}

	// Still produces a tree: losslessness holds even for a recovered parse.
	if got := cst.Text(out.Root); got != `/ { a = <1>;` {
		t.Fatalf("Text(out.Root) = %q, want exact source back", got)
	}
}

func TestParse_losslessOnWeirdButLegalNames(t *testing.T) {
	for _, src := range []string{"123;", "123,;", "node-name;"} {
		out := Parse([]byte(src))
		if got := cst.Text(out.Root); got != src {
			t.Fatalf("Text(out.Root) for %q = %q, want exact source back", src, got)
		}
	}
}

func TestParse_unmatchedClosingBraceIsReportedAndSkipped(t *testing.T) {
	out := Parse([]byte(`}`))
	if len(out.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(out.Errors), out.Errors)
	}
	if got := cst.Text(out.Root); got != `}` {
		t.Fatalf("Text(out.Root) = %q, want %q", got, `}`)
	}
}

func TestNameEntrypoint_singleName(t *testing.T) {
	out := Name.Parse([]byte("foo-1"))
	if len(out.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	toks := cst.ChildTokens(out.Root)
	if len(toks) != 1 || toks[0].Kind != token.Name || toks[0].Text != "foo-1" {
		t.Fatalf("got %+v, want one Name token %q", toks, "foo-1")
	}
}

func TestCellsEntrypoint_stopsAtEOFInsteadOfRAngle(t *testing.T) {
	out := Cells.Parse([]byte("1 2 3"))
	if len(out.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	nums := 0
	for _, tok := range cst.ChildTokens(out.Root) {
		if tok.Kind == token.Number {
			nums++
		}
	}
	if nums != 3 {
		t.Fatalf("got %d numbers, want 3", nums)
	}
}

func TestCellsEntrypoint_trailingTokenWrappedAsParseError(t *testing.T) {
	out := Cells.Parse([]byte("1 2>"))
	if len(out.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(out.Errors), out.Errors)
	}
	if got := cst.Text(out.Root); got != "1 2>" {
		t.Fatalf("Text(out.Root) = %q, want exact source back", got)
	}
	errs := cst.ChildNodes(out.Root)
	found := false
	for _, n := range errs {
		if n.Kind == cst.ParseError {
			found = true
		}
	}
	if !found {
		t.Fatalf("got %+v, want a ParseError wrapping the trailing '>'", errs)
	}
}

func TestPropValuesEntrypoint_trailingTokenWrappedAsParseError(t *testing.T) {
	out := PropValues.Parse([]byte(`"foo";`))
	if len(out.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(out.Errors), out.Errors)
	}
	want := "Expected ‘,’ or end-of-file, but found ‘;’"
	if out.Errors[0].Message != want {
		t.Fatalf("message = %q, want %q", out.Errors[0].Message, want)
	}
	if got := cst.Text(out.Root); got != `"foo";` {
		t.Fatalf("Text(out.Root) = %q, want exact source back", got)
	}
}

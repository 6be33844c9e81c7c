package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wctrl/dtgo/cst"
	"github.com/wctrl/dtgo/diagnostic"
	"github.com/wctrl/dtgo/outline"
	"github.com/wctrl/dtgo/parser"
	"github.com/wctrl/dtgo/stage2"
)

func init() {
	cmd := &cobra.Command{
		Use:     "stage2 <file>",
		Short:   "Merge a devicetree source file into its normalized node tree",
		Example: `  dtgo stage2 board.dts`,
		Args:    cobra.ExactArgs(1),
		RunE:    runStage2,
	}
	rootCmd.AddCommand(cmd)
}

func runStage2(cmd *cobra.Command, args []string) error {
	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	out := parser.Parse(src)
	for _, pe := range out.Errors {
		writeParseError(os.Stderr, pe)
	}
	if len(out.Errors) > 0 {
		return fmt.Errorf("%d syntax error(s)", len(out.Errors))
	}

	// The grammar has no `#define` production of its own, so a bare `dtgo
	// stage2` run has no macro definitions of its own to supply.
	items := outline.Build(cst.NewRoot(out.Root), nil)
	diag := &diagnostic.Collect{}
	file := stage2.Compute(items, diag)

	printNode(os.Stdout, file.Root, 0)

	for _, d := range diag.Diagnostics {
		writeDiagnostic(os.Stderr, d)
	}
	if len(diag.Diagnostics) > 0 {
		return fmt.Errorf("%d diagnostic(s)", len(diag.Diagnostics))
	}
	return nil
}

func printNode(w *os.File, n stage2.Node, depth int) {
	indent := strings.Repeat("  ", depth)

	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		child := n.Children[name]
		switch child.Kind {
		case stage2.NodeKind:
			fmt.Fprintf(w, "%s%s {\n", indent, name)
			printNode(w, *child.Node, depth+1)
			fmt.Fprintf(w, "%s};\n", indent)
		case stage2.PropKind:
			fmt.Fprintf(w, "%s%s = %v;\n", indent, name, child.Prop.Values)
		}
	}
}

func writeDiagnostic(w *os.File, d diagnostic.Diagnostic) {
	for _, span := range d.Span.PrimarySpans {
		fmt.Fprintf(w, "%d..%d: %s: %s\n", span.Start, span.End, d.Severity, d.Msg)
	}
	for _, l := range d.Span.SpanLabels {
		fmt.Fprintf(w, "  %d..%d: %s\n", l.Span.Start, l.Span.End, l.Msg)
	}
}

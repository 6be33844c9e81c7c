package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wctrl/dtgo/cst"
	"github.com/wctrl/dtgo/parser"
)

var parseFlags = struct {
	format *string
}{}

const (
	outputFormatText = "text"
	outputFormatTree = "tree"
)

func init() {
	cmd := &cobra.Command{
		Use:     "parse <file>",
		Short:   "Parse a devicetree source file",
		Example: `  dtgo parse board.dts`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.format = cmd.Flags().StringP("format", "f", outputFormatText, "output format: one of text|tree")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if *parseFlags.format != outputFormatText && *parseFlags.format != outputFormatTree {
		return fmt.Errorf("invalid output format: %v", *parseFlags.format)
	}

	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	out := parser.Parse(src)

	switch *parseFlags.format {
	case outputFormatTree:
		fmt.Fprint(os.Stdout, cst.PrintTree(out.Root))
	default:
		fmt.Fprintf(os.Stdout, "%s: parsed, %d token(s), %d syntax error(s)\n",
			args[0], len(cst.Tokens(out.Root)), len(out.Errors))
	}

	for _, le := range out.LexErrors {
		fmt.Fprintf(os.Stderr, "%d: %s\n", le.Offset, le.Message)
	}
	for _, pe := range out.Errors {
		writeParseError(os.Stderr, pe)
	}
	if len(out.Errors) > 0 {
		return fmt.Errorf("%d syntax error(s)", len(out.Errors))
	}
	return nil
}

func writeParseError(w io.Writer, pe parser.ParseError) {
	fmt.Fprintf(w, "%d..%d: %s\n", pe.PrimarySpan.Start, pe.PrimarySpan.End, pe.Message)
	for _, l := range pe.SpanLabels {
		fmt.Fprintf(w, "  %d..%d: %s\n", l.Span.Start, l.Span.End, l.Msg)
	}
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dtgo",
	Short: "Parse and normalize devicetree source files",
	Long: `dtgo provides two features:
- Parses a devicetree source file into a lossless syntax tree, reporting diagnostics.
- Runs the merge/resolve pass over a parsed file and prints its normalized node tree.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

func readSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

package cst

import (
	"fmt"
	"strings"
)

// PrintTree renders item as an indented outline, one node/token per line:
// each node with its kind and byte width, each token with its kind and
// quoted text. Used by the `--format tree` CLI output.
func PrintTree(item Item) string {
	var b strings.Builder
	printItem(&b, item, 0)
	return b.String()
}

func printItem(b *strings.Builder, item Item, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := item.(type) {
	case *Token:
		fmt.Fprintf(b, "%s%s %q\n", indent, v.Kind, v.Text)
	case *Node:
		fmt.Fprintf(b, "%s%s@%d\n", indent, v.Kind, v.width)
		for _, c := range v.Children {
			printItem(b, c, depth+1)
		}
	}
}

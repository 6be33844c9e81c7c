package cst

import "github.com/wctrl/dtgo/token"

// Item is either a Token or a Node; green trees are built from an ordered
// sequence of Items. Both are immutable once constructed and may be shared
// structurally across trees.
type Item interface {
	// Width is the number of source bytes this item spans.
	Width() int
	isItem()
}

// Token is a leaf: a token kind plus its exact source text. Fixed tokens
// (punctuation, directives) point at token.StaticText; everything else
// (identifiers, numbers, strings, glued Name tokens, trivia) owns its text.
type Token struct {
	Kind token.Kind
	Text string
}

func (t *Token) Width() int { return len(t.Text) }
func (*Token) isItem()      {}

// NewToken constructs a green token, preferring the shared static spelling
// when the kind has one so equal tokens compare and print identically.
func NewToken(kind token.Kind, text string) *Token {
	if static, ok := token.StaticText(kind); ok {
		return &Token{Kind: kind, Text: static}
	}
	return &Token{Kind: kind, Text: text}
}

// Node is an interior item: a kind and an ordered list of children. Width
// is always the sum of the children's widths, enforced at construction.
type Node struct {
	Kind     NodeKind
	Children []Item
	width    int
}

func (n *Node) Width() int { return n.width }
func (*Node) isItem()      {}

// NewNode builds a node from its children, computing width as their sum.
func NewNode(kind NodeKind, children []Item) *Node {
	w := 0
	for _, c := range children {
		w += c.Width()
	}
	return &Node{Kind: kind, Children: children, width: w}
}

// Tokens yields every token in the subtree in pre-order (depth-first,
// left-to-right). Concatenating their Text reproduces the original source
// byte-for-byte (losslessness, spec.md §3/§8).
func Tokens(it Item) []*Token {
	var out []*Token
	var walk func(Item)
	walk = func(it Item) {
		switch v := it.(type) {
		case *Token:
			out = append(out, v)
		case *Node:
			for _, c := range v.Children {
				walk(c)
			}
		}
	}
	walk(it)
	return out
}

// Text reconstructs the exact source span covered by it.
func Text(it Item) string {
	toks := Tokens(it)
	n := 0
	for _, t := range toks {
		n += len(t.Text)
	}
	buf := make([]byte, 0, n)
	for _, t := range toks {
		buf = append(buf, t.Text...)
	}
	return string(buf)
}

// ChildNodes returns the direct Node children of n, in order, skipping
// tokens.
func ChildNodes(n *Node) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if cn, ok := c.(*Node); ok {
			out = append(out, cn)
		}
	}
	return out
}

// ChildTokens returns the direct Token children of n, in order, skipping
// nodes.
func ChildTokens(n *Node) []*Token {
	var out []*Token
	for _, c := range n.Children {
		if ct, ok := c.(*Token); ok {
			out = append(out, ct)
		}
	}
	return out
}

// Package value decodes a single property-value AST node into dtgo's
// evaluated value sum type (C8's "Value::from_ast" collaborator).
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wctrl/dtgo/ast"
	"github.com/wctrl/dtgo/cst"
	"github.com/wctrl/dtgo/macros"
	"github.com/wctrl/dtgo/stringutil"
	"github.com/wctrl/dtgo/token"
)

// Kind is the closed set of evaluated value variants.
type Kind uint8

const (
	StringKind Kind = iota
	CellsKind
	BytestringKind
	PhandleKind
	MacroKind
)

// Ref identifies what a `&...` reference points at: either a bare label
// name (`&foo`) or a `/`-separated path (`&{/soc/uart@0}`).
type Ref struct {
	Label string
	Path  []string
}

func (r Ref) String() string {
	if r.Label != "" {
		return "&" + r.Label
	}
	return "&{/" + strings.Join(r.Path, "/") + "}"
}

// Resolver looks up the target a Ref points at. Stage-2 always passes
// Never, since extension nodes are linked in a later, out-of-scope pass
// (spec.md §4.4/§6).
type Resolver func(Ref) (target any, ok bool)

// Never is the resolver stage-2 uses: every reference is unresolved.
func Never(Ref) (any, bool) { return nil, false }

// CellElementKind is the closed set of items a DtCellList may contain.
type CellElementKind uint8

const (
	CellNumber CellElementKind = iota
	CellMacro
	CellPhandle
	CellExpr
)

// CellElement is one evaluated element of a `<...>` value.
type CellElement struct {
	Kind CellElementKind

	Number int64 // CellNumber

	MacroName string   // CellMacro
	MacroArgs []string  // CellMacro, raw unexpanded argument text

	Ref    Ref // CellPhandle
	Target any // CellPhandle, resolver's result
	Linked bool // CellPhandle, whether Resolver found a target

	ExprText string // CellExpr, the expression's raw source text — spec.md
	// explicitly excludes DtExpr arithmetic evaluation, so the expression
	// is carried verbatim rather than reduced to a number.
}

// Value is one evaluated property value.
type Value struct {
	Kind Kind

	Str string // StringKind

	Cells []CellElement // CellsKind

	Bytes []byte // BytestringKind

	Ref    Ref // PhandleKind
	Target any // PhandleKind
	Linked bool // PhandleKind

	MacroName string   // MacroKind
	MacroArgs []string // MacroKind
}

// FromAST decodes one property value item (as returned by
// ast.DtProperty.Values) into a Value. resolver is consulted for every
// `&...` reference encountered, directly or inside a cell list; macroDB is
// used only to validate that a referenced macro name is known (the value
// itself is never expanded — only node names are, via the macros
// package).
func FromAST(item *cst.Red, resolver Resolver, macroDB map[string]*macros.MacroDefinition) (Value, error) {
	if t := item.Token(); t != nil {
		switch t.Kind {
		case token.String:
			s, err := stringutil.Decode(t.Text)
			if err != nil {
				return Value{}, fmt.Errorf("decoding string value: %w", err)
			}
			return Value{Kind: StringKind, Str: s}, nil
		case token.Bytestring:
			b, err := decodeBytestring(t.Text)
			if err != nil {
				return Value{}, err
			}
			return Value{Kind: BytestringKind, Bytes: b}, nil
		}
		return Value{}, fmt.Errorf("unsupported value token kind %s", t.Kind)
	}

	n := item.Node()
	if n == nil {
		return Value{}, fmt.Errorf("value item has neither token nor node")
	}

	switch n.Kind {
	case cst.DtCellList:
		cl, _ := ast.AsDtCellList(item)
		cells, err := cellElements(cl, resolver, macroDB)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: CellsKind, Cells: cells}, nil

	case cst.DtPhandle:
		ph, _ := ast.AsDtPhandle(item)
		ref, err := refOf(ph)
		if err != nil {
			return Value{}, err
		}
		target, linked := resolver(ref)
		return Value{Kind: PhandleKind, Ref: ref, Target: target, Linked: linked}, nil

	case cst.MacroInvocation:
		mi, _ := ast.AsMacroInvocation(item)
		ident, _ := mi.Ident()
		if err := checkKnownMacro(ident, macroDB); err != nil {
			return Value{}, err
		}
		return Value{Kind: MacroKind, MacroName: ident, MacroArgs: argTexts(mi)}, nil
	}

	return Value{}, fmt.Errorf("unsupported value node kind %s", n.Kind)
}

func checkKnownMacro(ident string, macroDB map[string]*macros.MacroDefinition) error {
	if macroDB == nil {
		return nil
	}
	if _, ok := macroDB[ident]; !ok {
		return fmt.Errorf("unrecognized macro name %s", ident)
	}
	return nil
}

func argTexts(mi ast.MacroInvocation) []string {
	args := mi.Arguments()
	if len(args) == 0 {
		return nil
	}
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Text()
	}
	return out
}

func refOf(ph ast.DtPhandle) (Ref, error) {
	if label, ok := ph.LabelName(); ok {
		return Ref{Label: label}, nil
	}
	if segs := ph.PathSegments(); len(segs) > 0 {
		return Ref{Path: segs}, nil
	}
	return Ref{}, fmt.Errorf("reference has neither a label name nor a path")
}

func cellElements(cl ast.DtCellList, resolver Resolver, macroDB map[string]*macros.MacroDefinition) ([]CellElement, error) {
	var out []CellElement
	for _, item := range cl.Elements() {
		el, err := cellElement(item, resolver, macroDB)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func cellElement(item *cst.Red, resolver Resolver, macroDB map[string]*macros.MacroDefinition) (CellElement, error) {
	if t := item.Token(); t != nil {
		switch t.Kind {
		case token.Number:
			n, err := parseNumber(t.Text)
			if err != nil {
				return CellElement{}, err
			}
			return CellElement{Kind: CellNumber, Number: n}, nil
		case token.Char:
			r := []rune(strings.Trim(t.Text, "'"))
			if len(r) != 1 {
				return CellElement{}, fmt.Errorf("malformed character literal %q", t.Text)
			}
			return CellElement{Kind: CellNumber, Number: int64(r[0])}, nil
		}
		return CellElement{}, fmt.Errorf("unsupported cell token kind %s", t.Kind)
	}

	n := item.Node()
	switch n.Kind {
	case cst.MacroInvocation:
		mi, _ := ast.AsMacroInvocation(item)
		ident, _ := mi.Ident()
		if err := checkKnownMacro(ident, macroDB); err != nil {
			return CellElement{}, err
		}
		return CellElement{Kind: CellMacro, MacroName: ident, MacroArgs: argTexts(mi)}, nil
	case cst.DtPhandle:
		ph, _ := ast.AsDtPhandle(item)
		ref, err := refOf(ph)
		if err != nil {
			return CellElement{}, err
		}
		target, linked := resolver(ref)
		return CellElement{Kind: CellPhandle, Ref: ref, Target: target, Linked: linked}, nil
	case cst.DtExpr:
		return CellElement{Kind: CellExpr, ExprText: item.Text()}, nil
	}
	return CellElement{}, fmt.Errorf("unsupported cell node kind %s", n.Kind)
}

// parseNumber parses a DTS numeric literal: decimal, `0x`/`0X` hex, leading-
// zero octal, with an optional trailing U/L size suffix in any combination
// and case.
func parseNumber(text string) (int64, error) {
	i := len(text)
	for i > 0 {
		c := text[i-1]
		if c == 'u' || c == 'U' || c == 'l' || c == 'L' {
			i--
			continue
		}
		break
	}
	digits := text[:i]
	base := 10
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		base = 16
		digits = digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		base = 8
		digits = digits[1:]
	}
	if digits == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed number %q: %w", text, err)
	}
	return int64(n), nil
}

// decodeBytestring parses a `[ab cd ...]` literal into its raw bytes.
func decodeBytestring(text string) ([]byte, error) {
	if len(text) < 2 || text[0] != '[' || text[len(text)-1] != ']' {
		return nil, fmt.Errorf("malformed bytestring literal %q", text)
	}
	fields := strings.Fields(text[1 : len(text)-1])
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		if len(f) == 0 || len(f) > 2 {
			return nil, fmt.Errorf("malformed byte %q in bytestring literal %q", f, text)
		}
		b, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("malformed byte %q in bytestring literal %q: %w", f, text, err)
		}
		out = append(out, byte(b))
	}
	return out, nil
}

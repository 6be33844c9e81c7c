// Package cst implements the green and red concrete-syntax trees (C2):
// an immutable, shareable, losslessly-typed tree of nodes and tokens, plus
// a positioned, parent-aware view over it.
package cst

// NodeKind is the closed set of green-node kinds (C2).
type NodeKind uint8

const (
	// Root wraps whatever an entrypoint produces. It is used for every
	// entrypoint, not only SourceFile: what differs between entrypoints is
	// the grammar run inside it, not the wrapper kind (spec.md's "Stability
	// of roots" talks about content, not a different kind per entrypoint).
	Root NodeKind = iota
	DtNode
	DtProperty
	DtCellList
	DtPhandle
	DtExpr
	DtLabel
	UnitAddress
	MacroInvocation
	MacroArgument
	PropValueList
	Directive
	DirectiveArguments
	ParseError
)

func (k NodeKind) String() string {
	switch k {
	case Root:
		return "Root"
	case DtNode:
		return "DtNode"
	case DtProperty:
		return "DtProperty"
	case DtCellList:
		return "DtCellList"
	case DtPhandle:
		return "DtPhandle"
	case DtExpr:
		return "DtExpr"
	case DtLabel:
		return "DtLabel"
	case UnitAddress:
		return "UnitAddress"
	case MacroInvocation:
		return "MacroInvocation"
	case MacroArgument:
		return "MacroArgument"
	case PropValueList:
		return "PropValueList"
	case Directive:
		return "Directive"
	case DirectiveArguments:
		return "DirectiveArguments"
	case ParseError:
		return "ParseError"
	default:
		return "Unknown"
	}
}

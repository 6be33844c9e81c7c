// Package macros implements the minimal collaborator stage-2 needs to
// resolve a macro-derived node name: a deterministic, purely
// textual macro expansion (C8's "evaluate_macro").
package macros

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wctrl/dtgo/ast"
)

// MacroDefinition is a preprocessor-style macro: a name, an optional
// parameter list (nil for an object-like macro), and its raw, unexpanded
// replacement body.
type MacroDefinition struct {
	Name       string
	Parameters []string
	Body       string
}

// Evaluate performs one macro expansion and returns the resulting text,
// which the caller reparses with the Name entrypoint. invocation is nil
// when def was looked up by a plain name with no call syntax present (a
// bare reference to an object-like macro); otherwise it supplies the
// actual arguments for a function-like macro.
//
// This is intentionally not a full C preprocessor: expansion is one level
// deep, purely textual, and does not recursively expand macros appearing
// inside an argument or body (spec.md §6, "deterministic textual
// expansion ... must be pure").
func Evaluate(invocation *ast.MacroInvocation, def *MacroDefinition) (string, error) {
	if len(def.Parameters) == 0 {
		return def.Body, nil
	}
	if invocation == nil {
		return "", fmt.Errorf("macro %q requires %d argument(s)", def.Name, len(def.Parameters))
	}
	args := invocation.Arguments()
	if len(args) != len(def.Parameters) {
		return "", fmt.Errorf("macro %q expects %d argument(s), got %d", def.Name, len(def.Parameters), len(args))
	}
	bindings := make(map[string]string, len(args))
	for i, p := range def.Parameters {
		bindings[p] = strings.TrimSpace(args[i].Text())
	}
	return substitute(def.Body, bindings), nil
}

var identRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// substitute replaces whole-identifier occurrences of a parameter name in
// body with its bound argument text (surrounding whitespace trimmed by
// Evaluate), leaving every other character as-is.
func substitute(body string, bindings map[string]string) string {
	return identRe.ReplaceAllStringFunc(body, func(word string) string {
		if v, ok := bindings[word]; ok {
			return v
		}
		return word
	})
}

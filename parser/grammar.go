package parser

import "github.com/wctrl/dtgo/cst"
import "github.com/wctrl/dtgo/token"

// operatorSet lists the arithmetic/bitwise operators usable inside a
// DtExpr (spec.md §4.2 "Expression").
var operatorSet = []token.Kind{token.Plus, token.Asterisk, token.Minus, token.Slash, token.Modulo, token.BitwiseOr}

// exprRecoverySet names the tokens dtExpr will still treat as "try to keep
// going" even after a missing operator.
var exprRecoverySet = []token.Kind{token.Number, token.Ident, token.LParen}

// itemRecoverySet is consulted by ExpectRecoverable and by item's own
// fallback path to decide whether a stray token can start a new item
// without being force-consumed (spec.md §4.2 "Item-recovery set").
var itemRecoverySet = []token.Kind{
	token.Slash,
	token.Ident, token.Number, token.Comma, token.Minus, // name-constituents
	token.Ampersand,
	token.Equals,
	token.LCurly,
	token.Semicolon,
	token.V1Directive, token.PluginDirective, token.IncludeDirective,
	token.MemreserveDirective, token.DeleteNodeDirective, token.DeletePropertyDirective,
	token.RCurly,
}

// macroInvocation parses `FOO` or `FOO(arg, arg, ...)`. The caller has
// already opened m and verified an Ident sits at the cursor.
func macroInvocation(m Marker, p *Parser) CompletedMarker {
	if !p.Eat(token.Ident) {
		panic("macroInvocation: caller must guarantee an Ident")
	}
	if p.AtImmediate(token.LParen) {
		p.Bump()
		level := 0
		if !p.At(token.RParen) {
			paramM := p.Start()
			for {
				k, ok := p.Peek()
				if !ok {
					break
				}
				switch k {
				case token.LParen:
					level++
				case token.RParen:
					if level == 0 {
						goto doneArgs
					}
					level--
				case token.Comma:
					if level == 0 {
						paramM.Complete(p, cst.MacroArgument)
						p.Bump()
						paramM = p.Start()
						continue
					}
				}
				p.Bump()
			}
		doneArgs:
			paramM.Complete(p, cst.MacroArgument)
		}
		p.Expect(token.RParen)
	}
	return m.Complete(p, cst.MacroInvocation)
}

// dtExpr parses a parenthesized, flat (no precedence) arithmetic
// expression: `(1 + 2 + FOO)`.
func dtExpr(p *Parser) {
	m := p.Start()
	if !p.Eat(token.LParen) {
		panic("dtExpr: caller must guarantee LParen")
	}

	for !(p.At(token.RParen) || p.AtEnd()) {
		if p.SilentAtSet(operatorSet) {
			p.Error().MsgExpected().BumpWrapErr().Emit()
			continue
		}

		if p.At(token.Number) {
			p.Bump()
		} else if p.At(token.Ident) {
			macroInvocation(p.Start(), p)
		} else if p.At(token.LParen) {
			dtExpr(p)
		} else {
			p.Error().MsgExpected().BumpWrapErr().Emit()
			break
		}

		if p.AtSet(operatorSet) {
			p.Bump()
		} else if p.SilentAtSet(itemRecoverySet) {
			break
		} else if p.SilentAtSet(exprRecoverySet) {
			p.Error().MsgExpected().Emit()
		} else {
			break
		}
	}
	p.Expect(token.RParen)

	m.Complete(p, cst.DtExpr)
}

// referenceNoamp parses the body of a `&…` reference, without the leading
// `&`: a bracketed path, a macro invocation with arguments, or a bare
// label name (spec.md §4.2 "Reference").
func referenceNoamp(p *Parser) {
	if p.At(token.LCurly) {
		p.Bump()
		for !p.At(token.RCurly) && !p.AtEnd() {
			p.Expect(token.Slash)
			if !p.EatName() {
				p.Error().MsgExpected().Emit()
			}
		}
		p.Expect(token.RCurly)
	} else if p.SilentAtMacroInvocationWithArgs() {
		macroInvocation(p.Start(), p)
	} else if p.AtLabelName() {
		p.BumpLabelName()
	} else {
		p.Error().MsgExpected().BumpWrapErr().Emit()
	}
}

// reference parses `&foo` / `&{/path}` / `&FOO(bar)`.
func reference(p *Parser) {
	m := p.Start()
	if !p.Eat(token.Ampersand) {
		panic("reference: caller must guarantee Ampersand")
	}
	referenceNoamp(p)
	m.Complete(p, cst.DtPhandle)
}

const (
	cellsStopAtEOF    = true
	cellsStopAtRAngle = false
)

// cells parses the comma-less, space-separated element list inside `< >`,
// or (when atEOF) the same list terminated by end-of-file instead of `>`
// (used by the standalone Cells entrypoint).
func cells(p *Parser, atEOF bool) error {
	recoverySet := []token.Kind{token.Semicolon, token.LCurly, token.RCurly}
	for {
		p.AddExpected(token.ExpectedCell())
		switch {
		case p.SilentAtSet([]token.Kind{token.Number, token.Char}):
			p.Bump()
		case p.SilentAt(token.Ident):
			macroInvocation(p.Start(), p)
		case p.SilentAt(token.Ampersand):
			reference(p)
		case p.SilentAt(token.LParen):
			dtExpr(p)
		default:
			if atEOF {
				p.AddExpected(token.ExpectedEof())
				if p.AtEnd() {
					return nil
				}
			} else if p.At(token.RAngle) {
				return nil
			}
			if p.SilentAtSet(recoverySet) || p.AtEnd() {
				p.Error().MsgExpected().Emit()
				return errRecovery
			}
			p.Error().MsgExpected().BumpWrapErr().Emit()
		}
	}
}

// errRecovery is a sentinel returned by productions that failed to
// synchronize and expect the caller to wrap the partial subtree as
// ParseError instead of completing it normally.
var errRecovery = &recoveryError{}

type recoveryError struct{}

func (*recoveryError) Error() string { return "parse recovery" }

// dtCellList parses `<1 2 FOO>`.
func dtCellList(p *Parser) error {
	m := p.Start()
	if !p.Eat(token.LAngle) {
		panic("dtCellList: caller must guarantee LAngle")
	}
	if err := cells(p, cellsStopAtRAngle); err != nil {
		m.Complete(p, cst.ParseError)
		return err
	}
	p.Expect(token.RAngle)
	m.Complete(p, cst.DtCellList)
	return nil
}

// propValueRecoverySet names tokens that can plausibly start the next
// value when a comma was missed between two values.
var propValueRecoverySet = []token.Kind{token.String, token.LAngle, token.Bytestring, token.Ampersand}

// propvalues parses a comma-separated property value list, stopping at any
// token in endingKinds, or — when atEOF — at end-of-file instead (used by
// the standalone PropValues entrypoint, mirroring cells's cellsStopAtEOF).
func propvalues(p *Parser, endingKinds []token.Kind, atEOF bool) error {
	for !p.AtEnd() {
		p.AddExpected(token.ExpectedValue())
		switch {
		case p.SilentAt(token.String):
			p.Bump()
		case p.SilentAt(token.LAngle):
			if err := dtCellList(p); err != nil {
				return err
			}
		case p.SilentAt(token.Ampersand):
			reference(p)
		case p.SilentAt(token.Ident):
			macroInvocation(p.Start(), p)
		case p.SilentAt(token.Bytestring):
			p.Bump()
		default:
			p.Error().MsgExpected().BumpWrapErr().Emit()
			return nil
		}

		if p.At(token.Comma) {
			p.Bump()
		} else if p.AtSet(endingKinds) {
			break
		} else if atEOF && p.AtEnd() {
			break
		} else if p.SilentAtSet(propValueRecoverySet) {
			p.Error().MsgExpected().Emit()
		} else if atEOF {
			p.AddExpected(token.ExpectedEof())
			p.Error().MsgExpected().BumpWrapErr().Emit()
			break
		} else {
			break
		}
	}
	return nil
}

// dtProperty parses the tail of a property declaration: `= "foo", <1>;` or
// a bare `;` (valueless property). The caller has already parsed the
// name/label/unit-address prefix into m.
func dtProperty(p *Parser, m Marker) CompletedMarker {
	if p.At(token.Semicolon) {
		p.Bump()
		return m.Complete(p, cst.DtProperty)
	}

	if !p.Eat(token.Equals) {
		panic("dtProperty: caller must guarantee `=` or `;`")
	}

	if p.Eat(token.BitsDirective) {
		p.Expect(token.Number)
	}

	listM := p.Start()
	if err := propvalues(p, []token.Kind{token.Semicolon}, false); err != nil {
		listM.Complete(p, cst.PropValueList)
		return m.Complete(p, cst.ParseError)
	}
	listM.Complete(p, cst.PropValueList)

	p.ExpectRecoverable(token.Semicolon, itemRecoverySet)

	return m.Complete(p, cst.DtProperty)
}

// dtNodeBody parses `{ item* } ;`, possibly recovering from a missing
// closing brace by wrapping the whole node anyway and pointing a secondary
// label at the opening brace.
func dtNodeBody(p *Parser, m Marker) {
	lcurlyRange := p.Range()

	if !p.Eat(token.LCurly) {
		panic("dtNodeBody: caller must guarantee LCurly")
	}

	for !p.At(token.RCurly) && !p.AtEnd() {
		item(p)
	}

	if p.AtEnd() {
		p.Error().
			MsgCustom("Expected `}`, but found end-of-file").
			AddSpanLabel(lcurlyRange, "Unclosed delimiter").
			Emit()
		m.Complete(p, cst.DtNode)
		return
	}

	p.Expect(token.RCurly)
	p.ExpectRecoverable(token.Semicolon, itemRecoverySet)

	m.Complete(p, cst.DtNode)
}

// item parses one top-level or node-body construct: a node, a property, a
// directive, or one of several syntax-error recovery shapes (spec.md §4.2
// "Item").
func item(p *Parser) {
	m := p.Start()
	switch {
	case p.At(token.Slash):
		p.Bump()
		if p.At(token.LCurly) {
			dtNodeBody(p, m)
		} else {
			p.Error().MsgExpected().Complete(m).Emit()
		}

	case p.AtName():
		itemNamed(p, m)

	case p.At(token.Ampersand):
		reference(p)

		if p.At(token.AtSign) {
			p.Bump()
			p.Expect(token.Ident)
		}

		if p.At(token.Equals) || p.At(token.Semicolon) {
			dtProperty(p, m)
		} else if p.At(token.LCurly) {
			dtNodeBody(p, m)
		} else {
			p.Error().MsgExpected().Complete(m).Emit()
		}

	case p.SilentAt(token.Equals):
		p.Error().MsgExpected().AddHint("Recovered as unnamed property").Emit()
		mProp := p.Start()
		dtProperty(p, mProp)
		m.Complete(p, cst.ParseError)

	case p.SilentAt(token.LCurly):
		p.Error().MsgExpected().AddHint("Recovered as unnamed node").Emit()
		mNode := p.Start()
		dtNodeBody(p, mNode)
		m.Complete(p, cst.ParseError)

	case p.SilentAt(token.Semicolon):
		p.Error().MsgCustom("Unmatched `;`").Emit()
		p.Bump()
		m.Complete(p, cst.ParseError)

	case p.AtSet([]token.Kind{token.V1Directive, token.PluginDirective}):
		p.Bump()
		p.ExpectRecoverable(token.Semicolon, itemRecoverySet)
		m.Complete(p, cst.Directive)

	case p.At(token.IncludeDirective):
		p.Bump()
		p.Expect(token.String)
		m.Complete(p, cst.Directive)

	case p.At(token.MemreserveDirective):
		p.Bump()
		mParams := p.Start()
		p.Expect(token.Number)
		p.Expect(token.Number)
		mParams.Complete(p, cst.DirectiveArguments)
		p.ExpectRecoverable(token.Semicolon, itemRecoverySet)
		m.Complete(p, cst.Directive)

	case p.AtSet([]token.Kind{token.DeleteNodeDirective, token.DeletePropertyDirective}):
		p.Bump()
		mParams := p.Start()
		if p.At(token.Ampersand) {
			reference(p)
		} else if !p.EatName() {
			p.Error().MsgExpected().Emit()
		}
		mParams.Complete(p, cst.DirectiveArguments)
		p.ExpectRecoverable(token.Semicolon, itemRecoverySet)
		m.Complete(p, cst.Directive)

	default:
		p.Error().Bump().Complete(m).MsgExpected().Emit()
	}
}

// itemNamed handles the `item` branch starting at a name, possibly
// preceded by a macro invocation, followed by any number of `label:`
// prefixes, an optional `@unit-address`, and finally a property or node
// body.
func itemNamed(p *Parser, m Marker) {
	if p.SilentAtMacroInvocationWithArgs() {
		m = macroInvocation(m, p).Precede(p)
	} else {
		p.BumpName()
	}

	if p.At(token.Colon) {
		p.Bump()
		m = m.Complete(p, cst.DtLabel).Precede(p)

		for p.AtName() {
			if p.SilentAtMacroInvocationWithArgs() {
				m = macroInvocation(m, p).Precede(p)
			} else {
				p.BumpName()
			}

			if p.At(token.Colon) {
				p.Bump()
				m = m.Complete(p, cst.DtLabel).Precede(p)
			} else if p.At(token.Ampersand) {
				reference(p)
				break
			} else {
				break
			}
		}
	}

	if p.At(token.AtSign) {
		mUnit := p.Start()
		p.Bump()
		if !p.EatName() {
			p.Error().MsgExpected().Emit()
		}
		mUnit.Complete(p, cst.UnitAddress)
	}

	switch {
	case p.At(token.Equals) || p.At(token.Semicolon):
		dtProperty(p, m)
	case p.SilentAt(token.RCurly):
		p.Error().Bump().Complete(m).MsgExpected().Emit()
	case p.At(token.LCurly):
		dtNodeBody(p, m)
	default:
		p.Error().MsgExpected().Emit()
		if !p.SilentAtSet(itemRecoverySet) && !p.AtEnd() {
			p.Bump()
		}
		m.Complete(p, cst.ParseError)
	}
}

// entrySourceFile is the SourceFile entrypoint: a sequence of items and
// preprocessor directives, with an unmatched `}` reported and skipped.
func entrySourceFile(p *Parser) {
	for !p.AtEnd() {
		if p.AtPreprocessorDirective() {
			p.Bump()
		} else if p.SilentAt(token.RCurly) {
			p.Error().MsgCustom("Unmatched `}`").Emit()
			e := p.Start()
			p.Bump()
			e.Complete(p, cst.ParseError)
		} else {
			item(p)
		}
	}
}

// entryName is the Name entrypoint: exactly one name, with any trailing
// input reported as an error.
func entryName(p *Parser) {
	if p.AtName() {
		p.BumpName()
		if !p.AtEnd() {
			p.Error().MsgExpected().Emit()
		}
	} else {
		p.Error().MsgExpected().BumpWrapErr().Emit()
	}
}

// entryReferenceNoamp is the ReferenceNoamp entrypoint.
func entryReferenceNoamp(p *Parser) {
	referenceNoamp(p)
}

// entryPropValues is the PropValues entrypoint: a property-value list
// terminated by end-of-file.
func entryPropValues(p *Parser) {
	_ = propvalues(p, nil, true)
}

// entryCells is the Cells entrypoint: cells terminated by end-of-file
// instead of `>`.
func entryCells(p *Parser) {
	_ = cells(p, cellsStopAtEOF)
}

package lexer

import (
	"testing"

	"github.com/wctrl/dtgo/token"
)

func kinds(toks []Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func equalKinds(t *testing.T, got, want []token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLex_directivesLongestMatchFirst(t *testing.T) {
	toks, errs := Lex([]byte(`/dts-v1/;`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	equalKinds(t, kinds(toks), []token.Kind{token.V1Directive, token.Semicolon, token.Eof})
}

func TestLex_deletePropertyNotShadowedByDeleteNode(t *testing.T) {
	toks, errs := Lex([]byte(`/delete-property/ foo;`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Kind != token.DeletePropertyDirective {
		t.Fatalf("toks[0].Kind = %v, want DeletePropertyDirective", toks[0].Kind)
	}
}

func TestLex_plainSlashIsNotADirective(t *testing.T) {
	toks, errs := Lex([]byte(`/ {};`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	equalKinds(t, kinds(toks), []token.Kind{
		token.Slash, token.Whitespace, token.LCurly, token.RCurly, token.Semicolon, token.Eof,
	})
}

func TestLex_comments(t *testing.T) {
	toks, errs := Lex([]byte("// line\n/* block */"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	equalKinds(t, kinds(toks), []token.Kind{token.LineComment, token.Whitespace, token.BlockComment, token.Eof})
}

func TestLex_unterminatedBlockCommentReportsError(t *testing.T) {
	_, errs := Lex([]byte(`/* never closed`))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
}

func TestLex_unterminatedStringReportsErrorButStillTokenizes(t *testing.T) {
	toks, errs := Lex([]byte(`"never closed`))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	equalKinds(t, kinds(toks), []token.Kind{token.String, token.Eof})
}

func TestLex_stringEscapeDoesNotEndLiteralEarly(t *testing.T) {
	toks, errs := Lex([]byte(`"a\"b"`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	equalKinds(t, kinds(toks), []token.Kind{token.String, token.Eof})
	if toks[0].Text != `"a\"b"` {
		t.Fatalf("Text = %q, want %q", toks[0].Text, `"a\"b"`)
	}
}

func TestLex_bytestring(t *testing.T) {
	toks, errs := Lex([]byte(`[ab cd]`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	equalKinds(t, kinds(toks), []token.Kind{token.Bytestring, token.Eof})
}

func TestLex_numberSuffixesAndHex(t *testing.T) {
	toks, errs := Lex([]byte(`0x2A 42UL 010`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	texts := []string{toks[0].Text, toks[2].Text, toks[4].Text}
	want := []string{"0x2A", "42UL", "010"}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("toks[%d].Text = %q, want %q", i, texts[i], want[i])
		}
	}
}

func TestLex_preprocessorLineIsOneToken(t *testing.T) {
	toks, errs := Lex([]byte("#define FOO bar\n/ {};"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Kind != token.Preprocessor || toks[0].Text != "#define FOO bar" {
		t.Fatalf("toks[0] = %+v, want Preprocessor %q", toks[0], "#define FOO bar")
	}
}

func TestLex_unrecognizedCharacterReportsErrorButContinues(t *testing.T) {
	toks, errs := Lex([]byte("$"))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	equalKinds(t, kinds(toks), []token.Kind{token.Invalid, token.Eof})
}

package diagnostic

import (
	"testing"

	"github.com/wctrl/dtgo/cst"
)

func TestNew_defaultsToErrorSeverity(t *testing.T) {
	d := New(cst.TextRange{Start: 1, End: 2}, "boom")
	if d.Severity != Error {
		t.Fatalf("Severity = %v, want Error", d.Severity)
	}
	if len(d.Span.PrimarySpans) != 1 || d.Span.PrimarySpans[0] != (cst.TextRange{Start: 1, End: 2}) {
		t.Fatalf("PrimarySpans = %+v, want one [1, 2)", d.Span.PrimarySpans)
	}
	if len(d.Span.SpanLabels) != 0 {
		t.Fatalf("got %d span labels, want 0", len(d.Span.SpanLabels))
	}
}

func TestWithLabel_appendsWithoutMutatingOriginal(t *testing.T) {
	base := New(cst.TextRange{Start: 0, End: 1}, "conflict")
	withLabel := base.WithLabel(cst.TextRange{Start: 5, End: 6}, "previous definition here")

	if len(base.Span.SpanLabels) != 0 {
		t.Fatalf("base mutated: got %d span labels, want 0", len(base.Span.SpanLabels))
	}
	if len(withLabel.Span.SpanLabels) != 1 {
		t.Fatalf("got %d span labels, want 1", len(withLabel.Span.SpanLabels))
	}
	if withLabel.Span.SpanLabels[0].Msg != "previous definition here" {
		t.Fatalf("label msg = %q, want %q", withLabel.Span.SpanLabels[0].Msg, "previous definition here")
	}
}

func TestCollect_preservesEmissionOrder(t *testing.T) {
	c := &Collect{}
	c.Emit(New(cst.TextRange{Start: 0, End: 1}, "first"))
	c.Emit(New(cst.TextRange{Start: 1, End: 2}, "second"))

	if len(c.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(c.Diagnostics))
	}
	if c.Diagnostics[0].Msg != "first" || c.Diagnostics[1].Msg != "second" {
		t.Fatalf("diagnostics out of order: %+v", c.Diagnostics)
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{Error, "error"}, {Warning, "warning"}, {Hint, "hint"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Fatalf("%v.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

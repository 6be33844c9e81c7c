package stringutil

import "testing"

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		wantErr error
	}{
		{name: "plain", src: `"hello"`, want: "hello"},
		{name: "empty", src: `""`, want: ""},
		{name: "newline", src: `"a\nb"`, want: "a\nb"},
		{name: "tab", src: `"a\tb"`, want: "a\tb"},
		{name: "bell", src: `"\a"`, want: "\x07"},
		{name: "backspace", src: `"\b"`, want: "\x08"},
		{name: "vtab", src: `"\v"`, want: "\x0b"},
		{name: "formfeed", src: `"\f"`, want: "\x0c"},
		{name: "carriage return", src: `"\r"`, want: "\r"},
		{name: "backslash", src: `"\\"`, want: "\\"},
		{name: "unrecognized passthrough", src: `"\q"`, want: "q"},
		{name: "single hex digit", src: `"\xA"`, want: "\x0a"},
		{name: "two hex digits combine high-nibble-first", src: `"\x41"`, want: "A"},
		{name: "spec seed: hex escape plus quote/backslash passthrough", src: `"\x41\n\\\"x"`, want: "A\n\\\"x"},
		{name: "escape at end of string", src: `"a\"`, wantErr: ErrEscapeAtEndOfString},
		{name: "hex with no digits", src: `"\x"`, wantErr: ErrHexNoDigits},
		{name: "hex with non-hex digit", src: `"\xg"`, wantErr: ErrHexNoDigits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.src)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("Decode(%q) error = %v, want %v", tt.src, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) unexpected error: %v", tt.src, err)
			}
			if got != tt.want {
				t.Fatalf("Decode(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

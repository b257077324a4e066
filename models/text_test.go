package models

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short passes through", "hello", 10, "hello"},
		{"exact limit passes through", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"trims cut whitespace", "hello world", 6, "hello"},
		{"zero limit", "hello", 0, ""},
		{"negative limit", "hello", -1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateText(tt.in, tt.limit); got != tt.want {
				t.Errorf("TruncateText(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}

func TestTruncateText_NeverSplitsRunes(t *testing.T) {
	// "ß" is two bytes; every cut point around it must back off to the
	// rune boundary instead of leaving a dangling lead byte.
	s := strings.Repeat("x", 149) + "ß and more"
	for limit := 148; limit <= 152; limit++ {
		got := TruncateText(s, limit)
		if !utf8.ValidString(got) {
			t.Errorf("limit %d: result is not valid UTF-8: %q", limit, got[len(got)-3:])
		}
		if len(got) > limit {
			t.Errorf("limit %d: result is %d bytes", limit, len(got))
		}
	}
}

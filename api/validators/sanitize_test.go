package validators

import "testing"

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "trims", input: "  cracked screen \n", max: 0, want: "cracked screen"},
		{name: "drops control", input: "back\x00 glass\x1b", max: 0, want: "back glass"},
		{name: "keeps newlines", input: "line one\nline two", max: 0, want: "line one\nline two"},
		{name: "truncates", input: "abcdef", max: 3, want: "abc"},
		{name: "rune boundary", input: "añb", max: 2, want: "a"},
	}
	for _, tc := range cases {
		if got := SanitizeString(tc.input, tc.max); got != tc.want {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.want, got)
		}
	}
}

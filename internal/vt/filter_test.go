package vt

import (
	"bytes"
	"testing"
)

func TestFilterAltScreen(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips alt screen enter",
			input: "before\x1b[?1049hafter",
			want:  "beforeafter",
		},
		{
			name:  "strips alt screen exit",
			input: "before\x1b[?1049lafter",
			want:  "beforeafter",
		},
		{
			name:  "strips legacy 47 variant",
			input: "before\x1b[?47hmid\x1b[?47lafter",
			want:  "beforemidafter",
		},
		{
			name:  "strips full screen erase 2J and 3J",
			input: "a\x1b[2Jb\x1b[3Jc",
			want:  "abc",
		},
		{
			name:  "passes unrecognized CSI through unchanged",
			input: "a\x1b[31mb\x1b[0m",
			want:  "a\x1b[31mb\x1b[0m",
		},
		{
			name:  "plain text unaffected",
			input: "hello world",
			want:  "hello world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterAltScreen([]byte(tt.input))
			if !bytes.Equal(got, []byte(tt.want)) {
				t.Errorf("filterAltScreen(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterAltScreen_Idempotent(t *testing.T) {
	inputs := []string{
		"before\x1b[?1049hafter\x1b[2J\x1b[?47lend",
		"plain ascii only",
		"\x1b[31mcolored\x1b[0m\x1b[3J",
	}

	for _, in := range inputs {
		once := filterAltScreen([]byte(in))
		twice := filterAltScreen(once)
		if !bytes.Equal(once, twice) {
			t.Errorf("filter not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

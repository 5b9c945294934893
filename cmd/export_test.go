package cmd

import "testing"

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"site id", "github.com", "github.com"},
		{"site with port", "localhost:8080", "localhost:8080"},
		{"session id", "example.com:2026-03-02", "example.com:2026-03-02"},
		{"empty", "", ""},
		{"comma in site", "a.com,b.com", `"a.com,b.com"`},
		{"quoted session id", `x"y.com:2026-03-02`, `"x""y.com:2026-03-02"`},
		{"newline", "bad\nsite", "\"bad\nsite\""},
		{"carriage return", "bad\rsite", "\"bad\rsite\""},
	}
	for _, tt := range tests {
		if got := csvEscape(tt.input); got != tt.want {
			t.Errorf("%s: csvEscape(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
		}
	}
}

package textsanitize

import (
	"strings"
	"testing"
)

func TestPlain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "Summer Sale 2026", "Summer Sale 2026"},
		{"trimmed", "  Summer Sale  ", "Summer Sale"},
		{"ampersand kept", "Tom & Jerry", "Tom & Jerry"},
		{"quotes kept", `Jerry's "best" <i>deal</i>`, `Jerry's "best" deal`},
		{"tags stripped", "<b>Bold</b> move", "Bold move"},
		{"script removed", "Hi<script>alert(1)</script>", "Hi"},
		{"attribute handler removed", `<img src=x onerror="alert(1)">Shoes`, "Shoes"},
		{"encoded tags stay encoded", "&lt;b&gt;Bold&lt;/b&gt;", "&lt;b&gt;Bold&lt;/b&gt;"},
		{"encoded script stays encoded", "&lt;script&gt;alert(1)&lt;/script&gt;", "&lt;script&gt;alert(1)&lt;/script&gt;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plain(tt.in)
			if got != tt.want {
				t.Errorf("Plain(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if strings.ContainsAny(got, "<>") {
				t.Errorf("Plain(%q) = %q contains markup", tt.in, got)
			}
		})
	}
}

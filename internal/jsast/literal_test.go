package jsast

import "testing"

func TestUnquote(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`'use server'`, "use server"},
		{`"use server"`, "use server"},
		{"`use server`", "use server"},
		{`'use\x20server'`, "use server"},
		{`'use server'`, "use server"},
		{`'use\u{20}server'`, "use server"},
		{`'it\'s'`, "it's"},
		{`"a\\b"`, `a\b`},
		{`'tab\there'`, "tab\there"},
		{"'line\\\ncontinued'", "linecontinued"},
		{`'\q'`, "q"},
		{`'\xZZ'`, `\xZZ`},
		{`'\u{110000}'`, `\u{110000}`},
		{`''`, ""},
		{`'`, ""},
	}

	for _, tt := range tests {
		if got := unquote(tt.raw); got != tt.want {
			t.Errorf("unquote(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStaticString(t *testing.T) {
	if v, ok := StaticString(&StringLiteral{Value: "use server"}); !ok || v != "use server" {
		t.Fatalf("string literal: %q %v", v, ok)
	}
	if v, ok := StaticString(&TemplateLiteral{Quasis: []string{"use server"}}); !ok || v != "use server" {
		t.Fatalf("static template: %q %v", v, ok)
	}
	if _, ok := StaticString(&TemplateLiteral{Quasis: []string{"use ", ""}, Substitutions: 1}); ok {
		t.Fatalf("template with substitution has no static value")
	}
	if _, ok := StaticString(&OtherExpression{Type: "identifier"}); ok {
		t.Fatalf("identifier has no static value")
	}
}

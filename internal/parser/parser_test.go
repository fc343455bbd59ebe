package parser

import (
	"strings"
	"testing"

	"patma/internal/ast"
	"patma/internal/lexer"
)

func parsePattern(t *testing.T, input string) ast.Pattern {
	t.Helper()
	p := New(lexer.New(input), input)
	pat := p.ParsePattern()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors for %q: %v", input, errs)
	}
	if pat == nil {
		t.Fatalf("ParsePattern returned nil for %q", input)
	}
	return pat
}

func TestParsePatternString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`42`, `42`},
		{`-3.5`, `-3.5`},
		{`"hello"`, `"hello"`},
		{`true`, `true`},
		{`null`, `null`},
		{`undefined`, `undefined`},
		{`x`, `x`},
		{`{}`, `{}`},
		{`{a, b: 1}`, `{a, b: 1}`},
		{`{a: {b}}`, `{a: {b}}`},
		{`{"content-type": ct}`, `{content-type: ct}`},
		{`{a, ...rest}`, `{a, ...rest}`},
		{`[]`, `[]`},
		{`[1, x]`, `[1, x]`},
		{`[head, ...tail]`, `[head, ...tail]`},
		{`[first, ...[second, ...rest]]`, `[first, ...[second, ...rest]]`},
		{`1 || 2 || 3`, `(1 || 2 || 3)`},
		{`a && {kind: k}`, `(a && {kind: k})`},
		{`1 || 2 && 3`, `(1 || (2 && 3))`},
		{`(1 || 2) && 3`, `((1 || 2) && 3)`},
		{`Point({x, y})`, `Point({x, y})`},
		{`/^\d+$/`, `/^\d+$/`},
		{`/(?P<user>\w+)@(?P<host>\w+)/ ({groups: {user, host}})`,
			`/(?P<user>\w+)@(?P<host>\w+)/ ({groups: {user, host}})`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pat := parsePattern(t, tt.input)
			if pat.String() != tt.expected {
				t.Errorf("wrong String(). expected=%q, got=%q", tt.expected, pat.String())
			}
		})
	}
}

func TestBoundNames(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{`42`, nil},
		{`x`, []string{"x"}},
		{`{a, b: c}`, []string{"a", "c"}},
		{`{a, ...rest}`, []string{"a", "rest"}},
		{`[x, ...xs]`, []string{"x", "xs"}},
		{`{a} || {b}`, []string{"a", "b"}},
		{`{a} && {a, b}`, []string{"a", "b"}},
		{`Point({x, y})`, []string{"x", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pat := parsePattern(t, tt.input)
			got := pat.BoundNames()
			if len(got) != len(tt.expected) {
				t.Fatalf("wrong bound names. expected=%v, got=%v", tt.expected, got)
			}
			for i, name := range tt.expected {
				if got[i] != name {
					t.Errorf("bound name %d: expected=%q, got=%q", i, name, got[i])
				}
			}
		})
	}
}

func TestObjectPatternShapes(t *testing.T) {
	pat := parsePattern(t, `{kind: "circle", radius: r, ...extra}`)
	obj, ok := pat.(*ast.ObjectPattern)
	if !ok {
		t.Fatalf("pattern is not *ast.ObjectPattern. got=%T", pat)
	}
	if len(obj.Entries) != 2 {
		t.Fatalf("wrong entry count. expected=2, got=%d", len(obj.Entries))
	}
	if obj.Entries[0].Key != "kind" || obj.Entries[1].Key != "radius" {
		t.Errorf("wrong entry keys: %q, %q", obj.Entries[0].Key, obj.Entries[1].Key)
	}
	if obj.Rest != "extra" {
		t.Errorf("wrong rest name. expected=%q, got=%q", "extra", obj.Rest)
	}
}

func TestOrFlattening(t *testing.T) {
	pat := parsePattern(t, `1 || 2 || 3 || 4`)
	or, ok := pat.(*ast.Or)
	if !ok {
		t.Fatalf("pattern is not *ast.Or. got=%T", pat)
	}
	if len(or.Alternatives) != 4 {
		t.Errorf("alternatives not flattened. expected=4, got=%d", len(or.Alternatives))
	}
}

func TestParseRules(t *testing.T) {
	input := `
# shape dispatch
{kind: "circle", radius: r} => circle
{kind: "rect", w, h}        => rect
_                           => "fallback label"
`
	rules, err := ParseRules(input)
	if err != nil {
		t.Fatalf("ParseRules error: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("wrong rule count. expected=3, got=%d", len(rules))
	}

	expectedLabels := []string{"circle", "rect", "fallback label"}
	for i, label := range expectedLabels {
		if rules[i].Label != label {
			t.Errorf("rule %d label: expected=%q, got=%q", i, label, rules[i].Label)
		}
	}
	if rules[0].Pattern.String() != `{kind: "circle", radius: r}` {
		t.Errorf("rule 0 pattern: got=%q", rules[0].Pattern.String())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`{a: }`, "no pattern starts with"},
		{`{...{a}}`, "expected next token to be IDENT"},
		{`{...rest, a}`, "expected next token to be }"},
		{`[...xs, 1]`, "expected next token to be ]"},
		{`{a, a}`, "duplicate property"},
		{`{"x-y"}`, "needs an explicit sub-pattern"},
		{`/(unclosed/`, "invalid regular expression"},
		{`(1 || 2`, "expected next token to be )"},
		{`1 2`, "unexpected trailing input"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New(lexer.New(tt.input), tt.input)
			p.ParsePattern()
			errs := p.Errors()
			if len(errs) == 0 {
				t.Fatalf("expected parser errors for %q, got none", tt.input)
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tt.expected) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error containing %q. got=%v", tt.expected, errs)
			}
		})
	}
}

func TestRuleErrorsReportLineAndColumn(t *testing.T) {
	input := "{a: 1} => first\n{b: } => second\n"
	_, err := ParseRules(input)
	if err == nil {
		t.Fatal("expected an error for the malformed second rule")
	}
	if !strings.Contains(err.Error(), "[  2:") {
		t.Errorf("error does not carry the second line position: %v", err)
	}
}

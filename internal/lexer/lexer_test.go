package lexer

import (
	"patma/internal/token"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `{status: 200, headers: {"content-type": ct}, ...rest}
[first, second, ...tail] || null && undefined
/(?P<year>\d{4})-(?P<month>\d{2})/ (groups)
Point({x, y}) => origin # trailing comment
-1.5 2e10 true false "a\"b"`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.LBRACE, "{"},
		{token.IDENT, "status"},
		{token.COLON, ":"},
		{token.NUMBER, "200"},
		{token.COMMA, ","},
		{token.IDENT, "headers"},
		{token.COLON, ":"},
		{token.LBRACE, "{"},
		{token.STRING, "content-type"},
		{token.COLON, ":"},
		{token.IDENT, "ct"},
		{token.RBRACE, "}"},
		{token.COMMA, ","},
		{token.ELLIPSIS, "..."},
		{token.IDENT, "rest"},
		{token.RBRACE, "}"},
		{token.LBRACKET, "["},
		{token.IDENT, "first"},
		{token.COMMA, ","},
		{token.IDENT, "second"},
		{token.COMMA, ","},
		{token.ELLIPSIS, "..."},
		{token.IDENT, "tail"},
		{token.RBRACKET, "]"},
		{token.LOGICAL_OR, "||"},
		{token.NULL, "null"},
		{token.LOGICAL_AND, "&&"},
		{token.UNDEFINED, "undefined"},
		{token.REGEX, `(?P<year>\d{4})-(?P<month>\d{2})`},
		{token.LPAREN, "("},
		{token.IDENT, "groups"},
		{token.RPAREN, ")"},
		{token.IDENT, "Point"},
		{token.LPAREN, "("},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.IDENT, "y"},
		{token.RBRACE, "}"},
		{token.RPAREN, ")"},
		{token.ROCKET, "=>"},
		{token.IDENT, "origin"},
		{token.NUMBER, "-1.5"},
		{token.NUMBER, "2e10"},
		{token.TRUE, "true"},
		{token.FALSE, "false"},
		{token.STRING, `a"b`},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestEscapedSlashInRegex(t *testing.T) {
	l := New(`/api\/v1\/(\d+)/`)
	tok := l.NextToken()
	if tok.Type != token.REGEX {
		t.Fatalf("expected REGEX, got %q", tok.Type)
	}
	if tok.Literal != `api/v1/(\d+)` {
		t.Errorf("unexpected regex body: %q", tok.Literal)
	}
}

func TestIllegalTokens(t *testing.T) {
	for _, input := range []string{"&x", "|x", "=x", "..x", "-x", "%"} {
		l := New(input)
		tok := l.NextToken()
		if tok.Type != token.ILLEGAL {
			t.Errorf("input %q: expected ILLEGAL, got %q (%q)", input, tok.Type, tok.Literal)
		}
	}
}

package token

type TokenType string

type Token struct {
	Type     TokenType
	Literal  string
	Position int
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // x, rest, Point
	NUMBER = "NUMBER" // 42, -1.5, 2e10
	STRING = "STRING" // "foobar"
	REGEX  = "REGEX"  // /(?P<year>\d{4})/

	LOGICAL_AND = "&&"
	LOGICAL_OR  = "||"

	ROCKET   = "=>"
	ELLIPSIS = "..."

	// Delimiters
	COMMA = ","
	COLON = ":"

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	TRUE      = "TRUE"
	FALSE     = "FALSE"
	NULL      = "NULL"
	UNDEFINED = "UNDEFINED"
)

var keywords = map[string]TokenType{
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULL,
	"undefined": UNDEFINED,
}

// LookupIdent maps reserved words to their keyword token type; anything else
// is a plain identifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

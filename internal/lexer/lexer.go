package lexer

import (
	"patma/internal/token"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	var tok token.Token
	tok.Position = l.position

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
	case ',':
		tok = l.newToken(token.COMMA)
	case ':':
		tok = l.newToken(token.COLON)
	case '(':
		tok = l.newToken(token.LPAREN)
	case ')':
		tok = l.newToken(token.RPAREN)
	case '{':
		tok = l.newToken(token.LBRACE)
	case '}':
		tok = l.newToken(token.RBRACE)
	case '[':
		tok = l.newToken(token.LBRACKET)
	case ']':
		tok = l.newToken(token.RBRACKET)
	case '&':
		tok = l.handleCompoundToken(token.ILLEGAL, '&', token.LOGICAL_AND)
	case '|':
		tok = l.handleCompoundToken(token.ILLEGAL, '|', token.LOGICAL_OR)
	case '=':
		tok = l.handleCompoundToken(token.ILLEGAL, '>', token.ROCKET)
	case '.':
		tok = l.readEllipsis()
	case '"':
		tok.Type = token.STRING
		tok.Literal = l.readString()
	case '/':
		tok.Type = token.REGEX
		tok.Literal = l.readRegex()
	case '-':
		if isDigit(l.peekChar()) {
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			return tok
		}
		tok = l.newToken(token.ILLEGAL)
	default:
		if isIdentStart(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			return tok
		}
		if isDigit(l.ch) {
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			return tok
		}
		tok = l.newToken(token.ILLEGAL)
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(t token.TokenType) token.Token {
	return token.Token{Type: t, Literal: string(l.ch), Position: l.position}
}

// handleCompoundToken emits the two-rune token t1 when the next rune is ch1,
// otherwise the single-rune token t.
func (l *Lexer) handleCompoundToken(t token.TokenType, ch1 rune, t1 token.TokenType) token.Token {
	startPosition := l.position
	if l.peekChar() == ch1 {
		first := l.ch
		l.readChar()
		literal := string(first) + string(l.ch)
		return token.Token{Type: t1, Literal: literal, Position: startPosition}
	}
	return token.Token{Type: t, Literal: string(l.ch), Position: startPosition}
}

func (l *Lexer) readEllipsis() token.Token {
	startPosition := l.position
	if l.peekChar() == '.' {
		l.readChar()
		if l.peekChar() == '.' {
			l.readChar()
			return token.Token{Type: token.ELLIPSIS, Literal: "...", Position: startPosition}
		}
	}
	return token.Token{Type: token.ILLEGAL, Literal: ".", Position: startPosition}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		if isDigit(l.peekChar()) || ((l.peekChar() == '+' || l.peekChar() == '-') && isDigit(l.peekCharAt(2))) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[position:l.position]
}

// readString consumes a double-quoted string and returns its unescaped body.
func (l *Lexer) readString() string {
	var out []rune
	for {
		l.readChar()
		if l.ch == 0 {
			break
		}
		if l.ch == '"' {
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, '\\', l.ch)
			}
			continue
		}
		out = append(out, l.ch)
	}
	return string(out)
}

// readRegex consumes a /.../ literal and returns the regex source between
// the slashes. An escaped slash (\/) does not terminate the literal; the
// backslash is dropped so the regex engine never sees the escape.
func (l *Lexer) readRegex() string {
	var out []rune
	for {
		l.readChar()
		if l.ch == 0 {
			break
		}
		if l.ch == '/' {
			break
		}
		if l.ch == '\\' && l.peekChar() == '/' {
			l.readChar()
			out = append(out, '/')
			continue
		}
		out = append(out, l.ch)
	}
	return string(out)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		return
	}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// peekCharAt looks n runes ahead of the current rune without consuming.
func (l *Lexer) peekCharAt(n int) rune {
	pos := l.readPosition
	var r rune
	for i := 0; i < n; i++ {
		if pos >= len(l.input) {
			return 0
		}
		var size int
		r, size = utf8.DecodeRuneInString(l.input[pos:])
		pos += size
	}
	return r
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

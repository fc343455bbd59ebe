package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"patma/internal/ast"
	"patma/internal/lexer"
	"patma/internal/object"
	"patma/internal/token"
)

const (
	_           int = iota
	LOWEST          // pattern start
	LOGICAL_OR      // ||
	LOGICAL_AND     // &&
)

var precedences = map[token.TokenType]int{
	token.LOGICAL_OR:  LOGICAL_OR,
	token.LOGICAL_AND: LOGICAL_AND,
}

type (
	prefixParseFn func() ast.Pattern
	infixParseFn  func(ast.Pattern) ast.Pattern
)

type Parser struct {
	l      *lexer.Lexer
	src    string
	errors []string

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer, source string) *Parser {
	p := &Parser{
		l:      l,
		src:    source,
		errors: []string{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.UNDEFINED, p.parseUndefined)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.IDENT, p.parseIdentifierPattern)
	p.registerPrefix(token.LBRACKET, p.parseArrayPattern)
	p.registerPrefix(token.LBRACE, p.parseObjectPattern)
	p.registerPrefix(token.REGEX, p.parseRegexPattern)
	p.registerPrefix(token.LPAREN, p.parseGroupedPattern)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.LOGICAL_OR, p.parseOrPattern)
	p.registerInfix(token.LOGICAL_AND, p.parseAndPattern)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) addError(message string, args ...interface{}) {
	line, col := GetLineAndColumn(p.src, p.curToken.Position)
	m := fmt.Sprintf(message, args...)
	msg := fmt.Sprintf("[%3d:%2d] %s", line, col, m)
	p.errors = append(p.errors, msg)
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError("expected next token to be %s, got %s instead", t, p.peekToken.Type)
}

func (p *Parser) Errors() []string {
	return p.errors
}

// ParsePattern parses the whole input as a single pattern.
func (p *Parser) ParsePattern() ast.Pattern {
	pat := p.parsePattern(LOWEST)
	if pat != nil && !p.peekTokenIs(token.EOF) {
		p.addError("unexpected trailing input starting at %s", p.peekToken.Type)
	}
	return pat
}

// Rule is one clause of a rules file: `pattern => label`.
type Rule struct {
	Pattern ast.Pattern
	Label   string
}

// ParseRules parses a sequence of `pattern => label` clauses, in declared
// order. Order is significant: the match driver tries rules top to bottom.
func (p *Parser) ParseRules() []Rule {
	var rules []Rule
	for !p.curTokenIs(token.EOF) {
		pat := p.parsePattern(LOWEST)
		if pat == nil {
			return rules
		}
		if !p.expectPeek(token.ROCKET) {
			return rules
		}
		if !p.peekTokenIs(token.IDENT) && !p.peekTokenIs(token.STRING) {
			p.peekError(token.IDENT)
			return rules
		}
		p.nextToken()
		rules = append(rules, Rule{Pattern: pat, Label: p.curToken.Literal})
		p.nextToken()
	}
	return rules
}

func (p *Parser) parsePattern(precedence int) ast.Pattern {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError("no pattern starts with %s", p.curToken.Type)
		return nil
	}
	left := prefix()

	for left != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parseNull() ast.Pattern {
	return &ast.Literal{Value: object.NIL}
}

func (p *Parser) parseUndefined() ast.Pattern {
	return &ast.Literal{Value: object.UNDEFINED}
}

func (p *Parser) parseBoolean() ast.Pattern {
	return &ast.Literal{Value: object.NativeBoolToBooleanObject(p.curTokenIs(token.TRUE))}
}

func (p *Parser) parseNumberLiteral() ast.Pattern {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError("could not parse %q as number", p.curToken.Literal)
		return nil
	}
	return &ast.Literal{Value: &object.Number{Value: value}}
}

func (p *Parser) parseStringLiteral() ast.Pattern {
	return &ast.Literal{Value: &object.String{Value: p.curToken.Literal}}
}

// parseIdentifierPattern produces a variable binding, or an extractor
// application when the identifier is immediately followed by a parenthesised
// inner pattern.
func (p *Parser) parseIdentifierPattern() ast.Pattern {
	name := p.curToken.Literal
	if !p.peekTokenIs(token.LPAREN) {
		return &ast.Variable{Name: name}
	}

	p.nextToken() // consume '('
	p.nextToken()
	inner := p.parsePattern(LOWEST)
	if inner == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.Extractor{Name: name, Inner: inner}
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	arr := &ast.ArrayPattern{}

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return arr
	}

	for {
		p.nextToken()

		if p.curTokenIs(token.ELLIPSIS) {
			p.nextToken()
			rest := p.parsePattern(LOWEST)
			if rest == nil {
				return nil
			}
			arr.Rest = rest
			if !p.expectPeek(token.RBRACKET) {
				p.addError("rest pattern must be the last array element")
				return nil
			}
			return arr
		}

		elem := p.parsePattern(LOWEST)
		if elem == nil {
			return nil
		}
		arr.Elements = append(arr.Elements, elem)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return arr
	}
}

func (p *Parser) parseObjectPattern() ast.Pattern {
	obj := &ast.ObjectPattern{}
	seen := map[string]bool{}

	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return obj
	}

	for {
		p.nextToken()

		if p.curTokenIs(token.ELLIPSIS) {
			// An object rest names a binding target only; `...{...}` and
			// friends are rejected here, never by the engine.
			if !p.expectPeek(token.IDENT) {
				p.addError("object rest must be a plain identifier")
				return nil
			}
			obj.Rest = p.curToken.Literal
			if !p.expectPeek(token.RBRACE) {
				p.addError("object rest must be the last entry")
				return nil
			}
			return obj
		}

		if !p.curTokenIs(token.IDENT) && !p.curTokenIs(token.STRING) {
			p.addError("expected property name, got %s", p.curToken.Type)
			return nil
		}
		key := p.curToken.Literal
		isString := p.curTokenIs(token.STRING)

		if seen[key] {
			p.addError("duplicate property %q in object pattern", key)
			return nil
		}
		seen[key] = true

		var entry ast.ObjectEntry
		if p.peekTokenIs(token.COLON) {
			p.nextToken() // consume ':'
			p.nextToken()
			sub := p.parsePattern(LOWEST)
			if sub == nil {
				return nil
			}
			entry = ast.ObjectEntry{Key: key, Pattern: sub}
		} else {
			if isString {
				p.addError("string property %q needs an explicit sub-pattern", key)
				return nil
			}
			// shorthand: {a} binds property a as a
			entry = ast.ObjectEntry{Key: key, Pattern: &ast.Variable{Name: key}}
		}
		obj.Entries = append(obj.Entries, entry)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		return obj
	}
}

func (p *Parser) parseRegexPattern() ast.Pattern {
	re, err := regexp.Compile(p.curToken.Literal)
	if err != nil {
		p.addError("invalid regular expression: %v", err)
		return nil
	}
	pat := &ast.RegExpPattern{Regex: re}

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken() // consume '('
		p.nextToken()
		sub := p.parsePattern(LOWEST)
		if sub == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		pat.Sub = sub
	}
	return pat
}

func (p *Parser) parseGroupedPattern() ast.Pattern {
	p.nextToken()
	pat := p.parsePattern(LOWEST)
	if pat == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return pat
}

// parseOrPattern flattens chained alternation into one Or node so the
// declared order of alternatives is kept in a single list.
func (p *Parser) parseOrPattern(left ast.Pattern) ast.Pattern {
	p.nextToken()
	right := p.parsePattern(LOGICAL_OR)
	if right == nil {
		return nil
	}
	if or, ok := left.(*ast.Or); ok {
		or.Alternatives = append(or.Alternatives, right)
		return or
	}
	return &ast.Or{Alternatives: []ast.Pattern{left, right}}
}

func (p *Parser) parseAndPattern(left ast.Pattern) ast.Pattern {
	p.nextToken()
	right := p.parsePattern(LOGICAL_AND)
	if right == nil {
		return nil
	}
	if and, ok := left.(*ast.And); ok {
		and.Conjuncts = append(and.Conjuncts, right)
		return and
	}
	return &ast.And{Conjuncts: []ast.Pattern{left, right}}
}

// GetLineAndColumn converts a byte offset into a 1-based line and column.
func GetLineAndColumn(src string, position int) (int, int) {
	if position > len(src) {
		position = len(src)
	}
	line, col := 1, 1
	for _, ch := range src[:position] {
		if ch == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Parse is a convenience wrapper: one pattern, or an error joining every
// parser diagnostic.
func Parse(src string) (ast.Pattern, error) {
	p := New(lexer.New(src), src)
	pat := p.ParsePattern()
	if len(p.Errors()) != 0 {
		return nil, fmt.Errorf("parse pattern: %s", strings.Join(p.Errors(), "; "))
	}
	return pat, nil
}

// ParseRules is the rules-file counterpart of Parse.
func ParseRules(src string) ([]Rule, error) {
	p := New(lexer.New(src), src)
	rules := p.ParseRules()
	if len(p.Errors()) != 0 {
		return nil, fmt.Errorf("parse rules: %s", strings.Join(p.Errors(), "; "))
	}
	return rules, nil
}

// internal/browser/parser/tokens.go
package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind classifies a component value.
type TokenKind int

const (
	TokenIdent TokenKind = iota
	TokenNumber
	TokenDimension
	TokenPercentage
	TokenString
	TokenFunction
	TokenBracket
	TokenComma
	TokenSlash
	TokenDelim
)

func (k TokenKind) String() string {
	switch k {
	case TokenIdent:
		return "ident"
	case TokenNumber:
		return "number"
	case TokenDimension:
		return "dimension"
	case TokenPercentage:
		return "percentage"
	case TokenString:
		return "string"
	case TokenFunction:
		return "function"
	case TokenBracket:
		return "bracket"
	case TokenComma:
		return "comma"
	case TokenSlash:
		return "slash"
	}
	return "delim"
}

// Token is one component value of a property value. Idents and function
// names are lowercased in Text. Dimensions carry the lowercased Unit.
// Functions nest their arguments in Args; [a b] blocks carry Names.
type Token struct {
	Kind   TokenKind
	Text   string
	Number float64
	Unit   string
	Args   []Token
	Names  []string
}

// Is reports whether the token is the given identifier.
func (t Token) Is(ident string) bool {
	return t.Kind == TokenIdent && t.Text == ident
}

// SplitArgs splits function arguments on top-level commas.
func (t Token) SplitArgs() [][]Token {
	var out [][]Token
	var cur []Token
	for _, a := range t.Args {
		if a.Kind == TokenComma {
			out = append(out, cur)
			cur = nil
			continue
		}
		cur = append(cur, a)
	}
	return append(out, cur)
}

// Tokenize splits a declaration value into component values.
func Tokenize(value string) ([]Token, error) {
	p := NewParser(value)
	toks, closer, err := p.tokenList()
	if err != nil {
		return nil, err
	}
	if closer != 0 {
		return nil, fmt.Errorf("unexpected %q at offset %d", closer, p.pos-1)
	}
	return toks, nil
}

// tokenList reads tokens until EOF or a closing ')' or ']', which it consumes
// and reports.
func (p *Parser) tokenList() ([]Token, byte, error) {
	var toks []Token
	for {
		p.consumeWhitespace()
		if p.eof() {
			return toks, 0, nil
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}
		ch := p.currentChar()
		switch {
		case ch == ')' || ch == ']':
			p.consumeChar()
			return toks, ch, nil
		case ch == ',':
			p.consumeChar()
			toks = append(toks, Token{Kind: TokenComma, Text: ","})
		case ch == '/':
			p.consumeChar()
			toks = append(toks, Token{Kind: TokenSlash, Text: "/"})
		case ch == '"' || ch == '\'':
			s, err := p.readString(ch)
			if err != nil {
				return nil, 0, err
			}
			toks = append(toks, Token{Kind: TokenString, Text: s})
		case ch == '[':
			names, err := p.readBracket()
			if err != nil {
				return nil, 0, err
			}
			toks = append(toks, Token{Kind: TokenBracket, Names: names})
		case p.startsNumber():
			tok, err := p.readNumeric()
			if err != nil {
				return nil, 0, err
			}
			toks = append(toks, tok)
		case isValidIdentifierStart(ch):
			name := strings.ToLower(p.parseIdentifier())
			if !p.eof() && p.currentChar() == '(' {
				p.consumeChar()
				args, closer, err := p.tokenList()
				if err != nil {
					return nil, 0, err
				}
				if closer != ')' {
					return nil, 0, fmt.Errorf("unclosed function %s()", name)
				}
				toks = append(toks, Token{Kind: TokenFunction, Text: name, Args: args})
				continue
			}
			toks = append(toks, Token{Kind: TokenIdent, Text: name})
		case ch == '(':
			return nil, 0, fmt.Errorf("unexpected '(' at offset %d", p.pos)
		default:
			p.consumeChar()
			toks = append(toks, Token{Kind: TokenDelim, Text: string(ch)})
		}
	}
}

func (p *Parser) startsNumber() bool {
	ch := p.currentChar()
	if isDigit(ch) {
		return true
	}
	next := func(off int) byte {
		if p.pos+off < len(p.input) {
			return p.input[p.pos+off]
		}
		return 0
	}
	if ch == '.' {
		return isDigit(next(1))
	}
	if ch == '+' || ch == '-' {
		return isDigit(next(1)) || (next(1) == '.' && isDigit(next(2)))
	}
	return false
}

func (p *Parser) readNumeric() (Token, error) {
	start := p.pos
	if c := p.currentChar(); c == '+' || c == '-' {
		p.pos++
	}
	for !p.eof() && isDigit(p.currentChar()) {
		p.pos++
	}
	if !p.eof() && p.currentChar() == '.' && p.pos+1 < len(p.input) && isDigit(p.input[p.pos+1]) {
		p.pos++
		for !p.eof() && isDigit(p.currentChar()) {
			p.pos++
		}
	}
	// Exponent only when digits follow, so "1em" stays a dimension.
	if !p.eof() && (p.currentChar() == 'e' || p.currentChar() == 'E') {
		j := p.pos + 1
		if j < len(p.input) && (p.input[j] == '+' || p.input[j] == '-') {
			j++
		}
		if j < len(p.input) && isDigit(p.input[j]) {
			p.pos = j
			for !p.eof() && isDigit(p.currentChar()) {
				p.pos++
			}
		}
	}
	raw := p.input[start:p.pos]
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Token{}, fmt.Errorf("invalid number %q: %w", raw, err)
	}

	if !p.eof() && p.currentChar() == '%' {
		p.consumeChar()
		return Token{Kind: TokenPercentage, Text: raw + "%", Number: n}, nil
	}
	if !p.eof() && isValidIdentifierStart(p.currentChar()) {
		unit := strings.ToLower(p.parseIdentifier())
		return Token{Kind: TokenDimension, Text: raw + unit, Number: n, Unit: unit}, nil
	}
	return Token{Kind: TokenNumber, Text: raw, Number: n}, nil
}

func (p *Parser) readString(quote byte) (string, error) {
	start := p.pos
	p.skipQuotedString(quote)
	raw := p.input[start:p.pos]
	if len(raw) < 2 || raw[len(raw)-1] != quote {
		return "", fmt.Errorf("unterminated string at offset %d", start)
	}
	return raw[1 : len(raw)-1], nil
}

func (p *Parser) readBracket() ([]string, error) {
	start := p.pos
	p.consumeChar() // Consume '['
	end := strings.IndexByte(p.input[p.pos:], ']')
	if end == -1 {
		return nil, fmt.Errorf("unclosed '[' at offset %d", start)
	}
	body := p.input[p.pos : p.pos+end]
	p.pos += end + 1

	names := strings.Fields(body)
	for _, n := range names {
		if !isIdent(n) {
			return nil, fmt.Errorf("invalid line name %q", n)
		}
	}
	return names, nil
}

func isIdent(s string) bool {
	if s == "" || !isValidIdentifierStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isValidIdentifierChar(s[i]) {
			return false
		}
	}
	return true
}

// internal/browser/parser/css.go
package parser

import (
	"strings"
)

// Property represents a CSS property (e.g., "display").
type Property string

// Value represents a CSS value (e.g., "none").
type Value string

// Declaration is a key-value pair (e.g., display: none).
type Declaration struct {
	Property  Property
	Value     Value
	Important bool
}

// Parser holds the state of the declaration parser.
type Parser struct {
	input string
	pos   int
}

func NewParser(input string) *Parser {
	return &Parser{input: input, pos: 0}
}

// ParseInline parses the body of a style attribute.
func ParseInline(input string) []Declaration {
	return NewParser(input).ParseDeclarations()
}

// ParseDeclarations reads 'prop: value;' pairs until the input ends. A
// surrounding { } block is accepted. Malformed declarations are skipped.
// Later declarations of the same property override earlier ones unless the
// earlier one is !important.
func (p *Parser) ParseDeclarations() []Declaration {
	p.consumeWhitespace()
	braced := false
	if !p.eof() && p.currentChar() == '{' {
		p.consumeChar()
		braced = true
	}

	var declarations []Declaration
	index := make(map[Property]int)
	for {
		p.consumeWhitespace()
		if p.eof() || (braced && p.currentChar() == '}') {
			break
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}
		if p.currentChar() == ';' {
			p.consumeChar()
			continue
		}

		property, value, important := p.parseDeclaration()
		if property == "" || value == "" {
			continue
		}
		decl := Declaration{
			Property:  Property(strings.ToLower(property)),
			Value:     Value(value),
			Important: important,
		}
		if i, ok := index[decl.Property]; ok {
			if declarations[i].Important && !decl.Important {
				continue
			}
			declarations = append(declarations[:i], declarations[i+1:]...)
			for k, v := range index {
				if v > i {
					index[k] = v - 1
				}
			}
		}
		index[decl.Property] = len(declarations)
		declarations = append(declarations, decl)
	}

	if braced && !p.eof() && p.currentChar() == '}' {
		p.consumeChar()
	}
	return declarations
}

// parseDeclaration parses a single 'property: value;' pair.
func (p *Parser) parseDeclaration() (prop, val string, important bool) {
	// 1. Parse Property.
	if !isValidIdentifierStart(p.currentChar()) {
		p.skipTo(';', '}')
		if !p.eof() && p.currentChar() == ';' {
			p.consumeChar()
		}
		return
	}
	prop = p.parseIdentifier()
	p.consumeWhitespace()

	// 2. Parse Colon.
	if p.eof() || p.currentChar() != ':' {
		p.skipTo(';', '}')
		if !p.eof() && p.currentChar() == ';' {
			p.consumeChar()
		}
		return "", "", false
	}
	p.consumeChar()
	p.consumeWhitespace()

	// 3. Parse Value.
	val = p.parseValue()

	// 4. Handle !important.
	if strings.HasSuffix(strings.ToLower(val), "!important") {
		important = true
		val = strings.TrimSpace(val[:len(val)-len("!important")])
	}

	// 5. Consume optional semicolon.
	p.consumeWhitespace()
	if !p.eof() && p.currentChar() == ';' {
		p.consumeChar()
	}
	return
}

// parseValue reads a CSS value until a delimiter, keeping quoted strings and
// parenthesized groups intact.
func (p *Parser) parseValue() string {
	start := p.pos
	for !p.eof() {
		ch := p.currentChar()
		if ch == ';' || ch == '}' {
			break
		}
		if ch == '"' || ch == '\'' {
			p.skipQuotedString(ch)
			continue
		}
		if ch == '(' {
			p.consumeChar()
			p.skipBlock('(', ')')
			continue
		}
		p.pos++
	}
	return strings.TrimSpace(p.input[start:p.pos])
}

// --- Lexer-like Helpers ---

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) currentChar() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) consumeChar() byte {
	ch := p.currentChar()
	if !p.eof() {
		p.pos++
	}
	return ch
}

func (p *Parser) consumeWhitespace() {
	for !p.eof() && isWhitespace(p.currentChar()) {
		p.pos++
	}
}

func (p *Parser) startsWith(s string) bool {
	if p.pos+len(s) > len(p.input) {
		return false
	}
	return p.input[p.pos:p.pos+len(s)] == s
}

func (p *Parser) skipComment() {
	p.pos += 2
	endIndex := strings.Index(p.input[p.pos:], "*/")
	if endIndex == -1 {
		p.pos = len(p.input)
	} else {
		p.pos += endIndex + 2
	}
}

func (p *Parser) skipTo(targets ...byte) {
	for !p.eof() {
		ch := p.currentChar()
		for _, target := range targets {
			if ch == target {
				return
			}
		}
		p.pos++
	}
}

// skipBlock assumes the opening delimiter was already consumed.
func (p *Parser) skipBlock(open, close byte) {
	depth := 1
	for !p.eof() {
		c := p.consumeChar()
		if c == open {
			depth++
		} else if c == close {
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) skipQuotedString(quote byte) {
	p.consumeChar() // Consume opening quote
	for !p.eof() {
		ch := p.consumeChar()
		if ch == '\\' {
			p.consumeChar()
		} else if ch == quote {
			return
		}
	}
}

func (p *Parser) parseIdentifier() string {
	start := p.pos
	for !p.eof() && isValidIdentifierChar(p.currentChar()) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isValidIdentifierStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '-'
}

func isValidIdentifierChar(ch byte) bool {
	return isValidIdentifierStart(ch) || (ch >= '0' && ch <= '9')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

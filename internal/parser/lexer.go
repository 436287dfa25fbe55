package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokFloat
	tokString
	tokAttr
	tokVar
	tokIdent
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokInt, tokFloat:
		return "number"
	case tokString:
		return "string"
	case tokAttr:
		return "attribute"
	case tokVar:
		return "variable"
	case tokIdent:
		return "identifier"
	default:
		return "operator"
	}
}

type token struct {
	kind tokenKind
	text string // raw text, or the decoded body for strings, attributes and variables
	pos  int
}

// lexer splits expression text into tokens.
type lexer struct {
	input string
	pos   int
}

// two-character operators, checked before single characters
var twoCharOps = []string{"==", "!=", "<>", "<=", ">=", "&&", "||"}

const singleCharOps = "()+-*/%=<>!,."

func (l *lexer) errorf(pos int, msg string) *SyntaxError {
	return &SyntaxError{Input: l.input, Pos: pos, Msg: msg}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// next returns the next token.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: start}, nil
	}

	c := l.input[l.pos]
	switch {
	case c == '[':
		end := strings.IndexByte(l.input[l.pos+1:], ']')
		if end < 0 {
			return token{}, l.errorf(start, "unterminated attribute reference")
		}
		name := l.input[l.pos+1 : l.pos+1+end]
		if name == "" {
			return token{}, l.errorf(start, "empty attribute name")
		}
		l.pos += end + 2
		return token{kind: tokAttr, text: name, pos: start}, nil

	case c == '\'' || c == '"':
		s, err := l.quoted(c)
		if err != nil {
			return token{}, err
		}
		return token{kind: tokString, text: s, pos: start}, nil

	case c == '@':
		l.pos++
		name := l.ident()
		if name == "" {
			return token{}, l.errorf(start, "expected variable name after @")
		}
		return token{kind: tokVar, text: name, pos: start}, nil

	case isDigit(c) || (c == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
		return l.number(), nil

	case isIdentStart(rune(c)) || c >= utf8.RuneSelf:
		name := l.ident()
		if name == "" {
			return token{}, l.errorf(start, "unexpected character")
		}
		return token{kind: tokIdent, text: name, pos: start}, nil
	}

	for _, op := range twoCharOps {
		if strings.HasPrefix(l.input[l.pos:], op) {
			l.pos += 2
			return token{kind: tokPunct, text: op, pos: start}, nil
		}
	}
	if strings.IndexByte(singleCharOps, c) >= 0 {
		l.pos++
		return token{kind: tokPunct, text: string(c), pos: start}, nil
	}
	return token{}, l.errorf(start, "unexpected character "+string(c))
}

func (l *lexer) quoted(quote byte) (string, error) {
	start := l.pos
	l.pos++
	var b strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\\' && l.pos+1 < len(l.input):
			l.pos++
			switch esc := l.input[l.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\', '\'', '"':
				b.WriteByte(esc)
			default:
				// regular expression escapes such as \d pass through
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
		case c == quote:
			l.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
		l.pos++
	}
	return "", l.errorf(start, "unterminated string")
}

func (l *lexer) number() token {
	start := l.pos
	kind := tokInt
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]) {
		kind = tokFloat
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	if l.pos < len(l.input) && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		save := l.pos
		l.pos++
		if l.pos < len(l.input) && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			kind = tokFloat
			for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}
	return token{kind: kind, text: l.input[start:l.pos], pos: start}
}

func (l *lexer) ident() string {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !(isIdentStart(r) || unicode.IsDigit(r) || (r == ':' && l.pos > start)) {
			break
		}
		l.pos += size
	}
	return l.input[start:l.pos]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

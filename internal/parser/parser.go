package parser

import (
	"strconv"
	"strings"

	"github.com/beetlebugorg/portrayal/pkg/feature"
	"github.com/dlclark/regexp2"
)

// Parser parses filter and value expressions.
//
// A Parser holds the state of one parse and is not reused; construct one
// per input with NewParser. Grammar, loosest binding first:
//
//	or      := and (("or" | "||") and)*
//	and     := not (("and" | "&&") not)*
//	not     := ("not" | "!") not | compare
//	compare := sum (("=" | "==" | "!=" | "<>" | "<" | "<=" | ">" | ">=") sum)?
//	sum     := product (("+" | "-") product)*
//	product := unary (("*" | "/" | "%") unary)*
//	unary   := "-" unary | postfix
//	postfix := primary ("." ("match" | "replace") "(" string ("," string)? ")")*
//	primary := number | string | "true" | "false" | "null" | geometry keyword
//	         | [attribute] | @variable | name "(" args ")" | "(" or ")"
type Parser struct {
	lex  lexer
	tok  token
	peek *token
}

// NewParser creates a parser for input.
func NewParser(input string) *Parser {
	return &Parser{lex: lexer{input: input}}
}

// ParseExpression parses input into an expression tree.
//
// Example:
//
//	node, err := parser.ParseExpression("[pop] > 1000 and [name].match('^Port')")
func ParseExpression(input string) (Node, error) {
	return NewParser(input).Parse()
}

// geometry type keywords usable in comparisons against [mapnik::geometry_type]
var geometryKeywords = map[string]feature.GeometryType{
	"point":      feature.GeometryTypePoint,
	"linestring": feature.GeometryTypeLineString,
	"polygon":    feature.GeometryTypePolygon,
	"collection": feature.GeometryTypeCollection,
}

// Parse consumes the whole input and returns the expression tree.
func (p *Parser) Parse() (Node, error) {
	if strings.TrimSpace(p.lex.input) == "" {
		return nil, p.lex.errorf(0, "empty expression")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.unexpected()
	}
	return n, nil
}

func (p *Parser) advance() error {
	if p.peek != nil {
		p.tok = *p.peek
		p.peek = nil
		return nil
	}
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *Parser) lookahead() (token, error) {
	if p.peek == nil {
		t, err := p.lex.next()
		if err != nil {
			return token{}, err
		}
		p.peek = &t
	}
	return *p.peek, nil
}

func (p *Parser) unexpected() error {
	if p.tok.kind == tokEOF {
		return p.lex.errorf(p.tok.pos, "unexpected end of input")
	}
	return p.lex.errorf(p.tok.pos, "unexpected "+p.tok.kind.String()+" "+strconv.Quote(p.tok.text))
}

func (p *Parser) is(kind tokenKind, texts ...string) bool {
	if p.tok.kind != kind {
		return false
	}
	if len(texts) == 0 {
		return true
	}
	for _, t := range texts {
		if kind == tokIdent && strings.EqualFold(p.tok.text, t) {
			return true
		}
		if p.tok.text == t {
			return true
		}
	}
	return false
}

func (p *Parser) expect(text string) error {
	if !p.is(tokPunct, text) {
		return p.lex.errorf(p.tok.pos, "expected "+strconv.Quote(text))
	}
	return p.advance()
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.is(tokIdent, "or") || p.is(tokPunct, "||") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: "or", L: left, R: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.is(tokIdent, "and") || p.is(tokPunct, "&&") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: "and", L: left, R: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Node, error) {
	if p.is(tokIdent, "not") || p.is(tokPunct, "!") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	}
	return p.parseCompare()
}

// comparison operators and their canonical spelling
var compareOps = map[string]string{
	"=": "=", "==": "=", "!=": "!=", "<>": "!=",
	"<": "<", "<=": "<=", ">": ">", ">=": ">=",
}

func (p *Parser) parseCompare() (Node, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokPunct {
		return left, nil
	}
	op, ok := compareOps[p.tok.text]
	if !ok {
		return left, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: op, L: left, R: right}, nil
}

func (p *Parser) parseSum() (Node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.is(tokPunct, "+", "-") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *Parser) parseProduct() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.is(tokPunct, "*", "/", "%") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.is(tokPunct, "-") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if lit, ok := x.(*Literal); ok && lit.Value.IsNumeric() {
			switch lit.Value.Kind() {
			case feature.KindInt:
				i, _ := lit.Value.ToInt()
				return &Literal{Value: feature.Int(-i)}, nil
			case feature.KindFloat:
				f, _ := lit.Value.ToFloat()
				return &Literal{Value: feature.Float(-f)}, nil
			}
		}
		return &Unary{X: x}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Node, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.is(tokPunct, ".") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.is(tokIdent, "match", "replace") {
			return nil, p.lex.errorf(p.tok.pos, "expected match or replace after '.'")
		}
		method := strings.ToLower(p.tok.text)
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		args, err := p.stringArgs()
		if err != nil {
			return nil, err
		}

		switch method {
		case "match":
			if len(args) != 1 {
				return nil, p.lex.errorf(pos, (&ErrArity{Name: "match", Want: 1, Got: len(args)}).Error())
			}
			re, err := regexp2.Compile(args[0], regexp2.None)
			if err != nil {
				return nil, p.lex.errorf(pos, "invalid regular expression: "+err.Error())
			}
			x = &Match{X: x, Pattern: args[0], re: re}
		default:
			if len(args) != 2 {
				return nil, p.lex.errorf(pos, (&ErrArity{Name: "replace", Want: 2, Got: len(args)}).Error())
			}
			re, err := regexp2.Compile(args[0], regexp2.None)
			if err != nil {
				return nil, p.lex.errorf(pos, "invalid regular expression: "+err.Error())
			}
			x = &Replace{X: x, Pattern: args[0], With: args[1], re: re}
		}
	}
	return x, nil
}

// stringArgs parses a parenthesised list of string literals.
func (p *Parser) stringArgs() ([]string, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var out []string
	for !p.is(tokPunct, ")") {
		if len(out) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		if p.tok.kind != tokString {
			return nil, p.lex.errorf(p.tok.pos, "expected string argument")
		}
		out = append(out, p.tok.text)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return out, p.advance()
}

func (p *Parser) parsePrimary() (Node, error) {
	t := p.tok
	switch t.kind {
	case tokInt:
		i, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(t.text, 64)
			if ferr != nil {
				return nil, p.lex.errorf(t.pos, "invalid number")
			}
			return &Literal{Value: feature.Float(f)}, p.advance()
		}
		return &Literal{Value: feature.Int(i)}, p.advance()

	case tokFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, p.lex.errorf(t.pos, "invalid number")
		}
		return &Literal{Value: feature.Float(f)}, p.advance()

	case tokString:
		return &Literal{Value: feature.String(t.text)}, p.advance()

	case tokAttr:
		return &Attribute{Name: t.text}, p.advance()

	case tokVar:
		return &Variable{Name: t.text}, p.advance()

	case tokIdent:
		return p.parseIdent()

	case tokPunct:
		if t.text == "(" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			n, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			return n, p.expect(")")
		}
	}
	return nil, p.unexpected()
}

func (p *Parser) parseIdent() (Node, error) {
	t := p.tok
	name := strings.ToLower(t.text)

	next, err := p.lookahead()
	if err != nil {
		return nil, err
	}
	if next.kind == tokPunct && next.text == "(" {
		return p.parseCall(name, t.pos)
	}

	switch name {
	case "true":
		return &Literal{Value: feature.Bool(true)}, p.advance()
	case "false":
		return &Literal{Value: feature.Bool(false)}, p.advance()
	case "null":
		return &Literal{Value: feature.Null()}, p.advance()
	}
	if gt, ok := geometryKeywords[name]; ok {
		return &Literal{Value: feature.Int(int64(gt))}, p.advance()
	}
	return nil, p.lex.errorf(t.pos, "unknown identifier "+strconv.Quote(t.text))
}

func (p *Parser) parseCall(name string, pos int) (Node, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, p.lex.errorf(pos, (&ErrUnknownFunction{Name: name}).Error())
	}
	// name, then "("
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var args []Node
	for !p.is(tokPunct, ")") {
		if len(args) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		if p.tok.kind == tokEOF {
			return nil, p.unexpected()
		}
		a, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	if len(args) != b.arity {
		return nil, p.lex.errorf(pos, (&ErrArity{Name: name, Want: b.arity, Got: len(args)}).Error())
	}
	return &Call{Name: name, Args: args}, p.advance()
}

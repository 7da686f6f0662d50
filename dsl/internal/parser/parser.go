package parser

import (
	"strconv"
	"strings"

	"github.com/wippyai/platform-probe/dsl/ast"
	"github.com/wippyai/platform-probe/dsl/internal/token"
	"github.com/wippyai/platform-probe/errors"
)

var directives = map[string]ast.Op{
	"name":    ast.OpName,
	"include": ast.OpInclude,
	"field":   ast.OpField,
	"size":    ast.OpSize,
}

type arg struct {
	value string
	typ   token.Type
	line  int
}

type Parser struct {
	tokens []token.Token
	pos    int
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) Parse() ([]ast.Instr, error) {
	var instrs []ast.Instr
	for p.peek() != nil {
		in, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, in)
	}
	return instrs, nil
}

func (p *Parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *Parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) lastLine() int {
	if len(p.tokens) == 0 {
		return 1
	}
	return p.tokens[len(p.tokens)-1].Line
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, errors.Syntax(p.lastLine(), "unexpected end of input, expected %v", typ)
	}
	if t.Type != typ {
		return nil, unexpected(t, typ.String())
	}
	return t, nil
}

func unexpected(t *token.Token, want string) *errors.Error {
	if t.Type == token.Illegal {
		return errors.Syntax(t.Line, "illegal input %q", t.Value)
	}
	if t.Type == token.Newline {
		return errors.Syntax(t.Line, "unexpected end of statement, expected %s", want)
	}
	return errors.Syntax(t.Line, "expected %s, got %q", want, t.Value)
}

func (p *Parser) parseStatement() (ast.Instr, error) {
	t, err := p.expect(token.Ident)
	if err != nil {
		return ast.Instr{}, err
	}
	op, ok := directives[t.Value]
	if !ok {
		return ast.Instr{}, errors.UnknownDirective(t.Line, t.Value)
	}

	args, err := p.parseArgs()
	if err != nil {
		return ast.Instr{}, err
	}

	in := ast.Instr{Op: op, Line: t.Line}
	if err := bindArgs(&in, args); err != nil {
		return ast.Instr{}, err
	}

	if nt := p.peek(); nt != nil && nt.Type == token.Dot {
		if op != ast.OpField {
			return ast.Instr{}, errors.InvalidArgument(nt.Line, op.String(), "only field accepts a .size assignment")
		}
		size, err := p.parseSizeAssign()
		if err != nil {
			return ast.Instr{}, err
		}
		in.Size = size
		in.HasSize = true
	}

	if _, err := p.expect(token.Newline); err != nil {
		return ast.Instr{}, err
	}
	return in, nil
}

// parseArgs reads either a parenthesized or a bare comma-separated argument list.
func (p *Parser) parseArgs() ([]arg, error) {
	paren := false
	if t := p.peek(); t != nil && t.Type == token.LParen {
		p.next()
		paren = true
		if t := p.peek(); t != nil && t.Type == token.RParen {
			p.next()
			return nil, nil
		}
	} else if t == nil || t.Type == token.Newline || t.Type == token.Dot {
		return nil, nil
	}

	var args []arg
	for {
		t := p.next()
		if t == nil {
			return nil, errors.Syntax(p.lastLine(), "unexpected end of input, expected argument")
		}
		switch t.Type {
		case token.String, token.Symbol, token.Number:
			args = append(args, arg{value: t.Value, typ: t.Type, line: t.Line})
		default:
			return nil, unexpected(t, "argument")
		}

		nt := p.peek()
		if nt != nil && nt.Type == token.Comma {
			p.next()
			continue
		}
		break
	}

	if paren {
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func (p *Parser) parseSizeAssign() (uint64, error) {
	if _, err := p.expect(token.Dot); err != nil {
		return 0, err
	}
	attr, err := p.expect(token.Ident)
	if err != nil {
		return 0, err
	}
	if attr.Value != "size" {
		return 0, errors.InvalidArgument(attr.Line, "field", "unknown attribute "+strconv.Quote(attr.Value))
	}
	if _, err := p.expect(token.Assign); err != nil {
		return 0, err
	}
	num, err := p.expect(token.Number)
	if err != nil {
		return 0, err
	}
	return parseUint(num.Line, "field", num.Value)
}

func bindArgs(in *ast.Instr, args []arg) error {
	directive := in.Op.String()

	switch in.Op {
	case ast.OpName, ast.OpInclude:
		if len(args) != 1 {
			return errors.InvalidArgument(in.Line, directive, "expects exactly one argument")
		}
	case ast.OpField:
		if len(args) < 1 || len(args) > 2 {
			return errors.InvalidArgument(in.Line, directive, "expects a name and an optional type")
		}
	case ast.OpSize:
		if len(args) != 1 || args[0].typ != token.Number {
			return errors.InvalidArgument(in.Line, directive, "expects one integer")
		}
		size, err := parseUint(args[0].line, directive, args[0].value)
		if err != nil {
			return err
		}
		in.Size = size
		in.HasSize = true
		return nil
	}

	for _, a := range args {
		if a.typ == token.Number {
			return errors.InvalidArgument(a.line, directive, "expects string arguments, got number "+a.value)
		}
		if a.value == "" {
			return errors.InvalidArgument(a.line, directive, "empty argument")
		}
		in.Args = append(in.Args, a.value)
	}
	return nil
}

func parseUint(line int, directive, s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 10, 64)
	if err != nil {
		return 0, errors.New(errors.PhaseParse, errors.KindInvalidArgument).
			Line(line).
			Path(directive).
			Value(s).
			Cause(err).
			Detail("invalid integer %q", s).
			Build()
	}
	return v, nil
}

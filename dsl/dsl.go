package dsl

import (
	"github.com/wippyai/platform-probe/dsl/ast"
	"github.com/wippyai/platform-probe/dsl/internal/parser"
	"github.com/wippyai/platform-probe/dsl/internal/token"
)

func Compile(source string) ([]ast.Instr, error) {
	tokens := token.Tokenize(source)
	p := parser.New(tokens)
	return p.Parse()
}

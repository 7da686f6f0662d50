package parser

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wippyai/platform-probe/dsl/ast"
	"github.com/wippyai/platform-probe/dsl/internal/token"
	"github.com/wippyai/platform-probe/errors"
)

func parse(t *testing.T, src string) ([]ast.Instr, error) {
	t.Helper()
	return New(token.Tokenize(src)).Parse()
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []ast.Instr
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "paren form",
			input: `name("struct point")`,
			want:  []ast.Instr{{Op: ast.OpName, Args: []string{"struct point"}, Line: 1}},
		},
		{
			name:  "bare form",
			input: `include "sys/time.h"`,
			want:  []ast.Instr{{Op: ast.OpInclude, Args: []string{"sys/time.h"}, Line: 1}},
		},
		{
			name:  "field with type symbols",
			input: `field :tv_sec, :time_t`,
			want:  []ast.Instr{{Op: ast.OpField, Args: []string{"tv_sec", "time_t"}, Line: 1}},
		},
		{
			name:  "field without type",
			input: `field("x")`,
			want:  []ast.Instr{{Op: ast.OpField, Args: []string{"x"}, Line: 1}},
		},
		{
			name:  "field size override",
			input: `field("x", "int").size = 4`,
			want: []ast.Instr{{
				Op: ast.OpField, Args: []string{"x", "int"}, Size: 4, HasSize: true, Line: 1,
			}},
		},
		{
			name:  "aggregate size",
			input: `size(16)`,
			want:  []ast.Instr{{Op: ast.OpSize, Size: 16, HasSize: true, Line: 1}},
		},
		{
			name: "multi-line block",
			input: `
				name "struct timeval"
				include "sys/time.h"
				field :tv_sec, :time_t
				field :tv_usec, :suseconds_t
			`,
			want: []ast.Instr{
				{Op: ast.OpName, Args: []string{"struct timeval"}, Line: 2},
				{Op: ast.OpInclude, Args: []string{"sys/time.h"}, Line: 3},
				{Op: ast.OpField, Args: []string{"tv_sec", "time_t"}, Line: 4},
				{Op: ast.OpField, Args: []string{"tv_usec", "suseconds_t"}, Line: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parse(t, tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  errors.Kind
		line  int
	}{
		{"unknown directive", "feild :x", errors.KindUnknownDirective, 1},
		{"missing close paren", `name("a"`, errors.KindSyntax, 1},
		{"name arity", `name "a", "b"`, errors.KindInvalidArgument, 1},
		{"include without argument", "include", errors.KindInvalidArgument, 1},
		{"field arity", `field "a", "b", "c"`, errors.KindInvalidArgument, 1},
		{"size needs number", `size "big"`, errors.KindInvalidArgument, 1},
		{"number for name", `name 3`, errors.KindInvalidArgument, 1},
		{"size on include", "\ninclude 'a'.size = 3", errors.KindInvalidArgument, 2},
		{"unknown attribute", `field("x").offset = 3`, errors.KindInvalidArgument, 1},
		{"missing value", `field("x").size =`, errors.KindSyntax, 1},
		{"illegal", "name @", errors.KindSyntax, 1},
		{"trailing junk", `name "a" "b"`, errors.KindSyntax, 1},
		{"statement starts with string", `"a"`, errors.KindSyntax, 1},
		{"empty string", `name ""`, errors.KindInvalidArgument, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			var perr *errors.Error
			if !stderrors.As(err, &perr) {
				t.Fatalf("error %T is not *errors.Error", err)
			}
			if perr.Phase != errors.PhaseParse {
				t.Errorf("Phase = %v, want parse", perr.Phase)
			}
			if perr.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v (%v)", perr.Kind, tt.kind, err)
			}
			if perr.Line != tt.line {
				t.Errorf("Line = %d, want %d", perr.Line, tt.line)
			}
		})
	}
}

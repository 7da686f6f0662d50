// Package ast defines the instruction list produced by the dsl compiler.
package ast

// Op is a builder operation.
type Op int

const (
	OpName Op = iota
	OpInclude
	OpField
	OpSize
)

func (o Op) String() string {
	switch o {
	case OpName:
		return "name"
	case OpInclude:
		return "include"
	case OpField:
		return "field"
	case OpSize:
		return "size"
	}
	return "unknown"
}

// Instr is a single builder call. Args holds the string arguments in source
// order; for OpField the optional second argument is the type tag. Size is the
// value of OpSize, or the `.size =` override of an OpField when HasSize is set.
type Instr struct {
	Args    []string
	Size    uint64
	Op      Op
	Line    int
	HasSize bool
}

// Arg returns the i-th argument or "" if absent.
func (in Instr) Arg(i int) string {
	if i < len(in.Args) {
		return in.Args[i]
	}
	return ""
}

// Package dsl compiles the structure-description mini-language into an
// instruction list.
//
// The language has four directives, one per line (or separated by ';'):
//
//	name "struct addrinfo"          # native type name, required before probing
//	include "sys/socket.h"          # header, repeatable, order preserved
//	field :ai_flags, :int           # field name and optional type tag
//	field("ai_addrlen").size = 4    # explicit field size override
//	size 48                         # explicit overall size override
//
// Arguments are double- or single-quoted strings or :symbols. Parentheses
// around the argument list are optional.
//
// Compile never evaluates host code; the resulting []ast.Instr is executed
// against a structure builder by the caller (see structgen.FromSource).
package dsl

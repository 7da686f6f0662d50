package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse     Phase = "parse"     // mini-language parsing
	PhaseConfigure Phase = "configure" // description setup
	PhaseGenerate  Phase = "generate"  // diagnostic source synthesis
	PhaseCompile   Phase = "compile"   // native toolchain invocation
	PhaseExecute   Phase = "execute"   // probe binary execution
	PhaseDecode    Phase = "decode"    // probe output parsing
	PhaseRender    Phase = "render"    // layout/config rendering
	PhaseLoad      Phase = "load"      // manifest loading
	PhaseSplice    Phase = "splice"    // template region splicing
)

// Kind categorizes the error
type Kind string

const (
	KindSyntax           Kind = "syntax"
	KindUnknownDirective Kind = "unknown_directive"
	KindInvalidArgument  Kind = "invalid_argument"
	KindNotConfigured    Kind = "not_configured"
	KindToolchain        Kind = "toolchain"
	KindExecution        Kind = "execution"
	KindInvalidOutput    Kind = "invalid_output"
	KindOutputMismatch   Kind = "output_mismatch"
	KindNotProbed        Kind = "not_probed"
	KindIO               Kind = "io"
	KindInvalidInput     Kind = "invalid_input"
	KindMissingStruct    Kind = "missing_struct"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Struct string
	Detail string
	Path   []string
	Line   int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Struct != "" {
		b.WriteString(" in ")
		b.WriteString(e.Struct)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Line > 0 {
		b.WriteString(fmt.Sprintf(" (line %d)", e.Line))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Struct sets the native structure name
func (b *Builder) Struct(name string) *Builder {
	b.err.Struct = name
	return b
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Line sets the source line
func (b *Builder) Line(line int) *Builder {
	b.err.Line = line
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Syntax creates a mini-language syntax error
func Syntax(line int, detail string, args ...any) *Error {
	return New(PhaseParse, KindSyntax).Line(line).Detail(detail, args...).Build()
}

// UnknownDirective creates an error for an unrecognized mini-language directive
func UnknownDirective(line int, name string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindUnknownDirective,
		Line:   line,
		Detail: fmt.Sprintf("unknown directive %q", name),
		Value:  name,
	}
}

// InvalidArgument creates an error for a directive called with bad arguments
func InvalidArgument(line int, directive, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidArgument,
		Line:   line,
		Path:   []string{directive},
		Detail: detail,
	}
}

// NotConfigured creates an error for a description missing required setup
func NotConfigured(what string) *Error {
	return &Error{
		Phase:  PhaseConfigure,
		Kind:   KindNotConfigured,
		Detail: fmt.Sprintf("%s not set", what),
	}
}

// Toolchain creates an error for a compiler that could not be invoked
func Toolchain(command string, cause error) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindToolchain,
		Detail: fmt.Sprintf("invoke %s", command),
		Value:  command,
		Cause:  cause,
	}
}

// Execution creates an error for a probe binary that failed to run
func Execution(binary string, stderr []byte, cause error) *Error {
	detail := fmt.Sprintf("run %s", binary)
	if s := strings.TrimSpace(string(stderr)); s != "" {
		detail += ": " + s
	}
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindExecution,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidOutput creates an error for a probe output line that cannot be parsed
func InvalidOutput(structName string, line int, text string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidOutput,
		Struct: structName,
		Line:   line,
		Detail: fmt.Sprintf("unparsable probe output %q", text),
		Value:  text,
	}
}

// OutputMismatch creates an error for probe output with the wrong number of field lines
func OutputMismatch(structName string, got, want int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOutputMismatch,
		Struct: structName,
		Detail: fmt.Sprintf("probe reported %d field line(s), %d field(s) declared", got, want),
		Value:  got,
	}
}

// NotProbed creates an error for rendering a description that has no measured layout
func NotProbed(structName string) *Error {
	return &Error{
		Phase:  PhaseRender,
		Kind:   KindNotProbed,
		Struct: structName,
		Detail: "layout has not been probed",
	}
}

// IO wraps a filesystem failure
func IO(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingStruct represents a single structure that did not compile on this platform
type MissingStruct struct {
	Config string // e.g., "addrinfo"
	Name   string // e.g., "struct addrinfo"
}

// MissingStructsError is returned by strict batch generation when structures are unavailable
type MissingStructsError struct {
	Structs []MissingStruct
}

// NewMissingStructsError creates an error from a list of "config#name" strings
func NewMissingStructsError(keys []string) *MissingStructsError {
	result := &MissingStructsError{
		Structs: make([]MissingStruct, 0, len(keys)),
	}
	for _, key := range keys {
		cfg, name := parseStructKey(key)
		result.Structs = append(result.Structs, MissingStruct{
			Config: cfg,
			Name:   name,
		})
	}
	return result
}

func parseStructKey(key string) (config, name string) {
	cfg, name, found := strings.Cut(key, "#")
	if found {
		return cfg, name
	}
	return key, ""
}

func (e *MissingStructsError) Error() string {
	if len(e.Structs) == 0 {
		return "[probe] missing_struct: no structures specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d structure(s) unavailable on this platform:\n", len(e.Structs)))

	for _, s := range e.Structs {
		b.WriteString("\n  - ")
		b.WriteString(s.Config)
		if s.Name != "" {
			b.WriteString(" (")
			b.WriteString(s.Name)
			b.WriteByte(')')
		}
	}

	return b.String()
}

// Is reports whether target matches this error type
func (e *MissingStructsError) Is(target error) bool {
	_, ok := target.(*MissingStructsError)
	return ok
}

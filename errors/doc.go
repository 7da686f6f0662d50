// Package errors provides structured error types for the platform-probe module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: structure name, field path, source line and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidOutput).
//		Struct("struct timeval").
//		Path("tv_usec").
//		Detail("expected two integers").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Syntax(3, "expected %s", "')'")
//	err := errors.OutputMismatch("struct stat", 4, 5)
//
// A structure that fails to compile is an expected outcome and is reported as a
// boolean by the prober, never as an Error.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors

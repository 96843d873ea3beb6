// Package errors provides structured error types for the flatwire library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, wire key, Go type name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidLiteral).
//		Path("pagination", "limit").
//		Key("limit").
//		GoType("int").
//		Detail("cannot parse %q", "ten").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidPair("a=b=c")
//	err := errors.InvalidLiteral(path, "age", "int", "notanumber", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors

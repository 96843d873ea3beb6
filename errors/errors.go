package errors

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // type inspection
	PhaseEncode  Phase = "encode"  // Go value to query text
	PhaseDecode  Phase = "decode"  // query text to Go value
	PhaseParse   Phase = "parse"   // pair splitting
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidPair    Kind = "invalid_pair"
	KindMissingValue   Kind = "missing_value"
	KindInvalidLiteral Kind = "invalid_literal"
	KindTypeMismatch   Kind = "type_mismatch"
	KindUnsupported    Kind = "unsupported"
	KindSubCodec       Kind = "sub_codec"
	KindUnknownKey     Kind = "unknown_key"
	KindInvalidInput   Kind = "invalid_input"
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Key    string
	GoType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Key != "" {
		b.WriteString(" (key ")
		b.WriteString(strconv.Quote(e.Key))
		b.WriteByte(')')
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Key sets the wire key
func (b *Builder) Key(k string) *Builder {
	b.err.Key = k
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
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

// InvalidPair creates a malformed pair error for a piece of input that does
// not split into exactly one key and one value
func InvalidPair(piece string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidPair,
		Detail: fmt.Sprintf("pair %q does not match key=value", piece),
		Value:  piece,
	}
}

// MissingValue creates an error for a required key with no remaining value
func MissingValue(path []string, key string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMissingValue,
		Path:   path,
		Key:    key,
		Detail: fmt.Sprintf("no value for key %q", key),
	}
}

// InvalidLiteral creates an error for a value token that does not parse as
// the target scalar type
func InvalidLiteral(path []string, key, goType, raw string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidLiteral,
		Path:   path,
		Key:    key,
		GoType: goType,
		Detail: fmt.Sprintf("cannot parse %q", raw),
		Value:  raw,
		Cause:  cause,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Detail: detail,
	}
}

// Unsupported creates an unsupported type or operation error
func Unsupported(phase Phase, path []string, goType, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: goType,
		Detail: what,
	}
}

// SubCodec wraps a failure from the embedded sequence codec
func SubCodec(phase Phase, path []string, key string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSubCodec,
		Path:   path,
		Key:    key,
		Detail: "embedded sequence codec failed",
		Cause:  cause,
	}
}

// UnknownKey creates an error for a single input key the target does not declare
func UnknownKey(key string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownKey,
		Key:    key,
		Detail: fmt.Sprintf("unknown key %q", key),
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

// UnknownKeysError is returned by strict decoding when the input carries
// keys the target type does not declare
type UnknownKeysError struct {
	Keys []string
}

// NewUnknownKeysError creates an error from the leftover input keys,
// sorted for stable output
func NewUnknownKeysError(keys []string) *UnknownKeysError {
	result := &UnknownKeysError{
		Keys: make([]string, len(keys)),
	}
	copy(result.Keys, keys)
	sort.Strings(result.Keys)
	return result
}

func (e *UnknownKeysError) Error() string {
	if len(e.Keys) == 0 {
		return "[decode] unknown_key: no keys specified"
	}

	var b strings.Builder
	b.WriteString("[decode] unknown_key: ")
	b.WriteString(fmt.Sprintf("%d undeclared key(s): ", len(e.Keys)))
	for i, k := range e.Keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(k))
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *UnknownKeysError) Is(target error) bool {
	_, ok := target.(*UnknownKeysError)
	return ok
}

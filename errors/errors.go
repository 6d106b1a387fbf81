package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCatalog  Phase = "catalog"  // family lookup
	PhaseCreate   Phase = "create"   // block construction
	PhaseValue    Phase = "value"    // erased value access
	PhasePort     Phase = "port"     // block input/output access
	PhaseBoundary Phase = "boundary" // foreign callers
	PhaseScenario Phase = "scenario" // scenario loading and replay
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownBlock          Kind = "unknown_block"
	KindArityMismatch         Kind = "arity_mismatch"
	KindUnsupportedKind       Kind = "unsupported_kind"
	KindKindMismatch          Kind = "kind_mismatch"
	KindPortOutOfRange        Kind = "port_out_of_range"
	KindNullArgument          Kind = "null_argument"
	KindUnsupportedConversion Kind = "unsupported_conversion"
	KindInvalidHandle         Kind = "invalid_handle"
	KindInvalidMemory         Kind = "invalid_memory"
	KindInvalidData           Kind = "invalid_data"
)

// Sentinels for use with the standard errors.Is. They match any phase.
var (
	ErrUnknownBlock          = &Error{Kind: KindUnknownBlock}
	ErrArityMismatch         = &Error{Kind: KindArityMismatch}
	ErrUnsupportedKind       = &Error{Kind: KindUnsupportedKind}
	ErrKindMismatch          = &Error{Kind: KindKindMismatch}
	ErrPortOutOfRange        = &Error{Kind: KindPortOutOfRange}
	ErrNullArgument          = &Error{Kind: KindNullArgument}
	ErrUnsupportedConversion = &Error{Kind: KindUnsupportedConversion}
	ErrInvalidHandle         = &Error{Kind: KindInvalidHandle}
	ErrInvalidMemory         = &Error{Kind: KindInvalidMemory}
	ErrInvalidData           = &Error{Kind: KindInvalidData}
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Block    string
	Expected string
	Actual   string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Block != "" {
		b.WriteString(" in ")
		b.WriteString(e.Block)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	hasKinds := e.Expected != "" || e.Actual != ""
	if hasKinds {
		b.WriteString(": ")
		if e.Expected != "" && e.Actual != "" {
			b.WriteString("expected ")
			b.WriteString(e.Expected)
			b.WriteString(", got ")
			b.WriteString(e.Actual)
		} else if e.Expected != "" {
			b.WriteString("expected ")
			b.WriteString(e.Expected)
		} else {
			b.WriteString("got ")
			b.WriteString(e.Actual)
		}
	}

	if e.Detail != "" {
		if hasKinds {
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

// Is reports whether target matches this error.
// Kind must match; Phase only when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Phase == "" || e.Phase == t.Phase
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

// Block sets the block or family name
func (b *Builder) Block(name string) *Builder {
	b.err.Block = name
	return b
}

// Path sets the location inside the block
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Expected sets the expected kind or shape
func (b *Builder) Expected(s string) *Builder {
	b.err.Expected = s
	return b
}

// Actual sets the received kind or shape
func (b *Builder) Actual(s string) *Builder {
	b.err.Actual = s
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

// UnknownBlock creates an error for a name that matches no family
func UnknownBlock(name string) *Error {
	return &Error{
		Phase:  PhaseCatalog,
		Kind:   KindUnknownBlock,
		Block:  name,
		Detail: fmt.Sprintf("no block family named %q", name),
		Value:  name,
	}
}

// ArityMismatch creates an error for a wrong number of kinds
func ArityMismatch(block string, expected, actual int) *Error {
	return &Error{
		Phase:    PhaseCreate,
		Kind:     KindArityMismatch,
		Block:    block,
		Expected: fmt.Sprintf("%d kind(s)", expected),
		Actual:   fmt.Sprintf("%d kind(s)", actual),
	}
}

// UnsupportedKind creates an error for a kind a family or operation does not accept
func UnsupportedKind(phase Phase, block, kind string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedKind,
		Block:  block,
		Actual: kind,
	}
}

// KindMismatch creates an error for a value whose kind or width differs from the expected one
func KindMismatch(phase Phase, expected, actual string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindKindMismatch,
		Expected: expected,
		Actual:   actual,
	}
}

// PortOutOfRange creates an error for an input or output index past the port count
func PortOutOfRange(block, direction string, port, count int) *Error {
	return &Error{
		Phase:  PhasePort,
		Kind:   KindPortOutOfRange,
		Block:  block,
		Path:   []string{fmt.Sprintf("%s[%d]", direction, port)},
		Detail: fmt.Sprintf("port %d out of range (count %d)", port, count),
		Value:  port,
	}
}

// NullArgument creates an error for a missing argument or payload
func NullArgument(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNullArgument,
		Detail: fmt.Sprintf("%s is null", what),
	}
}

// UnsupportedConversion creates an error for a value that cannot be read as another type
func UnsupportedConversion(phase Phase, from, to string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindUnsupportedConversion,
		Expected: to,
		Actual:   from,
	}
}

// InvalidHandle creates an error for a handle that names no live block
func InvalidHandle(handle uint32) *Error {
	return &Error{
		Phase:  PhaseBoundary,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("handle %d is not live", handle),
		Value:  handle,
	}
}

// InvalidMemory creates an error for an out-of-range foreign memory access
func InvalidMemory(offset, length uint32) *Error {
	return &Error{
		Phase:  PhaseBoundary,
		Kind:   KindInvalidMemory,
		Detail: fmt.Sprintf("access of %d bytes at offset %d out of range", length, offset),
		Value:  offset,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
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

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

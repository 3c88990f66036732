package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInit    Phase = "init"    // runtime start, pari_init
	PhaseEval    Phase = "eval"    // GP string evaluation
	PhaseConvert Phase = "convert" // Go <-> PARI value conversion
	PhaseCall    Phase = "call"    // library function calls
	PhaseClose   Phase = "close"   // runtime shutdown, handle release
	PhaseParse   Phase = "parse"   // pari.desc and prototype parsing
	PhaseLoad    Phase = "load"    // installation discovery
	PhaseLink    Phase = "link"    // shared library symbol resolution
)

// Kind categorizes the error
type Kind string

const (
	KindPari               Kind = "pari"
	KindTypeMismatch       Kind = "type_mismatch"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindInvalidData        Kind = "invalid_data"
	KindUnsupported        Kind = "unsupported"
	KindAllocation         Kind = "allocation"
	KindOverflow           Kind = "overflow"
	KindNotFound           Kind = "not_found"
	KindNotInitialized     Kind = "not_initialized"
	KindAlreadyInitialized Kind = "already_initialized"
	KindClosed             Kind = "closed"
	KindInvalidInput       Kind = "invalid_input"
	KindVersion            Kind = "version"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Function string // PARI/GP function involved, e.g. "factorff"
	Code     string // PARI error code name, e.g. "e_INV"
	Detail   string
	Path     []string
	ErrNum   int // PARI error number, valid only when Kind == KindPari
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

	if e.Function != "" || e.Code != "" {
		b.WriteString(": ")
		if e.Function != "" && e.Code != "" {
			b.WriteString(e.Function)
			b.WriteString(" (")
			b.WriteString(e.Code)
			b.WriteByte(')')
		} else if e.Function != "" {
			b.WriteString(e.Function)
		} else {
			b.WriteString(e.Code)
		}
	}

	if e.Detail != "" {
		if e.Function != "" || e.Code != "" {
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

// Function sets the PARI/GP function name
func (b *Builder) Function(name string) *Builder {
	b.err.Function = name
	return b
}

// Code sets the PARI error number and its symbolic name
func (b *Builder) Code(num int, name string) *Builder {
	b.err.ErrNum = num
	b.err.Code = name
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

// Pari creates an error raised by the PARI library itself.
// Stack exhaustion is reported as KindAllocation so callers can tell it apart
// from arithmetic failures.
func Pari(phase Phase, function string, num int, code, message string) *Error {
	kind := KindPari
	if code == "e_STACK" {
		kind = KindAllocation
	}
	return &Error{
		Phase:    phase,
		Kind:     kind,
		Function: function,
		ErrNum:   num,
		Code:     code,
		Detail:   strings.TrimSpace(message),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, function, want, got string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Function: function,
		Detail:   fmt.Sprintf("expected %s, got %s", want, got),
		Value:    got,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
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

// MissingSymbolsError is returned when a PARI shared library does not export
// every data symbol the bindings reference.
type MissingSymbolsError struct {
	Library string
	Symbols []string
}

// NewMissingSymbolsError creates an error for the given library and symbol names
func NewMissingSymbolsError(library string, symbols []string) *MissingSymbolsError {
	sorted := append([]string(nil), symbols...)
	sort.Strings(sorted)
	return &MissingSymbolsError{
		Library: library,
		Symbols: sorted,
	}
}

func (e *MissingSymbolsError) Error() string {
	if len(e.Symbols) == 0 {
		return "[link] not_found: no symbols specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("missing %d data symbol(s)", len(e.Symbols)))
	if e.Library != "" {
		b.WriteString(" in ")
		b.WriteString(e.Library)
	}
	b.WriteByte(':')
	for _, s := range e.Symbols {
		b.WriteString("\n  - ")
		b.WriteString(s)
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *MissingSymbolsError) Is(target error) bool {
	_, ok := target.(*MissingSymbolsError)
	return ok
}

// Runtime package convenience constructors

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// AlreadyInitialized creates an error for a second initialization of a
// process-wide component
func AlreadyInitialized(component string) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindAlreadyInitialized,
		Detail: fmt.Sprintf("%s already initialized in this process", component),
	}
}

// Closed creates an error for use of a closed component or a released handle
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
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

// Version creates a library version mismatch error
func Version(have, want string) *Error {
	return &Error{
		Phase:  PhaseInit,
		Kind:   KindVersion,
		Detail: fmt.Sprintf("PARI %s does not satisfy %s", have, want),
		Value:  have,
	}
}

// Load creates an installation loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindNotFound,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// From returns the first *Error in err's chain.
func From(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	if e, ok := From(err); ok {
		return e.Kind
	}
	return ""
}

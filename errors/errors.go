package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // schema compilation
	PhaseParse   Phase = "parse"   // descriptor and document parsing
	PhaseEncode  Phase = "encode"  // values to bytes
	PhaseDecode  Phase = "decode"  // bytes to values
	PhaseLoad    Phase = "load"    // program loading
	PhaseRuntime Phase = "runtime" // program execution
)

// Kind categorizes the error
type Kind string

const (
	KindSchemaSyntax       Kind = "schema_syntax"
	KindUnknownType        Kind = "unknown_type"
	KindDuplicateField     Kind = "duplicate_field"
	KindOutOfRange         Kind = "out_of_range"
	KindBufferTooShort     Kind = "buffer_too_short"
	KindBufferSizeMismatch Kind = "buffer_size_mismatch"
	KindFieldMissing       Kind = "field_missing"
	KindTypeMismatch       Kind = "type_mismatch"
	KindLengthMismatch     Kind = "length_mismatch"
	KindInvalidUTF8        Kind = "invalid_utf8"
	KindInvalidData        Kind = "invalid_data"
	KindInvalidInput       Kind = "invalid_input"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindNotFound           Kind = "not_found"
	KindAllocation         Kind = "allocation"
	KindInstantiation      Kind = "instantiation"
	KindProgramFailed      Kind = "program_failed"
)

// Sentinels for errors.Is checks that do not care about the phase.
var (
	ErrSchemaSyntax       = &Error{Kind: KindSchemaSyntax}
	ErrUnknownType        = &Error{Kind: KindUnknownType}
	ErrDuplicateField     = &Error{Kind: KindDuplicateField}
	ErrOutOfRange         = &Error{Kind: KindOutOfRange}
	ErrBufferTooShort     = &Error{Kind: KindBufferTooShort}
	ErrBufferSizeMismatch = &Error{Kind: KindBufferSizeMismatch}
	ErrFieldMissing       = &Error{Kind: KindFieldMissing}
	ErrTypeMismatch       = &Error{Kind: KindTypeMismatch}
	ErrLengthMismatch     = &Error{Kind: KindLengthMismatch}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrProgramFailed      = &Error{Kind: KindProgramFailed}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Type   string
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
		b.WriteString(FormatPath(e.Path))
	}

	if e.GoType != "" || e.Type != "" {
		b.WriteString(": ")
		switch {
		case e.GoType != "" && e.Type != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", layout type ")
			b.WriteString(e.Type)
		case e.GoType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		default:
			b.WriteString("layout type ")
			b.WriteString(e.Type)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.Type != "" {
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

// Is reports whether target matches this error. A target without a
// phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// FormatPath joins path segments with dots. Index segments such as "[2]"
// attach to the previous segment.
func FormatPath(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// WithPrefix prepends segments to the path of err if it is an *Error.
// Other errors are returned unchanged.
func WithPrefix(err error, segs ...string) error {
	e, ok := err.(*Error)
	if !ok || len(segs) == 0 {
		return err
	}
	path := make([]string, 0, len(segs)+len(e.Path))
	path = append(path, segs...)
	e.Path = append(path, e.Path...)
	return e
}

// Index formats an element index as a path segment.
func Index(i int) string {
	return fmt.Sprintf("[%d]", i)
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

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Type sets the layout type descriptor
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
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

// SchemaSyntax reports a malformed descriptor or schema document.
func SchemaSyntax(input string, pos int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSchemaSyntax,
		Value:  input,
		Detail: fmt.Sprintf("%s (at %d in %q)", detail, pos, input),
	}
}

// UnknownType reports a scalar name outside the registry.
func UnknownType(name string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindUnknownType,
		Value:  name,
		Detail: fmt.Sprintf("unknown type %q", name),
	}
}

// DuplicateField reports a key declared twice at one level.
func DuplicateField(phase Phase, path []string, key string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateField,
		Path:   path,
		Value:  key,
		Detail: fmt.Sprintf("duplicate key %q", key),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, layoutType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Type:   layoutType,
	}
}

// OutOfRange reports a value that does not fit its declared width.
func OutOfRange(phase Phase, path []string, value any, layoutType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Path:   path,
		Type:   layoutType,
		Detail: fmt.Sprintf("value %v out of range for %s", value, layoutType),
		Value:  value,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// LengthMismatch reports an array or tuple value with the wrong element count.
func LengthMismatch(phase Phase, path []string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLengthMismatch,
		Path:   path,
		Value:  got,
		Detail: fmt.Sprintf("got %d elements, want %d", got, want),
	}
}

// BufferTooShort reports a read past the end of the input.
func BufferTooShort(phase Phase, path []string, need, have int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBufferTooShort,
		Path:   path,
		Value:  have,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, have),
	}
}

// BufferSizeMismatch reports an input whose length differs from the layout span.
func BufferSizeMismatch(phase Phase, want, have int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBufferSizeMismatch,
		Value:  have,
		Detail: fmt.Sprintf("buffer is %d bytes, layout spans %d", have, want),
	}
}

// OutOfBounds reports a memory access past the end of a region.
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Value:  offset,
		Detail: fmt.Sprintf("access [%d, +%d) outside memory of %d bytes", offset, length, size),
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

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Value:  name,
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

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load creates a program loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ProgramFailed reports a nonzero program return code.
func ProgramFailed(entry string, code uint32) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindProgramFailed,
		Value:  code,
		Detail: fmt.Sprintf("%s returned %d", entry, code),
	}
}

// Package errors provides structured error types for the soprox-abi module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a field path, the Go and layout type names, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("owner", "balance").
//		GoType("string").
//		Type("u64").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfRange(errors.PhaseEncode, path, 300, "u8")
//	err := errors.BufferTooShort(errors.PhaseDecode, path, 8, 3)
//
// Sentinels such as ErrBufferTooShort carry only a Kind and match an error
// of that kind from any phase:
//
//	if errors.Is(err, soerrors.ErrOutOfRange) { ... }
package errors

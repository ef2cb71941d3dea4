// Package codec compiles schemas into fixed byte layouts and converts value
// trees to and from those layouts.
//
// # Wire Format
//
// Every type has a fixed width and values are packed back to back with no
// alignment padding, header, or length prefix:
//
//	Type          Width   Encoding
//	──────────────────────────────────────────────────────────
//	bool          1       0 or 1; any nonzero byte decodes as true
//	u8..u64       1..8    little-endian unsigned
//	i8..i64       1..8    little-endian two's complement
//	char(N)       N       UTF-8, left-aligned, zero-padded (N defaults to 4)
//	identifier    32      raw bytes; base58 text form
//	[T;N]         N×T     elements in order
//	(T1;...;Tk)   ΣTi     components in order
//	struct        ΣF      fields in declaration order
//
// # Key Types
//
//	Compiler  - validates a schema and computes offsets once
//	Layout    - compiled struct schema with Encode/Decode
//	Node      - compiled type (scalar, array, tuple, struct)
//	Item/Slot - ad hoc Pack and Unpack without a schema
//
// # Encoding Flow
//
//  1. Compile(schema) → *Layout
//  2. layout.Encode(map[string]any) → []byte of exactly layout.Space()
//  3. layout.Decode([]byte) → map[string]any
//
// Scalars absent from the value mapping take their default (zero, false,
// empty text, or the all-zero identifier). Absent arrays, tuples and nested
// structs are reported as field_missing. Array and tuple values must have
// exactly the declared number of elements.
//
// Layouts and nodes are immutable after compilation. Encode and Decode
// allocate fresh outputs and may be called concurrently.
package codec

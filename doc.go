// Package soproxabi describes, encodes and decodes the fixed-layout binary
// records that on-chain instruction processors read and write: account
// state and instruction data.
//
// # Architecture Overview
//
//	soproxabi/           Root package with the Memory interfaces
//	├── schema/          Schema authoring, descriptor parser, YAML/JSON documents
//	├── codec/           Compiler, layouts, encode/decode, pack/unpack, instruction sets
//	├── address/         32-byte identifiers and their base58 text form
//	├── program/         wazero host that runs instruction processors locally
//	├── errors/          Structured error types with field paths
//	└── cmd/abi/         CLI and TUI for inspecting layouts and buffers
//
// # Quick Start
//
// Describe a record, compile it once, then encode and decode:
//
//	layout, err := codec.Compile(schema.New(
//	    schema.Of("total_supply", "u64"),
//	    schema.Of("decimals", "u8"),
//	    schema.Of("initialized", "bool"),
//	))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	buf, err := layout.Encode(map[string]any{"total_supply": 1000, "decimals": 2})
//	// buf is exactly layout.Space() == 10 bytes
//
//	values, err := layout.Decode(buf)
//	// values["initialized"] == false
//
// # Descriptors
//
//	bool  u8 u16 u32 u64  i8 i16 i32 i64  char  char(N)  identifier (pub, pubkey)
//	[T;N]           fixed array of a scalar
//	(T1;T2;...)     tuple of scalars
//
// Fields may also hold a nested schema, which encodes inline.
//
// # Thread Safety
//
// Compiled layouts and nodes are immutable and safe for concurrent use.
// Programs loaded into a program.Host run each call in a fresh instance.
package soproxabi

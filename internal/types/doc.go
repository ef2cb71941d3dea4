// Package types defines the closed scalar registry and the compiled layout tree.
//
// A Node holds precomputed span and field offsets for one schema. Nodes are
// built once by the codec compiler and never mutated afterwards, so a single
// Node may be shared by any number of concurrent encode and decode calls.
//
// # Key Types
//
//   - Kind: type discriminator (scalar widths, array, tuple, struct)
//   - Node: compiled layout with span and offsets
//   - Field: struct member with its relative offset
//
// This package is internal to the module.
package types

// Package abi provides internal utilities for the codec.
//
// # Contents
//
//   - coerce.go: Go numeric values to fixed-width integers, with range checks
//   - helpers.go: overflow-safe arithmetic and type naming
//
// This package is internal to the codec.
package abi

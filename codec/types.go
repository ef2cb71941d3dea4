package codec

import (
	"github.com/wippyai/soprox-abi/internal/types"
)

type Kind = types.Kind

const (
	KindBool       = types.KindBool
	KindU8         = types.KindU8
	KindI8         = types.KindI8
	KindU16        = types.KindU16
	KindI16        = types.KindI16
	KindU32        = types.KindU32
	KindI32        = types.KindI32
	KindU64        = types.KindU64
	KindI64        = types.KindI64
	KindChar       = types.KindChar
	KindIdentifier = types.KindIdentifier
	KindArray      = types.KindArray
	KindTuple      = types.KindTuple
	KindStruct     = types.KindStruct
)

// Node is a compiled layout. Nodes are immutable and safe for concurrent use.
type Node = types.Node

// NodeField is a struct member of a Node with its relative offset.
type NodeField = types.Field

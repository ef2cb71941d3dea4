package codec

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"github.com/wippyai/soprox-abi/address"
	"github.com/wippyai/soprox-abi/codec/internal/abi"
	"github.com/wippyai/soprox-abi/errors"
	"github.com/wippyai/soprox-abi/internal/types"
)

// encodeScalar writes v into dst[:n.Width]. dst is zeroed by the caller, so
// a nil value leaves the default encoding in place.
func encodeScalar(dst []byte, n *Node, v any) error {
	if v == nil {
		return nil
	}
	switch n.Kind {
	case types.KindBool:
		b, ok := v.(bool)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), n.String())
		}
		if b {
			dst[0] = 1
		}
		return nil

	case types.KindU8, types.KindU16, types.KindU32, types.KindU64:
		u, numeric, ok := abi.CoerceUnsigned(v, abi.UnsignedMax(n.Width))
		if !numeric {
			return errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), n.String())
		}
		if !ok {
			return errors.OutOfRange(errors.PhaseEncode, nil, v, n.String())
		}
		putUint(dst, n.Width, u)
		return nil

	case types.KindI8, types.KindI16, types.KindI32, types.KindI64:
		lo, hi := abi.SignedRange(n.Width)
		i, numeric, ok := abi.CoerceSigned(v, lo, hi)
		if !numeric {
			return errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), n.String())
		}
		if !ok {
			return errors.OutOfRange(errors.PhaseEncode, nil, v, n.String())
		}
		putUint(dst, n.Width, uint64(i))
		return nil

	case types.KindChar:
		s, ok := v.(string)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), n.String())
		}
		if !utf8.ValidString(s) {
			return errors.InvalidUTF8(errors.PhaseEncode, nil, []byte(s))
		}
		if len(s) > n.Width {
			return errors.New(errors.PhaseEncode, errors.KindOutOfRange).
				Type(n.String()).
				Value(s).
				Detail("text is %d bytes, window is %d", len(s), n.Width).
				Build()
		}
		copy(dst, s)
		return nil

	case types.KindIdentifier:
		a, err := toAddress(v)
		if err != nil {
			return err
		}
		copy(dst, a[:])
		return nil
	}
	return errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), n.String())
}

func toAddress(v any) (address.Address, error) {
	switch x := v.(type) {
	case address.Address:
		return x, nil
	case *address.Address:
		if x == nil {
			return address.Zero, nil
		}
		return *x, nil
	case [address.Size]byte:
		return address.Address(x), nil
	case []byte:
		a, err := address.FromBytes(x)
		if err != nil {
			return a, errors.OutOfRange(errors.PhaseEncode, nil, len(x), "identifier")
		}
		return a, nil
	case string:
		a, err := address.Parse(x)
		if err != nil {
			return a, errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Type("identifier").
				Value(x).
				Cause(err).
				Detail("invalid address text").
				Build()
		}
		return a, nil
	}
	return address.Zero, errors.TypeMismatch(errors.PhaseEncode, nil, abi.TypeName(v), "identifier")
}

func putUint(dst []byte, width int, u uint64) {
	switch width {
	case 1:
		dst[0] = byte(u)
	case 2:
		binary.LittleEndian.PutUint16(dst, uint16(u))
	case 4:
		binary.LittleEndian.PutUint32(dst, uint32(u))
	case 8:
		binary.LittleEndian.PutUint64(dst, u)
	}
}

// decodeScalar reads src[:n.Width]. The caller guarantees the length.
func decodeScalar(src []byte, n *Node) (any, error) {
	switch n.Kind {
	case types.KindBool:
		return src[0] != 0, nil
	case types.KindU8:
		return src[0], nil
	case types.KindI8:
		return int8(src[0]), nil
	case types.KindU16:
		return binary.LittleEndian.Uint16(src), nil
	case types.KindI16:
		return int16(binary.LittleEndian.Uint16(src)), nil
	case types.KindU32:
		return binary.LittleEndian.Uint32(src), nil
	case types.KindI32:
		return int32(binary.LittleEndian.Uint32(src)), nil
	case types.KindU64:
		return binary.LittleEndian.Uint64(src), nil
	case types.KindI64:
		return int64(binary.LittleEndian.Uint64(src)), nil
	case types.KindChar:
		text := bytes.TrimRight(src[:n.Width], "\x00")
		if !utf8.Valid(text) {
			return nil, errors.InvalidUTF8(errors.PhaseDecode, nil, text)
		}
		return string(text), nil
	case types.KindIdentifier:
		var a address.Address
		copy(a[:], src[:address.Size])
		return a, nil
	}
	return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Type(n.String()).
		Detail("not a scalar").
		Build()
}

// scalarDefault is the value an absent scalar decodes to.
func scalarDefault(n *Node) any {
	switch n.Kind {
	case types.KindBool:
		return false
	case types.KindU8:
		return uint8(0)
	case types.KindI8:
		return int8(0)
	case types.KindU16:
		return uint16(0)
	case types.KindI16:
		return int16(0)
	case types.KindU32:
		return uint32(0)
	case types.KindI32:
		return int32(0)
	case types.KindU64:
		return uint64(0)
	case types.KindI64:
		return int64(0)
	case types.KindChar:
		return ""
	case types.KindIdentifier:
		return address.Zero
	}
	return nil
}

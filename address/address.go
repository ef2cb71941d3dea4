// Package address implements the 32-byte account identifier and its base58
// text form.
package address

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/wippyai/soprox-abi/errors"
)

// Size is the byte width of an address.
const Size = 32

// Address is an opaque 32-byte account identifier. The zero value is the
// sentinel address, whose text form is "11111111111111111111111111111111".
type Address [Size]byte

// Zero is the sentinel address used when a value is left unspecified.
var Zero Address

// Parse decodes a base58 address.
func Parse(s string) (Address, error) {
	var a Address
	raw, err := base58.Decode(s)
	if err != nil {
		return a, errors.New(errors.PhaseParse, errors.KindInvalidData).
			Type("identifier").
			Value(s).
			Cause(err).
			Detail("invalid base58 address %q", s).
			Build()
	}
	if len(raw) != Size {
		return a, errors.New(errors.PhaseParse, errors.KindOutOfRange).
			Type("identifier").
			Value(s).
			Detail("address %q decodes to %d bytes, want %d", s, len(raw), Size).
			Build()
	}
	copy(a[:], raw)
	return a, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromBytes copies a 32-byte slice into an address.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, errors.New(errors.PhaseParse, errors.KindOutOfRange).
			Type("identifier").
			Value(len(b)).
			Detail("address needs %d bytes, got %d", Size, len(b)).
			Build()
	}
	copy(a[:], b)
	return a, nil
}

// FromPublicKey returns the address of an ed25519 public key.
func FromPublicKey(pub ed25519.PublicKey) (Address, error) {
	return FromBytes(pub)
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw address.
func (a Address) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, a[:])
	return b
}

func (a Address) IsZero() bool {
	return a == Zero
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Format prints the base58 form for %s and %v, and hex for %x.
func (a Address) Format(f fmt.State, verb rune) {
	switch verb {
	case 'x':
		fmt.Fprintf(f, "%x", a[:])
	case 'X':
		fmt.Fprintf(f, "%X", a[:])
	case 'q':
		fmt.Fprintf(f, "%q", a.String())
	default:
		fmt.Fprint(f, a.String())
	}
}

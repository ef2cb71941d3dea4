package codec

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	soerrors "github.com/wippyai/soprox-abi/errors"
	"github.com/wippyai/soprox-abi/schema"
)

func tokenInstructions(t *testing.T) *InstructionSet {
	t.Helper()
	amount := MustCompile(schema.New(schema.Of("code", "u8"), schema.Of("amount", "u64")))
	return NewInstructionSet().
		MustAdd("initialize_token", 0, MustCompile(schema.New(
			schema.Of("code", "u8"),
			schema.Of("symbol", "[char;3]"),
			schema.Of("total_supply", "u64"),
			schema.Of("decimals", "u8"),
		))).
		MustAdd("initialize_account", 1, MustCompile(schema.New(schema.Of("code", "u8")))).
		MustAdd("transfer", 3, amount).
		MustAdd("approve", 4, amount).
		MustAdd("transfer_from", 5, amount).
		MustAdd("increase_approval", 6, amount).
		MustAdd("decrease_approval", 7, amount).
		MustAdd("revoke", 8, MustCompile(schema.New(schema.Of("code", "u8"))))
}

func TestInstructionSetEncode(t *testing.T) {
	set := tokenInstructions(t)
	tests := []struct {
		values map[string]any
		name   string
		want   []byte
	}{
		{map[string]any{"amount": 1000}, "transfer", []byte{3, 0xe8, 0x03, 0, 0, 0, 0, 0, 0}},
		{map[string]any{"code": 4, "amount": uint64(1)}, "approve", []byte{4, 1, 0, 0, 0, 0, 0, 0, 0}},
		{nil, "revoke", []byte{8}},
		{map[string]any{"symbol": []string{"S", "R", "C"}, "total_supply": 1, "decimals": 2}, "initialize_token",
			[]byte{0, 'S', 0, 0, 0, 'R', 0, 0, 0, 'C', 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := set.Encode(tt.name, tt.values)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode = %x, want %x", got, tt.want)
			}
			name, values, err := set.Decode(got)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if name != tt.name {
				t.Errorf("Decode name = %q, want %q", name, tt.name)
			}
			if values["code"] != got[0] {
				t.Errorf("decoded code = %v", values["code"])
			}
		})
	}
}

func TestInstructionSetDecodeValues(t *testing.T) {
	set := tokenInstructions(t)
	name, values, err := set.Decode([]byte{5, 0x10, 0x27, 0, 0, 0, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"code": uint8(5), "amount": uint64(10000)}
	if name != "transfer_from" || !reflect.DeepEqual(values, want) {
		t.Errorf("Decode = %q %v, want transfer_from %v", name, values, want)
	}
}

func TestInstructionSetErrors(t *testing.T) {
	set := tokenInstructions(t)

	t.Run("unknown name", func(t *testing.T) {
		_, err := set.Encode("mint", nil)
		if !errors.Is(err, soerrors.ErrNotFound) {
			t.Errorf("err = %v, want not_found", err)
		}
	})

	t.Run("selector mismatch", func(t *testing.T) {
		_, err := set.Encode("transfer", map[string]any{"code": 4})
		if !errors.Is(err, &soerrors.Error{Kind: soerrors.KindInvalidInput}) {
			t.Errorf("err = %v, want invalid_input", err)
		}
	})

	t.Run("empty data", func(t *testing.T) {
		_, _, err := set.Decode(nil)
		if !errors.Is(err, soerrors.ErrBufferTooShort) {
			t.Errorf("err = %v, want buffer_too_short", err)
		}
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, _, err := set.Decode([]byte{2})
		if !errors.Is(err, soerrors.ErrNotFound) {
			t.Errorf("err = %v, want not_found", err)
		}
	})

	t.Run("wrong size", func(t *testing.T) {
		_, _, err := set.Decode([]byte{3, 1, 2})
		var e *soerrors.Error
		if !errors.As(err, &e) || e.Kind != soerrors.KindBufferSizeMismatch {
			t.Fatalf("err = %v, want buffer_size_mismatch", err)
		}
		if soerrors.FormatPath(e.Path) != "transfer" {
			t.Errorf("path = %v, want transfer", e.Path)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := set.Add("transfer", 9, MustCompile(schema.New(schema.Of("code", "u8"))))
		if !errors.Is(err, soerrors.ErrDuplicateField) {
			t.Errorf("err = %v, want duplicate_field", err)
		}
	})

	t.Run("duplicate tag", func(t *testing.T) {
		err := set.Add("burn", 3, MustCompile(schema.New(schema.Of("code", "u8"))))
		if !errors.Is(err, soerrors.ErrDuplicateField) {
			t.Errorf("err = %v, want duplicate_field", err)
		}
	})

	t.Run("no selector", func(t *testing.T) {
		err := set.Add("burn", 9, MustCompile(schema.New(schema.Of("amount", "u64"))))
		if !errors.Is(err, soerrors.ErrSchemaSyntax) {
			t.Errorf("err = %v, want schema_syntax", err)
		}
		if _, ok := set.Layout("burn"); ok {
			t.Error("rejected layout must not be registered")
		}
	})

	want := []string{"initialize_token", "initialize_account", "transfer", "approve",
		"transfer_from", "increase_approval", "decrease_approval", "revoke"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v", got)
	}
}

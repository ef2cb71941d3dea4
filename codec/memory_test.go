package codec

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	soproxabi "github.com/wippyai/soprox-abi"
	soerrors "github.com/wippyai/soprox-abi/errors"
)

func TestLayoutMemory(t *testing.T) {
	l := MustCompile(tokenSchema)
	mem := make(soproxabi.Buffer, 64)
	values := map[string]any{"total_supply": uint64(77), "decimals": uint8(3), "initialized": true}

	if err := l.EncodeToMemory(values, 16, mem); err != nil {
		t.Fatalf("EncodeToMemory: %v", err)
	}
	if !bytes.Equal(mem[:16], make([]byte, 16)) || !bytes.Equal(mem[26:], make([]byte, 38)) {
		t.Error("bytes outside the record were touched")
	}
	got, err := l.DecodeFromMemory(16, mem)
	if err != nil {
		t.Fatalf("DecodeFromMemory: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Errorf("got %v, want %v", got, values)
	}
}

func TestLayoutMemoryErrors(t *testing.T) {
	l := MustCompile(tokenSchema)
	mem := make(soproxabi.Buffer, 12)

	t.Run("write past end", func(t *testing.T) {
		err := l.EncodeToMemory(nil, 4, mem)
		if !errors.Is(err, &soerrors.Error{Phase: soerrors.PhaseEncode, Kind: soerrors.KindOutOfBounds}) {
			t.Errorf("err = %v, want encode out_of_bounds", err)
		}
	})

	t.Run("encode failure writes nothing", func(t *testing.T) {
		mem := soproxabi.Buffer(bytes.Repeat([]byte{0xaa}, 12))
		err := l.EncodeToMemory(map[string]any{"decimals": -1}, 0, mem)
		if !errors.Is(err, soerrors.ErrOutOfRange) {
			t.Errorf("err = %v, want out_of_range", err)
		}
		if !bytes.Equal(mem, bytes.Repeat([]byte{0xaa}, 12)) {
			t.Error("memory modified on encode failure")
		}
	})

	t.Run("read past end", func(t *testing.T) {
		_, err := l.DecodeFromMemory(3, mem)
		if !errors.Is(err, &soerrors.Error{Phase: soerrors.PhaseDecode, Kind: soerrors.KindOutOfBounds}) {
			t.Errorf("err = %v, want decode out_of_bounds", err)
		}
	})
}

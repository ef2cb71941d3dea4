package codec

import (
	"bytes"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/wippyai/soprox-abi/address"
	soerrors "github.com/wippyai/soprox-abi/errors"
	"github.com/wippyai/soprox-abi/schema"
)

var tokenSchema = schema.New(
	schema.Of("total_supply", "u64"),
	schema.Of("decimals", "u8"),
	schema.Of("initialized", "bool"),
)

var accountSchema = schema.New(
	schema.Of("owner", "pub"),
	schema.Of("amount", "u64"),
	schema.Of("memo", "char(8)"),
	schema.Nested("meta",
		schema.Of("flags", "[bool;4]"),
		schema.Of("pair", "(u8;i16)"),
		schema.Nested("limits", schema.Of("lo", "i32"), schema.Of("hi", "i32")),
	),
	schema.Of("history", "[u16;3]"),
)

func TestLayoutSpace(t *testing.T) {
	tests := []struct {
		name   string
		schema schema.Schema
		want   int
	}{
		{"u8 u32 bool", schema.New(schema.Of("a", "u8"), schema.Of("b", "u32"), schema.Of("c", "bool")), 6},
		{"nested", schema.New(schema.Of("a", "u8"), schema.Nested("b", schema.Of("c", "u16"), schema.Of("d", "u16"))), 5},
		{"token", tokenSchema, 10},
		{"account", accountSchema, 32 + 8 + 8 + (4 + 3 + 8) + 6},
		{"empty", schema.New(), 0},
		{"empty nested", schema.New(schema.Nested("a")), 0},
		{"default char", schema.New(schema.Of("t", "char")), 4},
		{"identifiers", schema.New(schema.Of("keys", "[identifier;3]")), 96},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compile(tt.schema)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			if l.Space() != tt.want {
				t.Errorf("Space() = %d, want %d", l.Space(), tt.want)
			}
			buf, err := l.Encode(l.Zero())
			if err != nil {
				t.Fatalf("Encode(Zero()): %v", err)
			}
			if len(buf) != tt.want {
				t.Errorf("len(Encode(Zero())) = %d, want %d", len(buf), tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		schema schema.Schema
		kind   soerrors.Kind
		path   string
	}{
		{"duplicate key", schema.New(schema.Of("a", "u8"), schema.Of("a", "u16")), soerrors.KindDuplicateField, "a"},
		{"duplicate nested key", schema.New(schema.Nested("n", schema.Of("x", "u8"), schema.Of("x", "u8"))), soerrors.KindDuplicateField, "n.x"},
		{"unknown scalar", schema.New(schema.Field{Key: "a", Type: schema.Scalar{Name: "u128"}}), soerrors.KindUnknownType, "a"},
		{"unknown array elem", schema.New(schema.Field{Key: "a", Type: schema.ArrayOf(schema.Scalar{Name: "f32"}, 2)}), soerrors.KindUnknownType, "a"},
		{"zero length array", schema.New(schema.Field{Key: "a", Type: schema.ArrayOf(schema.U8, 0)}), soerrors.KindSchemaSyntax, "a"},
		{"empty tuple", schema.New(schema.Field{Key: "a", Type: schema.TupleOf()}), soerrors.KindSchemaSyntax, "a"},
		{"bad tuple elem", schema.New(schema.Field{Key: "a", Type: schema.TupleOf(schema.U8, schema.Scalar{Name: "x"})}), soerrors.KindUnknownType, "a[1]"},
		{"nil type", schema.New(schema.Field{Key: "a"}), soerrors.KindSchemaSyntax, "a"},
		{"empty key", schema.New(schema.Field{Type: schema.U8}), soerrors.KindSchemaSyntax, ""},
		{"width on integer", schema.New(schema.Field{Key: "a", Type: schema.Scalar{Name: "u8", Width: 4}}), soerrors.KindSchemaSyntax, "a"},
		{"negative char width", schema.New(schema.Field{Key: "a", Type: schema.Char(-1)}), soerrors.KindSchemaSyntax, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Compile(tt.schema)
			if l != nil {
				t.Error("expected nil layout on error")
			}
			var e *soerrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("err = %v, want *errors.Error", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %v, want %v (%v)", e.Kind, tt.kind, err)
			}
			if got := soerrors.FormatPath(e.Path); got != tt.path {
				t.Errorf("path = %q, want %q", got, tt.path)
			}
		})
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	owner := address.MustParse("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	tests := []struct {
		values map[string]any
		name   string
		schema schema.Schema
	}{
		{
			name:   "token",
			schema: tokenSchema,
			values: map[string]any{"total_supply": uint64(5_000_000_000), "decimals": uint8(9), "initialized": true},
		},
		{
			name: "nested",
			schema: schema.New(
				schema.Of("a", "u8"),
				schema.Nested("b", schema.Of("c", "u16"), schema.Of("d", "u16")),
			),
			values: map[string]any{"a": uint8(1), "b": map[string]any{"c": uint16(2), "d": uint16(65535)}},
		},
		{
			name:   "account",
			schema: accountSchema,
			values: map[string]any{
				"owner":  owner,
				"amount": uint64(42),
				"memo":   "gm",
				"meta": map[string]any{
					"flags":  []any{true, false, true, true},
					"pair":   []any{uint8(200), int16(-300)},
					"limits": map[string]any{"lo": int32(-5), "hi": int32(1 << 30)},
				},
				"history": []any{uint16(1), uint16(2), uint16(3)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := MustCompile(tt.schema)
			buf, err := l.Encode(tt.values)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if len(buf) != l.Space() {
				t.Fatalf("len = %d, want %d", len(buf), l.Space())
			}
			got, err := l.Decode(buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, tt.values) {
				t.Errorf("round trip mismatch\n got: %#v\nwant: %#v", got, tt.values)
			}
		})
	}
}

func TestLayoutTokenBytes(t *testing.T) {
	l := MustCompile(tokenSchema)
	buf, err := l.Encode(map[string]any{"total_supply": 1000, "decimals": 2, "initialized": true})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xe8, 0x03, 0, 0, 0, 0, 0, 0, 0x02, 0x01}
	if !bytes.Equal(buf, want) {
		t.Errorf("Encode = %x, want %x", buf, want)
	}
}

func TestLayoutEncodeDefaults(t *testing.T) {
	l := MustCompile(tokenSchema)
	buf, err := l.Encode(map[string]any{"decimals": uint8(6), "total_supply": nil, "unused": "ignored"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := l.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"total_supply": uint64(0), "decimals": uint8(6), "initialized": false}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLayoutZero(t *testing.T) {
	l := MustCompile(accountSchema)
	zero := l.Zero()
	buf, err := l.Encode(zero)
	if err != nil {
		t.Fatalf("Encode(Zero()): %v", err)
	}
	if !bytes.Equal(buf, make([]byte, l.Space())) {
		t.Errorf("Encode(Zero()) = %x, want all zeros", buf)
	}
	back, err := l.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, zero) {
		t.Errorf("Decode(zeros) = %v, want %v", back, zero)
	}
	if zero["owner"] != address.Zero {
		t.Errorf("owner default = %v", zero["owner"])
	}
}

func TestLayoutEncodeErrors(t *testing.T) {
	l := MustCompile(accountSchema)
	valid := func() map[string]any {
		return map[string]any{
			"meta": map[string]any{
				"flags":  []bool{true, true, false, false},
				"pair":   []any{1, 2},
				"limits": map[string]any{},
			},
			"history": []uint16{1, 2, 3},
		}
	}

	if _, err := l.Encode(valid()); err != nil {
		t.Fatalf("valid values rejected: %v", err)
	}

	tests := []struct {
		mutate func(map[string]any)
		name   string
		kind   soerrors.Kind
		path   string
	}{
		{func(m map[string]any) { delete(m, "meta") }, "missing nested struct", soerrors.KindFieldMissing, "meta"},
		{func(m map[string]any) { m["meta"] = nil }, "nil nested struct", soerrors.KindFieldMissing, "meta"},
		{func(m map[string]any) { delete(m, "history") }, "missing array", soerrors.KindFieldMissing, "history"},
		{func(m map[string]any) { delete(m["meta"].(map[string]any), "pair") }, "missing tuple", soerrors.KindFieldMissing, "meta.pair"},
		{func(m map[string]any) { m["history"] = []any{1, 2} }, "short array", soerrors.KindLengthMismatch, "history"},
		{func(m map[string]any) { m["history"] = []any{1, 2, 3, 4} }, "long array", soerrors.KindLengthMismatch, "history"},
		{func(m map[string]any) { m["meta"].(map[string]any)["pair"] = []any{1} }, "short tuple", soerrors.KindLengthMismatch, "meta.pair"},
		{func(m map[string]any) { m["history"] = []any{1, 70000, 3} }, "array element range", soerrors.KindOutOfRange, "history[1]"},
		{func(m map[string]any) { m["meta"].(map[string]any)["pair"] = []any{1, 40000} }, "tuple element range", soerrors.KindOutOfRange, "meta.pair[1]"},
		{func(m map[string]any) { m["meta"].(map[string]any)["limits"] = map[string]any{"hi": "x"} }, "deep type", soerrors.KindTypeMismatch, "meta.limits.hi"},
		{func(m map[string]any) { m["history"] = "123" }, "array not list", soerrors.KindTypeMismatch, "history"},
		{func(m map[string]any) { m["meta"] = []any{} }, "struct not map", soerrors.KindTypeMismatch, "meta"},
		{func(m map[string]any) { m["memo"] = "way too long" }, "text window", soerrors.KindOutOfRange, "memo"},
		{func(m map[string]any) { m["amount"] = -1 }, "negative amount", soerrors.KindOutOfRange, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := valid()
			tt.mutate(values)
			buf, err := l.Encode(values)
			if buf != nil {
				t.Error("expected no output on error")
			}
			var e *soerrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("err = %v, want *errors.Error", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind = %v, want %v (%v)", e.Kind, tt.kind, err)
			}
			if got := soerrors.FormatPath(e.Path); got != tt.path {
				t.Errorf("path = %q, want %q", got, tt.path)
			}
		})
	}
}

func TestLayoutEncodeToClearsOnError(t *testing.T) {
	l := MustCompile(tokenSchema)
	dst := bytes.Repeat([]byte{0xaa}, 12)
	err := l.EncodeTo(dst, map[string]any{"total_supply": 7, "decimals": 999})
	if !errors.Is(err, soerrors.ErrOutOfRange) {
		t.Fatalf("err = %v, want out_of_range", err)
	}
	if !bytes.Equal(dst[:10], make([]byte, 10)) {
		t.Errorf("dst[:10] = %x, want zeros", dst[:10])
	}
	if dst[10] != 0xaa || dst[11] != 0xaa {
		t.Error("bytes past the layout must not be touched")
	}
	if err := l.EncodeTo(dst[:9], nil); !errors.Is(err, soerrors.ErrBufferTooShort) {
		t.Errorf("short dst err = %v, want buffer_too_short", err)
	}
}

func TestLayoutDecodeSizeMismatch(t *testing.T) {
	l := MustCompile(tokenSchema)
	for _, n := range []int{0, 9, 11, 64} {
		_, err := l.Decode(make([]byte, n))
		if !errors.Is(err, soerrors.ErrBufferSizeMismatch) {
			t.Errorf("Decode(%d bytes) err = %v, want buffer_size_mismatch", n, err)
		}
	}
	if _, err := Decode(l.Root(), make([]byte, 11)); !errors.Is(err, soerrors.ErrBufferSizeMismatch) {
		t.Errorf("Decode(root) err = %v, want buffer_size_mismatch", err)
	}
}

func TestLayoutDecodeNestedError(t *testing.T) {
	l := MustCompile(schema.New(schema.Of("a", "u8"), schema.Nested("b", schema.Of("label", "char"))))
	_, err := l.Decode([]byte{1, 0xff, 0xff, 0, 0})
	var e *soerrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("err = %v", err)
	}
	if e.Kind != soerrors.KindInvalidUTF8 || soerrors.FormatPath(e.Path) != "b.label" {
		t.Errorf("err = %v, want invalid_utf8 at b.label", err)
	}
}

func TestLayoutFields(t *testing.T) {
	l := MustCompile(accountSchema)
	want := []FieldInfo{
		{Path: "owner", Type: "identifier", Offset: 0, Space: 32, Kind: KindIdentifier},
		{Path: "amount", Type: "u64", Offset: 32, Space: 8, Kind: KindU64},
		{Path: "memo", Type: "char(8)", Offset: 40, Space: 8, Kind: KindChar},
		{Path: "meta", Type: "{flags:[bool;4];pair:(u8;i16);limits:{lo:i32;hi:i32}}", Offset: 48, Space: 15, Kind: KindStruct},
		{Path: "meta.flags", Type: "[bool;4]", Offset: 48, Space: 4, Depth: 1, Kind: KindArray},
		{Path: "meta.pair", Type: "(u8;i16)", Offset: 52, Space: 3, Depth: 1, Kind: KindTuple},
		{Path: "meta.limits", Type: "{lo:i32;hi:i32}", Offset: 55, Space: 8, Depth: 1, Kind: KindStruct},
		{Path: "meta.limits.lo", Type: "i32", Offset: 55, Space: 4, Depth: 2, Kind: KindI32},
		{Path: "meta.limits.hi", Type: "i32", Offset: 59, Space: 4, Depth: 2, Kind: KindI32},
		{Path: "history", Type: "[u16;3]", Offset: 63, Space: 6, Kind: KindArray},
	}
	if got := l.Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() =\n%#v\nwant\n%#v", got, want)
	}
}

func TestLayoutLookup(t *testing.T) {
	l := MustCompile(accountSchema)
	n, off, err := l.Lookup("meta", "limits", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if off != 59 || n.Kind != KindI32 {
		t.Errorf("Lookup = %v at %d", n, off)
	}

	n, off, err = l.Lookup()
	if err != nil || n != l.Root() || off != 0 {
		t.Errorf("Lookup() = %v, %d, %v", n, off, err)
	}

	for _, path := range [][]string{{"nope"}, {"amount", "x"}, {"meta", "nope"}} {
		if _, _, err := l.Lookup(path...); !errors.Is(err, soerrors.ErrNotFound) {
			t.Errorf("Lookup(%v) err = %v, want not_found", path, err)
		}
	}
}

func TestLayoutDecodeField(t *testing.T) {
	l := MustCompile(accountSchema)
	values := map[string]any{
		"amount":  uint64(99),
		"meta":    map[string]any{"flags": []any{true, true, true, true}, "pair": []any{3, 4}, "limits": map[string]any{"hi": int32(-7)}},
		"history": []any{7, 8, 9},
	}
	buf, err := l.Encode(values)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		want any
		path []string
	}{
		{uint64(99), []string{"amount"}},
		{int32(-7), []string{"meta", "limits", "hi"}},
		{[]any{uint16(7), uint16(8), uint16(9)}, []string{"history"}},
		{map[string]any{"lo": int32(0), "hi": int32(-7)}, []string{"meta", "limits"}},
	}
	for _, tt := range tests {
		got, err := l.DecodeField(buf, tt.path...)
		if err != nil {
			t.Fatalf("DecodeField(%v): %v", tt.path, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DecodeField(%v) = %#v, want %#v", tt.path, got, tt.want)
		}
	}
	if _, err := l.DecodeField(buf[:10], "amount"); !errors.Is(err, soerrors.ErrBufferSizeMismatch) {
		t.Errorf("short buffer err = %v", err)
	}
}

func TestLayoutTypedValues(t *testing.T) {
	type flags [4]bool
	l := MustCompile(schema.New(
		schema.Of("flags", "[bool;4]"),
		schema.Of("raw", "[u8;4]"),
		schema.Of("keys", "[identifier;2]"),
		schema.Nested("inner", schema.Of("v", "u32")),
	))
	values := map[string]any{
		"flags": flags{true, false, false, true},
		"raw":   []byte{1, 2, 3, 4},
		"keys":  []address.Address{address.Zero, address.Zero},
		"inner": map[string]uint32{"v": 5},
	}
	buf, err := l.Encode(values)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := l.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got["raw"], []any{uint8(1), uint8(2), uint8(3), uint8(4)}) {
		t.Errorf("raw = %v", got["raw"])
	}
	if !reflect.DeepEqual(got["inner"], map[string]any{"v": uint32(5)}) {
		t.Errorf("inner = %v", got["inner"])
	}
}

func TestLayoutConcurrent(t *testing.T) {
	l := MustCompile(tokenSchema)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			values := map[string]any{"total_supply": uint64(i), "decimals": uint8(i), "initialized": i%2 == 0}
			for j := 0; j < 100; j++ {
				buf, err := l.Encode(values)
				if err != nil {
					t.Error(err)
					return
				}
				got, err := l.Decode(buf)
				if err != nil {
					t.Error(err)
					return
				}
				if !reflect.DeepEqual(got, values) {
					t.Errorf("goroutine %d: got %v", i, got)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestTypeCache(t *testing.T) {
	c := NewCompiler()
	a, err := c.Type("[u8;3]")
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Type("[u8;3]")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected cached node")
	}
	if _, err := c.Type("[u8;"); !errors.Is(err, soerrors.ErrSchemaSyntax) {
		t.Errorf("err = %v, want schema_syntax", err)
	}
}

package codec

import (
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/soprox-abi/schema"
)

func TestWITType(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"bool", "bool"},
		{"u8", "u8"},
		{"i8", "s8"},
		{"u64", "u64"},
		{"i32", "s32"},
		{"char(16)", "string"},
		{"identifier", "list<u8>"},
		{"[u16;4]", "list<u16>"},
		{"(u8;i64;bool)", "tuple<u8, s64, bool>"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := witTypeString(WITType(MustType(tt.desc))); got != tt.want {
				t.Errorf("WITType(%s) = %s, want %s", tt.desc, got, tt.want)
			}
		})
	}
}

func TestWITRecord(t *testing.T) {
	l := MustCompile(schema.New(
		schema.Of("owner", "pub"),
		schema.Of("totalSupply", "u64"),
		schema.Nested("meta_data", schema.Of("flags", "[bool;2]"), schema.Of("label", "char")),
	))
	td := l.WITRecord("token_account")
	if td.Name == nil || *td.Name != "token-account" {
		t.Fatalf("record name = %v", td.Name)
	}
	rec, ok := td.Kind.(*wit.Record)
	if !ok || len(rec.Fields) != 3 {
		t.Fatalf("kind = %T", td.Kind)
	}
	if rec.Fields[1].Name != "total-supply" {
		t.Errorf("field name = %q", rec.Fields[1].Name)
	}

	want := `record token-account-meta-data {
    flags: list<bool>,
    label: string,
}
record token-account {
    owner: list<u8>,
    total-supply: u64,
    meta-data: token-account-meta-data,
}`
	if got := FormatWIT(td); got != want {
		t.Errorf("FormatWIT =\n%s\nwant\n%s", got, want)
	}
}

func TestKebab(t *testing.T) {
	tests := map[string]string{
		"amount":       "amount",
		"total_supply": "total-supply",
		"totalSupply":  "total-supply",
		"Owner":        "owner",
	}
	for in, want := range tests {
		if got := kebab(in); got != want {
			t.Errorf("kebab(%q) = %q, want %q", in, got, want)
		}
	}
}

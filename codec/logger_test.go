package codec

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/soprox-abi/schema"
)

func TestLoggerDefault(t *testing.T) {
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
}

func TestCompileLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	MustCompile(schema.New(schema.Of("a", "u8"), schema.Nested("b", schema.Of("c", "u16"))))

	entries := logs.FilterMessage("compiled schema").All()
	if len(entries) != 1 {
		t.Fatalf("got %d compile entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["space"] != int64(3) || fields["fields"] != int64(3) || fields["depth"] != int64(2) {
		t.Errorf("fields = %v", fields)
	}

	c := NewCompiler()
	c.Type("u32")
	c.Type("u32")
	if n := logs.FilterMessage("descriptor cache hit").Len(); n != 1 {
		t.Errorf("cache hit entries = %d, want 1", n)
	}
}

func TestSetLoggerNil(t *testing.T) {
	prev := Logger()
	defer SetLogger(prev)
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("SetLogger(nil) left a nil logger")
	}
}

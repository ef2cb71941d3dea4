package program

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/soprox-abi/errors"
)

const (
	DefaultEntrypoint = "process"
	DefaultDataOffset = 1024

	hostModule = "env"
	memoryName = "memory"
)

// Config holds configuration for host creation
type Config struct {
	// Entrypoint is the export Invoke calls. Empty means "process".
	Entrypoint string

	// MemoryLimitPages caps guest memory in 64KB pages. 0 means no limit
	// beyond the wasm maximum.
	MemoryLimitPages uint32

	// DataOffset is where the account table starts in guest memory.
	// 0 means 1024.
	DataOffset uint32
}

func (c *Config) withDefaults() Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.Entrypoint == "" {
		out.Entrypoint = DefaultEntrypoint
	}
	if out.DataOffset == 0 {
		out.DataOffset = DefaultDataOffset
	}
	return out
}

// Host runs instruction processors compiled to wasm. It owns one wazero
// runtime with the env host module registered.
type Host struct {
	runtime wazero.Runtime
	cfg     Config
	mu      sync.Mutex
	closed  bool
}

// New creates a host. A nil cfg uses defaults.
func New(ctx context.Context, cfg *Config) (*Host, error) {
	c := cfg.withDefaults()
	runtimeCfg := wazero.NewRuntimeConfig()
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	_, err := runtime.NewHostModuleBuilder(hostModule).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(guestLog),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil).
		Export("log").
		Instantiate(ctx)
	if err != nil {
		runtime.Close(ctx)
		return nil, errors.Instantiation(err)
	}
	return &Host{runtime: runtime, cfg: c}, nil
}

// guestLog implements env.log(ptr, len).
func guestLog(_ context.Context, mod api.Module, stack []uint64) {
	ptr, n := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
	msg, ok := mod.Memory().Read(ptr, n)
	if !ok {
		Logger().Warn("program log out of bounds", zap.Uint32("ptr", ptr), zap.Uint32("len", n))
		return
	}
	Logger().Info("program log", zap.String("msg", string(msg)))
}

// Close releases the runtime and every program loaded into it.
func (h *Host) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.runtime.Close(ctx)
}

// Load compiles a program and checks that it exports memory and the
// configured entrypoint.
func (h *Host) Load(ctx context.Context, wasm []byte) (*Program, error) {
	compiled, err := h.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile program", err)
	}
	if _, ok := compiled.ExportedMemories()[memoryName]; !ok {
		compiled.Close(ctx)
		return nil, errors.InvalidInput(errors.PhaseLoad, "program does not export memory")
	}
	p := &Program{host: h, compiled: compiled}
	if err := p.checkEntry(errors.PhaseLoad, h.cfg.Entrypoint); err != nil {
		compiled.Close(ctx)
		return nil, err
	}
	return p, nil
}

// Program is a compiled instruction processor. Every call runs in a fresh
// instance, so a Program is safe for concurrent use.
type Program struct {
	host     *Host
	compiled wazero.CompiledModule
}

// checkEntry verifies that name is exported as
// (i32 accounts_ptr, i32 accounts_len, i32 data_ptr, i32 data_len) -> i32.
func (p *Program) checkEntry(phase errors.Phase, name string) error {
	def, ok := p.compiled.ExportedFunctions()[name]
	if !ok {
		return errors.New(phase, errors.KindInvalidInput).
			Value(name).
			Detail("program does not export %q", name).
			Build()
	}
	params, results := def.ParamTypes(), def.ResultTypes()
	valid := len(params) == 4 && len(results) == 1 && results[0] == api.ValueTypeI32
	for _, t := range params {
		valid = valid && t == api.ValueTypeI32
	}
	if !valid {
		return errors.New(phase, errors.KindInvalidInput).
			Value(name).
			Detail("%s has signature %s, want (i32, i32, i32, i32) -> i32", name, signature(params, results)).
			Build()
	}
	return nil
}

func signature(params, results []api.ValueType) string {
	names := func(ts []api.ValueType) string {
		s := ""
		for i, t := range ts {
			if i > 0 {
				s += ", "
			}
			s += api.ValueTypeName(t)
		}
		return s
	}
	return fmt.Sprintf("(%s) -> (%s)", names(params), names(results))
}

// Invoke calls the configured entrypoint.
func (p *Program) Invoke(ctx context.Context, instruction []byte, accounts ...*Account) error {
	return p.Call(ctx, p.host.cfg.Entrypoint, instruction, accounts...)
}

// Call runs entry against instruction data and accounts. On success the
// data of writable accounts is replaced with what the program left in
// memory. On any failure no account is modified.
func (p *Program) Call(ctx context.Context, entry string, instruction []byte, accounts ...*Account) error {
	if err := p.checkEntry(errors.PhaseRuntime, entry); err != nil {
		return err
	}

	mod, err := p.host.runtime.InstantiateModule(ctx, p.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return errors.Instantiation(err)
	}
	defer mod.Close(ctx)

	mem := &Memory{mem: mod.Memory()}
	f := plan(p.host.cfg.DataOffset, instruction, accounts)
	if err := f.write(mem, instruction, accounts); err != nil {
		return err
	}

	Logger().Debug("invoke program",
		zap.String("entry", entry),
		zap.Int("accounts", len(accounts)),
		zap.Int("instruction_len", len(instruction)),
	)

	res, err := mod.ExportedFunction(entry).Call(ctx,
		api.EncodeU32(f.table), api.EncodeU32(uint32(f.accounts)),
		api.EncodeU32(f.data), api.EncodeU32(uint32(len(instruction))))
	if err != nil {
		return errors.Wrap(errors.PhaseRuntime, errors.KindProgramFailed, err, entry+" trapped")
	}

	code := api.DecodeU32(res[0])
	Logger().Debug("program returned", zap.String("entry", entry), zap.Uint32("code", code))
	if code != 0 {
		Logger().Warn("program failed", zap.String("entry", entry), zap.Uint32("code", code))
		return errors.ProgramFailed(entry, code)
	}

	updated, err := f.collect(mem, accounts)
	if err != nil {
		return err
	}
	for i, data := range updated {
		if data != nil {
			copy(accounts[i].Data, data)
		}
	}
	return nil
}

// Close releases the compiled module.
func (p *Program) Close(ctx context.Context) error {
	return p.compiled.Close(ctx)
}

// ExitCode extracts the program's return code from a program_failed error.
// It reports false for traps and for any other error.
func ExitCode(err error) (uint32, bool) {
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindProgramFailed {
		return 0, false
	}
	code, ok := e.Value.(uint32)
	return code, ok
}

func allocationError(size uint64) error {
	return errors.AllocationFailed(errors.PhaseRuntime, uint32(min(size, 1<<32-1)))
}

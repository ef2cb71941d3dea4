package program

import (
	"github.com/wippyai/soprox-abi/address"
	"github.com/wippyai/soprox-abi/codec"
	"github.com/wippyai/soprox-abi/schema"
)

// Account is one account handed to a program. Data of writable accounts is
// replaced with the guest's copy after a successful call.
type Account struct {
	Data     []byte
	Address  address.Address
	Writable bool
}

// accountLayout is the table entry the guest sees for each account.
var accountLayout = codec.MustCompile(schema.New(
	schema.Of("address", "identifier"),
	schema.Of("data_ptr", "u32"),
	schema.Of("data_len", "u32"),
	schema.Of("writable", "bool"),
))

// AccountLayout returns the layout of one account table entry.
func AccountLayout() *codec.Layout {
	return accountLayout
}

// frame is the placement of one call's inputs in guest memory.
type frame struct {
	regions  []uint32
	table    uint32
	data     uint32
	end      uint64
	accounts int
}

func align8(v uint64) uint64 {
	return (v + 7) &^ 7
}

// plan lays out the account table at base, each account's data region after
// it, then the instruction data. Regions start on 8-byte boundaries.
func plan(base uint32, instruction []byte, accounts []*Account) frame {
	f := frame{table: base, accounts: len(accounts), regions: make([]uint32, len(accounts))}
	cur := align8(uint64(base) + uint64(accountLayout.Space()*len(accounts)))
	for i, acc := range accounts {
		f.regions[i] = uint32(cur)
		cur = align8(cur + uint64(len(acc.Data)))
	}
	f.data = uint32(cur)
	f.end = cur + uint64(len(instruction))
	return f
}

// write copies the table, account data and instruction into mem.
func (f frame) write(mem *Memory, instruction []byte, accounts []*Account) error {
	if f.end > 1<<32-1 {
		return allocationError(f.end)
	}
	if err := mem.ensure(f.end); err != nil {
		return err
	}
	space := uint32(accountLayout.Space())
	for i, acc := range accounts {
		entry := map[string]any{
			"address":  acc.Address,
			"data_ptr": f.regions[i],
			"data_len": uint32(len(acc.Data)),
			"writable": acc.Writable,
		}
		if err := accountLayout.EncodeToMemory(entry, f.table+uint32(i)*space, mem); err != nil {
			return err
		}
		if err := mem.Write(f.regions[i], acc.Data); err != nil {
			return err
		}
	}
	return mem.Write(f.data, instruction)
}

// collect reads back the data regions of writable accounts. Nothing is
// applied until every region has been read.
func (f frame) collect(mem *Memory, accounts []*Account) ([][]byte, error) {
	out := make([][]byte, len(accounts))
	for i, acc := range accounts {
		if !acc.Writable {
			continue
		}
		data, err := mem.Read(f.regions[i], uint32(len(acc.Data)))
		if err != nil {
			return nil, err
		}
		out[i] = append([]byte(nil), data...)
	}
	return out, nil
}

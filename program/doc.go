// Package program runs instruction processors compiled to wasm against
// encoded instruction data and account regions, using wazero.
//
// A program exports memory and an entrypoint (default "process"):
//
//	process(accounts_ptr, accounts_len, data_ptr, data_len i32) -> i32
//
// Before each call the host writes, starting at Config.DataOffset:
//
//	accounts_len × 41-byte entries   {address identifier, data_ptr u32, data_len u32, writable bool}
//	account data regions             8-byte aligned, in account order
//	instruction data                 8-byte aligned
//
// Entries are encoded with AccountLayout. A zero return is success and the
// data regions of writable accounts are copied back. A nonzero return is a
// program_failed error whose code ExitCode recovers.
//
// The host module "env" provides log(ptr, len), which forwards guest text
// to the package logger.
package program

// Package cpu implements the instruction decoder and execution engine of a
// toy RV32I interpreter.
//
// The CPU consists of thirty-two signed 32-bit registers (x0-x31) and
// executes one textual instruction at a time. The supported subset is add,
// sub, mul, sll and addi; slt, sltu, xor, srl, sra, or and and are decoded
// but rejected with ErrUnsupportedOpcode.
//
// Unlike real RISC-V hardware, x0 is an ordinary writable register unless
// Cpu.ZeroWired is set.
package cpu

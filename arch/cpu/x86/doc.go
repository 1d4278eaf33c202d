// Package x86 decodes and interprets the Intel 8086/8088 instruction set well
// enough to run compiled MINIX a.out programs in real mode.
//
// The package is split into four layers, leaves first:
//
//   - an operand model (Register, Addressing, Displacement, Immediate, Mnemonic)
//     of pure value types with their own rendering rules;
//   - a stateless Decoder that turns a byte stream into Instruction values,
//     one ModR/M-aware opcode at a time;
//   - CPU state (registers, flags, stack, sparse memory);
//   - an Interpreter that dispatches on decoded instructions, mutates CPU
//     state and emits one TraceEvent per executed instruction.
//
// Decode and execute are independent: Decode never touches CPU state, and
// the Interpreter re-enters Decode at every new instruction pointer. A
// Disassembler reuses the same Instruction values to print the text a
// debugger would show, so "what Decode returns" and "what gets printed" are
// the same contract.
package x86

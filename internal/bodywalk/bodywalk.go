// Package bodywalk decodes a function body's instructions and hands them,
// in order, to one visitor. Each Walk call decodes the body itself:
// callgraph and memprofile each call Walk with their own visitor, so a
// body is decoded once per pass rather than once overall.
package bodywalk

import (
	"github.com/wasmlens/wasmlens/wasm"
)

// Visitor is notified of each decoded instruction in a function body, in
// order, along with the byte offset (relative to the body's code bytes)
// at which the instruction's opcode appeared.
type Visitor func(instr wasm.Instruction, offset int)

// Walk decodes code and invokes visit for every instruction in order. It
// returns the decode error (if any) from wasm.DecodeInstructions verbatim;
// a malformed body is surfaced to the caller rather than silently
// truncated, so each observer can decide how to report it.
func Walk(code []byte, visit Visitor) error {
	instrs, err := wasm.DecodeInstructions(code)
	if err != nil {
		return err
	}
	offset := 0
	for _, instr := range instrs {
		visit(instr, offset)
		offset += instructionSize(instr)
	}
	return nil
}

// instructionSize returns a rough encoded size for offset bookkeeping. It
// does not need to be exact: offsets are used for diagnostics, not for
// re-seeking into the byte stream.
func instructionSize(instr wasm.Instruction) int {
	size := 1 // opcode byte
	switch imm := instr.Imm.(type) {
	case wasm.CallImm:
		size += leb(uint64(imm.FuncIdx))
	case wasm.CallIndirectImm:
		size += leb(uint64(imm.TypeIdx)) + leb(uint64(imm.TableIdx))
	case wasm.MemoryImm:
		size += leb(uint64(imm.Align)) + leb(imm.Offset)
	case wasm.MemoryIdxImm:
		size += leb(uint64(imm.MemIdx))
	case wasm.MiscImm:
		size += 1
		for _, op := range imm.Operands {
			size += leb(uint64(op))
		}
	}
	return size
}

func leb(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

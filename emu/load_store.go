package emu

import (
	"fmt"

	"github.com/sarchlab/axvm/bits"
	"github.com/sarchlab/axvm/insts"
	"github.com/sarchlab/axvm/mem"
)

// LoadStoreUnit executes memory operations against the memory
// collaborator. Loads write both the destination register and the slot's
// BL bypass.
type LoadStoreUnit struct {
	regs   *RegFile
	memory *mem.Memory
	core   mem.Core
}

// NewLoadStoreUnit creates an LSU bound to the core that owns regs.
func NewLoadStoreUnit(regs *RegFile, memory *mem.Memory, core mem.Core) *LoadStoreUnit {
	return &LoadStoreUnit{regs: regs, memory: memory, core: core}
}

// Execute runs one LSU word in the given slot.
func (u *LoadStoreUnit) Execute(slot uint32, w insts.Word, imm24 uint32) {
	regs := u.regs
	size := w.Size()

	readReg := func(r uint32) uint64 {
		if r == RegACC {
			return regs.GPI[RegBL1+slot]
		}
		return regs.GPI[r]
	}

	writeback := func(value uint64) {
		regs.GPI[w.RegA()] = value
		regs.GPI[RegBL1+slot] = value
	}

	writebackFloat := func(value uint64) {
		regs.GPF[w.RegA()] = value
		regs.GPF[RegBL1+slot] = value
	}

	addrReg := func() uint64 {
		return readReg(w.RegB()) + readReg(w.RegC())<<w.OperandShift()
	}

	addrImm := func() uint64 {
		off := bits.SignExtend(uint64(w.LSUImm10()), 10) ^ (uint64(imm24) << 9)
		return uint64(int64(readReg(w.RegB())) + int64(off))
	}

	// FP accesses reuse the integer size selector: single is a word,
	// double is a dword.
	fsize := size + 2

	switch op := w.Opcode(); op {
	case insts.LSULd:
		writeback(u.memory.Load(u.core, addrReg(), size))

	case insts.LSULds:
		writeback(bits.SignExtendWidth(u.memory.Load(u.core, addrReg(), size), size))

	case insts.LSUFld:
		writebackFloat(u.memory.Load(u.core, addrReg(), fsize))

	case insts.LSUSt:
		u.memory.Store(u.core, regs.GPI[w.RegA()], addrReg(), size)

	case insts.LSUFst:
		u.memory.Store(u.core, regs.GPF[w.RegA()], addrReg(), fsize)

	case insts.LSULdi:
		writeback(u.memory.Load(u.core, addrImm(), size))

	case insts.LSULdis:
		writeback(bits.SignExtendWidth(u.memory.Load(u.core, addrImm(), size), size))

	case insts.LSUFldi:
		writebackFloat(u.memory.Load(u.core, addrImm(), fsize))

	case insts.LSUSti:
		u.memory.Store(u.core, regs.GPI[w.RegA()], addrImm(), size)

	case insts.LSUFsti:
		u.memory.Store(u.core, regs.GPF[w.RegA()], addrImm(), fsize)

	default:
		panic(fmt.Sprintf("unknown LSU operation %d", op))
	}
}

package emu

import (
	"fmt"

	"github.com/sarchlab/axvm/insts"
)

// ControlUnit executes the slot-1 control operations. SYSCALL parks the
// core at the syscall vector until the host resolves the call.
type ControlUnit struct {
	core *Core
}

// NewControlUnit creates a CU bound to its core.
func NewControlUnit(core *Core) *ControlUnit {
	return &ControlUnit{core: core}
}

// SyscallVector is the word-addressed PC the core parks at while a
// syscall is pending. The top bit keeps real fetches inside WRAM.
const SyscallVector uint32 = 0x80000000

// Execute runs one CU word. bundled is the pairing flag of the bundle's
// first word.
func (u *ControlUnit) Execute(w insts.Word, bundled bool) {
	regs := &u.core.regs

	switch op := w.Opcode(); op {
	case insts.CUSyscall:
		ir := regs.PC + 1
		if bundled {
			ir++
		}
		regs.IR = ir
		regs.PC = SyscallVector
		u.core.syscallPending = true

	case insts.CUReti:
		regs.PC = regs.IR

	case insts.CUGetir, insts.CUSetfr, insts.CUMmu, insts.CUSync:
		panic(fmt.Sprintf("CU operation %d not implemented", op))

	default:
		panic(fmt.Sprintf("unknown CU operation %d", op))
	}
}

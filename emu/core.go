package emu

import (
	"fmt"

	"github.com/sarchlab/axvm/insts"
	"github.com/sarchlab/axvm/mem"
)

// ScratchPadSize is the per-core scratch-pad size in bytes.
const ScratchPadSize = 0x4000

// Core is one K1 execution core. It owns the register file and the
// scratch-pad and shares the memory collaborator. The core must be
// driven from a single goroutine; inspection from other goroutines is
// only safe while the driver is stopped or parked at a syscall.
type Core struct {
	regs   RegFile
	spm    [ScratchPadSize]byte
	memory *mem.Memory

	alu *ALU
	mdu *MulDivUnit
	lsu *LoadStoreUnit
	fpu *FPU
	efu *EFU
	bru *BranchUnit
	cu  *ControlUnit

	syscallPending bool
	syscallHandler SyscallHandler
	errCode        int

	breakpoints map[uint64]*Breakpoint
	symbols     []Symbol
}

// CoreOption configures a Core.
type CoreOption func(*Core)

// WithSyscallHandler registers the handler TakeSyscall falls back to when
// invoked without one.
func WithSyscallHandler(h SyscallHandler) CoreOption {
	return func(c *Core) {
		c.syscallHandler = h
	}
}

// NewCore creates a core with zeroed state over the given memory.
func NewCore(memory *mem.Memory, opts ...CoreOption) *Core {
	c := &Core{
		memory:      memory,
		breakpoints: make(map[uint64]*Breakpoint),
	}
	c.alu = NewALU(&c.regs)
	c.mdu = NewMulDivUnit(&c.regs)
	c.lsu = NewLoadStoreUnit(&c.regs, memory, c)
	c.fpu = NewFPU(&c.regs)
	c.efu = NewEFU(&c.regs)
	c.bru = NewBranchUnit(&c.regs)
	c.cu = NewControlUnit(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Regs returns the architectural register file.
func (c *Core) Regs() *RegFile {
	return &c.regs
}

// Memory returns the shared memory collaborator.
func (c *Core) Memory() *mem.Memory {
	return c.memory
}

// ScratchPad returns the core's scratch-pad bytes. It also satisfies the
// memory collaborator's routing interface.
func (c *Core) ScratchPad() []byte {
	return c.spm[:]
}

// Error returns the sticky error code set by external collaborators.
// Zero means the core can keep running.
func (c *Core) Error() int {
	return c.errCode
}

// SetError records a collaborator fault. The driver stops on non-zero.
func (c *Core) SetError(code int) {
	c.errCode = code
}

// SyscallPending reports whether a SYSCALL is waiting for the host.
func (c *Core) SyscallPending() bool {
	return c.syscallPending
}

// Cycle fetches, executes, and retires one bundle. The top PC bit is
// ignored during fetch, so the parked syscall vector fetches word 0 of
// working RAM.
func (c *Core) Cycle() {
	realPC := c.regs.PC & 0x7FFFFFFF
	first, second := c.memory.FetchPair(realPC)
	count := c.Execute(first, second)
	c.regs.CC++
	c.regs.IC += count
	c.regs.PC += count
}

// Execute runs one bundle and returns how many words the caller should
// advance PC by: 0 when a branch already moved PC, otherwise the bundle
// length.
func (c *Core) Execute(first, second insts.Word) uint32 {
	oldPC := c.regs.PC

	var imm24 uint32
	bundled := first.IsBundle()
	if bundled && second.IsMoveix() {
		imm24 = second.MoveixImm24()
	}

	c.executeUnit(0, first, imm24, bundled)
	if bundled && !second.IsMoveix() {
		c.executeUnit(1, second, 0, bundled)
	}

	if c.regs.PC != oldPC {
		return 0
	}
	if bundled {
		return 2
	}
	return 1
}

// executeUnit dispatches one word to its unit. The issue id folds the
// slot into the unit field so slot-dependent units (EFU/CU, MDU/VU)
// resolve in one switch.
func (c *Core) executeUnit(slot uint32, w insts.Word, imm24 uint32, bundled bool) {
	c.regs.GPI[RegZero] = 0
	c.regs.GPF[RegZero] = 0

	switch issue := slot<<3 | w.Unit(); issue {
	case 0, 1, 8, 9:
		c.alu.Execute(slot, w, imm24)
	case 2, 10:
		c.lsu.Execute(slot, w, imm24)
	case 3, 11:
		c.fpu.Execute(slot, w)
	case 5:
		c.efu.Execute(w)
	case 6:
		c.mdu.Execute(w, imm24)
	case 7:
		c.bru.Execute(w, imm24, bundled)
	case 13:
		c.cu.Execute(w, bundled)
	case 14:
		panic("vector unit is not supported")
	default:
		panic(fmt.Sprintf("invalid issue id %d for word 0x%08X", issue, uint32(w)))
	}
}

// TakeSyscall resolves a pending syscall through h, or through the
// registered handler when h is nil. When a syscall was pending it clears
// the flag, returns the guest to the interrupted stream, and reports
// true together with the handler's result.
func (c *Core) TakeSyscall(h SyscallHandler) (SyscallResult, bool) {
	if !c.syscallPending {
		return SyscallResult{}, false
	}
	if h == nil {
		h = c.syscallHandler
	}
	if h == nil {
		panic("syscall raised but no handler is registered")
	}

	result := h.Handle(c)
	c.syscallPending = false
	c.regs.PC = c.regs.IR
	return result, true
}

package emu

import (
	"fmt"

	"github.com/sarchlab/axvm/bits"
	"github.com/sarchlab/axvm/insts"
)

// BranchUnit executes branches, jumps, and calls. PC and displacements
// are word addresses; the return address points past the whole bundle.
type BranchUnit struct {
	regs *RegFile
}

// NewBranchUnit creates a BRU over the given register file.
func NewBranchUnit(regs *RegFile) *BranchUnit {
	return &BranchUnit{regs: regs}
}

// Execute runs one BRU word. bundled is the pairing flag of the bundle's
// first word, which decides how far the return address skips.
func (u *BranchUnit) Execute(w insts.Word, imm24 uint32, bundled bool) {
	regs := u.regs

	rel23 := func() int64 {
		return int64(bits.SignExtend(uint64(w.BRUImm23()), 23) ^ (uint64(imm24) << 22))
	}

	rel24 := func() int64 {
		return int64(bits.SignExtend(uint64(w.BRUImm24()), 24) ^ (uint64(imm24) << 23))
	}

	abs24 := func() uint32 {
		return w.BRUImm24() | imm24<<24
	}

	lrValue := func() uint64 {
		lr := uint64(regs.PC) + 1
		if bundled {
			lr++
		}
		return lr
	}

	addPC := func(rel int64) {
		regs.PC = uint32(int64(regs.PC) + rel)
	}

	branch := func(taken bool) {
		if taken {
			addPC(rel23())
		}
	}

	z := regs.Flag(FlagZ)
	c := regs.Flag(FlagC)
	n := regs.Flag(FlagN)
	o := regs.Flag(FlagO)
	unordered := regs.Flag(FlagU)

	switch op := w.Opcode(); op {
	case insts.BRUBeq:
		branch(z && !unordered)
	case insts.BRUBne:
		branch(!z && !unordered)
	case insts.BRUBlt:
		branch(n != o && !unordered)
	case insts.BRUBge:
		branch((z || n == o) && !unordered)
	case insts.BRUBltu:
		branch(c || unordered)
	case insts.BRUBgeu:
		branch(z || !c || unordered)
	case insts.BRUBequ:
		branch(z || unordered)
	case insts.BRUBneu:
		branch(!z || unordered)

	case insts.BRUBra:
		addPC(rel24())

	case insts.BRUCallr:
		regs.GPI[RegLR] = lrValue()
		addPC(rel24())

	case insts.BRUJump:
		regs.PC = abs24()

	case insts.BRUCall:
		regs.GPI[RegLR] = lrValue()
		regs.PC = abs24()

	case insts.BRUIndirectcallr:
		regs.GPI[w.RegA()] = lrValue()
		addPC(int64(regs.GPI[w.RegB()]))

	case insts.BRUIndirectcall:
		regs.GPI[w.RegA()] = lrValue()
		regs.PC = uint32(regs.GPI[w.RegB()])

	default:
		panic(fmt.Sprintf("unknown BRU operation %d", op))
	}
}

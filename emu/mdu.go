package emu

import (
	"fmt"

	"github.com/sarchlab/axvm/bits"
	"github.com/sarchlab/axvm/insts"
)

// MulDivUnit executes multiply and divide operations. Results land in the
// MDU result registers (Q, QR, PL, PH) and are moved to and from the GPRs
// with GETMD and SETMD.
type MulDivUnit struct {
	regs *RegFile
}

// NewMulDivUnit creates an MDU over the given register file.
func NewMulDivUnit(regs *RegFile) *MulDivUnit {
	return &MulDivUnit{regs: regs}
}

// Execute runs one MDU word.
func (u *MulDivUnit) Execute(w insts.Word, imm24 uint32) {
	regs := u.regs
	size := w.Size()

	left := func() uint64 {
		return regs.GPI[w.RegB()]
	}

	right := func() uint64 {
		if !w.HasImm() {
			return regs.GPI[w.RegC()] << w.OperandShift()
		}
		return bits.SignExtend(uint64(w.Imm9()), 9) ^ (uint64(imm24) << 8)
	}

	trunc := func(v uint64) uint64 {
		return bits.Trunc(v, size)
	}

	sext := func(v uint64) uint64 {
		return bits.SignExtendWidth(v, size)
	}

	switch op := w.Opcode(); op {
	case insts.MDUDiv:
		l := int64(sext(left()))
		r := int64(sext(right()))
		if r == 0 {
			panic("divide by zero")
		}
		regs.MDU[0] = trunc(uint64(l / r))
		regs.MDU[1] = trunc(uint64(l % r))

	// DIVU and MULU sign-extend the right operand from the operand width.
	case insts.MDUDivu:
		l := trunc(left())
		r := sext(trunc(right()))
		if r == 0 {
			panic("divide by zero")
		}
		regs.MDU[0] = trunc(l / r)
		regs.MDU[1] = trunc(l % r)

	case insts.MDUMul:
		regs.MDU[2] = trunc(uint64(int64(sext(left())) * int64(sext(right()))))

	case insts.MDUMulu:
		regs.MDU[2] = trunc(trunc(left()) * sext(trunc(right())))

	case insts.MDUGetmd:
		regs.GPI[w.RegA()] = regs.MDU[w.MDUPq()]

	case insts.MDUSetmd:
		regs.MDU[w.MDUPq()] = regs.GPI[w.RegA()]

	default:
		panic(fmt.Sprintf("unknown MDU operation %d", op))
	}
}

package emu

import (
	"fmt"

	"github.com/sarchlab/axvm/bits"
	"github.com/sarchlab/axvm/insts"
)

// ALU executes the integer operations of both ALU unit ids. One instance
// serves both slots; the slot is passed per instruction to pick the
// bypass register.
type ALU struct {
	regs *RegFile
}

// NewALU creates an ALU over the given register file.
func NewALU(regs *RegFile) *ALU {
	return &ALU{regs: regs}
}

// Execute runs one ALU word in the given slot with the extension
// immediate already extracted from the bundle.
func (u *ALU) Execute(slot uint32, w insts.Word, imm24 uint32) {
	regs := u.regs
	size := w.Size()

	readReg := func(r uint32) uint64 {
		if r == RegACC {
			return regs.GPI[RegBA1+slot]
		}
		return regs.GPI[r]
	}

	writeback := func(value uint64) {
		regs.GPI[RegBA1+slot] = value
		if ra := w.RegA(); ra != RegACC {
			regs.GPI[ra] = value
		}
	}

	// INS merges into the existing destination instead of replacing it.
	orback := func(value uint64) {
		if ra := w.RegA(); ra == RegACC {
			regs.GPI[RegBA1+slot] |= value
		} else {
			regs.GPI[ra] |= value
			regs.GPI[RegBA1+slot] = regs.GPI[ra]
		}
	}

	left := func() uint64 {
		return readReg(w.RegB())
	}

	right := func() uint64 {
		if !w.HasImm() {
			return readReg(w.RegC()) << w.OperandShift()
		}
		return bits.SignExtend(uint64(w.Imm9()), 9) ^ (uint64(imm24) << 8)
	}

	trunc := func(v uint64) uint64 {
		return bits.Trunc(v, size)
	}

	sext := func(v uint64) uint64 {
		return bits.SignExtendWidth(v, size)
	}

	boolReg := func(b bool) uint64 {
		if b {
			return 1
		}
		return 0
	}

	switch op := w.ALUOp(); op {
	case insts.ALUMoveix:
		// Consumed as the extension immediate of the other slot.

	case insts.ALUMovei:
		writeback(bits.SignExtend(uint64(w.MoveImm18()), 18) ^ (uint64(imm24) << 18))

	case insts.ALUExt:
		writeback((left() >> w.ExtImm1()) & (1<<w.ExtImm2() - 1))

	case insts.ALUIns:
		orback((left() << w.ExtImm1()) & (1<<w.ExtImm2() - 1))

	case insts.ALUAdds:
		writeback(sext(trunc(left()) + trunc(right())))

	case insts.ALUSubs:
		writeback(sext(trunc(left()) - trunc(right())))

	case insts.ALUCmp:
		u.compare(left(), right(), size)

	case insts.ALUAdd:
		writeback(trunc(trunc(left()) + trunc(right())))

	case insts.ALUSub:
		writeback(trunc(trunc(left()) - trunc(right())))

	case insts.ALUXor:
		writeback(trunc(left()) ^ trunc(right()))

	case insts.ALUOr:
		writeback(trunc(left()) | trunc(right()))

	case insts.ALUAnd:
		writeback(trunc(left()) & trunc(right()))

	case insts.ALULsl:
		writeback(trunc(shiftLeft(trunc(left()), trunc(right()))))

	case insts.ALUAsr:
		writeback(trunc(uint64(int64(sext(left())) >> shiftCount(sext(right())))))

	case insts.ALULsr:
		writeback(trunc(shiftRight(trunc(left()), trunc(right()))))

	case insts.ALUSe:
		writeback(boolReg(trunc(left()) == trunc(right())))

	case insts.ALUSen:
		writeback(boolReg(trunc(left()) != trunc(right())))

	case insts.ALUSlts:
		writeback(boolReg(int64(sext(left())) < int64(sext(right()))))

	case insts.ALUSltu:
		writeback(boolReg(trunc(left()) < trunc(right())))

	case insts.ALUSand:
		writeback(boolReg(trunc(left())&trunc(right()) != 0))

	case insts.ALUSbit:
		r := trunc(right())
		writeback(boolReg(trunc(left())&r == r))

	case insts.ALUCmoven:
		if trunc(left()) == 0 {
			writeback(trunc(right()))
		}

	case insts.ALUCmove:
		if trunc(left()) != 0 {
			writeback(trunc(right()))
		}

	case insts.ALUMax, insts.ALUUmax, insts.ALUMin, insts.ALUUmin,
		insts.ALUBit, insts.ALUTest, insts.ALUTestfr:
		panic(fmt.Sprintf("ALU operation %d not implemented", op))

	default:
		panic(fmt.Sprintf("unknown ALU operation %d", op))
	}
}

// compare subtracts right from left at the operand width and latches the
// Z, C, N, and O flags. U is always cleared; integer compares are ordered.
func (u *ALU) compare(left, right uint64, size uint32) {
	regs := u.regs
	l := bits.Trunc(left, size)
	r := bits.Trunc(right, size)
	tmp := bits.Trunc(l-r, size)

	sign := uint64(1) << (8<<size - 1)
	sl := l&sign != 0
	sr := r&sign != 0
	st := tmp&sign != 0

	regs.setFlag(FlagZ, tmp == 0)
	regs.setFlag(FlagC, tmp > l)
	regs.setFlag(FlagN, st)
	regs.setFlag(FlagO, sl != sr && st != sl)
	regs.setFlag(FlagU, false)
}

// shiftCount clamps a shift amount so Go's shift never sees a count that
// the hardware would have reduced to "shift everything out".
func shiftCount(v uint64) uint64 {
	if v > 63 {
		return 63
	}
	return v
}

func shiftLeft(v, n uint64) uint64 {
	if n > 63 {
		return 0
	}
	return v << n
}

func shiftRight(v, n uint64) uint64 {
	if n > 63 {
		return 0
	}
	return v >> n
}

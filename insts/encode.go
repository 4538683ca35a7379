package insts

import "github.com/sarchlab/axvm/bits"

// MakeSimple builds a word with only the unit and opcode fields set.
func MakeSimple(unit, opcode uint32) Word {
	return Word(unit<<1 | opcode<<4)
}

// MakeALURegReg builds an ALU register-register word. op is the effective
// ALU operation id (0..31); its top bit selects the unit.
func MakeALURegReg(op, size, ra, rb, rc, shift uint32) Word {
	unit := op >> 4
	return Word(unit<<1 | (op&0xF)<<4 | ra<<8 | size<<14 | rb<<16 | rc<<22 | shift<<28)
}

// MakeALURegImm builds an ALU register-immediate word carrying the low
// 9 bits of imm. Values that do not fit in a signed 9-bit field need a
// MOVEIX companion built with MakeMoveixFor.
func MakeALURegImm(op, size, ra, rb uint32, imm uint32) Word {
	unit := op >> 4
	return Word(unit<<1 | (op&0xF)<<4 | ra<<8 | size<<14 | rb<<16 | (imm&0x1FF)<<22 | 1<<31)
}

// MakeMoveix builds a MOVEIX word with the given 24-bit payload.
func MakeMoveix(imm24 uint32) Word {
	return Word(imm24 << 8)
}

// MakeMoveixFor builds the MOVEIX companion that extends a 9-bit
// immediate word so the combined operand equals imm.
func MakeMoveixFor(imm uint32) Word {
	low := uint32(bits.SignExtend(uint64(imm&0x1FF), 9))
	return MakeMoveix(((imm ^ low) >> 8) & 0xFFFFFF)
}

// MakeMovei builds a MOVEI word with an 18-bit immediate.
func MakeMovei(ra, imm18 uint32) Word {
	return Word(ALUMovei<<4 | ra<<8 | (imm18&0x3FFFF)<<14)
}

// MakeExtIns builds an EXT or INS word with the bit position and width
// operands.
func MakeExtIns(op, size, ra, rb, pos, width uint32) Word {
	return Word((op&0xF)<<4 | ra<<8 | size<<14 | rb<<16 | (pos&0x1F)<<22 | (width&0x1F)<<27)
}

// MakeNop returns the canonical NOP, the all-zero MOVEIX.
func MakeNop() Word {
	return 0
}

// MakeBundle marks first as paired with the following word.
func MakeBundle(first Word) Word {
	return first | 1
}

// MakeLSUIndexed builds a register-indexed LSU word.
func MakeLSUIndexed(op, size, ra, rb, rc, shift uint32) Word {
	return Word(UnitLSU<<1 | op<<4 | ra<<8 | size<<14 | rb<<16 | rc<<22 | shift<<28)
}

// MakeLSUDisp builds a displacement LSU word with a 10-bit offset.
func MakeLSUDisp(op, size, ra, rb uint32, imm10 uint32) Word {
	return Word(UnitLSU<<1 | op<<4 | ra<<8 | size<<14 | rb<<16 | (imm10&0x3FF)<<22)
}

// MakeMDURegReg builds an MDU register-register word.
func MakeMDURegReg(op, size, rb, rc uint32) Word {
	return Word(UnitMDU<<1 | op<<4 | size<<14 | rb<<16 | rc<<22)
}

// MakeMDURegImm builds an MDU register-immediate word.
func MakeMDURegImm(op, size, rb uint32, imm uint32) Word {
	return Word(UnitMDU<<1 | op<<4 | size<<14 | rb<<16 | (imm&0x1FF)<<22 | 1<<31)
}

// MakeMDUMove builds a GETMD or SETMD word with the pq selector.
func MakeMDUMove(op, ra, pq uint32) Word {
	return Word(UnitMDU<<1 | op<<4 | ra<<8 | pq<<16)
}

// MakeFPU builds an FPU word. Size 0 selects single and 1 double
// precision for the arithmetic forms; size 3 selects conversions.
func MakeFPU(op, size, ra, rb, rc uint32) Word {
	return Word(UnitFPU<<1 | op<<4 | ra<<8 | size<<14 | rb<<16 | rc<<22)
}

// MakeEFU builds an EFU word.
func MakeEFU(op, size, ra, rb, rc uint32) Word {
	return Word(UnitEFU<<1 | op<<4 | ra<<8 | size<<14 | rb<<16 | rc<<22)
}

// MakeBRC builds a conditional branch word with a 23-bit relative
// word displacement.
func MakeBRC(op uint32, rel23 uint32) Word {
	return Word(UnitBRU<<1 | op<<4 | (rel23&0x7FFFFF)<<8)
}

// MakeBRU builds an unconditional branch, jump, or call word with a
// 24-bit operand.
func MakeBRU(op uint32, imm24 uint32) Word {
	return Word(UnitBRU<<1 | op<<4 | (imm24&0xFFFFFF)<<8)
}

// MakeCU builds a control unit word for the second bundle slot.
func MakeCU(op uint32) Word {
	return Word(UnitCU<<1 | op<<4)
}

// MakeSyscall builds the two-word bundle that raises a syscall: a
// bundled NOP in slot 0 and SYSCALL in slot 1.
func MakeSyscall() (Word, Word) {
	return MakeBundle(MakeNop()), MakeCU(CUSyscall)
}

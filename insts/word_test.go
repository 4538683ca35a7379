package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axvm/bits"
	"github.com/sarchlab/axvm/insts"
)

var _ = Describe("Word", func() {
	It("should expose the fields of a register-register ALU word", func() {
		w := insts.MakeALURegReg(insts.ALUAdd, 3, 1, 2, 3, 2)

		Expect(w.IsBundle()).To(BeFalse())
		Expect(w.ALUOp()).To(Equal(insts.ALUAdd))
		Expect(w.RegA()).To(Equal(uint32(1)))
		Expect(w.Size()).To(Equal(uint32(3)))
		Expect(w.RegB()).To(Equal(uint32(2)))
		Expect(w.RegC()).To(Equal(uint32(3)))
		Expect(w.OperandShift()).To(Equal(uint32(2)))
		Expect(w.HasImm()).To(BeFalse())
	})

	It("should expose the immediate of a register-immediate ALU word", func() {
		w := insts.MakeALURegImm(insts.ALUSub, 2, 4, 5, 0x1FF)

		Expect(w.ALUOp()).To(Equal(insts.ALUSub))
		Expect(w.HasImm()).To(BeTrue())
		Expect(w.Imm9()).To(Equal(uint32(0x1FF)))
	})

	It("should expose the MOVEI immediate", func() {
		w := insts.MakeMovei(7, 0x2ABCD)

		Expect(w.ALUOp()).To(Equal(insts.ALUMovei))
		Expect(w.RegA()).To(Equal(uint32(7)))
		Expect(w.MoveImm18()).To(Equal(uint32(0x2ABCD)))
	})

	It("should expose the EXT and INS bit operands", func() {
		w := insts.MakeExtIns(insts.ALUExt, 3, 1, 2, 11, 21)

		Expect(w.ExtImm1()).To(Equal(uint32(11)))
		Expect(w.ExtImm2()).To(Equal(uint32(21)))
	})

	It("should expose the LSU displacement", func() {
		w := insts.MakeLSUDisp(insts.LSUSti, 2, 1, 2, 0x3FF)

		Expect(w.Unit()).To(Equal(insts.UnitLSU))
		Expect(w.Opcode()).To(Equal(insts.LSUSti))
		Expect(w.LSUImm10()).To(Equal(uint32(0x3FF)))
	})

	It("should expose the MDU register selector", func() {
		w := insts.MakeMDUMove(insts.MDUGetmd, 3, 2)

		Expect(w.Unit()).To(Equal(insts.UnitMDU))
		Expect(w.MDUPq()).To(Equal(uint32(2)))
	})

	It("should expose the branch operands", func() {
		brc := insts.MakeBRC(insts.BRUBeq, 0x7FFFFC)
		bru := insts.MakeBRU(insts.BRUCall, 0xABCDEF)

		Expect(brc.Unit()).To(Equal(insts.UnitBRU))
		Expect(brc.BRUImm23()).To(Equal(uint32(0x7FFFFC)))
		Expect(bru.BRUImm24()).To(Equal(uint32(0xABCDEF)))
	})

	It("should mark a bundled word", func() {
		w := insts.MakeBundle(insts.MakeMovei(1, 42))

		Expect(w.IsBundle()).To(BeTrue())
		Expect(w.ALUOp()).To(Equal(insts.ALUMovei))
	})
})

var _ = Describe("Moveix", func() {
	It("should recognize the all-zero word as MOVEIX and NOP", func() {
		Expect(insts.MakeNop().IsMoveix()).To(BeTrue())
		Expect(insts.MakeMoveix(0x123456).IsMoveix()).To(BeTrue())
		Expect(insts.MakeMovei(0, 0).IsMoveix()).To(BeFalse())
	})

	It("should carry the 24-bit payload", func() {
		Expect(insts.MakeMoveix(0xDEADBE).MoveixImm24()).To(Equal(uint32(0xDEADBE)))
	})

	It("should extend a 9-bit immediate to the requested value", func() {
		for _, imm := range []uint32{0xDEADBEEF, 0x12345678, 0xFFFFFFFF, 0x100, 0} {
			word := insts.MakeALURegImm(insts.ALUAdd, 3, 1, 63, imm)
			ext := insts.MakeMoveixFor(imm)

			low := uint32(bits.SignExtend(uint64(word.Imm9()), 9))
			Expect(low ^ ext.MoveixImm24()<<8).To(Equal(imm))
		}
	})
})

var _ = Describe("MakeSyscall", func() {
	It("should build a bundled NOP followed by SYSCALL", func() {
		first, second := insts.MakeSyscall()

		Expect(first.IsBundle()).To(BeTrue())
		Expect(first.IsMoveix()).To(BeTrue())
		Expect(second.Unit()).To(Equal(insts.UnitCU))
		Expect(second.Opcode()).To(Equal(insts.CUSyscall))
	})
})

package emu_test

import (
	"encoding/binary"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axvm/emu"
	"github.com/sarchlab/axvm/insts"
	"github.com/sarchlab/axvm/mem"
)

// writeProgram places instruction words at the start of working RAM.
func writeProgram(core *emu.Core, words ...insts.Word) {
	wram, err := core.Memory().Map(core, mem.WRAMBegin)
	Expect(err).ToNot(HaveOccurred())
	for i, w := range words {
		binary.LittleEndian.PutUint32(wram[4*i:], uint32(w))
	}
}

var _ = Describe("Core", func() {
	var (
		core *emu.Core
		regs *emu.RegFile
	)

	BeforeEach(func() {
		core = emu.NewCore(mem.New())
		regs = core.Regs()
	})

	It("should retire one word per cycle for unpaired words", func() {
		writeProgram(core,
			insts.MakeMovei(1, 5),
			insts.MakeMovei(2, 7),
		)

		core.Cycle()
		core.Cycle()

		Expect(regs.PC).To(Equal(uint32(2)))
		Expect(regs.CC).To(Equal(uint32(2)))
		Expect(regs.IC).To(Equal(uint32(2)))
		Expect(regs.GPI[1]).To(Equal(uint64(5)))
		Expect(regs.GPI[2]).To(Equal(uint64(7)))
	})

	It("should retire a bundle with its extension in one cycle", func() {
		writeProgram(core,
			insts.MakeBundle(insts.MakeMovei(1, 0x1BEEF)),
			insts.MakeMoveix(0x37AB),
		)

		core.Cycle()

		Expect(regs.PC).To(Equal(uint32(2)))
		Expect(regs.CC).To(Equal(uint32(1)))
		Expect(regs.IC).To(Equal(uint32(2)))
		Expect(regs.GPI[1]).To(Equal(uint64(0xDEADBEEF)))
	})

	It("should execute both slots of a bundle", func() {
		first := insts.MakeBundle(insts.MakeMovei(1, 5))
		second := insts.MakeMovei(2, 7)

		count := core.Execute(first, second)

		Expect(count).To(Equal(uint32(2)))
		Expect(regs.GPI[1]).To(Equal(uint64(5)))
		Expect(regs.GPI[2]).To(Equal(uint64(7)))
	})

	It("should reject the vector unit in the second slot", func() {
		first := insts.MakeBundle(insts.MakeMovei(1, 5))
		second := insts.MakeMDURegReg(insts.MDUMul, 3, 2, 3)

		Expect(func() {
			core.Execute(first, second)
		}).To(PanicWith("vector unit is not supported"))
	})

	It("should reject the reserved unit id", func() {
		Expect(func() {
			core.Execute(insts.MakeSimple(4, 0), 0)
		}).To(Panic())
	})

	It("should return from an interrupt with RETI", func() {
		regs.IR = 7

		count := core.Execute(insts.MakeBundle(insts.MakeMovei(1, 5)), insts.MakeCU(insts.CUReti))

		Expect(count).To(BeZero())
		Expect(regs.PC).To(Equal(uint32(7)))
	})

	It("should reject the unimplemented CU operations", func() {
		Expect(func() {
			core.Execute(insts.MakeBundle(insts.MakeMovei(1, 5)), insts.MakeCU(insts.CUSync))
		}).To(Panic())
	})

	It("should carry the sticky error code", func() {
		Expect(core.Error()).To(BeZero())

		core.SetError(3)

		Expect(core.Error()).To(Equal(3))
	})
})

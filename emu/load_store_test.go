package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axvm/bits"
	"github.com/sarchlab/axvm/emu"
	"github.com/sarchlab/axvm/insts"
	"github.com/sarchlab/axvm/mem"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		memory *mem.Memory
		core   *emu.Core
		regs   *emu.RegFile
	)

	BeforeEach(func() {
		memory = mem.New()
		core = emu.NewCore(memory)
		regs = core.Regs()
	})

	It("should store and load each operand width", func() {
		regs.GPI[1] = 0xDEADBEEFCAFEBABE
		regs.GPI[2] = mem.WRAMBegin + 0x100

		expected := []uint64{0xBE, 0xBABE, 0xCAFEBABE, 0xDEADBEEFCAFEBABE}
		for size := uint32(0); size < 4; size++ {
			core.Execute(insts.MakeLSUDisp(insts.LSUSti, size, 1, 2, 0), 0)
			core.Execute(insts.MakeLSUDisp(insts.LSULdi, size, 3, 2, 0), 0)

			Expect(regs.GPI[3]).To(Equal(expected[size]))
		}
	})

	It("should store bytes little-endian", func() {
		regs.GPI[1] = 0x11223344
		regs.GPI[2] = mem.WRAMBegin + 0x100

		core.Execute(insts.MakeLSUDisp(insts.LSUSti, 2, 1, 2, 0), 0)

		Expect(memory.Load(core, mem.WRAMBegin+0x100, 0)).To(Equal(uint64(0x44)))
		Expect(memory.Load(core, mem.WRAMBegin+0x103, 0)).To(Equal(uint64(0x11)))
	})

	It("should sign-extend LDS results", func() {
		regs.GPI[1] = 0x80
		regs.GPI[2] = mem.WRAMBegin + 0x100

		core.Execute(insts.MakeLSUDisp(insts.LSUSti, 0, 1, 2, 0), 0)
		core.Execute(insts.MakeLSUDisp(insts.LSULdis, 0, 3, 2, 0), 0)

		Expect(regs.GPI[3]).To(Equal(uint64(0xFFFFFFFFFFFFFF80)))
	})

	It("should apply a negative displacement", func() {
		regs.GPI[1] = 77
		regs.GPI[2] = mem.WRAMBegin + 0x108

		core.Execute(insts.MakeLSUDisp(insts.LSUSti, 3, 1, 2, 0x3F8), 0)

		Expect(memory.Load(core, mem.WRAMBegin+0x100, 3)).To(Equal(uint64(77)))
	})

	It("should extend the displacement with MOVEIX", func() {
		regs.GPI[1] = 88
		regs.GPI[2] = mem.WRAMBegin

		first := insts.MakeBundle(insts.MakeLSUDisp(insts.LSUSti, 3, 1, 2, 0))
		core.Execute(first, insts.MakeMoveix(0x1000>>9))

		Expect(memory.Load(core, mem.WRAMBegin+0x1000, 3)).To(Equal(uint64(88)))
	})

	It("should scale the index register", func() {
		regs.GPI[1] = 55
		regs.GPI[2] = mem.WRAMBegin + 0x100
		regs.GPI[3] = 4

		core.Execute(insts.MakeLSUIndexed(insts.LSUSt, 3, 1, 2, 3, 3), 0)
		core.Execute(insts.MakeLSUIndexed(insts.LSULd, 3, 4, 2, 3, 3), 0)

		Expect(memory.Load(core, mem.WRAMBegin+0x120, 3)).To(Equal(uint64(55)))
		Expect(regs.GPI[4]).To(Equal(uint64(55)))
	})

	It("should write loads to the slot bypass", func() {
		regs.GPI[1] = 99
		regs.GPI[2] = mem.WRAMBegin + 0x100

		core.Execute(insts.MakeLSUDisp(insts.LSUSti, 3, 1, 2, 0), 0)
		core.Execute(insts.MakeLSUDisp(insts.LSULdi, 3, 3, 2, 0), 0)

		Expect(regs.GPI[emu.RegBL1]).To(Equal(uint64(99)))
	})

	It("should read the accumulator base from the slot bypass", func() {
		regs.GPI[1] = 31
		regs.GPI[emu.RegBL1] = mem.WRAMBegin + 0x200

		core.Execute(insts.MakeLSUDisp(insts.LSUSti, 3, 1, emu.RegACC, 0), 0)

		Expect(memory.Load(core, mem.WRAMBegin+0x200, 3)).To(Equal(uint64(31)))
	})

	It("should move floating-point values through memory", func() {
		regs.GPF[1] = bits.Float32Bits(1.5)
		regs.GPI[2] = mem.WRAMBegin + 0x100

		core.Execute(insts.MakeLSUDisp(insts.LSUFsti, 0, 1, 2, 0), 0)
		core.Execute(insts.MakeLSUDisp(insts.LSUFldi, 0, 3, 2, 0), 0)

		Expect(bits.RegFloat32(regs.GPF[3])).To(Equal(float32(1.5)))
		Expect(regs.GPF[emu.RegBL1]).To(Equal(regs.GPF[3]))
	})

	It("should move doubles as eight-byte accesses", func() {
		regs.GPF[1] = bits.Float64Bits(-2.25)
		regs.GPI[2] = mem.WRAMBegin + 0x100

		core.Execute(insts.MakeLSUDisp(insts.LSUFsti, 1, 1, 2, 0), 0)
		core.Execute(insts.MakeLSUDisp(insts.LSUFldi, 1, 3, 2, 0), 0)

		Expect(bits.RegFloat64(regs.GPF[3])).To(Equal(-2.25))
	})

	It("should route scratch-pad addresses to the core", func() {
		regs.GPI[1] = 0xAB
		regs.GPI[2] = mem.SPMBegin + 8

		core.Execute(insts.MakeLSUDisp(insts.LSUSti, 0, 1, 2, 0), 0)
		core.Execute(insts.MakeLSUDisp(insts.LSULdi, 0, 3, 2, 0), 0)

		Expect(core.ScratchPad()[8]).To(Equal(byte(0xAB)))
		Expect(regs.GPI[3]).To(Equal(uint64(0xAB)))
	})
})

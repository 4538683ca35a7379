package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axvm/bits"
	"github.com/sarchlab/axvm/emu"
	"github.com/sarchlab/axvm/insts"
	"github.com/sarchlab/axvm/mem"
)

var _ = Describe("EFU", func() {
	var (
		core *emu.Core
		regs *emu.RegFile
	)

	BeforeEach(func() {
		core = emu.NewCore(mem.New())
		regs = core.Regs()
	})

	It("should divide into the EFU result register", func() {
		regs.GPF[2] = bits.Float32Bits(1)
		regs.GPF[3] = bits.Float32Bits(2)

		core.Execute(insts.MakeEFU(insts.EFUFdiv, 0, 0, 2, 3), 0)

		Expect(bits.RegFloat32(regs.EFUQ)).To(Equal(float32(0.5)))
		Expect(regs.GPF[2]).To(Equal(bits.Float32Bits(1)))
	})

	It("should keep non-finite results", func() {
		regs.GPF[2] = bits.Float64Bits(1)
		regs.GPF[3] = bits.Float64Bits(0)

		core.Execute(insts.MakeEFU(insts.EFUFdiv, 1, 0, 2, 3), 0)

		Expect(math.IsInf(bits.RegFloat64(regs.EFUQ), 1)).To(BeTrue())
	})

	It("should take square roots", func() {
		regs.GPF[2] = bits.Float64Bits(9)

		core.Execute(insts.MakeEFU(insts.EFUFsqrt, 1, 0, 2, 0), 0)

		Expect(bits.RegFloat64(regs.EFUQ)).To(Equal(3.0))
	})

	It("should take inverse square roots", func() {
		regs.GPF[2] = bits.Float32Bits(4)

		core.Execute(insts.MakeEFU(insts.EFUInvsqrt, 0, 0, 2, 0), 0)

		Expect(bits.RegFloat32(regs.EFUQ)).To(Equal(float32(0.5)))
	})

	It("should compute the two-argument arctangent", func() {
		regs.GPF[2] = bits.Float64Bits(1)
		regs.GPF[3] = bits.Float64Bits(1)

		core.Execute(insts.MakeEFU(insts.EFUFatan2, 1, 0, 2, 3), 0)

		Expect(bits.RegFloat64(regs.EFUQ)).To(BeNumerically("~", math.Pi/4, 1e-12))
	})

	It("should compute sine, arctangent, and exponential", func() {
		regs.GPF[2] = bits.Float64Bits(0)

		core.Execute(insts.MakeEFU(insts.EFUFsin, 1, 0, 2, 0), 0)
		Expect(bits.RegFloat64(regs.EFUQ)).To(Equal(0.0))

		core.Execute(insts.MakeEFU(insts.EFUFatan, 1, 0, 2, 0), 0)
		Expect(bits.RegFloat64(regs.EFUQ)).To(Equal(0.0))

		core.Execute(insts.MakeEFU(insts.EFUFexp, 1, 0, 2, 0), 0)
		Expect(bits.RegFloat64(regs.EFUQ)).To(Equal(1.0))
	})

	It("should move the result register to and from the FP bank", func() {
		regs.GPF[4] = bits.Float64Bits(7)

		core.Execute(insts.MakeEFU(insts.EFUSetef, 0, 4, 0, 0), 0)
		Expect(regs.EFUQ).To(Equal(bits.Float64Bits(7)))

		core.Execute(insts.MakeEFU(insts.EFUGetef, 0, 5, 0, 0), 0)
		Expect(regs.GPF[5]).To(Equal(bits.Float64Bits(7)))
	})

	It("should reject invalid sizes", func() {
		Expect(func() {
			core.Execute(insts.MakeEFU(insts.EFUFsqrt, 2, 0, 2, 0), 0)
		}).To(Panic())
	})
})

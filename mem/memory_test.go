package mem_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/axvm/insts"
	"github.com/sarchlab/axvm/mem"
)

// stubCore is a minimal scratch-pad owner for routing tests.
type stubCore struct {
	spm [0x4000]byte
}

func (c *stubCore) ScratchPad() []byte {
	return c.spm[:]
}

var _ = Describe("Memory", func() {
	var (
		memory *mem.Memory
		core   *stubCore
	)

	BeforeEach(func() {
		memory = mem.New()
		core = &stubCore{}
	})

	It("should size the regions by default", func() {
		Expect(memory.ROMSize()).To(Equal(mem.DefaultROMSize))
		Expect(memory.WRAMSize()).To(Equal(mem.DefaultWRAMSize))
	})

	It("should honor the size options", func() {
		memory = mem.New(mem.WithROMSize(0x1000), mem.WithWRAMSize(0x2000))

		Expect(memory.ROMSize()).To(Equal(0x1000))
		Expect(memory.WRAMSize()).To(Equal(0x2000))
	})

	It("should store and load each access width", func() {
		addr := mem.WRAMBegin + 0x100
		memory.Store(core, 0xDEADBEEFCAFEBABE, addr, 3)

		Expect(memory.Load(core, addr, 0)).To(Equal(uint64(0xBE)))
		Expect(memory.Load(core, addr, 1)).To(Equal(uint64(0xBABE)))
		Expect(memory.Load(core, addr, 2)).To(Equal(uint64(0xCAFEBABE)))
		Expect(memory.Load(core, addr, 3)).To(Equal(uint64(0xDEADBEEFCAFEBABE)))
	})

	It("should store little-endian", func() {
		addr := mem.WRAMBegin + 0x100
		memory.Store(core, 0x11223344, addr, 2)

		Expect(memory.Load(core, addr, 0)).To(Equal(uint64(0x44)))
		Expect(memory.Load(core, addr+3, 0)).To(Equal(uint64(0x11)))
	})

	It("should access the kernel ROM", func() {
		memory.Store(core, 0xAB, mem.ROMBegin+0x10, 0)

		Expect(memory.Load(core, mem.ROMBegin+0x10, 0)).To(Equal(uint64(0xAB)))
	})

	It("should route scratch-pad accesses to the querying core", func() {
		memory.Store(core, 0xCD, mem.SPMBegin+4, 0)

		Expect(core.spm[4]).To(Equal(byte(0xCD)))
		Expect(memory.Load(core, mem.SPMBegin+4, 0)).To(Equal(uint64(0xCD)))

		other := &stubCore{}
		Expect(memory.Load(other, mem.SPMBegin+4, 0)).To(BeZero())
	})

	It("should read MMIO as zero and discard MMIO writes", func() {
		memory.Store(core, 0xFF, mem.MMIOBegin+8, 3)

		Expect(memory.Load(core, mem.MMIOBegin+8, 3)).To(BeZero())
	})

	It("should refuse to map MMIO", func() {
		_, err := memory.Map(core, mem.MMIOBegin)

		Expect(err).To(HaveOccurred())
	})

	It("should map a region so writes are visible to loads", func() {
		buf, err := memory.Map(core, mem.WRAMBegin+0x100)
		Expect(err).ToNot(HaveOccurred())

		buf[0] = 0x5A

		Expect(memory.Load(core, mem.WRAMBegin+0x100, 0)).To(Equal(uint64(0x5A)))
	})

	It("should fail to map out-of-range addresses", func() {
		_, err := memory.Map(core, mem.WRAMBegin+uint64(memory.WRAMSize()))

		Expect(err).To(HaveOccurred())
	})

	It("should fetch instruction pairs from working RAM", func() {
		memory.Store(core, 0x11223344, mem.WRAMBegin+8, 2)
		memory.Store(core, 0x55667788, mem.WRAMBegin+12, 2)

		first, second := memory.FetchPair(2)

		Expect(first).To(Equal(insts.Word(0x11223344)))
		Expect(second).To(Equal(insts.Word(0x55667788)))
	})

	It("should reject fetches outside working RAM", func() {
		Expect(func() {
			memory.FetchPair(uint32(memory.WRAMSize() / 4))
		}).To(Panic())
	})

	It("should reject out-of-range loads", func() {
		Expect(func() {
			memory.Load(core, mem.WRAMBegin+uint64(memory.WRAMSize()), 0)
		}).To(Panic())
	})

	It("should reject accesses crossing the region end", func() {
		Expect(func() {
			memory.Store(core, 1, mem.WRAMBegin+uint64(memory.WRAMSize())-4, 3)
		}).To(Panic())
	})
})

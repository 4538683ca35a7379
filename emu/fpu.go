package emu

import (
	"fmt"
	"math"

	"github.com/sarchlab/axvm/bits"
	"github.com/sarchlab/axvm/insts"
)

// FPU executes floating-point operations on the FP register bank. Sizes 0
// and 1 select single and double precision; size 3 reuses opcodes 0..7
// for the conversion forms.
type FPU struct {
	regs *RegFile
}

// NewFPU creates an FPU over the given register file.
func NewFPU(regs *RegFile) *FPU {
	return &FPU{regs: regs}
}

// Execute runs one FPU word in the given slot.
func (u *FPU) Execute(slot uint32, w insts.Word) {
	regs := u.regs
	size := w.Size()

	readRaw := func(r uint32) uint64 {
		if r == RegACC {
			return regs.GPF[RegBF1+slot]
		}
		return regs.GPF[r]
	}

	left32 := func() float32 { return bits.RegFloat32(readRaw(w.RegB())) }
	right32 := func() float32 { return bits.RegFloat32(readRaw(w.RegC())) }
	left64 := func() float64 { return bits.RegFloat64(readRaw(w.RegB())) }
	right64 := func() float64 { return bits.RegFloat64(readRaw(w.RegC())) }

	writeRaw := func(value uint64) {
		regs.GPF[RegBF1+slot] = value
		if ra := w.RegA(); ra != RegACC {
			regs.GPF[ra] = value
		}
	}

	// Computed values that are not finite reals decay to a quiet NaN.
	write32 := func(f float32) {
		if !bits.IsReal32(f) {
			f = float32(math.NaN())
		}
		writeRaw(bits.Float32Bits(f))
	}

	write64 := func(f float64) {
		if !bits.IsReal64(f) {
			f = math.NaN()
		}
		writeRaw(bits.Float64Bits(f))
	}

	boolRaw := func(b bool) uint64 {
		if b {
			return 1
		}
		return 0
	}

	badSize := func() {
		panic(fmt.Sprintf("cannot perform FPU operation %d with size %d", w.Opcode(), size))
	}

	switch op := w.Opcode(); op {
	case insts.FPUFadd: // HTOF at size 3
		switch size {
		case 0:
			write32(left32() + right32())
		case 1:
			write64(left64() + right64())
		case 3:
			write32(math.Float32frombits(bits.HalfToFloat(uint16(readRaw(w.RegB())))))
		default:
			badSize()
		}

	case insts.FPUFsub: // FTOH at size 3
		switch size {
		case 0:
			write32(left32() - right32())
		case 1:
			write64(left64() - right64())
		case 3:
			writeRaw(uint64(bits.FloatToHalf(math.Float32bits(left32()))))
		default:
			badSize()
		}

	case insts.FPUFmul: // ITOF at size 3
		switch size {
		case 0:
			write32(left32() * right32())
		case 1:
			write64(left64() * right64())
		case 3:
			write32(float32(int64(readRaw(w.RegB()))))
		default:
			badSize()
		}

	case insts.FPUFnmul: // FTOI at size 3
		switch size {
		case 0:
			write32(-left32() * right32())
		case 1:
			write64(-left64() * right64())
		case 3:
			writeRaw(uint64(int64(left32())))
		default:
			badSize()
		}

	case insts.FPUFmin: // FTOD at size 3
		switch size {
		case 0:
			l, r := left32(), right32()
			if r < l {
				l = r
			}
			write32(l)
		case 1:
			l, r := left64(), right64()
			if r < l {
				l = r
			}
			write64(l)
		case 3:
			write64(float64(left32()))
		default:
			badSize()
		}

	case insts.FPUFmax: // DTOF at size 3
		switch size {
		case 0:
			l, r := left32(), right32()
			if r > l {
				l = r
			}
			write32(l)
		case 1:
			l, r := left64(), right64()
			if r > l {
				l = r
			}
			write64(l)
		case 3:
			write32(float32(left64()))
		default:
			badSize()
		}

	case insts.FPUFneg: // ITOD at size 3
		switch size {
		case 0:
			write32(-left32())
		case 1:
			write64(-left64())
		case 3:
			write64(float64(int64(readRaw(w.RegB()))))
		default:
			badSize()
		}

	case insts.FPUFabs: // DTOI at size 3
		switch size {
		case 0:
			write32(float32(math.Abs(float64(left32()))))
		case 1:
			write64(math.Abs(left64()))
		case 3:
			writeRaw(uint64(int64(left64())))
		default:
			badSize()
		}

	case insts.FPUFmove:
		writeRaw(readRaw(w.RegB()))

	case insts.FPUFcmove:
		if readRaw(w.RegB()) != 0 {
			writeRaw(readRaw(w.RegC()))
		}

	case insts.FPUFe:
		switch size {
		case 0:
			writeRaw(boolRaw(left32() == right32()))
		case 1:
			writeRaw(boolRaw(left64() == right64()))
		default:
			badSize()
		}

	case insts.FPUFen:
		switch size {
		case 0:
			writeRaw(boolRaw(left32() != right32()))
		case 1:
			writeRaw(boolRaw(left64() != right64()))
		default:
			badSize()
		}

	case insts.FPUFslt:
		switch size {
		case 0:
			writeRaw(boolRaw(left32() < right32()))
		case 1:
			writeRaw(boolRaw(left64() < right64()))
		default:
			badSize()
		}

	case insts.FPUFcmp:
		switch size {
		case 0:
			l, r := left32(), right32()
			u.compare(bits.IsReal32(l) && bits.IsReal32(r), l == r, l < r)
		case 1:
			l, r := left64(), right64()
			u.compare(bits.IsReal64(l) && bits.IsReal64(r), l == r, l < r)
		default:
			badSize()
		}

	default:
		panic(fmt.Sprintf("unknown FPU operation %d", op))
	}
}

// compare latches FR for FCMP. An unordered compare leaves only U set;
// otherwise Z tracks equality and both C and N track less-than.
func (u *FPU) compare(ordered, equal, less bool) {
	regs := u.regs
	if !ordered {
		regs.FR = FlagU
		return
	}
	regs.setFlag(FlagZ, equal)
	regs.setFlag(FlagN, less)
	regs.setFlag(FlagC, less)
	regs.setFlag(FlagO, false)
	regs.setFlag(FlagU, false)
}

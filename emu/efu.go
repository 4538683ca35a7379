package emu

import (
	"fmt"
	"math"

	"github.com/sarchlab/axvm/bits"
	"github.com/sarchlab/axvm/insts"
)

// EFU executes the extended-function operations. Every result lands in
// the EFU-Q register; unlike the FPU, non-finite results are kept as is.
type EFU struct {
	regs *RegFile
}

// NewEFU creates an EFU over the given register file.
func NewEFU(regs *RegFile) *EFU {
	return &EFU{regs: regs}
}

// Execute runs one EFU word.
func (u *EFU) Execute(w insts.Word) {
	regs := u.regs
	size := w.Size()

	left32 := func() float32 { return bits.RegFloat32(regs.GPF[w.RegB()]) }
	right32 := func() float32 { return bits.RegFloat32(regs.GPF[w.RegC()]) }
	left64 := func() float64 { return bits.RegFloat64(regs.GPF[w.RegB()]) }
	right64 := func() float64 { return bits.RegFloat64(regs.GPF[w.RegC()]) }

	write32 := func(f float32) { regs.EFUQ = bits.Float32Bits(f) }
	write64 := func(f float64) { regs.EFUQ = bits.Float64Bits(f) }

	// apply dispatches a one-operand function at the operand size.
	apply := func(fn func(float64) float64) {
		switch size {
		case 0:
			write32(float32(fn(float64(left32()))))
		case 1:
			write64(fn(left64()))
		default:
			panic(fmt.Sprintf("cannot perform EFU operation %d with size %d", w.Opcode(), size))
		}
	}

	switch op := w.Opcode(); op {
	case insts.EFUFdiv:
		switch size {
		case 0:
			write32(left32() / right32())
		case 1:
			write64(left64() / right64())
		default:
			panic(fmt.Sprintf("cannot perform EFU operation %d with size %d", op, size))
		}

	case insts.EFUFatan2:
		switch size {
		case 0:
			write32(float32(math.Atan2(float64(left32()), float64(right32()))))
		case 1:
			write64(math.Atan2(left64(), right64()))
		default:
			panic(fmt.Sprintf("cannot perform EFU operation %d with size %d", op, size))
		}

	case insts.EFUFsqrt:
		apply(math.Sqrt)

	case insts.EFUFsin:
		apply(math.Sin)

	case insts.EFUFatan:
		apply(math.Atan)

	case insts.EFUFexp:
		apply(math.Exp)

	case insts.EFUInvsqrt:
		apply(func(v float64) float64 { return 1 / math.Sqrt(v) })

	case insts.EFUSetef:
		regs.EFUQ = regs.GPF[w.RegA()]

	case insts.EFUGetef:
		regs.GPF[w.RegA()] = regs.EFUQ

	default:
		panic(fmt.Sprintf("unknown EFU operation %d", op))
	}
}

// Package benchmarks holds small guest programs with known results,
// used to validate whole-program execution and to watch the
// instruction-per-cycle behavior of the core.
package benchmarks

import (
	"fmt"

	"github.com/sarchlab/axvm/emu"
	"github.com/sarchlab/axvm/insts"
	"github.com/sarchlab/axvm/loader"
	"github.com/sarchlab/axvm/mem"
)

// Benchmark is a raw guest program and the exit code it must produce.
type Benchmark struct {
	Name         string
	Description  string
	Program      []insts.Word
	ExpectedExit int64
}

// Result captures one benchmark run.
type Result struct {
	ExitCode     int64
	Cycles       uint32
	Instructions uint32
}

// maxCycles bounds a run so a broken branch cannot hang the suite.
const maxCycles = 1 << 20

// Run executes the benchmark on a fresh core and returns its result.
func Run(b Benchmark) (Result, error) {
	core := emu.NewCore(mem.New())
	handler := emu.NewDefaultSyscallHandler()

	image := make([]byte, 16)
	for _, w := range b.Program {
		image = append(image, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	if err := loader.LoadRaw(core, image); err != nil {
		return Result{}, err
	}

	for i := 0; i < maxCycles; i++ {
		core.Cycle()
		result, ok := core.TakeSyscall(handler)
		if !ok {
			continue
		}
		if result.Exited {
			regs := core.Regs()
			return Result{
				ExitCode:     result.ExitCode,
				Cycles:       regs.CC,
				Instructions: regs.IC,
			}, nil
		}
	}
	return Result{}, fmt.Errorf("benchmark %s did not exit within %d cycles", b.Name, maxCycles)
}

// exitSequence raises the exit syscall with whatever GPR 2 holds.
func exitSequence() []insts.Word {
	nop, syscall := insts.MakeSyscall()
	return []insts.Word{
		insts.MakeMovei(1, uint32(emu.SyscallExit)),
		nop,
		syscall,
	}
}

func program(words ...insts.Word) []insts.Word {
	return append(words, exitSequence()...)
}

// Microbenchmarks returns the validation set. Each one stresses a
// different unit and exits with a value only a correct run produces.
func Microbenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticChain(),
		sumLoop(),
		dualIssue(),
		multiply(),
		memoryRoundtrip(),
		branchSelect(),
	}
}

// arithmeticChain runs twenty dependent increments.
func arithmeticChain() Benchmark {
	words := make([]insts.Word, 0, 20)
	for i := 0; i < 20; i++ {
		words = append(words, insts.MakeALURegImm(insts.ALUAdd, 3, 2, 2, 1))
	}
	return Benchmark{
		Name:         "arithmetic_chain",
		Description:  "twenty dependent ADD immediates",
		Program:      program(words...),
		ExpectedExit: 20,
	}
}

// sumLoop sums 1..10 with a backward conditional branch.
func sumLoop() Benchmark {
	return Benchmark{
		Name:        "sum_loop",
		Description: "counted loop with CMP and BNE",
		Program: program(
			insts.MakeMovei(3, 10),
			insts.MakeMovei(2, 0),
			insts.MakeALURegReg(insts.ALUAdd, 3, 2, 2, 3, 0),
			insts.MakeALURegImm(insts.ALUAdd, 3, 3, 3, 0x1FF),
			insts.MakeALURegImm(insts.ALUCmp, 3, 0, 3, 0),
			insts.MakeBRC(insts.BRUBne, 0x7FFFFD),
		),
		ExpectedExit: 55,
	}
}

// dualIssue pairs two independent adds per bundle, five times over.
func dualIssue() Benchmark {
	var words []insts.Word
	for i := 0; i < 5; i++ {
		words = append(words,
			insts.MakeBundle(insts.MakeALURegImm(insts.ALUAdd, 3, 2, 2, 1)),
			insts.MakeALURegImm(insts.ALUAdd, 3, 3, 3, 2),
		)
	}
	words = append(words, insts.MakeALURegReg(insts.ALUAdd, 3, 2, 2, 3, 0))
	return Benchmark{
		Name:         "dual_issue",
		Description:  "bundled ALU pairs, result folded at the end",
		Program:      program(words...),
		ExpectedExit: 15,
	}
}

// multiply computes 6*7 through the MDU result registers.
func multiply() Benchmark {
	return Benchmark{
		Name:        "multiply",
		Description: "MDU multiply with GETMD readback",
		Program: program(
			insts.MakeMovei(3, 6),
			insts.MakeMovei(4, 7),
			insts.MakeMDURegReg(insts.MDUMul, 3, 3, 4),
			insts.MakeMDUMove(insts.MDUGetmd, 2, 2),
		),
		ExpectedExit: 42,
	}
}

// memoryRoundtrip stores two values away from the program image and
// loads them back.
func memoryRoundtrip() Benchmark {
	return Benchmark{
		Name:        "memory_roundtrip",
		Description: "LSU stores and loads through a MOVEIX-built base",
		Program: program(
			insts.MakeBundle(insts.MakeMovei(3, 0x10000)),
			insts.MakeMoveix(0x1000),
			insts.MakeMovei(4, 11),
			insts.MakeMovei(5, 22),
			insts.MakeLSUDisp(insts.LSUSti, 3, 4, 3, 0),
			insts.MakeLSUDisp(insts.LSUSti, 3, 5, 3, 8),
			insts.MakeLSUDisp(insts.LSULdi, 3, 6, 3, 0),
			insts.MakeLSUDisp(insts.LSULdi, 3, 7, 3, 8),
			insts.MakeALURegReg(insts.ALUAdd, 3, 2, 6, 7, 0),
		),
		ExpectedExit: 33,
	}
}

// branchSelect picks the larger of two values with a forward branch.
func branchSelect() Benchmark {
	return Benchmark{
		Name:        "branch_select",
		Description: "CMP with an untaken BGE guarding a replacement",
		Program: program(
			insts.MakeMovei(3, 4),
			insts.MakeMovei(4, 9),
			insts.MakeALURegImm(insts.ALUAdd, 3, 2, 3, 0),
			insts.MakeALURegReg(insts.ALUCmp, 3, 0, 3, 4, 0),
			insts.MakeBRC(insts.BRUBge, 2),
			insts.MakeALURegImm(insts.ALUAdd, 3, 2, 4, 0),
		),
		ExpectedExit: 9,
	}
}

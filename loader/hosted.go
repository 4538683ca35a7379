package loader

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/axvm/bits"
	"github.com/sarchlab/axvm/emu"
	"github.com/sarchlab/axvm/insts"
	"github.com/sarchlab/axvm/mem"
)

// LoadHosted loads an ELF program into a hosted environment. GPR 0
// receives the initial stack pointer at the top of working RAM, the
// argv strings and pointer vector are stack allocated, GPR 1 and GPR 2
// receive argc and argv, and a trampoline at word 0 calls main then
// raises the exit syscall with main's return value.
func LoadHosted(core *emu.Core, r io.ReaderAt, argv []string) error {
	f, err := elf.NewFile(r)
	if err != nil {
		return fmt.Errorf("load hosted program: %w", err)
	}

	symbols, err := loadImage(core, f)
	if err != nil {
		return err
	}
	mainSym := findSymbol(symbols, DefaultEntryPoint)
	if mainSym == nil {
		return fmt.Errorf("load hosted program: no %q symbol", DefaultEntryPoint)
	}

	sp, argvAddr, err := pushArgs(core, argv)
	if err != nil {
		return err
	}

	regs := core.Regs()
	regs.GPI[emu.RegSP] = sp
	regs.GPI[1] = uint64(len(argv))
	regs.GPI[2] = argvAddr

	if err := writeTrampoline(core, uint32(mainSym.Address/4)); err != nil {
		return err
	}
	regs.PC = 0
	return nil
}

// LoadHostedFile loads a hosted ELF program file through LoadHosted.
func LoadHostedFile(core *emu.Core, path string, argv []string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load hosted program: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadHosted(core, f, argv)
}

// pushArgs stack-allocates the argv strings and their pointer vector at
// the top of working RAM. It returns the initial stack pointer and the
// guest address of the vector.
func pushArgs(core *emu.Core, argv []string) (sp, argvAddr uint64, err error) {
	wram, err := core.Memory().Map(core, mem.WRAMBegin)
	if err != nil {
		return 0, 0, fmt.Errorf("load hosted program: %w", err)
	}

	cursor := uint64(len(wram))
	ptrs := make([]uint64, len(argv))
	for i := len(argv) - 1; i >= 0; i-- {
		n := uint64(len(argv[i])) + 1
		if n > cursor {
			return 0, 0, fmt.Errorf("load hosted program: argv overflows working RAM")
		}
		cursor -= n
		copy(wram[cursor:], argv[i])
		wram[cursor+n-1] = 0
		ptrs[i] = mem.WRAMBegin + cursor
	}

	cursor &^= 7
	need := 8 * uint64(len(argv))
	if need+8 > cursor {
		return 0, 0, fmt.Errorf("load hosted program: argv overflows working RAM")
	}
	cursor -= need
	for i, ptr := range ptrs {
		binary.LittleEndian.PutUint64(wram[cursor+8*uint64(i):], ptr)
	}

	argvAddr = mem.WRAMBegin + cursor
	sp = argvAddr - 8
	return sp, argvAddr, nil
}

// writeTrampoline assembles the hosted entry stub at word 0:
//
//	call @main      ; bundled with its moveix extension
//	nop             ; the call returns here
//	add.d r2, r1, 0 ; exit code, returned by main
//	movei r1, 1     ; exit syscall id
//	syscall         ; bundled nop + syscall
func writeTrampoline(core *emu.Core, mainWord uint32) error {
	low := uint32(bits.SignExtend(uint64(mainWord&0xFFFFFF), 24))
	ext := ((mainWord ^ low) >> 23) & 0xFFFFFF

	nop, syscall := insts.MakeSyscall()
	words := []insts.Word{
		insts.MakeBundle(insts.MakeBRU(insts.BRUCall, mainWord)),
		insts.MakeMoveix(ext),
		insts.MakeNop(),
		insts.MakeALURegImm(insts.ALUAdd, 2, 2, 1, 0),
		insts.MakeMovei(1, uint32(emu.SyscallExit)),
		nop,
		syscall,
	}

	wram, err := core.Memory().Map(core, mem.WRAMBegin)
	if err != nil {
		return fmt.Errorf("load hosted program: %w", err)
	}
	if len(words)*4 > len(wram) {
		return fmt.Errorf("load hosted program: trampoline exceeds working RAM")
	}
	for i, w := range words {
		binary.LittleEndian.PutUint32(wram[4*i:], uint32(w))
	}
	return nil
}

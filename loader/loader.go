// Package loader places guest programs into core memory. It handles
// flat raw executables, kernel ROM images, ELF executables, and hosted
// ELF programs that receive an argc/argv environment.
package loader

import (
	"fmt"
	"os"

	"github.com/sarchlab/axvm/emu"
	"github.com/sarchlab/axvm/mem"
)

// LoadRaw copies a flat executable image into working RAM and points PC
// at word 4, the raw image entry.
func LoadRaw(core *emu.Core, image []byte) error {
	wram, err := core.Memory().Map(core, mem.WRAMBegin)
	if err != nil {
		return fmt.Errorf("load raw image: %w", err)
	}
	if len(image) > len(wram) {
		return fmt.Errorf("load raw image: %d bytes exceed working RAM", len(image))
	}
	copy(wram, image)
	core.Regs().PC = 4
	return nil
}

// LoadRawFile loads a flat executable file through LoadRaw.
func LoadRawFile(core *emu.Core, path string) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load raw image: %w", err)
	}
	return LoadRaw(core, image)
}

// LoadKernel copies a kernel image into ROM, where guest loads, stores,
// and Map reach it. Instruction fetch reads working RAM only, so the ROM
// image is not fetched.
func LoadKernel(core *emu.Core, image []byte) error {
	rom, err := core.Memory().Map(core, mem.ROMBegin)
	if err != nil {
		return fmt.Errorf("load kernel image: %w", err)
	}
	if len(image) > len(rom) {
		return fmt.Errorf("load kernel image: %d bytes exceed ROM", len(image))
	}
	copy(rom, image)
	return nil
}

// LoadKernelFile loads a kernel image file through LoadKernel.
func LoadKernelFile(core *emu.Core, path string) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load kernel image: %w", err)
	}
	return LoadKernel(core, image)
}

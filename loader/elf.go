package loader

import (
	"debug/elf"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/axvm/emu"
	"github.com/sarchlab/axvm/mem"
)

// DefaultEntryPoint is the symbol execution starts at when the caller
// does not name one.
const DefaultEntryPoint = "main"

// LoadELF loads a little-endian 64-bit ELF executable: allocatable
// sections are copied to their addresses, the symbol table is installed
// on the core, and PC points at the named entry symbol. An empty entry
// name selects DefaultEntryPoint.
func LoadELF(core *emu.Core, r io.ReaderAt, entry string) error {
	f, err := elf.NewFile(r)
	if err != nil {
		return fmt.Errorf("load ELF: %w", err)
	}

	symbols, err := loadImage(core, f)
	if err != nil {
		return err
	}

	if entry == "" {
		entry = DefaultEntryPoint
	}
	sym := findSymbol(symbols, entry)
	if sym == nil {
		return fmt.Errorf("load ELF: entry symbol %q not found", entry)
	}
	core.Regs().PC = uint32(sym.Address / 4)
	return nil
}

// LoadELFFile loads an ELF executable file through LoadELF.
func LoadELFFile(core *emu.Core, path string, entry string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load ELF: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadELF(core, f, entry)
}

// loadImage copies the allocatable sections into memory and installs
// the symbol table. It returns the symbols so callers can resolve entry
// points by name.
func loadImage(core *emu.Core, f *elf.File) ([]emu.Symbol, error) {
	if f.Class != elf.ELFCLASS64 {
		return nil, fmt.Errorf("load ELF: not a 64-bit ELF file")
	}
	if f.Data != elf.ELFDATA2LSB {
		return nil, fmt.Errorf("load ELF: not a little-endian ELF file")
	}

	for _, section := range f.Sections {
		if section.Flags&elf.SHF_ALLOC == 0 || section.Size == 0 {
			continue
		}

		dst, err := sectionDst(core, section.Addr, section.Size)
		if err != nil {
			return nil, fmt.Errorf("load ELF: section %s: %w", section.Name, err)
		}

		if section.Type == elf.SHT_NOBITS {
			clear(dst)
			continue
		}
		data, err := section.Data()
		if err != nil {
			return nil, fmt.Errorf("load ELF: section %s: %w", section.Name, err)
		}
		copy(dst, data)
	}

	symbols, err := readSymbols(f)
	if err != nil {
		return nil, err
	}
	core.SetSymbols(symbols)
	return symbols, nil
}

// sectionDst resolves a section address to its backing bytes. Addresses
// below the working RAM window are instruction space and index working
// RAM directly, matching the word-addressed fetch path; addresses at or
// above it go through the data region map.
func sectionDst(core *emu.Core, addr, size uint64) ([]byte, error) {
	if addr >= mem.WRAMBegin {
		buf, err := core.Memory().Map(core, addr)
		if err != nil {
			return nil, err
		}
		if size > uint64(len(buf)) {
			return nil, fmt.Errorf("section at 0x%X overflows its region", addr)
		}
		return buf[:size], nil
	}

	wram, err := core.Memory().Map(core, mem.WRAMBegin)
	if err != nil {
		return nil, err
	}
	if addr+size > uint64(len(wram)) {
		return nil, fmt.Errorf("section at 0x%X overflows working RAM", addr)
	}
	return wram[addr : addr+size], nil
}

// readSymbols extracts the named symbols. A missing symbol table is not
// an error; the program just loads without names.
func readSymbols(f *elf.File) ([]emu.Symbol, error) {
	raw, err := f.Symbols()
	if err == elf.ErrNoSymbols {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ELF: %w", err)
	}

	symbols := make([]emu.Symbol, 0, len(raw))
	for _, sym := range raw {
		if sym.Name == "" {
			continue
		}
		symbols = append(symbols, emu.Symbol{Address: sym.Value, Name: sym.Name})
	}
	return symbols, nil
}

func findSymbol(symbols []emu.Symbol, name string) *emu.Symbol {
	for i := range symbols {
		if symbols[i].Name == name {
			return &symbols[i]
		}
	}
	return nil
}

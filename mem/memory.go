// Package mem implements the byte-addressable memory collaborator of the
// AltairX K1 virtual machine. It routes accesses to the kernel ROM, the
// working RAM holding the program image, the MMIO window, and the querying
// core's scratch-pad, and optionally models a private data cache on the
// WRAM path.
package mem

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/axvm/insts"
)

// Region base addresses. The upper address bits select the region; the
// remainder is the offset into it.
const (
	ROMBegin  uint64 = 0x0000_0000
	WRAMBegin uint64 = 0x4000_0000
	MMIOBegin uint64 = 0x8000_0000
	SPMBegin  uint64 = 0xC000_0000
)

// Default region sizes: 128 KiB of kernel ROM and 2 MiB of working RAM.
// WRAM holds the program image and, for hosted programs, the stack at
// its top.
const (
	DefaultROMSize  = 128 * 1024
	DefaultWRAMSize = 2 * 1024 * 1024
)

// Core is the view of an execution core that memory needs to route
// scratch-pad accesses back to their owner.
type Core interface {
	ScratchPad() []byte
}

// Memory is the shared memory subsystem. It is not safe for concurrent
// mutation; the run-loop driver serializes access.
type Memory struct {
	rom   []byte
	wram  []byte
	cache *Cache
}

// Option configures a Memory.
type Option func(*Memory)

// WithROMSize sets the kernel ROM size in bytes.
func WithROMSize(n int) Option {
	return func(m *Memory) {
		m.rom = make([]byte, n)
	}
}

// WithWRAMSize sets the working RAM size in bytes.
func WithWRAMSize(n int) Option {
	return func(m *Memory) {
		m.wram = make([]byte, n)
	}
}

// WithCache installs a data cache model on the WRAM path. The cache is
// observational: it collects hit/miss statistics and latencies without
// changing what loads and stores return.
func WithCache(config CacheConfig) Option {
	return func(m *Memory) {
		m.cache = NewCache(config, &wramBacking{m})
	}
}

// New creates a Memory with zero-filled regions.
func New(opts ...Option) *Memory {
	m := &Memory{
		rom:  make([]byte, DefaultROMSize),
		wram: make([]byte, DefaultWRAMSize),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ROMSize returns the kernel ROM size in bytes.
func (m *Memory) ROMSize() int {
	return len(m.rom)
}

// WRAMSize returns the working RAM size in bytes.
func (m *Memory) WRAMSize() int {
	return len(m.wram)
}

// Cache returns the installed data cache model, or nil.
func (m *Memory) Cache() *Cache {
	return m.cache
}

// region resolves a byte address to its backing slice and offset. MMIO
// resolves to a nil slice; the callers treat it as read-zero write-discard.
func (m *Memory) region(c Core, addr uint64) ([]byte, uint64, error) {
	switch {
	case addr >= SPMBegin:
		spm := c.ScratchPad()
		off := addr - SPMBegin
		if off >= uint64(len(spm)) {
			return nil, 0, fmt.Errorf("scratch-pad address 0x%X out of range", addr)
		}
		return spm, off, nil
	case addr >= MMIOBegin:
		return nil, 0, nil
	case addr >= WRAMBegin:
		off := addr - WRAMBegin
		if off >= uint64(len(m.wram)) {
			return nil, 0, fmt.Errorf("WRAM address 0x%X out of range", addr)
		}
		return m.wram, off, nil
	default:
		if addr >= uint64(len(m.rom)) {
			return nil, 0, fmt.Errorf("ROM address 0x%X out of range", addr)
		}
		return m.rom, addr, nil
	}
}

// Load reads a little-endian value of 1<<size bytes at addr on behalf of
// core c. MMIO reads as zero. Out-of-range accesses panic; the core treats
// them as unrecoverable faults.
func (m *Memory) Load(c Core, addr uint64, size uint32) uint64 {
	count := 1 << (size & 3)
	buf, off, err := m.region(c, addr)
	if err != nil {
		panic(err.Error())
	}
	if buf == nil {
		return 0
	}
	if off+uint64(count) > uint64(len(buf)) {
		panic(fmt.Sprintf("load of %d bytes at 0x%X crosses region end", count, addr))
	}
	var value uint64
	for i := 0; i < count; i++ {
		value |= uint64(buf[off+uint64(i)]) << (8 * i)
	}
	if m.cache != nil && addr >= WRAMBegin && addr < MMIOBegin {
		m.cache.Read(addr, count)
	}
	return value
}

// Store writes the low 1<<size bytes of value at addr on behalf of core c.
// MMIO writes are discarded. Out-of-range accesses panic.
func (m *Memory) Store(c Core, value, addr uint64, size uint32) {
	count := 1 << (size & 3)
	buf, off, err := m.region(c, addr)
	if err != nil {
		panic(err.Error())
	}
	if buf == nil {
		return
	}
	if off+uint64(count) > uint64(len(buf)) {
		panic(fmt.Sprintf("store of %d bytes at 0x%X crosses region end", count, addr))
	}
	for i := 0; i < count; i++ {
		buf[off+uint64(i)] = byte(value >> (8 * i))
	}
	if m.cache != nil && addr >= WRAMBegin && addr < MMIOBegin {
		m.cache.Write(addr, count, value)
	}
}

// Map returns the backing bytes from addr to the end of its region. It is
// the zero-copy view used by program loading and by syscall handlers to
// translate guest pointers. Mapping MMIO or an out-of-range address fails.
func (m *Memory) Map(c Core, addr uint64) ([]byte, error) {
	buf, off, err := m.region(c, addr)
	if err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}
	if buf == nil {
		return nil, fmt.Errorf("map: MMIO address 0x%X has no backing", addr)
	}
	return buf[off:], nil
}

// FetchPair reads the instruction words at word addresses realPC and
// realPC+1 from WRAM. Fetch bypasses the cache model.
func (m *Memory) FetchPair(realPC uint32) (insts.Word, insts.Word) {
	off := uint64(realPC) * 4
	if off+8 > uint64(len(m.wram)) {
		panic(fmt.Sprintf("instruction fetch at word 0x%X outside WRAM", realPC))
	}
	first := insts.Word(binary.LittleEndian.Uint32(m.wram[off:]))
	second := insts.Word(binary.LittleEndian.Uint32(m.wram[off+4:]))
	return first, second
}

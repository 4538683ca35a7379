// Package emu implements the AltairX K1 execution core: the register
// file, the per-unit executors, the bundle dispatcher, and the syscall
// interlock that hands control to a host handler.
package emu

// Integer register roles. Registers 57..62 are the per-slot bypass
// registers behind the accumulator; reads of ACC resolve to the bypass
// of the reading unit and slot.
const (
	RegSP   uint32 = 0
	RegLR   uint32 = 31
	RegACC  uint32 = 56
	RegBA1  uint32 = 57
	RegBA2  uint32 = 58
	RegBF1  uint32 = 59
	RegBF2  uint32 = 60
	RegBL1  uint32 = 61
	RegBL2  uint32 = 62
	RegZero uint32 = 63
)

// FR flag masks. Only CMP and FCMP write these; only the BRU reads them.
const (
	FlagZ uint32 = 0x01
	FlagC uint32 = 0x02
	FlagN uint32 = 0x04
	FlagO uint32 = 0x08
	FlagU uint32 = 0x10
)

// RegFile holds the complete architectural state of one core. GPI and GPF
// are the integer and floating-point general registers; GPF stores raw
// bit patterns. PC and IR are word addresses.
type RegFile struct {
	GPI  [64]uint64
	GPF  [64]uint64
	MDU  [4]uint64
	EFUQ uint64

	LR uint32
	BR uint32
	LC uint32
	FR uint32
	PC uint32
	IR uint32
	CC uint32
	IC uint32
}

// Flag reports whether every bit of mask is set in FR.
func (r *RegFile) Flag(mask uint32) bool {
	return r.FR&mask == mask
}

// setFlag sets or clears the FR bits in mask.
func (r *RegFile) setFlag(mask uint32, on bool) {
	if on {
		r.FR |= mask
	} else {
		r.FR &^= mask
	}
}

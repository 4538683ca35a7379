package insts

import "fmt"

// RegName returns the assembly name of an integer register.
func RegName(reg uint32) string {
	switch {
	case reg == 0:
		return "sp"
	case reg >= 1 && reg <= 8:
		return fmt.Sprintf("a%d", reg-1)
	case reg >= 9 && reg <= 19:
		return fmt.Sprintf("s%d", reg-9)
	case reg >= 20 && reg <= 30:
		return fmt.Sprintf("t%d", reg-20)
	case reg == 31:
		return "lr"
	case reg >= 32 && reg <= 55:
		return fmt.Sprintf("n%d", reg-32)
	case reg == 56:
		return "acc"
	case reg == 63:
		return "zero"
	default:
		return fmt.Sprintf("r%d", reg)
	}
}

// FRegName returns the assembly name of a floating-point register.
func FRegName(reg uint32) string {
	return fmt.Sprintf("v%d", reg)
}

var mduRegNames = [4]string{"q", "qr", "pl", "ph"}

var sizeSuffixes = [4]string{".b", ".w", ".d", ".q"}

func fsizeSuffix(size uint32) string {
	switch size {
	case 0:
		return ".s"
	case 1:
		return ".d"
	default:
		return ".?"
	}
}

// shiftedReg renders a register operand with its optional scale.
func shiftedReg(reg, shift uint32) string {
	if shift > 0 {
		return fmt.Sprintf("%s << %d", RegName(reg), shift)
	}
	return RegName(reg)
}

func signExtend(value uint64, n uint32) int64 {
	mask := uint64(1) << (n - 1)
	return int64((value ^ mask) - mask)
}

// Disassemble renders one bundle as its two assembly lines. The second
// line is empty for an unpaired word and "moveix" when the second word
// only extends the first word's immediate.
func Disassemble(first, second Word) (string, string) {
	if !first.IsBundle() {
		return disasmWord(first, 0, 0), ""
	}

	var imm24 uint32
	if second.IsMoveix() {
		imm24 = second.MoveixImm24()
	}
	return disasmWord(first, 0, imm24), disasmWord(second, 1, imm24)
}

func disasmWord(w Word, slot, imm24 uint32) string {
	switch issue := slot<<3 | w.Unit(); issue {
	case 0, 1, 8, 9:
		return disasmALU(w, slot == 1, imm24)
	case 2, 10:
		return disasmLSU(w, imm24)
	case 3, 11:
		return disasmFPU(w)
	case 5:
		return disasmEFU(w)
	case 6:
		return disasmMDU(w, imm24)
	case 7:
		return disasmBRU(w, imm24)
	case 13:
		return disasmCU(w)
	default:
		return fmt.Sprintf(".word 0x%08X", uint32(w))
	}
}

// aluRight renders the shared ALU/MDU right operand.
func aluRight(w Word, imm24 uint32) string {
	if !w.HasImm() {
		return shiftedReg(w.RegC(), w.OperandShift())
	}
	imm := signExtend(uint64(w.Imm9()), 9) ^ int64(uint64(imm24)<<8)
	return fmt.Sprintf("%d", imm)
}

var aluNames = map[uint32]string{
	ALUMax: "max", ALUUmax: "umax", ALUMin: "min", ALUUmin: "umin",
	ALUAdds: "adds", ALUSubs: "subs",
	ALUAdd: "add", ALUSub: "sub", ALUXor: "xor", ALUOr: "or", ALUAnd: "and",
	ALULsl: "lsl", ALUAsr: "asr", ALULsr: "lsr",
	ALUSe: "se", ALUSen: "sen", ALUSlts: "slts", ALUSltu: "sltu",
	ALUSand: "sand", ALUSbit: "sbit", ALUCmoven: "cmoven", ALUCmove: "cmove",
}

func disasmALU(w Word, second bool, imm24 uint32) string {
	size := sizeSuffixes[w.Size()]
	out := RegName(w.RegA())
	left := RegName(w.RegB())

	switch op := w.ALUOp(); op {
	case ALUMoveix:
		if second {
			return "moveix"
		}
		return "nop"
	case ALUMovei:
		imm := signExtend(uint64(w.MoveImm18()), 18) ^ int64(uint64(imm24)<<18)
		return fmt.Sprintf("movei\t%s, %d", out, imm)
	case ALUExt:
		return fmt.Sprintf("ext\t%s, %s, %d, %d", out, left, w.ExtImm1(), w.ExtImm2())
	case ALUIns:
		return fmt.Sprintf("ins\t%s, %s, %d, %d", out, left, w.ExtImm1(), w.ExtImm2())
	case ALUCmp:
		return fmt.Sprintf("cmp%s\t%s, %s", size, left, aluRight(w, imm24))
	case ALUBit:
		return fmt.Sprintf("bit%s\t%s, %s", size, left, aluRight(w, imm24))
	case ALUTest:
		return fmt.Sprintf("test%s\t%s, %s", size, left, aluRight(w, imm24))
	case ALUTestfr:
		return fmt.Sprintf("testfr%s\t%s", size, aluRight(w, imm24))
	default:
		name, ok := aluNames[op]
		if !ok {
			return fmt.Sprintf(".word 0x%08X", uint32(w))
		}
		return fmt.Sprintf("%s%s\t%s, %s, %s", name, size, out, left, aluRight(w, imm24))
	}
}

func disasmMDU(w Word, imm24 uint32) string {
	size := sizeSuffixes[w.Size()]
	left := RegName(w.RegB())

	switch w.Opcode() {
	case MDUDiv:
		return fmt.Sprintf("div%s\t%s, %s", size, left, aluRight(w, imm24))
	case MDUDivu:
		return fmt.Sprintf("divu%s\t%s, %s", size, left, aluRight(w, imm24))
	case MDUMul:
		return fmt.Sprintf("mul%s\t%s, %s", size, left, aluRight(w, imm24))
	case MDUMulu:
		return fmt.Sprintf("mulu%s\t%s, %s", size, left, aluRight(w, imm24))
	case MDUGetmd:
		return fmt.Sprintf("move\t%s, %s", RegName(w.RegA()), mduRegNames[w.MDUPq()])
	case MDUSetmd:
		return fmt.Sprintf("move\t%s, %s", mduRegNames[w.MDUPq()], RegName(w.RegA()))
	default:
		return fmt.Sprintf(".word 0x%08X", uint32(w))
	}
}

func disasmLSU(w Word, imm24 uint32) string {
	size := sizeSuffixes[w.Size()]
	fsize := fsizeSuffix(w.Size())
	out := RegName(w.RegA())
	fout := FRegName(w.RegA())
	base := RegName(w.RegB())
	index := shiftedReg(w.RegC(), w.OperandShift())
	disp := fmt.Sprintf("%d", signExtend(uint64(w.LSUImm10()), 10)^int64(uint64(imm24)<<9))

	switch w.Opcode() {
	case LSULd:
		return fmt.Sprintf("ld%s\t%s, %s[%s]", size, out, base, index)
	case LSULds:
		return fmt.Sprintf("lds%s\t%s, %s[%s]", size, out, base, index)
	case LSUFld:
		return fmt.Sprintf("fld%s\t%s, %s[%s]", fsize, fout, base, index)
	case LSUSt:
		return fmt.Sprintf("st%s\t%s, %s[%s]", size, out, base, index)
	case LSUFst:
		return fmt.Sprintf("fst%s\t%s, %s[%s]", fsize, fout, base, index)
	case LSULdi:
		return fmt.Sprintf("ld%s\t%s, %s[%s]", size, out, base, disp)
	case LSULdis:
		return fmt.Sprintf("lds%s\t%s, %s[%s]", size, out, base, disp)
	case LSUFldi:
		return fmt.Sprintf("fld%s\t%s, %s[%s]", fsize, fout, base, disp)
	case LSUSti:
		return fmt.Sprintf("st%s\t%s, %s[%s]", size, out, base, disp)
	case LSUFsti:
		return fmt.Sprintf("fst%s\t%s, %s[%s]", fsize, fout, base, disp)
	default:
		return fmt.Sprintf(".word 0x%08X", uint32(w))
	}
}

// fpuNames maps opcode id to the arithmetic name and, for ids 0..7, the
// conversion name selected at size 3. unary marks one-operand forms.
var fpuNames = map[uint32]struct {
	name       string
	overlapped string
	unary      bool
}{
	FPUFadd:   {name: "fadd", overlapped: "htof"},
	FPUFsub:   {name: "fsub", overlapped: "ftoh"},
	FPUFmul:   {name: "fmul", overlapped: "itof"},
	FPUFnmul:  {name: "fnmul", overlapped: "ftoi"},
	FPUFmin:   {name: "fmin", overlapped: "ftod"},
	FPUFmax:   {name: "fmax", overlapped: "dtof"},
	FPUFneg:   {name: "fneg", overlapped: "itod", unary: true},
	FPUFabs:   {name: "fabs", overlapped: "dtoi", unary: true},
	FPUFmove:  {name: "fmove", unary: true},
	FPUFcmove: {name: "fcmove"},
	FPUFe:     {name: "fe"},
	FPUFen:    {name: "fen"},
	FPUFslt:   {name: "fslt"},
}

func disasmFPU(w Word) string {
	size := fsizeSuffix(w.Size())
	out := FRegName(w.RegA())
	left := FRegName(w.RegB())
	right := FRegName(w.RegC())

	if w.Opcode() == FPUFcmp {
		return fmt.Sprintf("fcmp%s\t%s, %s", size, left, right)
	}

	entry, ok := fpuNames[w.Opcode()]
	if !ok {
		return fmt.Sprintf(".word 0x%08X", uint32(w))
	}
	if w.Size() == 3 && entry.overlapped != "" {
		return fmt.Sprintf("%s\t%s, %s", entry.overlapped, out, left)
	}
	if entry.unary {
		return fmt.Sprintf("%s%s\t%s, %s", entry.name, size, out, left)
	}
	return fmt.Sprintf("%s%s\t%s, %s, %s", entry.name, size, out, left, right)
}

func disasmEFU(w Word) string {
	size := fsizeSuffix(w.Size())
	left := FRegName(w.RegB())

	switch w.Opcode() {
	case EFUFdiv:
		return fmt.Sprintf("fdiv%s\t%s, %s", size, left, FRegName(w.RegC()))
	case EFUFatan2:
		return fmt.Sprintf("fatan2%s\t%s, %s", size, left, FRegName(w.RegC()))
	case EFUFsqrt:
		return fmt.Sprintf("fsqrt%s\t%s", size, left)
	case EFUFsin:
		return fmt.Sprintf("fsin%s\t%s", size, left)
	case EFUFatan:
		return fmt.Sprintf("fatan%s\t%s", size, left)
	case EFUFexp:
		return fmt.Sprintf("fexp%s\t%s", size, left)
	case EFUInvsqrt:
		return fmt.Sprintf("finvsqrt%s\t%s", size, left)
	case EFUSetef:
		return fmt.Sprintf("setef\t%s", FRegName(w.RegA()))
	case EFUGetef:
		return fmt.Sprintf("getef\t%s", FRegName(w.RegA()))
	default:
		return fmt.Sprintf(".word 0x%08X", uint32(w))
	}
}

var brcNames = map[uint32]string{
	BRUBeq: "beq", BRUBne: "bne", BRUBlt: "blt", BRUBge: "bge",
	BRUBltu: "bltu", BRUBgeu: "bgeu", BRUBequ: "bequ", BRUBneu: "bneu",
}

func disasmBRU(w Word, imm24 uint32) string {
	rel23 := signExtend(uint64(w.BRUImm23()), 23) ^ int64(uint64(imm24)<<22)
	rel24 := signExtend(uint64(w.BRUImm24()), 24) ^ int64(uint64(imm24)<<23)
	abs24 := w.BRUImm24() | imm24<<24

	switch op := w.Opcode(); op {
	case BRUBra:
		return fmt.Sprintf("bra\t%d", rel24)
	case BRUCallr:
		return fmt.Sprintf("callr\t%d", rel24)
	case BRUJump:
		return fmt.Sprintf("jump\t%d", abs24)
	case BRUCall:
		return fmt.Sprintf("call\t%d", abs24)
	case BRUIndirectcallr:
		return fmt.Sprintf("callr\t%s, %s", RegName(w.RegB()), RegName(w.RegA()))
	case BRUIndirectcall:
		return fmt.Sprintf("call\t%s, %s", RegName(w.RegB()), RegName(w.RegA()))
	default:
		if name, ok := brcNames[op]; ok {
			return fmt.Sprintf("%s\t%d", name, rel23)
		}
		return fmt.Sprintf(".word 0x%08X", uint32(w))
	}
}

func disasmCU(w Word) string {
	switch w.Opcode() {
	case CUSyscall:
		return "syscall"
	case CUReti:
		return "reti"
	case CUGetir:
		return "getir"
	case CUSetfr:
		return "setfr"
	case CUMmu:
		return "mmu"
	case CUSync:
		return "sync"
	default:
		return fmt.Sprintf(".word 0x%08X", uint32(w))
	}
}

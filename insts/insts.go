package insts

// ALU operation ids. The effective id folds the unit bit in, so group A
// (unit 0) spans 0..15 and group B (unit 1) spans 16..31. MOVEIX is id 0
// in group A, which makes the all-zero word a NOP.
const (
	ALUMoveix uint32 = 0
	ALUMovei  uint32 = 1
	ALUExt    uint32 = 2
	ALUIns    uint32 = 3
	ALUMax    uint32 = 4
	ALUUmax   uint32 = 5
	ALUMin    uint32 = 6
	ALUUmin   uint32 = 7
	ALUAdds   uint32 = 8
	ALUSubs   uint32 = 9
	ALUCmp    uint32 = 10
	ALUBit    uint32 = 11
	ALUTest   uint32 = 12
	ALUTestfr uint32 = 13

	ALUAdd    uint32 = 16
	ALUSub    uint32 = 17
	ALUXor    uint32 = 18
	ALUOr     uint32 = 19
	ALUAnd    uint32 = 20
	ALULsl    uint32 = 21
	ALUAsr    uint32 = 22
	ALULsr    uint32 = 23
	ALUSe     uint32 = 24
	ALUSen    uint32 = 25
	ALUSlts   uint32 = 26
	ALUSltu   uint32 = 27
	ALUSand   uint32 = 28
	ALUSbit   uint32 = 29
	ALUCmoven uint32 = 30
	ALUCmove  uint32 = 31
)

// MDU operation ids.
const (
	MDUMul   uint32 = 0
	MDUMulu  uint32 = 1
	MDUDiv   uint32 = 2
	MDUDivu  uint32 = 3
	MDUGetmd uint32 = 4
	MDUSetmd uint32 = 5
)

// MDU register selectors for GETMD and SETMD.
const (
	MDUQ  uint32 = 0
	MDUQR uint32 = 1
	MDUPL uint32 = 2
	MDUPH uint32 = 3
)

// LSU operation ids. Register-indexed forms first, then the
// displacement forms with the i suffix.
const (
	LSULd   uint32 = 0
	LSULds  uint32 = 1
	LSUFld  uint32 = 2
	LSUSt   uint32 = 3
	LSUFst  uint32 = 4
	LSULdi  uint32 = 5
	LSULdis uint32 = 6
	LSUFldi uint32 = 7
	LSUSti  uint32 = 8
	LSUFsti uint32 = 9
)

// FPU operation ids. Opcodes 0..7 are overloaded at size 3 with the
// conversion forms.
const (
	FPUFadd   uint32 = 0
	FPUFsub   uint32 = 1
	FPUFmul   uint32 = 2
	FPUFnmul  uint32 = 3
	FPUFmin   uint32 = 4
	FPUFmax   uint32 = 5
	FPUFneg   uint32 = 6
	FPUFabs   uint32 = 7
	FPUFmove  uint32 = 8
	FPUFcmove uint32 = 9
	FPUFe     uint32 = 10
	FPUFen    uint32 = 11
	FPUFslt   uint32 = 12
	FPUFcmp   uint32 = 13

	FPUHtof uint32 = 0
	FPUFtoh uint32 = 1
	FPUItof uint32 = 2
	FPUFtoi uint32 = 3
	FPUFtod uint32 = 4
	FPUDtof uint32 = 5
	FPUItod uint32 = 6
	FPUDtoi uint32 = 7
)

// EFU operation ids.
const (
	EFUFdiv    uint32 = 0
	EFUFatan2  uint32 = 1
	EFUFsqrt   uint32 = 2
	EFUFsin    uint32 = 3
	EFUFatan   uint32 = 4
	EFUFexp    uint32 = 5
	EFUInvsqrt uint32 = 6
	EFUSetef   uint32 = 7
	EFUGetef   uint32 = 8
)

// BRU operation ids.
const (
	BRUBeq           uint32 = 0
	BRUBne           uint32 = 1
	BRUBlt           uint32 = 2
	BRUBge           uint32 = 3
	BRUBltu          uint32 = 4
	BRUBgeu          uint32 = 5
	BRUBequ          uint32 = 6
	BRUBneu          uint32 = 7
	BRUBra           uint32 = 8
	BRUJump          uint32 = 9
	BRUCall          uint32 = 10
	BRUCallr         uint32 = 11
	BRUIndirectcall  uint32 = 12
	BRUIndirectcallr uint32 = 13
)

// CU operation ids.
const (
	CUSyscall uint32 = 0
	CUReti    uint32 = 1
	CUGetir   uint32 = 2
	CUSetfr   uint32 = 3
	CUMmu     uint32 = 4
	CUSync    uint32 = 5
)

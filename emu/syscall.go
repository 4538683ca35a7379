package emu

import (
	"fmt"
	"io"
)

// Syscall ids of the reference host ABI. GPR 1 carries the id on entry
// and the result on return; GPR 2 onward carry the arguments.
const (
	SyscallExit       uint64 = 1
	SyscallStdioRead  uint64 = 2
	SyscallStdioWrite uint64 = 3
)

// SyscallResult is what a handler reports back to the driver.
type SyscallResult struct {
	// Exited is true when the guest asked to terminate.
	Exited bool

	// ExitCode is the guest exit status when Exited is true.
	ExitCode int64
}

// SyscallHandler resolves one syscall against the core state. The handler
// observes the parked state (PC at the vector, IR holding the return
// address) and may mutate GPRs and guest memory.
type SyscallHandler interface {
	Handle(core *Core) SyscallResult
}

// SyscallHandlerFunc adapts a function to the SyscallHandler interface.
type SyscallHandlerFunc func(core *Core) SyscallResult

// Handle calls f.
func (f SyscallHandlerFunc) Handle(core *Core) SyscallResult {
	return f(core)
}

// DefaultSyscallHandler implements the reference ABI over a file
// descriptor table. Unknown ids panic; the guest and host disagree about
// the ABI and there is no way to continue.
type DefaultSyscallHandler struct {
	fdTable *FDTable
}

// NewDefaultSyscallHandler creates a handler over the standard streams.
func NewDefaultSyscallHandler() *DefaultSyscallHandler {
	return &DefaultSyscallHandler{fdTable: NewFDTable()}
}

// FDTable returns the descriptor table so callers can rebind streams.
func (h *DefaultSyscallHandler) FDTable() *FDTable {
	return h.fdTable
}

// Handle resolves the syscall identified by GPR 1.
func (h *DefaultSyscallHandler) Handle(core *Core) SyscallResult {
	regs := core.Regs()

	switch id := regs.GPI[1]; id {
	case SyscallExit:
		return SyscallResult{Exited: true, ExitCode: int64(regs.GPI[2])}

	case SyscallStdioRead:
		regs.GPI[1] = h.read(core, regs.GPI[2], regs.GPI[3], regs.GPI[4])
		return SyscallResult{}

	case SyscallStdioWrite:
		regs.GPI[1] = h.write(core, regs.GPI[2], regs.GPI[3], regs.GPI[4])
		return SyscallResult{}

	default:
		panic(fmt.Sprintf("unknown syscall id %d", id))
	}
}

// read fills guest memory at ptr with up to size bytes from fd and
// returns the byte count. EOF and unreadable descriptors return 0.
func (h *DefaultSyscallHandler) read(core *Core, fd, ptr, size uint64) uint64 {
	reader := h.fdTable.Reader(fd)
	if reader == nil {
		return 0
	}

	buf, err := core.Memory().Map(core, ptr)
	if err != nil {
		panic(fmt.Sprintf("stdio_read: %v", err))
	}
	if size < uint64(len(buf)) {
		buf = buf[:size]
	}

	n, err := reader.Read(buf)
	if err != nil && err != io.EOF {
		return 0
	}
	return uint64(n)
}

// write copies size bytes of guest memory at ptr to fd and returns the
// byte count written.
func (h *DefaultSyscallHandler) write(core *Core, fd, ptr, size uint64) uint64 {
	writer := h.fdTable.Writer(fd)
	if writer == nil {
		return 0
	}

	buf, err := core.Memory().Map(core, ptr)
	if err != nil {
		panic(fmt.Sprintf("stdio_write: %v", err))
	}
	if size < uint64(len(buf)) {
		buf = buf[:size]
	}

	n, err := writer.Write(buf)
	if err != nil {
		return 0
	}
	return uint64(n)
}

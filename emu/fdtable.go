package emu

import (
	"io"
	"os"
)

// FileDescriptor binds a guest file descriptor to host streams. A
// descriptor readable and writable at once is allowed but the standard
// streams only populate one side.
type FileDescriptor struct {
	Reader io.Reader
	Writer io.Writer
}

// FDTable maps guest file descriptors to host streams for the syscall
// handler. Descriptors 0, 1, and 2 are pre-bound to the process standard
// streams and can be rebound for tests.
type FDTable struct {
	fds map[uint64]*FileDescriptor
}

// NewFDTable creates a table with the standard streams bound.
func NewFDTable() *FDTable {
	return &FDTable{
		fds: map[uint64]*FileDescriptor{
			0: {Reader: os.Stdin},
			1: {Writer: os.Stdout},
			2: {Writer: os.Stderr},
		},
	}
}

// Bind replaces the streams behind fd.
func (t *FDTable) Bind(fd uint64, reader io.Reader, writer io.Writer) {
	t.fds[fd] = &FileDescriptor{Reader: reader, Writer: writer}
}

// Reader returns the read side of fd, or nil when fd is not readable.
func (t *FDTable) Reader(fd uint64) io.Reader {
	if entry, ok := t.fds[fd]; ok {
		return entry.Reader
	}
	return nil
}

// Writer returns the write side of fd, or nil when fd is not writable.
func (t *FDTable) Writer(fd uint64) io.Writer {
	if entry, ok := t.fds[fd]; ok {
		return entry.Writer
	}
	return nil
}

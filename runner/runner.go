// Package runner drives a core on a worker goroutine. It owns the
// program lifecycle: load, start, pause, resume, stop, with breakpoint
// honoring and syscall handoff.
package runner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/axvm/emu"
	"github.com/sarchlab/axvm/loader"
	"github.com/sarchlab/axvm/mem"
)

// DefaultCycleSlice is how many cycles the worker runs between status
// checks. Larger slices cost pause latency, smaller ones throughput.
const DefaultCycleSlice = 8 * 1024

// Runner executes a guest program on a fresh core per load. The core
// and memory are rebuilt on every load so no state leaks between
// programs.
type Runner struct {
	core   *emu.Core
	memory *mem.Memory

	status atomic.Int32
	loopMu sync.Mutex

	cycleSlice int
	handler    emu.SyscallHandler
	memOpts    []mem.Option
	coreOpts   []emu.CoreOption
	log        *logrus.Entry

	exited   atomic.Bool
	exitCode atomic.Int64
}

// Option configures a Runner.
type Option func(*Runner)

// WithCycleSlice sets how many cycles run between status checks.
func WithCycleSlice(n int) Option {
	return func(r *Runner) {
		r.cycleSlice = n
	}
}

// WithSyscallHandler sets the handler syscalls resolve through. The
// default handler serves the reference ABI over the standard streams.
func WithSyscallHandler(h emu.SyscallHandler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithMemoryOptions forwards options to the memory built on each load.
func WithMemoryOptions(opts ...mem.Option) Option {
	return func(r *Runner) {
		r.memOpts = opts
	}
}

// WithCoreOptions forwards options to the core built on each load.
func WithCoreOptions(opts ...emu.CoreOption) Option {
	return func(r *Runner) {
		r.coreOpts = opts
	}
}

// WithLogger routes runner logging through log.
func WithLogger(log *logrus.Logger) Option {
	return func(r *Runner) {
		r.log = log.WithField("component", "runner")
	}
}

// New creates a stopped runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		cycleSlice: DefaultCycleSlice,
		handler:    emu.NewDefaultSyscallHandler(),
		log:        logrus.StandardLogger().WithField("component", "runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Core returns the current core, or nil before the first load. The core
// must only be inspected while the runner is not Running.
func (r *Runner) Core() *emu.Core {
	return r.core
}

// Memory returns the current memory, or nil before the first load.
func (r *Runner) Memory() *mem.Memory {
	return r.memory
}

// Status returns the current status.
func (r *Runner) Status() Status {
	return Status(r.status.Load())
}

// Exited reports whether the guest terminated through the exit syscall,
// and with which code.
func (r *Runner) Exited() (int64, bool) {
	return r.exitCode.Load(), r.exited.Load()
}

// LoadRawFile stops any running program and loads a flat executable.
func (r *Runner) LoadRawFile(path string) error {
	return r.load(func(core *emu.Core) error {
		return loader.LoadRawFile(core, path)
	})
}

// LoadELFFile stops any running program and loads an ELF executable
// starting at the named entry symbol.
func (r *Runner) LoadELFFile(path, entry string) error {
	return r.load(func(core *emu.Core) error {
		return loader.LoadELFFile(core, path, entry)
	})
}

// LoadHostedFile stops any running program and loads a hosted ELF
// program with the given argv.
func (r *Runner) LoadHostedFile(path string, argv []string) error {
	return r.load(func(core *emu.Core) error {
		return loader.LoadHostedFile(core, path, argv)
	})
}

// load rebuilds the memory and core, runs the load function, and moves
// the runner to Ready.
func (r *Runner) load(loadFn func(*emu.Core) error) error {
	r.setStatus(StatusStopped)
	r.Wait()

	memory := mem.New(r.memOpts...)
	core := emu.NewCore(memory, r.coreOpts...)
	if err := loadFn(core); err != nil {
		return err
	}

	r.memory = memory
	r.core = core
	r.exited.Store(false)
	r.exitCode.Store(0)
	r.setStatus(StatusReady)
	return nil
}

// Start launches the worker goroutine. paused starts the program in the
// Paused state so breakpoints can be placed first. Start reports false
// when no program is ready.
func (r *Runner) Start(paused bool) bool {
	next := StatusRunning
	if paused {
		next = StatusPaused
	}
	if !r.cas(StatusReady, next) {
		return false
	}
	// The worker's lock is taken here so a Wait right after Start blocks.
	r.loopMu.Lock()
	go r.run()
	return true
}

// Pause suspends execution. It reports false unless the runner was
// Running.
func (r *Runner) Pause() bool {
	return r.cas(StatusRunning, StatusPaused)
}

// Resume continues a paused program. It reports false unless the runner
// was Paused.
func (r *Runner) Resume() bool {
	return r.cas(StatusPaused, StatusRunning)
}

// Stop forces the runner to Stopped regardless of state. The worker
// leaves on its next status check; use Wait to join it.
func (r *Runner) Stop() {
	r.setStatus(StatusStopped)
}

// Wait blocks until the worker goroutine has left its loop.
func (r *Runner) Wait() {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
}

// Step executes a single cycle while paused, resolving any syscall it
// raises. It reports false unless the runner is Paused.
func (r *Runner) Step() bool {
	if r.Status() != StatusPaused {
		return false
	}
	r.core.Cycle()
	r.takeSyscall()
	return true
}

// Run starts the program and blocks until it stops. It returns the
// guest exit code when the program terminated through the exit syscall.
func (r *Runner) Run() (int64, bool) {
	if !r.Start(false) {
		return 0, false
	}
	r.Wait()
	return r.Exited()
}

// run is the worker loop. One iteration runs a slice of cycles, then
// re-reads the status so pause and stop requests take effect. Start
// locks loopMu for the worker; run releases it on exit.
func (r *Runner) run() {
	defer r.loopMu.Unlock()
	defer func() {
		if v := recover(); v != nil {
			r.log.WithField("error", v).Error("core panic")
		}
		r.setStatus(StatusStopped)
	}()

	start := time.Now()
	cycles := uint64(0)

	for {
		switch r.Status() {
		case StatusRunning:
		case StatusPaused:
			time.Sleep(time.Millisecond)
			start, cycles = time.Now(), 0
			continue
		default:
			return
		}

		cycles += r.runSlice()

		if elapsed := time.Since(start); elapsed > time.Second {
			mhz := float64(cycles) / elapsed.Seconds() / 1e6
			r.log.WithField("mhz", mhz).Info("frequency")
			start, cycles = time.Now(), 0
		}

		if code := r.core.Error(); code != 0 {
			r.log.WithField("code", code).Error("core error")
			return
		}
	}
}

// runSlice cycles the core until the slice is exhausted, a breakpoint
// or core error hits, or a syscall changes the runner state. It returns
// how many cycles actually ran.
func (r *Runner) runSlice() uint64 {
	for cycle := 0; cycle < r.cycleSlice; cycle++ {
		if r.core.Error() != 0 {
			return uint64(cycle)
		}

		if bp := r.core.HitBreakpoint(); bp != nil && bp.Enabled {
			r.log.WithField("address", bp.Address).Info("breakpoint hit")
			r.setStatus(StatusPaused)
			return uint64(cycle)
		}

		r.core.Cycle()

		if r.takeSyscall() && r.Status() != StatusRunning {
			return uint64(cycle) + 1
		}
	}
	return uint64(r.cycleSlice)
}

// takeSyscall resolves a pending syscall and stops the runner when the
// guest exits.
func (r *Runner) takeSyscall() bool {
	result, ok := r.core.TakeSyscall(r.handler)
	if !ok {
		return false
	}
	if result.Exited {
		r.exitCode.Store(result.ExitCode)
		r.exited.Store(true)
		r.log.WithField("code", result.ExitCode).Debug("guest exit")
		r.setStatus(StatusStopped)
	}
	return true
}

func (r *Runner) setStatus(s Status) {
	old := Status(r.status.Swap(int32(s)))
	if old != s {
		r.log.WithField("status", s.String()).Debug("status changed")
	}
}

func (r *Runner) cas(expect, next Status) bool {
	if !r.status.CompareAndSwap(int32(expect), int32(next)) {
		return false
	}
	r.log.WithField("status", next.String()).Debug("status changed")
	return true
}

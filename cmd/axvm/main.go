// Package main provides the entry point for AxVM.
// AxVM is a functional emulator for the AltairX K1 VLIW CPU.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/axvm/loader"
	"github.com/sarchlab/axvm/mem"
	"github.com/sarchlab/axvm/runner"
)

var (
	hosted    = flag.Bool("hosted", false, "Run as a hosted program with argc/argv")
	raw       = flag.Bool("raw", false, "Load as a flat raw image instead of ELF")
	entry     = flag.String("entry", loader.DefaultEntryPoint, "ELF entry symbol")
	kernel    = flag.String("kernel", "", "Kernel image loaded into ROM")
	withCache = flag.Bool("cache", false, "Model the data cache and report statistics")
	verbose   = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: axvm [options] <program> [guest args...]\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	var memOpts []mem.Option
	if *withCache {
		memOpts = append(memOpts, mem.WithCache(mem.DefaultCacheConfig()))
	}

	r := runner.New(
		runner.WithLogger(log),
		runner.WithMemoryOptions(memOpts...),
	)

	programPath := flag.Arg(0)
	if err := loadProgram(r, programPath); err != nil {
		log.WithError(err).Fatal("failed to load program")
	}
	if *kernel != "" {
		if err := loader.LoadKernelFile(r.Core(), *kernel); err != nil {
			log.WithError(err).Fatal("failed to load kernel")
		}
	}

	code, exited := r.Run()
	if !exited {
		log.Error("program stopped without exiting")
		os.Exit(1)
	}

	if *verbose {
		regs := r.Core().Regs()
		fmt.Printf("\nProgram: %s\n", programPath)
		fmt.Printf("Exit code: %d\n", code)
		fmt.Printf("Cycles: %d\n", regs.CC)
		fmt.Printf("Instructions: %d\n", regs.IC)
		if *withCache {
			printCacheStats(r.Memory())
		}
	}

	os.Exit(int(code))
}

// loadProgram picks the load mode from the flags. Guest arguments after
// the program path are forwarded to hosted programs.
func loadProgram(r *runner.Runner, path string) error {
	switch {
	case *hosted:
		argv := append([]string{path}, flag.Args()[1:]...)
		return r.LoadHostedFile(path, argv)
	case *raw:
		return r.LoadRawFile(path)
	default:
		return r.LoadELFFile(path, *entry)
	}
}

func printCacheStats(memory *mem.Memory) {
	stats := memory.Cache().Stats()
	accesses := stats.Hits + stats.Misses
	if accesses == 0 {
		accesses = 1
	}
	fmt.Printf("\nData cache:\n")
	fmt.Printf("  Reads:      %d\n", stats.Reads)
	fmt.Printf("  Writes:     %d\n", stats.Writes)
	fmt.Printf("  Hits:       %d\n", stats.Hits)
	fmt.Printf("  Misses:     %d\n", stats.Misses)
	fmt.Printf("  Hit rate:   %.1f%%\n", 100.0*float64(stats.Hits)/float64(accesses))
	fmt.Printf("  Evictions:  %d\n", stats.Evictions)
	fmt.Printf("  Writebacks: %d\n", stats.Writebacks)
}

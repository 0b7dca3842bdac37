package cmd

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/spiffcs/issues-watcher/internal/log"
)

// profiler writes CPU, heap and execution-trace profiles of a snapshot run.
// Empty paths disable the corresponding profile.
type profiler struct {
	cpuPath, memPath, tracePath string
	cpuFile, traceFile          *os.File
}

func newProfiler(opts *Options) *profiler {
	return &profiler{cpuPath: opts.CPUProfile, memPath: opts.MemProfile, tracePath: opts.Trace}
}

// Start begins CPU profiling and execution tracing if configured.
func (p *profiler) Start() error {
	if p.cpuPath != "" {
		f, err := os.Create(p.cpuPath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		p.cpuFile = f
	}

	if p.tracePath != "" {
		f, err := os.Create(p.tracePath)
		if err != nil {
			p.stopCPU()
			return fmt.Errorf("could not create trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			f.Close()
			p.stopCPU()
			return fmt.Errorf("could not start trace: %w", err)
		}
		p.traceFile = f
	}
	return nil
}

// Stop ends all profiling and writes the heap profile if configured.
func (p *profiler) Stop() {
	if p.traceFile != nil {
		trace.Stop()
		closeLogged(p.traceFile, "trace")
		p.traceFile = nil
	}
	p.stopCPU()

	if p.memPath == "" {
		return
	}
	f, err := os.Create(p.memPath)
	if err != nil {
		log.Warn("could not create memory profile", "error", err)
		return
	}
	defer closeLogged(f, "memory profile")
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Warn("could not write memory profile", "error", err)
	}
}

func (p *profiler) stopCPU() {
	if p.cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	closeLogged(p.cpuFile, "CPU profile")
	p.cpuFile = nil
}

func closeLogged(f *os.File, what string) {
	if err := f.Close(); err != nil {
		log.Warn("could not close "+what, "error", err)
	}
}

package model

import "time"

// Proc is one process as observed by a single sampling pass.
type Proc struct {
	Pid       int32
	Ppid      int32
	Program   string  // short name from the process table
	Command   string  // joined argument list, or a sentinel (see sampler)
	Threads   int32
	User      string  // resolved name, "unknown" when resolution fails
	Resident  uint64  // resident set size in bytes
	History   History // recent CPU readings, oldest first
	Sparkline string  // History compressed to glyphs, two samples per cell
	CPU       float64 // latest reading, percent in [0, 100]
}

// Snapshot is the complete process table produced by one sampling pass,
// keyed by pid. A pass always builds a fresh Snapshot; a published one
// is never mutated, so the consumer side may hold it without copying.
type Snapshot struct {
	Taken time.Time
	Procs map[int32]Proc
}

func (s Snapshot) Len() int { return len(s.Procs) }

package sampler

import (
	"context"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// RawProc is one process descriptor as read from the OS, before any
// utilization estimation. Fields that could not be read carry their
// sentinel (see readProc); a descriptor whose stat line is gone entirely
// is dropped by the enumerator instead.
type RawProc struct {
	Pid        int32
	Ppid       int32
	Name       string
	Cmdline    string
	Threads    int32
	Resident   uint64
	User       string
	CPUSeconds float64   // accumulated user+system time
	Started    time.Time // process start, zero when unreadable
}

// Enumerator yields the current process table, one descriptor per
// visible process. A single unreadable process is skipped; an error is
// returned only when the table itself cannot be read.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]RawProc, error)
}

// CmdlineUnreadable stands in for the command of a process that exited
// between discovery and detail read.
const CmdlineUnreadable = "<zombie>"

// UserUnknown stands in for an owner whose uid could not be resolved.
const UserUnknown = "unknown"

type procEnumerator struct {
	log *slog.Logger
}

// NewEnumerator returns the gopsutil-backed process table reader.
func NewEnumerator(log *slog.Logger) Enumerator {
	return &procEnumerator{log: log}
}

func (e *procEnumerator) Enumerate(ctx context.Context) ([]RawProc, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RawProc, 0, len(procs))
	for _, p := range procs {
		raw, ok := e.readProc(ctx, p)
		if !ok {
			continue
		}
		out = append(out, raw)
	}
	return out, nil
}

// readProc gathers per-process fields, tolerating individual read
// failures. Only a missing name (stat gone, process exited) drops the
// descriptor; everything else degrades to a sentinel or zero.
func (e *procEnumerator) readProc(ctx context.Context, p *process.Process) (RawProc, bool) {
	name, err := p.NameWithContext(ctx)
	if err != nil {
		e.log.Debug("process vanished mid-enumeration", "pid", p.Pid, "error", err)
		return RawProc{}, false
	}

	raw := RawProc{Pid: p.Pid, Name: name}

	if ppid, err := p.PpidWithContext(ctx); err == nil {
		raw.Ppid = ppid
	}

	switch cmd, err := p.CmdlineWithContext(ctx); {
	case err != nil:
		raw.Cmdline = CmdlineUnreadable
	case cmd == "":
		// Kernel threads have an empty cmdline; show the name the way
		// the process table does.
		raw.Cmdline = "[" + name + "]"
	default:
		raw.Cmdline = cmd
	}

	if threads, err := p.NumThreadsWithContext(ctx); err == nil {
		raw.Threads = threads
	}
	if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
		raw.Resident = mi.RSS
	}
	if user, err := p.UsernameWithContext(ctx); err == nil && user != "" {
		raw.User = user
	} else {
		raw.User = UserUnknown
	}
	if times, err := p.TimesWithContext(ctx); err == nil {
		raw.CPUSeconds = times.User + times.System
	}
	if created, err := p.CreateTimeWithContext(ctx); err == nil {
		raw.Started = time.UnixMilli(created)
	}
	return raw, true
}

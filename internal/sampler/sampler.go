// Package sampler reads the OS on its own schedule and publishes
// immutable snapshots through latest-wins slots. Nothing here runs on
// the render path.
package sampler

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/brtdev/brt/internal/config"
	"github.com/brtdev/brt/internal/model"
	"github.com/brtdev/brt/internal/refresh"
)

// Sampler produces one complete process Snapshot per cycle. CPU history
// is carried across cycles by pid; pids absent from a pass lose theirs.
type Sampler struct {
	interval   time.Duration
	historyLen int
	thresholds model.Thresholds
	cores      int

	enum Enumerator
	out  *refresh.Slot[model.Snapshot]
	log  *slog.Logger

	now  func() time.Time
	prev map[int32]model.Proc
}

func New(cfg config.Config, enum Enumerator, out *refresh.Slot[model.Snapshot], log *slog.Logger) *Sampler {
	cores, err := cpu.Counts(true)
	if err != nil || cores <= 0 {
		cores = runtime.NumCPU()
		log.Warn("core count unavailable, using runtime.NumCPU", "cores", cores, "error", err)
	}
	return &Sampler{
		interval:   cfg.Interval,
		historyLen: cfg.HistoryLen,
		thresholds: model.Thresholds(cfg.Thresholds),
		cores:      cores,
		enum:       enum,
		out:        out,
		log:        log,
		now:        time.Now,
		prev:       make(map[int32]model.Proc),
	}
}

// Run samples on a fixed period until ctx is done. A failed cycle
// publishes nothing, so the consumer keeps its last good snapshot; the
// next tick simply tries again.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := s.SampleOnce(ctx)
			if err != nil {
				s.log.Warn("process enumeration failed, keeping previous snapshot", "error", err)
				continue
			}
			s.out.Publish(snap)
		}
	}
}

// SampleOnce enumerates every visible process and assembles a fresh
// Snapshot. Individual processes may have been skipped upstream; only a
// total enumeration failure is an error.
func (s *Sampler) SampleOnce(ctx context.Context) (model.Snapshot, error) {
	raws, err := s.enum.Enumerate(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	now := s.now()
	procs := make(map[int32]model.Proc, len(raws))
	for _, raw := range raws {
		pct := s.estimate(raw, now)
		hist := model.NewHistory(s.historyLen)
		if old, ok := s.prev[raw.Pid]; ok {
			hist = old.History
		}
		hist = hist.Push(pct)
		procs[raw.Pid] = model.Proc{
			Pid:       raw.Pid,
			Ppid:      raw.Ppid,
			Program:   raw.Name,
			Command:   raw.Cmdline,
			Threads:   raw.Threads,
			User:      raw.User,
			Resident:  raw.Resident,
			History:   hist,
			Sparkline: model.Sparkline(hist.Values(), s.thresholds),
			CPU:       pct,
		}
	}
	s.prev = procs
	return model.Snapshot{Taken: now, Procs: procs}, nil
}

// estimate converts accumulated CPU time into a lifetime-average
// percentage, normalized by core count so the result stays in [0, 100].
// Inconsistent accounting (zero or negative runtime, counter past the
// lifetime) clamps and logs instead of propagating.
func (s *Sampler) estimate(raw RawProc, now time.Time) float64 {
	if raw.Started.IsZero() {
		return 0
	}
	runtimeSec := now.Sub(raw.Started).Seconds()
	if runtimeSec <= 0 {
		s.log.Debug("non-positive runtime, reporting 0", "pid", raw.Pid, "runtime", runtimeSec)
		return 0
	}
	pct := raw.CPUSeconds * 100 / runtimeSec / float64(s.cores)
	if pct < 0 {
		s.log.Debug("negative cpu estimate clamped", "pid", raw.Pid, "pct", pct)
		return 0
	}
	if pct > 100 {
		s.log.Debug("cpu estimate above 100 clamped", "pid", raw.Pid, "pct", pct)
		return 100
	}
	return pct
}

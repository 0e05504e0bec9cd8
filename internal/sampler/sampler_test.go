package sampler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brtdev/brt/internal/config"
	"github.com/brtdev/brt/internal/model"
	"github.com/brtdev/brt/internal/refresh"
)

type fakeEnum struct {
	passes [][]RawProc
	errs   []error
	calls  int
}

func (f *fakeEnum) Enumerate(context.Context) ([]RawProc, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.passes) {
		return nil, nil
	}
	return f.passes[i], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSampler(enum Enumerator, out *refresh.Slot[model.Snapshot]) *Sampler {
	cfg := config.Default()
	cfg.HistoryLen = 3
	s := New(cfg, enum, out, discardLogger())
	s.cores = 4
	s.now = func() time.Time { return time.Unix(1000, 0) }
	return s
}

func TestSampleOnceBuildsSnapshot(t *testing.T) {
	started := time.Unix(900, 0) // 100s of runtime at the fake clock
	enum := &fakeEnum{passes: [][]RawProc{{
		{Pid: 1, Name: "init", Cmdline: "/sbin/init", Threads: 1, User: "root", Resident: 4096, CPUSeconds: 40, Started: started},
		{Pid: 2, Name: "kthreadd", Cmdline: "[kthreadd]", Threads: 1, User: "root", Started: started},
	}}}
	s := newTestSampler(enum, refresh.NewSlot[model.Snapshot]())

	snap, err := s.SampleOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if snap.Len() != 2 {
		t.Fatalf("want 2 procs, got %d", snap.Len())
	}
	p := snap.Procs[1]
	// 40 cpu-seconds over 100s of runtime on 4 cores = 10%.
	if p.CPU != 10 {
		t.Errorf("cpu: want 10, got %v", p.CPU)
	}
	if p.History.Len() != 1 || p.History.Latest() != 10 {
		t.Errorf("history: want one reading of 10, got %v", p.History.Values())
	}
	if p.Sparkline == "" {
		t.Error("sparkline should not be empty after a reading")
	}
}

func TestHistoryCarriedForwardByPid(t *testing.T) {
	started := time.Unix(900, 0)
	mk := func(cpuSec float64) []RawProc {
		return []RawProc{{Pid: 7, Name: "worker", Started: started, CPUSeconds: cpuSec}}
	}
	enum := &fakeEnum{passes: [][]RawProc{mk(40), mk(80), mk(120), mk(160)}}
	s := newTestSampler(enum, refresh.NewSlot[model.Snapshot]())

	var snap model.Snapshot
	for i := 0; i < 4; i++ {
		var err error
		snap, err = s.SampleOnce(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
	h := snap.Procs[7].History
	// Capacity 3: the first reading (10) was evicted.
	want := []float64{20, 30, 40}
	if h.Len() != len(want) {
		t.Fatalf("history length: want %d, got %d", len(want), h.Len())
	}
	for i, v := range h.Values() {
		if v != want[i] {
			t.Errorf("history[%d]: want %v, got %v", i, want[i], v)
		}
	}
}

func TestVanishedPidDropsHistory(t *testing.T) {
	started := time.Unix(900, 0)
	enum := &fakeEnum{passes: [][]RawProc{
		{{Pid: 7, Name: "worker", Started: started, CPUSeconds: 40}},
		{}, // pid 7 gone
		{{Pid: 7, Name: "worker", Started: started, CPUSeconds: 40}}, // pid reused
	}}
	s := newTestSampler(enum, refresh.NewSlot[model.Snapshot]())

	for i := 0; i < 2; i++ {
		if _, err := s.SampleOnce(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	snap, err := s.SampleOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := snap.Procs[7].History.Len(); got != 1 {
		t.Fatalf("reused pid should start a fresh history, got %d readings", got)
	}
}

func TestEnumerationFailurePublishesNothing(t *testing.T) {
	started := time.Unix(900, 0)
	enum := &fakeEnum{
		passes: [][]RawProc{
			{{Pid: 1, Name: "init", Started: started, CPUSeconds: 4}},
			nil,
		},
		errs: []error{nil, errors.New("cannot open process table")},
	}
	out := refresh.NewSlot[model.Snapshot]()
	s := newTestSampler(enum, out)

	snap, err := s.SampleOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	out.Publish(snap)

	if _, err := s.SampleOnce(context.Background()); err == nil {
		t.Fatal("second pass should fail")
	}
	// The slot still holds the first (last good) snapshot.
	got, ok := out.Poll()
	if !ok || got.Len() != 1 {
		t.Fatalf("last good snapshot lost: ok=%v len=%d", ok, got.Len())
	}
}

func TestEstimateDefinedOnBadAccounting(t *testing.T) {
	s := newTestSampler(&fakeEnum{}, refresh.NewSlot[model.Snapshot]())
	now := time.Unix(1000, 0)

	cases := []struct {
		name string
		raw  RawProc
		want float64
	}{
		{"zero start time", RawProc{Pid: 1, CPUSeconds: 5}, 0},
		{"started in the future", RawProc{Pid: 1, CPUSeconds: 5, Started: time.Unix(2000, 0)}, 0},
		{"started right now", RawProc{Pid: 1, CPUSeconds: 5, Started: now}, 0},
		{"counter past lifetime", RawProc{Pid: 1, CPUSeconds: 1e9, Started: time.Unix(999, 0)}, 100},
		{"normal", RawProc{Pid: 1, CPUSeconds: 200, Started: time.Unix(900, 0)}, 50},
	}
	for _, c := range cases {
		if got := s.estimate(c.raw, now); got != c.want {
			t.Errorf("%s: want %v, got %v", c.name, c.want, got)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newTestSampler(&fakeEnum{}, refresh.NewSlot[model.Snapshot]())
	s.interval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

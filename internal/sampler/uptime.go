package sampler

import (
	"context"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/brtdev/brt/internal/refresh"
)

// UptimePoller publishes the system uptime on a fixed cadence. A failed
// read skips the publish; the consumer keeps the previous value.
type UptimePoller struct {
	Interval time.Duration
	out      *refresh.Slot[time.Duration]
	log      *slog.Logger
}

func NewUptimePoller(interval time.Duration, out *refresh.Slot[time.Duration], log *slog.Logger) *UptimePoller {
	return &UptimePoller{Interval: interval, out: out, log: log}
}

func (p *UptimePoller) Run(ctx context.Context) {
	p.poll(ctx)
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *UptimePoller) poll(ctx context.Context) {
	secs, err := host.UptimeWithContext(ctx)
	if err != nil {
		p.log.Debug("uptime read failed", "error", err)
		return
	}
	p.out.Publish(time.Duration(secs) * time.Second)
}

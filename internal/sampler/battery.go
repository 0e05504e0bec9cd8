package sampler

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/brtdev/brt/internal/refresh"
)

// Battery is a single power-supply reading. The zero value means no
// battery was found, which is not an error on desktops.
type Battery struct {
	Percent float64
	State   string // Charging, Discharging, Full, ...
}

func (b Battery) Present() bool { return b.State != "" }

// Symbol maps the kernel's status string to a one-cell glyph.
func (b Battery) Symbol() string {
	switch b.State {
	case "Charging":
		return "▲"
	case "Discharging":
		return "▼"
	case "Full":
		return "●"
	case "Empty":
		return "○"
	default:
		return "?"
	}
}

// BatteryPoller reads /sys/class/power_supply on its own cadence and
// publishes the first battery found.
type BatteryPoller struct {
	Interval time.Duration
	out      *refresh.Slot[Battery]
	log      *slog.Logger
}

func NewBatteryPoller(interval time.Duration, out *refresh.Slot[Battery], log *slog.Logger) *BatteryPoller {
	return &BatteryPoller{Interval: interval, out: out, log: log}
}

func (p *BatteryPoller) Run(ctx context.Context) {
	p.out.Publish(readBattery())
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.out.Publish(readBattery())
		}
	}
}

func readBattery() Battery {
	capPaths, _ := filepath.Glob("/sys/class/power_supply/BAT*/capacity")
	for _, capPath := range capPaths {
		capBytes, err := os.ReadFile(capPath)
		if err != nil {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(string(capBytes)), 64)
		if err != nil {
			continue
		}
		stateBytes, _ := os.ReadFile(filepath.Join(filepath.Dir(capPath), "status"))
		state := strings.TrimSpace(string(stateBytes))
		if state == "" {
			state = "Unknown"
		}
		return Battery{Percent: pct, State: state}
	}
	return Battery{}
}

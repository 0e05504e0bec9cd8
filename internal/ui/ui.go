// Package ui renders the live process table with Bubble Tea. The frame
// loop never blocks on the samplers: each tick it polls the refresh
// slots and keeps whatever it already had when nothing new is pending.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brtdev/brt/internal/config"
	"github.com/brtdev/brt/internal/model"
	"github.com/brtdev/brt/internal/refresh"
	"github.com/brtdev/brt/internal/sampler"
	"github.com/brtdev/brt/internal/table"
)

// Model is the Bubble Tea model. All mutable view state lives here, on
// the render schedule; the samplers only ever touch their slots.
type Model struct {
	cfg config.Config
	log *slog.Logger

	tbl     *table.Model
	procs   *refresh.Slot[model.Snapshot]
	battSrc *refresh.Slot[sampler.Battery]
	upSrc   *refresh.Slot[time.Duration]

	battery sampler.Battery
	uptime  time.Duration

	cancel context.CancelFunc
	width  int
	height int
}

type tickMsg time.Time

func tickCmd(period time.Duration) tea.Cmd {
	return tea.Tick(period, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return tickCmd(m.cfg.FramePeriod()) }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.tbl.SetHeight(m.tableHeight())
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "up", "k":
			m.tbl.MoveSelection(-1)
		case "down", "j":
			m.tbl.MoveSelection(1)
		case "pgup":
			m.tbl.MoveSelection(-m.cfg.PageSize)
		case "pgdown":
			m.tbl.MoveSelection(m.cfg.PageSize)
		case "left", "h":
			m.tbl.PreviousOrder()
		case "right", "l":
			m.tbl.NextOrder()
		}
	case tickMsg:
		if snap, ok := m.procs.Poll(); ok {
			m.tbl.ApplySnapshot(snap)
		}
		if batt, ok := m.battSrc.Poll(); ok {
			m.battery = batt
		}
		if up, ok := m.upSrc.Poll(); ok {
			m.uptime = up
		}
		return m, tickCmd(m.cfg.FramePeriod())
	}
	return m, nil
}

// tableHeight is the terminal height minus the header, column header
// and footer lines.
func (m *Model) tableHeight() int {
	h := m.height - 3
	if h < 0 {
		h = 0
	}
	return h
}

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	colHeadStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("167")).Foreground(lipgloss.Color("231"))
	sparkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Fixed column widths; the command column absorbs the rest.
const (
	pidWidth     = 7
	programWidth = 16
	threadsWidth = 7
	userWidth    = 10
	memWidth     = 8
	cpuWidth     = 6
)

func (m *Model) commandWidth() int {
	fixed := pidWidth + programWidth + threadsWidth + userWidth + memWidth + cpuWidth + m.sparkWidth() + 8
	w := m.width - fixed
	if w < 10 {
		w = 10
	}
	return w
}

// sparkWidth is the cell count of a full sparkline: two samples each.
func (m *Model) sparkWidth() int {
	return (m.cfg.HistoryLen + 1) / 2
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerLine())
	b.WriteByte('\n')
	b.WriteString(m.columnHeader())
	b.WriteByte('\n')

	visible := m.tbl.Visible()
	selected := m.tbl.Selected() - m.tbl.Offset()
	for i, p := range visible {
		b.WriteString(m.rowLine(p, i == selected))
		b.WriteByte('\n')
	}
	for i := len(visible); i < m.tableHeight(); i++ {
		b.WriteByte('\n')
	}

	b.WriteString(m.footerLine())
	return b.String()
}

func (m *Model) headerLine() string {
	left := titleStyle.Render("brt")
	parts := []string{time.Now().Format("15:04:05")}
	if m.uptime > 0 {
		parts = append(parts, "up "+formatUptime(m.uptime))
	}
	if m.battery.Present() {
		parts = append(parts, fmt.Sprintf("BAT%s %.0f%%", m.battery.Symbol(), m.battery.Percent))
	}
	right := subtleStyle.Render(strings.Join(parts, "  "))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) columnHeader() string {
	line := fmt.Sprintf("%*s %s %s %*s %s %*s %s %*s",
		pidWidth, "Pid:",
		pad("Program:", programWidth),
		pad("Command:", m.commandWidth()),
		threadsWidth, "Threads:",
		pad("User:", userWidth),
		memWidth, "Mem:",
		pad("", m.sparkWidth()),
		cpuWidth, "Cpu%:")
	return colHeadStyle.Render(line)
}

func (m *Model) rowLine(p model.Proc, selected bool) string {
	spark := fmt.Sprintf("%*s", m.sparkWidth(), p.Sparkline)
	if !selected {
		// Styled per cell; the selected row gets one style for the
		// whole line instead, so the background is unbroken.
		spark = sparkStyle.Render(spark)
	}
	line := fmt.Sprintf("%*d %s %s %*d %s %*s %s %*.2f",
		pidWidth, p.Pid,
		pad(p.Program, programWidth),
		pad(p.Command, m.commandWidth()),
		threadsWidth, p.Threads,
		pad(p.User, userWidth),
		memWidth, formatBytes(p.Resident),
		spark,
		cpuWidth, p.CPU)
	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

func (m *Model) footerLine() string {
	left := footerStyle.Render(m.tbl.OrderLabel())
	right := footerStyle.Render(m.tbl.Position())
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// Run wires the samplers to the TUI and blocks until the user quits.
// The one startup probe is the only place a process-table failure is
// fatal; once running, failed cycles just keep the previous snapshot.
func Run(cfg config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	procs := refresh.NewSlot[model.Snapshot]()
	battSrc := refresh.NewSlot[sampler.Battery]()
	upSrc := refresh.NewSlot[time.Duration]()

	smp := sampler.New(cfg, sampler.NewEnumerator(log), procs, log)
	first, err := smp.SampleOnce(ctx)
	if err != nil {
		return fmt.Errorf("cannot read process table: %w", err)
	}

	order, err := model.ParseOrder(cfg.Sort)
	if err != nil {
		return err
	}
	tbl := table.New(order, 0)
	tbl.ApplySnapshot(first)

	go smp.Run(ctx)
	go sampler.NewBatteryPoller(cfg.AuxInterval, battSrc, log).Run(ctx)
	go sampler.NewUptimePoller(cfg.AuxInterval, upSrc, log).Run(ctx)

	m := &Model{
		cfg:     cfg,
		log:     log,
		tbl:     tbl,
		procs:   procs,
		battSrc: battSrc,
		upSrc:   upSrc,
		cancel:  cancel,
		width:   120,
		height:  40,
	}
	m.tbl.SetHeight(m.tableHeight())

	log.Info("starting", "interval", cfg.Interval, "processes", first.Len())
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err = prog.Run()
	return err
}

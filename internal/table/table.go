// Package table owns the user's place in the live process list: the
// active sort order, the selected row and the scroll offset. It adopts
// snapshots from the sampler without losing that place.
package table

import (
	"fmt"
	"sort"

	"github.com/brtdev/brt/internal/model"
)

// Model transforms the current Snapshot into a sorted row sequence and
// keeps the selection stable while the table changes underneath it.
// It never mutates a snapshot's contents. Not safe for concurrent use;
// all calls happen on the render side.
type Model struct {
	order    model.Order
	snap     model.Snapshot
	rows     []model.Proc
	selected int // index into rows, -1 iff the table is empty
	offset   int // first visible row
	height   int // viewport rows
}

func New(order model.Order, height int) *Model {
	return &Model{order: order, height: height, selected: -1}
}

// ApplySnapshot adopts a fresh snapshot and re-sorts under the active
// order. The selection follows its pid when the process is still
// present; otherwise the index is clamped into the new range.
func (m *Model) ApplySnapshot(snap model.Snapshot) {
	pid, hadPid := m.selectedPid()
	m.snap = snap
	m.resort()
	m.reselect(pid, hadPid)
}

// SetOrder switches the sort key. The selected process stays selected
// even though its row index changes.
func (m *Model) SetOrder(o model.Order) {
	pid, hadPid := m.selectedPid()
	m.order = o
	m.resort()
	m.reselect(pid, hadPid)
}

// NextOrder steps the sort key forward in its cycle.
func (m *Model) NextOrder() { m.SetOrder(m.order.Next()) }

// PreviousOrder steps the sort key backward in its cycle.
func (m *Model) PreviousOrder() { m.SetOrder(m.order.Previous()) }

// MoveSelection moves the selection by steps rows with wrap-around in
// both directions, any magnitude. A no-op when the table is empty.
func (m *Model) MoveSelection(steps int) {
	n := len(m.rows)
	if n == 0 {
		return
	}
	idx := (m.selected + steps) % n
	if idx < 0 {
		idx += n
	}
	m.selected = idx
	m.scrollIntoView()
}

// SetHeight resizes the viewport.
func (m *Model) SetHeight(h int) {
	if h < 0 {
		h = 0
	}
	m.height = h
	m.scrollIntoView()
}

func (m *Model) Order() model.Order { return m.order }

// OrderLabel is the footer form of the active sort key.
func (m *Model) OrderLabel() string { return "< " + m.order.String() + " >" }

func (m *Model) Len() int { return len(m.rows) }

// Rows returns the full sorted row sequence. Callers must not modify it.
func (m *Model) Rows() []model.Proc { return m.rows }

// Visible returns the rows inside the viewport.
func (m *Model) Visible() []model.Proc {
	if m.height <= 0 || len(m.rows) == 0 {
		return nil
	}
	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	return m.rows[m.offset:end]
}

// Selected returns the selected row index, -1 when the table is empty.
func (m *Model) Selected() int { return m.selected }

func (m *Model) Offset() int { return m.offset }

// SelectedProc returns the record under the cursor.
func (m *Model) SelectedProc() (model.Proc, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return model.Proc{}, false
	}
	return m.rows[m.selected], true
}

// Position is the "12/403" footer summary, one-based.
func (m *Model) Position() string {
	if m.selected < 0 {
		return fmt.Sprintf("0/%d", len(m.rows))
	}
	return fmt.Sprintf("%d/%d", m.selected+1, len(m.rows))
}

func (m *Model) selectedPid() (int32, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return 0, false
	}
	return m.rows[m.selected].Pid, true
}

func (m *Model) resort() {
	rows := make([]model.Proc, 0, len(m.snap.Procs))
	for _, p := range m.snap.Procs {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return m.order.Less(rows[i], rows[j]) })
	m.rows = rows
}

func (m *Model) reselect(pid int32, hadPid bool) {
	n := len(m.rows)
	if n == 0 {
		m.selected = -1
		m.offset = 0
		return
	}
	if hadPid {
		for i, p := range m.rows {
			if p.Pid == pid {
				m.selected = i
				m.scrollIntoView()
				return
			}
		}
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= n {
		m.selected = n - 1
	}
	m.scrollIntoView()
}

// scrollIntoView keeps the selection inside the viewport and the offset
// inside the row range.
func (m *Model) scrollIntoView() {
	n := len(m.rows)
	if n == 0 || m.height <= 0 {
		m.offset = 0
		return
	}
	maxOffset := n - m.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.height {
		m.offset = m.selected - m.height + 1
	}
}

package model

// DefaultHistoryLen is how many CPU readings a process carries between
// passes when the config does not say otherwise.
const DefaultHistoryLen = 10

// History is a fixed-capacity FIFO of CPU readings, oldest first.
// Push returns a new History rather than mutating, so records inside a
// published Snapshot stay read-only.
type History struct {
	capacity int
	vals     []float64
}

func NewHistory(capacity int) History {
	if capacity <= 0 {
		capacity = DefaultHistoryLen
	}
	return History{capacity: capacity}
}

// Push appends v, evicting the oldest reading once the capacity is
// reached.
func (h History) Push(v float64) History {
	vals := make([]float64, 0, h.capacity)
	old := h.vals
	if len(old) >= h.capacity {
		old = old[len(old)-h.capacity+1:]
	}
	vals = append(vals, old...)
	vals = append(vals, v)
	return History{capacity: h.capacity, vals: vals}
}

func (h History) Len() int { return len(h.vals) }

func (h History) Cap() int { return h.capacity }

// Values returns the stored readings oldest first. The slice is shared;
// callers must not modify it.
func (h History) Values() []float64 { return h.vals }

// Latest returns the most recent reading, or 0 when empty.
func (h History) Latest() float64 {
	if len(h.vals) == 0 {
		return 0
	}
	return h.vals[len(h.vals)-1]
}

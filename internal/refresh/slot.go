// Package refresh moves values from a background sampling schedule to
// the render schedule. A Slot holds at most one pending value: the
// producer replaces instead of queueing, the consumer polls instead of
// waiting, so neither schedule can stall the other.
package refresh

// Slot is a single-producer, single-consumer latest-wins hand-off.
type Slot[T any] struct {
	ch chan T
}

func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{ch: make(chan T, 1)}
}

// Publish makes v the pending value. A previous value that was never
// polled is discarded. Publish never blocks.
func (s *Slot[T]) Publish(v T) {
	for {
		select {
		case s.ch <- v:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// Poll takes the pending value if there is one. It never blocks; ok is
// false when the consumer is already caught up.
func (s *Slot[T]) Poll() (v T, ok bool) {
	select {
	case v = <-s.ch:
		return v, true
	default:
		return v, false
	}
}

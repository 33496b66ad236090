// Package recorder keeps a rolling window of emitted MIDI events.
//
// The buffer is a flat, append-only log with bounded retention: every
// append evicts from the front whatever has aged out. It holds no
// note-on/note-off pairing state; pairing semantics belong to the
// consumers (file export wants a fixed note length, the piano roll wants
// real wall-clock duration).
package recorder

import (
	"time"

	"github.com/zvodd/PyGame-Midi-Instrument/internal/midievent"
)

// DefaultRetention is how much history the recording buffer keeps.
const DefaultRetention = 30 * time.Second

// Buffer is a bounded-duration ordered log of note events. It is not
// safe for concurrent use; the owning update loop is the only mutator.
type Buffer struct {
	events    []midievent.Event
	head      int // index of the oldest retained event
	retention float64
	epoch     time.Time
	clock     func() time.Time
}

// New creates an empty buffer that retains events for d. The buffer's
// epoch is fixed at creation; all timestamps are seconds since then.
func New(d time.Duration) *Buffer {
	return &Buffer{
		retention: d.Seconds(),
		epoch:     time.Now(),
		clock:     time.Now,
	}
}

// Now returns the current time in seconds since the buffer's epoch.
func (b *Buffer) Now() float64 {
	return b.clock().Sub(b.epoch).Seconds()
}

// Record stamps a note/velocity pair with the buffer clock and appends it.
func (b *Buffer) Record(note, velocity uint8) midievent.Event {
	ev := midievent.Event{Note: note, Velocity: velocity, Timestamp: b.Now()}
	b.Append(ev)
	return ev
}

// Append pushes ev at the tail and evicts from the head every event
// older than the retention duration. The eviction threshold is the
// appended event's timestamp, taken once, so a moving clock cannot
// shift it mid-eviction. Amortized O(1).
func (b *Buffer) Append(ev midievent.Event) {
	b.events = append(b.events, ev)

	now := ev.Timestamp
	for b.head < len(b.events) && now-b.events[b.head].Timestamp > b.retention {
		b.head++
	}

	// Reclaim the evicted prefix once it dominates the backing slice.
	if b.head > len(b.events)/2 {
		n := copy(b.events, b.events[b.head:])
		b.events = b.events[:n]
		b.head = 0
	}
}

// Events returns the retained events in arrival order. The slice aliases
// the buffer's storage and is only valid until the next Append.
func (b *Buffer) Events() []midievent.Event {
	return b.events[b.head:]
}

// Len returns the number of retained events.
func (b *Buffer) Len() int {
	return len(b.events) - b.head
}

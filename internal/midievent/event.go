// Package midievent defines the timestamped note event shared by the
// recorder, the file exporter and the piano-roll renderer.
package midievent

import "fmt"

// MIDI channel message status bytes (channel 0).
const (
	StatusNoteOn  byte = 0x90
	StatusNoteOff byte = 0x80
)

// Event is a single note event. Velocity 0 means note off for Note;
// velocity > 0 means note on at that velocity. Timestamp is in seconds
// since the epoch of the buffer the event was recorded into.
type Event struct {
	Note      uint8
	Velocity  uint8
	Timestamp float64
}

// IsNoteOn reports whether the event starts a note.
func (e Event) IsNoteOn() bool {
	return e.Velocity > 0
}

// Raw returns the wire-format channel message for the event:
// 0x90,note,velocity for note on, 0x80,note,0 for note off.
func (e Event) Raw() []byte {
	if e.Velocity > 0 {
		return []byte{StatusNoteOn, e.Note, e.Velocity}
	}
	return []byte{StatusNoteOff, e.Note, 0}
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns a human-readable name like "C4" or "F#2" for a MIDI
// note number (C4 = 60).
func NoteName(note uint8) string {
	octave := int(note/12) - 1
	return fmt.Sprintf("%s%d", noteNames[note%12], octave)
}

// IsAccidental reports whether the note is a sharp ("black") key.
func IsAccidental(note uint8) bool {
	switch note % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

// Package instrument models the playable key grid and the emission path
// that keeps the MIDI transport and the recording buffer in sync.
package instrument

import "github.com/zvodd/PyGame-Midi-Instrument/internal/midievent"

// Grid defaults: six octave rows of twelve semitones starting at C2.
const (
	DefaultRows      = 6
	DefaultCols      = 12
	DefaultStartNote = 36
)

// Key is one playable pad in the grid.
type Key struct {
	Note    uint8
	Label   string // note name like "C2" or "F#4"
	Black   bool   // accidental, drawn darker
	Pressed bool
}

// Layout is a rows x cols grid of keys, one semitone per column and one
// octave per row. It owns per-key press state so a held key does not
// retrigger.
type Layout struct {
	Rows, Cols int
	keys       []Key
}

// NewLayout builds the key grid. Notes past 127 are clipped off the end
// of the grid.
func NewLayout(rows, cols int, startNote uint8) *Layout {
	l := &Layout{Rows: rows, Cols: cols}
	l.keys = make([]Key, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			note := int(startNote) + row*12 + col
			if note > 127 {
				continue
			}
			l.keys = append(l.keys, Key{
				Note:  uint8(note),
				Label: midievent.NoteName(uint8(note)),
				Black: midievent.IsAccidental(uint8(note)),
			})
		}
	}
	return l
}

// DefaultLayout is the 6x12 grid from C2.
func DefaultLayout() *Layout {
	return NewLayout(DefaultRows, DefaultCols, DefaultStartNote)
}

// Keys returns the keys in row-major order.
func (l *Layout) Keys() []Key {
	return l.keys
}

// Key returns the key at the grid position, or nil when out of bounds.
func (l *Layout) Key(row, col int) *Key {
	if row < 0 || row >= l.Rows || col < 0 || col >= l.Cols {
		return nil
	}
	i := row*l.Cols + col
	if i >= len(l.keys) {
		return nil
	}
	return &l.keys[i]
}

// Press marks the key down and returns its note. ok is false when the
// position is out of bounds or the key is already held, in which case
// nothing should be emitted.
func (l *Layout) Press(row, col int) (note uint8, ok bool) {
	k := l.Key(row, col)
	if k == nil || k.Pressed {
		return 0, false
	}
	k.Pressed = true
	return k.Note, true
}

// Release marks the key up and returns its note. ok is false when the
// position is out of bounds or the key was not held.
func (l *Layout) Release(row, col int) (note uint8, ok bool) {
	k := l.Key(row, col)
	if k == nil || !k.Pressed {
		return 0, false
	}
	k.Pressed = false
	return k.Note, true
}

// ReleaseAll clears every held key and returns their notes, oldest grid
// position first. Used on shutdown so no note is left sounding.
func (l *Layout) ReleaseAll() []uint8 {
	var notes []uint8
	for i := range l.keys {
		if l.keys[i].Pressed {
			l.keys[i].Pressed = false
			notes = append(notes, l.keys[i].Note)
		}
	}
	return notes
}

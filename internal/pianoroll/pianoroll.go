// Package pianoroll turns the recording buffer into an abstract list of
// draw commands: a scrolling view with time running left to right and
// pitch running bottom to top, each note drawn as a horizontal bar.
//
// Render is a pure function of the events, the viewport and the current
// time. Note durations are reconstructed from on/off pairs on every call
// from a per-call tracker; nothing is cached between frames, so a stale
// held note can never leak into a later frame.
package pianoroll

import "github.com/zvodd/PyGame-Midi-Instrument/internal/recorder"

// Color is an RGB triple for the consuming draw surface.
type Color struct {
	R, G, B uint8
}

var (
	backgroundColor = Color{18, 18, 28}
	gridColor       = Color{50, 50, 64}
	playheadColor   = Color{255, 255, 255}
	sustainedColor  = Color{255, 200, 80}
	noteBaseColor   = Color{80, 200, 255}
)

// Viewport is the rectangular region the frame is laid out into.
type Viewport struct {
	X, Y, Width, Height float64
}

// Rect is a filled rectangle draw command.
type Rect struct {
	X, Y, W, H float64
	Color      Color
}

// Line is a line draw command.
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          Color
}

// NoteBar is the rectangle for a single note, carrying enough metadata
// for the consumer to restyle it if it wants to.
type NoteBar struct {
	Rect
	Note     uint8
	Velocity uint8
	// Sustained marks a note still held at the current time; its bar
	// extends to the playhead and grows each frame until the note off.
	Sustained bool
}

// Frame is the full draw-command list for one render pass, in paint
// order: background, grid, note bars, playhead.
type Frame struct {
	Background Rect
	Grid       []Line
	Notes      []NoteBar
	Playhead   Line
}

// Config holds the view parameters.
type Config struct {
	Window            float64 // seconds of history shown
	LowNote, HighNote uint8   // inclusive displayed note range
	NoteHeight        float64 // bar height in viewport units
}

// DefaultConfig is the standard view: a 10 second window over a four
// octave range.
func DefaultConfig() Config {
	return Config{Window: 10.0, LowNote: 45, HighNote: 93, NoteHeight: 4}
}

// Render lays the buffer contents out with the default view parameters.
func Render(buf *recorder.Buffer, vp Viewport, now float64) Frame {
	return DefaultConfig().Render(buf, vp, now)
}

// Render walks the buffered events inside [now-Window, now] and produces
// the frame. Pairing rules: a second note on for an already-open note
// retriggers it (last on wins); a note off with no open note is dropped;
// notes outside the displayed range are excluded entirely. Bar widths
// are clamped to a minimum of 1 so short notes stay visible.
func (c Config) Render(buf *recorder.Buffer, vp Viewport, now float64) Frame {
	windowStart := now - c.Window
	timeScale := vp.Width / c.Window
	noteScale := vp.Height / float64(c.HighNote-c.LowNote)

	frame := Frame{
		Background: Rect{X: vp.X, Y: vp.Y, W: vp.Width, H: vp.Height, Color: backgroundColor},
		Playhead: Line{
			X1: vp.X + vp.Width, Y1: vp.Y,
			X2: vp.X + vp.Width, Y2: vp.Y + vp.Height,
			Color: playheadColor,
		},
	}

	for note := c.LowNote; note <= c.HighNote; note += 12 {
		y := c.noteY(vp, noteScale, note)
		frame.Grid = append(frame.Grid, Line{
			X1: vp.X, Y1: y, X2: vp.X + vp.Width, Y2: y, Color: gridColor,
		})
	}

	// Per-pass tracker for notes that are on but not yet off.
	var starts [128]float64
	var velocities [128]uint8
	var open [128]bool

	for _, ev := range buf.Events() {
		if ev.Timestamp < windowStart || ev.Timestamp > now {
			continue
		}
		if ev.Note < c.LowNote || ev.Note > c.HighNote {
			continue
		}
		if ev.IsNoteOn() {
			starts[ev.Note] = ev.Timestamp
			velocities[ev.Note] = ev.Velocity
			open[ev.Note] = true
			continue
		}
		if !open[ev.Note] {
			continue
		}
		frame.Notes = append(frame.Notes, c.noteBar(
			vp, timeScale, noteScale, windowStart,
			ev.Note, velocities[ev.Note],
			starts[ev.Note], ev.Timestamp-starts[ev.Note], false,
		))
		open[ev.Note] = false
	}

	// Notes still held at the current time run to the playhead.
	for note := int(c.LowNote); note <= int(c.HighNote); note++ {
		if !open[note] {
			continue
		}
		frame.Notes = append(frame.Notes, c.noteBar(
			vp, timeScale, noteScale, windowStart,
			uint8(note), velocities[note],
			starts[note], now-starts[note], true,
		))
	}

	return frame
}

func (c Config) noteBar(vp Viewport, timeScale, noteScale, windowStart float64, note, velocity uint8, start, duration float64, sustained bool) NoteBar {
	w := duration * timeScale
	if w < 1 {
		w = 1
	}
	col := velocityColor(velocity)
	if sustained {
		col = sustainedColor
	}
	return NoteBar{
		Rect: Rect{
			X:     vp.X + (start-windowStart)*timeScale,
			Y:     c.noteY(vp, noteScale, note),
			W:     w,
			H:     c.NoteHeight,
			Color: col,
		},
		Note:      note,
		Velocity:  velocity,
		Sustained: sustained,
	}
}

// noteY converts a note number to a vertical position, inverted so
// higher notes draw higher.
func (c Config) noteY(vp Viewport, noteScale float64, note uint8) float64 {
	return vp.Y + float64(c.HighNote-note)*noteScale
}

// velocityColor dims the note color toward the background for soft
// notes and brightens it for hard ones.
func velocityColor(velocity uint8) Color {
	scale := 0.4 + 0.6*float64(velocity)/127.0
	return Color{
		R: uint8(float64(noteBaseColor.R) * scale),
		G: uint8(float64(noteBaseColor.G) * scale),
		B: uint8(float64(noteBaseColor.B) * scale),
	}
}

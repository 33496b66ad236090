// Package smfexport writes the recording buffer out as a Standard MIDI
// File: format 0, single track, fixed 120 BPM.
package smfexport

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/zvodd/PyGame-Midi-Instrument/internal/recorder"
)

// ErrEmptyBuffer is returned when an export is attempted with nothing
// recorded; no file is written.
var ErrEmptyBuffer = errors.New("smfexport: no events to export")

const (
	bpm            = 120
	beatsPerSecond = 2 // fixed, consistent with 120 BPM
	ticksPerBeat   = 960
	channel        = 0

	// Every exported note spans half a beat regardless of when (or
	// whether) its note off arrived. Real held duration is ignored.
	noteLengthTicks = ticksPerBeat / 2
)

// Export converts the buffer contents into a single-track SMF. Note-on
// events become notes at beat position timestamp*2 with a fixed
// half-beat length; note-off events carry no file content and are
// skipped. The result is deterministic for given buffer contents.
func Export(buf *recorder.Buffer) (*smf.SMF, error) {
	events := buf.Events()
	if len(events) == 0 {
		return nil, ErrEmptyBuffer
	}

	type timedMsg struct {
		tick uint32
		msg  midi.Message
	}

	var msgs []timedMsg
	for _, ev := range events {
		if !ev.IsNoteOn() {
			continue
		}
		on := uint32(ev.Timestamp * beatsPerSecond * ticksPerBeat)
		msgs = append(msgs, timedMsg{on, midi.NoteOn(channel, ev.Note, ev.Velocity)})
		msgs = append(msgs, timedMsg{on + noteLengthTicks, midi.NoteOff(channel, ev.Note)})
	}
	// Fixed note lengths can end a note after a later one begins, so
	// the messages need a stable re-sort into absolute tick order.
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].tick < msgs[j].tick })

	var track smf.Track
	track.Add(0, smf.MetaTempo(bpm))
	var last uint32
	for _, m := range msgs {
		track.Add(m.tick-last, m.msg)
		last = m.tick
	}
	track.Close(0)

	out := smf.New()
	out.TimeFormat = smf.MetricTicks(ticksPerBeat)
	if err := out.Add(track); err != nil {
		return nil, fmt.Errorf("adding track: %w", err)
	}
	return out, nil
}

// Write exports the buffer as SMF bytes to w.
func Write(buf *recorder.Buffer, w io.Writer) error {
	sm, err := Export(buf)
	if err != nil {
		return err
	}
	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("writing midi data: %w", err)
	}
	return nil
}

// WriteFile exports the buffer to the named file. On an empty buffer the
// file is not created.
func WriteFile(buf *recorder.Buffer, path string) error {
	sm, err := Export(buf)
	if err != nil {
		return err
	}
	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("writing midi file: %w", err)
	}
	return nil
}

// DefaultFilename returns a timestamp-derived name like
// recording_20240131_154210.mid for exports with no name supplied.
func DefaultFilename(t time.Time) string {
	return "recording_" + t.Format("20060102_150405") + ".mid"
}

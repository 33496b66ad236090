package smfexport

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/zvodd/PyGame-Midi-Instrument/internal/midievent"
	"github.com/zvodd/PyGame-Midi-Instrument/internal/recorder"
)

func testBuffer(events ...midievent.Event) *recorder.Buffer {
	b := recorder.New(recorder.DefaultRetention)
	for _, ev := range events {
		b.Append(ev)
	}
	return b
}

func TestExportEmptyBuffer(t *testing.T) {
	b := recorder.New(recorder.DefaultRetention)

	if _, err := Export(b); !errors.Is(err, ErrEmptyBuffer) {
		t.Fatalf("expected ErrEmptyBuffer, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "empty.mid")
	if err := WriteFile(b, path); !errors.Is(err, ErrEmptyBuffer) {
		t.Fatalf("expected ErrEmptyBuffer from WriteFile, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file artifact for an empty buffer")
	}
}

func TestExportDeterministic(t *testing.T) {
	b := testBuffer(
		midievent.Event{Note: 60, Velocity: 100, Timestamp: 0.5},
		midievent.Event{Note: 60, Velocity: 0, Timestamp: 1.0},
		midievent.Event{Note: 64, Velocity: 80, Timestamp: 1.25},
		midievent.Event{Note: 67, Velocity: 127, Timestamp: 2.0},
	)

	var first, second bytes.Buffer
	if err := Write(b, &first); err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	if err := Write(b, &second); err != nil {
		t.Fatalf("second export failed: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("exporting the same buffer twice produced different bytes")
	}
}

func TestExportedNotePositionsAndFixedLength(t *testing.T) {
	// A note held for 3 real seconds still exports as half a beat.
	b := testBuffer(
		midievent.Event{Note: 60, Velocity: 100, Timestamp: 1.0},
		midievent.Event{Note: 60, Velocity: 0, Timestamp: 4.0},
		midievent.Event{Note: 72, Velocity: 90, Timestamp: 5.0},
	)

	sm, err := Export(b)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(sm.Tracks) != 1 {
		t.Fatalf("expected a single track, got %d", len(sm.Tracks))
	}

	type span struct{ on, off uint32 }
	spans := map[uint8]span{}
	var abs uint32
	var ch, key, vel uint8
	for _, ev := range sm.Tracks[0] {
		abs += ev.Delta
		if ev.Message.GetNoteOn(&ch, &key, &vel) {
			s := spans[key]
			s.on = abs
			spans[key] = s
		} else if ev.Message.GetNoteOff(&ch, &key, &vel) {
			s := spans[key]
			s.off = abs
			spans[key] = s
		}
	}

	// timestamp * 2 beats/sec * 960 ticks/beat; length always 480 ticks.
	tests := []struct {
		note   uint8
		onTick uint32
	}{
		{60, 1920},
		{72, 9600},
	}
	for _, tt := range tests {
		s, ok := spans[tt.note]
		if !ok {
			t.Fatalf("note %d missing from export", tt.note)
		}
		if s.on != tt.onTick {
			t.Errorf("note %d starts at tick %d, want %d", tt.note, s.on, tt.onTick)
		}
		if s.off-s.on != 480 {
			t.Errorf("note %d spans %d ticks, want 480", tt.note, s.off-s.on)
		}
	}
}

func TestExportRoundTripTempo(t *testing.T) {
	b := testBuffer(midievent.Event{Note: 69, Velocity: 100, Timestamp: 0})

	path := filepath.Join(t.TempDir(), "out.mid")
	if err := WriteFile(b, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	rd, err := smf.ReadFile(path)
	if err != nil {
		t.Fatalf("reading exported file: %v", err)
	}
	tempos := rd.TempoChanges()
	if len(tempos) == 0 {
		t.Fatal("expected a tempo meta event")
	}
	if int(tempos[0].BPM) != 120 {
		t.Errorf("tempo = %v BPM, want 120", tempos[0].BPM)
	}
	if len(rd.Tracks) != 1 {
		t.Errorf("expected single-track file, got %d tracks", len(rd.Tracks))
	}
}

func TestNoteOffsCarryNoFileContent(t *testing.T) {
	withOff := testBuffer(
		midievent.Event{Note: 60, Velocity: 100, Timestamp: 1.0},
		midievent.Event{Note: 60, Velocity: 0, Timestamp: 1.3},
	)
	withoutOff := testBuffer(
		midievent.Event{Note: 60, Velocity: 100, Timestamp: 1.0},
	)

	var a, b bytes.Buffer
	if err := Write(withOff, &a); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if err := Write(withoutOff, &b); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("a recorded note off changed the exported bytes")
	}
}

func TestDefaultFilename(t *testing.T) {
	at := time.Date(2024, 1, 31, 15, 42, 10, 0, time.UTC)
	if got := DefaultFilename(at); got != "recording_20240131_154210.mid" {
		t.Errorf("DefaultFilename = %q", got)
	}
}

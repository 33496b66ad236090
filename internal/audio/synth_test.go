package audio

import (
	"math"
	"testing"
)

func TestNoteFrequency(t *testing.T) {
	tests := []struct {
		note uint8
		want float64
	}{
		{69, 440.0},  // A4
		{57, 220.0},  // A3
		{81, 880.0},  // A5
		{60, 261.63}, // C4
	}
	for _, tt := range tests {
		got := noteFrequency(tt.note)
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("noteFrequency(%d) = %v, want %v", tt.note, got, tt.want)
		}
	}
}

func TestSendDrivesVoices(t *testing.T) {
	// Exercise the message parsing and voice lifecycle without opening
	// an audio device.
	s := &Synth{volume: 0.3}

	if err := s.Send([]byte{0x90, 60, 100}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(s.voices) != 1 || !s.voices[0].active {
		t.Fatal("note on should activate a voice")
	}
	if s.voices[0].note != 60 || s.voices[0].velocity != 100 {
		t.Errorf("voice = %+v", s.voices[0])
	}

	// Velocity 0 on a 0x90 status is a note off.
	if err := s.Send([]byte{0x90, 60, 0}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if !s.voices[0].releasing {
		t.Error("note off should start the release phase")
	}

	// Explicit note off status works too.
	s.Send([]byte{0x90, 64, 80})
	s.Send([]byte{0x80, 64, 0})
	for _, v := range s.voices {
		if v.note == 64 && !v.releasing {
			t.Error("0x80 note off should start the release phase")
		}
	}

	// Truncated and unknown messages are ignored.
	if err := s.Send([]byte{0x90, 60}); err != nil {
		t.Errorf("short message should be ignored, got %v", err)
	}
	if err := s.Send([]byte{0xB0, 7, 100}); err != nil {
		t.Errorf("unhandled message should be ignored, got %v", err)
	}
}

func TestAllNotesOff(t *testing.T) {
	s := &Synth{volume: 0.3}
	s.Send([]byte{0x90, 60, 100})
	s.Send([]byte{0x90, 64, 100})
	s.Send([]byte{0x90, 67, 100})

	s.AllNotesOff()
	for _, v := range s.voices {
		if v.active && !v.releasing {
			t.Errorf("voice for note %d still sounding after AllNotesOff", v.note)
		}
	}
}

func TestVoiceStealingAtCap(t *testing.T) {
	s := &Synth{volume: 0.3}
	for n := 0; n < maxVoices; n++ {
		s.Send([]byte{0x90, uint8(n + 30), 100})
	}
	if len(s.voices) != maxVoices {
		t.Fatalf("expected %d voices, got %d", maxVoices, len(s.voices))
	}

	// One more note steals the oldest voice instead of growing.
	s.Send([]byte{0x90, 120, 100})
	if len(s.voices) != maxVoices {
		t.Errorf("voice count grew past the cap: %d", len(s.voices))
	}
	if s.voices[0].note != 120 {
		t.Errorf("expected the oldest voice to be stolen, got note %d", s.voices[0].note)
	}
}

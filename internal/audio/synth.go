// Package audio is a small polyphonic software synth used as the output
// sink when no hardware MIDI port is available.
package audio

import (
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/zvodd/PyGame-Midi-Instrument/internal/midievent"
)

const (
	sampleRate   = 44100
	channelCount = 2 // stereo
	bitDepth     = 2 // 16-bit

	maxVoices = 32
)

// voice is a single sounding note: a sine oscillator with a linear
// attack and an exponential release.
type voice struct {
	note      uint8
	velocity  uint8
	frequency float64
	phase     float64
	envelope  float64
	releasing bool
	active    bool
}

// Synth mixes the active voices into the system audio output. The audio
// callback runs on oto's goroutine, so voice state is mutex-guarded;
// callers see only the synchronous Send/Close surface.
type Synth struct {
	mu     sync.Mutex
	otoCtx *oto.Context
	player *oto.Player
	voices []*voice
	volume float64
}

// NewSynth opens the audio device and starts the output stream.
func NewSynth() (*Synth, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	otoCtx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	s := &Synth{
		otoCtx: otoCtx,
		volume: 0.3,
	}
	s.player = otoCtx.NewPlayer(&synthReader{synth: s})
	s.player.Play()

	return s, nil
}

// Send accepts a raw MIDI channel message, so the synth can stand in
// for a hardware output port. Unknown messages are ignored.
func (s *Synth) Send(msg []byte) error {
	if len(msg) < 3 {
		return nil
	}
	switch msg[0] & 0xF0 {
	case midievent.StatusNoteOn:
		if msg[2] > 0 {
			s.noteOn(msg[1], msg[2])
		} else {
			s.noteOff(msg[1])
		}
	case midievent.StatusNoteOff:
		s.noteOff(msg[1])
	}
	return nil
}

// String names the sink in the UI, mirroring a port name.
func (s *Synth) String() string {
	return "built-in synth"
}

func (s *Synth) noteOn(note, velocity uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Reuse a finished voice, grow up to the cap, then steal the oldest.
	var v *voice
	for _, cand := range s.voices {
		if !cand.active {
			v = cand
			break
		}
	}
	if v == nil {
		if len(s.voices) < maxVoices {
			v = &voice{}
			s.voices = append(s.voices, v)
		} else {
			v = s.voices[0]
		}
	}

	v.note = note
	v.velocity = velocity
	v.frequency = noteFrequency(note)
	v.phase = 0
	v.envelope = 0
	v.releasing = false
	v.active = true
}

func (s *Synth) noteOff(note uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.voices {
		if v.active && v.note == note && !v.releasing {
			v.releasing = true
			break
		}
	}
}

// AllNotesOff releases every sounding voice.
func (s *Synth) AllNotesOff() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.voices {
		if v.active {
			v.releasing = true
		}
	}
}

// Close stops the output stream.
func (s *Synth) Close() error {
	s.AllNotesOff()
	// oto players need no explicit close as of v3.4; the stream ends
	// when the player is collected.
	return nil
}

// synthReader implements io.Reader for continuous audio generation.
type synthReader struct {
	synth *Synth
}

func (r *synthReader) Read(buf []byte) (int, error) {
	s := r.synth
	s.mu.Lock()
	defer s.mu.Unlock()

	numSamples := len(buf) / (channelCount * bitDepth)
	for i := 0; i < numSamples; i++ {
		var sample float64

		for _, v := range s.voices {
			if !v.active {
				continue
			}

			osc := math.Sin(2 * math.Pi * v.phase)
			sample += osc * (float64(v.velocity) / 127.0) * v.envelope * 0.2

			v.phase += v.frequency / sampleRate
			if v.phase >= 1.0 {
				v.phase -= 1.0
			}

			if v.releasing {
				v.envelope *= 0.9995
				if v.envelope < 0.001 {
					v.active = false
				}
			} else if v.envelope < 1.0 {
				v.envelope += 0.001
				if v.envelope > 1.0 {
					v.envelope = 1.0
				}
			}
		}

		sample *= s.volume
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		val := int16(sample * 32767)

		idx := i * channelCount * bitDepth
		buf[idx] = byte(val)
		buf[idx+1] = byte(val >> 8)
		buf[idx+2] = byte(val)
		buf[idx+3] = byte(val >> 8)
	}

	return len(buf), nil
}

// noteFrequency converts a MIDI note number to Hz (A4 = 69 = 440 Hz).
func noteFrequency(note uint8) float64 {
	return 440.0 * math.Pow(2.0, (float64(note)-69.0)/12.0)
}

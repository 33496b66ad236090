package instrument

import (
	"github.com/zvodd/PyGame-Midi-Instrument/internal/midievent"
	"github.com/zvodd/PyGame-Midi-Instrument/internal/recorder"
)

// Sink receives raw MIDI channel messages. gomidi output ports satisfy
// it directly, as does the built-in synth adapter.
type Sink interface {
	Send([]byte) error
}

// Emitter is the single emission point for note events: every emitted
// note goes to the transport and into the recording buffer in the same
// call, so the two can never disagree about what was played.
type Emitter struct {
	sink Sink
	buf  *recorder.Buffer
}

// NewEmitter wires a transport sink to a recording buffer.
func NewEmitter(sink Sink, buf *recorder.Buffer) *Emitter {
	return &Emitter{sink: sink, buf: buf}
}

// Emit sends 0x90,note,velocity (on) or 0x80,note,0 (off) to the sink
// and records the event stamped with the buffer clock. A transport
// failure skips the recording and is returned to the caller; history
// only ever contains what was actually sent.
func (e *Emitter) Emit(note, velocity uint8) error {
	msg := midievent.Event{Note: note, Velocity: velocity}.Raw()
	if err := e.sink.Send(msg); err != nil {
		return err
	}
	e.buf.Record(note, velocity)
	return nil
}

// Buffer exposes the recording buffer for export and rendering.
func (e *Emitter) Buffer() *recorder.Buffer {
	return e.buf
}

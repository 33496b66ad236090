// Package mididevice opens hardware MIDI output ports.
package mididevice

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver
)

// ErrNoOutputs is returned when the system has no MIDI output ports.
var ErrNoOutputs = errors.New("mididevice: no MIDI output ports available")

// Outputs returns the names of the available MIDI output ports.
func Outputs() []string {
	var names []string
	for _, out := range midi.GetOutPorts() {
		names = append(names, out.String())
	}
	return names
}

// Port is an open MIDI output. It satisfies the instrument sink
// interface: Send forwards raw channel messages to the device.
type Port struct {
	out drivers.Out
}

// Open opens a MIDI output port. With an empty name the first available
// port is used; otherwise the first port whose name contains name
// (case-insensitive) is chosen, and the error for a missing device
// lists what is available.
func Open(name string) (*Port, error) {
	outs := midi.GetOutPorts()
	if len(outs) == 0 {
		return nil, ErrNoOutputs
	}

	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}

	i := match(names, name)
	if i < 0 {
		return nil, fmt.Errorf("no MIDI output matching %q, available: %s",
			name, strings.Join(names, ", "))
	}

	out := outs[i]
	if err := out.Open(); err != nil {
		return nil, fmt.Errorf("opening MIDI port %s: %w", out.String(), err)
	}
	return &Port{out: out}, nil
}

// match picks the port index for a partial name, -1 when nothing fits.
func match(names []string, name string) int {
	if name == "" {
		if len(names) == 0 {
			return -1
		}
		return 0
	}
	want := strings.ToLower(name)
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), want) {
			return i
		}
	}
	return -1
}

// Send forwards a raw MIDI message to the device.
func (p *Port) Send(msg []byte) error {
	return p.out.Send(msg)
}

// String returns the port name.
func (p *Port) String() string {
	return p.out.String()
}

// Close closes the port.
func (p *Port) Close() error {
	return p.out.Close()
}

// CloseDriver releases the MIDI driver on shutdown.
func CloseDriver() {
	midi.CloseDriver()
}

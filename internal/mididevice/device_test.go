package mididevice

import "testing"

func TestMatch(t *testing.T) {
	names := []string{"Midi Through Port-0", "FLUID Synth (qsynth)", "USB MIDI Interface"}

	tests := []struct {
		name string
		want int
	}{
		{"", 0},
		{"fluid", 1},
		{"FLUID Synth (qsynth)", 1},
		{"usb midi", 2},
		{"through", 0},
		{"launchpad", -1},
	}
	for _, tt := range tests {
		if got := match(names, tt.name); got != tt.want {
			t.Errorf("match(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}

	if got := match(nil, ""); got != -1 {
		t.Errorf("match with no ports = %d, want -1", got)
	}
}

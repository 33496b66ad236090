package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zvodd/PyGame-Midi-Instrument/internal/audio"
	"github.com/zvodd/PyGame-Midi-Instrument/internal/instrument"
	"github.com/zvodd/PyGame-Midi-Instrument/internal/mididevice"
	"github.com/zvodd/PyGame-Midi-Instrument/internal/recorder"
	"github.com/zvodd/PyGame-Midi-Instrument/internal/tui"
)

var (
	outputDevice  string
	useSynth      bool
	recordSeconds int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the interactive piano",
	Long: `Open the interactive piano keyboard.

Notes are sent to the first available MIDI output port, or to the port named
with --output-device (partial, case-insensitive match). With --synth, or when
no MIDI port exists, notes play through the built-in synthesizer instead.

Everything played is kept in a rolling buffer; ctrl+s saves the buffer to a
timestamped .mid file in the current directory.

Example:
  midipiano play --output-device fluid
`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&outputDevice, "output-device", "o", "", "MIDI output device name (partial match)")
	playCmd.Flags().BoolVar(&useSynth, "synth", false, "play through the built-in synth instead of a MIDI device")
	playCmd.Flags().IntVar(&recordSeconds, "record-seconds", 30, "seconds of playing history kept for export")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	sink, name, cleanup, err := openSink()
	if err != nil {
		return err
	}
	defer cleanup()

	buf := recorder.New(time.Duration(recordSeconds) * time.Second)
	em := instrument.NewEmitter(sink, buf)
	m := tui.NewModel(em, instrument.DefaultLayout(), name)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openSink picks the note destination: a hardware MIDI port unless
// --synth was given, with the built-in synth as the fallback when the
// system has no ports at all. A named device that cannot be found is an
// error rather than a silent fallback.
func openSink() (sink instrument.Sink, name string, cleanup func(), err error) {
	if !useSynth {
		port, err := mididevice.Open(outputDevice)
		if err == nil {
			return port, port.String(), func() {
				port.Close()
				mididevice.CloseDriver()
			}, nil
		}
		if outputDevice != "" || !errors.Is(err, mididevice.ErrNoOutputs) {
			return nil, "", nil, err
		}
	}

	synth, err := audio.NewSynth()
	if err != nil {
		return nil, "", nil, fmt.Errorf("initializing audio: %w", err)
	}
	return synth, synth.String(), func() { synth.Close() }, nil
}

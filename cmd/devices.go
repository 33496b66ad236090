package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zvodd/PyGame-Midi-Instrument/internal/mididevice"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available MIDI output ports",
	Long: `List the MIDI output ports available on this system.

Pass any port name (or a unique part of it) to 'play --output-device'.`,
	Run: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) {
	defer mididevice.CloseDriver()

	names := mididevice.Outputs()
	if len(names) == 0 {
		fmt.Println("No MIDI output ports available.")
		return
	}

	fmt.Println("Available MIDI output ports:")
	for i, name := range names {
		fmt.Printf("%d: %s\n", i, name)
	}
}

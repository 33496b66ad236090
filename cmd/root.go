package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "midipiano",
	Short: "An on-screen MIDI piano with a rolling recorder",
	Long: `midipiano is a terminal piano: a clickable grid of keys that plays notes
through a MIDI output device (or a built-in synth), keeps the last 30 seconds
of what you played in a rolling buffer, and can save that buffer as a
Standard MIDI File or show it as a live piano roll.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

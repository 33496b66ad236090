package main

import "github.com/zvodd/PyGame-Midi-Instrument/cmd"

func main() {
	cmd.Execute()
}

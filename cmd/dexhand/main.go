package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Run     RunCommand     `command:"run" description:"Start the scripted EMG-triggered pickup loop"`
	Auto    AutoCommand    `command:"auto" description:"Start the LLM-planned pickup loop"`
	Monitor MonitorCommand `command:"monitor" description:"Live EMG and pickup monitor"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "DexHand - EMG and vision driven robotic hand control"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

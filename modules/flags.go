package modules

import "flag"

// HelpFlag makes Start print the usage and exit cleanly.
var HelpFlag bool

func init() {
	flag.BoolVar(&HelpFlag, "help", false, "print help")
}

func parseFlags() error {
	if !flag.Parsed() {
		flag.Parse()
	}
	if HelpFlag {
		flag.Usage()
		return ErrCleanExit
	}
	return nil
}

package config

import (
	"errors"
	"flag"
	"os"

	"github.com/safing/pqbase/modules"
)

var configFileFlag string

func init() {
	modules.Register("config", prep, start, nil)

	flag.StringVar(&configFileFlag, "config", "", "load and persist configuration in the given json file")
}

func prep() error {
	if configFileFlag != "" {
		SetConfigFile(configFileFlag)
	}
	return nil
}

func start() error {
	if err := LoadConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

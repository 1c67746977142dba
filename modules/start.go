package modules

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tevino/abool"

	"github.com/safing/pqbase/log"
)

var (
	startComplete       = abool.New()
	startCompleteSignal = make(chan struct{})
)

// StartCompleted returns whether all modules started.
func StartCompleted() bool {
	return startComplete.IsSet()
}

// WaitForStartCompletion returns a channel that is closed when all modules started.
func WaitForStartCompletion() <-chan struct{} {
	return startCompleteSignal
}

var (
	prepPhase = phase{
		name:  "prep",
		from:  statusRegistered,
		to:    statusPrepped,
		ready: depsReached(statusPrepped),
		exec: func(m *Module) error {
			return m.runCtrlFn("prep", 10*time.Second, m.prep)
		},
	}
	startPhase = phase{
		name:  "start",
		from:  statusPrepped,
		to:    statusStarted,
		ready: depsReached(statusStarted),
		exec: func(m *Module) error {
			return m.runCtrlFn("start", time.Minute, m.start)
		},
		done: func(m *Module, _ error) {
			log.Infof("modules: started %s", m.Name)
		},
	}
)

// Start parses flags, then preps and starts all modules. Logging is
// started between the two stages. On error the caller is expected to call
// Shutdown.
func Start() error {
	modulesLock.RLock()
	defer modulesLock.RUnlock()

	critical := func(stage string, err error) error {
		if !errors.Is(err, ErrCleanExit) {
			fmt.Fprintf(os.Stderr, "CRITICAL ERROR: %s: %s\n", stage, err)
		}
		return err
	}

	if err := linkDependencies(); err != nil {
		return critical("failed to initialize modules", err)
	}
	if err := parseFlags(); err != nil {
		return critical("failed to parse flags", err)
	}
	mods := allModules()
	if err := prepPhase.run(mods); err != nil {
		if errors.Is(err, ErrCleanExit) {
			return err
		}
		return critical("modules", err)
	}

	if err := log.Start(); err != nil && !errors.Is(err, log.ErrAlreadyStarted) {
		return critical("failed to start logging", err)
	}

	log.Info("modules: initiating...")
	if err := startPhase.run(mods); err != nil {
		err = fmt.Errorf("modules: %w", err)
		log.Critical(err.Error())
		return err
	}

	log.Infof("modules: started %d modules", len(mods))
	if startComplete.SetToIf(false, true) {
		close(startCompleteSignal)
	}
	return nil
}

package modules

import (
	"errors"
	"fmt"
	"time"

	"github.com/tevino/abool"

	"github.com/safing/pqbase/log"
)

var (
	shutdownSignal         = make(chan struct{})
	shutdownFlag           = abool.New()
	shutdownCompleteSignal = make(chan struct{})

	// ErrShutdownInProgress is returned by Shutdown if a shutdown was already initiated.
	ErrShutdownInProgress = errors.New("shutdown already initiated")
)

// IsShuttingDown returns whether the shutdown is in progress.
func IsShuttingDown() bool {
	return shutdownFlag.IsSet()
}

// ShuttingDown returns a channel that is closed when the shutdown begins.
func ShuttingDown() <-chan struct{} {
	return shutdownSignal
}

var stopPhase = phase{
	name:      "stop",
	from:      statusStarted,
	to:        statusStopped,
	ready:     dependentsStopped,
	exec:      func(m *Module) error { return m.stopWithTimeout(3*time.Second, 10*time.Second) },
	keepGoing: true,
	done: func(m *Module, err error) {
		if err == nil {
			log.Infof("modules: stopped %s", m.Name)
		}
	},
}

// Shutdown stops all started modules in reverse dependency order and then
// shuts down logging.
func Shutdown() error {
	if !shutdownFlag.SetToIf(false, true) {
		return ErrShutdownInProgress
	}
	close(shutdownSignal)

	if startComplete.IsSet() {
		log.Warning("modules: starting shutdown...")
	} else {
		log.Warning("modules: aborting, shutting down...")
	}

	modulesLock.RLock()
	err := stopPhase.run(allModules())
	modulesLock.RUnlock()

	if err != nil {
		err = fmt.Errorf("modules: shutdown failed: %w", err)
		log.Warning(err.Error())
		exitStatusCode.CompareAndSwap(0, 1)
	} else {
		log.Info("modules: shutdown complete")
	}

	log.Shutdown()
	close(shutdownCompleteSignal)
	return err
}

// stopWithTimeout cancels the module context, waits for its workers and
// then calls the stop function.
func (m *Module) stopWithTimeout(workerTimeout, stopTimeout time.Duration) error {
	m.stopping.Set()
	m.cancelCtx()
	m.checkWorkersDone()

	select {
	case <-m.workersDone:
	case <-time.After(workerTimeout):
		return fmt.Errorf("timed out waiting for %d workers", m.workers.Load())
	}

	return m.runCtrlFn("stop", stopTimeout, m.stop)
}

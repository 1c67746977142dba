package modules

import (
	"context"
	"errors"
	"time"

	"github.com/safing/pqbase/log"
)

// DefaultBackoffDuration is the base delay before a failed service worker is restarted.
const DefaultBackoffDuration = 2 * time.Second

// ErrRestartNow may be returned (wrapped) by service workers to be restarted immediately.
var ErrRestartNow = errors.New("requested restart")

// RunWorker runs fn in the current goroutine as a worker of the module.
// Panics are returned as *ModuleError.
func (m *Module) RunWorker(name string, fn func(context.Context) error) error {
	m.workers.Add(1)
	defer m.workerDone()

	return m.runWorker(name, fn)
}

// StartServiceWorker runs fn in a new goroutine and restarts it when it
// fails. The wait before a restart grows with the number of recent
// failures; pass 0 for DefaultBackoffDuration. Returning nil or
// context.Canceled ends the worker.
func (m *Module) StartServiceWorker(name string, backoff time.Duration, fn func(context.Context) error) {
	if backoff == 0 {
		backoff = DefaultBackoffDuration
	}

	m.workers.Add(1)
	go func() {
		defer m.workerDone()

		var failures int
		var lastFailure time.Time
		for !m.IsStopping() {
			err := m.runWorker(name, fn)
			switch {
			case err == nil, errors.Is(err, context.Canceled):
				return
			case errors.Is(err, ErrRestartNow):
				continue
			}

			if time.Since(lastFailure) > 5*time.Minute {
				failures = 0
			}
			failures++
			lastFailure = time.Now()

			wait := time.Duration(failures) * backoff
			log.Errorf("%s: service worker %s failed (%d): %s, restarting in %s", m.Name, name, failures, err, wait)
			select {
			case <-time.After(wait):
			case <-m.Ctx.Done():
				return
			}
		}
	}()
}

func (m *Module) runWorker(name string, fn func(context.Context) error) (err error) {
	defer m.recoverPanic(&err, name, "worker")
	return fn(m.Ctx)
}

func (m *Module) workerDone() {
	m.workers.Add(-1)
	m.checkWorkersDone()
}

func (m *Module) checkWorkersDone() {
	if m.stopping.IsSet() && m.workers.Load() == 0 {
		m.workersDoneOnce.Do(func() {
			close(m.workersDone)
		})
	}
}

package modules

import (
	"errors"
	"fmt"
	"time"
)

var errDependencyLoop = errors.New("dependency loop detected")

// phase moves modules from one status to the next in dependency order.
type phase struct {
	name string
	from status
	to   status
	// ready reports whether the surrounding modules allow m to proceed.
	ready func(m *Module) bool
	exec  func(m *Module) error
	// keepGoing continues with the other modules after a failure.
	keepGoing bool
	// done is called after each module completed the phase.
	done func(m *Module, err error)
}

func depsReached(s status) func(m *Module) bool {
	return func(m *Module) bool {
		for _, dep := range m.deps {
			if dep.getStatus() < s {
				return false
			}
		}
		return true
	}
}

func dependentsStopped(m *Module) bool {
	for _, dependent := range m.dependents {
		if dependent.getStatus() == statusStarted {
			return false
		}
	}
	return true
}

type phaseResult struct {
	module *Module
	err    error
}

// run executes the phase for all given modules, running independent
// modules concurrently.
func (p *phase) run(mods []*Module) error {
	results := make(chan phaseResult, len(mods))
	running := make(map[*Module]bool)
	remaining := 0
	for _, m := range mods {
		if m.getStatus() == p.from {
			remaining++
		}
	}

	var firstErr error
	for remaining > 0 {
		for _, m := range mods {
			if !running[m] && m.getStatus() == p.from && p.ready(m) {
				running[m] = true
				go func(m *Module) {
					results <- phaseResult{module: m, err: p.exec(m)}
				}(m)
			}
		}
		if len(running) == 0 {
			return fmt.Errorf("%s: %w", p.name, errDependencyLoop)
		}

		res := <-results
		delete(running, res.module)
		remaining--

		if res.err != nil {
			err := fmt.Errorf("%s %s: %w", p.name, res.module.Name, res.err)
			if !p.keepGoing {
				return err
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		res.module.setStatus(p.to)
		if p.done != nil {
			p.done(res.module, res.err)
		}
	}

	return firstErr
}

// runCtrlFn runs a control function, recovering panics and giving up
// after timeout.
func (m *Module) runCtrlFn(name string, timeout time.Duration, fn func() error) error {
	if fn == nil {
		return nil
	}

	errs := make(chan error, 1)
	go func() {
		var err error
		defer func() { errs <- err }()
		defer m.recoverPanic(&err, name, "module-control")
		err = fn()
	}()

	select {
	case err := <-errs:
		return err
	case <-time.After(timeout):
		return errors.New(name + " timed out after " + timeout.String())
	}
}

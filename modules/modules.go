package modules

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tevino/abool"
)

var (
	modulesLock sync.RWMutex
	modules     = make(map[string]*Module)

	// ErrCleanExit is returned by Start when the program should exit without
	// error before starting, e.g. after printing the help text.
	ErrCleanExit = errors.New("clean exit requested")
)

type status uint32

const (
	statusRegistered status = iota
	statusPrepped
	statusStarted
	statusStopped
)

// Module is a part of the program with its own lifecycle.
type Module struct {
	Name string

	status atomic.Uint32

	prep  func() error
	start func() error
	stop  func() error

	// Ctx is canceled when the module stops.
	Ctx       context.Context
	cancelCtx context.CancelFunc

	stopping        *abool.AtomicBool
	workers         atomic.Int32
	workersDone     chan struct{}
	workersDoneOnce sync.Once

	depNames   []string
	deps       []*Module
	dependents []*Module
}

// Register registers a module. All control functions are optional; stop is
// called after all workers of the module finished.
func Register(name string, prep, start, stop func() error, dependencies ...string) *Module {
	m := initNewModule(name, prep, start, stop, dependencies...)

	modulesLock.Lock()
	defer modulesLock.Unlock()
	modules[name] = m
	return m
}

func initNewModule(name string, prep, start, stop func() error, dependencies ...string) *Module {
	ctx, cancel := context.WithCancel(context.Background())
	return &Module{
		Name:        name,
		prep:        prep,
		start:       start,
		stop:        stop,
		Ctx:         ctx,
		cancelCtx:   cancel,
		stopping:    abool.New(),
		workersDone: make(chan struct{}),
		depNames:    dependencies,
	}
}

func (m *Module) getStatus() status {
	return status(m.status.Load())
}

func (m *Module) setStatus(s status) {
	m.status.Store(uint32(s))
}

// IsStopping returns whether the module is stopping.
func (m *Module) IsStopping() bool {
	return m.stopping.IsSet()
}

// Stopping returns a channel that is closed when the module is stopping.
func (m *Module) Stopping() <-chan struct{} {
	return m.Ctx.Done()
}

// linkDependencies resolves dependency names. Links are rebuilt on every
// call so that Start can be retried.
func linkDependencies() error {
	for _, m := range modules {
		m.deps = nil
		m.dependents = nil
	}
	for _, m := range modules {
		for _, name := range m.depNames {
			dep, ok := modules[name]
			if !ok {
				return fmt.Errorf("module %s depends on unregistered module %q", m.Name, name)
			}
			m.deps = append(m.deps, dep)
			dep.dependents = append(dep.dependents, m)
		}
	}
	return nil
}

func allModules() []*Module {
	list := make([]*Module, 0, len(modules))
	for _, m := range modules {
		list = append(list, m)
	}
	return list
}

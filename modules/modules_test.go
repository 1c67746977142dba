package modules

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tevino/abool"
)

var errTest = errors.New("test error")

// recorder collects the order in which control functions ran.
type recorder struct {
	sync.Mutex
	started []string
	stopped []string
}

func (r *recorder) register(name string, deps ...string) *Module {
	return Register(name, nil,
		func() error {
			r.Lock()
			defer r.Unlock()
			r.started = append(r.started, name)
			return nil
		},
		func() error {
			r.Lock()
			defer r.Unlock()
			r.stopped = append(r.stopped, name)
			return nil
		},
		deps...,
	)
}

func before(t *testing.T, order []string, first, second string) {
	t.Helper()

	joined := ">" + strings.Join(order, ">") + ">"
	i := strings.Index(joined, ">"+first+">")
	j := strings.Index(joined, ">"+second+">")
	require.True(t, i >= 0 && j >= 0, "missing %s or %s in %v", first, second, order)
	assert.Less(t, i, j, "%s must come before %s in %v", first, second, order)
}

func resetModules() {
	modulesLock.Lock()
	defer modulesLock.Unlock()

	modules = make(map[string]*Module)
	startComplete = abool.New()
	startCompleteSignal = make(chan struct{})
	shutdownFlag = abool.New()
	shutdownSignal = make(chan struct{})
	shutdownCompleteSignal = make(chan struct{})
	exitStatusCode.Store(0)
}

func TestModules(t *testing.T) { //nolint:paralleltest // Global state.
	t.Run("Order", testModuleOrder)
	t.Run("Errors", testModuleErrors)
	t.Run("Workers", testModuleWorkers)
}

func testModuleOrder(t *testing.T) {
	resetModules()

	var rec recorder
	rec.register("storage")
	rec.register("random", "storage")
	rec.register("service", "storage")
	rec.register("selftest", "random", "storage")

	require.NoError(t, Start())
	assert.True(t, StartCompleted())
	before(t, rec.started, "storage", "random")
	before(t, rec.started, "storage", "service")
	before(t, rec.started, "random", "selftest")

	require.NoError(t, Shutdown())
	select {
	case <-ShuttingDown():
	default:
		t.Error("shutdown signal not closed")
	}
	before(t, rec.stopped, "selftest", "random")
	before(t, rec.stopped, "random", "storage")
	before(t, rec.stopped, "service", "storage")

	assert.ErrorIs(t, Shutdown(), ErrShutdownInProgress)
	assert.Equal(t, 0, GetExitStatusCode())
}

func testModuleErrors(t *testing.T) {
	resetModules()
	Register("prepfail", func() error { return errTest }, nil, nil)
	assert.ErrorIs(t, Start(), errTest)

	resetModules()
	Register("prepcleanexit", func() error { return ErrCleanExit }, nil, nil)
	assert.ErrorIs(t, Start(), ErrCleanExit)

	resetModules()
	Register("orphan", nil, nil, nil, "missing")
	assert.Error(t, Start())

	resetModules()
	Register("a", nil, nil, nil, "b")
	Register("b", nil, nil, nil, "a")
	assert.ErrorIs(t, Start(), errDependencyLoop)

	resetModules()
	Register("startfail", nil, func() error { return errTest }, nil)
	assert.ErrorIs(t, Start(), errTest)

	resetModules()
	Register("startpanic", nil, func() error { panic("boom") }, nil)
	panicked, me := IsPanic(Start())
	require.True(t, panicked)
	assert.Equal(t, "startpanic", me.ModuleName)
	assert.Equal(t, "module-control", me.TaskType)

	resetModules()
	Register("stopfail", nil, nil, func() error { return errTest })
	require.NoError(t, Start())
	assert.ErrorIs(t, Shutdown(), errTest)
	assert.Equal(t, 1, GetExitStatusCode())

	resetModules()
	HelpFlag = true
	defer func() { HelpFlag = false }()
	assert.ErrorIs(t, Start(), ErrCleanExit)
}

func testModuleWorkers(t *testing.T) {
	resetModules()

	workerStopped := abool.New()
	m := Register("workers", nil, nil, func() error {
		if !workerStopped.IsSet() {
			return errors.New("stop called before workers finished")
		}
		return nil
	})
	m.StartServiceWorker("idle", 0, func(ctx context.Context) error {
		<-ctx.Done()
		workerStopped.Set()
		return nil
	})

	require.NoError(t, Start())
	require.NoError(t, Shutdown())
	assert.True(t, m.IsStopping())
}

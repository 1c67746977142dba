package run

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/safing/pqbase/log"
	"github.com/safing/pqbase/modules"
)

var (
	printStackOnExit bool

	sigUSR1 = syscall.Signal(0xa) // not available on windows
)

const (
	forceExitAfterSignals = 5
	shutdownTimeout       = 3 * time.Minute
)

func init() {
	flag.BoolVar(&printStackOnExit, "print-stack-on-exit", false, "prints the stack before shutting down")
}

// Task is the work of a program. A task returning ends the program.
type Task func(ctx context.Context) error

// Run starts all modules, runs task and shuts down when the task is done
// or a signal is received. Without a task, Run waits for a signal. The
// returned value is meant for os.Exit.
func Run(task Task) int {
	if err := modules.Start(); err != nil {
		if errors.Is(err, modules.ErrCleanExit) {
			return 0
		}
		if printStackOnExit {
			printStackTo(os.Stdout)
		}
		_ = modules.Shutdown()
		return modules.GetExitStatusCode()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	taskDone := make(chan struct{})
	if task != nil {
		go func() {
			defer close(taskDone)
			if err := task(ctx); err != nil {
				log.Errorf("main: %s", err)
				modules.SetExitStatusCode(1)
			}
		}()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, sigUSR1)

	for {
		select {
		case sig := <-signals:
			if sig == sigUSR1 {
				_ = pprof.Lookup("goroutine").WriteTo(os.Stderr, 1)
				continue
			}
			fmt.Println(" <INTERRUPT>")
			log.Warning("main: program was interrupted, shutting down")
			go forceExit(signals)
			cancel()
			shutdown()

		case <-taskDone:
			shutdown()

		case <-modules.ShuttingDown():
		}

		return modules.GetExitStatusCode()
	}
}

func shutdown() {
	if printStackOnExit {
		printStackTo(os.Stdout)
	}
	_ = modules.Shutdown()
}

// forceExit exits the process if the shutdown hangs or the user insists.
func forceExit(signals <-chan os.Signal) {
	timeout := time.After(shutdownTimeout)
	for left := forceExitAfterSignals; ; {
		select {
		case <-signals:
			left--
			if left > 0 {
				fmt.Printf(" <INTERRUPT> again, but already shutting down, %d more to force\n", left)
				continue
			}
			fmt.Fprintln(os.Stderr, "===== FORCED EXIT =====")
		case <-timeout:
			fmt.Fprintln(os.Stderr, "===== TAKING TOO LONG FOR SHUTDOWN =====")
		}
		printStackTo(os.Stderr)
		os.Exit(1)
	}
}

func printStackTo(w io.Writer) {
	fmt.Fprintln(w, "=== PRINTING TRACES ===")
	for _, profile := range []string{"goroutine", "block", "mutex"} {
		fmt.Fprintf(w, "=== %s ===\n", profile)
		_ = pprof.Lookup(profile).WriteTo(w, 1)
	}
	fmt.Fprintln(w, "=== END TRACES ===")
}

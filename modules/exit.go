package modules

import "sync/atomic"

var exitStatusCode atomic.Int32

// SetExitStatusCode sets the code the program returns to the host.
func SetExitStatusCode(n int) {
	exitStatusCode.Store(int32(n))
}

// GetExitStatusCode waits for the shutdown to complete and returns the exit code.
func GetExitStatusCode() int {
	<-shutdownCompleteSignal
	return int(exitStatusCode.Load())
}

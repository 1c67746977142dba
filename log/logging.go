// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

// Package log is an asynchronous leveled logger. Log calls are cheap for
// disabled levels and queue lines for a single writer goroutine, which
// collapses consecutive duplicates.
package log

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tevino/abool"
)

// Severity describes a log level.
type Severity uint32

// Log levels.
const (
	TraceLevel    Severity = 1
	DebugLevel    Severity = 2
	InfoLevel     Severity = 3
	WarningLevel  Severity = 4
	ErrorLevel    Severity = 5
	CriticalLevel Severity = 6
)

type logLine struct {
	msg       string
	level     Severity
	timestamp time.Time
	file      string
	line      int
}

func (l *logLine) sameAs(other *logLine) bool {
	return l.msg == other.msg && l.file == other.file && l.line == other.line
}

var (
	logBuffer = make(chan *logLine, 1024)

	logLevel atomic.Uint32

	pkgLevelsActive = abool.New()
	pkgLevels       = make(map[string]Severity)
	pkgLevelsLock   sync.Mutex

	started           = abool.New()
	shutdownFlag      = abool.New()
	shutdownSignal    = make(chan struct{})
	shutdownWaitGroup sync.WaitGroup

	// ErrAlreadyStarted is returned by Start if logging was already started.
	ErrAlreadyStarted = errors.New("logging already started")
)

func init() {
	logLevel.Store(uint32(InfoLevel))
}

// GetLogLevel returns the global log level.
func GetLogLevel() Severity {
	return Severity(logLevel.Load())
}

// SetLogLevel sets the global log level.
func SetLogLevel(level Severity) {
	logLevel.Store(uint32(level))
}

// SetPkgLevels sets log levels per package. Packages are identified by the
// name of the directory their source files are in.
func SetPkgLevels(levels map[string]Severity) {
	pkgLevelsLock.Lock()
	pkgLevels = levels
	pkgLevelsLock.Unlock()
	pkgLevelsActive.Set()
}

// UnSetPkgLevels removes all package log levels.
func UnSetPkgLevels() {
	pkgLevelsActive.UnSet()
}

func pkgLevel(pkg string) (Severity, bool) {
	pkgLevelsLock.Lock()
	defer pkgLevelsLock.Unlock()

	level, ok := pkgLevels[pkg]
	return level, ok
}

// ParseLevel returns the severity of a level name, or 0 if unknown.
func ParseLevel(level string) Severity {
	for s := TraceLevel; s <= CriticalLevel; s++ {
		if strings.EqualFold(level, levelNames[s]) {
			return s
		}
	}
	return 0
}

// parsePkgLevels parses "pkg=level" pairs separated by commas.
func parsePkgLevels(spec string) (map[string]Severity, error) {
	levels := make(map[string]Severity)
	for _, pair := range strings.Split(spec, ",") {
		pkg, name, ok := strings.Cut(pair, "=")
		level := ParseLevel(name)
		if !ok || pkg == "" || level == 0 {
			return nil, fmt.Errorf("invalid package log level %q", pair)
		}
		levels[pkg] = level
	}
	return levels, nil
}

// Start applies the log flags and starts the writer. Lines logged before
// Start are kept as long as the buffer has room.
func Start() error {
	if !started.SetToIf(false, true) {
		return ErrAlreadyStarted
	}

	var err error
	if logLevelFlag != "" {
		if level := ParseLevel(logLevelFlag); level > 0 {
			SetLogLevel(level)
		} else {
			err = fmt.Errorf("log warning: invalid log level %q, falling back to info", logLevelFlag)
			fmt.Fprintln(os.Stderr, err)
		}
	}
	if pkgLogLevelsFlag != "" {
		levels, pkgErr := parsePkgLevels(pkgLogLevelsFlag)
		if pkgErr != nil {
			err = fmt.Errorf("log warning: %w, ignoring package levels", pkgErr)
			fmt.Fprintln(os.Stderr, err)
		} else {
			SetPkgLevels(levels)
		}
	}

	shutdownWaitGroup.Add(1)
	go writer()

	return err
}

// Shutdown writes all queued lines and stops the writer. Lines logged
// afterwards are written directly.
func Shutdown() {
	if shutdownFlag.SetToIf(false, true) {
		close(shutdownSignal)
	}
	shutdownWaitGroup.Wait()
}

package log

import (
	"fmt"
	"path"
	"runtime"
	"strings"
	"time"
)

// enabled is the fast path check before any formatting happens.
func enabled(level Severity) bool {
	return pkgLevelsActive.IsSet() || level >= GetLogLevel()
}

func log(level Severity, msg string) {
	line := &logLine{
		msg:       msg,
		level:     level,
		timestamp: time.Now(),
	}
	if _, file, lineNo, ok := runtime.Caller(2); ok {
		line.file = strings.TrimSuffix(file, ".go")
		line.line = lineNo
	}

	if pkgLevelsActive.IsSet() {
		pkg := path.Base(path.Dir(line.file))
		threshold, ok := pkgLevel(pkg)
		if !ok {
			threshold = GetLogLevel()
		}
		if level < threshold {
			return
		}
	}

	switch {
	case shutdownFlag.IsSet():
		writeLine(line, 0)
	case started.IsSet():
		select {
		case logBuffer <- line:
		case <-shutdownSignal:
			writeLine(line, 0)
		}
	default:
		select {
		case logBuffer <- line:
		default:
		}
	}
}

// Trace logs tiny steps.
func Trace(msg string) {
	if enabled(TraceLevel) {
		log(TraceLevel, msg)
	}
}

// Tracef logs tiny steps.
func Tracef(format string, things ...interface{}) {
	if enabled(TraceLevel) {
		log(TraceLevel, fmt.Sprintf(format, things...))
	}
}

// Debug logs details that help to follow what the program does.
func Debug(msg string) {
	if enabled(DebugLevel) {
		log(DebugLevel, msg)
	}
}

// Debugf logs details that help to follow what the program does.
func Debugf(format string, things ...interface{}) {
	if enabled(DebugLevel) {
		log(DebugLevel, fmt.Sprintf(format, things...))
	}
}

// Info logs significant events.
func Info(msg string) {
	if enabled(InfoLevel) {
		log(InfoLevel, msg)
	}
}

// Infof logs significant events.
func Infof(format string, things ...interface{}) {
	if enabled(InfoLevel) {
		log(InfoLevel, fmt.Sprintf(format, things...))
	}
}

// Warning logs unexpected events that did not break anything.
func Warning(msg string) {
	if enabled(WarningLevel) {
		log(WarningLevel, msg)
	}
}

// Warningf logs unexpected events that did not break anything.
func Warningf(format string, things ...interface{}) {
	if enabled(WarningLevel) {
		log(WarningLevel, fmt.Sprintf(format, things...))
	}
}

// Error logs failures that impair functionality while the program keeps running.
func Error(msg string) {
	if enabled(ErrorLevel) {
		log(ErrorLevel, msg)
	}
}

// Errorf logs failures that impair functionality while the program keeps running.
func Errorf(format string, things ...interface{}) {
	if enabled(ErrorLevel) {
		log(ErrorLevel, fmt.Sprintf(format, things...))
	}
}

// Critical logs failures the program cannot continue from.
func Critical(msg string) {
	if enabled(CriticalLevel) {
		log(CriticalLevel, msg)
	}
}

// Criticalf logs failures the program cannot continue from.
func Criticalf(format string, things ...interface{}) {
	if enabled(CriticalLevel) {
		log(CriticalLevel, fmt.Sprintf(format, things...))
	}
}

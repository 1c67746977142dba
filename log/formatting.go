// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"strings"
	"sync/atomic"
)

const (
	timeFormat = "060102 15:04:05.000"
	rightArrow = "▶"
	colorReset = "\033[0m"
	// length of the file path suffix shown in a line
	fileSuffixLen = 10
)

var (
	levelNames = [...]string{
		TraceLevel:    "TRACE",
		DebugLevel:    "DEBUG",
		InfoLevel:     "INFO",
		WarningLevel:  "WARNING",
		ErrorLevel:    "ERROR",
		CriticalLevel: "CRITICAL",
	}
	levelColors = [...]string{
		DebugLevel:    "\033[36m",
		InfoLevel:     "\033[34m",
		WarningLevel:  "\033[33m",
		ErrorLevel:    "\033[31m",
		CriticalLevel: "\033[35m",
	}

	// lineCounter numbers lines from 1 to 999 to spot gaps.
	lineCounter atomic.Uint32
)

// String returns the four letter tag of the severity.
func (s Severity) String() string {
	if s < TraceLevel || s > CriticalLevel {
		return "NONE"
	}
	return levelNames[s][:4]
}

func formatLine(line *logLine, duplicates uint64, color bool) string {
	var b strings.Builder

	if color && int(line.level) < len(levelColors) {
		b.WriteString(levelColors[line.level])
	}
	b.WriteString(line.timestamp.Format(timeFormat))
	if line.line == 0 {
		b.WriteString(" ?")
	} else {
		file := line.file
		if len(file) > fileSuffixLen {
			file = file[len(file)-fileSuffixLen:]
		}
		fmt.Fprintf(&b, " %s:%03d", file, line.line)
	}
	fmt.Fprintf(&b, " %s %s %03d", rightArrow, line.level, lineCounter.Add(1)%999+1)
	if duplicates > 0 {
		fmt.Fprintf(&b, " [%dx]", duplicates+1)
	}
	if color {
		b.WriteString(colorReset)
	}
	b.WriteString(" ")
	b.WriteString(line.msg)

	return b.String()
}

// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	output     io.Writer = os.Stdout
	outputLock sync.Mutex
	useColor   = true
)

// SetOutput sets the writer log lines go to. Colors are only used on stdout.
func SetOutput(w io.Writer) {
	outputLock.Lock()
	defer outputLock.Unlock()

	output = w
	useColor = w == os.Stdout
}

func writeLine(line *logLine, duplicates uint64) {
	outputLock.Lock()
	defer outputLock.Unlock()

	fmt.Fprintln(output, formatLine(line, duplicates, useColor))
}

// writer writes queued lines. Identical consecutive lines within a burst
// are written once with a repetition count.
func writer() {
	defer shutdownWaitGroup.Done()

	var pending *logLine
	var duplicates uint64
	flush := func() {
		if pending != nil {
			writeLine(pending, duplicates)
		}
		pending = nil
		duplicates = 0
	}

	for {
		select {
		case line := <-logBuffer:
			if pending != nil && pending.sameAs(line) {
				duplicates++
				pending.timestamp = line.timestamp
			} else {
				flush()
				pending = line
			}
			if len(logBuffer) == 0 {
				flush()
			}

		case <-shutdownSignal:
			flush()
			for {
				select {
				case line := <-logBuffer:
					writeLine(line, 0)
				default:
					writeLine(&logLine{
						msg:       "===== LOGGING STOPPED =====",
						level:     WarningLevel,
						timestamp: time.Now(),
					}, 0)
					return
				}
			}
		}
	}
}

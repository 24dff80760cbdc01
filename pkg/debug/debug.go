// Package debug provides conditional debug logging for dv.
//
// Set DV_DEBUG to any non-empty value to enable it:
//
//	DV_DEBUG=1 dv --data pokemon.csv
//
// Messages go to stderr with timestamps. When disabled every function returns
// immediately.
package debug

import (
	"io"
	"log"
	"os"
	"time"
)

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("DV_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[DV_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	return enabled
}

// SetEnabled toggles debug logging at runtime.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, "[DV_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output. The TUI points it at a file so log lines
// don't corrupt the alt screen.
func SetOutput(w io.Writer) {
	if logger == nil {
		logger = log.New(w, "[DV_DEBUG] ", log.Ltime|log.Lmicroseconds)
		return
	}
	logger.SetOutput(w)
}

// Log writes a printf-style message when enabled.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming logs how long a named step took.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogIf logs only when cond holds.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Printf(format, args...)
}

// LogEnterExit logs entry now and exit (with elapsed time) when the returned
// func runs:
//
//	defer debug.LogEnterExit("render")()
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}

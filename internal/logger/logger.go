// Package logger maintains the process-global run log.
//
// Each pipeline run appends to a plain-text log file (prep_simulation.log
// or process_traj.log by default) holding every executed command line and
// its full captured output, mirroring what the run printed. The global
// slog.Logger is safe for use before Setup — it discards records until a
// file is attached.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	global  = slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile *os.File
	logPath string
)

// Setup attaches the global logger to the given file, creating or
// appending as needed. It returns a cleanup func that closes the file
// and resets the global logger to discard.
func Setup(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	l := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mu.Lock()
	global = l
	logFile = f
	logPath = path
	mu.Unlock()

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		logPath = ""
		global = slog.New(slog.NewTextHandler(io.Discard, nil))
		return cerr
	}
	return cleanup, nil
}

// L returns the global logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Path returns the current log file path, or "" before Setup.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

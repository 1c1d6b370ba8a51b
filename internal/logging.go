package internal

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/mattn/go-isatty"
)

var (
	quietMode   atomic.Bool   // Only warnings and errors are logged; command output is not echoed.
	debugMode   atomic.Bool   // Debug records are logged.
	verboseMode atomic.Bool   // Records carry their source location.
	level       slog.LevelVar // Level shared by every logger built by [Logger].
)

// Parses the linker flags into the initial modes.
//
// The rawQuiet, rawDebug, and rawVerbose variables should be set via ldflags
// during the build process. If not set, they default to "false".
func init() {
	if v, err := strconv.ParseBool(rawQuiet); err == nil {
		quietMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawDebug); err == nil {
		debugMode.Store(v)
	}
	if v, err := strconv.ParseBool(rawVerbose); err == nil {
		verboseMode.Store(v)
	}
	level.Set(currentLevel())
}

// Turns on the modes requested on the command line. Modes enabled at build
// time stay enabled.
func EnableModes(quiet, debug, verbose bool) {
	if quiet {
		quietMode.Store(true)
	}
	if debug {
		debugMode.Store(true)
	}
	if verbose {
		verboseMode.Store(true)
	}
	level.Set(currentLevel())
}

// Returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode.Load()
}

// Returns true if debug mode is enabled.
func IsDebug() bool {
	return debugMode.Load()
}

// Returns true if verbose logging is enabled.
func IsVerbose() bool {
	return verboseMode.Load()
}

// Debug wins over quiet.
func currentLevel() slog.Level {
	switch {
	case IsDebug():
		return slog.LevelDebug
	case IsQuiet():
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Creates a logger writing to f.
//
// Terminals get the text handler, anything else gets JSON lines. The level
// follows [EnableModes] even for loggers created earlier.
func Logger(f *os.File) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     &level,
		AddSource: IsVerbose(),
	}
	return slog.New(newHandler(f, isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), opts))
}

func newHandler(w io.Writer, tty bool, opts *slog.HandlerOptions) slog.Handler {
	if tty {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

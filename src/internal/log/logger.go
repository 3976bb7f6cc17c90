package log

import (
	"fmt"
	"os"
	"sync"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

var (
	mu          sync.Mutex
	verbose     = false
	disableLogs = false
	forceStdErr = false
	logPrefixes = map[int]string{
		levelDebug: "\033[37m[DBG]\033[0m", // White
		levelInfo:  "\033[36m[INF]\033[0m", // Cyan
		levelWarn:  "\033[33m[WRN]\033[0m", // Yellow
		levelError: "\033[31m[ERR]\033[0m", // Red
	}
)

// SetVerbose sets the logging verbosity. If true, debug messages are displayed.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose logging is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetForceStdErr sends every level to stderr.
func SetForceStdErr(v bool) {
	mu.Lock()
	defer mu.Unlock()
	forceStdErr = v
}

// DisableLogs disables all logging.
func DisableLogs() {
	mu.Lock()
	defer mu.Unlock()
	disableLogs = true
}

// IsDisabled returns true if logging is disabled.
func IsDisabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return disableLogs
}

// Debugf logs a debug message if verbose is true.
func Debugf(format string, args ...interface{}) {
	logMessage(levelDebug, "", format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	logMessage(levelInfo, "", format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...interface{}) {
	logMessage(levelWarn, "", format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	logMessage(levelError, "", format, args...)
}

// Fatalf logs an error message and exits the program.
func Fatalf(format string, args ...interface{}) {
	logMessage(levelError, "", format, args...)
	os.Exit(1)
}

// Logger writes messages tagged with a component name.
type Logger struct {
	component string
}

// Prefixed returns a logger whose messages are tagged with "[component]".
func Prefixed(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	logMessage(levelDebug, l.component, format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	logMessage(levelInfo, l.component, format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	logMessage(levelWarn, l.component, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	logMessage(levelError, l.component, format, args...)
}

// formatLine builds the output line for a message without writing it.
func formatLine(level int, component, format string, args ...interface{}) string {
	message := fmt.Sprintf(format, args...)
	if component != "" {
		return logPrefixes[level] + " [" + component + "] " + message + "\n"
	}
	return logPrefixes[level] + " " + message + "\n"
}

// logMessage formats and writes a log message with the specified log level.
func logMessage(level int, component, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if disableLogs || (level == levelDebug && !verbose) {
		return
	}
	output := formatLine(level, component, format, args...)

	if forceStdErr || level == levelError {
		_, _ = os.Stderr.WriteString(output)
	} else {
		_, _ = os.Stdout.WriteString(output)
	}
}

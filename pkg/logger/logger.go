// Package logger defines the logging contract shared by every tradectl package.
package logger

import (
	"fmt"
	"strings"
)

type Level int8

const (
	Disabled   Level = -1   // Disabled is used for disabled logging.
	TraceLevel Level = iota // TraceLevel is used for detailed debugging information.
	DebugLevel              // DebugLevel is used for debugging information.
	InfoLevel               // InfoLevel is used for informational messages.
	WarnLevel               // WarnLevel is used for warning messages.
	ErrorLevel              // ErrorLevel is used for error messages.
	FatalLevel              // FatalLevel is used for fatal messages that cause the program to exit.
	NoLevel                 // NoLevel is used for no logging level.
)

var levelNames = map[string]Level{
	"disabled": Disabled,
	"trace":    TraceLevel,
	"debug":    DebugLevel,
	"info":     InfoLevel,
	"warn":     WarnLevel,
	"error":    ErrorLevel,
	"fatal":    FatalLevel,
}

// ParseLevel maps a configuration string such as "info" to a Level.
func ParseLevel(s string) (Level, error) {
	if level, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level, nil
	}
	return NoLevel, fmt.Errorf("unknown log level %q", s)
}

type Logger interface {
	// Returns a logger based off the root logger and decorates it with the given context and arguments.
	WithField(key string, value any) Logger  // WithField returns a logger with the given key-value pair.
	WithFields(fields map[string]any) Logger // WithFields returns a logger with the given fields.
	WithError(err error) Logger              // WithError returns a logger with the given error.

	Debug(args ...any) // Debug logs the message with the debug level.
	Info(args ...any)  // Info logs the message with the info level.
	Warn(args ...any)  // Warn logs the message with the warning level.
	Error(args ...any) // Error logs the message with the error level.
	Fatal(args ...any) // Fatal logs the message and then exits the program.

	Debugf(format string, args ...any) // Debugf formats and logs the message with the debug level.
	Infof(format string, args ...any)  // Infof formats and logs the message with the info level.
	Warnf(format string, args ...any)  // Warnf formats and logs the message with the warning level.
	Errorf(format string, args ...any) // Errorf formats and logs the message with the error level.
	Fatalf(format string, args ...any) // Fatalf formats and logs the message and then exits the program.

	SetLevel(level Level) // SetLevel sets the logging level for the logger.
	GetLevel() Level      // GetLevel returns the logging level for the logger.
}

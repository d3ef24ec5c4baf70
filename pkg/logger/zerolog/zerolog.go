// Package zerolog backs logger.Logger with github.com/rs/zerolog.
package zerolog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

const (
	messageWidth = 60
	callerWidth  = 16
)

// Options controls the console output of New.
type Options struct {
	Level          string
	DateTimeLayout string
	Colored        bool
	JSON           bool
	Output         io.Writer
}

// New builds a zerolog backed logger writing to stdout (or opts.Output).
func New(opts Options) (*Adapter, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	layout := opts.DateTimeLayout
	if layout == "" {
		layout = time.DateTime
	}

	var writer io.Writer = out
	if !opts.JSON {
		writer = zerolog.ConsoleWriter{
			Out:             out,
			NoColor:         !opts.Colored,
			TimeFormat:      layout,
			FormatLevel:     formatLevel,
			FormatMessage:   formatMessage,
			FormatCaller:    formatCaller,
			FormatTimestamp: func(i any) string { return formatTimestamp(i, layout) },
		}
	}

	zl := zerolog.New(writer).With().Timestamp().CallerWithSkipFrameCount(3).Logger()
	return NewAdapter(&zl), nil
}

func formatLevel(i any) string {
	switch i {
	case zerolog.LevelTraceValue:
		return term.Cyanf("[TRC]")
	case zerolog.LevelDebugValue:
		return term.Cyanf("[DBG]")
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WRN]")
	case zerolog.LevelErrorValue:
		return term.Redf("[ERR]")
	case zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return term.Redf("[FTL]")
	default:
		return term.Whitef("[???]")
	}
}

func formatMessage(i any) string {
	msg, ok := i.(string)
	if !ok || msg == "" {
		return ">"
	}
	if len(msg) > messageWidth {
		msg = msg[:messageWidth]
	}
	return term.Whitef("> %-*s", messageWidth, msg)
}

func formatCaller(i any) string {
	caller, ok := i.(string)
	if !ok || caller == "" {
		return ""
	}

	file, line, found := strings.Cut(filepath.Base(caller), ":")
	if !found {
		return caller
	}
	if len(file) > callerWidth {
		file = file[:callerWidth]
	}
	return term.Yellowf("[%-*s:%4s]", callerWidth, file, line)
}

func formatTimestamp(i any, layout string) string {
	raw, ok := i.(string)
	if !ok {
		return term.Cyanf("[%v]", i)
	}
	if ts, err := time.ParseInLocation(time.RFC3339, raw, time.Local); err == nil {
		raw = ts.Format(layout)
	}
	return term.Cyanf("[%s]", raw)
}

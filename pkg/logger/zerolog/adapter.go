package zerolog

import (
	"fmt"

	"github.com/raykavin/tradectl/pkg/logger"
	"github.com/rs/zerolog"
)

// Adapter exposes a zerolog.Logger through logger.Logger.
type Adapter struct {
	zl *zerolog.Logger
}

func NewAdapter(zl *zerolog.Logger) *Adapter {
	return &Adapter{zl: zl}
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Adapter {
	zl := zerolog.Nop()
	return &Adapter{zl: &zl}
}

func (z *Adapter) GetLevel() logger.Level {
	return toLevel(z.zl.GetLevel())
}

func (z *Adapter) SetLevel(level logger.Level) {
	zerolog.SetGlobalLevel(toZerologLevel(level))
}

func (z *Adapter) Debug(args ...any) { z.zl.Debug().Msg(fmt.Sprint(args...)) }
func (z *Adapter) Info(args ...any)  { z.zl.Info().Msg(fmt.Sprint(args...)) }
func (z *Adapter) Warn(args ...any)  { z.zl.Warn().Msg(fmt.Sprint(args...)) }
func (z *Adapter) Error(args ...any) { z.zl.Error().Msg(fmt.Sprint(args...)) }
func (z *Adapter) Fatal(args ...any) { z.zl.Fatal().Msg(fmt.Sprint(args...)) }

func (z *Adapter) Debugf(format string, args ...any) { z.zl.Debug().Msgf(format, args...) }
func (z *Adapter) Infof(format string, args ...any)  { z.zl.Info().Msgf(format, args...) }
func (z *Adapter) Warnf(format string, args ...any)  { z.zl.Warn().Msgf(format, args...) }
func (z *Adapter) Errorf(format string, args ...any) { z.zl.Error().Msgf(format, args...) }
func (z *Adapter) Fatalf(format string, args ...any) { z.zl.Fatal().Msgf(format, args...) }

// WithError implements logger.Logger.
func (z *Adapter) WithError(err error) logger.Logger {
	child := z.zl.With().Err(err).Logger()
	return &Adapter{zl: &child}
}

// WithField implements logger.Logger.
func (z *Adapter) WithField(key string, value any) logger.Logger {
	child := z.zl.With().Interface(key, value).Logger()
	return &Adapter{zl: &child}
}

// WithFields implements logger.Logger.
func (z *Adapter) WithFields(fields map[string]any) logger.Logger {
	child := z.zl.With().Fields(fields).Logger()
	return &Adapter{zl: &child}
}

var zerologToLevel = map[zerolog.Level]logger.Level{
	zerolog.Disabled:   logger.Disabled,
	zerolog.NoLevel:    logger.NoLevel,
	zerolog.TraceLevel: logger.TraceLevel,
	zerolog.DebugLevel: logger.DebugLevel,
	zerolog.InfoLevel:  logger.InfoLevel,
	zerolog.WarnLevel:  logger.WarnLevel,
	zerolog.ErrorLevel: logger.ErrorLevel,
	zerolog.FatalLevel: logger.FatalLevel,
}

func toLevel(level zerolog.Level) logger.Level {
	if l, ok := zerologToLevel[level]; ok {
		return l
	}
	return logger.NoLevel
}

func toZerologLevel(level logger.Level) zerolog.Level {
	for zl, l := range zerologToLevel {
		if l == level {
			return zl
		}
	}
	return zerolog.NoLevel
}

package app

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-sqlite/internal/config"
)

var globalLogger zerolog.Logger

var envLogLevels = map[string]zerolog.Level{
	config.EnvDev:   zerolog.DebugLevel,
	config.EnvProd:  zerolog.InfoLevel,
	config.EnvLocal: zerolog.TraceLevel,
}

func InitDefaultLogger() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	globalLogger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger()

	globalLogger.Info().Msg("initialized default logger")
}

// MustInitApplicationLogger expects config.Global to hold a validated
// env, which MustReadConfig guarantees.
func MustInitApplicationLogger() {
	cfg := config.Global()
	zerolog.SetGlobalLevel(envLogLevels[cfg.Env])

	w := io.Writer(os.Stdout)
	if cfg.Env == config.EnvLocal {
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	}

	globalLogger = globalLogger.Output(w)
	redirectGinOutput(globalLogger)

	globalLogger.Info().
		Str("env", cfg.Env).
		Msg("initialized application logger")
}

// redirectGinOutput routes gin's debug output, including the route dump,
// through logger. It has to run before the engine is created.
func redirectGinOutput(logger zerolog.Logger) {
	ginLogger := logger.With().
		Str("component", "gin").
		Logger()

	gin.DefaultWriter = levelWriter{logger: ginLogger, level: zerolog.DebugLevel}
	gin.DefaultErrorWriter = levelWriter{logger: ginLogger, level: zerolog.ErrorLevel}
	gin.DebugPrintRouteFunc = func(method, path, handler string, handlers int) {
		ginLogger.Debug().
			Str("method", method).
			Str("path", path).
			Str("handler", handler).
			Int("handlers", handlers).
			Msg("registered route")
	}
}

// levelWriter writes every line it receives as a single event at level.
type levelWriter struct {
	logger zerolog.Logger
	level  zerolog.Level
}

func (w levelWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(strings.TrimPrefix(string(p), "[GIN-debug] "))
	if msg != "" {
		w.logger.WithLevel(w.level).Msg(msg)
	}
	return len(p), nil
}

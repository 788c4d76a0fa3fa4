package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "vidora-backend"

var zlog = newLogger(os.Stdout)

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("service", serviceName).Logger()
}

func isLocalEnv(env string) bool {
	switch strings.ToLower(env) {
	case "local", "dev", "development", "test":
		return true
	}
	return false
}

// InitStructured configures the global logger for env. Local environments get
// colored console output at debug level; everything else writes JSON.
// LOG_LEVEL overrides the level in either case.
func InitStructured(env string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := zerolog.InfoLevel
	var out io.Writer = os.Stdout
	if isLocalEnv(env) {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05.000"}
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}

	zerolog.SetGlobalLevel(level)
	zlog = newLogger(out).With().Str("env", env).Logger()
}

// SetOutput swaps the writer of the global logger
func SetOutput(w io.Writer) {
	zlog = zlog.Output(w)
}

func GetLogger() *zerolog.Logger {
	return &zlog
}

// WithComponent tags entries with the subsystem that produced them
func WithComponent(name string) zerolog.Logger {
	return zlog.With().Str("component", name).Logger()
}

func WithRequestID(requestID string) zerolog.Logger {
	return zlog.With().Str("request_id", requestID).Logger()
}

func WithUserID(userID uint64) zerolog.Logger {
	return zlog.With().Uint64("user_id", userID).Logger()
}

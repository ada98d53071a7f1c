// Package log configures structured logging for stylo.
//
// The default sink is a JSON slog handler whose records carry a
// stacktrace attribute extracted from cockroachdb/errors values. Library
// warnings raised through pkg/errors are bridged into the same stream.
package log

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rs/zerolog"

	stderrors "github.com/stylo-ml/stylo/pkg/errors"
)

// SetupLogger installs the default JSON logger at the given level and
// routes library warnings through zerolog.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stderr, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))

	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	stderrors.SetZerologWarnFunc(func(warning error) {
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			zl.Warn().Object("warning", obj).Msg(warning.Error())
			return
		}
		zl.Warn().Err(warning).Msg("warning")
	})
}

// ToLogLevel maps a level name to its slog level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

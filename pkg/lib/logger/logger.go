package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"retailpos/pkg/config"
	"retailpos/pkg/lib/logger/handler/slogpretty"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogger builds the till logger for env. When logCfg.File is set every
// record is also written, as JSON, to a size-rotated file.
func SetupLogger(env string, logCfg config.LogConfig) (*slog.Logger, error) {
	var out io.Writer = os.Stdout
	if logCfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logCfg.File,
			MaxSize:    logCfg.MaxSizeMB,
			MaxBackups: logCfg.MaxBackups,
			MaxAge:     logCfg.MaxAgeDays,
		})
	}

	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		if logCfg.File != "" {
			// colour codes have no place in a log file
			log = slog.New(
				slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}),
			)
			break
		}
		log = setupPrettySlog()
	case config.EnvDev:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case config.EnvProd:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		return nil, errors.New("failed to init logger: wrong env variable")
	}

	return log, nil
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

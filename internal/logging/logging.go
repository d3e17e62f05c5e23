package logging

import (
	"io"

	"github.com/google/logger"
	"gopkg.in/natefinch/lumberjack.v2"

	"luckydraw/internal/config"
)

// Init sets up the default logger. Without a log file every level goes to
// the console. With one, all levels go to a size-rotated file and the console
// only mirrors info and warnings when verbose is set. Errors always reach stderr.
func Init(name string, cfg config.LogConfig) *logger.Logger {
	if cfg.File == "" {
		return logger.Init(name, true, false, io.Discard)
	}
	out := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		LocalTime:  true,
	}
	return logger.Init(name, cfg.Verbose, false, out)
}

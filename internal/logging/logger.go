package logging

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const DefaultFileName = "EPGi.log"

type LogConfig struct {
	Level      zapcore.Level
	FileName   string
	MaxSize    int // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
}

func DefaultConfig() LogConfig {
	return LogConfig{
		Level:      zapcore.InfoLevel,
		FileName:   DefaultFileName,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     30,
	}
}

// New builds an append-only file logger and installs it as the zap global. The
// returned closer flushes and closes the log file.
func New(cfg LogConfig) (*zap.Logger, io.Closer) {
	if cfg.FileName == "" {
		cfg.FileName = DefaultFileName
	}
	writer := &lumberjack.Logger{
		Filename:   cfg.FileName,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
	}
	logger := NewWithWriter(cfg.Level, zapcore.AddSync(writer))
	zap.ReplaceGlobals(logger)
	return logger, closerFunc(func() error {
		_ = logger.Sync()
		return writer.Close()
	})
}

// NewWithWriter builds a logger on an arbitrary sink.
func NewWithWriter(level zapcore.Level, ws zapcore.WriteSyncer) *zap.Logger {
	core := zapcore.NewCore(encoder(), ws, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func encoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05"))
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

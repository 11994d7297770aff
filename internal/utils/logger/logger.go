// internal/utils/logger/logger.go
package logger

import (
	"errors"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger расширяет функционал zap.Logger
type Logger struct {
	*zap.Logger
	config *Config
}

// New создает логгер: консоль в stderr (stdout занят отчётами команд)
// и, если задан LogFile, JSON-файл с ротацией.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	level := zapcore.InfoLevel
	if cfg.Development {
		level = zapcore.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stderr), level),
	}
	if cfg.LogFile != "" {
		logRotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(logRotator), level))
	}

	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...),
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		),
		config: cfg,
	}, nil
}

// Wrap оборачивает готовый zap.Logger (например, в тестах).
func Wrap(l *zap.Logger) *Logger {
	return &Logger{Logger: l, config: DefaultConfig()}
}

// WithTransaction добавляет контекст транзакции к логам
func (l *Logger) WithTransaction(signature string) *zap.Logger {
	return l.With(
		zap.String("signature", signature),
		zap.Time("tx_time", time.Now().UTC()),
	)
}

// WithOperation создает логгер для конкретной операции
func (l *Logger) WithOperation(operation string) *zap.Logger {
	return l.With(
		zap.String("operation", operation),
		zap.String("correlation_id", uuid.New().String()),
	)
}

// WithComponent добавляет информацию о компоненте системы
func (l *Logger) WithComponent(component string) *zap.Logger {
	return l.With(zap.String("component", component))
}

// Sync сбрасывает буферы; ошибки sync для терминальных дескрипторов игнорируются.
func (l *Logger) Sync() error {
	err := l.Logger.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

// TrackPerformance отслеживает производительность операции
func (l *Logger) TrackPerformance(operation string) (end func()) {
	start := time.Now()
	opLogger := l.WithOperation(operation)

	opLogger.Debug("Starting operation")

	return func() {
		duration := time.Since(start)
		opLogger.Debug("Operation completed",
			zap.Duration("duration", duration),
			zap.Float64("duration_ms", float64(duration.Microseconds())/1000),
		)
	}
}

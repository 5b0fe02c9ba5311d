package logger

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// Init 初始化全局 logger，format 为 json 或 console
func Init(level, format string) error {
	var cfg zap.Config
	if strings.EqualFold(format, "console") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	global.Store(l)
	return nil
}

// Set 替换全局 logger（测试中可传入 zaptest / observer）
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	global.Store(l)
}

func L() *zap.Logger { return global.Load() }

func Debug(msg string, fields ...zap.Field) { global.Load().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { global.Load().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { global.Load().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { global.Load().Error(msg, fields...) }

func Fatal(msg string, fields ...zap.Field) { global.Load().Fatal(msg, fields...) }

func Sync() error { return global.Load().Sync() }

package logs

import (
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"IdleCity/internal/shared/serverconfig"
)

var logger = zap.NewNop()

// Init 构建全局 logger：
// - 控制台：彩色 console 编码，便于本地看
// - 文件（配置了 file_dir 才有）：JSON 编码 + lumberjack 切割
// - dev 模式：warn 及以上自动带堆栈
func Init(appName string, cfg serverconfig.LogConfig) error {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		lvl = zapcore.InfoLevel
	}
	atomicLevel := zap.NewAtomicLevelAt(lvl)

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stderr), atomicLevel),
	}
	if cfg.FileDir != "" {
		cores = append(cores, zapcore.NewCore(jsonEncoder(), zapcore.AddSync(rotatingFile(cfg)), atomicLevel))
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	_ = logger.Sync()
	logger = zap.New(zapcore.NewTee(cores...), opts...).Named(appName)
	return nil
}

func baseEncoderConfig() zapcore.EncoderConfig {
	// 2026-01-28T10:00:00 INFO  idle-city  session started  session_actor.go:52
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func consoleEncoder() zapcore.Encoder {
	cfg := baseEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// 文件里不能带 ANSI 颜色转义。
func jsonEncoder() zapcore.Encoder {
	cfg := baseEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func rotatingFile(cfg serverconfig.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.FileDir,
		MaxSize:    max(1, cfg.MaxSize),
		MaxBackups: max(0, cfg.MaxBackups),
		MaxAge:     max(0, cfg.MaxAge),
		Compress:   cfg.Compress,
	}
}

// L 返回当前全局 logger，未初始化时是 Nop。
func L() *zap.Logger {
	return logger
}

func Sync() error {
	return logger.Sync()
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

// Fatal 输出后退出进程（os.Exit(1)）。
func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}

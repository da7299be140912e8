package jsonlog

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level 日志级别
type Level int8

const (
	LevelInfo Level = iota
	LevelError
	LevelFatal
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return ""
	}
}

// ParseLevel 把配置中的字符串解析成 Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	case "off":
		return LevelOff, nil
	default:
		return LevelOff, fmt.Errorf("jsonlog: unknown level %q", s)
	}
}

// enabler 把 Level 映射为 zap 的级别判断，LevelOff 关闭全部输出
func (l Level) enabler() zapcore.LevelEnabler {
	switch l {
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelFatal:
		return zapcore.FatalLevel
	default:
		return zap.LevelEnablerFunc(func(zapcore.Level) bool { return false })
	}
}

// Logger 输出 JSON 格式的日志，底层使用 zap
type Logger struct {
	zl *zap.Logger
}

// New 返回写入 out 的 Logger，低于 minLevel 的日志会被丢弃
func New(out io.Writer, minLevel Level) *Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "message",
		StacktraceKey:  "trace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(out)),
		minLevel.enabler(),
	)

	return &Logger{
		zl: zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)),
	}
}

func (l *Logger) PrintInfo(message string, properties map[string]string) {
	l.zl.Info(message, fields(properties)...)
}

func (l *Logger) PrintError(err error, properties map[string]string) {
	l.zl.Error(err.Error(), fields(properties)...)
}

// PrintFatal 写入日志后退出进程
func (l *Logger) PrintFatal(err error, properties map[string]string) {
	l.zl.Fatal(err.Error(), fields(properties)...)
}

// Write 让 Logger 满足 io.Writer，供 http.Server 的 ErrorLog 使用
func (l *Logger) Write(message []byte) (n int, err error) {
	l.zl.Error(strings.TrimSpace(string(message)))
	return len(message), nil
}

// Sync 刷新缓冲
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

func fields(properties map[string]string) []zap.Field {
	if len(properties) == 0 {
		return nil
	}
	return []zap.Field{zap.Any("properties", properties)}
}

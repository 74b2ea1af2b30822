package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Plugin = zapcore.Core

// NOTE: 一些option选项是无法覆盖的
func NewLogger(plugin zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(plugin, append(DefaultOption(), options...)...)
}

func NewPlugin(writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(DefaultEncoder(), writer, enabler)
}

// stdout 留给搜索结果，日志只写 stderr
func NewStderrPlugin(enabler zapcore.LevelEnabler) Plugin {
	return zapcore.NewCore(ConsoleEncoder(), zapcore.Lock(zapcore.AddSync(os.Stderr)), enabler)
}

// Lumberjack 没有暴露 sync 方法，额外返回一个 closer，进程退出前需要 close
func NewFilePlugin(
	filePath string, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	var writer = DefaultLumberjackLogger()
	writer.Filename = filePath

	return NewPlugin(zapcore.AddSync(writer), enabler), writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New 按配置创建 logger：file 为空时写 stderr，否则写入滚动文件。
// level 见 ParseLevel。
func New(level, file string) (*zap.Logger, io.Closer) {
	lvl := ParseLevel(level)
	if file == "" {
		return NewLogger(NewStderrPlugin(lvl)), nopCloser{}
	}
	plugin, closer := NewFilePlugin(file, lvl)
	return NewLogger(plugin), closer
}

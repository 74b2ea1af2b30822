package log

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// ParseLevel 配置中的日志级别，大小写不敏感，无法识别时使用 INFO
func ParseLevel(text string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(text)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

package log_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dreamerjackson/torrentspider/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search.log")

	p, c := log.NewFilePlugin(path, zapcore.InfoLevel)
	logger := log.NewLogger(p)
	logger.Debug("dropped")
	logger.Info("search done")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"search done"`)
	assert.Contains(t, string(data), `"level":"INFO"`)
	assert.NotContains(t, string(data), "dropped")
}

func TestFileRotate(t *testing.T) {
	const filePrefix = "test"
	const fileSuffix = ".log"
	const gzipSuffix = ".gz"

	dir := t.TempDir()
	writer := log.DefaultLumberjackLogger()
	writer.Filename = filepath.Join(dir, filePrefix+fileSuffix)
	writer.MaxSize = 1
	logger := log.NewLogger(log.NewPlugin(zapcore.AddSync(writer), zapcore.DebugLevel))

	line := strings.Repeat("a", 10000)
	for i := 0; i < 300; i++ {
		logger.Info(line)
	}
	require.NoError(t, writer.Close())
	// NOTE: 目前Lumberjack的实现，close不会停掉压缩协程
	// 等待Lumberjack压缩日志文件
	time.Sleep(1 * time.Second)

	fs, err := os.ReadDir(dir)
	require.NoError(t, err)
	var gzCount, logCount int
	for _, f := range fs {
		var name = f.Name()
		if !strings.HasPrefix(name, filePrefix) {
			continue
		}
		switch {
		case strings.HasSuffix(name, fileSuffix):
			logCount++
		case strings.HasSuffix(name, fileSuffix+gzipSuffix):
			gzCount++
		}
	}
	assert.GreaterOrEqual(t, logCount, 1)
	assert.GreaterOrEqual(t, gzCount, 1)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, log.ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, log.ParseLevel(" warn "))
	assert.Equal(t, zapcore.InfoLevel, log.ParseLevel("verbose"))
	assert.Equal(t, zapcore.InfoLevel, log.ParseLevel(""))
}

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.log")
	logger, closer := log.New("warn", path)
	logger.Info("skipped")
	logger.Warn("site rate limited")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "site rate limited")
	assert.NotContains(t, string(data), "skipped")

	logger, closer = log.New("", "")
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.NoError(t, closer.Close())
}

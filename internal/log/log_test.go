package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()

	assert.NotNil(t, logger)
	logger.Info("test message")
	assert.IsType(t, &zap.Logger{}, logger)
}

func TestNewLogger_LogLevelEnv(t *testing.T) {
	// Тест 1: По умолчанию debug-сообщения отключены
	logger := NewLogger()
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), "Debug should be disabled by default")
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel), "Info should be enabled by default")

	// Тест 2: LOG_LEVEL понижает порог
	t.Setenv("LOG_LEVEL", "debug")
	logger = NewLogger()
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel), "Debug should be enabled via LOG_LEVEL")

	// Тест 3: Некорректное значение не ломает логгер
	t.Setenv("LOG_LEVEL", "bogus")
	logger = NewLogger()
	assert.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel), "Invalid LOG_LEVEL should fall back to info")
}

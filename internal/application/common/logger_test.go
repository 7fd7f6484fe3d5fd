package common_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/hostelsim-go/internal/application/common"
)

type captureLogger struct {
	levels   []string
	messages []string
}

func (c *captureLogger) Log(level, message string, metadata map[string]interface{}) {
	c.levels = append(c.levels, level)
	c.messages = append(c.messages, message)
}

func TestLoggerFromContext_RoundTrip(t *testing.T) {
	// Arrange
	capture := &captureLogger{}
	ctx := common.WithLogger(context.Background(), capture)

	// Act
	logger := common.LoggerFromContext(ctx)
	logger.Log("info", "visitor spawned", nil)

	// Assert
	require.Len(t, capture.messages, 1)
	assert.Equal(t, "visitor spawned", capture.messages[0])
}

func TestLoggerFromContext_MissingLoggerIsNoOp(t *testing.T) {
	// Act
	logger := common.LoggerFromContext(context.Background())

	// Assert: must not panic
	require.NotNil(t, logger)
	logger.Log("error", "dropped", map[string]interface{}{"visitor": "v-1"})
}

func TestMultiLogger_FansOut(t *testing.T) {
	// Arrange
	first := &captureLogger{}
	second := &captureLogger{}
	multi := &common.MultiLogger{Loggers: []common.SimLogger{first, second}}

	// Act
	multi.Log("warn", "queue full", map[string]interface{}{"length": 5})

	// Assert
	require.Len(t, first.messages, 1)
	require.Len(t, second.messages, 1)
	assert.Equal(t, "queue full", first.messages[0])
	assert.Equal(t, []string{"warn"}, second.levels)
}

func TestStdLogger_DropsBelowMinLevel(t *testing.T) {
	// Arrange
	logger := common.NewStdLogger("warn")

	// Act / Assert: below-threshold calls must be silent and must not panic
	logger.Log("debug", "ignored", nil)
	logger.Log("info", "ignored", nil)
	logger.Log("error", "kept", map[string]interface{}{"room": "room-3"})
	assert.Equal(t, "warn", logger.MinLevel)
}

func TestNewStdLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	// Act
	logger := common.NewStdLogger("chatty")

	// Assert
	assert.Equal(t, "info", logger.MinLevel)
}

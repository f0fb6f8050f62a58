package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/themedash/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	logger := testutil.NewMockLogger()
	child := logger.Named("http").With(logging.String("request_id", "abc"))
	child.Warn("slow", logging.Int("ms", 900))

	msg, ok := logger.Find("warn", "slow")
	require.True(t, ok)
	assert.Equal(t, "http", msg.Logger)
	v, ok := msg.Field("request_id")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
	v, _ = msg.Field("ms")
	assert.Equal(t, 900, v)

	require.NoError(t, child.SetLevel("error"))
	assert.Equal(t, "error", logger.Level())
}

func TestMockLogger_ImplementsLogger(t *testing.T) {
	var _ logging.Logger = testutil.NewMockLogger()
}

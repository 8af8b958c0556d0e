package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", "console")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := New("info", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log format")
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	stderrOverride = &buf
	defer func() { stderrOverride = nil }()

	logger, err := New("info", "json")
	require.NoError(t, err)

	logger.Info("began workflow", zap.String("workflow", "brainstorming"))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, `"msg":"began workflow"`)
	assert.Contains(t, out, `"workflow":"brainstorming"`)
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	stderrOverride = &buf
	defer func() { stderrOverride = nil }()

	logger, err := New("warn", "console")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

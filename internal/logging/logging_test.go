package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semchunk.log")

	logger, err := Build("info", path)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("chunked")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO")
	assert.Contains(t, string(data), "chunked")
	assert.NotContains(t, string(data), "hidden")
}

func TestBuild_Levels(t *testing.T) {
	for _, level := range Levels() {
		logger, err := Build(level, "stderr")
		require.NoError(t, err, level)
		assert.NotNil(t, logger)
	}

	logger, err := Build("DEBUG", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestBuild_UnknownLevel(t *testing.T) {
	_, err := Build("verbose", "stderr")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	logger, err := Build("info", "stderr")
	require.NoError(t, err)
	assert.Same(t, logger, OrNop(logger))
}

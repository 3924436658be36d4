package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDataDir_Default(t *testing.T) {
	ResetDataDir()
	t.Cleanup(ResetDataDir)
	t.Setenv(EnvDataDir, "")

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDataDirName), GetDataDir())
}

func TestGetDataDir_EnvOverrideAndCache(t *testing.T) {
	ResetDataDir()
	t.Cleanup(ResetDataDir)

	t.Setenv(EnvDataDir, "/first/path")
	assert.Equal(t, "/first/path", GetDataDir())

	t.Setenv(EnvDataDir, "/second/path")
	assert.Equal(t, "/first/path", GetDataDir(), "cached value survives env changes")

	ResetDataDir()
	assert.Equal(t, "/second/path", GetDataDir())
}

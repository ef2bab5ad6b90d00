package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishCmd_CopiesDataset(t *testing.T) {
	cfg = testConfig(t.TempDir())
	writeTestDataset(t)

	require.NoError(t, publishCmd.RunE(publishCmd, nil))

	want, err := os.ReadFile(cfg.Fetch.OutputPath)
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(cfg.Publish.LibDir, "dontkillmyapp_data.json"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPublishCmd_MissingSource(t *testing.T) {
	cfg = testConfig(t.TempDir())

	err := publishCmd.RunE(publishCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish")
}

func TestPublishCmd_InvalidConfig(t *testing.T) {
	cfg = testConfig(t.TempDir())
	cfg.Publish.LibDir = ""

	err := publishCmd.RunE(publishCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish.lib_dir is required")
}

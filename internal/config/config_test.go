package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so a stray
// config.yaml in the working tree cannot leak into the test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, int64(52428800), cfg.Cleaning.MaxUploadBytes)
	assert.Equal(t, 200, cfg.Cleaning.ShareRowLimit)
	assert.Equal(t, os.TempDir(), cfg.Cleaning.OutputDir)
	assert.True(t, cfg.Security.EnableCORS)
	assert.Equal(t, []string{"http://localhost:8501"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("AIBOX_SERVER_PORT", "9000")
	t.Setenv("AIBOX_CLEANING_SHARE_ROW_LIMIT", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Cleaning.ShareRowLimit)
}

func TestLoadFileMerge(t *testing.T) {
	dir := chdirTemp(t)
	yaml := "cleaning:\n  output_dir: /data/cleaned\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/cleaned", cfg.Cleaning.OutputDir)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := chdirTemp(t)
	yaml := "cleaning:\n  output_dir: /data/cleaned\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	t.Setenv("AIBOX_CLEANING_OUTPUT_DIR", "/env/cleaned")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/env/cleaned", cfg.Cleaning.OutputDir)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	chdirTemp(t)
	t.Setenv("AIBOX_SERVER_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("cleaning: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

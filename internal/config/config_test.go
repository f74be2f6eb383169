package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gm-test")
	t.Setenv("AI_BACKEND", "gemini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.ListenAddr)
	assert.Equal(t, "gemini", cfg.Backend)
	assert.Equal(t, "gm-test", cfg.GeminiAPIKey)
	assert.NotEmpty(t, cfg.StagingDir)
	assert.Positive(t, cfg.MaxUploadBytes)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("AI_BACKEND", "claude")
	t.Setenv("CLAUDE_API_KEY", "sk-test123")
	t.Setenv("STAGING_DIR", "/custom/staging")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "claude", cfg.Backend)
	assert.Equal(t, "sk-test123", cfg.ClaudeAPIKey)
	assert.Equal(t, "/custom/staging", cfg.StagingDir)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
}

func TestLoadMissingGeminiKey(t *testing.T) {
	t.Setenv("AI_BACKEND", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadMissingClaudeKey(t *testing.T) {
	t.Setenv("AI_BACKEND", "claude")
	t.Setenv("CLAUDE_API_KEY", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadOllamaNeedsNoKey(t *testing.T) {
	t.Setenv("AI_BACKEND", "ollama")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "llava", cfg.OllamaModel)
}

func TestLoadUnknownBackend(t *testing.T) {
	t.Setenv("AI_BACKEND", "palm")

	_, err := Load()
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestLoadInvalidMaxUpload(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gm-test")
	t.Setenv("AI_BACKEND", "gemini")
	t.Setenv("MAX_UPLOAD_BYTES", "lots")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("METADOCTOR_ENV_FILE_PROBE=from-file\n"), 0600))
	t.Setenv("METADOCTOR_ENV_FILE_PROBE", "")
	require.NoError(t, os.Unsetenv("METADOCTOR_ENV_FILE_PROBE"))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("METADOCTOR_ENV_FILE_PROBE"))
}

func TestLoadEnvFileMissing(t *testing.T) {
	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	ErrMissingAPIKey  = errors.New("missing API key")
	ErrUnknownBackend = errors.New("unknown AI backend")
)

const defaultMaxUploadBytes = 32 << 20

// Config is built once at startup and handed to constructors; nothing
// mutates it afterwards.
type Config struct {
	ListenAddr     string
	Backend        string
	GeminiAPIKey   string
	GeminiModel    string
	ClaudeAPIKey   string
	ClaudeModel    string
	OllamaHost     string
	OllamaModel    string
	StagingDir     string
	MaxUploadBytes int64
	LogLevel       string
	LogFile        string
}

// LoadEnvFile merges a .env file into the process environment without
// overriding variables that are already set. A missing default .env is not
// an error; an explicitly named file that cannot be read is.
func LoadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func Load() (*Config, error) {
	maxUpload, err := getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":5000"),
		Backend:        getEnv("AI_BACKEND", "gemini"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		ClaudeAPIKey:   getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:    getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llava"),
		StagingDir:     getEnv("STAGING_DIR", filepath.Join(os.TempDir(), "metadoctor")),
		MaxUploadBytes: maxUpload,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY is required", ErrMissingAPIKey)
		}
	case "claude":
		if c.ClaudeAPIKey == "" {
			return fmt.Errorf("%w: CLAUDE_API_KEY is required when AI_BACKEND=claude", ErrMissingAPIKey)
		}
	case "ollama":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, val)
	}
	return n, nil
}

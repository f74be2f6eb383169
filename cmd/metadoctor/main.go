package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/ai"
	claudeai "github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/ai/claude"
	geminiai "github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/ai/gemini"
	ollamaai "github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/ai/ollama"
	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/config"
	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/logging"
	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/relay"
	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/staging"
	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Printf("metadoctor: %v", err)
		os.Exit(1)
	}
}

// run wires the service and blocks until the server stops. Deferred cleanup
// happens before main decides the exit status.
func run(args []string) error {
	flags := pflag.NewFlagSet("metadoctor", pflag.ContinueOnError)
	debug := flags.Bool("debug", false, "enable debug logging")
	envFile := flags.String("env-file", "", "load environment from this file instead of ./.env")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := config.LoadEnvFile(*envFile); err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile, *debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newAIClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize AI client", "backend", cfg.Backend, "error", err)
		return err
	}

	stagingDir, err := staging.NewDir(cfg.StagingDir)
	if err != nil {
		logger.Error("failed to initialize staging directory", "error", err)
		return err
	}

	svc := relay.NewService(client, stagingDir, logger)
	server := web.NewServer(svc, cfg.MaxUploadBytes, logger)

	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

func newAIClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ai.Client, error) {
	gen := ai.DefaultGenerationConfig()

	switch cfg.Backend {
	case "gemini":
		logger.Info("using Gemini backend", "model", cfg.GeminiModel)
		client, err := geminiai.NewGeminiClient(ctx, geminiai.Options{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			Generation: gen,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "claude":
		logger.Info("using Claude backend", "model", cfg.ClaudeModel)
		return claudeai.NewClaudeClient(cfg.ClaudeAPIKey, cfg.ClaudeModel, gen), nil
	case "ollama":
		logger.Info("using Ollama backend", "model", cfg.OllamaModel)
		return ollamaai.NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel, gen), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/ai"
	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/staging"
)

var ErrNoImage = errors.New("no image file provided")

// UpstreamError is returned when the external AI service fails. Op is
// "upload" or "chat".
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// stager is the subset of staging.Dir that Service requires.
type stager interface {
	Stage(ctx context.Context, ext string, r io.Reader) (*staging.File, error)
}

// Upload is one incoming image. Image is nil when the caller sent none.
type Upload struct {
	Image    io.Reader
	Filename string
	MimeType string
}

type Service struct {
	client  ai.Client
	staging stager
	logger  *slog.Logger
}

func NewService(client ai.Client, stg stager, logger *slog.Logger) *Service {
	return &Service{
		client:  client,
		staging: stg,
		logger:  logger,
	}
}

// Generate stages the image, uploads it, and asks the model for a nutrition
// analysis. The model's text is returned as-is.
func (s *Service) Generate(ctx context.Context, up Upload) (string, error) {
	if up.Image == nil {
		return "", ErrNoImage
	}

	handle, err := s.upload(ctx, up)
	if err != nil {
		return "", err
	}

	history := []ai.Turn{{Role: ai.RoleUser, File: handle, Text: NutritionPrompt}}
	text, err := s.client.Chat(ctx, history, NutritionPrompt)
	if err != nil {
		return "", &UpstreamError{Op: "chat", Err: err}
	}
	return text, nil
}

// upload owns the staged file for exactly the duration of the upstream upload.
func (s *Service) upload(ctx context.Context, up Upload) (*ai.FileHandle, error) {
	staged, err := s.staging.Stage(ctx, filepath.Ext(up.Filename), up.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to stage image: %w", err)
	}
	defer func() {
		if err := staged.Release(); err != nil {
			s.logger.Error("failed to release staged image", "path", staged.Path(), "error", err)
		}
	}()

	s.logger.Debug("staged image", "path", staged.Path(), "mime_type", up.MimeType)

	handle, err := s.client.Upload(ctx, staged.Path(), up.MimeType)
	if err != nil {
		return nil, &UpstreamError{Op: "upload", Err: err}
	}
	return handle, nil
}

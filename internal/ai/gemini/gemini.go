package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/ai"
)

const DefaultModel = "gemini-1.5-flash"

// GeminiClient binds ai.Client to the Gemini API: uploads go through the
// Files API and chats through a fresh chat session per call.
type GeminiClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
	logger *slog.Logger
}

// Options configures NewGeminiClient. BaseURL is empty in production.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	Generation ai.GenerationConfig
	Logger     *slog.Logger
}

func NewGeminiClient(ctx context.Context, opts Options) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GeminiClient{
		client: client,
		model:  model,
		config: generateConfig(opts.Generation),
		logger: logger,
	}, nil
}

func (c *GeminiClient) Upload(ctx context.Context, path, mimeType string) (*ai.FileHandle, error) {
	file, err := c.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to gemini: %w", err)
	}
	c.logger.Info("uploaded file", "display_name", file.DisplayName, "uri", file.URI)

	return &ai.FileHandle{
		DisplayName: file.DisplayName,
		URI:         file.URI,
		MIMEType:    file.MIMEType,
	}, nil
}

func (c *GeminiClient) Chat(ctx context.Context, history []ai.Turn, message string) (string, error) {
	chat, err := c.client.Chats.Create(ctx, c.model, c.config, buildHistory(history))
	if err != nil {
		return "", fmt.Errorf("failed to start gemini chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("failed to send gemini message: %w", err)
	}
	return resp.Text(), nil
}

func generateConfig(g ai.GenerationConfig) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.Temperature),
		TopP:             genai.Ptr(g.TopP),
		TopK:             genai.Ptr(float32(g.TopK)),
		MaxOutputTokens:  int32(g.MaxOutputTokens),
		ResponseMIMEType: g.ResponseMIMEType,
	}
}

// buildHistory converts relay turns to Gemini contents. A file handle comes
// before the turn's text, matching the order the model was prompted with.
func buildHistory(turns []ai.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		var parts []*genai.Part
		if t.File != nil {
			parts = append(parts, filePart(t.File))
		}
		if t.Text != "" {
			parts = append(parts, genai.NewPartFromText(t.Text))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.Role(t.Role)))
	}
	return contents
}

func filePart(f *ai.FileHandle) *genai.Part {
	if f.URI == "" {
		return genai.NewPartFromBytes(f.Data, f.MIMEType)
	}
	return genai.NewPartFromURI(f.URI, f.MIMEType)
}

package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/ai"
)

const DefaultModel = "claude-3-5-sonnet-20241022"

// ClaudeClient binds ai.Client to the Anthropic Messages API. Anthropic has
// no file ingestion step here, so Upload reads the staged file into an
// inline handle and Chat sends it base64-encoded.
type ClaudeClient struct {
	client *anthropic.Client
	model  string
	gen    ai.GenerationConfig
}

func NewClaudeClient(apiKey, model string, gen ai.GenerationConfig, opts ...anthropic.ClientOption) *ClaudeClient {
	if model == "" {
		model = DefaultModel
	}
	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
		gen:    gen,
	}
}

func (c *ClaudeClient) Upload(_ context.Context, path, mimeType string) (*ai.FileHandle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &ai.FileHandle{
		DisplayName: filepath.Base(path),
		MIMEType:    normaliseMIME(mimeType),
		Data:        data,
	}, nil
}

func (c *ClaudeClient) Chat(ctx context.Context, history []ai.Turn, message string) (string, error) {
	turns := append(append([]ai.Turn(nil), history...), ai.Turn{Role: ai.RoleUser, Text: message})

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		Messages:    buildMessages(turns),
		MaxTokens:   c.gen.MaxOutputTokens,
		Temperature: &c.gen.Temperature,
		TopP:        &c.gen.TopP,
		TopK:        &c.gen.TopK,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}
	return resp.GetFirstContentText(), nil
}

// buildMessages converts turns to Messages API messages. Consecutive turns
// with the same role are merged because the API expects roles to alternate.
func buildMessages(turns []ai.Turn) []anthropic.Message {
	var msgs []anthropic.Message
	for _, t := range turns {
		role := anthropic.RoleUser
		if t.Role == ai.RoleModel {
			role = anthropic.RoleAssistant
		}

		var content []anthropic.MessageContent
		if t.File != nil {
			content = append(content, anthropic.NewImageMessageContent(
				anthropic.NewMessageContentSource(
					anthropic.MessagesContentSourceTypeBase64,
					t.File.MIMEType,
					base64.StdEncoding.EncodeToString(t.File.Data),
				),
			))
		}
		if t.Text != "" {
			content = append(content, anthropic.NewTextMessageContent(t.Text))
		}

		if n := len(msgs); n > 0 && msgs[n-1].Role == role {
			msgs[n-1].Content = append(msgs[n-1].Content, content...)
			continue
		}
		msgs = append(msgs, anthropic.Message{Role: role, Content: content})
	}
	return msgs
}

// normaliseMIME maps browser MIME types to the values the Anthropic API accepts.
// Only jpeg, png, gif and webp are accepted; anything else is sent as jpeg.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}

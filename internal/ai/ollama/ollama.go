package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/ai"
)

type OllamaClient struct {
	host   string
	model  string
	gen    ai.GenerationConfig
	client *http.Client
}

func NewOllamaClient(host, model string, gen ai.GenerationConfig) *OllamaClient {
	return &OllamaClient{
		host:   host,
		model:  model,
		gen:    gen,
		client: &http.Client{},
	}
}

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Upload reads the staged file; Ollama takes images inline on each message.
func (c *OllamaClient) Upload(_ context.Context, path, mimeType string) (*ai.FileHandle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return &ai.FileHandle{
		DisplayName: filepath.Base(path),
		MIMEType:    mimeType,
		Data:        data,
	}, nil
}

func (c *OllamaClient) Chat(ctx context.Context, history []ai.Turn, message string) (string, error) {
	msgs := make([]chatMessage, 0, len(history)+1)
	for _, t := range history {
		msgs = append(msgs, toMessage(t))
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: message})

	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: msgs,
		Stream:   false,
		Options: map[string]any{
			"temperature": c.gen.Temperature,
			"top_p":       c.gen.TopP,
			"top_k":       c.gen.TopK,
			"num_predict": c.gen.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close ollama response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, errBody)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return body.Message.Content, nil
}

func toMessage(t ai.Turn) chatMessage {
	role := "user"
	if t.Role == ai.RoleModel {
		role = "assistant"
	}
	m := chatMessage{Role: role, Content: t.Text}
	if t.File != nil {
		m.Images = []string{base64.StdEncoding.EncodeToString(t.File.Data)}
	}
	return m
}

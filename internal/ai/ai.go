package ai

import (
	"context"
)

// Client is the external generative-AI service as seen by the relay.
// Upload ingests a file from disk and returns a handle the service can refer
// to in later turns; Chat opens a session seeded with history and sends
// message as the active turn.
type Client interface {
	Upload(ctx context.Context, path, mimeType string) (*FileHandle, error)
	Chat(ctx context.Context, history []Turn, message string) (string, error)
}

// FileHandle is an opaque reference to a file owned by the external service.
// Backends with a file API fill URI; backends without one carry the bytes
// inline in Data.
type FileHandle struct {
	DisplayName string
	URI         string
	MIMEType    string
	Data        []byte
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one entry of chat history. File is optional.
type Turn struct {
	Role Role
	File *FileHandle
	Text string
}

// GenerationConfig holds the sampling parameters sent with every chat.
type GenerationConfig struct {
	Temperature      float32
	TopP             float32
	TopK             int
	MaxOutputTokens  int
	ResponseMIMEType string
}

// DefaultGenerationConfig returns the parameters the relay runs with.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:      1,
		TopP:             0.95,
		TopK:             64,
		MaxOutputTokens:  8192,
		ResponseMIMEType: "text/plain",
	}
}

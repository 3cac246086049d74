package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
)

// ChatConfig configures the HTTP chat client.
type ChatConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultChatConfig returns defaults for a locally hosted model endpoint.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		BaseURL: "http://localhost:11434",
		Model:   "mistral",
		Timeout: 2 * time.Minute,
	}
}

// ChatClient talks to an ollama-compatible /api/chat endpoint.
type ChatClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ Client = (*ChatClient)(nil)

// NewChatClient creates a chat client with custom config. Empty fields fall
// back to the defaults.
func NewChatClient(config ChatConfig) *ChatClient {
	def := DefaultChatConfig()
	if strings.TrimSpace(config.BaseURL) == "" {
		config.BaseURL = def.BaseURL
	}
	if strings.TrimSpace(config.Model) == "" {
		config.Model = def.Model
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	return &ChatClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// maxPredictTokens bounds the completion length. Corrected text is roughly
// the size of the input, so a fixed ceiling is enough.
const maxPredictTokens = 2048

// Correct sends text to the model and returns its reply. The same text
// always produces the same request body, so repeated estimates stay stable.
// Every transport, status, or decode failure is reported as
// common.ErrOracleUnavailable; the caller decides whether to surface it.
func (c *ChatClient) Correct(ctx context.Context, text string, mode Mode) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: instructionFor(mode)},
			{Role: "user", Content: text},
		},
		Stream: false,
		Options: chatOptions{
			Temperature: 0,
			TopP:        1,
			NumPredict:  maxPredictTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", unavailable("marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", unavailable("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", unavailable("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", unavailable("read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", unavailable("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", unavailable("parse response: %v", err)
	}
	if chatResp.Error != "" {
		return "", unavailable("model error: %s", chatResp.Error)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("oracle "+format+": %w", append(args, common.ErrOracleUnavailable)...)
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intel/pkg/config"
	"github.com/johnquangdev/meeting-intel/pkg/jobcontext"
)

// GroqClient is a minimal client for Groq chat completions
type GroqClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	policy  jobcontext.Policy
	logger  *zap.Logger
}

// NewGroqClient creates a Groq client using values from the provided config
func NewGroqClient(cfg *config.GroqConfig, aiCfg *config.AIConfig, logger *zap.Logger) *GroqClient {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.groq.com"
	}
	return &GroqClient{
		apiKey:  cfg.APIKey,
		baseURL: base,
		model:   cfg.Model,
		client:  &http.Client{Timeout: aiCfg.Timeout},
		policy:  jobcontext.Policy{Timeout: aiCfg.Timeout, MaxRetries: aiCfg.MaxRetries},
		logger:  logger,
	}
}

// ChatMessage is one turn of a chat completion
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a system and user prompt and returns the assistant content
func (g *GroqClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model:       g.model,
		Temperature: 0.3,
		MaxTokens:   8000,
	}
	if system != "" {
		reqBody.Messages = append(reqBody.Messages, ChatMessage{Role: "system", Content: system})
	}
	reqBody.Messages = append(reqBody.Messages, ChatMessage{Role: "user", Content: prompt})

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	var content string
	err = jobcontext.Retry(ctx, g.policy, func(ctx context.Context) error {
		out, err := g.do(ctx, b)
		if err != nil {
			if g.logger != nil {
				g.logger.Warn("groq request failed",
					zap.Int("attempt", jobcontext.GetRetryAttempt(ctx)),
					zap.Error(err),
				)
			}
			return err
		}
		content = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (g *GroqClient) do(ctx context.Context, body []byte) (string, error) {
	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &APIError{Service: "groq", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("failed to decode groq response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return cr.Choices[0].Message.Content, nil
}

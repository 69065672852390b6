package llm

import (
	"context"
	"fieldbot/app/config"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	requestTimeout      = 30 * time.Second
	maxCompletionTokens = 800
)

// NewClient builds an OpenAI-compatible client for the given model config.
// Returns nil when no token is configured, callers treat that as "no LLM".
func NewClient(cfg config.ModelConfig) *openai.Client {
	if cfg.Token == "" {
		return nil
	}

	clientConfig := openai.DefaultConfig(cfg.Token)
	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: requestTimeout,
	}

	return openai.NewClientWithConfig(clientConfig)
}

// Chat runs one single-message completion and returns the trimmed text.
func Chat(ctx context.Context, client *openai.Client, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	aiResponse, err := client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxCompletionTokens: maxCompletionTokens,
			Temperature:         0.7,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return "", fmt.Errorf("no chat completion found")
	}

	return strings.TrimSpace(aiResponse.Choices[0].Message.Content), nil
}

// TrimJSONFence strips markdown code fences from model output before JSON
// parsing.
func TrimJSONFence(raw string) string {
	out := strings.Trim(raw, "`")
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "json")
	return strings.TrimSpace(out)
}

// FillTemplate substitutes {key} placeholders in a prompt template.
func FillTemplate(template string, values map[string]any) string {
	out := template
	for key, value := range values {
		out = strings.ReplaceAll(out, "{"+key+"}", fmt.Sprint(value))
	}
	return out
}

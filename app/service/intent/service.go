package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fieldbot/app/client/llm"
	"fieldbot/app/config"
	"fieldbot/app/model"

	_ "embed"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

//go:embed classify_prompt_template.txt
var classifyPromptTemplate string

const maxHistoryLines = 10

type Service struct {
	cfg    *config.Config
	client *openai.Client
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		cfg:    cfg,
		client: llm.NewClient(cfg.OpenAI.Intent),
	}, nil
}

// Classify analyzes one user message. Uses the configured model when
// available and falls back to the keyword classifier otherwise.
func (s *Service) Classify(ctx context.Context, message string, history []model.ConversationTurn, _ map[string]any) (*model.IntentAnalysis, error) {
	if s.client == nil {
		return RuleClassify(message), nil
	}

	prompt := llm.FillTemplate(classifyPromptTemplate, map[string]any{
		"message": message,
		"history": formatHistory(history),
	})

	raw, err := llm.Chat(ctx, s.client, s.cfg.OpenAI.Intent.Model, prompt)
	if err != nil {
		return nil, fmt.Errorf("classification call failed: %w", err)
	}

	var parsed struct {
		Intent       string            `json:"intent"`
		Confidence   float64           `json:"confidence"`
		Alternatives []model.Intent    `json:"alternatives"`
		Entities     map[string]string `json:"entities"`
		Sentiment    string            `json:"sentiment"`
		Complexity   string            `json:"complexity"`
	}

	if err = json.Unmarshal([]byte(llm.TrimJSONFence(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal classification: %w", err)
	}

	analysis := model.NeutralIntentAnalysis()
	if parsed.Intent != "" {
		analysis.Primary = &model.Intent{Name: parsed.Intent, Confidence: parsed.Confidence}
	}
	if len(parsed.Alternatives) > 0 {
		analysis.Alternatives = parsed.Alternatives
	}
	if len(parsed.Entities) > 0 {
		analysis.Entities = parsed.Entities
	}
	if parsed.Sentiment != "" {
		analysis.Sentiment = model.Sentiment(parsed.Sentiment)
	}
	if parsed.Complexity != "" {
		analysis.Complexity = model.Complexity(parsed.Complexity)
	}

	return analysis, nil
}

func formatHistory(history []model.ConversationTurn) string {
	if len(history) == 0 {
		return "No previous messages"
	}

	if len(history) > maxHistoryLines {
		history = history[len(history)-maxHistoryLines:]
	}

	var builder strings.Builder
	for _, turn := range history {
		builder.WriteString(fmt.Sprintf("%s: %s\n", turn.UserID, turn.UserMessage))
	}

	return builder.String()
}

func (s *Service) Close() error {
	return nil
}

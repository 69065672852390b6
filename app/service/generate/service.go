package generate

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

//go:embed generate_prompt_template.txt
var generatePromptTemplate string

type Service struct {
	cfg    *config.Config
	client *openai.Client
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		cfg:    cfg,
		client: llm.NewClient(cfg.OpenAI.Generation),
	}, nil
}

// Generate produces the draft response for one turn. Without a configured
// model it degrades to the rule-based generator.
func (s *Service) Generate(ctx context.Context, message string, convCtx *model.ConversationContext) (*model.DraftResponse, error) {
	if s.client == nil {
		return s.GenerateBasic(message, convCtx), nil
	}

	prompt := llm.FillTemplate(generatePromptTemplate, map[string]any{
		"assistant_name": s.cfg.Assistant.Name,
		"user_role":      convCtx.Profile.Role,
		"tone":           convCtx.ShortTerm.Tone,
		"intent":         intentName(convCtx),
		"topics":         strings.Join(convCtx.ShortTerm.RecentTopics, ", "),
		"message":        message,
	})

	raw, err := llm.Chat(ctx, s.client, s.cfg.OpenAI.Generation.Model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	var parsed struct {
		Response         string   `json:"response"`
		Confidence       float64  `json:"confidence"`
		Topics           []string `json:"topics"`
		SuggestedActions []string `json:"suggested_actions"`
	}

	if err = json.Unmarshal([]byte(llm.TrimJSONFence(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal generation: %w", err)
	}
	if parsed.Response == "" {
		return nil, fmt.Errorf("model returned empty response")
	}

	draft := &model.DraftResponse{
		Response:         parsed.Response,
		Confidence:       parsed.Confidence,
		Topics:           parsed.Topics,
		SuggestedActions: parsed.SuggestedActions,
		Metadata:         model.ResponseMetadata{Source: "llm", Strategies: []string{}},
	}
	if draft.Confidence <= 0 {
		draft.Confidence = 0.7
	}
	if len(draft.Topics) == 0 {
		draft.Topics = []string{"general"}
	}
	if draft.SuggestedActions == nil {
		draft.SuggestedActions = []string{}
	}

	return draft, nil
}

func intentName(convCtx *model.ConversationContext) string {
	if convCtx.Intent == nil || convCtx.Intent.Primary == nil {
		return "unknown"
	}
	return convCtx.Intent.Primary.Name
}

func (s *Service) Close() error {
	return nil
}

package convctx

import (
	"context"
	"fmt"

	"fieldbot/app/config"
	"fieldbot/app/model"
	"fieldbot/app/service/flow"
	"fieldbot/app/store/convstore"

	"github.com/samber/do"
	"github.com/samber/lo"
)

const defaultMaxSuggestions = 4

type Service struct {
	cfg   *config.Config
	store convstore.Store
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:   do.MustInvoke[*config.Config](di),
		store: do.MustInvoke[convstore.Store](di),
	}, nil
}

// Build assembles the per-turn conversation context from stored history and
// the user's profile.
func (s *Service) Build(ctx context.Context, turn model.ConversationTurn, history []model.ConversationTurn, userCtx map[string]any) (*model.ConversationContext, error) {
	profile, err := s.store.Profile(ctx, turn.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		profile = profileFromUserContext(turn.UserID, userCtx)
	}
	if profile.Preferences.MaxSuggestions <= 0 {
		profile.Preferences.MaxSuggestions = defaultMaxSuggestions
	}

	interactions, err := s.store.Interactions(ctx, turn.ConversationID, s.cfg.Learning.BatchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	out := &model.ConversationContext{
		ConversationID: turn.ConversationID,
		Profile:        *profile,
		ShortTerm: model.ShortTermMemory{
			RecentTopics:  recentTopics(history),
			RecentIntents: recentIntents(interactions),
			Tone:          conversationTone(history),
			Complexity:    model.ComplexityUnknown,
		},
		LongTerm: model.LongTermMemory{
			PrimaryInterests: interestsFromUserContext(userCtx),
			ProjectDetails:   map[string]string{},
		},
		Urgency:   detectUrgency(turn.UserMessage, history),
		TurnIndex: len(history),
	}

	return out, nil
}

// BuildFallback is the hard-coded minimal context used when history or
// context assembly fails: turn zero, neutral tone, empty memories.
func (s *Service) BuildFallback(userCtx map[string]any) *model.ConversationContext {
	profile := profileFromUserContext("", userCtx)
	profile.Preferences.MaxSuggestions = defaultMaxSuggestions

	return &model.ConversationContext{
		Profile: *profile,
		ShortTerm: model.ShortTermMemory{
			RecentTopics:  []string{},
			RecentIntents: []string{},
			Tone:          "neutral",
			Complexity:    model.ComplexityUnknown,
		},
		LongTerm: model.LongTermMemory{
			PrimaryInterests: []string{},
			ProjectDetails:   map[string]string{},
		},
		Urgency:   model.UrgencyLevel{Level: model.UrgencyNormal},
		TurnIndex: 0,
	}
}

// Enhance merges the intent analysis into the context and derives the active
// flow from message keywords.
func (s *Service) Enhance(convCtx *model.ConversationContext, analysis *model.IntentAnalysis, message string) (*model.ConversationContext, error) {
	if convCtx == nil {
		return nil, fmt.Errorf("no context to enhance")
	}

	convCtx.Intent = analysis
	if analysis != nil {
		convCtx.ShortTerm.Complexity = analysis.Complexity
		if analysis.Primary != nil {
			convCtx.ShortTerm.RecentIntents = append(convCtx.ShortTerm.RecentIntents, analysis.Primary.Name)
		}
	}

	convCtx.ActiveFlow, convCtx.CurrentFlowStep, _ = flow.Trigger(message)
	convCtx.Enhanced = true

	return convCtx, nil
}

func profileFromUserContext(userID string, userCtx map[string]any) *model.UserProfile {
	profile := &model.UserProfile{
		UserID:               userID,
		Role:                 "Customer",
		PreviousInteractions: []model.InteractionSummary{},
	}

	if userCtx == nil {
		return profile
	}

	if role, ok := userCtx["user_role"].(string); ok && role != "" {
		profile.Role = role
	}
	if length, ok := userCtx["response_length"].(string); ok {
		profile.Preferences.ResponseLength = length
	}
	if style, ok := userCtx["communication_style"].(string); ok {
		profile.Preferences.CommunicationStyle = style
	}
	if density, ok := userCtx["information_density"].(string); ok {
		profile.Preferences.InformationDensity = density
	}

	return profile
}

func interestsFromUserContext(userCtx map[string]any) []string {
	if userCtx == nil {
		return []string{}
	}

	switch v := userCtx["primary_interests"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func recentIntents(interactions []model.InteractionRecord) []string {
	intents := lo.FilterMap(interactions, func(rec model.InteractionRecord, _ int) (string, bool) {
		return rec.IntentRecognized, rec.IntentRecognized != ""
	})

	if len(intents) > 5 {
		intents = intents[len(intents)-5:]
	}

	return intents
}

func (s *Service) Close() error {
	return nil
}

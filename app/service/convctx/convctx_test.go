package convctx

import (
	"context"
	"testing"
	"time"

	"fieldbot/app/config"
	"fieldbot/app/model"
	"fieldbot/app/store/convstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*Service, convstore.Store) {
	t.Helper()

	store, err := convstore.NewStore(convstore.StoreTypeMemory)
	require.NoError(t, err)

	return &Service{cfg: config.Default(), store: store}, store
}

func turn(message string) model.ConversationTurn {
	return model.ConversationTurn{
		ConversationID: "c1",
		UserID:         "u1",
		UserMessage:    message,
		Timestamp:      time.Now(),
	}
}

func TestBuildDerivesTopicsAndTurnIndex(t *testing.T) {
	svc, _ := newService(t)

	history := []model.ConversationTurn{
		turn("I want a quote for my renovation"),
		turn("thanks, the permit question is next"),
	}

	convCtx, err := svc.Build(context.Background(), turn("what about the timeline?"), history, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, convCtx.TurnIndex)
	assert.Contains(t, convCtx.ShortTerm.RecentTopics, "quote")
	assert.Contains(t, convCtx.ShortTerm.RecentTopics, "renovation")
	assert.Contains(t, convCtx.ShortTerm.RecentTopics, "permit")
	assert.Equal(t, "positive", convCtx.ShortTerm.Tone)
	assert.Equal(t, "Customer", convCtx.Profile.Role)
	assert.Equal(t, 4, convCtx.Profile.Preferences.MaxSuggestions)
}

func TestBuildDetectsCriticalUrgency(t *testing.T) {
	svc, _ := newService(t)

	convCtx, err := svc.Build(context.Background(), turn("emergency! the basement is flooding"), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, model.UrgencyCritical, convCtx.Urgency.Level)
}

func TestBuildUsesStoredProfile(t *testing.T) {
	svc, store := newService(t)

	require.NoError(t, store.SaveProfile(context.Background(), &model.UserProfile{
		UserID: "u1",
		Role:   "Administrator",
		Preferences: model.Preferences{
			ResponseLength: "short",
			MaxSuggestions: 2,
		},
	}))

	convCtx, err := svc.Build(context.Background(), turn("hello"), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Administrator", convCtx.Profile.Role)
	assert.Equal(t, "short", convCtx.Profile.Preferences.ResponseLength)
	assert.Equal(t, 2, convCtx.Profile.Preferences.MaxSuggestions)
}

func TestBuildFallback(t *testing.T) {
	svc, _ := newService(t)

	convCtx := svc.BuildFallback(map[string]any{"user_role": "Administrator"})

	assert.Equal(t, 0, convCtx.TurnIndex)
	assert.Equal(t, "neutral", convCtx.ShortTerm.Tone)
	assert.Empty(t, convCtx.ShortTerm.RecentTopics)
	assert.Equal(t, model.UrgencyNormal, convCtx.Urgency.Level)
	assert.Equal(t, "Administrator", convCtx.Profile.Role)
}

func TestEnhanceDerivesFlow(t *testing.T) {
	svc, _ := newService(t)

	analysis := &model.IntentAnalysis{
		Primary:    &model.Intent{Name: "project_quote", Confidence: 0.8},
		Complexity: model.ComplexityMedium,
	}

	convCtx, err := svc.Enhance(&model.ConversationContext{}, analysis, "I need an estimate for the roof")
	require.NoError(t, err)

	assert.True(t, convCtx.Enhanced)
	assert.Equal(t, "quote_collection", convCtx.ActiveFlow)
	assert.Equal(t, "project_type", convCtx.CurrentFlowStep)
	assert.Equal(t, model.ComplexityMedium, convCtx.ShortTerm.Complexity)
	assert.Contains(t, convCtx.ShortTerm.RecentIntents, "project_quote")
}

func TestEnhanceWithoutKeywordsLeavesNoFlow(t *testing.T) {
	svc, _ := newService(t)

	convCtx, err := svc.Enhance(&model.ConversationContext{}, model.NeutralIntentAnalysis(), "hello")
	require.NoError(t, err)

	assert.Empty(t, convCtx.ActiveFlow)
	assert.Empty(t, convCtx.CurrentFlowStep)
}

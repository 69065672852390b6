package optimizer

import (
	"strings"
	"testing"
	"time"

	"fieldbot/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func businessHoursClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	}
}

func newTestService() *Service {
	return NewWithClock(businessHoursClock())
}

func baseDraft() *model.DraftResponse {
	return &model.DraftResponse{
		Response:         "We can help with your project.",
		Confidence:       0.7,
		Topics:           []string{"general"},
		SuggestedActions: []string{"get_quote"},
		Metadata:         model.ResponseMetadata{Source: "rules", Strategies: []string{}},
	}
}

func relevantContext() *model.ConversationContext {
	return &model.ConversationContext{
		Profile: model.UserProfile{UserID: "u1"},
		ShortTerm: model.ShortTermMemory{
			RecentTopics: []string{"project", "renovation", "permit"},
			Tone:         "neutral",
			Complexity:   model.ComplexityMedium,
		},
		LongTerm: model.LongTermMemory{
			PrimaryInterests: []string{"construction", "contractor"},
		},
	}
}

func TestShortPreferenceTruncatesUnbrokenText(t *testing.T) {
	svc := newTestService()

	draft := baseDraft()
	draft.Response = strings.Repeat("a", 250)
	draft.Confidence = 0.5

	ctx := relevantContext()
	ctx.Profile.Preferences.ResponseLength = "short"

	out := svc.Optimize(draft, ctx, &model.AnalyticsSnapshot{})

	require.LessOrEqual(t, len(out.Response), 203)
	assert.True(t, strings.HasSuffix(out.Response, "..."))
	assert.Contains(t, out.Metadata.Strategies, "length_reduction")
}

func TestShortPreferenceKeepsKeySentences(t *testing.T) {
	svc := newTestService()

	draft := baseDraft()
	draft.Response = "We got your message. " +
		"It is important that the permit application is filed before demolition starts. " +
		"We recommend scheduling the inspection early. " +
		"Also the weather is nice. " +
		"The key milestone is the framing inspection in week three."

	ctx := relevantContext()
	ctx.Profile.Preferences.ResponseLength = "short"

	out := svc.Optimize(draft, ctx, &model.AnalyticsSnapshot{})

	assert.Contains(t, out.Metadata.Strategies, "length_reduction")
	assert.Contains(t, out.Response, "important")
	assert.NotContains(t, out.Response, "weather")
	assert.LessOrEqual(t, len(splitSentences(out.Response)), 3)
}

func TestLowDomainRelevanceLowersConfidence(t *testing.T) {
	svc := newTestService()

	draft := baseDraft()
	draft.Confidence = 0.5

	ctx := &model.ConversationContext{
		Profile: model.UserProfile{UserID: "u1"},
		ShortTerm: model.ShortTermMemory{
			RecentTopics: []string{"weather", "sports"},
			Tone:         "neutral",
		},
	}

	out := svc.Optimize(draft, ctx, &model.AnalyticsSnapshot{})

	assert.InDelta(t, 0.35, out.Confidence, 1e-9)
	assert.Contains(t, out.Metadata.Strategies, "confidence_calibration")
}

func TestConfidenceClampFloor(t *testing.T) {
	svc := newTestService()

	draft := baseDraft()
	draft.Confidence = 0.12

	ctx := &model.ConversationContext{
		ShortTerm: model.ShortTermMemory{
			RecentIntents: []string{"clarification_needed"},
		},
	}

	out := svc.Optimize(draft, ctx, &model.AnalyticsSnapshot{})

	assert.GreaterOrEqual(t, out.Confidence, 0.1)
	assert.LessOrEqual(t, out.Confidence, 1.0)
}

func TestConfidenceClampCeiling(t *testing.T) {
	svc := newTestService()

	draft := baseDraft()
	draft.Confidence = 0.99

	ctx := relevantContext()
	ctx.TurnIndex = 6

	analytics := &model.AnalyticsSnapshot{
		InteractionCount: 10,
		SuccessRate:      0.9,
		EngagementLevel:  0.8,
	}

	out := svc.Optimize(draft, ctx, analytics)

	assert.LessOrEqual(t, out.Confidence, 1.0)
}

func TestOptimizeIsIdempotent(t *testing.T) {
	svc := newTestService()

	draft := baseDraft()
	draft.Response = strings.Repeat("b", 250)

	ctx := relevantContext()
	ctx.Profile.Preferences.ResponseLength = "short"
	ctx.Profile.Preferences.InformationDensity = "high"
	ctx.Profile.Role = "Administrator"
	ctx.TurnIndex = 12

	analytics := &model.AnalyticsSnapshot{}

	first := svc.Optimize(draft, ctx, analytics)
	second := svc.Optimize(first, ctx, analytics)

	assert.Equal(t, first.Metadata.Strategies, second.Metadata.Strategies)
	assert.Equal(t, first.Response, second.Response)
}

func TestStrategiesHaveNoDuplicates(t *testing.T) {
	svc := newTestService()

	draft := baseDraft()
	draft.Response = strings.Repeat("c", 300)
	draft.Confidence = 0.2

	ctx := relevantContext()
	ctx.Profile.Preferences.ResponseLength = "short"
	ctx.Profile.Preferences.CommunicationStyle = "formal"
	ctx.Profile.Role = "Administrator"
	ctx.TurnIndex = 15
	ctx.Urgency = model.UrgencyLevel{Level: model.UrgencyCritical, Score: 1.0}

	out := svc.Optimize(draft, ctx, &model.AnalyticsSnapshot{})

	seen := map[string]bool{}
	for _, strategy := range out.Metadata.Strategies {
		assert.False(t, seen[strategy], "duplicate strategy %q", strategy)
		seen[strategy] = true
	}
}

func TestOriginalDraftTopicsNeverDropped(t *testing.T) {
	svc := newTestService()

	draft := baseDraft()
	draft.Topics = []string{"permits", "weather"}

	ctx := relevantContext()
	ctx.LongTerm.PrimaryInterests = []string{"permits"}

	out := svc.Optimize(draft, ctx, &model.AnalyticsSnapshot{})

	assert.Contains(t, out.Topics, "permits")
	assert.Contains(t, out.Topics, "weather")
}

func TestActionRankingPrefersSuccessfulActions(t *testing.T) {
	svc := newTestService()

	draft := baseDraft()
	draft.SuggestedActions = []string{"view_services", "get_quote", "schedule_visit"}

	analytics := &model.AnalyticsSnapshot{
		ActionSuccessRates: map[string]float64{
			"get_quote":      0.9,
			"schedule_visit": 0.6,
		},
	}

	out := svc.Optimize(draft, relevantContext(), analytics)

	require.NotEmpty(t, out.SuggestedActions)
	assert.Equal(t, "get_quote", out.SuggestedActions[0])
}

func TestAdminEnrichmentUnshiftsAdminActions(t *testing.T) {
	svc := newTestService()

	ctx := relevantContext()
	ctx.Profile.Role = "Administrator"

	out := svc.Optimize(baseDraft(), ctx, &model.AnalyticsSnapshot{})

	require.GreaterOrEqual(t, len(out.SuggestedActions), 2)
	assert.Contains(t, out.Metadata.Strategies, "admin_enrichment")
}

func TestLowConfidenceEscalation(t *testing.T) {
	svc := newTestService()

	draft := baseDraft()
	draft.Confidence = 0.15

	ctx := relevantContext()
	ctx.ShortTerm.RecentIntents = []string{"clarification_needed"}

	out := svc.Optimize(draft, ctx, &model.AnalyticsSnapshot{})

	require.NotEmpty(t, out.SuggestedActions)
	assert.Equal(t, "specialist_consultation", out.SuggestedActions[0])
	assert.Contains(t, out.Metadata.Strategies, "low_confidence_escalation")
}

func TestFinalizationStampsMetadata(t *testing.T) {
	svc := newTestService()

	out := svc.Optimize(baseDraft(), relevantContext(), &model.AnalyticsSnapshot{})

	assert.True(t, out.Metadata.OptimizationComplete)
	assert.False(t, out.Metadata.OptimizedAt.IsZero())
	assert.Equal(t, len(out.Metadata.Strategies), out.Metadata.TotalOptimizations)
}

func TestNilAnalyticsAndContextTolerated(t *testing.T) {
	svc := newTestService()

	out := svc.Optimize(baseDraft(), nil, nil)

	require.NotNil(t, out)
	assert.GreaterOrEqual(t, out.Confidence, 0.1)
	assert.True(t, out.Metadata.OptimizationComplete)
}

func TestAfterHoursNoteAppended(t *testing.T) {
	svc := NewWithClock(func() time.Time {
		return time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	})

	out := svc.Optimize(baseDraft(), relevantContext(), &model.AnalyticsSnapshot{})

	assert.Contains(t, out.Metadata.Strategies, "after_hours_notice")
	assert.Contains(t, out.Response, "office is currently closed")
}

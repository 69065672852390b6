package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldbot/app/config"
	"fieldbot/app/model"
	"fieldbot/app/service/dispatch"
	"fieldbot/app/service/flow"
	"fieldbot/app/service/suggest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	history    []model.ConversationTurn
	historyErr error
	analytics  *model.AnalyticsSnapshot
	persisted  chan model.PersistedTurn
}

func (s *stubStore) FetchHistory(context.Context, string) ([]model.ConversationTurn, error) {
	return s.history, s.historyErr
}

func (s *stubStore) FetchAnalytics(context.Context, string) (*model.AnalyticsSnapshot, error) {
	return s.analytics, nil
}

func (s *stubStore) PersistTurn(_ context.Context, rec model.PersistedTurn) error {
	if s.persisted != nil {
		s.persisted <- rec
	}
	return nil
}

type stubClassifier struct {
	analysis *model.IntentAnalysis
	err      error
}

func (s *stubClassifier) Classify(context.Context, string, []model.ConversationTurn, map[string]any) (*model.IntentAnalysis, error) {
	return s.analysis, s.err
}

type stubBuilder struct {
	ctx      *model.ConversationContext
	buildErr error
}

func (s *stubBuilder) Build(context.Context, model.ConversationTurn, []model.ConversationTurn, map[string]any) (*model.ConversationContext, error) {
	if s.buildErr != nil {
		return nil, s.buildErr
	}
	return s.ctx, nil
}

func (s *stubBuilder) BuildFallback(map[string]any) *model.ConversationContext {
	return &model.ConversationContext{
		ShortTerm: model.ShortTermMemory{Tone: "neutral"},
		Urgency:   model.UrgencyLevel{Level: model.UrgencyNormal},
	}
}

func (s *stubBuilder) Enhance(convCtx *model.ConversationContext, analysis *model.IntentAnalysis, message string) (*model.ConversationContext, error) {
	convCtx.Intent = analysis
	if flowName, step, ok := flow.Trigger(message); ok {
		convCtx.ActiveFlow = flowName
		convCtx.CurrentFlowStep = step
	}
	convCtx.Enhanced = true
	return convCtx, nil
}

type stubGenerator struct {
	err error
}

func (s *stubGenerator) Generate(_ context.Context, message string, convCtx *model.ConversationContext) (*model.DraftResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.DraftResponse{
		Response:         "generated response",
		Confidence:       0.8,
		Topics:           []string{"general"},
		SuggestedActions: []string{"get_quote"},
		Metadata:         model.ResponseMetadata{Source: "llm", Strategies: []string{}},
	}, nil
}

func (s *stubGenerator) GenerateBasic(string, *model.ConversationContext) *model.DraftResponse {
	return &model.DraftResponse{
		Response:   "basic response",
		Confidence: 0.7,
		Topics:     []string{"general"},
		Metadata:   model.ResponseMetadata{Source: "rules", Strategies: []string{}},
	}
}

type passthroughOptimizer struct{}

func (passthroughOptimizer) Optimize(draft *model.DraftResponse, _ *model.ConversationContext, _ *model.AnalyticsSnapshot) *model.DraftResponse {
	draft.Metadata.OptimizationComplete = true
	return draft
}

type panickingSuggester struct{}

func (panickingSuggester) QuickReplies(*model.ConversationContext) []string {
	panic("suggester defect")
}

func (panickingSuggester) SmartSuggestions(string, *model.ConversationContext) []model.Suggestion {
	panic("suggester defect")
}

type brokenGenerator struct{}

func (brokenGenerator) Generate(context.Context, string, *model.ConversationContext) (*model.DraftResponse, error) {
	panic("generator defect")
}

func (brokenGenerator) GenerateBasic(string, *model.ConversationContext) *model.DraftResponse {
	panic("generator defect")
}

type stubDispatcher struct {
	jobs []dispatch.Job
}

func (s *stubDispatcher) Enqueue(job dispatch.Job) {
	s.jobs = append(s.jobs, job)
}

func newTestOrchestrator() (*Service, *stubStore, *stubDispatcher) {
	store := &stubStore{}
	dispatcher := &stubDispatcher{}

	suggester, _ := suggest.New(nil)
	flows, _ := flow.New(nil)

	svc := &Service{
		cfg:   config.Default(),
		store: store,
		classifier: &stubClassifier{analysis: &model.IntentAnalysis{
			Primary:   &model.Intent{Name: "general_inquiry", Confidence: 0.4},
			Sentiment: model.SentimentNeutral,
		}},
		builder:    &stubBuilder{ctx: &model.ConversationContext{TurnIndex: 2}},
		flows:      flows,
		generator:  &stubGenerator{},
		optimizer:  passthroughOptimizer{},
		suggester:  suggester,
		dispatcher: dispatcher,
		now:        time.Now,
	}

	return svc, store, dispatcher
}

func TestHandleTurnHappyPath(t *testing.T) {
	svc, store, dispatcher := newTestOrchestrator()
	store.persisted = make(chan model.PersistedTurn, 1)

	result := svc.HandleTurn(context.Background(), TurnRequest{
		ConversationID: "c1",
		UserID:         "u1",
		Message:        "hello there",
	})

	require.True(t, result.Success)
	assert.Equal(t, "generated response", result.Response)
	assert.True(t, result.Metadata.IntentRecognized)
	assert.True(t, result.Metadata.ContextEnhanced)
	assert.True(t, result.Metadata.Optimized)
	assert.Equal(t, 2, result.Metadata.ConversationTurn)
	assert.Nil(t, result.ConversationFlow)
	assert.LessOrEqual(t, len(result.QuickReplies), 4)
	assert.GreaterOrEqual(t, len(result.QuickReplies), 3)

	select {
	case rec := <-store.persisted:
		assert.Equal(t, "c1", rec.ConversationID)
		assert.Equal(t, "generated response", rec.BotResponse)
	case <-time.After(time.Second):
		t.Fatal("turn was never persisted")
	}

	require.Len(t, dispatcher.jobs, 1)
	assert.Equal(t, "c1", dispatcher.jobs[0].Record.ConversationID)
}

func TestEmergencyMessageEntersEmergencyFlow(t *testing.T) {
	svc, _, _ := newTestOrchestrator()
	svc.builder = &stubBuilder{ctx: &model.ConversationContext{
		Urgency: model.UrgencyLevel{Level: model.UrgencyCritical, Score: 1.0},
	}}
	svc.classifier = &stubClassifier{analysis: &model.IntentAnalysis{
		Primary: &model.Intent{Name: "emergency_service", Confidence: 0.85},
	}}

	result := svc.HandleTurn(context.Background(), TurnRequest{
		ConversationID: "c1",
		UserID:         "u1",
		Message:        "There is an emergency, my basement is flooding",
	})

	require.True(t, result.Success)
	require.NotNil(t, result.ConversationFlow)
	assert.True(t, result.ConversationFlow.Active)
	assert.Equal(t, "urgency_level", result.ConversationFlow.CurrentStep)

	require.NotEmpty(t, result.QuickReplies)
	assert.Equal(t, "Emergency help", result.QuickReplies[0])
}

func TestHistoryFailureDegradesToFallbackContext(t *testing.T) {
	svc, store, _ := newTestOrchestrator()
	store.historyErr = errors.New("store down")

	result := svc.HandleTurn(context.Background(), TurnRequest{
		ConversationID: "c1",
		UserID:         "u1",
		Message:        "hello",
	})

	require.True(t, result.Success)
	assert.Equal(t, 0, result.Metadata.ConversationTurn)
	assert.Equal(t, "generated response", result.Response)
}

func TestIntentFailureYieldsNeutralAnalysis(t *testing.T) {
	svc, _, _ := newTestOrchestrator()
	svc.classifier = &stubClassifier{err: errors.New("model down")}

	result := svc.HandleTurn(context.Background(), TurnRequest{
		ConversationID: "c1",
		UserID:         "u1",
		Message:        "hello",
	})

	require.True(t, result.Success)
	assert.False(t, result.Metadata.IntentRecognized)
	assert.Zero(t, result.Metadata.IntentConfidence)
}

func TestGenerationFailureFallsBackToBasic(t *testing.T) {
	svc, _, _ := newTestOrchestrator()
	svc.generator = &stubGenerator{err: errors.New("llm down")}

	result := svc.HandleTurn(context.Background(), TurnRequest{
		ConversationID: "c1",
		UserID:         "u1",
		Message:        "hello",
	})

	require.True(t, result.Success)
	assert.Equal(t, "basic response", result.Response)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
}

func TestFlowResponseWinsOverGenerator(t *testing.T) {
	svc, _, _ := newTestOrchestrator()

	result := svc.HandleTurn(context.Background(), TurnRequest{
		ConversationID: "c1",
		UserID:         "u1",
		Message:        "I need a quote for my kitchen",
	})

	require.True(t, result.Success)
	require.NotNil(t, result.ConversationFlow)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.Equal(t, []string{"conversation_flow"}, result.Topics)
}

func TestDefectTriggersHardFallback(t *testing.T) {
	svc, _, _ := newTestOrchestrator()
	svc.suggester = panickingSuggester{}

	result := svc.HandleTurn(context.Background(), TurnRequest{
		ConversationID: "c1",
		UserID:         "u1",
		Message:        "hello",
	})

	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.True(t, result.Metadata.FallbackUsed)
	assert.Equal(t, "basic response", result.Response)
	assert.Equal(t, []string{"Get help", "Contact support", "Try again"}, result.QuickReplies)
}

func TestHardFallbackDefectYieldsApology(t *testing.T) {
	svc, _, _ := newTestOrchestrator()
	svc.suggester = panickingSuggester{}
	svc.generator = brokenGenerator{}

	result := svc.HandleTurn(context.Background(), TurnRequest{
		ConversationID: "c1",
		UserID:         "u1",
		Message:        "hello",
	})

	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Contains(t, result.Response, svc.cfg.Assistant.SupportContact)
}

func TestLearningDisabledSkipsDispatch(t *testing.T) {
	svc, _, dispatcher := newTestOrchestrator()
	svc.cfg.Learning.Disabled = true

	result := svc.HandleTurn(context.Background(), TurnRequest{
		ConversationID: "c1",
		UserID:         "u1",
		Message:        "hello",
	})

	require.True(t, result.Success)
	assert.False(t, result.Metadata.LearningEnabled)
	assert.Empty(t, dispatcher.jobs)
}

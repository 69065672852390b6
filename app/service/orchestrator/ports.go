package orchestrator

import (
	"context"

	"fieldbot/app/model"
	"fieldbot/app/service/dispatch"
)

// Collaborator ports. The orchestrator only sequences them; every concrete
// implementation lives in its own service package.

type HistoryStore interface {
	FetchHistory(ctx context.Context, conversationID string) ([]model.ConversationTurn, error)
	FetchAnalytics(ctx context.Context, userID string) (*model.AnalyticsSnapshot, error)
	PersistTurn(ctx context.Context, rec model.PersistedTurn) error
}

type IntentClassifier interface {
	Classify(ctx context.Context, message string, history []model.ConversationTurn, userCtx map[string]any) (*model.IntentAnalysis, error)
}

type ContextBuilder interface {
	Build(ctx context.Context, turn model.ConversationTurn, history []model.ConversationTurn, userCtx map[string]any) (*model.ConversationContext, error)
	BuildFallback(userCtx map[string]any) *model.ConversationContext
	Enhance(convCtx *model.ConversationContext, analysis *model.IntentAnalysis, message string) (*model.ConversationContext, error)
}

type FlowManager interface {
	Manage(ctx context.Context, flow, step, message string, convCtx *model.ConversationContext) (*model.FlowResult, error)
}

type ResponseGenerator interface {
	Generate(ctx context.Context, message string, convCtx *model.ConversationContext) (*model.DraftResponse, error)
	GenerateBasic(message string, convCtx *model.ConversationContext) *model.DraftResponse
}

type Optimizer interface {
	Optimize(draft *model.DraftResponse, convCtx *model.ConversationContext, analytics *model.AnalyticsSnapshot) *model.DraftResponse
}

type SuggestionSource interface {
	QuickReplies(convCtx *model.ConversationContext) []string
	SmartSuggestions(message string, convCtx *model.ConversationContext) []model.Suggestion
}

type LearningDispatcher interface {
	Enqueue(job dispatch.Job)
}

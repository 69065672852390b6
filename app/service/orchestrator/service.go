package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"fieldbot/app/config"
	"fieldbot/app/model"
	"fieldbot/app/service/convctx"
	"fieldbot/app/service/dispatch"
	"fieldbot/app/service/flow"
	"fieldbot/app/service/generate"
	"fieldbot/app/service/intent"
	"fieldbot/app/service/optimizer"
	"fieldbot/app/service/suggest"
	"fieldbot/app/store/convstore"

	"github.com/google/uuid"
	"github.com/samber/do"
)

// TurnRequest is one inbound user message plus its ambient context.
type TurnRequest struct {
	ConversationID string         `json:"conversation_id"`
	UserID         string         `json:"user_id"`
	Message        string         `json:"message"`
	UserContext    map[string]any `json:"user_context"`
}

type Service struct {
	cfg        *config.Config
	store      HistoryStore
	classifier IntentClassifier
	builder    ContextBuilder
	flows      FlowManager
	generator  ResponseGenerator
	optimizer  Optimizer
	suggester  SuggestionSource
	dispatcher LearningDispatcher
	now        func() time.Time
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:        do.MustInvoke[*config.Config](di),
		store:      do.MustInvoke[convstore.Store](di),
		classifier: do.MustInvoke[*intent.Service](di),
		builder:    do.MustInvoke[*convctx.Service](di),
		flows:      do.MustInvoke[*flow.Service](di),
		generator:  do.MustInvoke[*generate.Service](di),
		optimizer:  do.MustInvoke[*optimizer.Service](di),
		suggester:  do.MustInvoke[*suggest.Service](di),
		dispatcher: do.MustInvoke[*dispatch.Service](di),
		now:        time.Now,
	}, nil
}

// HandleTurn sequences one conversational turn through all eight stages.
// Every stage degrades to its fallback on failure; only a programming defect
// reaches the outer recover, which yields the hard fallback payload.
func (s *Service) HandleTurn(ctx context.Context, req TurnRequest) (out *model.TurnResult) {
	started := s.now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("turn pipeline failed", "conversation_id", req.ConversationID, "panic", r)
			out = s.hardFallback(req, started)
		}
	}()

	turn := model.ConversationTurn{
		ConversationID: req.ConversationID,
		UserID:         req.UserID,
		UserMessage:    req.Message,
		Timestamp:      started,
	}

	// 1. history + context
	var history []model.ConversationTurn
	convCtx, contextOK := guarded(ErrContextFetch,
		func() (*model.ConversationContext, error) {
			fetched, err := s.store.FetchHistory(ctx, req.ConversationID)
			if err != nil {
				return nil, err
			}
			history = fetched
			return s.builder.Build(ctx, turn, fetched, req.UserContext)
		},
		func() *model.ConversationContext { return s.builder.BuildFallback(req.UserContext) },
	)

	// 2. intent recognition
	analysis, intentOK := guarded(ErrIntentRecognition,
		func() (*model.IntentAnalysis, error) {
			return s.classifier.Classify(ctx, req.Message, history, req.UserContext)
		},
		model.NeutralIntentAnalysis,
	)

	// 3. context enhancement
	convCtx, enhancedOK := guarded(ErrContextFetch,
		func() (*model.ConversationContext, error) {
			return s.builder.Enhance(convCtx, analysis, req.Message)
		},
		func() *model.ConversationContext { return convCtx },
	)

	// 4. flow management, only when a flow is active
	flowResult := model.InactiveFlowResult()
	if convCtx.ActiveFlow != "" {
		flowResult, _ = guarded(ErrFlowManagement,
			func() (*model.FlowResult, error) {
				return s.flows.Manage(ctx, convCtx.ActiveFlow, convCtx.CurrentFlowStep, req.Message, convCtx)
			},
			model.InactiveFlowResult,
		)
	}

	// 5. response generation
	draft := s.generateDraft(ctx, req.Message, convCtx, flowResult)

	// 6. optimization
	optimized, optimizedOK := guarded(ErrOptimization,
		func() (*model.DraftResponse, error) {
			analytics, err := s.store.FetchAnalytics(ctx, req.UserID)
			if err != nil {
				return nil, err
			}
			return s.optimizer.Optimize(draft, convCtx, analytics), nil
		},
		func() *model.DraftResponse { return draft },
	)

	elapsed := s.now().Sub(started)

	// 7. persistence, fire and forget
	s.persistAsync(ctx, turn, optimized, elapsed)

	// 8. learning dispatch, fire and forget
	if s.cfg.Learning.Enabled() {
		s.dispatchLearning(turn, convCtx, optimized, elapsed)
	}

	result := &model.TurnResult{
		Success:          true,
		Response:         optimized.Response,
		Confidence:       optimized.Confidence,
		Topics:           optimized.Topics,
		SuggestedActions: optimized.SuggestedActions,
		Metadata: model.TurnMetadata{
			ProcessingTimeMS: elapsed.Milliseconds(),
			IntentRecognized: intentOK && analysis.Primary != nil,
			ContextEnhanced:  contextOK && enhancedOK && convCtx.Enhanced,
			Optimized:        optimizedOK,
			LearningEnabled:  s.cfg.Learning.Enabled(),
			ConversationTurn: convCtx.TurnIndex,
		},
		QuickReplies:     s.suggester.QuickReplies(convCtx),
		SmartSuggestions: s.suggester.SmartSuggestions(optimized.Response, convCtx),
	}
	if analysis.Primary != nil {
		result.Metadata.IntentConfidence = analysis.Primary.Confidence
	}
	if convCtx.ActiveFlow != "" {
		result.ConversationFlow = &model.FlowStatus{
			Active:      flowResult.Active,
			CurrentStep: flowResult.CurrentStep,
			Progress:    flowResult.Progress,
			Completed:   flowResult.Completed,
		}
	}

	return result
}

func (s *Service) generateDraft(ctx context.Context, message string, convCtx *model.ConversationContext, flowResult *model.FlowResult) *model.DraftResponse {
	if flowResult.Response != "" {
		return &model.DraftResponse{
			Response:         flowResult.Response,
			Confidence:       0.9,
			Topics:           []string{"conversation_flow"},
			SuggestedActions: flowResult.SuggestedActions,
			Metadata:         model.ResponseMetadata{Source: "flow", Strategies: []string{}},
		}
	}

	draft, ok := guarded(ErrResponseGeneration,
		func() (*model.DraftResponse, error) {
			return s.generator.Generate(ctx, message, convCtx)
		},
		func() *model.DraftResponse {
			return s.generator.GenerateBasic(message, convCtx)
		},
	)
	if !ok {
		draft.Metadata.ErrorOccurred = true
	}

	return draft
}

func (s *Service) persistAsync(ctx context.Context, turn model.ConversationTurn, optimized *model.DraftResponse, elapsed time.Duration) {
	detached := context.WithoutCancel(ctx)

	go func() {
		err := s.store.PersistTurn(detached, model.PersistedTurn{
			ConversationID: turn.ConversationID,
			UserID:         turn.UserID,
			UserMessage:    turn.UserMessage,
			BotResponse:    optimized.Response,
			ResponseTimeMS: elapsed.Milliseconds(),
			Confidence:     optimized.Confidence,
			Timestamp:      turn.Timestamp,
		})
		if err != nil {
			slog.Error("failed to persist turn",
				"stage", ErrPersistence.Error(), "conversation_id", turn.ConversationID, "error", err)
		}
	}()
}

func (s *Service) dispatchLearning(turn model.ConversationTurn, convCtx *model.ConversationContext, optimized *model.DraftResponse, elapsed time.Duration) {
	record := model.InteractionRecord{
		ID:              uuid.NewString(),
		ConversationID:  turn.ConversationID,
		UserID:          turn.UserID,
		ResponseTimeMS:  int(elapsed.Milliseconds()),
		ResponseLength:  len(optimized.Response),
		ConfidenceScore: optimized.Confidence,
		Topics:          optimized.Topics,
		ResponseType:    optimized.Metadata.Source,
		Timestamp:       turn.Timestamp,
	}
	if convCtx.Intent != nil && convCtx.Intent.Primary != nil {
		record.IntentRecognized = convCtx.Intent.Primary.Name
		record.IntentConfidence = convCtx.Intent.Primary.Confidence
	}

	s.dispatcher.Enqueue(dispatch.Job{Record: record})
}

// hardFallback is the payload for a defect that escaped every stage guard.
// It answers through the rule-based generator alone, so it stays a
// successful turn from the caller's point of view.
func (s *Service) hardFallback(req TurnRequest, started time.Time) (out *model.TurnResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("hard fallback failed", "panic", r)
			out = s.apology()
		}
	}()

	draft := s.generator.GenerateBasic(req.Message, nil)

	return &model.TurnResult{
		Success:    true,
		Response:   draft.Response,
		Confidence: 0.5,
		Topics:     draft.Topics,
		Metadata: model.TurnMetadata{
			ProcessingTimeMS: s.now().Sub(started).Milliseconds(),
			LearningEnabled:  s.cfg.Learning.Enabled(),
			FallbackUsed:     true,
		},
		QuickReplies:     []string{"Get help", "Contact support", "Try again"},
		SmartSuggestions: []model.Suggestion{},
	}
}

func (s *Service) apology() *model.TurnResult {
	return &model.TurnResult{
		Success:  false,
		Response: "I'm sorry, something went wrong on our side. Please contact " + s.cfg.Assistant.SupportContact + " and we'll sort it out.",
	}
}

func (s *Service) Close() error {
	return nil
}

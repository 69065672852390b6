package model

import (
	"slices"
	"time"
)

type ResponseMetadata struct {
	Source               string    `json:"source"`
	Strategies           []string  `json:"optimization_strategies"`
	ErrorOccurred        bool      `json:"error_occurred,omitempty"`
	OptimizationComplete bool      `json:"optimization_complete"`
	OptimizedAt          time.Time `json:"optimization_timestamp,omitempty"`
	TotalOptimizations   int       `json:"total_optimizations,omitempty"`
}

// Has reports whether the named strategy has already been recorded.
func (m *ResponseMetadata) Has(strategy string) bool {
	return slices.Contains(m.Strategies, strategy)
}

// AddStrategy records a strategy label. The list only grows within a turn.
func (m *ResponseMetadata) AddStrategy(strategy string) {
	m.Strategies = append(m.Strategies, strategy)
}

// DraftResponse is produced by response generation and refined in place by
// the optimizer pipeline. Once finalized it carries OptimizationComplete.
type DraftResponse struct {
	Response         string           `json:"response"`
	Confidence       float64          `json:"confidence"`
	Topics           []string         `json:"topics"`
	SuggestedActions []string         `json:"suggested_actions"`
	Metadata         ResponseMetadata `json:"response_metadata"`
}

func (d *DraftResponse) Clone() *DraftResponse {
	out := *d
	out.Topics = slices.Clone(d.Topics)
	out.SuggestedActions = slices.Clone(d.SuggestedActions)
	out.Metadata.Strategies = slices.Clone(d.Metadata.Strategies)
	return &out
}

type Suggestion struct {
	Action string `json:"action"`
	Label  string `json:"label"`
}

type FlowStatus struct {
	Active      bool    `json:"active"`
	CurrentStep string  `json:"current_step"`
	Progress    float64 `json:"progress"`
	Completed   bool    `json:"completed"`
}

type TurnMetadata struct {
	ProcessingTimeMS int64   `json:"processing_time_ms"`
	IntentRecognized bool    `json:"intent_recognized"`
	IntentConfidence float64 `json:"intent_confidence"`
	ContextEnhanced  bool    `json:"context_enhanced"`
	Optimized        bool    `json:"optimized"`
	LearningEnabled  bool    `json:"learning_enabled"`
	ConversationTurn int     `json:"conversation_turn"`
	FallbackUsed     bool    `json:"fallback_used,omitempty"`
}

// TurnResult is the user-facing contract of one processed turn.
type TurnResult struct {
	Success          bool         `json:"success"`
	Response         string       `json:"response"`
	Confidence       float64      `json:"confidence"`
	Topics           []string     `json:"topics"`
	SuggestedActions []string     `json:"suggested_actions"`
	Metadata         TurnMetadata `json:"metadata"`
	ConversationFlow *FlowStatus  `json:"conversation_flow"`
	QuickReplies     []string     `json:"quick_replies"`
	SmartSuggestions []Suggestion `json:"smart_suggestions"`
}

// PersistedTurn is one saved user message + bot response pair.
type PersistedTurn struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	UserMessage    string    `json:"user_message"`
	BotResponse    string    `json:"bot_response"`
	ResponseTimeMS int64     `json:"response_time_ms"`
	Confidence     float64   `json:"confidence"`
	Timestamp      time.Time `json:"timestamp"`
}

// UserTurn is the user-message view of a saved turn, as consumed by intent
// classification and context building.
func (p PersistedTurn) UserTurn() ConversationTurn {
	return ConversationTurn{
		ConversationID: p.ConversationID,
		UserID:         p.UserID,
		UserMessage:    p.UserMessage,
		Timestamp:      p.Timestamp,
	}
}

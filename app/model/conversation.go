package model

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type Complexity string

const (
	ComplexityLow     Complexity = "low"
	ComplexityMedium  Complexity = "medium"
	ComplexityHigh    Complexity = "high"
	ComplexityUnknown Complexity = "unknown"
)

const (
	UrgencyNormal   = "normal"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// ConversationTurn is one inbound user message. Immutable once built.
type ConversationTurn struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	UserMessage    string    `json:"user_message"`
	Timestamp      time.Time `json:"timestamp"`
}

type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// IntentAnalysis is produced once per turn by the classifier and read-only
// downstream.
type IntentAnalysis struct {
	Primary      *Intent           `json:"primary_intent"`
	Alternatives []Intent          `json:"alternative_intents"`
	Entities     map[string]string `json:"entities"`
	Sentiment    Sentiment         `json:"sentiment"`
	Complexity   Complexity        `json:"complexity"`
}

// NeutralIntentAnalysis is the documented fallback when classification fails.
func NeutralIntentAnalysis() *IntentAnalysis {
	return &IntentAnalysis{
		Alternatives: []Intent{},
		Entities:     map[string]string{},
		Sentiment:    SentimentNeutral,
		Complexity:   ComplexityUnknown,
	}
}

type Preferences struct {
	ResponseLength     string `json:"response_length"`
	CommunicationStyle string `json:"communication_style"`
	InformationDensity string `json:"information_density"`
	MaxSuggestions     int    `json:"max_suggestions"`
}

type InteractionSummary struct {
	Intent       string  `json:"intent"`
	Satisfaction float64 `json:"satisfaction"`
	Successful   bool    `json:"successful"`
}

type UserProfile struct {
	UserID               string               `json:"user_id"`
	Role                 string               `json:"user_role"`
	Preferences          Preferences          `json:"preferences"`
	PreviousInteractions []InteractionSummary `json:"previous_interactions"`
}

type ShortTermMemory struct {
	RecentTopics  []string   `json:"recent_topics"`
	RecentIntents []string   `json:"recent_intents"`
	Tone          string     `json:"conversation_tone"`
	Complexity    Complexity `json:"complexity"`
}

type LongTermMemory struct {
	PrimaryInterests []string          `json:"primary_interests"`
	ProjectDetails   map[string]string `json:"project_details"`
}

type UrgencyLevel struct {
	Level string  `json:"level"`
	Score float64 `json:"score"`
}

// ConversationContext aggregates everything a single turn knows about the
// conversation. Built fresh per turn, mutated only within that turn.
type ConversationContext struct {
	ConversationID  string          `json:"conversation_id"`
	Profile         UserProfile     `json:"user_profile"`
	ShortTerm       ShortTermMemory `json:"short_term_memory"`
	LongTerm        LongTermMemory  `json:"long_term_memory"`
	Urgency         UrgencyLevel    `json:"urgency_level"`
	TurnIndex       int             `json:"turn_index"`
	ActiveFlow      string          `json:"active_flow"`
	CurrentFlowStep string          `json:"current_flow_step"`
	Intent          *IntentAnalysis `json:"intent"`
	Enhanced        bool            `json:"enhanced"`
}

// FlowResult is the outcome of one flow-manager invocation.
type FlowResult struct {
	Active           bool     `json:"flow_active"`
	CurrentStep      string   `json:"current_step"`
	Response         string   `json:"response"`
	Progress         float64  `json:"progress"`
	Completed        bool     `json:"flow_completed"`
	SuggestedActions []string `json:"suggested_actions"`
}

// InactiveFlowResult is the documented fallback when flow management fails.
func InactiveFlowResult() *FlowResult {
	return &FlowResult{}
}

package model

import "time"

// InteractionRecord is one row of turn telemetry. Append-only.
type InteractionRecord struct {
	ID                string    `json:"id"`
	ConversationID    string    `json:"conversation_id"`
	UserID            string    `json:"user_id"`
	IntentRecognized  string    `json:"intent_recognized"`
	ActualIntent      string    `json:"actual_intent"`
	IntentConfidence  float64   `json:"intent_confidence"`
	UserSatisfaction  *float64  `json:"user_satisfaction"`
	ResponseTimeMS    int       `json:"response_time_ms"`
	ResponseLength    int       `json:"response_length"`
	EngagementScore   float64   `json:"engagement_score"`
	ConfidenceScore   float64   `json:"confidence_score"`
	ResponseRelevance float64   `json:"response_relevance"`
	Outcome           string    `json:"outcome"`
	Status            string    `json:"conversation_status"`
	ResponseType      string    `json:"response_type"`
	Topics            []string  `json:"topics"`
	Timestamp         time.Time `json:"timestamp"`
}

// Satisfaction returns the satisfaction score when present and within the
// documented [0,5] range. Out-of-range values are treated as absent, never
// clamped.
func (r *InteractionRecord) Satisfaction() (float64, bool) {
	if r.UserSatisfaction == nil {
		return 0, false
	}
	v := *r.UserSatisfaction
	if v < 0 || v > 5 {
		return 0, false
	}
	return v, true
}

type ExplicitFeedback struct {
	Rating          int    `json:"rating"`
	Category        string `json:"category"`
	Comment         string `json:"comment"`
	ResponsePattern string `json:"response_pattern"`
}

// ValidRating reports whether the rating is inside the documented [1,5]
// range. Invalid ratings are ignored, never clamped.
func (f ExplicitFeedback) ValidRating() bool {
	return f.Rating >= 1 && f.Rating <= 5
}

type FeedbackRecord struct {
	Explicit []ExplicitFeedback `json:"explicit_feedback"`
	Implicit map[string]float64 `json:"implicit_feedback"`
}

type TaggedInteraction struct {
	Record  InteractionRecord `json:"record"`
	Factors []string          `json:"factors"`
}

type ResponseTypeStats struct {
	Count                int     `json:"count"`
	AvgSatisfaction      float64 `json:"avg_satisfaction"`
	AvgEngagement        float64 `json:"avg_engagement"`
	ImprovementPotential float64 `json:"improvement_potential"`
}

type PatternAnalysis struct {
	Successful    []TaggedInteraction          `json:"successful"`
	Failed        []TaggedInteraction          `json:"failed"`
	ResponseTypes map[string]ResponseTypeStats `json:"response_types"`
}

type Improvement struct {
	Category        string `json:"category"`
	Priority        string `json:"priority"`
	SuggestedAction string `json:"suggested_action"`
	Detail          string `json:"detail"`
}

type ConfidenceAdjustment struct {
	Adjustment         float64 `json:"adjustment"`
	Reason             string  `json:"reason"`
	ConfidenceModifier float64 `json:"confidence_modifier"`
}

type ResponseOptimization struct {
	Kind       string   `json:"kind"`
	Priority   string   `json:"priority"`
	Patterns   []string `json:"patterns,omitempty"`
	Strategies []string `json:"strategies,omitempty"`
	Detail     string   `json:"detail,omitempty"`
}

type UserPreferenceModel struct {
	CommunicationStyle string   `json:"communication_style,omitempty"`
	InformationDensity string   `json:"information_density,omitempty"`
	ResponseLength     string   `json:"response_length,omitempty"`
	Confidence         float64  `json:"confidence"`
	TopicPreferences   []string `json:"topic_preferences,omitempty"`
}

type SuccessMetrics struct {
	OverallSatisfaction   float64 `json:"overall_satisfaction"`
	IntentAccuracy        float64 `json:"intent_recognition_accuracy"`
	ResponseRelevance     float64 `json:"response_relevance"`
	CompletionRate        float64 `json:"completion_rate"`
	Engagement            float64 `json:"engagement"`
	LearningEffectiveness float64 `json:"learning_effectiveness"`
}

type BasicAggregate struct {
	Interactions      int     `json:"interactions"`
	AvgSatisfaction   float64 `json:"avg_satisfaction"`
	TopIntent         string  `json:"top_intent"`
	AvgResponseTimeMS float64 `json:"avg_response_time_ms"`
}

type AppliedCounts struct {
	IntentUpdates     int `json:"intent_updates"`
	ResponseUpdates   int `json:"response_updates"`
	ConfidenceUpdates int `json:"confidence_updates"`
	PreferenceUpdates int `json:"preference_updates"`
}

// LearningResult is derived per batch, never persisted by the core itself.
type LearningResult struct {
	Completed             bool                            `json:"learning_completed"`
	Error                 string                          `json:"error,omitempty"`
	PatternsLearned       int                             `json:"patterns_learned"`
	Patterns              PatternAnalysis                 `json:"patterns"`
	Improvements          []Improvement                   `json:"improvements_identified"`
	ConfidenceAdjustments map[string]ConfidenceAdjustment `json:"confidence_adjustments"`
	ResponseOptimizations []ResponseOptimization          `json:"response_optimizations"`
	PreferencesUpdated    bool                            `json:"user_preferences_updated"`
	UserPreferences       map[string]UserPreferenceModel  `json:"user_preferences"`
	Metrics               SuccessMetrics                  `json:"success_metrics"`
	Fallback              *BasicAggregate                 `json:"fallback_learning,omitempty"`
	Applied               AppliedCounts                   `json:"applied"`
}

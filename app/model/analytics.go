package model

type SuccessfulPatterns struct {
	Phrases    []string `json:"successful_phrases"`
	Structures []string `json:"successful_structures"`
}

// AnalyticsSnapshot is the aggregate view of a user's interaction history
// that the optimizer consumes. Missing fields degrade to zero values.
type AnalyticsSnapshot struct {
	AverageResponseLength int                `json:"average_response_length"`
	SentimentTrend        string             `json:"user_sentiment_trend"`
	SuccessfulPatterns    SuccessfulPatterns `json:"successful_response_patterns"`
	FailurePhrases        []string           `json:"failure_patterns"`
	ActionSuccessRates    map[string]float64 `json:"action_success_rates"`
	TechnicalTermUsage    float64            `json:"user_technical_term_usage"`
	RecentBotResponses    []string           `json:"recent_bot_responses"`
	TrendingTopics        []string           `json:"trending_topics"`
	InteractionCount      int                `json:"interaction_count"`
	SuccessRate           float64            `json:"success_rate"`
	EngagementLevel       float64            `json:"engagement_level"`
}

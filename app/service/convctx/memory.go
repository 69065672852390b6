package convctx

import (
	"strings"

	"fieldbot/app/model"
)

var topicKeywords = []string{
	"project", "renovation", "construction", "contractor", "permit",
	"quote", "estimate", "inspection", "materials", "timeline",
}

var urgencyKeywords = map[string]float64{
	"emergency":   1.0,
	"urgent":      0.8,
	"asap":        0.7,
	"immediately": 0.7,
	"leak":        0.6,
	"flood":       0.6,
	"now":         0.3,
}

const recentWindow = 5

func recentTopics(history []model.ConversationTurn) []string {
	if len(history) > recentWindow {
		history = history[len(history)-recentWindow:]
	}

	seen := make(map[string]bool)
	topics := make([]string, 0, 4)

	for _, turn := range history {
		lower := strings.ToLower(turn.UserMessage)
		for _, keyword := range topicKeywords {
			if seen[keyword] || !strings.Contains(lower, keyword) {
				continue
			}
			seen[keyword] = true
			topics = append(topics, keyword)
		}
	}

	return topics
}

func conversationTone(history []model.ConversationTurn) string {
	if len(history) > recentWindow {
		history = history[len(history)-recentWindow:]
	}

	score := 0
	for _, turn := range history {
		lower := strings.ToLower(turn.UserMessage)
		switch {
		case containsAny(lower, []string{"angry", "terrible", "frustrated", "upset", "unacceptable", "awful"}):
			score--
		case containsAny(lower, []string{"great", "thanks", "thank you", "awesome", "perfect", "appreciate"}):
			score++
		}
	}

	switch {
	case score < 0:
		return "negative"
	case score > 0:
		return "positive"
	default:
		return "neutral"
	}
}

// detectUrgency scores the current message plus the most recent history and
// maps the accumulated score onto the three triage levels.
func detectUrgency(message string, history []model.ConversationTurn) model.UrgencyLevel {
	score := urgencyScore(message)

	if len(history) > 0 {
		score += urgencyScore(history[len(history)-1].UserMessage) * 0.5
	}

	if score > 1.0 {
		score = 1.0
	}

	level := model.UrgencyNormal
	switch {
	case score >= 0.9:
		level = model.UrgencyCritical
	case score >= 0.5:
		level = model.UrgencyHigh
	}

	return model.UrgencyLevel{Level: level, Score: score}
}

func urgencyScore(message string) float64 {
	lower := strings.ToLower(message)

	score := 0.0
	for keyword, weight := range urgencyKeywords {
		if strings.Contains(lower, keyword) {
			score += weight
		}
	}

	return score
}

func containsAny(lower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

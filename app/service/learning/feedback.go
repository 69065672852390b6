package learning

import (
	"fmt"

	"fieldbot/app/model"
)

// analyzeFeedback turns explicit user feedback into improvement entries and
// per-pattern confidence adjustments. Invalid ratings are skipped entirely.
func analyzeFeedback(feedback *model.FeedbackRecord) ([]model.Improvement, map[string]model.ConfidenceAdjustment) {
	improvements := []model.Improvement{}
	adjustments := map[string]model.ConfidenceAdjustment{}

	if feedback == nil {
		return improvements, adjustments
	}

	for _, entry := range feedback.Explicit {
		if !entry.ValidRating() {
			continue
		}

		if entry.Rating < 3 {
			improvements = append(improvements, model.Improvement{
				Category:        categoryOrDefault(entry.Category),
				Priority:        priorityForRating(entry.Rating),
				SuggestedAction: suggestedActionFor(entry.Category),
				Detail:          entry.Comment,
			})
		}

		if entry.ResponsePattern != "" {
			adjustment := float64(entry.Rating-3) * 0.1
			adjustments[entry.ResponsePattern] = model.ConfidenceAdjustment{
				Adjustment:         adjustment,
				Reason:             fmt.Sprintf("explicit rating %d for pattern %s", entry.Rating, entry.ResponsePattern),
				ConfidenceModifier: 1 + adjustment,
			}
		}
	}

	return improvements, adjustments
}

func categoryOrDefault(category string) string {
	if category == "" {
		return "general"
	}
	return category
}

func priorityForRating(rating int) string {
	if rating <= 1 {
		return "high"
	}
	return "medium"
}

func suggestedActionFor(category string) string {
	switch category {
	case "accuracy":
		return "review_intent_rules"
	case "tone":
		return "review_tone_substitutions"
	case "speed":
		return "review_response_latency"
	default:
		return "review_response_templates"
	}
}

package learning

import (
	"log/slog"

	"fieldbot/app/model"

	"github.com/samber/do"
)

type Service struct{}

func New(_ *do.Injector) (*Service, error) {
	return &Service{}, nil
}

// Learn runs every sub-analysis over one interaction batch. Sub-analyses are
// independent and order-insensitive. Never fails upward: an internal panic
// yields the basic-aggregate fallback result instead.
func (s *Service) Learn(conversationID string, interactions []model.InteractionRecord, feedback *model.FeedbackRecord) (out *model.LearningResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("learning analysis failed, using basic aggregate",
				"conversation_id", conversationID, "panic", r)
			aggregate := basicAggregate(interactions)
			out = &model.LearningResult{
				Completed: false,
				Error:     "learning analysis failed",
				Fallback:  &aggregate,
			}
		}
	}()

	patterns := analyzePatterns(interactions)
	improvements, adjustments := analyzeFeedback(feedback)
	optimizations := analyzeOutcomes(interactions)
	preferences, updated := learnPreferences(interactions)
	metrics := computeMetrics(interactions)

	result := &model.LearningResult{
		Completed:             true,
		PatternsLearned:       len(patterns.Successful) + len(patterns.Failed),
		Patterns:              patterns,
		Improvements:          improvements,
		ConfidenceAdjustments: adjustments,
		ResponseOptimizations: optimizations,
		PreferencesUpdated:    updated,
		UserPreferences:       preferences,
		Metrics:               metrics,
	}
	result.Applied = countApplied(result)

	return result
}

// basicAggregate is the degraded result: count, mean satisfaction, modal
// intent (ties broken by first encountered at the highest count) and mean
// response time.
func basicAggregate(interactions []model.InteractionRecord) model.BasicAggregate {
	out := model.BasicAggregate{Interactions: len(interactions)}
	if len(interactions) == 0 {
		return out
	}

	satSum := 0.0
	satCount := 0
	timeSum := 0.0
	counts := make(map[string]int)
	topCount := 0

	for _, rec := range interactions {
		if sat, ok := rec.Satisfaction(); ok {
			satSum += sat
			satCount++
		}
		timeSum += float64(rec.ResponseTimeMS)

		if rec.IntentRecognized == "" {
			continue
		}
		counts[rec.IntentRecognized]++
		if counts[rec.IntentRecognized] > topCount {
			topCount = counts[rec.IntentRecognized]
			out.TopIntent = rec.IntentRecognized
		}
	}

	if satCount > 0 {
		out.AvgSatisfaction = satSum / float64(satCount)
	}
	out.AvgResponseTimeMS = timeSum / float64(len(interactions))

	return out
}

func (s *Service) Close() error {
	return nil
}

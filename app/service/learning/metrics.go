package learning

import "fieldbot/app/model"

// computeMetrics derives batch-level success metrics. Every ratio guards its
// denominator; an empty batch yields all zeros.
func computeMetrics(interactions []model.InteractionRecord) model.SuccessMetrics {
	out := model.SuccessMetrics{}
	if len(interactions) == 0 {
		return out
	}

	satSum := 0.0
	satCount := 0
	accuracyHits := 0
	accuracyTotal := 0
	relevanceSum := 0.0
	relevanceCount := 0
	completed := 0
	engagementSum := 0.0
	satisfactionSeries := []float64{}

	for _, rec := range interactions {
		if sat, ok := rec.Satisfaction(); ok {
			satSum += sat
			satCount++
			satisfactionSeries = append(satisfactionSeries, sat)
		}

		if rec.IntentRecognized != "" && rec.ActualIntent != "" {
			accuracyTotal++
			if rec.IntentRecognized == rec.ActualIntent {
				accuracyHits++
			}
		}

		if rec.ResponseRelevance > 0 {
			relevanceSum += rec.ResponseRelevance
			relevanceCount++
		}

		if rec.Status == "completed" || rec.Outcome == "successful" {
			completed++
		}

		engagementSum += rec.EngagementScore
	}

	if satCount > 0 {
		out.OverallSatisfaction = satSum / float64(satCount)
	}
	if accuracyTotal > 0 {
		out.IntentAccuracy = float64(accuracyHits) / float64(accuracyTotal)
	}
	if relevanceCount > 0 {
		out.ResponseRelevance = relevanceSum / float64(relevanceCount)
	}
	out.CompletionRate = float64(completed) / float64(len(interactions))
	out.Engagement = engagementSum / float64(len(interactions))

	if len(interactions) > 10 && len(satisfactionSeries) >= 10 {
		first := mean(satisfactionSeries[:5])
		last := mean(satisfactionSeries[len(satisfactionSeries)-5:])
		out.LearningEffectiveness = (last - first) / 5
	}

	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

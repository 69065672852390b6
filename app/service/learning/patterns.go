package learning

import "fieldbot/app/model"

// factorRule tags an interaction with a heuristic success or failure factor.
type factorRule struct {
	name    string
	matches func(model.InteractionRecord) bool
}

var factorRules = []factorRule{
	{"fast_response", func(r model.InteractionRecord) bool { return r.ResponseTimeMS > 0 && r.ResponseTimeMS < 2000 }},
	{"slow_response", func(r model.InteractionRecord) bool { return r.ResponseTimeMS > 5000 }},
	{"high_confidence", func(r model.InteractionRecord) bool { return r.ConfidenceScore > 0.8 }},
	{"low_confidence", func(r model.InteractionRecord) bool { return r.ConfidenceScore > 0 && r.ConfidenceScore < 0.4 }},
	{"high_engagement", func(r model.InteractionRecord) bool { return r.EngagementScore > 0.7 }},
	{"concise_response", func(r model.InteractionRecord) bool { return r.ResponseLength > 0 && r.ResponseLength < 100 }},
	{"lengthy_response", func(r model.InteractionRecord) bool { return r.ResponseLength > 600 }},
}

// analyzePatterns partitions interactions into successful and failed sets,
// tags each with heuristic factors, and aggregates per response type.
func analyzePatterns(interactions []model.InteractionRecord) model.PatternAnalysis {
	out := model.PatternAnalysis{
		Successful:    []model.TaggedInteraction{},
		Failed:        []model.TaggedInteraction{},
		ResponseTypes: map[string]model.ResponseTypeStats{},
	}

	type bucket struct {
		count    int
		satSum   float64
		satCount int
		engSum   float64
	}
	buckets := make(map[string]*bucket)

	for _, rec := range interactions {
		sat, hasSat := rec.Satisfaction()

		if rec.IntentRecognized != "" && hasSat {
			tagged := model.TaggedInteraction{Record: rec, Factors: tagFactors(rec)}
			switch {
			case sat > 3:
				out.Successful = append(out.Successful, tagged)
			case sat <= 2:
				out.Failed = append(out.Failed, tagged)
			}
		}

		responseType := rec.ResponseType
		if responseType == "" {
			responseType = "general"
		}
		b := buckets[responseType]
		if b == nil {
			b = &bucket{}
			buckets[responseType] = b
		}
		b.count++
		if hasSat {
			b.satSum += sat
			b.satCount++
		}
		b.engSum += rec.EngagementScore
	}

	for responseType, b := range buckets {
		stats := model.ResponseTypeStats{Count: b.count}
		if b.satCount > 0 {
			stats.AvgSatisfaction = b.satSum / float64(b.satCount)
		}
		stats.AvgEngagement = b.engSum / float64(b.count)
		stats.ImprovementPotential = ((5 - stats.AvgSatisfaction) + (5 - stats.AvgEngagement)) / 10
		out.ResponseTypes[responseType] = stats
	}

	return out
}

func tagFactors(rec model.InteractionRecord) []string {
	factors := []string{}
	for _, rule := range factorRules {
		if rule.matches(rec) {
			factors = append(factors, rule.name)
		}
	}
	return factors
}

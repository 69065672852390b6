package learning

import (
	"sort"

	"fieldbot/app/model"
)

// analyzeOutcomes mines successful and failed interaction sets into
// replication and avoidance entries, plus a timing opportunity when the slow
// tail of the response-time distribution is far off the median.
func analyzeOutcomes(interactions []model.InteractionRecord) []model.ResponseOptimization {
	optimizations := []model.ResponseOptimization{}

	var successPatterns, failurePatterns []string
	for _, rec := range interactions {
		sat, hasSat := rec.Satisfaction()

		switch {
		case rec.Outcome == "successful" || (hasSat && sat > 3):
			if rec.ResponseType != "" {
				successPatterns = append(successPatterns, rec.ResponseType)
			}
		case rec.Outcome == "failed" || (hasSat && sat <= 2):
			if rec.ResponseType != "" {
				failurePatterns = append(failurePatterns, rec.ResponseType)
			}
		}
	}

	if len(successPatterns) > 0 {
		optimizations = append(optimizations, model.ResponseOptimization{
			Kind:     "success_pattern_replication",
			Priority: "medium",
			Patterns: dedupe(successPatterns),
		})
	}

	if len(failurePatterns) > 0 {
		optimizations = append(optimizations, model.ResponseOptimization{
			Kind:       "failure_avoidance",
			Priority:   "high",
			Patterns:   dedupe(failurePatterns),
			Strategies: []string{"rework_templates", "add_clarifying_question", "escalate_sooner"},
		})
	}

	if opt, ok := timingOpportunity(interactions); ok {
		optimizations = append(optimizations, opt)
	}

	return optimizations
}

func timingOpportunity(interactions []model.InteractionRecord) (model.ResponseOptimization, bool) {
	times := make([]int, 0, len(interactions))
	for _, rec := range interactions {
		if rec.ResponseTimeMS > 0 {
			times = append(times, rec.ResponseTimeMS)
		}
	}
	if len(times) < 4 {
		return model.ResponseOptimization{}, false
	}

	sort.Ints(times)
	median := times[len(times)/2]
	p90 := times[len(times)*9/10]

	if median == 0 || p90 < median*3 {
		return model.ResponseOptimization{}, false
	}

	return model.ResponseOptimization{
		Kind:     "response_timing",
		Priority: "medium",
		Detail:   "slowest responses take over three times the median; investigate the slow tail",
	}, true
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

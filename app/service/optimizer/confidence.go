package optimizer

import (
	"slices"
	"strings"
)

// optimizeConfidence is stage 2: bounded adjustments from interaction
// history, engagement and domain relevance. The [0.1,1.0] clamp always holds
// regardless of which adjustments fire.
func (p *pass) optimizeConfidence() {
	delta := 0.0

	if p.analytics.InteractionCount > 5 && p.analytics.SuccessRate > 0.8 {
		delta += 0.05
	}
	if p.ctx.TurnIndex > 5 && p.analytics.EngagementLevel > 0.7 {
		delta += 0.03
	}
	if slices.Contains(p.ctx.ShortTerm.RecentIntents, "clarification_needed") {
		delta -= 0.1
	}
	if p.domainRelevance() < 0.5 {
		delta -= 0.15
	}

	if delta != 0 && p.fire("confidence_calibration") {
		p.draft.Confidence += delta
	}

	p.draft.Confidence = clampConfidence(p.draft.Confidence)
}

// domainRelevance is the fraction of the construction vocabulary present in
// the user's recent topics and declared interests.
func (p *pass) domainRelevance() float64 {
	corpus := strings.ToLower(strings.Join(
		append(slices.Clone(p.ctx.ShortTerm.RecentTopics), p.ctx.LongTerm.PrimaryInterests...),
		" ",
	))
	if corpus == "" {
		return 0
	}

	hits := 0
	for _, keyword := range constructionKeywords {
		if strings.Contains(corpus, keyword) {
			hits++
		}
	}

	return float64(hits) / float64(len(constructionKeywords))
}

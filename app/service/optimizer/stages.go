package optimizer

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// optimizeTopics is stage 3: union with contextual topics, then filter by
// declared interests. Topics from the original draft are never dropped.
func (p *pass) optimizeTopics() {
	original := slices.Clone(p.draft.Topics)

	merged := slices.Clone(p.draft.Topics)
	for _, topic := range p.ctx.ShortTerm.RecentTopics {
		if !slices.Contains(merged, topic) {
			merged = append(merged, topic)
		}
	}

	if len(p.ctx.LongTerm.PrimaryInterests) > 0 {
		filtered := merged[:0]
		for _, topic := range merged {
			if slices.Contains(original, topic) || matchesInterest(topic, p.ctx.LongTerm.PrimaryInterests) {
				filtered = append(filtered, topic)
			}
		}
		merged = filtered
	}

	if slices.Equal(merged, original) {
		return
	}
	if p.fire("topic_alignment") {
		p.draft.Topics = merged
	}
}

func matchesInterest(topic string, interests []string) bool {
	lower := strings.ToLower(topic)
	for _, interest := range interests {
		interestLower := strings.ToLower(interest)
		if strings.Contains(interestLower, lower) || strings.Contains(lower, interestLower) {
			return true
		}
	}
	return false
}

// optimizeActions is stage 4: stable sort by historic success rate, append
// contextual actions, de-duplicate, cap to the user's suggestion limit.
func (p *pass) optimizeActions() {
	actions := slices.Clone(p.draft.SuggestedActions)

	sort.SliceStable(actions, func(i, j int) bool {
		return p.analytics.ActionSuccessRates[actions[i]] > p.analytics.ActionSuccessRates[actions[j]]
	})

	actions = append(actions, p.contextualActions()...)

	seen := make(map[string]bool, len(actions))
	deduped := actions[:0]
	for _, action := range actions {
		if seen[action] {
			continue
		}
		seen[action] = true
		deduped = append(deduped, action)
	}
	actions = deduped

	limit := p.ctx.Profile.Preferences.MaxSuggestions
	if limit <= 0 {
		limit = 4
	}
	if len(actions) > limit {
		actions = actions[:limit]
	}

	if slices.Equal(actions, p.draft.SuggestedActions) {
		return
	}
	if p.fire("action_ranking") {
		p.draft.SuggestedActions = actions
	}
}

func (p *pass) contextualActions() []string {
	var actions []string

	if p.ctx.Intent != nil && p.ctx.Intent.Primary != nil {
		switch p.ctx.Intent.Primary.Name {
		case "project_quote":
			actions = append(actions, "schedule_site_visit")
		case "emergency_service":
			actions = append(actions, "call_emergency_line")
		case "schedule_visit":
			actions = append(actions, "pick_time_slot")
		}
	}

	return actions
}

// applyContextual is stage 5: time-of-day, role, conversation-depth and
// topic-breadth notes.
func (p *pass) applyContextual() {
	hour := p.now().Hour()
	if (hour < 9 || hour >= 17) && p.fire("after_hours_notice") {
		p.draft.Response += " Please note our office is currently closed; we'll follow up first thing during business hours. Emergencies are always handled immediately."
	}

	if p.ctx.Profile.Role == "Administrator" && p.fire("admin_enrichment") {
		p.draft.Response += " As an administrator you can review the full project ledger and team activity from your dashboard."
		p.draft.SuggestedActions = append([]string{"admin_dashboard", "priority_support"}, p.draft.SuggestedActions...)
	}

	if p.ctx.TurnIndex > 10 && p.fire("progress_context") {
		p.draft.Response += " We've covered quite a bit in this conversation; let me know if a recap of where things stand would help."
	}

	if len(p.ctx.ShortTerm.RecentTopics) > 3 && p.fire("multi_topic_summary") {
		p.draft.Response += fmt.Sprintf(" So far we've touched on %s.", strings.Join(p.ctx.ShortTerm.RecentTopics, ", "))
	}
}

// applyLearnedPatterns is stage 6: feed mined success/failure patterns and
// trending topics back into the text.
func (p *pass) applyLearnedPatterns() {
	if phrases := p.analytics.SuccessfulPatterns.Phrases; len(phrases) > 0 {
		if !strings.Contains(p.draft.Response, phrases[0]) && p.fire("success_pattern_application") {
			p.draft.Response += " " + phrases[0]
		}
	}

	if structures := p.analytics.SuccessfulPatterns.Structures; len(structures) > 0 {
		if structures[0] == "summary_first" && !strings.HasPrefix(p.draft.Response, "In short") && p.fire("structure_optimization") {
			p.draft.Response = "In short: " + p.draft.Response
		}
	}

	if len(p.analytics.FailurePhrases) > 0 {
		if stripped, ok := stripPhrases(p.draft.Response, p.analytics.FailurePhrases); ok && p.fire("failure_pattern_removal") {
			p.draft.Response = stripped
		}
	}

	for _, trending := range p.analytics.TrendingTopics {
		if !slices.Contains(p.draft.Topics, trending) {
			continue
		}
		if !strings.Contains(strings.ToLower(p.draft.Response), strings.ToLower(trending)) && p.fire("trending_topic_weaving") {
			p.draft.Response += fmt.Sprintf(" Many customers are also asking about %s right now.", trending)
		}
		break
	}
}

func stripPhrases(text string, phrases []string) (string, bool) {
	stripped := false
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(text, phrase) {
			text = strings.ReplaceAll(text, phrase, "")
			stripped = true
		}
	}
	if !stripped {
		return text, false
	}
	return strings.Join(strings.Fields(text), " "), true
}

// personalize is stage 7: communication style and information density.
func (p *pass) personalize() {
	switch p.ctx.Profile.Preferences.CommunicationStyle {
	case "formal":
		if replaced, ok := applySubstitutions(p.draft.Response, formalSubstitutions); ok && p.fire("style_personalization") {
			p.draft.Response = replaced
		}
	case "casual":
		if replaced, ok := applySubstitutions(p.draft.Response, casualSubstitutions); ok && p.fire("style_personalization") {
			p.draft.Response = replaced
		}
	case "technical":
		if !containsTechnicalTerm(p.draft.Response) && p.fire("style_personalization") {
			p.draft.Response += " I can share the technical specifics, including materials and code requirements, whenever useful."
		}
	}

	switch p.ctx.Profile.Preferences.InformationDensity {
	case "high":
		if p.fire("density_personalization") {
			p.draft.Response += " Happy to go deeper on any of these points."
		}
	case "low":
		sentences := splitSentences(p.draft.Response)
		if len(sentences) > 2 && p.fire("density_personalization") {
			p.draft.Response = strings.Join(sentences[:2], " ")
		}
	}
}

// finalize is stage 8: final truncation, low-confidence escalation and the
// completion stamp.
func (p *pass) finalize() {
	if len(p.draft.Response) > 1000 && p.ctx.Profile.Preferences.ResponseLength != "detailed" {
		if p.fire("final_truncation") {
			p.draft.Response = p.draft.Response[:800] + "... Would you like me to elaborate on any part of this?"
		}
	}

	if p.draft.Confidence < 0.3 && p.fire("low_confidence_escalation") {
		p.draft.Response += " To make sure you get an accurate answer, I can also connect you with one of our specialists."
		p.draft.SuggestedActions = append([]string{"specialist_consultation"}, p.draft.SuggestedActions...)
	}

	p.draft.Metadata.OptimizationComplete = true
	p.draft.Metadata.OptimizedAt = p.now()
	p.draft.Metadata.TotalOptimizations = len(p.draft.Metadata.Strategies)
}

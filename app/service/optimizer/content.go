package optimizer

import (
	"strings"

	"fieldbot/app/model"
)

const (
	shortLengthThreshold = 200
	defaultAverageLength = 300
	maxKeySentences      = 3
	keySentenceMinLength = 50
)

var keySentenceMarkers = []string{"important", "key", "recommend"}

// optimizeContent is stage 1: length, tone, technical level, urgency and
// repetition transforms over the response text.
func (p *pass) optimizeContent() {
	p.adjustLength()
	p.adjustTone()
	p.adjustTechnicalLevel()
	p.prioritizeForUrgency()
	p.avoidRepetition()
}

func (p *pass) adjustLength() {
	prefs := p.ctx.Profile.Preferences

	switch prefs.ResponseLength {
	case "short":
		if len(p.draft.Response) > shortLengthThreshold && p.fire("length_reduction") {
			p.draft.Response = summarize(p.draft.Response)
		}
	case "detailed":
		average := p.analytics.AverageResponseLength
		if average <= 0 {
			average = defaultAverageLength
		}
		if len(p.draft.Response) < average && p.fire("length_expansion") {
			p.draft.Response += " For your project specifically, we can walk through the scope, materials and timeline in as much detail as you need."
		}
	}
}

// summarize keeps up to three key sentences. A sentence only counts when it
// ends with a terminator; unterminated text falls through to truncation.
func summarize(text string) string {
	sentences := splitSentences(text)

	key := make([]string, 0, maxKeySentences)
	for _, sentence := range sentences {
		if len(key) >= maxKeySentences {
			break
		}
		if isKeySentence(sentence) {
			key = append(key, sentence)
		}
	}

	if len(key) == 0 {
		return text[:shortLengthThreshold] + "..."
	}

	return strings.Join(key, " ")
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		sentence := strings.TrimSpace(text[start : i+1])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}

	return sentences
}

func isKeySentence(sentence string) bool {
	if len(sentence) > keySentenceMinLength {
		return true
	}
	lower := strings.ToLower(sentence)
	for _, marker := range keySentenceMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func (p *pass) adjustTone() {
	switch p.ctx.ShortTerm.Tone {
	case "negative":
		if replaced, ok := applySubstitutions(p.draft.Response, empathySubstitutions); ok && p.fire("empathy_enhancement") {
			p.draft.Response = replaced
		}
	case "positive":
		if p.analytics.SentimentTrend != "positive" {
			return
		}
		if replaced, ok := applySubstitutions(p.draft.Response, intensifierSubstitutions); ok && p.fire("positive_reinforcement") {
			p.draft.Response = replaced
		}
	}
}

func (p *pass) adjustTechnicalLevel() {
	level := technicalLevel(p.analytics.TechnicalTermUsage, p.ctx.ShortTerm.Complexity)

	switch level {
	case "novice":
		if !containsTechnicalTerm(p.draft.Response) {
			return
		}
		if replaced, ok := applySubstitutions(p.draft.Response, glossarySubstitutions); ok && p.fire("glossary_simplification") {
			p.draft.Response = replaced
		}
	case "expert":
		if containsTechnicalTerm(p.draft.Response) {
			return
		}
		if p.fire("technical_enrichment") {
			p.draft.Response += " If you'd like, I can include the structural specifics such as framing, sheathing and load paths in the next update."
		}
	}
}

func technicalLevel(termUsage float64, complexity model.Complexity) string {
	switch {
	case termUsage > 0.6 || complexity == model.ComplexityHigh:
		return "expert"
	case termUsage < 0.2 && complexity == model.ComplexityLow:
		return "novice"
	default:
		return "intermediate"
	}
}

// prioritizeForUrgency reorders action items for critical urgency. Nothing is
// dropped, urgent actions only move to the front.
func (p *pass) prioritizeForUrgency() {
	if p.ctx.Urgency.Level != model.UrgencyCritical {
		return
	}
	if !p.fire("urgency_prioritization") {
		return
	}

	urgent := make([]string, 0, len(p.draft.SuggestedActions))
	rest := make([]string, 0, len(p.draft.SuggestedActions))

	for _, action := range p.draft.SuggestedActions {
		lower := strings.ToLower(action)
		if strings.Contains(lower, "emergency") || strings.Contains(lower, "call") || strings.Contains(lower, "dispatch") {
			urgent = append(urgent, action)
		} else {
			rest = append(rest, action)
		}
	}

	p.draft.SuggestedActions = append(urgent, rest...)
	p.draft.Response = "Let's take care of the urgent issue first. " + p.draft.Response
}

func (p *pass) avoidRepetition() {
	for _, recent := range p.analytics.RecentBotResponses {
		if !similar(p.draft.Response, recent) {
			continue
		}
		if p.fire("repetition_avoidance") {
			p.draft.Response = "To put it another way: " + p.draft.Response
		}
		return
	}
}

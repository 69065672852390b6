package intent

import (
	"strings"

	"fieldbot/app/model"

	"github.com/elliotchance/pie/v2"
)

// intentRule maps trigger keywords to an intent. First matching rule wins,
// later matches become alternatives.
type intentRule struct {
	name       string
	confidence float64
	keywords   []string
}

var intentRules = []intentRule{
	{name: "emergency_service", confidence: 0.85, keywords: []string{"emergency", "urgent", "leak", "flood", "gas", "collapse"}},
	{name: "project_quote", confidence: 0.8, keywords: []string{"quote", "estimate", "cost", "price", "how much"}},
	{name: "invoice_question", confidence: 0.75, keywords: []string{"invoice", "bill", "payment", "charge"}},
	{name: "permit_status", confidence: 0.75, keywords: []string{"permit", "inspection", "inspector", "approval"}},
	{name: "schedule_visit", confidence: 0.7, keywords: []string{"schedule", "appointment", "visit", "book"}},
	{name: "project_status", confidence: 0.7, keywords: []string{"status", "progress", "timeline", "when will"}},
}

var negativeWords = []string{"angry", "terrible", "frustrated", "upset", "broken", "awful", "unacceptable"}

var positiveWords = []string{"great", "thanks", "thank you", "awesome", "perfect", "appreciate"}

// RuleClassify is the deterministic keyword classifier used when no model is
// configured. It always succeeds.
func RuleClassify(message string) *model.IntentAnalysis {
	lower := strings.ToLower(message)

	analysis := model.NeutralIntentAnalysis()
	analysis.Sentiment = detectSentiment(lower)
	analysis.Complexity = detectComplexity(message)

	for _, rule := range intentRules {
		if !matchesAny(lower, rule.keywords) {
			continue
		}

		if analysis.Primary == nil {
			analysis.Primary = &model.Intent{Name: rule.name, Confidence: rule.confidence}
		} else {
			analysis.Alternatives = append(analysis.Alternatives, model.Intent{
				Name:       rule.name,
				Confidence: rule.confidence * 0.5,
			})
		}
	}

	if analysis.Primary == nil {
		analysis.Primary = &model.Intent{Name: "general_inquiry", Confidence: 0.4}
	}

	return analysis
}

func detectSentiment(lower string) model.Sentiment {
	switch {
	case matchesAny(lower, negativeWords):
		return model.SentimentNegative
	case matchesAny(lower, positiveWords):
		return model.SentimentPositive
	default:
		return model.SentimentNeutral
	}
}

func detectComplexity(message string) model.Complexity {
	words := len(strings.Fields(message))
	switch {
	case words > 40:
		return model.ComplexityHigh
	case words > 15:
		return model.ComplexityMedium
	default:
		return model.ComplexityLow
	}
}

func matchesAny(lower string, keywords []string) bool {
	return pie.Any(keywords, func(keyword string) bool {
		return strings.Contains(lower, keyword)
	})
}

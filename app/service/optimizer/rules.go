package optimizer

import "strings"

// substitution tables are ordered slices, not maps, so reruns over the same
// text are deterministic.
type substitution struct {
	from string
	to   string
}

var empathySubstitutions = []substitution{
	{"Great question", "I understand your concern"},
	{"Thanks for asking", "I appreciate you raising this"},
	{"Sure", "Of course, I'm here to help"},
	{"No problem", "I completely understand"},
}

var intensifierSubstitutions = []substitution{
	{"Great", "Excellent"},
	{"Good", "Fantastic"},
	{"Happy to", "Delighted to"},
	{"helpful", "incredibly helpful"},
}

var glossarySubstitutions = []substitution{
	{"load-bearing", "weight-supporting"},
	{"subfloor", "the layer beneath your flooring"},
	{"HVAC", "heating and cooling system"},
	{"joist", "support beam"},
	{"change order", "formal update to the project plan"},
	{"punch list", "final list of small fixes"},
}

var technicalTerms = []string{
	"load-bearing", "subfloor", "hvac", "joist", "change order",
	"punch list", "footing", "sheathing", "vapor barrier",
}

var constructionKeywords = []string{
	"project", "renovation", "construction", "contractor", "permit",
	"quote", "estimate", "inspection", "materials", "timeline",
}

var formalSubstitutions = []substitution{
	{"Hi", "Hello"},
	{"Thanks", "Thank you"},
	{"can't", "cannot"},
	{"won't", "will not"},
	{"I'm", "I am"},
}

var casualSubstitutions = []substitution{
	{"Hello", "Hi"},
	{"Thank you", "Thanks"},
	{"We would be pleased to", "We'd love to"},
	{"assistance", "help"},
}

func applySubstitutions(text string, subs []substitution) (string, bool) {
	applied := false
	for _, sub := range subs {
		if strings.Contains(text, sub.from) {
			text = strings.ReplaceAll(text, sub.from, sub.to)
			applied = true
		}
	}
	return text, applied
}

func containsTechnicalTerm(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range technicalTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// similar reports whether two responses share most of their words. Used for
// repetition detection against recent bot responses.
func similar(a, b string) bool {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return false
	}

	setB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		setB[w] = true
	}

	shared := 0
	for _, w := range wordsA {
		if setB[w] {
			shared++
		}
	}

	return float64(shared)/float64(len(wordsA)) > 0.8
}

package generate

import (
	"strings"

	"fieldbot/app/model"
)

// basicRule is one entry of the minimal rule-based generator used when no
// model is available or the model call fails.
type basicRule struct {
	keywords []string
	response string
	actions  []string
	topics   []string
}

var basicRules = []basicRule{
	{
		keywords: []string{"emergency", "urgent"},
		response: "This sounds urgent. Our emergency line is available around the clock and a crew can usually be on site within the hour. Can you tell me what happened and where?",
		actions:  []string{"call_emergency_line", "share_location"},
		topics:   []string{"emergency"},
	},
	{
		keywords: []string{"quote", "estimate", "cost", "price"},
		response: "I can help you get a quote. Tell me a bit about the project, for example the type of work and the approximate size, and we will prepare an estimate.",
		actions:  []string{"get_quote", "schedule_consultation"},
		topics:   []string{"quote"},
	},
	{
		keywords: []string{"hello", "hi ", "hey", "good morning", "good afternoon"},
		response: "Hello! I'm here to help with quotes, project status, scheduling and anything else about your construction project. What can I do for you?",
		actions:  []string{"get_quote", "view_services"},
		topics:   []string{"greeting"},
	},
	{
		keywords: []string{"hours", "open", "available", "when are you"},
		response: "Our office hours are Monday through Friday, 9:00 to 17:00. Emergencies are handled around the clock.",
		actions:  []string{"schedule_consultation"},
		topics:   []string{"hours"},
	},
}

// GenerateBasic always succeeds. Confidence 0.7 and topic general unless a
// rule matches.
func (s *Service) GenerateBasic(message string, _ *model.ConversationContext) *model.DraftResponse {
	lower := strings.ToLower(message)

	for _, rule := range basicRules {
		for _, keyword := range rule.keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			return &model.DraftResponse{
				Response:         rule.response,
				Confidence:       0.7,
				Topics:           append([]string{}, rule.topics...),
				SuggestedActions: append([]string{}, rule.actions...),
				Metadata:         model.ResponseMetadata{Source: "rules", Strategies: []string{}},
			}
		}
	}

	return &model.DraftResponse{
		Response:         "Thanks for reaching out. Could you tell me a bit more about what you need help with? I can assist with quotes, scheduling, project status, permits and invoices.",
		Confidence:       0.7,
		Topics:           []string{"general"},
		SuggestedActions: []string{"get_quote", "view_services"},
		Metadata:         model.ResponseMetadata{Source: "rules", Strategies: []string{}},
	}
}

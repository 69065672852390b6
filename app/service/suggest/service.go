package suggest

import (
	"strings"

	"fieldbot/app/model"

	"github.com/samber/do"
)

const (
	maxQuickReplies = 4
	maxSuggestions  = 3
)

// quickReplyTable maps the primary intent to its canned reply chips.
var quickReplyTable = map[string][]string{
	"project_quote":     {"Schedule site visit", "Upload project photos", "Discuss timeline"},
	"emergency_service": {"Call emergency line", "Share my location", "Describe the damage"},
	"invoice_question":  {"View my invoices", "Payment options", "Dispute a charge"},
	"permit_status":     {"Check permit status", "Inspection schedule", "Required documents"},
	"schedule_visit":    {"Pick a time slot", "Request callback", "Reschedule"},
	"project_status":    {"View progress", "Latest photos", "Talk to project manager"},
}

var genericReplies = []string{"Tell me more", "Talk to a specialist", "View services"}

// urgentReplies are prepended for elevated urgency and always survive the cap.
var urgentReplies = map[string][]string{
	model.UrgencyHigh:     {"Emergency help"},
	model.UrgencyCritical: {"Emergency help", "Immediate assistance"},
}

type suggestionRule struct {
	keywords   []string
	suggestion model.Suggestion
}

var suggestionRules = []suggestionRule{
	{
		keywords:   []string{"quote", "estimate"},
		suggestion: model.Suggestion{Action: "get_quote", Label: "Get a free quote"},
	},
	{
		keywords:   []string{"consultation", "meeting", "visit"},
		suggestion: model.Suggestion{Action: "schedule_consultation", Label: "Schedule a consultation"},
	},
	{
		keywords:   []string{"invoice", "bill", "payment"},
		suggestion: model.Suggestion{Action: "view_invoices", Label: "Review your invoices"},
	},
	{
		keywords:   []string{"permit", "inspection"},
		suggestion: model.Suggestion{Action: "permit_tracker", Label: "Track your permits"},
	},
}

type Service struct{}

func New(_ *do.Injector) (*Service, error) {
	return &Service{}, nil
}

// QuickReplies builds the reply chip list for one turn: intent table lookup,
// generic padding to three, urgency prepend, capped at four.
func (s *Service) QuickReplies(convCtx *model.ConversationContext) []string {
	replies := make([]string, 0, maxQuickReplies)

	if convCtx.Intent != nil && convCtx.Intent.Primary != nil {
		if table, ok := quickReplyTable[convCtx.Intent.Primary.Name]; ok {
			replies = append(replies, table...)
		}
	}

	for _, generic := range genericReplies {
		if len(replies) >= 3 {
			break
		}
		replies = append(replies, generic)
	}

	urgent := urgentReplies[convCtx.Urgency.Level]
	if len(urgent) > 0 {
		replies = append(append([]string{}, urgent...), replies...)
	}

	if len(replies) > maxQuickReplies {
		replies = replies[:maxQuickReplies]
	}

	return replies
}

// SmartSuggestions derives contextual action suggestions from the message,
// the user's role and their declared interests. Capped at three.
func (s *Service) SmartSuggestions(message string, convCtx *model.ConversationContext) []model.Suggestion {
	lower := strings.ToLower(message)
	suggestions := make([]model.Suggestion, 0, maxSuggestions)

	for _, rule := range suggestionRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				suggestions = append(suggestions, rule.suggestion)
				break
			}
		}
	}

	if convCtx.Profile.Role == "Administrator" {
		suggestions = append(suggestions, model.Suggestion{Action: "admin_dashboard", Label: "Open admin dashboard"})
	}

	for _, interest := range convCtx.LongTerm.PrimaryInterests {
		if strings.Contains(strings.ToLower(interest), "residential") {
			suggestions = append(suggestions, model.Suggestion{Action: "residential_services", Label: "Browse residential services"})
			break
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return suggestions
}

func (s *Service) Close() error {
	return nil
}

package flow

import (
	"context"
	"fmt"
	"strings"

	"fieldbot/app/model"

	"github.com/samber/do"
)

// flowStep is one node of a guided sub-dialogue. Each step knows its canned
// response and which step follows it.
type flowStep struct {
	name      string
	response  string
	nextStep  string
	suggested []string
}

type flowDefinition struct {
	name  string
	steps []flowStep
}

var flowDefinitions = map[string]flowDefinition{
	"emergency_assessment": {
		name: "emergency_assessment",
		steps: []flowStep{
			{
				name:      "urgency_level",
				response:  "I understand this is urgent. Is anyone in immediate danger, and is the problem getting worse?",
				nextStep:  "location",
				suggested: []string{"Yes, getting worse", "Situation is stable"},
			},
			{
				name:      "location",
				response:  "Where is the problem located? Please share the property address or the affected area.",
				nextStep:  "dispatch",
				suggested: []string{"Share address", "Describe the area"},
			},
			{
				name:      "dispatch",
				response:  "Thank you. We are dispatching an emergency crew to your location and will call you shortly.",
				nextStep:  "",
				suggested: []string{"Call me now", "Send updates by text"},
			},
		},
	},
	"quote_collection": {
		name: "quote_collection",
		steps: []flowStep{
			{
				name:      "project_type",
				response:  "Happy to put a quote together. What kind of project is this? For example a kitchen remodel, roofing, or an addition.",
				nextStep:  "dimensions",
				suggested: []string{"Kitchen remodel", "Roofing", "Home addition"},
			},
			{
				name:      "dimensions",
				response:  "Got it. Roughly how large is the area involved? Approximate square footage works fine.",
				nextStep:  "budget",
				suggested: []string{"Under 500 sq ft", "500-1500 sq ft", "Over 1500 sq ft"},
			},
			{
				name:      "budget",
				response:  "Do you have a budget range in mind for this project?",
				nextStep:  "schedule_visit",
				suggested: []string{"Under $10k", "$10k-$50k", "Flexible"},
			},
			{
				name:      "schedule_visit",
				response:  "Great, that gives us enough to prepare an estimate. Let's schedule a site visit so we can confirm the details.",
				nextStep:  "",
				suggested: []string{"Schedule site visit", "Request callback"},
			},
		},
	},
}

type Service struct{}

func New(_ *do.Injector) (*Service, error) {
	return &Service{}, nil
}

// Manage advances one flow by a single step. Flows are stateless here; the
// caller carries the current step in the conversation context.
func (s *Service) Manage(_ context.Context, flowName, step, _ string, _ *model.ConversationContext) (*model.FlowResult, error) {
	def, ok := flowDefinitions[flowName]
	if !ok {
		return nil, fmt.Errorf("unknown flow %q", flowName)
	}

	index := stepIndex(def, step)
	if index < 0 {
		return nil, fmt.Errorf("unknown step %q in flow %q", step, flowName)
	}

	current := def.steps[index]
	completed := current.nextStep == ""

	return &model.FlowResult{
		Active:           !completed,
		CurrentStep:      current.name,
		Response:         current.response,
		Progress:         float64(index+1) / float64(len(def.steps)),
		Completed:        completed,
		SuggestedActions: append([]string{}, current.suggested...),
	}, nil
}

// Trigger reports which flow a message should start, if any.
func Trigger(message string) (flowName, step string, ok bool) {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "emergency") || strings.Contains(lower, "urgent"):
		return "emergency_assessment", "urgency_level", true
	case strings.Contains(lower, "quote") || strings.Contains(lower, "estimate"):
		return "quote_collection", "project_type", true
	default:
		return "", "", false
	}
}

func stepIndex(def flowDefinition, step string) int {
	if step == "" {
		return 0
	}
	for i, candidate := range def.steps {
		if candidate.name == step {
			return i
		}
	}
	return -1
}

func (s *Service) Close() error {
	return nil
}

package suggest

import (
	"testing"

	"fieldbot/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(nil)
	require.NoError(t, err)
	return svc
}

func TestQuickRepliesFromIntentTable(t *testing.T) {
	svc := newService(t)

	replies := svc.QuickReplies(&model.ConversationContext{
		Intent: &model.IntentAnalysis{
			Primary: &model.Intent{Name: "project_quote", Confidence: 0.8},
		},
	})

	assert.Equal(t, []string{"Schedule site visit", "Upload project photos", "Discuss timeline"}, replies)
}

func TestQuickRepliesPaddedWithGenerics(t *testing.T) {
	svc := newService(t)

	replies := svc.QuickReplies(&model.ConversationContext{})

	require.GreaterOrEqual(t, len(replies), 3)
	assert.Equal(t, genericReplies, replies)
}

func TestCriticalUrgencyPrependsEmergencyHelp(t *testing.T) {
	svc := newService(t)

	replies := svc.QuickReplies(&model.ConversationContext{
		Intent: &model.IntentAnalysis{
			Primary: &model.Intent{Name: "emergency_service", Confidence: 0.85},
		},
		Urgency: model.UrgencyLevel{Level: model.UrgencyCritical, Score: 1.0},
	})

	require.NotEmpty(t, replies)
	assert.Equal(t, "Emergency help", replies[0])
	assert.Equal(t, "Immediate assistance", replies[1])
	assert.LessOrEqual(t, len(replies), 4)
}

func TestHighUrgencyRetainedUnderCap(t *testing.T) {
	svc := newService(t)

	replies := svc.QuickReplies(&model.ConversationContext{
		Intent: &model.IntentAnalysis{
			Primary: &model.Intent{Name: "schedule_visit", Confidence: 0.7},
		},
		Urgency: model.UrgencyLevel{Level: model.UrgencyHigh, Score: 0.6},
	})

	require.LessOrEqual(t, len(replies), 4)
	assert.Equal(t, "Emergency help", replies[0])
}

func TestSmartSuggestionsFromMessage(t *testing.T) {
	svc := newService(t)

	suggestions := svc.SmartSuggestions("Can I get an estimate for the roof?", &model.ConversationContext{})

	require.NotEmpty(t, suggestions)
	assert.Equal(t, "get_quote", suggestions[0].Action)
}

func TestSmartSuggestionsAdminAndInterests(t *testing.T) {
	svc := newService(t)

	suggestions := svc.SmartSuggestions("nothing matching here", &model.ConversationContext{
		Profile: model.UserProfile{Role: "Administrator"},
		LongTerm: model.LongTermMemory{
			PrimaryInterests: []string{"residential remodeling"},
		},
	})

	require.Len(t, suggestions, 2)
	assert.Equal(t, "admin_dashboard", suggestions[0].Action)
	assert.Equal(t, "residential_services", suggestions[1].Action)
}

func TestSmartSuggestionsCappedAtThree(t *testing.T) {
	svc := newService(t)

	suggestions := svc.SmartSuggestions(
		"I want a quote, an estimate, a consultation, help with my invoice and a permit",
		&model.ConversationContext{
			Profile: model.UserProfile{Role: "Administrator"},
		},
	)

	assert.Len(t, suggestions, 3)
}

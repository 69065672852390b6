package generate

import (
	"context"
	"testing"

	"fieldbot/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBasicEmergencyRule(t *testing.T) {
	svc := &Service{}

	draft := svc.GenerateBasic("this is urgent, the pipe burst", &model.ConversationContext{})

	require.NotNil(t, draft)
	assert.Contains(t, draft.Response, "emergency line")
	assert.Contains(t, draft.SuggestedActions, "call_emergency_line")
	assert.InDelta(t, 0.7, draft.Confidence, 1e-9)
}

func TestGenerateBasicQuoteRule(t *testing.T) {
	svc := &Service{}

	draft := svc.GenerateBasic("what would a new deck cost?", &model.ConversationContext{})

	assert.Equal(t, []string{"quote"}, draft.Topics)
	assert.Contains(t, draft.SuggestedActions, "get_quote")
}

func TestGenerateBasicFallback(t *testing.T) {
	svc := &Service{}

	draft := svc.GenerateBasic("xyzzy", &model.ConversationContext{})

	assert.Equal(t, []string{"general"}, draft.Topics)
	assert.InDelta(t, 0.7, draft.Confidence, 1e-9)
	assert.Equal(t, "rules", draft.Metadata.Source)
	assert.NotEmpty(t, draft.Response)
}

func TestGenerateWithoutClientUsesRules(t *testing.T) {
	svc := &Service{}

	draft, err := svc.Generate(context.Background(), "hello there", &model.ConversationContext{})
	require.NoError(t, err)
	assert.Equal(t, "rules", draft.Metadata.Source)
}

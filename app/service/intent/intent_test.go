package intent

import (
	"testing"

	"fieldbot/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleClassifyEmergency(t *testing.T) {
	analysis := RuleClassify("There is a gas leak in my basement, this is urgent!")

	require.NotNil(t, analysis.Primary)
	assert.Equal(t, "emergency_service", analysis.Primary.Name)
	assert.InDelta(t, 0.85, analysis.Primary.Confidence, 1e-9)
}

func TestRuleClassifyAlternatives(t *testing.T) {
	analysis := RuleClassify("How much would a permit cost for the remodel?")

	require.NotNil(t, analysis.Primary)
	assert.Equal(t, "project_quote", analysis.Primary.Name)

	require.NotEmpty(t, analysis.Alternatives)
	assert.Equal(t, "permit_status", analysis.Alternatives[0].Name)
	assert.InDelta(t, 0.75*0.5, analysis.Alternatives[0].Confidence, 1e-9)
}

func TestRuleClassifyDefault(t *testing.T) {
	analysis := RuleClassify("hello")

	require.NotNil(t, analysis.Primary)
	assert.Equal(t, "general_inquiry", analysis.Primary.Name)
	assert.InDelta(t, 0.4, analysis.Primary.Confidence, 1e-9)
}

func TestSentimentDetection(t *testing.T) {
	assert.Equal(t, model.SentimentNegative, RuleClassify("this is terrible, I am frustrated").Sentiment)
	assert.Equal(t, model.SentimentPositive, RuleClassify("thanks, that was perfect").Sentiment)
	assert.Equal(t, model.SentimentNeutral, RuleClassify("what are your hours").Sentiment)
}

func TestComplexityDetection(t *testing.T) {
	assert.Equal(t, model.ComplexityLow, RuleClassify("short message").Complexity)

	medium := "this message has quite a few words in it because it describes a project in moderate detail overall"
	assert.Equal(t, model.ComplexityMedium, RuleClassify(medium).Complexity)
}

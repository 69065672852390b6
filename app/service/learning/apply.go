package learning

import (
	"context"

	"fieldbot/app/model"
)

// ModelUpdatePort receives learning outputs. Implementations decide how the
// updates mutate an external model; the engine only produces and counts them.
type ModelUpdatePort interface {
	ApplyImprovement(ctx context.Context, conversationID string, improvement model.Improvement) error
	ApplyResponseOptimization(ctx context.Context, conversationID string, optimization model.ResponseOptimization) error
	ApplyConfidenceAdjustment(ctx context.Context, pattern string, adjustment model.ConfidenceAdjustment) error
	ApplyUserPreference(ctx context.Context, userID string, preference model.UserPreferenceModel) error
}

// NopPort discards all updates. Used in tests and when learning is disabled.
type NopPort struct{}

func (NopPort) ApplyImprovement(context.Context, string, model.Improvement) error { return nil }
func (NopPort) ApplyResponseOptimization(context.Context, string, model.ResponseOptimization) error {
	return nil
}
func (NopPort) ApplyConfidenceAdjustment(context.Context, string, model.ConfidenceAdjustment) error {
	return nil
}
func (NopPort) ApplyUserPreference(context.Context, string, model.UserPreferenceModel) error {
	return nil
}

// countApplied is the counting pass over a finished analysis: how many
// updates of each kind a port would receive.
func countApplied(result *model.LearningResult) model.AppliedCounts {
	return model.AppliedCounts{
		IntentUpdates:     len(result.Improvements),
		ResponseUpdates:   len(result.ResponseOptimizations),
		ConfidenceUpdates: len(result.ConfidenceAdjustments),
		PreferenceUpdates: len(result.UserPreferences),
	}
}

// Apply feeds a finished analysis through a port. Errors are returned to the
// caller; the analysis itself is never modified.
func (s *Service) Apply(ctx context.Context, conversationID string, result *model.LearningResult, port ModelUpdatePort) error {
	if result == nil || port == nil {
		return nil
	}

	for _, improvement := range result.Improvements {
		if err := port.ApplyImprovement(ctx, conversationID, improvement); err != nil {
			return err
		}
	}
	for _, optimization := range result.ResponseOptimizations {
		if err := port.ApplyResponseOptimization(ctx, conversationID, optimization); err != nil {
			return err
		}
	}
	for pattern, adjustment := range result.ConfidenceAdjustments {
		if err := port.ApplyConfidenceAdjustment(ctx, pattern, adjustment); err != nil {
			return err
		}
	}
	for userID, preference := range result.UserPreferences {
		if err := port.ApplyUserPreference(ctx, userID, preference); err != nil {
			return err
		}
	}

	return nil
}

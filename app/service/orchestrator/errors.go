package orchestrator

import (
	"errors"
	"log/slog"
)

// Stage errors. Each one is recoverable locally: the stage maps it to its
// documented fallback value and the pipeline continues.
var (
	ErrContextFetch       = errors.New("context fetch failed")
	ErrIntentRecognition  = errors.New("intent recognition failed")
	ErrFlowManagement     = errors.New("flow management failed")
	ErrResponseGeneration = errors.New("response generation failed")
	ErrOptimization       = errors.New("optimization failed")
	ErrPersistence        = errors.New("persistence failed")
	ErrLearning           = errors.New("learning failed")
)

// guarded runs one pipeline stage. A stage error is logged under its
// sentinel and replaced by the stage's fallback value; the second return
// reports whether the primary path succeeded.
func guarded[T any](sentinel error, run func() (T, error), fallback func() T) (T, bool) {
	value, err := run()
	if err != nil {
		slog.Warn("pipeline stage degraded", "stage", sentinel.Error(), "error", err)
		return fallback(), false
	}
	return value, true
}

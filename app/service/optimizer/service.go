package optimizer

import (
	"log/slog"
	"time"

	"fieldbot/app/model"

	"github.com/samber/do"
)

const (
	minConfidence = 0.1
	maxConfidence = 1.0
)

type Service struct {
	now func() time.Time
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{now: time.Now}, nil
}

// NewWithClock is used by tests that pin the wall clock.
func NewWithClock(now func() time.Time) *Service {
	return &Service{now: now}
}

// Optimize runs the fixed eight-stage pipeline over a draft. Pure and
// deterministic given inputs and clock; any internal panic returns the
// original draft unchanged.
func (s *Service) Optimize(draft *model.DraftResponse, convCtx *model.ConversationContext, analytics *model.AnalyticsSnapshot) (out *model.DraftResponse) {
	if draft == nil {
		return nil
	}

	original := draft.Clone()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("optimizer pipeline failed, returning original draft", "panic", r)
			out = original
		}
	}()

	if convCtx == nil {
		convCtx = &model.ConversationContext{}
	}
	if analytics == nil {
		analytics = &model.AnalyticsSnapshot{}
	}

	p := &pass{
		draft:     draft.Clone(),
		ctx:       convCtx,
		analytics: analytics,
		now:       s.now,
	}

	p.optimizeContent()
	p.optimizeConfidence()
	p.optimizeTopics()
	p.optimizeActions()
	p.applyContextual()
	p.applyLearnedPatterns()
	p.personalize()
	p.finalize()

	return p.draft
}

// pass carries one pipeline run's working state.
type pass struct {
	draft     *model.DraftResponse
	ctx       *model.ConversationContext
	analytics *model.AnalyticsSnapshot
	now       func() time.Time
}

// fire guards each transform: a stage label already present means the draft
// went through this transform before, so it is skipped. Keeps re-optimization
// idempotent.
func (p *pass) fire(label string) bool {
	if p.draft.Metadata.Has(label) {
		return false
	}
	p.draft.Metadata.AddStrategy(label)
	return true
}

func clampConfidence(v float64) float64 {
	if v < minConfidence {
		return minConfidence
	}
	if v > maxConfidence {
		return maxConfidence
	}
	return v
}

func (s *Service) Close() error {
	return nil
}

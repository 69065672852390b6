package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fieldbot/app/config"
	"fieldbot/app/model"
	"fieldbot/app/service/learning"
	"fieldbot/app/service/modelstore"
	"fieldbot/app/store/convstore"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

// Job is one fire-and-forget learning dispatch: the telemetry of a finished
// turn plus any explicit feedback that arrived with it.
type Job struct {
	Record   model.InteractionRecord
	Feedback *model.FeedbackRecord
}

// Service decouples learning from the turn path through a bounded queue.
// At-most-once: a full queue drops the job with a warning, never blocks.
type Service struct {
	cfg      *config.Config
	store    convstore.Store
	learning *learning.Service
	port     learning.ModelUpdatePort

	mu     sync.Mutex
	closed bool
	jobs   chan Job
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		cfg:      cfg,
		store:    do.MustInvoke[convstore.Store](di),
		learning: do.MustInvoke[*learning.Service](di),
		port:     do.MustInvoke[*modelstore.Service](di),
		jobs:     make(chan Job, cfg.Learning.QueueSize),
	}, nil
}

// Enqueue never blocks the turn path. Jobs arriving after Shutdown are
// dropped with a warning.
func (s *Service) Enqueue(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		slog.Warn("learning queue closed, dropping job",
			"conversation_id", job.Record.ConversationID)
		return
	}

	select {
	case s.jobs <- job:
	default:
		slog.Warn("learning queue full, dropping job",
			"conversation_id", job.Record.ConversationID)
	}
}

// Run consumes jobs until the context is cancelled or the queue is shut
// down. Worker errors are logged, never propagated.
func (s *Service) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	for i := 0; i < s.cfg.Learning.Workers; i++ {
		group.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case job, ok := <-s.jobs:
					if !ok {
						return nil
					}
					s.process(ctx, job)
				}
			}
		})
	}

	return group.Wait()
}

func (s *Service) process(ctx context.Context, job Job) {
	delay := time.Duration(s.cfg.Learning.DispatchDelayMS) * time.Millisecond
	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	conversationID := job.Record.ConversationID

	if err := s.store.AppendInteraction(ctx, job.Record); err != nil {
		slog.Error("failed to append interaction", "conversation_id", conversationID, "error", err)
		return
	}

	interactions, err := s.store.Interactions(ctx, conversationID, s.cfg.Learning.BatchLimit)
	if err != nil {
		slog.Error("failed to load interactions", "conversation_id", conversationID, "error", err)
		return
	}

	result := s.learning.Learn(conversationID, interactions, job.Feedback)
	if !result.Completed {
		slog.Warn("learning degraded to basic aggregate", "conversation_id", conversationID)
	}

	if err = s.learning.Apply(ctx, conversationID, result, s.port); err != nil {
		slog.Error("failed to apply learning updates", "conversation_id", conversationID, "error", err)
	}

	if err = s.updateAnalytics(ctx, job, interactions, result); err != nil {
		slog.Error("failed to update analytics", "conversation_id", conversationID, "error", err)
	}
}

const recentResponseWindow = 10

func (s *Service) updateAnalytics(ctx context.Context, job Job, interactions []model.InteractionRecord, result *model.LearningResult) error {
	userID := job.Record.UserID

	snap, err := s.store.FetchAnalytics(ctx, userID)
	if err != nil {
		return err
	}
	if snap == nil {
		snap = &model.AnalyticsSnapshot{}
	}

	snap.InteractionCount = len(interactions)
	snap.EngagementLevel = result.Metrics.Engagement
	snap.SuccessRate = result.Metrics.CompletionRate
	snap.AverageResponseLength = averageLength(interactions)
	snap.TrendingTopics = trendingTopics(interactions)

	turns, err := s.store.Turns(ctx, job.Record.ConversationID)
	if err != nil {
		return err
	}
	snap.RecentBotResponses = recentBotResponses(turns)

	return s.store.SaveAnalytics(ctx, userID, snap)
}

func recentBotResponses(turns []model.PersistedTurn) []string {
	responses := []string{}
	for _, rec := range turns {
		if rec.BotResponse != "" {
			responses = append(responses, rec.BotResponse)
		}
	}

	if len(responses) > recentResponseWindow {
		responses = responses[len(responses)-recentResponseWindow:]
	}

	return responses
}

func averageLength(interactions []model.InteractionRecord) int {
	if len(interactions) == 0 {
		return 0
	}
	sum := 0
	for _, rec := range interactions {
		sum += rec.ResponseLength
	}
	return sum / len(interactions)
}

const trendingWindow = 20

func trendingTopics(interactions []model.InteractionRecord) []string {
	if len(interactions) > trendingWindow {
		interactions = interactions[len(interactions)-trendingWindow:]
	}

	counts := make(map[string]int)
	order := []string{}
	for _, rec := range interactions {
		for _, topic := range rec.Topics {
			if counts[topic] == 0 {
				order = append(order, topic)
			}
			counts[topic]++
		}
	}

	trending := []string{}
	for _, topic := range order {
		if counts[topic] >= 2 {
			trending = append(trending, topic)
		}
	}

	return trending
}

// Shutdown closes the queue; running workers drain what remains. Safe to
// call more than once.
func (s *Service) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.jobs)
	}

	return nil
}

package convstore

import (
	"context"
	"fieldbot/app/model"
	"slices"
	"sync"
)

// memoryStore keeps all conversation state in process. Used for local runs
// and tests; production deployments configure redis.
type memoryStore struct {
	mu           sync.RWMutex
	turns        map[string][]model.PersistedTurn
	profiles     map[string]*model.UserProfile
	analytics    map[string]*model.AnalyticsSnapshot
	interactions map[string][]model.InteractionRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		turns:        make(map[string][]model.PersistedTurn),
		profiles:     make(map[string]*model.UserProfile),
		analytics:    make(map[string]*model.AnalyticsSnapshot),
		interactions: make(map[string][]model.InteractionRecord),
	}
}

func (s *memoryStore) FetchHistory(_ context.Context, conversationID string) ([]model.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.turns[conversationID]
	out := make([]model.ConversationTurn, 0, len(turns))
	for _, rec := range turns {
		out = append(out, rec.UserTurn())
	}

	return out, nil
}

func (s *memoryStore) Turns(_ context.Context, conversationID string) ([]model.PersistedTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.turns[conversationID]), nil
}

func (s *memoryStore) Profile(_ context.Context, userID string) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, exists := s.profiles[userID]
	if !exists {
		return nil, nil
	}

	out := *profile
	return &out, nil
}

func (s *memoryStore) SaveProfile(_ context.Context, profile *model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := *profile
	s.profiles[profile.UserID] = &out
	return nil
}

func (s *memoryStore) FetchAnalytics(_ context.Context, userID string) (*model.AnalyticsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, exists := s.analytics[userID]
	if !exists {
		return nil, nil
	}

	out := *snap
	return &out, nil
}

func (s *memoryStore) SaveAnalytics(_ context.Context, userID string, snap *model.AnalyticsSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := *snap
	s.analytics[userID] = &out
	return nil
}

func (s *memoryStore) PersistTurn(_ context.Context, rec model.PersistedTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.turns[rec.ConversationID], rec)
	if len(turns) > historyLimit {
		turns = turns[len(turns)-historyLimit:]
	}

	s.turns[rec.ConversationID] = turns
	return nil
}

func (s *memoryStore) AppendInteraction(_ context.Context, rec model.InteractionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := append(s.interactions[rec.ConversationID], rec)
	if len(records) > interactionLimit {
		records = records[len(records)-interactionLimit:]
	}

	s.interactions[rec.ConversationID] = records
	return nil
}

func (s *memoryStore) Interactions(_ context.Context, conversationID string, limit int) ([]model.InteractionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.interactions[conversationID]
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	return slices.Clone(records), nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = nil
	s.profiles = nil
	s.analytics = nil
	s.interactions = nil
	return nil
}

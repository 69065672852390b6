package modelstore

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"fieldbot/app/model"

	"github.com/samber/do"
	"github.com/samber/oops"
)

const defaultPath = "model_updates.jsonl"

// Service is the default ModelUpdatePort: an append-only JSONL journal of
// every update the learning engine emits. A future trainer consumes it.
type Service struct {
	mu   sync.Mutex
	path string
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{path: defaultPath}, nil
}

func NewWithPath(path string) *Service {
	return &Service{path: path}
}

type updateEntry struct {
	Kind           string    `json:"kind"`
	ConversationID string    `json:"conversation_id,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
	Pattern        string    `json:"pattern,omitempty"`
	Payload        any       `json:"payload"`
	Timestamp      time.Time `json:"timestamp"`
}

func (s *Service) ApplyImprovement(_ context.Context, conversationID string, improvement model.Improvement) error {
	return s.append(updateEntry{
		Kind:           "improvement",
		ConversationID: conversationID,
		Payload:        improvement,
	})
}

func (s *Service) ApplyResponseOptimization(_ context.Context, conversationID string, optimization model.ResponseOptimization) error {
	return s.append(updateEntry{
		Kind:           "response_optimization",
		ConversationID: conversationID,
		Payload:        optimization,
	})
}

func (s *Service) ApplyConfidenceAdjustment(_ context.Context, pattern string, adjustment model.ConfidenceAdjustment) error {
	return s.append(updateEntry{
		Kind:    "confidence_adjustment",
		Pattern: pattern,
		Payload: adjustment,
	})
}

func (s *Service) ApplyUserPreference(_ context.Context, userID string, preference model.UserPreferenceModel) error {
	return s.append(updateEntry{
		Kind:    "user_preference",
		UserID:  userID,
		Payload: preference,
	})
}

func (s *Service) append(entry updateEntry) error {
	entry.Timestamp = time.Now()

	data, err := json.Marshal(entry)
	if err != nil {
		return oops.Errorf("failed to marshal update: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return oops.Errorf("failed to open update journal: %w", err)
	}
	defer file.Close()

	if _, err = file.Write(append(data, '\n')); err != nil {
		return oops.Errorf("failed to write update: %w", err)
	}

	return nil
}

func (s *Service) Close() error {
	return nil
}

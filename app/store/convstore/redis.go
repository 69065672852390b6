package convstore

import (
	"context"
	"encoding/json"
	"fieldbot/app/model"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// redisStore persists conversation state in redis with a per-key TTL.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func historyKey(conversationID string) string {
	return "history:" + conversationID
}

func profileKey(userID string) string {
	return "profile:" + userID
}

func analyticsKey(userID string) string {
	return "analytics:" + userID
}

func interactionsKey(conversationID string) string {
	return "interactions:" + conversationID
}

func (s *redisStore) FetchHistory(ctx context.Context, conversationID string) ([]model.ConversationTurn, error) {
	records, err := s.Turns(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	turns := make([]model.ConversationTurn, 0, len(records))
	for _, rec := range records {
		turns = append(turns, rec.UserTurn())
	}

	return turns, nil
}

func (s *redisStore) Turns(ctx context.Context, conversationID string) ([]model.PersistedTurn, error) {
	values, err := s.client.LRange(ctx, historyKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, oops.Errorf("failed to read history: %w", err)
	}

	records := make([]model.PersistedTurn, 0, len(values))
	for _, value := range values {
		var rec model.PersistedTurn
		if err := json.Unmarshal([]byte(value), &rec); err != nil {
			return nil, oops.Errorf("failed to parse history entry: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func (s *redisStore) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	value, err := s.client.Get(ctx, profileKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Errorf("failed to read profile: %w", err)
	}

	var profile model.UserProfile
	if err := json.Unmarshal([]byte(value), &profile); err != nil {
		return nil, oops.Errorf("failed to parse profile: %w", err)
	}

	return &profile, nil
}

func (s *redisStore) SaveProfile(ctx context.Context, profile *model.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return oops.Errorf("failed to marshal profile: %w", err)
	}

	return s.client.Set(ctx, profileKey(profile.UserID), data, s.ttl).Err()
}

func (s *redisStore) FetchAnalytics(ctx context.Context, userID string) (*model.AnalyticsSnapshot, error) {
	value, err := s.client.Get(ctx, analyticsKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Errorf("failed to read analytics: %w", err)
	}

	var snap model.AnalyticsSnapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		return nil, oops.Errorf("failed to parse analytics: %w", err)
	}

	return &snap, nil
}

func (s *redisStore) SaveAnalytics(ctx context.Context, userID string, snap *model.AnalyticsSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return oops.Errorf("failed to marshal analytics: %w", err)
	}

	return s.client.Set(ctx, analyticsKey(userID), data, s.ttl).Err()
}

func (s *redisStore) PersistTurn(ctx context.Context, rec model.PersistedTurn) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return oops.Errorf("failed to marshal turn: %w", err)
	}

	key := historyKey(rec.ConversationID)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, int64(-historyLimit), -1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return oops.Errorf("failed to persist turn: %w", err)
	}

	return nil
}

func (s *redisStore) AppendInteraction(ctx context.Context, rec model.InteractionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return oops.Errorf("failed to marshal interaction: %w", err)
	}

	key := interactionsKey(rec.ConversationID)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, int64(-interactionLimit), -1)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return oops.Errorf("failed to append interaction: %w", err)
	}

	return nil
}

func (s *redisStore) Interactions(ctx context.Context, conversationID string, limit int) ([]model.InteractionRecord, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	values, err := s.client.LRange(ctx, interactionsKey(conversationID), start, -1).Result()
	if err != nil {
		return nil, oops.Errorf("failed to read interactions: %w", err)
	}

	records := make([]model.InteractionRecord, 0, len(values))
	for _, value := range values {
		var rec model.InteractionRecord
		if err := json.Unmarshal([]byte(value), &rec); err != nil {
			return nil, oops.Errorf("failed to parse interaction: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

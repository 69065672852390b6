package convstore

import (
	"context"
	"errors"
	"fieldbot/app/config"
	"fieldbot/app/model"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// Common errors for conversation store operations.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
	ErrNotFound         = errors.New("not found")
)

const (
	historyLimit     = 100
	interactionLimit = 200
)

// Store is the persistence surface the turn pipeline depends on: conversation
// history, user profiles, analytics snapshots and the append-only interaction
// log. Implementations must be safe for concurrent use.
type Store interface {
	// FetchHistory returns the user-message view of the conversation.
	FetchHistory(ctx context.Context, conversationID string) ([]model.ConversationTurn, error)

	// Turns returns the full saved records including bot responses.
	Turns(ctx context.Context, conversationID string) ([]model.PersistedTurn, error)

	Profile(ctx context.Context, userID string) (*model.UserProfile, error)
	SaveProfile(ctx context.Context, profile *model.UserProfile) error
	FetchAnalytics(ctx context.Context, userID string) (*model.AnalyticsSnapshot, error)
	SaveAnalytics(ctx context.Context, userID string, snap *model.AnalyticsSnapshot) error

	// PersistTurn saves the user message into history together with the bot
	// response, timing and confidence.
	PersistTurn(ctx context.Context, rec model.PersistedTurn) error

	AppendInteraction(ctx context.Context, rec model.InteractionRecord) error
	Interactions(ctx context.Context, conversationID string, limit int) ([]model.InteractionRecord, error)

	Close() error
}

type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// StoreOption is a functional option for configuring a store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *redis.Client
	redisTTL    time.Duration
}

func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// NewStore creates a Store of the given type. Redis requires WithRedisClient.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch storeType {
	case StoreTypeMemory:
		return newMemoryStore(), nil

	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := cfg.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisStore{
			client: cfg.redisClient,
			ttl:    ttl,
		}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}

// New wires a Store from the application config: redis when an address is
// configured, in-process memory otherwise.
func New(di *do.Injector) (Store, error) {
	cfg := do.MustInvoke[*config.Config](di)

	if cfg.Redis.Addr == "" {
		return NewStore(StoreTypeMemory)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Pass,
		DB:       cfg.Redis.DB,
	})

	return NewStore(StoreTypeRedis,
		WithRedisClient(client),
		WithRedisTTL(time.Duration(cfg.Redis.TTLHours)*time.Hour),
	)
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/config"
)

const (
	defaultKeyPrefix = "zohosync:"
	credentialKey    = "credential"
	defaultTTL       = 10 * time.Minute
)

// RedisCredentialStore caches the credential in Redis in front of a primary
// store. Reads go through the cache, writes go to the primary and evict the
// cached copy. While Redis is failing the circuit opens and every call is
// served by the primary alone.
type RedisCredentialStore struct {
	primary integration.CredentialStore
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	key     string
	ttl     time.Duration
	logger  *zap.Logger
}

var _ integration.CredentialStore = (*RedisCredentialStore)(nil)

// RedisCredentialStoreOption is a functional option for configuring the store
type RedisCredentialStoreOption func(*RedisCredentialStore)

// WithTTL sets how long a cached credential lives
func WithTTL(ttl time.Duration) RedisCredentialStoreOption {
	return func(s *RedisCredentialStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger for the store
func WithLogger(logger *zap.Logger) RedisCredentialStoreOption {
	return func(s *RedisCredentialStore) {
		s.logger = logger
	}
}

// WithBreakerSettings replaces the circuit breaker settings
func WithBreakerSettings(st gobreaker.Settings) RedisCredentialStoreOption {
	return func(s *RedisCredentialStore) {
		s.breaker = gobreaker.NewCircuitBreaker(st)
	}
}

// NewRedisClient creates a client from configuration
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// NewRedisCredentialStore wraps primary with a Redis cache
func NewRedisCredentialStore(primary integration.CredentialStore, client *redis.Client, keyPrefix string, opts ...RedisCredentialStoreOption) *RedisCredentialStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	s := &RedisCredentialStore{
		primary: primary,
		client:  client,
		key:     keyPrefix + credentialKey,
		ttl:     defaultTTL,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.breaker == nil {
		s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "redis-credential-cache",
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 3 },
			OnStateChange: func(name string, from, to gobreaker.State) {
				s.logger.Warn("Redis circuit breaker changed state",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}
	return s
}

// Load returns the cached credential, falling back to the primary store
func (s *RedisCredentialStore) Load(ctx context.Context) (*integration.Credential, error) {
	if cred, ok := s.readCache(ctx); ok {
		return cred, nil
	}

	cred, err := s.primary.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, cred)
	return cred, nil
}

// Save writes to the primary store and evicts the cached copy
func (s *RedisCredentialStore) Save(ctx context.Context, cred *integration.Credential) error {
	if err := s.primary.Save(ctx, cred); err != nil {
		return err
	}
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.client.Del(ctx, s.key).Err()
	})
	if err != nil {
		s.logger.Warn("Failed to evict cached credential", zap.Error(err))
	}
	return nil
}

// State exposes the breaker state for health reporting
func (s *RedisCredentialStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *RedisCredentialStore) readCache(ctx context.Context) (*integration.Credential, bool) {
	raw, err := s.breaker.Execute(func() (any, error) {
		data, err := s.client.Get(ctx, s.key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		if !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests) {
			s.logger.Warn("Redis credential read failed", zap.Error(err))
		}
		return nil, false
	}
	data, _ := raw.([]byte)
	if len(data) == 0 {
		return nil, false
	}

	var cred integration.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		s.logger.Warn("Discarding undecodable cached credential", zap.Error(err))
		return nil, false
	}
	return &cred, true
}

func (s *RedisCredentialStore) writeCache(ctx context.Context, cred *integration.Credential) {
	data, err := json.Marshal(cred)
	if err != nil {
		return
	}
	_, err = s.breaker.Execute(func() (any, error) {
		return nil, s.client.Set(ctx, s.key, data, s.ttl).Err()
	})
	if err != nil && !errors.Is(err, gobreaker.ErrOpenState) {
		s.logger.Debug("Redis credential write skipped", zap.Error(err))
	}
}

// Ping checks the Redis connection
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

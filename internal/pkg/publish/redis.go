// Package publish pushes live canonical matches into Redis so consumers can
// read current odds without waiting for the next file snapshot.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akulov/oddsgrid/internal/pkg/models"
)

// Publisher fans out canonical matches as they are updated.
type Publisher interface {
	PublishMatch(ctx context.Context, m *models.CanonicalMatch) error
	Close() error
}

type RedisPublisher struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(addr, password string, db int, ttl time.Duration) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisPublisher{client: client, ttl: ttl}, nil
}

// PublishMatch stores the match under odds:<source>:<match_id>. The TTL lets
// stale entries fall out on their own when a source stops reporting them.
func (p *RedisPublisher) PublishMatch(ctx context.Context, m *models.CanonicalMatch) error {
	key := fmt.Sprintf("odds:%s:%s", m.Source.SourceName, m.MatchID)

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	return p.client.Set(ctx, key, data, p.ttl).Err()
}

// MatchesBySource lists the match IDs currently published for a source.
func (p *RedisPublisher) MatchesBySource(ctx context.Context, source string) ([]string, error) {
	pattern := fmt.Sprintf("odds:%s:*", source)
	keys, err := p.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get keys: %w", err)
	}

	prefix := fmt.Sprintf("odds:%s:", source)
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, key[len(prefix):])
	}
	return ids, nil
}

// GetMatch reads one published match back. Consumers use this; the collector
// itself only writes.
func (p *RedisPublisher) GetMatch(ctx context.Context, source, matchID string) (*models.CanonicalMatch, error) {
	key := fmt.Sprintf("odds:%s:%s", source, matchID)
	data, err := p.client.Get(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	var m models.CanonicalMatch
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &m, nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

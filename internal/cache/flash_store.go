package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

const defaultFlashTTL = 5 * time.Minute

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type FlashStore interface {
	Add(ctx context.Context, sessionID string, flash Flash) error
	Pop(ctx context.Context, sessionID string) ([]Flash, error)
}

type RedisFlashStore struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewRedisFlashStore(client *redisv9.Client, ttl time.Duration) *RedisFlashStore {
	if ttl <= 0 {
		ttl = defaultFlashTTL
	}
	return &RedisFlashStore{client: client, ttl: ttl}
}

func (s *RedisFlashStore) Add(ctx context.Context, sessionID string, flash Flash) error {
	payload, err := json.Marshal(flash)
	if err != nil {
		return fmt.Errorf("marshal flash failed: %w", err)
	}
	key := flashKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis push flash failed: %w", err)
	}
	return nil
}

// Pop returns the queued notices in insertion order and clears them.
func (s *RedisFlashStore) Pop(ctx context.Context, sessionID string) ([]Flash, error) {
	key := flashKey(sessionID)
	pipe := s.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis pop flashes failed: %w", err)
	}

	raw := rangeCmd.Val()
	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		var flash Flash
		if err := json.Unmarshal([]byte(item), &flash); err != nil {
			return nil, fmt.Errorf("unmarshal flash failed: %w", err)
		}
		flashes = append(flashes, flash)
	}
	return flashes, nil
}

func flashKey(sessionID string) string {
	return fmt.Sprintf("warbler:flash:%s", sessionID)
}

// MemoryFlashStore keeps notices in process memory when redis is not configured.
type MemoryFlashStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryFlashes
}

type memoryFlashes struct {
	flashes   []Flash
	expiresAt time.Time
}

func NewMemoryFlashStore(ttl time.Duration) *MemoryFlashStore {
	if ttl <= 0 {
		ttl = defaultFlashTTL
	}
	return &MemoryFlashStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryFlashes),
	}
}

func (s *MemoryFlashStore) Add(_ context.Context, sessionID string, flash Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpired(now)
	entry := s.entries[sessionID]
	entry.flashes = append(entry.flashes, flash)
	entry.expiresAt = now.Add(s.ttl)
	s.entries[sessionID] = entry
	return nil
}

func (s *MemoryFlashStore) Pop(_ context.Context, sessionID string) ([]Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	delete(s.entries, sessionID)
	if !ok || s.now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.flashes, nil
}

func (s *MemoryFlashStore) evictExpired(now time.Time) {
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}

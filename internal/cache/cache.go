// Package cache is the redis layer: rendered song texts, per-user view
// counts and the shared session list live here so every instance of the bot
// sees the same state.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/chordbook/internal/config"
)

// Manager wraps the redis client with chordbook-shaped accessors.
type Manager struct {
	client *redisClient.Client
}

// NewManager connects using REDIS_URL and REDIS_PASSWORD.
func NewManager() (*Manager, error) {
	env, err := config.Load("REDIS_URL", "REDIS_PASSWORD")
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	opt, err := redisClient.ParseURL(fmt.Sprintf("rediss://default:%s@%s", env["REDIS_PASSWORD"], env["REDIS_URL"]))
	if err != nil {
		return nil, fmt.Errorf("cache: bad redis url: %w", err)
	}
	return &Manager{client: redisClient.NewClient(opt)}, nil
}

// renderTTL bounds how long a transposed rendering may outlive an edit to
// the underlying song.
const renderTTL = 24 * time.Hour

func renderKey(songID string, semitones int) string {
	return fmt.Sprintf("render:%s:%d", songID, semitones)
}

// SetRender stores the serialized text of a song at a transposition.
func (m *Manager) SetRender(ctx context.Context, songID string, semitones int, text string) error {
	return m.client.Set(ctx, renderKey(songID, semitones), text, renderTTL).Err()
}

// GetRender fetches a cached rendering. A miss is (_, false, nil).
func (m *Manager) GetRender(ctx context.Context, songID string, semitones int) (string, bool, error) {
	text, err := m.client.Get(ctx, renderKey(songID, semitones)).Result()
	if err != nil {
		if err == redisClient.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return text, true, nil
}

// InvalidateRenders drops every cached rendering of a song, all
// transpositions included. Called after a save.
func (m *Manager) InvalidateRenders(ctx context.Context, songID string) error {
	iter := m.client.Scan(ctx, 0, fmt.Sprintf("render:%s:*", songID), 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// IncrementViewCount bumps how many times a user opened a song.
func (m *Manager) IncrementViewCount(ctx context.Context, username, songID string) error {
	if err := m.client.HIncrBy(ctx, "views:"+username, songID, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment view count for %s/%s: %w", username, songID, err)
	}
	return nil
}

// GetViewCounts returns a user's per-song view counts.
func (m *Manager) GetViewCounts(ctx context.Context, username string) (map[string]int, error) {
	result := make(map[string]int)
	raw, err := m.client.HGetAll(ctx, "views:"+username).Result()
	if err != nil {
		if err == redisClient.Nil {
			return result, nil
		}
		return nil, err
	}
	for songID, count := range raw {
		n, err := strconv.Atoi(count)
		if err != nil {
			continue // skip invalid counts
		}
		result[songID] = n
	}
	return result, nil
}

// SetRaw and GetRaw back the session store; see internal/sessions.
func (m *Manager) SetRaw(ctx context.Context, key string, value []byte) error {
	return m.client.Set(ctx, key, value, 0).Err()
}

func (m *Manager) GetRaw(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := m.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redisClient.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Package cache holds the redis-backed read snapshots for event detail
// and feed responses. The cache is a liveness optimization: every miss or
// redis failure falls through to the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"rsvp-service/internal/models"
	"rsvp-service/internal/observability"
)

// NewClient connects to redis and verifies the connection.
func NewClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Snapshot caches per-event read responses. A nil client disables caching.
type Snapshot struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshot constructs a Snapshot cache.
func NewSnapshot(client *redis.Client, ttl time.Duration) *Snapshot {
	return &Snapshot{client: client, ttl: ttl}
}

func detailKey(eventID int) string {
	return fmt.Sprintf("event:%d:detail", eventID)
}

func feedKey(eventID int) string {
	return fmt.Sprintf("event:%d:feed", eventID)
}

// GetDetail returns the cached event detail, if any.
func (s *Snapshot) GetDetail(ctx context.Context, eventID int) (models.EventDetail, bool) {
	var detail models.EventDetail
	if !s.get(ctx, detailKey(eventID), &detail) {
		return models.EventDetail{}, false
	}
	return detail, true
}

// SetDetail stores the event detail snapshot.
func (s *Snapshot) SetDetail(ctx context.Context, eventID int, detail models.EventDetail) {
	s.set(ctx, detailKey(eventID), detail)
}

// GetFeed returns the cached activity forest, if any.
func (s *Snapshot) GetFeed(ctx context.Context, eventID int) ([]models.ActivityNode, bool) {
	var forest []models.ActivityNode
	if !s.get(ctx, feedKey(eventID), &forest) {
		return nil, false
	}
	return forest, true
}

// SetFeed stores the activity forest snapshot.
func (s *Snapshot) SetFeed(ctx context.Context, eventID int, forest []models.ActivityNode) {
	s.set(ctx, feedKey(eventID), forest)
}

// Invalidate drops both snapshots for the event. Called after every
// mutation, before the websocket broadcast.
func (s *Snapshot) Invalidate(ctx context.Context, eventID int) {
	if s == nil || s.client == nil {
		return
	}
	if err := s.client.Del(ctx, detailKey(eventID), feedKey(eventID)).Err(); err != nil {
		logrus.WithError(err).Warn("cache invalidate failed")
	}
}

func (s *Snapshot) get(ctx context.Context, key string, dest any) bool {
	if s == nil || s.client == nil {
		return false
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Warn("cache get failed")
		}
		observability.IncCacheMiss()
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logrus.WithError(err).Warn("cache entry corrupt")
		observability.IncCacheMiss()
		return false
	}
	observability.IncCacheHit()
	return true
}

func (s *Snapshot) set(ctx context.Context, key string, value any) {
	if s == nil || s.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("cache set failed")
	}
}

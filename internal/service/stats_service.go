package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/internal/repository"
	"github.com/coderr-app/coderr-backend/pkg/logger"
)

const statsCacheKey = "coderr:baseinfo:v1"

type StatsService interface {
	BaseInfo(ctx context.Context) (*domain.BaseInfo, error)
}

type statsService struct {
	stats repository.StatsRepository
	cache *redis.Client // nil disables caching
	ttl   time.Duration
}

func NewStatsService(stats repository.StatsRepository, cache *redis.Client, ttl time.Duration) StatsService {
	return &statsService{stats: stats, cache: cache, ttl: ttl}
}

// BaseInfo serves the aggregate counters, cached for a short TTL. Cache
// failures fall through to the database.
func (s *statsService) BaseInfo(ctx context.Context) (*domain.BaseInfo, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var info domain.BaseInfo
			if err := json.Unmarshal(raw, &info); err == nil {
				return &info, nil
			}
		}
	}

	info, err := s.stats.BaseInfo(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(info); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, s.ttl).Err(); err != nil {
				logger.WarnContext(ctx, "Failed to cache base info", "error", err)
			}
		}
	}

	return info, nil
}

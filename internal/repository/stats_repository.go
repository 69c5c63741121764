package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coderr-app/coderr-backend/internal/domain"
)

type StatsRepository interface {
	BaseInfo(ctx context.Context) (*domain.BaseInfo, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) BaseInfo(ctx context.Context) (*domain.BaseInfo, error) {
	const q = `
SELECT
    (SELECT COUNT(*) FROM reviews),
    (SELECT COALESCE(AVG(rating), 0) FROM reviews),
    (SELECT COUNT(*) FROM profiles WHERE type = 'business'),
    (SELECT COUNT(*) FROM offers)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var info domain.BaseInfo
	if err := r.pool.QueryRow(ctx, q).Scan(
		&info.ReviewCount, &info.AverageRating, &info.BusinessProfileCount, &info.OfferCount,
	); err != nil {
		return nil, err
	}
	return &info, nil
}

var _ StatsRepository = (*statsRepository)(nil)

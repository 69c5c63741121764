package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coderr-app/coderr-backend/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, reviewerID, businessUserID int64, rating int, description string) (*domain.Review, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	List(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error)
	Update(ctx context.Context, id int64, patch domain.ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

const reviewCols = `id, business_user_id, reviewer_id, rating, description, created_at, updated_at`

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	err := row.Scan(
		&rv.ID, &rv.BusinessUserID, &rv.ReviewerID, &rv.Rating,
		&rv.Description, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepository) Create(ctx context.Context, reviewerID, businessUserID int64, rating int, description string) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (business_user_id, reviewer_id, rating, description)
VALUES ($1,$2,$3,$4)
RETURNING ` + reviewCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanReview(r.pool.QueryRow(ctx, q, businessUserID, reviewerID, rating, description))
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	const q = `SELECT ` + reviewCols + ` FROM reviews WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanReview(r.pool.QueryRow(ctx, q, id))
}

func (r *reviewRepository) List(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		where []string
		args  []any
	)
	if f.BusinessUserID != nil {
		args = append(args, *f.BusinessUserID)
		where = append(where, fmt.Sprintf("business_user_id = $%d", len(args)))
	}
	if f.ReviewerID != nil {
		args = append(args, *f.ReviewerID)
		where = append(where, fmt.Sprintf("reviewer_id = $%d", len(args)))
	}

	dir := "DESC"
	if !f.Descending {
		dir = "ASC"
	}
	orderBy := "updated_at " + dir
	if f.Ordering == domain.ReviewOrderByRating {
		orderBy = "rating " + dir
	}

	q := `SELECT ` + reviewCols + ` FROM reviews`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + orderBy

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}

func (r *reviewRepository) Update(ctx context.Context, id int64, patch domain.ReviewPatch) (*domain.Review, error) {
	const q = `
UPDATE reviews SET
    rating      = COALESCE($2, rating),
    description = COALESCE($3, description),
    updated_at  = now()
WHERE id = $1
RETURNING ` + reviewCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanReview(r.pool.QueryRow(ctx, q, id, patch.Rating, patch.Description))
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM reviews WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

var _ ReviewRepository = (*reviewRepository)(nil)

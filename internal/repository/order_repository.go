package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coderr-app/coderr-backend/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, customerUserID, offerDetailID int64) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id int64) (bool, error)
	CountByBusinessAndStatus(ctx context.Context, businessUserID int64, status domain.OrderStatus) (int64, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderCols = `ord.id, ord.offer_detail_id, ord.customer_user_id, ord.business_user_id,
ord.status, ord.created_at, ord.updated_at,
d.title, d.revisions, d.delivery_time_in_days, d.price, d.features, d.offer_type`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var features []byte
	err := row.Scan(
		&o.ID, &o.OfferDetailID, &o.CustomerUserID, &o.BusinessUserID,
		&o.Status, &o.CreatedAt, &o.UpdatedAt,
		&o.Title, &o.Revisions, &o.DeliveryTimeInDays, &o.Price, &features, &o.OfferType,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(features, &o.Features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	if o.Features == nil {
		o.Features = []string{}
	}
	return &o, nil
}

// Create resolves the business party from the referenced detail's offer owner
// in the same statement, so the order is either fully linked or not created.
// Returns (nil, nil) when the offer detail does not exist.
func (r *orderRepository) Create(ctx context.Context, customerUserID, offerDetailID int64) (*domain.Order, error) {
	const q = `
WITH created AS (
    INSERT INTO orders (offer_detail_id, customer_user_id, business_user_id)
    SELECT d.id, $2, o.user_id
    FROM offer_details d
    JOIN offers o ON o.id = d.offer_id
    WHERE d.id = $1
    RETURNING id, offer_detail_id, customer_user_id, business_user_id, status, created_at, updated_at
)
SELECT ord.id, ord.offer_detail_id, ord.customer_user_id, ord.business_user_id,
       ord.status, ord.created_at, ord.updated_at,
       d.title, d.revisions, d.delivery_time_in_days, d.price, d.features, d.offer_type
FROM created ord
JOIN offer_details d ON d.id = ord.offer_detail_id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanOrder(r.pool.QueryRow(ctx, q, offerDetailID, customerUserID))
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `SELECT ` + orderCols + `
FROM orders ord
JOIN offer_details d ON d.id = ord.offer_detail_id
WHERE ord.id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanOrder(r.pool.QueryRow(ctx, q, id))
}

// ListForUser returns orders where the user is either party.
func (r *orderRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	const q = `SELECT ` + orderCols + `
FROM orders ord
JOIN offer_details d ON d.id = ord.offer_detail_id
WHERE ord.customer_user_id = $1 OR ord.business_user_id = $1
ORDER BY ord.created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	const q = `
WITH updated AS (
    UPDATE orders SET status=$2, updated_at=now() WHERE id=$1
    RETURNING id, offer_detail_id, customer_user_id, business_user_id, status, created_at, updated_at
)
SELECT ord.id, ord.offer_detail_id, ord.customer_user_id, ord.business_user_id,
       ord.status, ord.created_at, ord.updated_at,
       d.title, d.revisions, d.delivery_time_in_days, d.price, d.features, d.offer_type
FROM updated ord
JOIN offer_details d ON d.id = ord.offer_detail_id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanOrder(r.pool.QueryRow(ctx, q, id, status))
}

func (r *orderRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM orders WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *orderRepository) CountByBusinessAndStatus(ctx context.Context, businessUserID int64, status domain.OrderStatus) (int64, error) {
	const q = `SELECT COUNT(*) FROM orders WHERE business_user_id=$1 AND status=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	err := r.pool.QueryRow(ctx, q, businessUserID, status).Scan(&n)
	return n, err
}

var _ OrderRepository = (*orderRepository)(nil)

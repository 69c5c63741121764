package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coderr-app/coderr-backend/internal/domain"
)

type OfferRepository interface {
	Create(ctx context.Context, userID int64, req *domain.OfferCreateRequest) (*domain.Offer, error)
	GetByID(ctx context.Context, id int64) (*domain.Offer, error)
	GetDetailByID(ctx context.Context, id int64) (*domain.OfferDetail, error)
	List(ctx context.Context, f domain.OfferFilter) ([]domain.Offer, int64, error)
	Update(ctx context.Context, id int64, patch domain.OfferPatch) (*domain.Offer, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type offerRepository struct {
	pool *pgxpool.Pool
}

func NewOfferRepository(pool *pgxpool.Pool) OfferRepository {
	return &offerRepository{pool: pool}
}

const detailCols = `id, offer_id, title, revisions, delivery_time_in_days, price, features, offer_type`

func scanDetail(row pgx.Row) (*domain.OfferDetail, error) {
	var d domain.OfferDetail
	var features []byte
	err := row.Scan(
		&d.ID, &d.OfferID, &d.Title, &d.Revisions, &d.DeliveryTimeInDays,
		&d.Price, &features, &d.OfferType,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(features, &d.Features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	if d.Features == nil {
		d.Features = []string{}
	}
	return &d, nil
}

// Create inserts the offer and its three pricing tiers in one transaction so
// a partially created offer is never observable.
func (r *offerRepository) Create(ctx context.Context, userID int64, req *domain.OfferCreateRequest) (*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOffer = `
INSERT INTO offers (user_id, title, image, description)
VALUES ($1,$2,$3,$4)
RETURNING id, user_id, title, image, description, created_at, updated_at`
	var o domain.Offer
	if err := tx.QueryRow(ctx, insertOffer, userID, req.Title, req.Image, req.Description).Scan(
		&o.ID, &o.UserID, &o.Title, &o.Image, &o.Description, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	const insertDetail = `
INSERT INTO offer_details (offer_id, title, revisions, delivery_time_in_days, price, features, offer_type)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING ` + detailCols
	o.Details = make([]domain.OfferDetail, 0, len(req.Details))
	for _, in := range req.Details {
		features := in.Features
		if features == nil {
			features = []string{}
		}
		payload, err := json.Marshal(features)
		if err != nil {
			return nil, err
		}
		d, err := scanDetail(tx.QueryRow(ctx, insertDetail,
			o.ID, in.Title, in.Revisions, in.DeliveryTimeInDays, in.Price, payload, in.OfferType,
		))
		if err != nil {
			return nil, err
		}
		o.Details = append(o.Details, *d)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	o.MinPrice, o.MinDeliveryTime = minsOf(o.Details)
	return &o, nil
}

func minsOf(details []domain.OfferDetail) (minPrice, minDelivery int) {
	for i, d := range details {
		if i == 0 || d.Price < minPrice {
			minPrice = d.Price
		}
		if i == 0 || d.DeliveryTimeInDays < minDelivery {
			minDelivery = d.DeliveryTimeInDays
		}
	}
	return minPrice, minDelivery
}

const offerCols = `o.id, o.user_id, o.title, o.image, o.description, o.created_at, o.updated_at,
MIN(d.price) AS min_price, MIN(d.delivery_time_in_days) AS min_delivery_time,
p.first_name, p.last_name, u.username`

const offerJoins = `
FROM offers o
JOIN offer_details d ON d.offer_id = o.id
JOIN users u ON u.id = o.user_id
JOIN profiles p ON p.user_id = o.user_id`

const offerGroupBy = `GROUP BY o.id, p.first_name, p.last_name, u.username`

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	var o domain.Offer
	err := row.Scan(
		&o.ID, &o.UserID, &o.Title, &o.Image, &o.Description, &o.CreatedAt, &o.UpdatedAt,
		&o.MinPrice, &o.MinDeliveryTime,
		&o.OwnerFirstName, &o.OwnerLastName, &o.OwnerUsername,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *offerRepository) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	const q = `SELECT ` + offerCols + offerJoins + `
WHERE o.id = $1
` + offerGroupBy
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	o, err := scanOffer(r.pool.QueryRow(ctx, q, id))
	if err != nil || o == nil {
		return nil, err
	}
	if err := r.loadDetails(ctx, []*domain.Offer{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *offerRepository) GetDetailByID(ctx context.Context, id int64) (*domain.OfferDetail, error) {
	const q = `SELECT ` + detailCols + ` FROM offer_details WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	d, err := scanDetail(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return d, err
}

// List applies creator/min-price/max-delivery filters, free text search over
// title and description, ordering and pagination. min_price and
// min_delivery_time are aggregates, so the threshold filters live in HAVING.
func (r *offerRepository) List(ctx context.Context, f domain.OfferFilter) ([]domain.Offer, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var (
		where  []string
		having []string
		args   []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.CreatorID != nil {
		where = append(where, "o.user_id = "+arg(*f.CreatorID))
	}
	if f.Search != "" {
		ph := arg("%" + f.Search + "%")
		where = append(where, fmt.Sprintf("(o.title ILIKE %s OR o.description ILIKE %s)", ph, ph))
	}
	if f.MinPrice != nil {
		having = append(having, "MIN(d.price) >= "+arg(*f.MinPrice))
	}
	if f.MaxDeliveryTime != nil {
		having = append(having, "MIN(d.delivery_time_in_days) <= "+arg(*f.MaxDeliveryTime))
	}

	var sb strings.Builder
	sb.WriteString(offerJoins)
	if len(where) > 0 {
		sb.WriteString("\nWHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString("\n" + offerGroupBy)
	if len(having) > 0 {
		sb.WriteString("\nHAVING " + strings.Join(having, " AND "))
	}
	filtered := sb.String()

	countQuery := "SELECT COUNT(*) FROM (SELECT o.id " + filtered + ") sub"
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dir := "DESC"
	if !f.Descending {
		dir = "ASC"
	}
	orderBy := "o.updated_at " + dir
	if f.Ordering == domain.OrderByMinPrice {
		orderBy = "min_price " + dir
	}

	query := "SELECT " + offerCols + " " + filtered +
		"\nORDER BY " + orderBy +
		"\nLIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	offers := make([]domain.Offer, 0, f.Limit)
	for rows.Next() {
		var o domain.Offer
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Title, &o.Image, &o.Description, &o.CreatedAt, &o.UpdatedAt,
			&o.MinPrice, &o.MinDeliveryTime,
			&o.OwnerFirstName, &o.OwnerLastName, &o.OwnerUsername,
		); err != nil {
			return nil, 0, err
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	refs := make([]*domain.Offer, len(offers))
	for i := range offers {
		refs[i] = &offers[i]
	}
	if err := r.loadDetails(ctx, refs); err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

func (r *offerRepository) loadDetails(ctx context.Context, offers []*domain.Offer) error {
	if len(offers) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.Offer, len(offers))
	ids := make([]int64, 0, len(offers))
	for _, o := range offers {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	const q = `SELECT ` + detailCols + ` FROM offer_details WHERE offer_id = ANY($1) ORDER BY offer_id, id`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return err
		}
		if o := byID[d.OfferID]; o != nil {
			o.Details = append(o.Details, *d)
		}
	}
	return rows.Err()
}

// Update patches offer fields and any detail entries matched by offer_type,
// in one transaction. The offer_type column itself is never written.
func (r *offerRepository) Update(ctx context.Context, id int64, patch domain.OfferPatch) (*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
UPDATE offers SET
    title       = COALESCE($2, title),
    image       = COALESCE($3, image),
    description = COALESCE($4, description),
    updated_at  = now()
WHERE id = $1`
	ct, err := tx.Exec(ctx, q, id, patch.Title, patch.Image, patch.Description)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, nil
	}

	const dq = `
UPDATE offer_details SET
    title                 = COALESCE($3, title),
    revisions             = COALESCE($4, revisions),
    delivery_time_in_days = COALESCE($5, delivery_time_in_days),
    price                 = COALESCE($6, price),
    features              = COALESCE($7, features)
WHERE offer_id = $1 AND offer_type = $2`
	for _, dp := range patch.Details {
		var features []byte
		if dp.Features != nil {
			features, err = json.Marshal(*dp.Features)
			if err != nil {
				return nil, err
			}
		}
		dct, err := tx.Exec(ctx, dq, id, dp.OfferType,
			dp.Title, dp.Revisions, dp.DeliveryTimeInDays, dp.Price, features,
		)
		if err != nil {
			return nil, err
		}
		if dct.RowsAffected() == 0 {
			return nil, domain.NewFieldError("details",
				fmt.Sprintf("OfferDetail with offer_type %s does not exist for this offer.", dp.OfferType))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *offerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM offers WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

var _ OfferRepository = (*offerRepository)(nil)

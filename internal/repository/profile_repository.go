package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coderr-app/coderr-backend/internal/domain"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error)
	Update(ctx context.Context, userID int64, patch domain.ProfilePatch) (*domain.Profile, error)
	ListByType(ctx context.Context, role domain.Role) ([]domain.Profile, error)
	IsBusinessUser(ctx context.Context, userID int64) (bool, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const profileCols = `p.user_id, u.username, u.email, p.type,
p.first_name, p.last_name, p.file, p.location, p.tel,
p.description, p.working_hours, p.created_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.UserID, &p.Username, &p.Email, &p.Type,
		&p.FirstName, &p.LastName, &p.File, &p.Location, &p.Tel,
		&p.Description, &p.WorkingHours, &p.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	const q = `SELECT ` + profileCols + `
FROM profiles p JOIN users u ON u.id = p.user_id
WHERE p.user_id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanProfile(r.pool.QueryRow(ctx, q, userID))
}

// Update applies partial profile fields; an email change writes through to
// the users row inside the same transaction.
func (r *profileRepository) Update(ctx context.Context, userID int64, patch domain.ProfilePatch) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
UPDATE profiles SET
    first_name    = COALESCE($2, first_name),
    last_name     = COALESCE($3, last_name),
    file          = COALESCE($4, file),
    location      = COALESCE($5, location),
    tel           = COALESCE($6, tel),
    description   = COALESCE($7, description),
    working_hours = COALESCE($8, working_hours)
WHERE user_id = $1`
	ct, err := tx.Exec(ctx, q, userID,
		patch.FirstName, patch.LastName, patch.File, patch.Location,
		patch.Tel, patch.Description, patch.WorkingHours,
	)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, nil
	}

	if patch.Email != nil {
		const uq = `UPDATE users SET email=$2, updated_at=now() WHERE id=$1`
		if _, err := tx.Exec(ctx, uq, userID, *patch.Email); err != nil {
			return nil, err
		}
	}

	const sel = `SELECT ` + profileCols + `
FROM profiles p JOIN users u ON u.id = p.user_id
WHERE p.user_id = $1`
	p, err := scanProfile(tx.QueryRow(ctx, sel, userID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) ListByType(ctx context.Context, role domain.Role) ([]domain.Profile, error) {
	const q = `SELECT ` + profileCols + `
FROM profiles p JOIN users u ON u.id = p.user_id
WHERE p.type = $1
ORDER BY p.user_id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ps []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(
			&p.UserID, &p.Username, &p.Email, &p.Type,
			&p.FirstName, &p.LastName, &p.File, &p.Location, &p.Tel,
			&p.Description, &p.WorkingHours, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	return ps, rows.Err()
}

func (r *profileRepository) IsBusinessUser(ctx context.Context, userID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM profiles WHERE user_id=$1 AND type='business')`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var ok bool
	err := r.pool.QueryRow(ctx, q, userID).Scan(&ok)
	return ok, err
}

var _ ProfileRepository = (*profileRepository)(nil)

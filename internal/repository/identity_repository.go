package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/emergency-services/internal/domain"
)

// IdentityRepository defines persistence access for identities owned by the
// auth service.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id int64) (*domain.Identity, error)
	GetByUsername(ctx context.Context, username string) (*domain.Identity, error)
	List(ctx context.Context, limit, offset int) ([]domain.Identity, error)
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO identities (username, email, first_name, last_name, password_hash, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		identity.Username,
		identity.Email,
		identity.FirstName,
		identity.LastName,
		identity.PasswordHash,
		identity.Active,
	).Scan(&identity.ID, &identity.CreatedAt)
}

func (r *identityRepository) GetByID(ctx context.Context, id int64) (*domain.Identity, error) {
	const query = `
        SELECT id, username, email, first_name, last_name, password_hash, active, created_at
        FROM identities WHERE id=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *identityRepository) GetByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	const query = `
        SELECT id, username, email, first_name, last_name, password_hash, active, created_at
        FROM identities WHERE username=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, username))
}

func (r *identityRepository) List(ctx context.Context, limit, offset int) ([]domain.Identity, error) {
	const query = `
        SELECT id, username, email, first_name, last_name, password_hash, active, created_at
        FROM identities ORDER BY id LIMIT $1 OFFSET $2`

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Identity
	for rows.Next() {
		var identity domain.Identity
		if err := rows.Scan(
			&identity.ID,
			&identity.Username,
			&identity.Email,
			&identity.FirstName,
			&identity.LastName,
			&identity.PasswordHash,
			&identity.Active,
			&identity.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, identity)
	}
	return result, rows.Err()
}

func (r *identityRepository) scanOne(row pgx.Row) (*domain.Identity, error) {
	var identity domain.Identity
	if err := row.Scan(
		&identity.ID,
		&identity.Username,
		&identity.Email,
		&identity.FirstName,
		&identity.LastName,
		&identity.PasswordHash,
		&identity.Active,
		&identity.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &identity, nil
}

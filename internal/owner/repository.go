package owner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing owner data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Owner, error)
	GetByID(ctx context.Context, id string) (*Owner, error)
	GetBySlug(ctx context.Context, slug string) (*Owner, error)
	Create(ctx context.Context, o *Owner) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const ownerColumns = "id, email, password_hash, display_name, slug, created_at, last_login_at, is_active"

func (r *pgxRepository) scanOwner(row pgx.Row) (*Owner, error) {
	var o Owner
	if err := row.Scan(
		&o.ID,
		&o.Email,
		&o.PasswordHash,
		&o.DisplayName,
		&o.Slug,
		&o.CreatedAt,
		&o.LastLoginAt,
		&o.IsActive,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan owner failed: %w", err)
	}
	return &o, nil
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Owner, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(ownerColumns).
		From("public.owners").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get owner by email query failed: %w", err)
	}
	return r.scanOwner(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Owner, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(ownerColumns).
		From("public.owners").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get owner query failed: %w", err)
	}
	return r.scanOwner(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) GetBySlug(ctx context.Context, slug string) (*Owner, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(ownerColumns).
		From("public.owners").
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get owner by slug query failed: %w", err)
	}
	return r.scanOwner(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) Create(ctx context.Context, o *Owner) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.owners").
		Columns("email", "password_hash", "display_name", "slug", "is_active").
		Values(o.Email, o.PasswordHash, o.DisplayName, o.Slug, o.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create owner query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			if e.ConstraintName == "owners_slug_key" {
				return ErrSlugTaken
			}
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create owner failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.owners").
		Set("last_login_at", t).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

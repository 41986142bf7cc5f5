package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing calendar account data.
type Repository interface {
	GetByID(ctx context.Context, ownerID, id string) (*Account, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Account, error)
	GetPrimary(ctx context.Context, ownerID string) (*Account, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Upsert(ctx context.Context, a *Account) error
	UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiry time.Time) error
	UpdateCalendarIDs(ctx context.Context, ownerID, id string, calendarIDs []string) error
	Delete(ctx context.Context, ownerID, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const accountColumns = "id, owner_id, email, display_name, access_token, refresh_token, token_expiry, calendar_ids, is_primary, created_at, updated_at"

func scanAccount(row pgx.Row) (*Account, error) {
	var (
		a            Account
		refreshToken *string
		tokenExpiry  *time.Time
	)
	if err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Email,
		&a.DisplayName,
		&a.AccessToken,
		&refreshToken,
		&tokenExpiry,
		&a.CalendarIDs,
		&a.IsPrimary,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan calendar account failed: %w", err)
	}
	if refreshToken != nil {
		a.RefreshToken = *refreshToken
	}
	if tokenExpiry != nil {
		a.TokenExpiry = *tokenExpiry
	}
	return &a, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, ownerID, id string) (*Account, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(accountColumns).
		From("public.calendar_accounts").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get account query failed: %w", err)
	}
	return scanAccount(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Account, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(accountColumns).
		From("public.calendar_accounts").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list accounts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts failed: %w", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *pgxRepository) GetPrimary(ctx context.Context, ownerID string) (*Account, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(accountColumns).
		From("public.calendar_accounts").
		Where(squirrel.Eq{"owner_id": ownerID, "is_primary": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get primary account query failed: %w", err)
	}
	return scanAccount(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("COUNT(*)").
		From("public.calendar_accounts").
		Where(squirrel.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count accounts query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count accounts failed: %w", err)
	}
	return count, nil
}

// Upsert inserts the account or, when the owner reconnects an already
// connected Google account, replaces its stored credentials.
func (r *pgxRepository) Upsert(ctx context.Context, a *Account) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.calendar_accounts").
		Columns("owner_id", "email", "display_name", "access_token", "refresh_token", "token_expiry", "calendar_ids", "is_primary").
		Values(a.OwnerID, a.Email, a.DisplayName, a.AccessToken, a.RefreshToken, a.TokenExpiry, a.CalendarIDs, a.IsPrimary).
		Suffix(`ON CONFLICT (owner_id, email) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = CASE WHEN EXCLUDED.refresh_token <> '' THEN EXCLUDED.refresh_token ELSE public.calendar_accounts.refresh_token END,
			token_expiry = EXCLUDED.token_expiry,
			updated_at = now()
		RETURNING id, is_primary, created_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert account query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&a.ID, &a.IsPrimary, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("upsert account failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiry time.Time) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	builder := psql.Update("public.calendar_accounts").
		Set("access_token", accessToken).
		Set("token_expiry", expiry).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})
	if refreshToken != "" {
		builder = builder.Set("refresh_token", refreshToken)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build update tokens query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update tokens failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) UpdateCalendarIDs(ctx context.Context, ownerID, id string, calendarIDs []string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.calendar_accounts").
		Set("calendar_ids", calendarIDs).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update calendar ids query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update calendar ids failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, ownerID, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.calendar_accounts").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete account query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete account failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

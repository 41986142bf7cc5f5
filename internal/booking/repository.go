package booking

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

	"github.com/lunarfrog/booking-link-backend/internal/timeslot"
)

// ListFilter narrows ListByOwner results.
type ListFilter struct {
	Status Status     // empty means all
	From   *time.Time // bookings starting at or after
	To     *time.Time // bookings starting before
}

// Repository defines storage for bookings and their invite outbox entries.
type Repository interface {
	// CreateConfirmed inserts a confirmed booking together with its pending
	// invite outbox entry in one transaction. The bookings_no_overlap
	// exclusion constraint is the only synchronization against concurrent
	// reservations; a violation is returned as *SlotConflictError.
	CreateConfirmed(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, ownerID, id string) (*Booking, error)
	// Get looks a booking up without owner scoping. Internal use only, the
	// HTTP layer always goes through GetByID.
	Get(ctx context.Context, id string) (*Booking, error)
	ListByOwner(ctx context.Context, ownerID string, f ListFilter, limit, offset int) ([]*Booking, int, error)
	ListConfirmedInRange(ctx context.Context, ownerID string, window timeslot.Interval) ([]*Booking, error)
	// Cancel flips a confirmed booking to cancelled. Cancelling twice
	// returns ErrAlreadyCancelled.
	Cancel(ctx context.Context, ownerID, id string, reason *string) (*Booking, error)
	SetExternalEventID(ctx context.Context, id, eventID string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const bookingColumns = "id, owner_id, guest_name, guest_email, message, start_time, end_time, timezone, status, external_event_id, cancelled_at, cancellation_reason, created_at"

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.GuestName,
		&b.GuestEmail,
		&b.Message,
		&b.StartTime,
		&b.EndTime,
		&b.Timezone,
		&b.Status,
		&b.ExternalEventID,
		&b.CancelledAt,
		&b.CancellationReason,
		&b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) CreateConfirmed(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reservation failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("owner_id", "guest_name", "guest_email", "message", "start_time", "end_time", "timezone", "status").
		Values(b.OwnerID, b.GuestName, b.GuestEmail, b.Message, b.StartTime, b.EndTime, b.Timezone, StatusConfirmed).
		Suffix("RETURNING id, status, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&b.ID, &b.Status, &b.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ExclusionViolation {
			return &SlotConflictError{Start: b.StartTime, End: b.EndTime}
		}
		return fmt.Errorf("create booking failed: %w", err)
	}

	query, args, err = psql.Insert("public.invite_outbox").
		Columns("booking_id").
		Values(b.ID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build enqueue invite query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("enqueue invite failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, ownerID, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}
	return scanBooking(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) Get(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}
	return scanBooking(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string, f ListFilter, limit, offset int) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	where := squirrel.And{squirrel.Eq{"owner_id": ownerID}}
	if f.Status != "" {
		where = append(where, squirrel.Eq{"status": f.Status})
	}
	if f.From != nil {
		where = append(where, squirrel.GtOrEq{"start_time": *f.From})
	}
	if f.To != nil {
		where = append(where, squirrel.Lt{"start_time": *f.To})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").
		From("public.bookings").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count bookings query failed: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings failed: %w", err)
	}

	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(where).
		OrderBy("start_time ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}

func (r *pgxRepository) ListConfirmedInRange(ctx context.Context, ownerID string, window timeslot.Interval) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings").
		Where(squirrel.And{
			squirrel.Eq{"owner_id": ownerID, "status": StatusConfirmed},
			squirrel.Lt{"start_time": window.End},
			squirrel.Gt{"end_time": window.Start},
		}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build confirmed bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list confirmed bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) Cancel(ctx context.Context, ownerID, id string, reason *string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", StatusCancelled).
		Set("cancelled_at", squirrel.Expr("now()")).
		Set("cancellation_reason", reason).
		Where(squirrel.Eq{"id": id, "owner_id": ownerID, "status": StatusConfirmed}).
		Suffix("RETURNING " + bookingColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cancel booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// No confirmed row matched: distinguish missing from already cancelled.
	existing, getErr := r.GetByID(ctx, ownerID, id)
	if getErr != nil {
		return nil, getErr
	}
	if existing.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	return nil, err
}

func (r *pgxRepository) SetExternalEventID(ctx context.Context, id, eventID string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("external_event_id", eventID).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build set event id query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set event id failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

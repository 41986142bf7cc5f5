package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"

	"github.com/lunarfrog/booking-link-backend/internal/account"
	"github.com/lunarfrog/booking-link-backend/internal/gcal"
)

// InviteTask is one pending calendar invite in the outbox.
type InviteTask struct {
	ID        string
	BookingID string
	Attempts  int
}

// OutboxRepository manages pending invite deliveries. Entries are enqueued in
// the reservation transaction; the worker drains them afterwards, so a
// crashed invite delivery never loses a confirmed booking.
type OutboxRepository interface {
	ListPending(ctx context.Context, limit int) ([]*InviteTask, error)
	MarkSent(ctx context.Context, id string) error
	// MarkFailed records a delivery failure. Terminal failures stop retrying.
	MarkFailed(ctx context.Context, id string, attempts int, lastErr string, terminal bool) error
}

type pgxOutboxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxOutboxRepository creates a new OutboxRepository using pgxpool.
func NewPgxOutboxRepository(pool *pgxpool.Pool) OutboxRepository {
	return &pgxOutboxRepository{pool: pool}
}

func (r *pgxOutboxRepository) ListPending(ctx context.Context, limit int) ([]*InviteTask, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "booking_id", "attempts").
		From("public.invite_outbox").
		Where(squirrel.Eq{"status": "pending"}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list pending invites query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending invites failed: %w", err)
	}
	defer rows.Close()

	var tasks []*InviteTask
	for rows.Next() {
		var t InviteTask
		if err := rows.Scan(&t.ID, &t.BookingID, &t.Attempts); err != nil {
			return nil, fmt.Errorf("scan invite task failed: %w", err)
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

func (r *pgxOutboxRepository) MarkSent(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.invite_outbox").
		Set("status", "sent").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark invite sent query failed: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("mark invite sent failed: %w", err)
	}
	return nil
}

func (r *pgxOutboxRepository) MarkFailed(ctx context.Context, id string, attempts int, lastErr string, terminal bool) error {
	status := "pending"
	if terminal {
		status = "failed"
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.invite_outbox").
		Set("status", status).
		Set("attempts", attempts).
		Set("last_error", lastErr).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark invite failed query failed: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("mark invite failed failed: %w", err)
	}
	return nil
}

// AccountSource yields the invite-sending account and its credentials.
// Satisfied by account.Service.
type AccountSource interface {
	Primary(ctx context.Context, ownerID string) (*account.Account, error)
	TokenSource(ctx context.Context, a *account.Account) (oauth2.TokenSource, error)
}

// EventCreator creates calendar events. Satisfied by gcal.Client.
type EventCreator interface {
	CreateEvent(ctx context.Context, ts oauth2.TokenSource, calendarID string, in gcal.EventInput) (string, error)
}

// OutboxWorker drains the invite outbox: for each pending entry it creates a
// Google Calendar event on the owner's primary account, emailing the guest
// the invite. Delivery is at-least-once with a retry cap.
type OutboxWorker struct {
	outbox       OutboxRepository
	bookings     Repository
	accounts     AccountSource
	events       EventCreator
	logger       *slog.Logger
	pollInterval time.Duration
	maxAttempts  int
}

// NewOutboxWorker creates a new invite delivery worker.
func NewOutboxWorker(outbox OutboxRepository, bookings Repository, accounts AccountSource, events EventCreator, logger *slog.Logger, pollInterval time.Duration, maxAttempts int) *OutboxWorker {
	return &OutboxWorker{
		outbox:       outbox,
		bookings:     bookings,
		accounts:     accounts,
		events:       events,
		logger:       logger,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
	}
}

// Run polls until the context is cancelled. Intended to run in its own
// goroutine alongside the HTTP server.
func (w *OutboxWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				w.logger.Error("invite outbox drain failed", slog.String("error", err.Error()))
			}
		}
	}
}

const drainBatchSize = 20

func (w *OutboxWorker) drain(ctx context.Context) error {
	tasks, err := w.outbox.ListPending(ctx, drainBatchSize)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		if err := w.deliver(ctx, task); err != nil {
			attempts := task.Attempts + 1
			terminal := attempts >= w.maxAttempts
			w.logger.Warn("invite delivery failed",
				slog.String("booking_id", task.BookingID),
				slog.Int("attempts", attempts),
				slog.Bool("terminal", terminal),
				slog.String("error", err.Error()),
			)
			if err := w.outbox.MarkFailed(ctx, task.ID, attempts, err.Error(), terminal); err != nil {
				return err
			}
			continue
		}
		if err := w.outbox.MarkSent(ctx, task.ID); err != nil {
			return err
		}
	}
	return nil
}

func (w *OutboxWorker) deliver(ctx context.Context, task *InviteTask) error {
	b, err := w.bookings.Get(ctx, task.BookingID)
	if err != nil {
		return err
	}

	// A cancelled booking's invite is pointless; drop the task.
	if b.Status != StatusConfirmed {
		return nil
	}

	primary, err := w.accounts.Primary(ctx, b.OwnerID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return fmt.Errorf("owner has no connected calendar account")
		}
		return err
	}

	ts, err := w.accounts.TokenSource(ctx, primary)
	if err != nil {
		return err
	}

	description := "Booked via booking link."
	if b.Message != nil && *b.Message != "" {
		description = *b.Message
	}

	eventID, err := w.events.CreateEvent(ctx, ts, "primary", gcal.EventInput{
		Summary:     fmt.Sprintf("Booking: %s", b.GuestName),
		Description: description,
		Start:       b.StartTime,
		End:         b.EndTime,
		Timezone:    b.Timezone,
		GuestEmail:  b.GuestEmail,
		GuestName:   b.GuestName,
	})
	if err != nil {
		return err
	}

	if err := w.bookings.SetExternalEventID(ctx, b.ID, eventID); err != nil {
		w.logger.Warn("failed to record external event id",
			slog.String("booking_id", b.ID),
			slog.String("event_id", eventID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

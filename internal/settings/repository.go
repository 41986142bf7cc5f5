package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lunarfrog/booking-link-backend/internal/timeslot"
)

// Repository defines storage access for owner settings.
type Repository interface {
	GetByOwner(ctx context.Context, ownerID string) (*Settings, error)
	Upsert(ctx context.Context, s *Settings) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetByOwner(ctx context.Context, ownerID string) (*Settings, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"owner_id", "timezone", "slot_duration_minutes", "buffer_minutes",
		"min_notice_hours", "booking_window_days", "weekly_schedule",
		"schema_version", "updated_at",
	).
		From("public.owner_settings").
		Where(squirrel.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get settings query failed: %w", err)
	}

	var s Settings
	var scheduleJSON []byte
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.OwnerID,
		&s.Timezone,
		&s.SlotDurationMinutes,
		&s.BufferMinutes,
		&s.MinNoticeHours,
		&s.BookingWindowDays,
		&scheduleJSON,
		&s.SchemaVersion,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get settings failed: %w", err)
	}

	s.WeeklySchedule = make(map[string][]timeslot.ScheduleBlock)
	if len(scheduleJSON) > 0 {
		if err := json.Unmarshal(scheduleJSON, &s.WeeklySchedule); err != nil {
			return nil, fmt.Errorf("decode weekly schedule failed: %w", err)
		}
	}

	return &s, nil
}

func (r *pgxRepository) Upsert(ctx context.Context, s *Settings) error {
	scheduleJSON, err := json.Marshal(s.WeeklySchedule)
	if err != nil {
		return fmt.Errorf("encode weekly schedule failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.owner_settings").
		Columns(
			"owner_id", "timezone", "slot_duration_minutes", "buffer_minutes",
			"min_notice_hours", "booking_window_days", "weekly_schedule", "schema_version",
		).
		Values(
			s.OwnerID, s.Timezone, s.SlotDurationMinutes, s.BufferMinutes,
			s.MinNoticeHours, s.BookingWindowDays, scheduleJSON, s.SchemaVersion,
		).
		Suffix(`ON CONFLICT (owner_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			buffer_minutes = EXCLUDED.buffer_minutes,
			min_notice_hours = EXCLUDED.min_notice_hours,
			booking_window_days = EXCLUDED.booking_window_days,
			weekly_schedule = EXCLUDED.weekly_schedule,
			schema_version = EXCLUDED.schema_version,
			updated_at = now()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert settings query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		return fmt.Errorf("upsert settings failed: %w", err)
	}
	return nil
}

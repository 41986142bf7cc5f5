package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// settingsSchemaVersion is the version the settings table must be at before
// the server starts serving requests. Schema evolution is a startup-time
// concern: request handlers never branch on "maybe this column is missing".
const settingsSchemaVersion = 2

// migrations are idempotent DDL statements executed in order at startup.
var migrations = []string{
	// Owners: the calendar owners who publish booking links.
	`CREATE TABLE IF NOT EXISTS public.owners (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		display_name TEXT,
		slug TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_login_at TIMESTAMPTZ,
		is_active BOOLEAN NOT NULL DEFAULT true
	)`,

	// Scheduling policy, one row per owner, versioned.
	`CREATE TABLE IF NOT EXISTS public.owner_settings (
		owner_id UUID PRIMARY KEY REFERENCES public.owners(id) ON DELETE CASCADE,
		timezone TEXT NOT NULL DEFAULT 'America/New_York',
		slot_duration_minutes INT NOT NULL DEFAULT 30,
		buffer_minutes INT NOT NULL DEFAULT 0,
		min_notice_hours INT NOT NULL DEFAULT 24,
		booking_window_days INT NOT NULL DEFAULT 30,
		weekly_schedule JSONB NOT NULL DEFAULT '{}'::jsonb,
		schema_version INT NOT NULL DEFAULT 1,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	// Connected calendar accounts. Exactly one owner per account: ownership
	// is a non-nullable foreign key, never inferred from email equality.
	`CREATE TABLE IF NOT EXISTS public.calendar_accounts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id UUID NOT NULL REFERENCES public.owners(id) ON DELETE CASCADE,
		email TEXT NOT NULL,
		display_name TEXT,
		access_token TEXT NOT NULL,
		refresh_token TEXT,
		token_expiry TIMESTAMPTZ,
		calendar_ids TEXT[] NOT NULL DEFAULT ARRAY['primary'],
		is_primary BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (owner_id, email)
	)`,

	// Bookings are append-only: cancellation flips status, rows are never
	// deleted. The exclusion constraint is the atomic no-double-booking
	// guard for concurrent reservations.
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`CREATE TABLE IF NOT EXISTS public.bookings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id UUID NOT NULL REFERENCES public.owners(id) ON DELETE CASCADE,
		guest_name TEXT NOT NULL,
		guest_email TEXT NOT NULL,
		message TEXT,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		timezone TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'confirmed',
		external_event_id TEXT,
		cancelled_at TIMESTAMPTZ,
		cancellation_reason TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (start_time < end_time),
		CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
			owner_id WITH =,
			tstzrange(start_time, end_time) WITH &&
		) WHERE (status = 'confirmed')
	)`,

	// Invite outbox: bookings confirmed in the database whose calendar
	// invite has not been delivered yet.
	`CREATE TABLE IF NOT EXISTS public.invite_outbox (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		booking_id UUID NOT NULL REFERENCES public.bookings(id),
		status TEXT NOT NULL DEFAULT 'pending',
		attempts INT NOT NULL DEFAULT 0,
		last_error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS invite_outbox_pending_idx
		ON public.invite_outbox (created_at) WHERE status = 'pending'`,

	// v2 settings backfill: rows written before min_notice_hours and
	// booking_window_days existed get the defaults once, here, instead of a
	// per-request fallback branch.
	`UPDATE public.owner_settings
		SET min_notice_hours = COALESCE(min_notice_hours, 24),
		    booking_window_days = COALESCE(booking_window_days, 30),
		    schema_version = 2
		WHERE schema_version < 2`,
}

// Migrate brings the schema to the current version. It is safe to run on
// every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	var version int
	err := pool.QueryRow(ctx,
		`SELECT COALESCE(MIN(schema_version), $1) FROM public.owner_settings`,
		settingsSchemaVersion,
	).Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to read settings schema version: %w", err)
	}
	if version < settingsSchemaVersion {
		return fmt.Errorf("settings schema version %d is below required %d", version, settingsSchemaVersion)
	}

	logger.Info("database schema up to date", slog.Int("settings_schema_version", version))
	return nil
}

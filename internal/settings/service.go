package settings

import (
	"context"
	"errors"
	"fmt"
)

// Service defines business logic for owner scheduling policy.
type Service interface {
	// GetForOwner returns the owner's saved settings, or the default policy
	// when the owner has never saved any.
	GetForOwner(ctx context.Context, ownerID string) (*Settings, error)
	Update(ctx context.Context, s *Settings) (*Settings, error)
}

type service struct {
	repo Repository
}

// NewService creates a new settings Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetForOwner(ctx context.Context, ownerID string) (*Settings, error) {
	saved, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Default(ownerID), nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	// Saved settings can still be structurally invalid (e.g. a timezone
	// removed from the tz database). Surface that instead of serving wrong
	// availability.
	if err := saved.Validate(); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *service) Update(ctx context.Context, in *Settings) (*Settings, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	in.SchemaVersion = CurrentSchemaVersion
	if err := s.repo.Upsert(ctx, in); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return in, nil
}

// CurrentSchemaVersion is stamped on every write; startup migration refuses
// to serve older rows without backfilling them first.
const CurrentSchemaVersion = 2

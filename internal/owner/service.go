package owner

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lunarfrog/booking-link-backend/internal/auth"
)

// Service defines business logic related to owners.
type Service interface {
	Register(ctx context.Context, email, password, displayName string) (*Owner, error)
	Login(ctx context.Context, email, password string) (*Owner, error)
	GetByID(ctx context.Context, id string) (*Owner, error)
	GetBySlug(ctx context.Context, slug string) (*Owner, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	logger *slog.Logger

	minPasswordLength int
}

// NewService creates a new owner Service.
func NewService(repo Repository, hasher auth.PasswordHasher, logger *slog.Logger) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		logger:            logger,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, email, password, displayName string) (*Owner, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" {
		return nil, ErrEmailRequired
	}

	if len(password) < s.minPasswordLength {
		return nil, fmt.Errorf("%w: need at least %d characters", ErrPasswordTooShort, s.minPasswordLength)
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var displayNamePtr *string
	if strings.TrimSpace(displayName) != "" {
		d := strings.TrimSpace(displayName)
		displayNamePtr = &d
	}

	o := &Owner{
		Email:        cleanEmail,
		PasswordHash: hash,
		DisplayName:  displayNamePtr,
		IsActive:     true,
	}

	// Retry on the unlikely slug collision.
	for attempt := 0; attempt < 3; attempt++ {
		o.Slug = newSlug()
		err = s.repo.Create(ctx, o)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, ErrSlugTaken) {
			return nil, fmt.Errorf("failed to create owner: %w", err)
		}
		s.logger.Warn("booking slug collision, retrying", slog.String("slug", o.Slug))
	}
	return nil, fmt.Errorf("failed to create owner: %w", err)
}

func (s *service) Login(ctx context.Context, email, password string) (*Owner, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	o, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch owner by email: %w", err)
	}

	if !o.IsActive {
		return nil, ErrInactiveOwner
	}

	if err := s.hasher.Compare(o.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, o.ID, now); err != nil {
		// Login still succeeds; the timestamp is bookkeeping.
		s.logger.Warn("failed to update last login", slog.String("owner_id", o.ID), slog.String("error", err.Error()))
	}
	o.LastLoginAt = &now

	return o, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Owner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Owner, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newSlug generates a random 8-character booking slug.
func newSlug() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing is unrecoverable for slug generation.
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = slugAlphabet[int(b)%len(slugAlphabet)]
	}
	return string(buf)
}

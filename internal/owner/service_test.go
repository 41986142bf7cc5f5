package owner

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byEmail map[string]*Owner
	created []*Owner
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*Owner, error) {
	if o, ok := f.byEmail[email]; ok {
		return o, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) GetByID(_ context.Context, _ string) (*Owner, error) {
	return nil, ErrNotFound
}

func (f *fakeRepo) GetBySlug(_ context.Context, _ string) (*Owner, error) {
	return nil, ErrNotFound
}

func (f *fakeRepo) Create(_ context.Context, o *Owner) error {
	o.ID = "owner-1"
	o.CreatedAt = time.Now()
	f.created = append(f.created, o)
	return nil
}

func (f *fakeRepo) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error {
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return ErrInvalidCredentials
	}
	return nil
}

func newTestService(repo *fakeRepo) Service {
	return NewService(repo, fakeHasher{}, slog.New(slog.DiscardHandler))
}

func TestRegisterNormalizesEmailAndAssignsSlug(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	o, err := svc.Register(context.Background(), "  Casey@Example.COM ", "hunter2hunter2", "Casey")
	require.NoError(t, err)
	assert.Equal(t, "casey@example.com", o.Email)
	assert.Len(t, o.Slug, 8)
	assert.True(t, o.IsActive)
	require.NotNil(t, o.DisplayName)
	assert.Equal(t, "Casey", *o.DisplayName)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.Register(context.Background(), "casey@example.com", "short", "")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := &fakeRepo{byEmail: map[string]*Owner{
		"casey@example.com": {Email: "casey@example.com"},
	}}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), "casey@example.com", "hunter2hunter2", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestLogin(t *testing.T) {
	repo := &fakeRepo{byEmail: map[string]*Owner{
		"casey@example.com": {
			ID:           "owner-1",
			Email:        "casey@example.com",
			PasswordHash: "hashed:hunter2hunter2",
			IsActive:     true,
		},
	}}
	svc := newTestService(repo)

	o, err := svc.Login(context.Background(), "casey@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotNil(t, o.LastLoginAt)

	_, err = svc.Login(context.Background(), "casey@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveOwner(t *testing.T) {
	repo := &fakeRepo{byEmail: map[string]*Owner{
		"casey@example.com": {
			Email:        "casey@example.com",
			PasswordHash: "hashed:hunter2hunter2",
			IsActive:     false,
		},
	}}
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), "casey@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInactiveOwner)
}

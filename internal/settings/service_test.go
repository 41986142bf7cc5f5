package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	saved map[string]*Settings
	err   error
}

func (f *fakeRepo) GetByOwner(_ context.Context, ownerID string) (*Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.saved[ownerID]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) Upsert(_ context.Context, s *Settings) error {
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = map[string]*Settings{}
	}
	f.saved[s.OwnerID] = s
	return nil
}

func TestGetForOwnerFallsBackToDefault(t *testing.T) {
	svc := NewService(&fakeRepo{})

	s, err := svc.GetForOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", s.OwnerID)
	assert.Equal(t, Default("owner-1").SlotDurationMinutes, s.SlotDurationMinutes)
}

func TestGetForOwnerReturnsSaved(t *testing.T) {
	saved := Default("owner-1")
	saved.SlotDurationMinutes = 60
	svc := NewService(&fakeRepo{saved: map[string]*Settings{"owner-1": saved}})

	s, err := svc.GetForOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 60, s.SlotDurationMinutes)
}

func TestGetForOwnerSurfacesInvalidSaved(t *testing.T) {
	saved := Default("owner-1")
	saved.Timezone = "Not/A_Zone"
	svc := NewService(&fakeRepo{saved: map[string]*Settings{"owner-1": saved}})

	_, err := svc.GetForOwner(context.Background(), "owner-1")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUpdateStampsSchemaVersion(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	in := Default("owner-1")
	in.SchemaVersion = 0
	saved, err := svc.Update(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, saved.SchemaVersion)
	assert.Equal(t, CurrentSchemaVersion, repo.saved["owner-1"].SchemaVersion)
}

func TestUpdateRejectsInvalid(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	in := Default("owner-1")
	in.SlotDurationMinutes = 0
	_, err := svc.Update(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, repo.saved)
}

func TestGetForOwnerRepoError(t *testing.T) {
	svc := NewService(&fakeRepo{err: errors.New("connection refused")})

	_, err := svc.GetForOwner(context.Background(), "owner-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

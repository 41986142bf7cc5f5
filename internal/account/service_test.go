package account

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/lunarfrog/booking-link-backend/internal/auth"
	"github.com/lunarfrog/booking-link-backend/internal/gcal"
)

type fakeRepo struct {
	Repository

	accounts     map[string]*Account
	tokenUpdates int
}

func (f *fakeRepo) GetByID(_ context.Context, _, id string) (*Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (f *fakeRepo) UpdateTokens(_ context.Context, id, accessToken, refreshToken string, expiry time.Time) error {
	f.tokenUpdates++
	a, ok := f.accounts[id]
	if !ok {
		return ErrNotFound
	}
	a.AccessToken = accessToken
	if refreshToken != "" {
		a.RefreshToken = refreshToken
	}
	a.TokenExpiry = expiry
	return nil
}

func (f *fakeRepo) UpdateCalendarIDs(_ context.Context, _, id string, calendarIDs []string) error {
	a, ok := f.accounts[id]
	if !ok {
		return ErrNotFound
	}
	a.CalendarIDs = calendarIDs
	return nil
}

func newTestService(repo Repository, oauthCfg *oauth2.Config) Service {
	states := auth.NewJWTManager("test-secret", 10*time.Minute)
	return NewService(repo, oauthCfg, gcal.NewClient(), states, slog.New(slog.DiscardHandler))
}

func TestConnectURLUnconfigured(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil)

	_, err := svc.ConnectURL("owner-1", "casey@example.com")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestConnectURLCarriesStateAndOfflineAccess(t *testing.T) {
	cfg := gcal.NewOAuthConfig("client-id", "client-secret", "https://app.example.com/v1/google/callback")
	svc := newTestService(&fakeRepo{}, cfg)

	url, err := svc.ConnectURL("owner-1", "casey@example.com")
	require.NoError(t, err)
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "prompt=consent")
	assert.Contains(t, url, "state=")
}

func TestHandleCallbackRejectsBadState(t *testing.T) {
	cfg := gcal.NewOAuthConfig("client-id", "client-secret", "https://app.example.com/v1/google/callback")
	svc := newTestService(&fakeRepo{}, cfg)

	_, err := svc.HandleCallback(context.Background(), "garbage-state", "code")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestUpdateCalendarIDs(t *testing.T) {
	repo := &fakeRepo{accounts: map[string]*Account{
		"a1": {ID: "a1", OwnerID: "owner-1", CalendarIDs: []string{"primary"}},
	}}
	svc := newTestService(repo, nil)

	a, err := svc.UpdateCalendarIDs(context.Background(), "owner-1", "a1", []string{"primary", "team"})
	require.NoError(t, err)
	assert.Equal(t, []string{"primary", "team"}, a.CalendarIDs)

	_, err = svc.UpdateCalendarIDs(context.Background(), "owner-1", "a1", nil)
	assert.ErrorIs(t, err, ErrNoCalendars)

	_, err = svc.UpdateCalendarIDs(context.Background(), "owner-1", "missing", []string{"primary"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenSourceServesFreshTokenWithoutRefresh(t *testing.T) {
	cfg := gcal.NewOAuthConfig("client-id", "client-secret", "https://app.example.com/v1/google/callback")
	repo := &fakeRepo{accounts: map[string]*Account{
		"a1": {
			ID:          "a1",
			AccessToken: "fresh-token",
			TokenExpiry: time.Now().Add(time.Hour),
		},
	}}
	svc := newTestService(repo, cfg)

	ts, err := svc.TokenSource(context.Background(), repo.accounts["a1"])
	require.NoError(t, err)

	token, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token.AccessToken)
	assert.Zero(t, repo.tokenUpdates)
}

func TestTokenSourceUnconfigured(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil)

	_, err := svc.TokenSource(context.Background(), &Account{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

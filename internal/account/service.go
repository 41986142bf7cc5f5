package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/lunarfrog/booking-link-backend/internal/auth"
	"github.com/lunarfrog/booking-link-backend/internal/gcal"
)

// refreshLeeway is how close to expiry an access token may get before we
// refresh it proactively instead of risking a mid-request 401.
const refreshLeeway = 5 * time.Minute

// Service defines business logic for connected calendar accounts.
type Service interface {
	// ConnectURL returns the Google consent URL for the owner to approve
	// calendar access. The state parameter carries the owner identity so the
	// unauthenticated callback can attribute the connection.
	ConnectURL(ownerID, email string) (string, error)
	// HandleCallback completes the OAuth flow: exchanges the code, resolves
	// the Google account email and stores the credentials.
	HandleCallback(ctx context.Context, state, code string) (*Account, error)

	List(ctx context.Context, ownerID string) ([]*Account, error)
	// Primary returns the account that receives booking invite events.
	Primary(ctx context.Context, ownerID string) (*Account, error)
	UpdateCalendarIDs(ctx context.Context, ownerID, accountID string, calendarIDs []string) (*Account, error)
	Disconnect(ctx context.Context, ownerID, accountID string) error
	ListCalendars(ctx context.Context, ownerID, accountID string) ([]gcal.CalendarInfo, error)

	// TokenSource returns an oauth2 token source for the account that
	// refreshes near-expiry tokens and persists the refreshed credentials.
	TokenSource(ctx context.Context, a *Account) (oauth2.TokenSource, error)
}

type service struct {
	repo     Repository
	oauthCfg *oauth2.Config // nil when the Google client is not configured
	client   *gcal.Client
	states   *auth.JWTManager
	logger   *slog.Logger
}

// NewService creates a new account Service. oauthCfg may be nil, in which
// case connect operations return ErrNotConfigured.
func NewService(repo Repository, oauthCfg *oauth2.Config, client *gcal.Client, states *auth.JWTManager, logger *slog.Logger) Service {
	return &service{
		repo:     repo,
		oauthCfg: oauthCfg,
		client:   client,
		states:   states,
		logger:   logger,
	}
}

func (s *service) ConnectURL(ownerID, email string) (string, error) {
	if s.oauthCfg == nil {
		return "", ErrNotConfigured
	}

	state, err := s.states.GenerateAccessToken(ownerID, email)
	if err != nil {
		return "", fmt.Errorf("failed to sign oauth state: %w", err)
	}

	// AccessTypeOffline with forced consent is the only way Google returns a
	// refresh token on reconnects.
	url := s.oauthCfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return url, nil
}

func (s *service) HandleCallback(ctx context.Context, state, code string) (*Account, error) {
	if s.oauthCfg == nil {
		return nil, ErrNotConfigured
	}

	claims, err := s.states.ParseAndValidate(state)
	if err != nil {
		return nil, ErrInvalidState
	}
	ownerID := claims.OwnerID

	token, err := s.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	email, err := s.client.UserEmail(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve connected account email: %w", err)
	}

	count, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	a := &Account{
		OwnerID:      ownerID,
		Email:        email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		CalendarIDs:  []string{"primary"},
		// The first connected account receives booking invites.
		IsPrimary: count == 0,
	}
	if err := s.repo.Upsert(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("calendar account connected",
		slog.String("owner_id", ownerID),
		slog.String("account_id", a.ID),
	)
	return a, nil
}

func (s *service) List(ctx context.Context, ownerID string) ([]*Account, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) Primary(ctx context.Context, ownerID string) (*Account, error) {
	return s.repo.GetPrimary(ctx, ownerID)
}

func (s *service) UpdateCalendarIDs(ctx context.Context, ownerID, accountID string, calendarIDs []string) (*Account, error) {
	if len(calendarIDs) == 0 {
		return nil, ErrNoCalendars
	}
	if err := s.repo.UpdateCalendarIDs(ctx, ownerID, accountID, calendarIDs); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, ownerID, accountID)
}

func (s *service) Disconnect(ctx context.Context, ownerID, accountID string) error {
	return s.repo.Delete(ctx, ownerID, accountID)
}

func (s *service) ListCalendars(ctx context.Context, ownerID, accountID string) ([]gcal.CalendarInfo, error) {
	a, err := s.repo.GetByID(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	ts, err := s.TokenSource(ctx, a)
	if err != nil {
		return nil, err
	}
	return s.client.ListCalendars(ctx, ts)
}

func (s *service) TokenSource(ctx context.Context, a *Account) (oauth2.TokenSource, error) {
	if s.oauthCfg == nil {
		return nil, ErrNotConfigured
	}
	return &persistingTokenSource{ctx: ctx, svc: s, account: a}, nil
}

// persistingTokenSource refreshes the account's access token when it is
// within refreshLeeway of expiry and writes the new credentials back.
// Concurrent refreshes are harmless: Google keeps old access tokens valid
// until their real expiry, so last write wins.
type persistingTokenSource struct {
	ctx     context.Context
	svc     *service
	account *Account
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	current := &oauth2.Token{
		AccessToken:  p.account.AccessToken,
		RefreshToken: p.account.RefreshToken,
		Expiry:       p.account.TokenExpiry,
	}
	if time.Until(current.Expiry) > refreshLeeway {
		return current, nil
	}

	refreshed, err := p.svc.oauthCfg.TokenSource(p.ctx, current).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}

	if refreshed.AccessToken != current.AccessToken {
		if err := p.svc.repo.UpdateTokens(p.ctx, p.account.ID, refreshed.AccessToken, refreshed.RefreshToken, refreshed.Expiry); err != nil {
			// The refreshed token still works for this request; persisting it
			// is retried implicitly on the next refresh.
			p.svc.logger.Warn("failed to persist refreshed token",
				slog.String("account_id", p.account.ID),
				slog.String("error", err.Error()),
			)
		}
		p.account.AccessToken = refreshed.AccessToken
		if refreshed.RefreshToken != "" {
			p.account.RefreshToken = refreshed.RefreshToken
		}
		p.account.TokenExpiry = refreshed.Expiry
	}
	return refreshed, nil
}

package app

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"

	"github.com/lunarfrog/booking-link-backend/internal/account"
	accountHttp "github.com/lunarfrog/booking-link-backend/internal/account/http"
	"github.com/lunarfrog/booking-link-backend/internal/api"
	"github.com/lunarfrog/booking-link-backend/internal/auth"
	"github.com/lunarfrog/booking-link-backend/internal/availability"
	availabilityHttp "github.com/lunarfrog/booking-link-backend/internal/availability/http"
	"github.com/lunarfrog/booking-link-backend/internal/booking"
	bookingHttp "github.com/lunarfrog/booking-link-backend/internal/booking/http"
	"github.com/lunarfrog/booking-link-backend/internal/gcal"
	"github.com/lunarfrog/booking-link-backend/internal/owner"
	ownerHttp "github.com/lunarfrog/booking-link-backend/internal/owner/http"
	"github.com/lunarfrog/booking-link-backend/internal/settings"
	settingsHttp "github.com/lunarfrog/booking-link-backend/internal/settings/http"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *slog.Logger

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	// GoogleOAuth is nil when the Google client is not configured; calendar
	// connect endpoints then answer 503 and availability runs on schedule
	// plus bookings alone.
	GoogleOAuth *oauth2.Config

	OutboxPollInterval time.Duration
	OutboxMaxAttempts  int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router       *gin.Engine
	OutboxWorker *booking.OutboxWorker
	JWTManager   *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	gcalClient := gcal.NewClient()

	// Owner module
	ownerRepo := owner.NewPgxRepository(cfg.DBPool)
	ownerService := owner.NewService(ownerRepo, passwordHasher, cfg.Logger)

	// Settings module
	settingsRepo := settings.NewPgxRepository(cfg.DBPool)
	settingsService := settings.NewService(settingsRepo)

	// Calendar account module
	accountRepo := account.NewPgxRepository(cfg.DBPool)
	accountService := account.NewService(accountRepo, cfg.GoogleOAuth, gcalClient, jwtManager, cfg.Logger)

	// Booking storage precedes availability: confirmed bookings feed the
	// aggregator as busy time.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)

	// Availability module
	availabilityService := availability.NewService(
		settingsService,
		accountService,
		gcalClient,
		booking.NewIntervalSource(bookingRepo),
		cfg.Logger,
	)

	// Booking module
	bookingService := booking.NewService(bookingRepo, settingsService, availabilityService, cfg.Logger)

	// Invite outbox worker
	outboxRepo := booking.NewPgxOutboxRepository(cfg.DBPool)
	outboxWorker := booking.NewOutboxWorker(
		outboxRepo,
		bookingRepo,
		accountService,
		gcalClient,
		cfg.Logger,
		cfg.OutboxPollInterval,
		cfg.OutboxMaxAttempts,
	)

	router := api.NewRouter(api.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		Logger:       cfg.Logger,
		JWTManager:   jwtManager,

		OwnerHandler:        ownerHttp.NewHandler(ownerService, jwtManager),
		SettingsHandler:     settingsHttp.NewHandler(settingsService),
		AccountHandler:      accountHttp.NewHandler(accountService),
		AvailabilityHandler: availabilityHttp.NewHandler(availabilityService, ownerService),
		BookingHandler:      bookingHttp.NewHandler(bookingService, ownerService),
	})

	return &Container{
		Router:       router,
		OutboxWorker: outboxWorker,
		JWTManager:   jwtManager,
	}
}

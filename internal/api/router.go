package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	accountHttp "github.com/lunarfrog/booking-link-backend/internal/account/http"
	"github.com/lunarfrog/booking-link-backend/internal/auth"
	availabilityHttp "github.com/lunarfrog/booking-link-backend/internal/availability/http"
	bookingHttp "github.com/lunarfrog/booking-link-backend/internal/booking/http"
	ownerHttp "github.com/lunarfrog/booking-link-backend/internal/owner/http"
	settingsHttp "github.com/lunarfrog/booking-link-backend/internal/settings/http"
)

// Config carries everything the router needs to assemble the API.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *slog.Logger
	JWTManager   *auth.JWTManager

	OwnerHandler        *ownerHttp.Handler
	SettingsHandler     *settingsHttp.Handler
	AccountHandler      *accountHttp.Handler
	AvailabilityHandler *availabilityHttp.Handler
	BookingHandler      *bookingHttp.Handler
}

// NewRouter initializes the HTTP router engine. It assembles middleware
// (logging, recovery, CORS) and registers routes for all modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestID(), RequestLogger(cfg.Logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		// The booking page is public; in dev, accept any local frontend.
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	v1 := r.Group("/v1")
	{
		// Guest-facing endpoints, addressed by booking-link slug.
		public := v1.Group("/public")

		ownerHttp.RegisterRoutes(v1, cfg.OwnerHandler, authMiddleware)
		settingsHttp.RegisterRoutes(v1, cfg.SettingsHandler, authMiddleware)
		accountHttp.RegisterRoutes(v1, cfg.AccountHandler, authMiddleware)
		availabilityHttp.RegisterRoutes(v1, public, cfg.AvailabilityHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, public, cfg.BookingHandler, authMiddleware)
	}

	return r
}

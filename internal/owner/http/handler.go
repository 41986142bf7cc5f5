package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lunarfrog/booking-link-backend/internal/auth"
	"github.com/lunarfrog/booking-link-backend/internal/owner"
)

type Handler struct {
	service    owner.Service
	jwtManager *auth.JWTManager
}

func NewHandler(service owner.Service, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
	}
}

// Register handles the owner registration process.
// It validates the payload and creates a new owner if the email is unique.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	o, err := h.service.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, owner.ErrEmailAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, owner.ErrEmailRequired), errors.Is(err, owner.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create owner"})
		}
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{Owner: NewOwnerResponse(o)})
}

// Login authenticates an owner using email and password.
// On success, it returns a JWT access token and the owner profile.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	o, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, owner.ErrInvalidCredentials),
			errors.Is(err, owner.ErrNotFound),
			errors.Is(err, owner.ErrInactiveOwner):
			// For security reasons, do not reveal which condition failed
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(o.ID, o.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		Owner:       NewOwnerResponse(o),
	})
}

// Me returns the profile of the authenticated owner.
func (h *Handler) Me(c *gin.Context) {
	ownerID := auth.GetOwnerID(c)
	if ownerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, owner.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "owner not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get owner"})
		return
	}

	c.JSON(http.StatusOK, MeResponse{Owner: NewOwnerResponse(o)})
}

package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"creditsvc/config"
	"creditsvc/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Handlers holds the services backing the HTTP surface
type Handlers struct {
	cfg      *config.Config
	profiles service.ProfileService
	credits  service.CreditService
}

// NewHandlers creates the HTTP handler set
func NewHandlers(cfg *config.Config, profiles service.ProfileService, credits service.CreditService) *Handlers {
	return &Handlers{
		cfg:      cfg,
		profiles: profiles,
		credits:  credits,
	}
}

// GetProfile handles GET /api/v1/profile/:anonId.
// The profile is provisioned on first access.
func (h *Handlers) GetProfile(c *gin.Context) {
	user, err := h.profiles.GetOrCreate(c.Request.Context(), c.Param("anonId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// UpdateProfile handles PATCH /api/v1/profile/:anonId
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.profiles.Update(c.Request.Context(), c.Param("anonId"), req.Name, req.AvatarURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// LinkProfile handles POST /api/v1/profile/:anonId/link
func (h *Handlers) LinkProfile(c *gin.Context) {
	var req linkUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.profiles.LinkUser(c.Request.Context(), c.Param("anonId"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// GetCredits handles GET /api/v1/credits/:anonId
func (h *Handlers) GetCredits(c *gin.Context) {
	summary, err := h.credits.GetBalance(c.Request.Context(), c.Param("anonId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCreditsResponse(summary))
}

// InitCredits handles POST /api/v1/credits/:anonId/init. Idempotent:
// repeat calls return the existing balance untouched.
func (h *Handlers) InitCredits(c *gin.Context) {
	var req initCreditsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	anonID := c.Param("anonId")
	initialAmount := h.cfg.InitialCredits
	if req.InitialAmount != nil {
		initialAmount = *req.InitialAmount
	}

	if _, err := h.credits.EnsureInitialized(c.Request.Context(), anonID, initialAmount); err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.credits.GetBalance(c.Request.Context(), anonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCreditsResponse(summary))
}

// ClaimDailyBonus handles POST /api/v1/credits/:anonId/daily-bonus
func (h *Handlers) ClaimDailyBonus(c *gin.Context) {
	summary, err := h.credits.ClaimDailyBonus(c.Request.Context(), c.Param("anonId"), h.cfg.DailyBonusAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCreditsResponse(summary))
}

// SpendCredits handles POST /api/v1/credits/:anonId/spend
func (h *Handlers) SpendCredits(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Covers malformed JSON and non-integer amounts
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	summary, err := h.credits.SpendCredits(c.Request.Context(), c.Param("anonId"), req.Amount, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCreditsResponse(summary))
}

// AdjustCredits handles POST /api/v1/credits/:anonId/adjust
func (h *Handlers) AdjustCredits(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	summary, err := h.credits.AdjustCredits(c.Request.Context(), c.Param("anonId"), req.Amount, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCreditsResponse(summary))
}

// respondError maps the service error taxonomy onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError
	var rateLimitedErr *service.RateLimitedError
	var insufficientErr *service.InsufficientBalanceError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &rateLimitedErr):
		retryAfter := int64(math.Ceil(rateLimitedErr.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":             "daily bonus already claimed today",
			"retryAfterSeconds": retryAfter,
		})
	case errors.As(err, &insufficientErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     insufficientErr.Error(),
			"balance":   insufficientErr.Balance,
			"requested": insufficientErr.Requested,
		})
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

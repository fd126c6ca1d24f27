// Package api exposes the profile store and the interaction pipeline over
// HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/crm"
	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Profiles is the profile store as the admin endpoints see it.
type Profiles interface {
	Names(ctx context.Context) ([]string, error)
	Get(ctx context.Context, name string) (models.CustomerProfile, bool, error)
	Add(ctx context.Context, name string, pastPurchases, interests []string) error
	AppendInterest(ctx context.Context, name, interest string) error
	ReplaceInterests(ctx context.Context, name string, interests []string) error
}

// Assistant runs the interaction pipeline.
type Assistant interface {
	Handle(ctx context.Context, name, text string) models.InteractionResult
	HandleObjection(ctx context.Context, name, objection string) string
	SummarizeCall(ctx context.Context, name, transcript string) models.CallSummary
}

type Handler struct {
	profiles  Profiles
	assistant Assistant
	logger    zerolog.Logger
}

func NewHandler(profiles Profiles, assistant Assistant, logger zerolog.Logger) *Handler {
	return &Handler{
		profiles:  profiles,
		assistant: assistant,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// RegisterRoutes mounts the health check and the /api routes.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	api.GET("/customers", h.ListCustomers)
	api.GET("/customers/:name", h.GetCustomer)
	api.POST("/customers", h.AddCustomer)
	api.POST("/customers/:name/interests", h.AppendInterest)
	api.PUT("/customers/:name/interests", h.ReplaceInterests)
	api.POST("/interactions", h.Interact)
	api.POST("/objections", h.Objection)
	api.POST("/summaries", h.Summary)
}

type addCustomerRequest struct {
	Name          string   `json:"name" binding:"required"`
	PastPurchases []string `json:"past_purchases"`
	Interests     []string `json:"interests"`
}

type appendInterestRequest struct {
	Interest string `json:"interest" binding:"required"`
}

type replaceInterestsRequest struct {
	Interests []string `json:"interests" binding:"required"`
}

type interactionRequest struct {
	Customer string `json:"customer" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

type objectionRequest struct {
	Customer  string `json:"customer"`
	Objection string `json:"objection" binding:"required"`
}

type summaryRequest struct {
	Customer   string `json:"customer" binding:"required"`
	Transcript string `json:"transcript" binding:"required"`
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (h *Handler) ListCustomers(c *gin.Context) {
	names, err := h.profiles.Names(c.Request.Context())
	resp := gin.H{"customers": names}
	if err != nil {
		if !errors.Is(err, crm.ErrCorruptState) {
			h.writeError(c, err)
			return
		}
		h.logger.Warn().Err(err).Msg("customer data is corrupt, serving empty list")
		resp["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	name := c.Param("name")
	profile, ok, err := h.profiles.Get(c.Request.Context(), name)
	if err != nil && !errors.Is(err, crm.ErrCorruptState) {
		h.writeError(c, err)
		return
	}
	if !ok {
		resp := gin.H{"error": fmt.Sprintf("customer %q not found", name)}
		if err != nil {
			resp["warning"] = err.Error()
		}
		c.JSON(http.StatusNotFound, resp)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) AddCustomer(c *gin.Context) {
	var req addCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if err := h.profiles.Add(c.Request.Context(), name, req.PastPurchases, req.Interests); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Successfully added %s's information to the database.", name),
	})
}

func (h *Handler) AppendInterest(c *gin.Context) {
	var req appendInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := c.Param("name")
	if err := h.profiles.AppendInterest(c.Request.Context(), name, req.Interest); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Successfully updated %s's interests.", name)})
}

func (h *Handler) ReplaceInterests(c *gin.Context) {
	var req replaceInterestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := c.Param("name")
	if err := h.profiles.ReplaceInterests(c.Request.Context(), name, req.Interests); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Successfully updated %s's interests.", name)})
}

func (h *Handler) Interact(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a query before submitting."})
		return
	}
	c.JSON(http.StatusOK, h.assistant.Handle(c.Request.Context(), req.Customer, req.Text))
}

func (h *Handler) Objection(c *gin.Context) {
	var req objectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	response := h.assistant.HandleObjection(c.Request.Context(), req.Customer, req.Objection)
	c.JSON(http.StatusOK, gin.H{"customer": req.Customer, "response": response})
}

func (h *Handler) Summary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.assistant.SummarizeCall(c.Request.Context(), req.Customer, req.Transcript))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, crm.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, crm.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, crm.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

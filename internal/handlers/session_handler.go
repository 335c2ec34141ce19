package handlers

import (
	"net/http"

	"golang-food-storefront/internal/middleware"
	"golang-food-storefront/internal/services"
	"golang-food-storefront/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	jwtManager *auth.JWTManager
	sessions   *services.CartSessions
}

func NewSessionHandler(jwtManager *auth.JWTManager, sessions *services.CartSessions) *SessionHandler {
	return &SessionHandler{
		jwtManager: jwtManager,
		sessions:   sessions,
	}
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup, sessionMiddleware *middleware.SessionMiddleware) {
	router.POST("/sessions", h.CreateSession)
	router.DELETE("/sessions", sessionMiddleware.SessionRequired(), h.EndSession)
}

// @Summary Start a cart session
// @Description Issue a new anonymous session and the bearer token that identifies its cart
// @Tags sessions
// @Produce json
// @Success 201 {object} auth.SessionToken
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	token, err := h.jwtManager.GenerateToken(uuid.NewString())
	if err != nil {
		respondError(c, "Failed to create session", err)
		return
	}

	c.JSON(http.StatusCreated, token)
}

// @Summary End a cart session
// @Description Delete the session's saved cart. The token keeps working but starts from an empty cart.
// @Tags sessions
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} map[string]string
// @Router /api/v1/sessions [delete]
func (h *SessionHandler) EndSession(c *gin.Context) {
	if err := h.sessions.Discard(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		respondError(c, "Failed to end session", err)
		return
	}

	c.Status(http.StatusNoContent)
}

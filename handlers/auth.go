package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimirs1981/employee-info/services"
)

// GoogleAuthenticator runs the OAuth code flow against Google
type GoogleAuthenticator interface {
	AuthCodeURL(ctx context.Context) (string, error)
	Exchange(ctx context.Context, state, code string) (*services.GoogleIdentity, error)
}

type AuthHandler struct {
	Google      GoogleAuthenticator
	AuthService *services.AuthService
}

func NewAuthHandler(google GoogleAuthenticator, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{Google: google, AuthService: authService}
}

// GoogleLogin handles GET /auth/google by redirecting to the consent screen
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	url, err := h.Google.AuthCodeURL(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// GoogleRedirect handles GET /auth/google/redirect
func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		log.Printf("AUTH FAILED - Google consent refused: %s", reason)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Google sign-in was cancelled"})
		return
	}

	identity, err := h.Google.Exchange(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.AuthService.GoogleLogin(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Health handles GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package middleware

import (
	"net/http"
	"strings"

	"golang-food-storefront/pkg/auth"

	"github.com/gin-gonic/gin"
)

const sessionIDKey = "session_id"

type SessionMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewSessionMiddleware(jwtManager *auth.JWTManager) *SessionMiddleware {
	return &SessionMiddleware{jwtManager: jwtManager}
}

// SessionRequired validates the cart session token and stores the session id
// in the context.
func (s *SessionMiddleware) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := s.jwtManager.ValidateToken(tokenParts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
			return
		}

		c.Set(sessionIDKey, claims.SessionID)
		c.Next()
	}
}

// GetSessionID helper function to extract session ID from context
func GetSessionID(c *gin.Context) string {
	if sessionID, exists := c.Get(sessionIDKey); exists {
		if s, ok := sessionID.(string); ok {
			return s
		}
	}
	return ""
}

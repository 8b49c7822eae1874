package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicbook/api/internal/models"
	"clinicbook/api/internal/service"
)

const sessionContextKey = "session"

// Auth resolves the session cookie into the login-time session snapshot and
// stashes it in the request context. Handlers behind it can rely on
// SessionFrom returning a live session.
func Auth(auth *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "not authenticated",
			})
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "not authenticated",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "server error",
			})
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// SessionFrom returns the session placed by Auth, if any.
func SessionFrom(c *gin.Context) (models.Session, bool) {
	val, exists := c.Get(sessionContextKey)
	if !exists {
		return models.Session{}, false
	}
	session, ok := val.(models.Session)
	return session, ok
}

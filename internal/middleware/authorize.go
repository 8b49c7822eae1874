package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinicbook/api/internal/models"
)

// RequireRoles rejects sessions whose role is not in the allowed set. There
// is no role hierarchy: an admin is not implicitly a doctor or a patient.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "not authenticated",
			})
			return
		}

		if _, ok := roleSet[session.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "forbidden",
			})
			return
		}

		c.Next()
	}
}

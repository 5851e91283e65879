package authz

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles rejects requests whose resolved user is missing (401) or whose
// role is not in roles (403). With no roles any authenticated caller passes.
// Usage: router.GET("/users", authz.RequireRoles(authz.RoleAdmin), handler)
func RequireRoles(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ContextKeyUserID); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Not authorized",
			})
			return
		}

		role := CurrentRole(c)
		if !HasRole(roles, role) {
			log.Printf("AUTHZ DENIED - User %d role %q not in required roles %v for %s %s",
				c.GetInt64(ContextKeyUserID), role, roles, c.Request.Method, c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "You don't have the required role for this action",
			})
			return
		}

		c.Next()
	}
}

// CurrentRole returns the caller's role or "" when unauthenticated
func CurrentRole(c *gin.Context) Role {
	v, ok := c.Get(ContextKeyRole)
	if !ok {
		return ""
	}
	role, _ := v.(Role)
	return role
}

// CurrentUserID returns the caller's id and whether one was resolved
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

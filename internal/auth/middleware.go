package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxUserIDKey = "auth.user_id"
const ctxUsernameKey = "auth.username"

// Identity resolves the caller's identity from a bearer token when one is
// present and valid, and never aborts the request: operations that need
// an owner receive the identity explicitly and decide for themselves.
func Identity(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			if claims, err := Parse(secret, strings.TrimPrefix(h, "Bearer ")); err == nil {
				c.Set(ctxUserIDKey, claims.UserID)
				c.Set(ctxUsernameKey, claims.Username)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id, empty when anonymous.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}

// Username returns the authenticated caller's username, empty when
// anonymous.
func Username(c *gin.Context) string {
	return c.GetString(ctxUsernameKey)
}

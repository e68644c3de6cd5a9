// Package middleware provides gin middleware for authentication and role
// gating.
package middleware

import (
	"net/http"
	"strings"

	"blogapi/database/model"
	"blogapi/web/service"
	"blogapi/web/session"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// LoadUser resolves the acting user from the cookie session or a bearer
// token and stores it in the request context. The account is re-read from
// the store so a role promotion is visible on the next request. Requests
// without credentials pass through anonymously.
func LoadUser(authService *service.AuthService, userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionUser := session.GetLoginUser(c); sessionUser != nil {
			if user, err := userService.GetUser(sessionUser.Id); err == nil {
				c.Set(userKey, user)
			}
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if user, err := authService.ValidateToken(token); err == nil {
				c.Set(userKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the acting user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *model.User {
	if val, ok := c.Get(userKey); ok {
		if user, ok := val.(*model.User); ok {
			return user
		}
	}
	return nil
}

// AuthRequired aborts anonymous requests with 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts requests whose actor is below the admin rank.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

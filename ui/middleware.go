package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/core"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tracker"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/ports"
)

const sessionKey = "session"

// SessionMiddleware loads the caller's identity once at request start. The
// session is immutable for the request; handlers read it from the context
// instead of consulting globals. The gateway in front of this service
// authenticates and forwards identity headers.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-Id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing identity",
				"code":  "UNAUTHORIZED",
			})
			return
		}
		c.Set(sessionKey, ports.Session{
			UserID: core.ID(userID),
			Name:   c.GetHeader("X-User-Name"),
			Role:   tracker.Role(c.GetHeader("X-User-Role")),
		})
		c.Next()
	}
}

// sessionFrom returns the session loaded by the middleware.
func sessionFrom(c *gin.Context) ports.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(ports.Session); ok {
			return s
		}
	}
	return ports.Session{}
}

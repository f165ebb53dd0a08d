package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/heartbeat/internal/auth"
	"github.com/pulseboard/heartbeat/internal/server/handler"
)

// CORS returns a Gin middleware that handles Cross-Origin Resource Sharing.
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[strings.TrimRight(origin, "/")] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Access-Control-Max-Age", "86400")

			if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}

		c.Next()
	}
}

// SubjectAuth returns a middleware that verifies the caller's id/secret pair
// before dispatch. Failures go through the operation error channel, not a
// transport status, so the client keeps its single error convention; the
// message tells it to drop its cached credential and re-bind.
func SubjectAuth(authn *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authn.RequireAuth() {
			c.Next()
			return
		}

		id := c.Request.FormValue("id")
		secret := c.Request.FormValue("secret")
		if id == "" || secret == "" {
			handler.Fail(c, "'id' and 'secret' parameters must be present")
			c.Abort()
			return
		}
		if err := authn.Verify(id, secret); err != nil {
			handler.Fail(c, err.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}

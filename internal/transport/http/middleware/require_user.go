package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/transport/http/session"
)

const MsgAccessUnauthorized = "Access unauthorized."

// RequireUser stops anonymous requests with a notice and a redirect home.
func RequireUser(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		if s := CurrentSession(c); s != nil {
			manager.Flash(c.Request.Context(), s, session.FlashDanger, MsgAccessUnauthorized)
		}
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}

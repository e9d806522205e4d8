package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/model"
	"warbler/internal/transport/http/session"
)

const (
	ContextSessionKey = "session"
	ContextUserKey    = "current_user"
)

type UserLookup interface {
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

// LoadSession attaches the session and, when logged in, the current user to
// the request context. A session pointing at a deleted user is logged out.
func LoadSession(manager *session.Manager, users UserLookup, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := manager.Load(c)
		c.Set(ContextSessionKey, s)

		if s.Authenticated() {
			user, err := users.GetUserByID(c.Request.Context(), s.UserID)
			if err != nil {
				logger.ErrorContext(c.Request.Context(), "load current user failed",
					slog.Uint64("user_id", uint64(s.UserID)),
					slog.String("error", err.Error()),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			if user == nil {
				manager.Logout(c, s)
			} else {
				c.Set(ContextUserKey, user)
			}
		}
		c.Next()
	}
}

func CurrentSession(c *gin.Context) *session.Session {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil
	}
	s, _ := value.(*session.Session)
	return s
}

// CurrentUser is nil for anonymous requests.
func CurrentUser(c *gin.Context) *model.User {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*model.User)
	return user
}

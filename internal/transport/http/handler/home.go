package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/app"
	"warbler/internal/transport/http/session"
)

type HomeHandler struct {
	pages
	messageService *app.MessageService
	socialService  *app.SocialService
}

func NewHomeHandler(messageService *app.MessageService, socialService *app.SocialService, sessions *session.Manager, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		pages:          newPages(sessions, logger),
		messageService: messageService,
		socialService:  socialService,
	}
}

// Home shows the feed to logged-in users and the landing page otherwise.
func (h *HomeHandler) Home(c *gin.Context) {
	me := currentUser(c)
	if me == nil {
		h.render(c, http.StatusOK, "home-anon", nil)
		return
	}
	ctx := c.Request.Context()

	feed, err := h.messageService.Feed(ctx, me.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	liked, err := h.socialService.LikedMessageIDs(ctx, me.ID, feed)
	if err != nil {
		h.fail(c, err)
		return
	}
	summary, err := h.socialService.Summary(ctx, me.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "home", gin.H{
		"Messages": feed,
		"Liked":    liked,
		"Stats":    summary.Stats,
	})
}

func (h *HomeHandler) NotFound(c *gin.Context) {
	h.notFound(c)
}

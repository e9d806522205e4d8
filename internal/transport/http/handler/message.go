package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/app"
	"warbler/internal/transport/http/middleware"
	"warbler/internal/transport/http/response"
	"warbler/internal/transport/http/session"
)

type MessageHandler struct {
	pages
	messageService *app.MessageService
	socialService  *app.SocialService
}

type MessageRequest struct {
	Text string `form:"text" binding:"required,max=140"`
}

func NewMessageHandler(messageService *app.MessageService, socialService *app.SocialService, sessions *session.Manager, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		pages:          newPages(sessions, logger),
		messageService: messageService,
		socialService:  socialService,
	}
}

func (h *MessageHandler) NewForm(c *gin.Context) {
	h.render(c, http.StatusOK, "messages/new", gin.H{"Form": MessageRequest{}, "Errors": map[string]string{}})
}

func (h *MessageHandler) Create(c *gin.Context) {
	me := currentUser(c)
	var req MessageRequest
	bindErr := c.ShouldBind(&req)

	if !h.validCSRF(c) {
		h.flash(c, session.FlashDanger, msgInvalidCSRF)
		h.render(c, http.StatusOK, "messages/new", gin.H{"Form": req, "Errors": map[string]string{}})
		return
	}
	if bindErr != nil {
		h.render(c, http.StatusOK, "messages/new", gin.H{"Form": req, "Errors": fieldErrors(bindErr)})
		return
	}

	if _, err := h.messageService.Create(c.Request.Context(), me.ID, req.Text); err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty):
			h.render(c, http.StatusOK, "messages/new", gin.H{"Form": req, "Errors": map[string]string{"text": "This field is required."}})
		case errors.Is(err, app.ErrMessageTooLong):
			h.render(c, http.StatusOK, "messages/new", gin.H{"Form": req, "Errors": map[string]string{"text": "Field cannot be longer than 140 characters."}})
		default:
			h.fail(c, fmt.Errorf("create message: %w", err))
		}
		return
	}
	response.Redirect(c, userPath(me.ID, ""))
}

func (h *MessageHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.notFound(c)
		return
	}
	ctx := c.Request.Context()

	message, err := h.messageService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, app.ErrMessageNotFound) {
			h.notFound(c)
			return
		}
		h.fail(c, err)
		return
	}
	liked, err := h.socialService.HasLiked(ctx, currentUser(c).ID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "messages/show", gin.H{"Message": message, "HasLiked": liked})
}

func (h *MessageHandler) Delete(c *gin.Context) {
	me := currentUser(c)
	if !h.validCSRF(c) {
		response.Redirect(c, userPath(me.ID, ""))
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		h.notFound(c)
		return
	}

	if err := h.messageService.Delete(c.Request.Context(), me.ID, id); err != nil {
		switch {
		case errors.Is(err, app.ErrMessageNotFound):
			h.notFound(c)
		case errors.Is(err, app.ErrNotMessageOwner):
			h.flash(c, session.FlashDanger, middleware.MsgAccessUnauthorized)
			response.Redirect(c, "/")
		default:
			h.fail(c, err)
		}
		return
	}
	response.Redirect(c, userPath(me.ID, ""))
}

func (h *MessageHandler) Like(c *gin.Context) {
	me := currentUser(c)
	redirect := userPath(me.ID, "/likes")
	if !h.validCSRF(c) {
		response.Redirect(c, redirect)
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		h.notFound(c)
		return
	}

	if err := h.socialService.Like(c.Request.Context(), me.ID, id); err != nil {
		if errors.Is(err, app.ErrMessageNotFound) {
			h.notFound(c)
			return
		}
		h.fail(c, err)
		return
	}
	response.Redirect(c, redirect)
}

func (h *MessageHandler) Unlike(c *gin.Context) {
	me := currentUser(c)
	redirect := userPath(me.ID, "/likes")
	if !h.validCSRF(c) {
		response.Redirect(c, redirect)
		return
	}
	if id, ok := parseID(c, "id"); ok {
		if err := h.socialService.Unlike(c.Request.Context(), me.ID, id); err != nil {
			h.fail(c, err)
			return
		}
	}
	response.Redirect(c, redirect)
}

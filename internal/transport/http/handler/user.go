package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/app"
	"warbler/internal/model"
	"warbler/internal/transport/http/middleware"
	"warbler/internal/transport/http/response"
	"warbler/internal/transport/http/session"
)

const msgCannotFollowSelf = "You cannot follow yourself."

type UserHandler struct {
	pages
	authService   *app.AuthService
	socialService *app.SocialService
}

type ProfileRequest struct {
	Username       string `form:"username" binding:"required,max=64"`
	Email          string `form:"email" binding:"required,email,max=128"`
	ImageURL       string `form:"image_url" binding:"omitempty,max=512"`
	HeaderImageURL string `form:"header_image_url" binding:"omitempty,max=512"`
	Bio            string `form:"bio"`
	Location       string `form:"location" binding:"max=128"`
	Password       string `form:"password" binding:"required"`
}

func NewUserHandler(authService *app.AuthService, socialService *app.SocialService, sessions *session.Manager, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		pages:         newPages(sessions, logger),
		authService:   authService,
		socialService: socialService,
	}
}

func (h *UserHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	query := c.Query("q")
	users, err := h.socialService.ListUsers(ctx, query)
	if err != nil {
		h.fail(c, err)
		return
	}
	followed, err := h.socialService.FollowedIDs(ctx, currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "users/index", gin.H{
		"Users":       users,
		"Query":       query,
		"FollowedIDs": followed,
	})
}

func (h *UserHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.notFound(c)
		return
	}
	ctx := c.Request.Context()
	me := currentUser(c)

	profile, err := h.socialService.Profile(ctx, id)
	if err != nil {
		h.userError(c, err)
		return
	}
	liked, err := h.socialService.LikedMessageIDs(ctx, me.ID, profile.Messages)
	if err != nil {
		h.fail(c, err)
		return
	}
	following, err := h.socialService.IsFollowing(ctx, me.ID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "users/show", gin.H{
		"Summary":     profile.UserSummary,
		"Messages":    profile.Messages,
		"Liked":       liked,
		"IsFollowing": following,
	})
}

func (h *UserHandler) Following(c *gin.Context) {
	h.showUsers(c, "users/following", h.socialService.Following)
}

func (h *UserHandler) Followers(c *gin.Context) {
	h.showUsers(c, "users/followers", h.socialService.Followers)
}

func (h *UserHandler) showUsers(c *gin.Context, page string, list func(ctx context.Context, userID uint) ([]model.User, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		h.notFound(c)
		return
	}
	ctx := c.Request.Context()
	me := currentUser(c)

	summary, err := h.socialService.Summary(ctx, id)
	if err != nil {
		h.userError(c, err)
		return
	}
	users, err := list(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	followed, err := h.socialService.FollowedIDs(ctx, me.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, page, gin.H{
		"Summary":     summary,
		"Users":       users,
		"FollowedIDs": followed,
		"IsFollowing": followed[id],
	})
}

func (h *UserHandler) Likes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.notFound(c)
		return
	}
	ctx := c.Request.Context()
	me := currentUser(c)

	summary, err := h.socialService.Summary(ctx, id)
	if err != nil {
		h.userError(c, err)
		return
	}
	messages, err := h.socialService.LikedMessages(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	liked, err := h.socialService.LikedMessageIDs(ctx, me.ID, messages)
	if err != nil {
		h.fail(c, err)
		return
	}
	following, err := h.socialService.IsFollowing(ctx, me.ID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "users/likes", gin.H{
		"Summary":     summary,
		"Messages":    messages,
		"Liked":       liked,
		"IsFollowing": following,
	})
}

func (h *UserHandler) Follow(c *gin.Context) {
	me := currentUser(c)
	redirect := userPath(me.ID, "/following")
	if !h.validCSRF(c) {
		response.Redirect(c, redirect)
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		h.notFound(c)
		return
	}

	if err := h.socialService.Follow(c.Request.Context(), me.ID, id); err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			h.notFound(c)
			return
		case errors.Is(err, app.ErrCannotFollowSelf):
			h.flash(c, session.FlashDanger, msgCannotFollowSelf)
		default:
			h.fail(c, err)
			return
		}
	}
	response.Redirect(c, redirect)
}

func (h *UserHandler) StopFollowing(c *gin.Context) {
	me := currentUser(c)
	redirect := userPath(me.ID, "/following")
	if !h.validCSRF(c) {
		response.Redirect(c, redirect)
		return
	}
	if id, ok := parseID(c, "id"); ok {
		if err := h.socialService.Unfollow(c.Request.Context(), me.ID, id); err != nil {
			h.fail(c, err)
			return
		}
	}
	response.Redirect(c, redirect)
}

func (h *UserHandler) ProfileForm(c *gin.Context) {
	me := currentUser(c)
	h.render(c, http.StatusOK, "users/edit", gin.H{
		"Form": ProfileRequest{
			Username:       me.Username,
			Email:          me.Email,
			ImageURL:       me.ImageURL,
			HeaderImageURL: me.HeaderImageURL,
			Bio:            me.Bio,
			Location:       me.Location,
		},
		"Errors": map[string]string{},
	})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	me := currentUser(c)
	var req ProfileRequest
	bindErr := c.ShouldBind(&req)
	password := req.Password
	req.Password = ""

	if !h.validCSRF(c) {
		h.flash(c, session.FlashDanger, msgInvalidCSRF)
		h.render(c, http.StatusOK, "users/edit", gin.H{"Form": req, "Errors": map[string]string{}})
		return
	}
	if bindErr != nil {
		h.render(c, http.StatusOK, "users/edit", gin.H{"Form": req, "Errors": fieldErrors(bindErr)})
		return
	}

	_, err := h.authService.UpdateProfile(c.Request.Context(), me.ID, app.ProfileInput{
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
		Password:       password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidCredential):
			h.flash(c, session.FlashDanger, "Invalid credentials")
		case errors.Is(err, app.ErrUsernameOrEmailTaken):
			h.flash(c, session.FlashDanger, msgTaken)
		case errors.Is(err, app.ErrUsernameRequired), errors.Is(err, app.ErrEmailRequired):
			h.flash(c, session.FlashDanger, err.Error())
		default:
			h.fail(c, fmt.Errorf("update profile: %w", err))
			return
		}
		h.render(c, http.StatusOK, "users/edit", gin.H{"Form": req, "Errors": map[string]string{}})
		return
	}
	response.Redirect(c, userPath(me.ID, ""))
}

func (h *UserHandler) Delete(c *gin.Context) {
	if h.validCSRF(c) {
		me := currentUser(c)
		if err := h.authService.DeleteAccount(c.Request.Context(), me.ID); err != nil && !errors.Is(err, app.ErrUserNotFound) {
			h.fail(c, fmt.Errorf("delete account: %w", err))
			return
		}
		h.sessions.Logout(c, middleware.CurrentSession(c))
	}
	response.Redirect(c, "/signup")
}

func (h *UserHandler) userError(c *gin.Context, err error) {
	if errors.Is(err, app.ErrUserNotFound) {
		h.notFound(c)
		return
	}
	h.fail(c, err)
}

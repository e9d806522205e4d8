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

const (
	msgInvalidCSRF     = "Your form expired. Please try again."
	msgTaken           = "Username or email already taken"
	msgBadLogin        = "Invalid credentials."
	msgLogoutSucceeded = "User logout successful"
	msgPasswordTooLong = "Password is too long."
)

type AuthHandler struct {
	pages
	authService *app.AuthService
}

type SignupRequest struct {
	Username string `form:"username" binding:"required,max=64"`
	Email    string `form:"email" binding:"required,email,max=128"`
	Password string `form:"password" binding:"required,min=6,max=72"`
	ImageURL string `form:"image_url" binding:"omitempty,max=512"`
}

type LoginRequest struct {
	Username string `form:"username" binding:"required,max=64"`
	Password string `form:"password" binding:"required,min=6,max=72"`
}

func NewAuthHandler(authService *app.AuthService, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{pages: newPages(sessions, logger), authService: authService}
}

func (h *AuthHandler) SignupForm(c *gin.Context) {
	h.render(c, http.StatusOK, "users/signup", gin.H{"Form": SignupRequest{}, "Errors": map[string]string{}})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	bindErr := c.ShouldBind(&req)
	password := req.Password
	req.Password = ""

	if !h.validCSRF(c) {
		h.flash(c, session.FlashDanger, msgInvalidCSRF)
		h.render(c, http.StatusOK, "users/signup", gin.H{"Form": req, "Errors": map[string]string{}})
		return
	}
	if bindErr != nil {
		h.render(c, http.StatusOK, "users/signup", gin.H{"Form": req, "Errors": fieldErrors(bindErr)})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), app.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: password,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		errs := map[string]string{}
		switch {
		case errors.Is(err, app.ErrPasswordTooLong):
			errs["password"] = msgPasswordTooLong
		case errors.Is(err, app.ErrUsernameOrEmailTaken):
			h.flash(c, session.FlashDanger, msgTaken)
		case errors.Is(err, app.ErrPasswordRequired),
			errors.Is(err, app.ErrUsernameRequired),
			errors.Is(err, app.ErrEmailRequired):
			h.flash(c, session.FlashDanger, err.Error())
		default:
			h.fail(c, fmt.Errorf("signup: %w", err))
			return
		}
		h.render(c, http.StatusOK, "users/signup", gin.H{"Form": req, "Errors": errs})
		return
	}

	h.sessions.Login(c, middleware.CurrentSession(c), user.ID)
	response.Redirect(c, "/")
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "users/login", gin.H{"Form": LoginRequest{}, "Errors": map[string]string{}})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	bindErr := c.ShouldBind(&req)
	password := req.Password
	req.Password = ""

	if !h.validCSRF(c) {
		h.flash(c, session.FlashDanger, msgInvalidCSRF)
		h.render(c, http.StatusOK, "users/login", gin.H{"Form": req, "Errors": map[string]string{}})
		return
	}
	if bindErr != nil {
		h.render(c, http.StatusOK, "users/login", gin.H{"Form": req, "Errors": fieldErrors(bindErr)})
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), req.Username, password)
	if err != nil {
		if !errors.Is(err, app.ErrInvalidCredential) {
			h.fail(c, fmt.Errorf("login: %w", err))
			return
		}
		h.flash(c, session.FlashDanger, msgBadLogin)
		h.render(c, http.StatusOK, "users/login", gin.H{"Form": req, "Errors": map[string]string{}})
		return
	}

	s := middleware.CurrentSession(c)
	h.sessions.Login(c, s, user.ID)
	h.sessions.Flash(c.Request.Context(), s, session.FlashSuccess, fmt.Sprintf("Hello, %s!", user.Username))
	response.Redirect(c, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if h.validCSRF(c) {
		s := middleware.CurrentSession(c)
		h.sessions.Logout(c, s)
		h.sessions.Flash(c.Request.Context(), s, session.FlashSuccess, msgLogoutSucceeded)
	}
	response.Redirect(c, "/")
}

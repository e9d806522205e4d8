package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"warbler/internal/model"
	"warbler/internal/transport/http/middleware"
	"warbler/internal/transport/http/response"
	"warbler/internal/transport/http/session"
)

// pages renders templates with the per-request values every layout needs.
type pages struct {
	sessions *session.Manager
	logger   *slog.Logger
}

func newPages(sessions *session.Manager, logger *slog.Logger) pages {
	if logger == nil {
		logger = slog.Default()
	}
	return pages{sessions: sessions, logger: logger}
}

func (p pages) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = middleware.CurrentUser(c)
	if s := middleware.CurrentSession(c); s != nil {
		data["CSRFToken"] = s.CSRFToken
		data["Flashes"] = p.sessions.PopFlashes(c.Request.Context(), s)
	}
	response.Page(c, status, name, data)
}

func (p pages) flash(c *gin.Context, category, message string) {
	if s := middleware.CurrentSession(c); s != nil {
		p.sessions.Flash(c.Request.Context(), s, category, message)
	}
}

func (p pages) notFound(c *gin.Context) {
	p.render(c, http.StatusNotFound, response.PageNotFound, nil)
}

func (p pages) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	p.logger.ErrorContext(c.Request.Context(), "request failed",
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	p.render(c, http.StatusInternalServerError, response.PageInternalError, nil)
}

// validCSRF checks the csrf_token form field against the session.
func (p pages) validCSRF(c *gin.Context) bool {
	return p.sessions.ValidCSRF(middleware.CurrentSession(c), c.PostForm("csrf_token"))
}

// currentUser is only called behind RequireUser.
func currentUser(c *gin.Context) *model.User {
	return middleware.CurrentUser(c)
}

func userPath(id uint, suffix string) string {
	return fmt.Sprintf("/users/%d%s", id, suffix)
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Validation errors report the form field name instead of the struct field.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			return name
		})
	}
}

// fieldErrors turns binding failures into messages keyed by form field.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Invalid form submission."
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "url":
		return "Invalid URL."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

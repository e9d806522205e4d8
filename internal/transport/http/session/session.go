package session

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"warbler/internal/cache"
	"warbler/internal/observability"
	"warbler/internal/pkg/jwtutil"
)

const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// Session is the per-browser state carried by the signed cookie. Only
// UserID is authentication state.
type Session struct {
	ID        string
	UserID    uint
	CSRFToken string
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}

type Options struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type Manager struct {
	opts    Options
	flashes cache.FlashStore
	logger  *slog.Logger
}

func NewManager(opts Options, flashes cache.FlashStore, logger *slog.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "warbler_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	if flashes == nil {
		flashes = cache.NewMemoryFlashStore(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{opts: opts, flashes: flashes, logger: logger}
}

func (m *Manager) CookieName() string {
	return m.opts.CookieName
}

// Load reads the session cookie. A missing, expired or tampered cookie
// yields a fresh anonymous session which is written back immediately.
func (m *Manager) Load(c *gin.Context) *Session {
	if raw, err := c.Cookie(m.opts.CookieName); err == nil && raw != "" {
		claims, err := jwtutil.ParseToken(m.opts.Secret, raw)
		if err == nil {
			return &Session{ID: claims.SessionID, UserID: claims.UserID, CSRFToken: claims.CSRFToken}
		}
		m.logger.DebugContext(c.Request.Context(), "discarding session cookie", slog.String("error", err.Error()))
	}

	s := &Session{ID: uuid.NewString(), CSRFToken: uuid.NewString()}
	m.Save(c, s)
	return s
}

func (m *Manager) Save(c *gin.Context, s *Session) {
	token, err := jwtutil.GenerateToken(m.opts.Secret, m.opts.TTL, s.ID, s.UserID, s.CSRFToken)
	if err != nil {
		m.logger.ErrorContext(c.Request.Context(), "sign session cookie failed", slog.String("error", err.Error()))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, token, int(m.opts.TTL.Seconds()), "/", "", m.opts.Secure, true)
}

// Login binds the user to the session and rotates the CSRF token.
func (m *Manager) Login(c *gin.Context, s *Session, userID uint) {
	s.UserID = userID
	s.CSRFToken = uuid.NewString()
	m.Save(c, s)
}

func (m *Manager) Logout(c *gin.Context, s *Session) {
	s.UserID = 0
	s.CSRFToken = uuid.NewString()
	m.Save(c, s)
}

// ValidCSRF compares the submitted token with the session token in constant time.
func (m *Manager) ValidCSRF(s *Session, submitted string) bool {
	if s == nil || s.CSRFToken == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(submitted)) == 1
}

// Flash queues a notice for the next rendered page. Store failures are
// logged; a lost notice never fails the request.
func (m *Manager) Flash(ctx context.Context, s *Session, category, message string) {
	if err := m.flashes.Add(ctx, s.ID, cache.Flash{Category: category, Message: message}); err != nil {
		observability.FlashStoreErrors.WithLabelValues("add").Inc()
		m.logger.WarnContext(ctx, "store flash failed", slog.String("error", err.Error()))
	}
}

func (m *Manager) PopFlashes(ctx context.Context, s *Session) []cache.Flash {
	flashes, err := m.flashes.Pop(ctx, s.ID)
	if err != nil {
		observability.FlashStoreErrors.WithLabelValues("pop").Inc()
		m.logger.WarnContext(ctx, "read flashes failed", slog.String("error", err.Error()))
		return nil
	}
	return flashes
}

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/cache"
	"warbler/internal/pkg/jwtutil"
)

func newManager() *Manager {
	return NewManager(Options{Secret: "secret", TTL: time.Hour}, cache.NewMemoryFlashStore(time.Minute), nil)
}

func newContext(cookie *http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		c.Request.AddCookie(cookie)
	}
	return c, w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "warbler_session" {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLoad_NewSessionWritesCookie(t *testing.T) {
	m := newManager()
	c, w := newContext(nil)

	s := m.Load(c)
	assert.NotEmpty(t, s.ID)
	assert.NotEmpty(t, s.CSRFToken)
	assert.False(t, s.Authenticated())

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	claims, err := jwtutil.ParseToken("secret", cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, s.ID, claims.SessionID)
}

func TestLogin_RoundTrip(t *testing.T) {
	m := newManager()
	c, w := newContext(nil)
	s := m.Load(c)
	oldCSRF := s.CSRFToken
	m.Login(c, s, 7)
	assert.NotEqual(t, oldCSRF, s.CSRFToken)

	cookies := w.Result().Cookies()
	next, _ := newContext(cookies[len(cookies)-1])
	loaded := m.Load(next)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, uint(7), loaded.UserID)
	assert.True(t, loaded.Authenticated())

	m.Logout(next, loaded)
	assert.False(t, loaded.Authenticated())
}

func TestLoad_TamperedCookieStartsOver(t *testing.T) {
	m := newManager()
	forged, err := jwtutil.GenerateToken("other-secret", time.Hour, "sid", 1, "csrf")
	require.NoError(t, err)
	c, _ := newContext(&http.Cookie{Name: "warbler_session", Value: forged})

	s := m.Load(c)
	assert.NotEqual(t, "sid", s.ID)
	assert.Zero(t, s.UserID)
}

func TestValidCSRF(t *testing.T) {
	m := newManager()
	s := &Session{ID: "sid", CSRFToken: "token"}

	assert.True(t, m.ValidCSRF(s, "token"))
	assert.False(t, m.ValidCSRF(s, "tokens"))
	assert.False(t, m.ValidCSRF(s, ""))
	assert.False(t, m.ValidCSRF(&Session{ID: "sid"}, ""))
	assert.False(t, m.ValidCSRF(nil, "token"))
}

func TestFlashes(t *testing.T) {
	m := newManager()
	s := &Session{ID: "sid"}
	ctx := context.Background()

	m.Flash(ctx, s, FlashDanger, "Access unauthorized.")
	flashes := m.PopFlashes(ctx, s)
	require.Len(t, flashes, 1)
	assert.Equal(t, cache.Flash{Category: FlashDanger, Message: "Access unauthorized."}, flashes[0])
	assert.Empty(t, m.PopFlashes(ctx, s))
}

package web

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer_AllPagesParse(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for _, name := range []string{
		"home", "home-anon", "404", "500",
		"users/signup", "users/login", "users/index", "users/show",
		"users/following", "users/followers", "users/likes", "users/edit",
		"messages/new", "messages/show",
	} {
		assert.True(t, r.Has(name), name)
	}
}

func TestRenderer_RendersLayout(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, r.Instance("404", map[string]any{}).Render(w))
	assert.Contains(t, w.Body.String(), "<html")
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestStatic_ServesStylesheet(t *testing.T) {
	f, err := Static().Open("css/style.css")
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, f)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"warbler/internal/bootstrap"
	"warbler/internal/config"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	return gormDB, mock
}

type healthBody struct {
	App          string                      `json:"app"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func runHealth(t *testing.T, app *bootstrap.App) (int, healthBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/healthz", NewHealthHandler(app).Check)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body healthBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Name: "warbler", Env: "test"}}
}

func TestHealth_OptionalDependenciesDisabled(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectPing()

	code, body := runHealth(t, &bootstrap.App{Config: testConfig(), DB: db, StartedAt: time.Now()})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "warbler", body.App)
	assert.True(t, body.Dependencies["database"].OK)
	assert.Equal(t, disabled, body.Dependencies["redis"])
	assert.Equal(t, disabled, body.Dependencies["rabbitmq"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHealth_DatabaseDown(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	code, body := runHealth(t, &bootstrap.App{Config: testConfig(), DB: db, StartedAt: time.Now()})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, body.Dependencies["database"].OK)
	assert.Contains(t, body.Dependencies["database"].Message, "connection refused")
}

func TestHealth_Redis(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectPing()
	mock.ExpectPing()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	app := &bootstrap.App{Config: testConfig(), DB: db, Redis: client, StartedAt: time.Now()}

	code, body := runHealth(t, app)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, dependencyStatus{OK: true}, body.Dependencies["redis"])

	mr.Close()
	code, body = runHealth(t, app)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, body.Dependencies["redis"].OK)
}

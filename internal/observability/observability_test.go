package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestNewLogger_JSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "prod", "info")
	logger.Debug("hidden")
	logger.Info("visible", slog.String("user", "jeanne"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "jeanne", entry["user"])
}

func TestNewLogger_TextInDev(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "dev", "debug").Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/users/:id", "200"))
	ObserveRequest(http.MethodGet, "/users/:id", http.StatusOK, time.Now())
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/users/:id", "200"))
	assert.Equal(t, before+1, after)

	ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Now())
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestRecordActivity(t *testing.T) {
	RecordActivity("user.followed")
	RecordActivity("user.followed")
	assert.Equal(t, float64(2), testutil.ToFloat64(ActivityTotal.WithLabelValues("user.followed")))
}

package loggingmw

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/logging"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "debug"), "/health"))
	e.GET("/ok", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside")
		return c.NoContent(http.StatusOK)
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, p := range []string{"/ok", "/missing", "/boom", "/health/live"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		req.Header.Set(echo.HeaderXRequestID, "rid-"+p)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, "rid-"+p, rec.Header().Get(echo.HeaderXRequestID))
	}

	got := lines(t, &buf)
	require.Len(t, got, 5)

	assert.Equal(t, "inside", got[0]["msg"])
	assert.Equal(t, "rid-/ok", got[0]["request_id"])

	wantLevels := []string{"INFO", "WARN", "ERROR", "DEBUG"}
	wantStatus := []float64{200, 404, 500, 200}
	for i, line := range got[1:] {
		assert.Equal(t, "request completed", line["msg"])
		assert.Equal(t, wantLevels[i], line["level"])
		assert.Equal(t, wantStatus[i], line["status"])
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func corsEcho() *echo.Echo {
	e := echo.New()
	e.Use(CORS(CORSConfig{
		AllowOrigins:  []string{"https://amldash.webflow.io", "https://staging.amldash.webflow.io"},
		DefaultOrigin: "https://amldash.webflow.io",
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "Authorization"},
	}))
	e.GET("/api/rating", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})
	return e
}

func TestCORSAllowedOriginReflected(t *testing.T) {
	e := corsEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/rating", nil)
	req.Header.Set(echo.HeaderOrigin, "https://staging.amldash.webflow.io")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://staging.amldash.webflow.io" {
		t.Fatalf("expected reflected origin, got %q", got)
	}
}

func TestCORSUnknownOriginFallsBack(t *testing.T) {
	e := corsEcho()
	req := httptest.NewRequest(http.MethodGet, "/api/rating", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://amldash.webflow.io" {
		t.Fatalf("expected default origin, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	e := corsEcho()
	req := httptest.NewRequest(http.MethodOptions, "/api/rating", nil)
	req.Header.Set(echo.HeaderOrigin, "https://amldash.webflow.io")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty preflight body, got %q", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatalf("expected Allow-Methods header")
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	// AllowOrigins is the exact-match allow-list of request origins.
	AllowOrigins []string
	// DefaultOrigin is reflected when the request origin is absent or not
	// allow-listed. With an empty DefaultOrigin such requests get no CORS
	// headers at all.
	DefaultOrigin string
	AllowMethods  []string
	AllowHeaders  []string
}

// CORS returns CORS middleware that reflects allow-listed origins and falls
// back to the configured default origin otherwise. Preflight requests are
// answered with 204 and no body.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		allowed[o] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get(echo.HeaderOrigin)

			header := cfg.DefaultOrigin
			if _, ok := allowed[origin]; ok {
				header = origin
			}

			if header != "" {
				c.Response().Header().Set("Access-Control-Allow-Origin", header)
			}
			if len(cfg.AllowMethods) > 0 {
				c.Response().Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
			}
			if len(cfg.AllowHeaders) > 0 {
				c.Response().Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
			}

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}

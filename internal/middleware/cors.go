package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/cors"
)

// CORS applies cross-origin headers to requests under prefix. It runs as a
// global middleware so preflight requests are answered even though no
// OPTIONS route is registered.
func CORS(prefix string, origins []string) echo.MiddlewareFunc {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{echo.HeaderContentType},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	wrap := echo.WrapMiddleware(c.Handler)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withCORS := wrap(next)
		return func(ctx echo.Context) error {
			if strings.HasPrefix(ctx.Request().URL.Path, prefix) {
				return withCORS(ctx)
			}
			return next(ctx)
		}
	}
}

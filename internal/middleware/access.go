package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/flash"
	"storefront/internal/model"
)

// LoginPath is where anonymous HTML requests are sent.
const LoginPath = "/login"

// RequireLogin redirects anonymous requests to the login page. A non-empty
// message is flashed first.
func RequireLogin(message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if PrincipalFrom(c) == nil {
				if message != "" {
					flash.Add(c, message)
				}
				return c.Redirect(http.StatusFound, LoginPath)
			}
			return next(c)
		}
	}
}

// RequireRole redirects to the login page, flashing message, unless the
// principal holds one of roles.
func RequireRole(message string, roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := auth.RequireRole(PrincipalFrom(c), roles...); err != nil {
				if message != "" {
					flash.Add(c, message)
				}
				return c.Redirect(http.StatusFound, LoginPath)
			}
			return next(c)
		}
	}
}

// RequireAPILogin rejects anonymous API requests with 401.
func RequireAPILogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if PrincipalFrom(c) == nil {
				return c.JSON(http.StatusUnauthorized, errors.ErrorResponse{Error: errors.ErrNotAuthenticated.Error()})
			}
			return next(c)
		}
	}
}
